package analyzer

import (
	"context"
	"strings"
)

var hesitationMarkers = map[string]bool{
	"um": true, "uh": true, "er": true, "ah": true,
	"hmm": true, "well": true, "like": true,
}

var questionWords = map[string]bool{
	"what": true, "why": true, "how": true, "when": true,
	"where": true, "who": true, "huh": true,
}

// ProsodicExtractor estimates confusion from text-level prosody proxies:
// speech rate against the window duration hint, hesitation markers,
// question indicators, and pause punctuation.
type ProsodicExtractor struct{}

func NewProsodicExtractor() *ProsodicExtractor { return &ProsodicExtractor{} }

func (e *ProsodicExtractor) Name() string { return NameProsodic }

func (e *ProsodicExtractor) Extract(_ context.Context, w Window) (Score, error) {
	words := strings.Fields(w.Text)
	wordCount := len(words)

	dur := w.DurationSeconds
	if dur < 0.1 {
		dur = 0.1
	}
	speechRate := float64(wordCount) / dur

	hesitations := 0
	questions := strings.Count(w.Text, "?")
	for _, raw := range words {
		token := strings.ToLower(strings.Trim(raw, ".,!?"))
		if hesitationMarkers[token] {
			hesitations++
		}
		if questionWords[token] {
			questions++
		}
	}

	pauses := strings.Count(w.Text, "...") + strings.Count(w.Text, "..")
	denom := wordCount
	if denom < 1 {
		denom = 1
	}
	pauseRatio := float64(pauses) / float64(denom)
	if pauseRatio > 1 {
		pauseRatio = 1
	}

	confusion := clamp01(float64(hesitations)*0.15 + float64(questions)*0.1 + pauseRatio*0.3)

	return Score{
		Name:  NameProsodic,
		Value: confusion,
		Detail: map[string]float64{
			"speech_rate":         speechRate,
			"pause_ratio":         pauseRatio,
			"hesitation_count":    float64(hesitations),
			"question_indicators": float64(questions),
		},
	}, nil
}
