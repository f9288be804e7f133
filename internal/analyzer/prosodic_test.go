package analyzer

import (
	"context"
	"math"
	"testing"
)

func TestProsodicExtract(t *testing.T) {
	tests := []struct {
		name            string
		text            string
		duration        float64
		wantHesitations float64
		wantQuestions   float64
		wantConfusion   float64
	}{
		{
			name:          "plain statement",
			text:          "I went to the market this morning",
			duration:      3,
			wantConfusion: 0,
		},
		{
			name:            "hesitation markers",
			text:            "um well I uh think so",
			duration:        3,
			wantHesitations: 3,
			wantConfusion:   0.45,
		},
		{
			name:          "question marks and question words",
			text:          "what? who is this?",
			duration:      2,
			wantQuestions: 4, // two "?" plus "what" and "who"
			wantConfusion: 0.4,
		},
		{
			name:     "pause ellipses",
			text:     "I... I don't know",
			duration: 3,
			// "..." counts once and its tail ".." once more, over 4 words.
			wantConfusion: 0.3 * (2.0 / 4.0),
		},
		{
			name:            "confusion saturates at one",
			text:            "um uh er ah hmm well like what why how when where who",
			duration:        5,
			wantHesitations: 7,
			wantQuestions:   6,
			wantConfusion:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := NewProsodicExtractor().Extract(context.Background(),
				Window{Text: tt.text, DurationSeconds: tt.duration})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := score.Detail["hesitation_count"]; got != tt.wantHesitations {
				t.Errorf("expected %v hesitations, got %v", tt.wantHesitations, got)
			}
			if got := score.Detail["question_indicators"]; got != tt.wantQuestions {
				t.Errorf("expected %v question indicators, got %v", tt.wantQuestions, got)
			}
			if math.Abs(score.Value-tt.wantConfusion) > 0.001 {
				t.Errorf("expected confusion %f, got %f", tt.wantConfusion, score.Value)
			}
		})
	}
}

func TestProsodicSpeechRate(t *testing.T) {
	score, err := NewProsodicExtractor().Extract(context.Background(),
		Window{Text: "one two three four five six", DurationSeconds: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(score.Detail["speech_rate"]-2) > 0.001 {
		t.Errorf("expected 2 words/sec, got %f", score.Detail["speech_rate"])
	}
}

func TestProsodicZeroDurationFloor(t *testing.T) {
	// A zero duration hint must not divide by zero.
	score, err := NewProsodicExtractor().Extract(context.Background(),
		Window{Text: "hello there", DurationSeconds: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.IsInf(score.Detail["speech_rate"], 0) || math.IsNaN(score.Detail["speech_rate"]) {
		t.Errorf("speech rate not finite: %f", score.Detail["speech_rate"])
	}
}
