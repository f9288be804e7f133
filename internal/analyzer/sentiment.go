package analyzer

import (
	"context"

	"github.com/jonreiter/govader"
)

// SentimentExtractor scores the window with a VADER lexicon model. The
// compound value is signed in [-1,1]; Value carries the negative proportion
// in [0,1] so it composes with the other extractors.
type SentimentExtractor struct {
	vader *govader.SentimentIntensityAnalyzer
}

func NewSentimentExtractor() *SentimentExtractor {
	return &SentimentExtractor{vader: govader.NewSentimentIntensityAnalyzer()}
}

func (e *SentimentExtractor) Name() string { return NameSentiment }

func (e *SentimentExtractor) Extract(_ context.Context, w Window) (Score, error) {
	s := e.vader.PolarityScores(w.Text)

	compound := s.Compound
	if compound < -1 {
		compound = -1
	}
	if compound > 1 {
		compound = 1
	}

	return Score{
		Name:     NameSentiment,
		Value:    clamp01(s.Negative),
		Compound: compound,
		Detail: map[string]float64{
			"positive": s.Positive,
			"negative": s.Negative,
			"neutral":  s.Neutral,
			"compound": compound,
		},
	}, nil
}
