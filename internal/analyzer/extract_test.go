package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type stubExtractor struct {
	name  string
	score Score
	err   error
	delay time.Duration
}

func (s stubExtractor) Name() string { return s.name }

func (s stubExtractor) Extract(ctx context.Context, _ Window) (Score, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return Score{}, ctx.Err()
		}
	}
	return s.score, s.err
}

func TestRun_JoinsAllExtractors(t *testing.T) {
	extractors := []Extractor{
		stubExtractor{name: NameKeyword, score: Score{Name: NameKeyword, Value: 0.6}},
		stubExtractor{name: NameProsodic, score: Score{Name: NameProsodic, Value: 0.2}},
		stubExtractor{name: NameSentiment, score: Score{Name: NameSentiment, Value: 0.1, Compound: -0.6}},
		stubExtractor{name: NameSemantic, score: Score{Name: NameSemantic, Value: 0.5}},
	}

	set := Run(context.Background(), extractors, Window{Text: "x"}, time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	if set.Keyword.Value != 0.6 || set.Keyword.Degraded {
		t.Errorf("keyword score wrong: %+v", set.Keyword)
	}
	if set.Prosodic.Value != 0.2 || set.Prosodic.Degraded {
		t.Errorf("prosodic score wrong: %+v", set.Prosodic)
	}
	if set.Sentiment.Compound != -0.6 || set.Sentiment.Degraded {
		t.Errorf("sentiment score wrong: %+v", set.Sentiment)
	}
	if set.Semantic.Value != 0.5 || set.Semantic.Degraded {
		t.Errorf("semantic score wrong: %+v", set.Semantic)
	}
}

func TestRun_FailedExtractorDegradesToZero(t *testing.T) {
	extractors := []Extractor{
		stubExtractor{name: NameKeyword, score: Score{Name: NameKeyword, Value: 0.6}},
		stubExtractor{name: NameSemantic, err: errors.New("embedder down")},
	}

	set := Run(context.Background(), extractors, Window{Text: "x"}, time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	if !set.Semantic.Degraded || set.Semantic.Value != 0 {
		t.Errorf("expected degraded zero semantic score, got %+v", set.Semantic)
	}
	if set.Keyword.Degraded || set.Keyword.Value != 0.6 {
		t.Errorf("healthy extractor must be unaffected: %+v", set.Keyword)
	}
}

func TestRun_SlowExtractorTimesOut(t *testing.T) {
	extractors := []Extractor{
		stubExtractor{name: NameKeyword, score: Score{Name: NameKeyword, Value: 0.6}},
		stubExtractor{name: NameSemantic, delay: time.Second,
			score: Score{Name: NameSemantic, Value: 0.9}},
	}

	start := time.Now()
	set := Run(context.Background(), extractors, Window{Text: "x"}, 50*time.Millisecond,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("run took %s, timeout not enforced", elapsed)
	}
	if !set.Semantic.Degraded {
		t.Errorf("expected slow extractor degraded, got %+v", set.Semantic)
	}
	if set.Keyword.Value != 0.6 {
		t.Errorf("fast extractor must still score: %+v", set.Keyword)
	}
}

func TestRun_OutOfRangeValueClamped(t *testing.T) {
	extractors := []Extractor{
		stubExtractor{name: NameProsodic, score: Score{Name: NameProsodic, Value: 3.7}},
	}

	set := Run(context.Background(), extractors, Window{Text: "x"}, time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	if set.Prosodic.Value != 1 {
		t.Errorf("expected clamped value 1, got %f", set.Prosodic.Value)
	}
}

func TestRun_MissingExtractorsStayDegraded(t *testing.T) {
	set := Run(context.Background(), nil, Window{Text: "x"}, time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, score := range []Score{set.Prosodic, set.Sentiment, set.Semantic, set.Keyword} {
		if !score.Degraded {
			t.Errorf("expected degraded placeholder for %s", score.Name)
		}
	}
}
