package analyzer

import (
	"context"
	"log/slog"
	"time"

	"github.com/anchorwatch/anchor/internal/metrics"
)

// Run executes all extractors concurrently over the window and joins their
// results, each bounded by timeout. A slow, failing, or out-of-range
// extractor is scored as a degraded zero — the trigger never fails because
// one signal is missing.
func Run(ctx context.Context, extractors []Extractor, w Window, timeout time.Duration, logger *slog.Logger) Set {
	type result struct {
		score Score
		err   error
		name  string
	}

	results := make(chan result, len(extractors))
	for _, ext := range extractors {
		go func(ext Extractor) {
			exCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			done := make(chan result, 1)
			go func() {
				score, err := ext.Extract(exCtx, w)
				done <- result{score: score, err: err, name: ext.Name()}
			}()

			select {
			case r := <-done:
				results <- r
			case <-exCtx.Done():
				results <- result{err: exCtx.Err(), name: ext.Name()}
			}
		}(ext)
	}

	set := Set{
		Prosodic:  degradedScore(NameProsodic),
		Sentiment: degradedScore(NameSentiment),
		Semantic:  degradedScore(NameSemantic),
		Keyword:   degradedScore(NameKeyword),
	}

	for range extractors {
		r := <-results
		if r.err != nil {
			logger.Warn("extractor degraded", "extractor", r.name, "error", r.err)
			metrics.Default.RecordDegraded(r.name)
			continue
		}
		score := r.score
		score.Value = clamp01(score.Value)
		switch score.Name {
		case NameProsodic:
			set.Prosodic = score
		case NameSentiment:
			set.Sentiment = score
		case NameSemantic:
			set.Semantic = score
		case NameKeyword:
			set.Keyword = score
		default:
			logger.Warn("extractor returned unknown name", "name", score.Name)
		}
	}

	return set
}

func degradedScore(name string) Score {
	return Score{Name: name, Degraded: true}
}
