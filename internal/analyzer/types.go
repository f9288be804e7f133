// Package analyzer holds the four signal extractors that turn a transcript
// window into independent, comparable scores. Each extractor is a pure
// function of the window; they share no state and can run concurrently.
package analyzer

import "context"

// Extractor names. The set is closed: the aggregator's weighting table is
// keyed on exactly these four.
const (
	NameProsodic  = "prosodic"
	NameSentiment = "sentiment"
	NameSemantic  = "semantic"
	NameKeyword   = "keyword"
)

// Window is the buffered transcript text considered for one analysis
// trigger.
type Window struct {
	Text            string
	WordCount       int
	DurationSeconds float64
}

// CategoryMatch is one matched keyword/regex category with its severity
// ("critical" or "concerning").
type CategoryMatch struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

// Score is one extractor's output for one window. Value is always clamped
// to [0,1] before it leaves the extractor. Degraded marks an extractor that
// errored or timed out and was scored as absent.
type Score struct {
	Name     string             `json:"name"`
	Value    float64            `json:"value"`
	Detail   map[string]float64 `json:"detail,omitempty"`
	Degraded bool               `json:"degraded,omitempty"`

	// Sentiment only: signed compound in [-1,1].
	Compound float64 `json:"compound,omitempty"`

	// Keyword only.
	PhraseMatches []string        `json:"phrase_matches,omitempty"`
	Categories    []CategoryMatch `json:"categories,omitempty"`
	BenignContext bool            `json:"benign_context,omitempty"`

	// Semantic only: best-matching scenario and its tactic category.
	Scenario         string `json:"scenario,omitempty"`
	ScenarioCategory string `json:"scenario_category,omitempty"`
}

// Set holds the four scores used for one aggregation.
type Set struct {
	Prosodic  Score `json:"prosodic"`
	Sentiment Score `json:"sentiment"`
	Semantic  Score `json:"semantic"`
	Keyword   Score `json:"keyword"`
}

// Extractor produces a Score from a window.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, w Window) (Score, error)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
