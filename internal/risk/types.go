// Package risk combines extractor outputs and temporal state into one
// explainable risk verdict.
package risk

import (
	"time"

	"github.com/anchorwatch/anchor/internal/analyzer"
)

// Level is the discrete risk verdict. It is authoritative: consumers must
// not re-derive it from the score.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Factor names recorded in Assessment.Factors. Degraded extractors appear
// under "degraded_<extractor>" with a zero contribution.
const (
	FactorPhrase        = "high_confidence_phrase"
	FactorSemantic      = "semantic_similarity"
	FactorSentiment     = "negative_sentiment"
	FactorConfusion     = "confusion"
	FactorEscalation    = "escalation"
	FactorDuration      = "call_duration"
	FactorBenignContext = "benign_context_reduction"

	factorCategoryPrefix = "category_"
	factorDegradedPrefix = "degraded_"
)

// Thresholds are the externally configurable decision constants.
type Thresholds struct {
	Medium             float64
	High               float64
	SimilarityRelevant float64
	SimilarityStrong   float64
}

// Assessment is the aggregator's output: a clamped score, the authoritative
// level, and the named additive contribution of every factor that fed it.
type Assessment struct {
	SessionID  string             `json:"session_id"`
	Score      float64            `json:"score"`
	Level      Level              `json:"level"`
	Confidence float64            `json:"confidence"`
	Factors    map[string]float64 `json:"factors"`
	Tactics    map[string]float64 `json:"tactics"`
	Signals    analyzer.Set       `json:"signals"`
	Escalating bool               `json:"escalating"`
	WordCount  int                `json:"word_count"`
	Timestamp  time.Time          `json:"timestamp"`
}

// HistoryEntry is one recorded assessment in a session's bounded history.
type HistoryEntry struct {
	Score float64
	Level Level
	At    time.Time
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
