// Package publish emits finished assessments onto the bus: the unified
// result topic plus the two legacy-shaped duplicates older consumers still
// read (a stress-like proxy and the tactic profile). One pipeline, two
// compatibility views.
package publish

import (
	"log/slog"
	"time"

	"github.com/anchorwatch/anchor/internal/analyzer"
	"github.com/anchorwatch/anchor/internal/bus"
	"github.com/anchorwatch/anchor/internal/risk"
)

// ResultPayload is the authoritative assessment payload on the risk-result
// topic. Level is the verdict; consumers must not re-derive it.
type ResultPayload struct {
	SessionID  string             `json:"session_id"`
	Score      float64            `json:"score"`
	Level      string             `json:"level"`
	Confidence float64            `json:"confidence"`
	Factors    map[string]float64 `json:"factors"`
	Escalating bool               `json:"escalating"`
	WordCount  int                `json:"word_count"`
	Signals    analyzer.Set       `json:"signals"`
	Timestamp  time.Time          `json:"timestamp"`
}

// StressPayload mirrors the legacy acoustic-arousal channel. Arousal is
// synthesized from the confusion composite, valence from the sentiment
// compound.
type StressPayload struct {
	SessionID   string             `json:"session_id"`
	StressScore float64            `json:"stress_score"`
	Emotions    map[string]float64 `json:"emotions"`
	Confidence  float64            `json:"confidence"`
	Timestamp   time.Time          `json:"timestamp"`
}

// TacticPayload mirrors the legacy tactic channel.
type TacticPayload struct {
	SessionID  string             `json:"session_id"`
	Tactics    map[string]float64 `json:"tactics"`
	RiskLevel  string             `json:"risk_level"`
	Factors    map[string]float64 `json:"factors"`
	Transcript string             `json:"transcript"`
	WordCount  int                `json:"word_count"`
	Timestamp  time.Time          `json:"timestamp"`
}

// Publisher fans one assessment out to the result topics.
type Publisher struct {
	bus    *bus.Bus
	logger *slog.Logger
}

func New(b *bus.Bus, logger *slog.Logger) *Publisher {
	return &Publisher{bus: b, logger: logger}
}

// Publish emits the assessment on the unified topic and both legacy topics.
func (p *Publisher) Publish(a risk.Assessment, windowText string) {
	p.bus.Publish(bus.TopicRiskResult, ResultPayload{
		SessionID:  a.SessionID,
		Score:      a.Score,
		Level:      string(a.Level),
		Confidence: a.Confidence,
		Factors:    a.Factors,
		Escalating: a.Escalating,
		WordCount:  a.WordCount,
		Signals:    a.Signals,
		Timestamp:  a.Timestamp,
	})

	stress := a.Signals.Prosodic.Value
	valence := (a.Signals.Sentiment.Compound + 1) / 2
	if valence < 0 {
		valence = 0
	}
	p.bus.Publish(bus.TopicStressResult, StressPayload{
		SessionID:   a.SessionID,
		StressScore: stress,
		Emotions: map[string]float64{
			"arousal":   stress,
			"valence":   valence,
			"dominance": 1 - stress,
		},
		Confidence: a.Confidence,
		Timestamp:  a.Timestamp,
	})

	p.bus.Publish(bus.TopicTacticResult, TacticPayload{
		SessionID:  a.SessionID,
		Tactics:    a.Tactics,
		RiskLevel:  string(a.Level),
		Factors:    a.Factors,
		Transcript: windowText,
		WordCount:  a.WordCount,
		Timestamp:  a.Timestamp,
	})

	p.logger.Info("assessment published",
		"session_id", a.SessionID,
		"level", a.Level,
		"score", a.Score,
		"factors", len(a.Factors),
		"escalating", a.Escalating,
	)
}
