package risk

import (
	"time"

	"github.com/anchorwatch/anchor/internal/analyzer"
)

// Additive contributions outside the keyword table (which lives with the
// keyword matcher in package analyzer).
const (
	semanticRelevantWeight = 0.15
	semanticStrongWeight   = 0.3
	sentimentWeight        = 0.1
	confusionWeight        = 0.1
	escalationWeight       = 0.15

	// A recognized phrase plus any corroborating score forces high.
	overrideFloor = 0.4

	// Strongly negative compound gate for the sentiment contribution.
	sentimentGate = -0.5
)

// Aggregate combines the four signal scores, the escalation flag, and the
// duration bonus into one assessment. It is a pure function: identical
// inputs yield an identical assessment.
//
// Each factor contributes independently; the total saturates at [0,1]. The
// level is then read off the threshold table, with the high-confidence
// phrase override checked first and boundary values rounding up.
func Aggregate(sessionID string, signals analyzer.Set, escalating bool, durationBonus float64, th Thresholds, wordCount int, now time.Time) Assessment {
	factors := make(map[string]float64)

	phraseMatched := len(signals.Keyword.PhraseMatches) > 0
	if phraseMatched {
		factors[FactorPhrase] = analyzer.PhraseWeight
	}

	distinctCategories := 0
	keywordSum := analyzer.KeywordSum(signals.Keyword.PhraseMatches, signals.Keyword.Categories)
	for _, c := range signals.Keyword.Categories {
		distinctCategories++
		switch c.Severity {
		case analyzer.SeverityCritical:
			factors[factorCategoryPrefix+c.Name] = analyzer.CriticalWeight
		case analyzer.SeverityConcerning:
			factors[factorCategoryPrefix+c.Name] = analyzer.ConcerningWeight
		}
	}

	// Benign-context reduction: damp weak keyword evidence, and surface the
	// reduction as a named factor instead of silently shrinking the score.
	if signals.Keyword.BenignContext && keywordSum > 0 && keywordSum < analyzer.BenignReductionCeiling {
		factors[FactorBenignContext] = -keywordSum / 2
	}

	if sim := signals.Semantic.Value; sim >= th.SimilarityRelevant {
		contribution := semanticStrongWeight
		if sim < th.SimilarityStrong {
			span := th.SimilarityStrong - th.SimilarityRelevant
			contribution = semanticRelevantWeight +
				(sim-th.SimilarityRelevant)/span*(semanticStrongWeight-semanticRelevantWeight)
		}
		factors[FactorSemantic] = contribution
	}

	if !signals.Sentiment.Degraded && signals.Sentiment.Compound <= sentimentGate {
		factors[FactorSentiment] = sentimentWeight
	}

	if confusion := signals.Prosodic.Value; confusion > 0 {
		factors[FactorConfusion] = confusionWeight * confusion
	}

	if escalating {
		factors[FactorEscalation] = escalationWeight
	}

	if durationBonus > 0 {
		factors[FactorDuration] = durationBonus
	}

	for _, s := range []analyzer.Score{signals.Prosodic, signals.Sentiment, signals.Semantic, signals.Keyword} {
		if s.Degraded {
			factors[factorDegradedPrefix+s.Name] = 0
		}
	}

	var total float64
	for _, v := range factors {
		total += v
	}
	total = clamp01(total)

	level := LevelLow
	switch {
	case total >= th.High || (phraseMatched && total >= overrideFloor):
		level = LevelHigh
	case total >= th.Medium || distinctCategories >= 2:
		level = LevelMedium
	}

	confidence := 0.1
	if len(factors) > 0 && total > 0 {
		confidence = clamp01(total + 0.1)
	}

	return Assessment{
		SessionID:  sessionID,
		Score:      total,
		Level:      level,
		Confidence: confidence,
		Factors:    factors,
		Tactics:    TacticProfile(signals, th),
		Signals:    signals,
		Escalating: escalating,
		WordCount:  wordCount,
		Timestamp:  now,
	}
}
