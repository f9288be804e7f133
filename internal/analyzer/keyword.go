package analyzer

import (
	"context"
	"strings"
)

// Additive weights for keyword evidence. The aggregator reuses these when
// attributing per-factor contributions, so they live next to the matcher.
const (
	PhraseWeight     = 0.6
	CriticalWeight   = 0.25
	ConcerningWeight = 0.15
)

// BenignReductionCeiling: the benign-context damping only applies when the
// pre-reduction keyword sum is already weak. A strong match is never damped.
const BenignReductionCeiling = 0.5

// KeywordExtractor matches the high-confidence phrase list, the labeled
// regex categories, and the benign-context vocabulary.
type KeywordExtractor struct{}

func NewKeywordExtractor() *KeywordExtractor { return &KeywordExtractor{} }

func (e *KeywordExtractor) Name() string { return NameKeyword }

func (e *KeywordExtractor) Extract(_ context.Context, w Window) (Score, error) {
	lower := strings.ToLower(w.Text)

	var phrases []string
	for _, p := range highConfidencePhrases {
		if strings.Contains(lower, p) {
			phrases = append(phrases, p)
		}
	}

	var cats []CategoryMatch
	for _, c := range regexCategories {
		if c.re.MatchString(w.Text) {
			cats = append(cats, CategoryMatch{Name: c.name, Severity: c.severity})
		}
	}

	benign := false
	for _, p := range benignPatterns {
		if p.MatchString(w.Text) {
			benign = true
			break
		}
	}

	sum := KeywordSum(phrases, cats)
	value := sum
	if benign && sum < BenignReductionCeiling {
		value = sum / 2
	}

	return Score{
		Name:  NameKeyword,
		Value: clamp01(value),
		Detail: map[string]float64{
			"phrase_matches":     float64(len(phrases)),
			"matched_categories": float64(len(cats)),
			"raw_sum":            sum,
		},
		PhraseMatches: phrases,
		Categories:    cats,
		BenignContext: benign,
	}, nil
}

// KeywordSum is the pre-reduction additive keyword score: the phrase weight
// once if any phrase matched, plus the severity weight per distinct matched
// category.
func KeywordSum(phrases []string, cats []CategoryMatch) float64 {
	var sum float64
	if len(phrases) > 0 {
		sum += PhraseWeight
	}
	for _, c := range cats {
		switch c.Severity {
		case SeverityCritical:
			sum += CriticalWeight
		case SeverityConcerning:
			sum += ConcerningWeight
		}
	}
	return sum
}
