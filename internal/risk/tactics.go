package risk

import (
	"strings"

	"github.com/anchorwatch/anchor/internal/analyzer"
)

// Tactic names on the legacy tactic channel.
var tacticKeys = []string{"urgency", "authority", "fear", "isolation", "financial"}

const (
	tacticBaseline = 0.1
	tacticMatched  = 0.85
)

// TacticProfile maps the signal set onto the five-tactic profile older
// consumers expect: a floor for every tactic, the matched scenario category
// raised to a strong value, phrase and regex hints raised per family, and a
// fear floor under strongly negative sentiment.
func TacticProfile(signals analyzer.Set, th Thresholds) map[string]float64 {
	tactics := make(map[string]float64, len(tacticKeys))
	for _, k := range tacticKeys {
		tactics[k] = tacticBaseline
	}

	raise := func(key string, v float64) {
		if tactics[key] < v {
			tactics[key] = v
		}
	}

	phraseMatched := len(signals.Keyword.PhraseMatches) > 0
	if phraseMatched || signals.Semantic.Value > th.SimilarityRelevant {
		if cat := signals.Semantic.ScenarioCategory; cat != "" {
			raise(cat, tacticMatched)
		}
	}

	for _, m := range signals.Keyword.PhraseMatches {
		p := strings.ToLower(m)
		switch {
		case strings.Contains(p, "arrest") || strings.Contains(p, "warrant") || strings.Contains(p, "jail"):
			raise("fear", 0.8)
			raise("authority", 0.7)
		case strings.Contains(p, "tell") || strings.Contains(p, "secret") || strings.Contains(p, "between us"):
			raise("isolation", 0.85)
		case strings.Contains(p, "social security") || strings.Contains(p, "ssn"):
			raise("authority", 0.75)
		case strings.Contains(p, "gift card") || strings.Contains(p, "bitcoin") || strings.Contains(p, "wire"):
			raise("financial", 0.85)
		case strings.Contains(p, "remote access") || strings.Contains(p, "download") ||
			strings.Contains(p, "teamviewer") || strings.Contains(p, "anydesk") || strings.Contains(p, "logmein") ||
			strings.Contains(p, "program you sent") || strings.Contains(p, "software"):
			raise("isolation", 0.8)
		}
	}

	for _, c := range signals.Keyword.Categories {
		switch c.Name {
		case "wire_transfer", "gift_card_payment":
			raise("financial", 0.85)
		case "government_threat":
			raise("fear", 0.8)
			raise("authority", 0.7)
		case "remote_access":
			raise("isolation", 0.8)
		case "urgency_pressure":
			raise("urgency", 0.8)
		case "personal_info_request":
			raise("authority", 0.75)
		}
	}

	if !signals.Sentiment.Degraded && signals.Sentiment.Detail["negative"] > 0.3 {
		raise("fear", 0.6)
	}

	return tactics
}
