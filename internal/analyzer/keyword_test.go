package analyzer

import (
	"context"
	"math"
	"testing"
)

func extractKeyword(t *testing.T, text string) Score {
	t.Helper()
	score, err := NewKeywordExtractor().Extract(context.Background(),
		Window{Text: text, WordCount: len(text) / 5, DurationSeconds: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return score
}

func TestKeywordExtract(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantPhrases    int
		wantCategories []string
		wantBenign     bool
		wantValue      float64
	}{
		{
			name:           "gift card compliance phrase",
			text:           "Okay, I'll read you the numbers on the back of the card",
			wantPhrases:    2, // both the long and short variant match
			wantCategories: nil,
			wantValue:      PhraseWeight,
		},
		{
			name:           "critical category only",
			text:           "He said I should wire the money through Western Union",
			wantCategories: []string{"wire_transfer"},
			wantValue:      CriticalWeight,
		},
		{
			name:           "concerning category only",
			text:           "They said there is a warrant out and I could be arrested",
			wantCategories: []string{"government_threat"},
			wantValue:      ConcerningWeight,
		},
		{
			name:           "phrase plus critical category",
			text:           "I'm going to the bitcoin atm to send it",
			wantPhrases:    1,
			wantCategories: []string{"wire_transfer"},
			wantValue:      PhraseWeight + CriticalWeight,
		},
		{
			name:           "two concerning categories stack",
			text:           "He needs my social security number right now",
			wantCategories: []string{"urgency_pressure", "personal_info_request"},
			wantValue:      2 * ConcerningWeight,
		},
		{
			name:           "benign halves weak evidence",
			text:           "I bought a gift card for my nephew's birthday",
			wantBenign:     true,
			wantCategories: []string{"gift_card_payment"},
			wantValue:      CriticalWeight / 2,
		},
		{
			name:      "clean text scores zero",
			text:      "We talked about the garden and the weather",
			wantValue: 0,
		},
		{
			name:        "case insensitive phrase match",
			text:        "I WON'T TELL MY FAMILY about this",
			wantPhrases: 1,
			wantValue:   PhraseWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := extractKeyword(t, tt.text)

			if len(score.PhraseMatches) != tt.wantPhrases {
				t.Errorf("expected %d phrase matches, got %v", tt.wantPhrases, score.PhraseMatches)
			}
			if len(score.Categories) != len(tt.wantCategories) {
				t.Fatalf("expected categories %v, got %+v", tt.wantCategories, score.Categories)
			}
			for i, want := range tt.wantCategories {
				if score.Categories[i].Name != want {
					t.Errorf("expected category %q at %d, got %q", want, i, score.Categories[i].Name)
				}
			}
			if score.BenignContext != tt.wantBenign {
				t.Errorf("expected benign=%v, got %v", tt.wantBenign, score.BenignContext)
			}
			if math.Abs(score.Value-tt.wantValue) > 0.001 {
				t.Errorf("expected value %f, got %f", tt.wantValue, score.Value)
			}
		})
	}
}

func TestKeywordBenignDoesNotDampStrongEvidence(t *testing.T) {
	// Benign vocabulary plus a compliance phrase: the sum is at the ceiling,
	// so no reduction applies.
	score := extractKeyword(t,
		"It's my nephew's birthday but he said to buy the gift cards and scratch off the code")

	if !score.BenignContext {
		t.Fatal("expected benign context detected")
	}
	raw := KeywordSum(score.PhraseMatches, score.Categories)
	if raw < 0.5 {
		t.Fatalf("test premise broken: raw sum %f below ceiling", raw)
	}
	if math.Abs(score.Value-clamp01(raw)) > 0.001 {
		t.Errorf("strong evidence must not be damped: raw=%f value=%f", raw, score.Value)
	}
}

func TestKeywordSum(t *testing.T) {
	tests := []struct {
		name     string
		phrases  []string
		cats     []CategoryMatch
		expected float64
	}{
		{"empty", nil, nil, 0},
		{"one phrase", []string{"teamviewer"}, nil, PhraseWeight},
		{
			"multiple phrases count once",
			[]string{"teamviewer", "anydesk"}, nil, PhraseWeight,
		},
		{
			"critical and concerning stack",
			nil,
			[]CategoryMatch{
				{Name: "wire_transfer", Severity: SeverityCritical},
				{Name: "urgency_pressure", Severity: SeverityConcerning},
			},
			CriticalWeight + ConcerningWeight,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := KeywordSum(tt.phrases, tt.cats)
			if math.Abs(got-tt.expected) > 0.001 {
				t.Errorf("expected %f, got %f", tt.expected, got)
			}
		})
	}
}
