package analyzer

import (
	"context"
	"fmt"
	"math"
)

// Windows shorter than this carry too little signal to embed.
const minSemanticWords = 3

// SemanticExtractor embeds the window and reports the maximum cosine
// similarity against the canonical scam-scenario corpus, along with the
// best-matching scenario and its tactic category.
type SemanticExtractor struct {
	embedder   Embedder
	embeddings [][]float64
}

// NewSemanticExtractor pre-computes the scenario corpus embeddings.
func NewSemanticExtractor(ctx context.Context, embedder Embedder) (*SemanticExtractor, error) {
	texts := make([]string, len(scamScenarios))
	for i, s := range scamScenarios {
		texts[i] = s.text
	}
	embeddings, err := embedder.Embed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed scenario corpus: %w", err)
	}
	return &SemanticExtractor{embedder: embedder, embeddings: embeddings}, nil
}

func (e *SemanticExtractor) Name() string { return NameSemantic }

func (e *SemanticExtractor) Extract(ctx context.Context, w Window) (Score, error) {
	if w.WordCount < minSemanticWords {
		return Score{Name: NameSemantic, Detail: map[string]float64{"similarity": 0}}, nil
	}

	vecs, err := e.embedder.Embed(ctx, []string{w.Text})
	if err != nil {
		return Score{}, fmt.Errorf("embed window: %w", err)
	}

	best, bestIdx := 0.0, -1
	for i, sv := range e.embeddings {
		if sim := cosineSimilarity(vecs[0], sv); sim > best {
			best, bestIdx = sim, i
		}
	}

	score := Score{
		Name:   NameSemantic,
		Value:  clamp01(best),
		Detail: map[string]float64{"similarity": best},
	}
	if bestIdx >= 0 {
		score.Scenario = scamScenarios[bestIdx].text
		score.ScenarioCategory = scamScenarios[bestIdx].category
	}
	return score, nil
}

// cosineSimilarity calculates cosine similarity between two vectors.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}

	var dotProduct, normA, normB float64
	for i := 0; i < len(a); i++ {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0.0 || normB == 0.0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
