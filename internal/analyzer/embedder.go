package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"
)

// Embedder turns texts into fixed-length vectors for cosine comparison.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

const localEmbedderDim = 256

var stopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"to": true, "of": true, "and": true, "or": true, "in": true, "on": true,
	"at": true, "for": true, "with": true, "my": true, "your": true,
	"me": true, "you": true, "i": true, "it": true, "that": true,
	"this": true, "be": true, "being": true, "will": true,
}

// LocalEmbedder is a deterministic hashed term-frequency embedder. It is the
// zero-dependency default; a sidecar embedding service gives better recall
// on paraphrases but the engine must keep detecting without one.
type LocalEmbedder struct{}

func NewLocalEmbedder() *LocalEmbedder { return &LocalEmbedder{} }

func (e *LocalEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec := make([]float64, localEmbedderDim)
		for _, raw := range strings.Fields(strings.ToLower(text)) {
			token := strings.Trim(raw, ".,!?;:'\"()")
			if token == "" || stopwords[token] {
				continue
			}
			h := fnv.New32a()
			h.Write([]byte(token))
			vec[h.Sum32()%localEmbedderDim]++
		}
		out[i] = vec
	}
	return out, nil
}

// HTTPEmbedder calls an external embedding service:
// POST {"texts": [...]} -> {"embeddings": [[...], ...]}.
type HTTPEmbedder struct {
	url    string
	client *http.Client
}

func NewHTTPEmbedder(url string) *HTTPEmbedder {
	return &HTTPEmbedder{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	body, err := json.Marshal(map[string]any{"texts": texts})
	if err != nil {
		return nil, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embed service returned %d", resp.StatusCode)
	}

	var parsed struct {
		Embeddings [][]float64 `json:"embeddings"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse embed response: %w", err)
	}
	if len(parsed.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embed service returned %d vectors for %d texts",
			len(parsed.Embeddings), len(texts))
	}
	return parsed.Embeddings, nil
}
