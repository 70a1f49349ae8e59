// Package search ranks stored chunks against a query by cosine similarity.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"emailrag/internal/domain"
	"emailrag/internal/store"
)

// Engine embeds queries and ranks the chunks of one store. Ranking is
// deterministic: equal scores keep chunk insertion order.
type Engine struct {
	embedder domain.Embedder
	store    *store.Store
}

// New creates a search engine over the given store. The embedder must be
// the same provider the store was populated with.
func New(embedder domain.Embedder, st *store.Store) *Engine {
	return &Engine{embedder: embedder, store: st}
}

// Search embeds the query, scores every stored chunk, and returns up to
// topK results with score >= minSimilarity in descending score order.
// An empty store yields an empty result, not an error.
func (e *Engine) Search(ctx context.Context, query string, topK int, minSimilarity float64) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, fmt.Errorf("%w: top-k must be positive, got %d", domain.ErrInvalidSearchParams, topK)
	}

	chunks, matrix := e.store.Snapshot()
	if len(chunks) == 0 {
		return nil, nil
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	scores := make([]float64, len(matrix))
	for i, row := range matrix {
		scores[i] = Cosine(vector, row)
	}

	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })

	if topK > len(order) {
		topK = len(order)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, idx := range order[:topK] {
		if scores[idx] < minSimilarity {
			continue
		}
		results = append(results, domain.SearchResult{Chunk: chunks[idx], Score: scores[idx]})
	}
	return results, nil
}

// Cosine returns dot(a,b) / (||a||*||b||), or 0 when either vector has zero
// norm or the lengths disagree.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
