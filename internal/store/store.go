// Package store holds indexed chunks and their embeddings, maintains the
// derived similarity matrix, and persists the whole collection to a single
// durable artifact.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"emailrag/internal/chunker"
	"emailrag/internal/domain"
)

// Default chunking parameters, matching the ingestion defaults of the
// upstream document pipeline.
const (
	DefaultChunkSize = 512
	DefaultOverlap   = 50
)

// Store owns the chunk list and the derived embedding matrix. The chunk
// list is the source of truth; the matrix is rebuilt after every append and
// after every successful load. An explicit embedder handle is passed at
// construction so multiple stores with different providers can coexist.
type Store struct {
	mu        sync.RWMutex
	embedder  domain.Embedder
	chunks    []domain.Chunk
	matrix    [][]float64
	dimension int
}

// artifact is the persisted single-file container. The dimension field
// makes the format self-describing enough to detect mismatches on load.
type artifact struct {
	Chunks             []domain.Chunk `json:"chunks"`
	EmbeddingDimension int            `json:"embedding_dimension"`
}

// New creates an empty store bound to the given embedding provider.
func New(embedder domain.Embedder) *Store {
	return &Store{embedder: embedder}
}

// Append chunks the text, embeds all fragments in a single batched provider
// call, appends the resulting chunk records in order, and rebuilds the
// derived matrix. It returns the new chunk ids in chunking order. Parameter
// errors are rejected before any provider call. The store is not persisted
// automatically; call Save explicitly.
func (s *Store) Append(ctx context.Context, text, sourceDocument string, chunkSize, overlap int) ([]string, error) {
	fragments, err := chunker.Split(text, chunkSize, overlap)
	if err != nil {
		return nil, err
	}
	if len(fragments) == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, fragments)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(fragments) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d fragments", len(vectors), len(fragments))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dim := s.dimension
	for _, v := range vectors {
		if dim == 0 {
			dim = len(v)
		}
		if len(v) == 0 || len(v) != dim {
			return nil, fmt.Errorf("%w: got vector of length %d, store dimension %d", domain.ErrDimensionMismatch, len(v), dim)
		}
	}

	now := time.Now().UTC()
	ids := make([]string, 0, len(fragments))
	for i, fragment := range fragments {
		chunk := domain.Chunk{
			ID:             domain.ChunkID(fragment, sourceDocument, i),
			Content:        fragment,
			SourceDocument: sourceDocument,
			Ordinal:        i,
			Embedding:      vectors[i],
			CreatedAt:      now,
		}
		s.chunks = append(s.chunks, chunk)
		ids = append(ids, chunk.ID)
	}
	s.dimension = dim
	s.rebuildMatrix()
	return ids, nil
}

// Save serializes the chunk list and embedding dimension to path. The
// artifact is written to a temporary file in the destination directory and
// renamed into place, so readers never observe a partial write.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	art := artifact{Chunks: s.chunks, EmbeddingDimension: s.dimension}
	data, err := json.Marshal(art)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// Load replaces the in-memory chunk list and matrix with the artifact at
// path. On any failure (missing file, corrupt content, dimension mismatch)
// the prior in-memory state is left untouched.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact: %w", err)
	}
	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return fmt.Errorf("decode artifact: %w", err)
	}
	for _, c := range art.Chunks {
		if len(c.Embedding) != art.EmbeddingDimension {
			return fmt.Errorf("%w: chunk %s has dimension %d, artifact declares %d",
				domain.ErrDimensionMismatch, c.ID, len(c.Embedding), art.EmbeddingDimension)
		}
	}
	if providerDim := s.embedder.Dimension(); providerDim != 0 && len(art.Chunks) > 0 && art.EmbeddingDimension != providerDim {
		return fmt.Errorf("%w: artifact dimension %d, provider dimension %d",
			domain.ErrDimensionMismatch, art.EmbeddingDimension, providerDim)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = art.Chunks
	s.dimension = art.EmbeddingDimension
	s.rebuildMatrix()
	return nil
}

// Stats reports chunk and document counts, the active embedding dimension,
// and the approximate memory held by the derived matrix.
func (s *Store) Stats() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make(map[string]struct{}, len(s.chunks))
	for _, c := range s.chunks {
		sources[c.SourceDocument] = struct{}{}
	}
	return domain.Stats{
		TotalChunks:        len(s.chunks),
		TotalDocuments:     len(sources),
		EmbeddingDimension: s.dimension,
		MemoryBytes:        len(s.chunks) * s.dimension * 8,
	}
}

// Reset unloads all chunks. There is no per-chunk deletion path.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.matrix = nil
	s.dimension = 0
}

// Len returns the number of stored chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Snapshot returns the chunk list and derived matrix as a consistent pair.
// Rows of the matrix are in chunk insertion order.
func (s *Store) Snapshot() ([]domain.Chunk, [][]float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks, s.matrix
}

func (s *Store) rebuildMatrix() {
	s.matrix = make([][]float64, len(s.chunks))
	for i := range s.chunks {
		s.matrix[i] = s.chunks[i].Embedding
	}
}
