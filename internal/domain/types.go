package domain

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Chunk is a bounded fragment of a source document, the unit of indexing
// and retrieval. Every chunk in a store carries an embedding of the same
// dimensionality; mixing embeddings from different providers invalidates
// similarity comparisons.
type Chunk struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	SourceDocument string    `json:"source_document"`
	Ordinal        int       `json:"ordinal"`
	Embedding      []float64 `json:"embedding"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChunkID derives the deterministic identifier for a chunk from its source
// document, its ordinal position within that document, and a hash of its
// content. Re-ingesting identical content yields the same id.
func ChunkID(content, sourceDocument string, ordinal int) string {
	sum := md5.Sum([]byte(content))
	return fmt.Sprintf("%s_%d_%s", sourceDocument, ordinal, hex.EncodeToString(sum[:])[:8])
}

// SearchResult pairs a retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk
	Score float64
}

// Stats summarizes the contents of a chunk store.
type Stats struct {
	TotalChunks        int `json:"total_chunks"`
	TotalDocuments     int `json:"total_documents"`
	EmbeddingDimension int `json:"embedding_dimension"`
	MemoryBytes        int `json:"memory_bytes"`
}
