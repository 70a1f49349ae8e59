package domain

import "errors"

var (
	// ErrInvalidChunkParams reports malformed chunking parameters, e.g.
	// overlap >= chunkSize. Rejected before any embedding call is made.
	ErrInvalidChunkParams = errors.New("invalid chunking parameters")

	// ErrInvalidSearchParams reports malformed retrieval parameters, e.g. a
	// non-positive top-k.
	ErrInvalidSearchParams = errors.New("invalid search parameters")

	// ErrEmptyQuery reports an empty or whitespace-only search query.
	ErrEmptyQuery = errors.New("empty query")

	// ErrDimensionMismatch reports a persisted artifact whose embedding
	// dimension disagrees with the active provider. Loads must abort rather
	// than index incompatible vectors.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrNotFound reports a missing named resource, e.g. an unknown vector
	// in the vector manager.
	ErrNotFound = errors.New("not found")
)
