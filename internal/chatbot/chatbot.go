// Package chatbot wires the retrieval core into the email-answering
// service: document upload, grounded answering, and store statistics.
package chatbot

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"emailrag/internal/composer"
	"emailrag/internal/domain"
	"emailrag/internal/question"
	"emailrag/internal/reader"
	"emailrag/internal/search"
	"emailrag/internal/store"
)

// Default retrieval parameters.
const (
	DefaultTopK          = 3
	DefaultMinSimilarity = 0.3
)

// Options configures the service. StorePath is the explicit durable
// location of the chunk artifact; there is no implicit default file.
type Options struct {
	StorePath     string
	ChunkSize     int
	Overlap       int
	TopK          int
	MinSimilarity float64
	MaxTokens     int
	Temperature   float64
}

// Exchange records one answered email.
type Exchange struct {
	Timestamp   time.Time
	Email       string
	Question    string
	Answer      string
	ContextUsed bool
}

// Service is the query surface exposed to the CLI, TUI, and HTTP front
// ends: ingest, answer, stats.
type Service struct {
	store    *store.Store
	engine   *search.Engine
	composer *composer.Composer
	opts     Options
	history  []Exchange
}

// New builds the service around an explicit embedder and generator handle.
// If a store artifact already exists at Options.StorePath it is loaded;
// a missing or unreadable artifact is logged and the service starts empty.
func New(embedder domain.Embedder, generator domain.Generator, opts Options) *Service {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = store.DefaultChunkSize
	}
	if opts.Overlap < 0 {
		opts.Overlap = store.DefaultOverlap
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.MinSimilarity <= 0 {
		opts.MinSimilarity = DefaultMinSimilarity
	}

	st := store.New(embedder)
	if opts.StorePath != "" {
		if err := st.Load(opts.StorePath); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug("no existing store artifact", "path", opts.StorePath)
			} else {
				log.Warn("could not load store artifact", "path", opts.StorePath, "err", err)
			}
		} else {
			log.Info("store loaded", "path", opts.StorePath, "chunks", st.Len())
		}
	}

	return &Service{
		store:    st,
		engine:   search.New(embedder, st),
		composer: composer.New(generator, opts.MaxTokens, opts.Temperature),
		opts:     opts,
	}
}

// UploadDocument reads the file at path, ingests its content under the file
// base name, and persists the store. It returns the new chunk ids.
func (s *Service) UploadDocument(ctx context.Context, path string) ([]string, error) {
	content, err := reader.Read(path)
	if err != nil {
		return nil, err
	}
	ids, err := s.Ingest(ctx, content, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	if err := s.SaveStore(); err != nil {
		return ids, err
	}
	log.Info("document uploaded", "source", filepath.Base(path), "chunks", len(ids))
	return ids, nil
}

// Ingest chunks and embeds text under the given source name. The store is
// not persisted; call SaveStore or use UploadDocument.
func (s *Service) Ingest(ctx context.Context, text, sourceDocument string) ([]string, error) {
	return s.store.Append(ctx, text, sourceDocument, s.opts.ChunkSize, s.opts.Overlap)
}

// Answer generates a response to a raw email body, grounded in the top
// retrieved chunks. Retrieval and generation failures degrade to the fixed
// fallback message rather than propagating.
func (s *Service) Answer(ctx context.Context, email string) string {
	q := question.Extract(email)

	// A blank email yields no query; answer without context rather than
	// treating it as a retrieval failure.
	var contexts []string
	if strings.TrimSpace(q) != "" {
		results, err := s.engine.Search(ctx, q, s.opts.TopK, s.opts.MinSimilarity)
		if err != nil {
			log.Error("context retrieval failed", "err", err)
			return composer.FallbackMessage
		}
		for _, r := range results {
			contexts = append(contexts, r.Chunk.Content)
		}
	}

	answer := s.composer.Compose(ctx, email, contexts)
	s.history = append(s.history, Exchange{
		Timestamp:   time.Now().UTC(),
		Email:       email,
		Question:    q,
		Answer:      answer,
		ContextUsed: len(contexts) > 0,
	})
	return answer
}

// Search exposes raw retrieval, mainly for inspection front ends.
func (s *Service) Search(ctx context.Context, query string, topK int, minSimilarity float64) ([]domain.SearchResult, error) {
	return s.engine.Search(ctx, query, topK, minSimilarity)
}

// SaveStore persists the store to the configured artifact path.
func (s *Service) SaveStore() error {
	if s.opts.StorePath == "" {
		return nil
	}
	if err := s.store.Save(s.opts.StorePath); err != nil {
		log.Error("could not save store artifact", "path", s.opts.StorePath, "err", err)
		return err
	}
	return nil
}

// Stats reports the underlying store statistics.
func (s *Service) Stats() domain.Stats { return s.store.Stats() }

// History returns the answered exchanges in order.
func (s *Service) History() []Exchange { return s.history }
