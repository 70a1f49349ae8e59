package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emailrag/internal/chatbot"
)

type stubEmbedder struct{ dim int }

func (s *stubEmbedder) Name() string   { return "stub" }
func (s *stubEmbedder) Dimension() int { return s.dim }

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	v := make([]float64, s.dim)
	for i, r := range strings.ToLower(text) {
		v[i%s.dim] += float64(r)
	}
	return v, nil
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := s.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type stubGenerator struct{ answer string }

func (s *stubGenerator) Name() string { return "stub" }

func (s *stubGenerator) Complete(context.Context, string, string, int, float64) (string, error) {
	return s.answer, nil
}

const sampleDoc = `Office hours are held on Mondays and Wednesdays from 2 to 4 PM in room 301 of the Computer Science building. Assignments submitted late will lose ten percent per day, up to three days maximum.`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := chatbot.New(
		&stubEmbedder{dim: 16},
		&stubGenerator{answer: "Dear student, office hours are Monday and Wednesday."},
		chatbot.Options{StorePath: filepath.Join(t.TempDir(), "store.json"), ChunkSize: 128, Overlap: 20},
	)
	return New(svc)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIngestDocument(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/documents", map[string]string{
		"text":   sampleDoc,
		"source": "syllabus.txt",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		ChunkIDs []string `json:"chunk_ids"`
		Count    int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ChunkIDs)
	assert.Equal(t, len(resp.ChunkIDs), resp.Count)
}

func TestIngestDocument_MissingFields(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/documents", map[string]string{"text": sampleDoc})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnswer(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/documents", map[string]string{
		"text":   sampleDoc,
		"source": "syllabus.txt",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/answer", map[string]string{
		"email": "Hello, when are your office hours held on campus?",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Answer string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dear student, office hours are Monday and Wednesday.", resp.Answer)
}

func TestAnswer_MissingEmail(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodPost, "/api/answer", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStats(t *testing.T) {
	s := newTestServer(t)
	w := doJSON(t, s, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalChunks        int `json:"total_chunks"`
		TotalDocuments     int `json:"total_documents"`
		EmbeddingDimension int `json:"embedding_dimension"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.TotalChunks)
	assert.Zero(t, resp.TotalDocuments)
}
