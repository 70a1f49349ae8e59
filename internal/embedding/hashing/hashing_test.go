package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_FixedDimension(t *testing.T) {
	e := NewEmbedder(64)
	assert.Equal(t, 64, e.Dimension())

	v, err := e.Embed(context.Background(), "grading policy and deadlines")
	require.NoError(t, err)
	assert.Len(t, v, 64)

	fallback := NewEmbedder(0)
	assert.Equal(t, DefaultDimension, fallback.Dimension())
}

func TestEmbedder_Deterministic(t *testing.T) {
	e := NewEmbedder(128)
	a, err := e.Embed(context.Background(), "office hours are on monday")
	require.NoError(t, err)
	b, err := e.Embed(context.Background(), "office hours are on monday")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmbedder_L2Normalized(t *testing.T) {
	e := NewEmbedder(128)
	v, err := e.Embed(context.Background(), "similar texts should land in similar buckets")
	require.NoError(t, err)
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedder_NoTokensYieldsZeroVector(t *testing.T) {
	e := NewEmbedder(32)
	// Stopwords and non-letters carry no signal.
	v, err := e.Embed(context.Background(), "the and 123 ...")
	require.NoError(t, err)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

func TestEmbedder_SharedTokensScoreCloser(t *testing.T) {
	e := NewEmbedder(256)
	ctx := context.Background()
	base, err := e.Embed(ctx, "assignment deadline friday submission")
	require.NoError(t, err)
	near, err := e.Embed(ctx, "assignment deadline extension submission")
	require.NoError(t, err)
	far, err := e.Embed(ctx, "cafeteria menu pasta dessert")
	require.NoError(t, err)

	assert.Greater(t, dot(base, near), dot(base, far))
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	e := NewEmbedder(64)
	texts := []string{"first document text", "second document text", "third document text"}
	batch, err := e.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, batch, 3)
	for i, text := range texts {
		single, err := e.Embed(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i])
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
