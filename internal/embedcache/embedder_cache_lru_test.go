package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls      int
	batchCalls int
	embedding  []float32
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	return c.embedding, nil
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string, taskType string) ([][]float32, error) {
	c.batchCalls++
	out := make([][]float32, len(texts))
	for i := range texts {
		c.calls++
		out[i] = c.embedding
	}
	return out, nil
}

func (c *countingEmbedder) ModelName() string { return "counting" }

func TestLruEmbedderCachesSingleEmbed(t *testing.T) {
	inner := &countingEmbedder{embedding: []float32{1, 2, 3}}
	e := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	v1, err := e.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, v1, v2)
	require.Equal(t, 1, inner.calls)
}

func TestLruEmbedderKeysByTaskType(t *testing.T) {
	inner := &countingEmbedder{embedding: []float32{1}}
	e := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	_, err := e.Embed(context.Background(), "hello", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), "hello", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestLruEmbedderBatchEmbedsOnlyMisses(t *testing.T) {
	inner := &countingEmbedder{embedding: []float32{0.5}}
	e := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	_, err := e.Embed(context.Background(), "b", "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, 1, inner.calls)

	vectors, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"}, "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	for _, vec := range vectors {
		require.Equal(t, []float32{0.5}, vec)
	}
	// "b" was served from cache; only "a" and "c" hit the inner embedder
	require.Equal(t, 3, inner.calls)
	require.Equal(t, 1, inner.batchCalls)
}

func TestLruEmbedderBatchAllCachedSkipsInner(t *testing.T) {
	inner := &countingEmbedder{embedding: []float32{0.5}}
	e := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	_, err := e.EmbedBatch(context.Background(), []string{"a", "b"}, "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	_, err = e.EmbedBatch(context.Background(), []string{"b", "a"}, "RETRIEVAL_DOCUMENT")
	require.NoError(t, err)
	require.Equal(t, 1, inner.batchCalls)
}

func TestLruEmbedderReturnsCopies(t *testing.T) {
	inner := &countingEmbedder{embedding: []float32{1, 2}}
	e := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	v1, err := e.Embed(context.Background(), "x", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	v1[0] = 99

	v2, err := e.Embed(context.Background(), "x", "RETRIEVAL_QUERY")
	require.NoError(t, err)
	require.Equal(t, float32(1), v2[0])
}

func TestWrapLruCacheToEmbedderDisabled(t *testing.T) {
	inner := &countingEmbedder{}
	require.Nil(t, WrapLruCacheToEmbedder(nil, 16, time.Minute))
	require.Same(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Minute))
	require.Same(t, inner, WrapLruCacheToEmbedder(inner, 16, 0))
}

func TestBuildCacheKey(t *testing.T) {
	key1, hash1, model1 := buildCacheKey("m1", "RETRIEVAL_QUERY", "text")
	key2, hash2, _ := buildCacheKey("m1", "RETRIEVAL_QUERY", "text")
	require.Equal(t, key1, key2)
	require.Equal(t, hash1, hash2)
	require.Equal(t, "m1", model1)

	key3, _, _ := buildCacheKey("m2", "RETRIEVAL_QUERY", "text")
	require.NotEqual(t, key1, key3)

	_, _, model4 := buildCacheKey("  ", "RETRIEVAL_QUERY", "text")
	require.Equal(t, "unknown", model4)
}
