package embedder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProviderSelection(t *testing.T) {
	emb, err := New(Config{Provider: "local"})
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, emb.Provider())
	assert.Equal(t, LocalDimension, emb.Dimension())
	require.NoError(t, emb.Close())

	emb, err = New(Config{Provider: "OpenAI", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, emb.Provider())
	assert.Equal(t, OpenAIDimension, emb.Dimension())
	require.NoError(t, emb.Close())
}

func TestNew_UnsupportedProvider(t *testing.T) {
	_, err := New(Config{Provider: "cohere"})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)

	_, err = New(Config{})
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestNew_OpenAIRequiresAPIKey(t *testing.T) {
	_, err := New(Config{Provider: "openai"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLocalProvider_Deterministic(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)

	vec1, err := emb.Embed(context.Background(), "quarterly revenue report")
	require.NoError(t, err)
	vec2, err := emb.Embed(context.Background(), "quarterly revenue report")
	require.NoError(t, err)

	assert.Len(t, vec1, LocalDimension)
	assert.Equal(t, vec1, vec2)
}

func TestLocalProvider_Normalized(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)

	vec, err := emb.Embed(context.Background(), "alpha beta gamma")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v * v)
	}
	assert.InDelta(t, 1.0, norm, 1e-5)
}

func TestLocalProvider_SimilarityOrdering(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)
	ctx := context.Background()

	base, err := emb.Embed(ctx, "quarterly budget revenue forecast")
	require.NoError(t, err)
	near, err := emb.Embed(ctx, "quarterly budget revenue summary")
	require.NoError(t, err)
	far, err := emb.Embed(ctx, "zebra migration patterns serengeti")
	require.NoError(t, err)

	assert.Greater(t, CosineSimilarity(base, near), CosineSimilarity(base, far))
	assert.InDelta(t, 1.0, CosineSimilarity(base, base), 1e-6)
}

func TestLocalProvider_EmptyText(t *testing.T) {
	emb, err := NewLocalProvider(nil)
	require.NoError(t, err)

	_, err = emb.Embed(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestCache_GetSetAndCopy(t *testing.T) {
	cache := NewCache(10)
	hash := ComputeHash("hello")

	_, ok := cache.Get(hash)
	assert.False(t, ok)

	cache.Set(hash, []float32{1, 2, 3})
	vec, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, []float32{1, 2, 3}, vec)

	// Mutating the returned slice must not corrupt the cached value.
	vec[0] = 99
	vec2, ok := cache.Get(hash)
	require.True(t, ok)
	assert.Equal(t, float32(1), vec2[0])
}

func TestCache_LRUEviction(t *testing.T) {
	cache := NewCache(2)
	cache.Set("a", []float32{1})
	cache.Set("b", []float32{2})
	cache.Set("c", []float32{3})

	assert.Equal(t, 2, cache.Size())
	_, ok := cache.Get("a")
	assert.False(t, ok, "oldest entry should have been evicted")
}

func TestLocalProvider_UsesCache(t *testing.T) {
	cache := NewCache(10)
	emb, err := NewLocalProvider(cache)
	require.NoError(t, err)

	_, err = emb.Embed(context.Background(), "cached text")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Size())

	vec, ok := cache.Get(ComputeHash("cached text"))
	require.True(t, ok)
	assert.Len(t, vec, LocalDimension)
}

func TestComputeHash(t *testing.T) {
	assert.Equal(t, ComputeHash("x"), ComputeHash("x"))
	assert.NotEqual(t, ComputeHash("x"), ComputeHash("y"))
	assert.Len(t, ComputeHash("x"), 64)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)

	// Degenerate inputs.
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
