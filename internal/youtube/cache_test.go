package youtube_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/way-po-int/subtitle-extractor/internal/youtube"
	"github.com/way-po-int/subtitle-extractor/internal/youtube/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := youtube.NewCache(ctx, "", time.Minute, 0)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "k", []byte("v"))
	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", string(got))

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestCache_Expired(t *testing.T) {
	ctx := context.Background()
	c := youtube.NewCache(ctx, "", time.Nanosecond, 0)

	c.Set(ctx, "k", []byte("v"))
	time.Sleep(time.Millisecond)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCache_EvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := youtube.NewCache(ctx, "", time.Minute, 2)

	c.Set(ctx, "a", []byte("1"))
	time.Sleep(time.Millisecond)
	c.Set(ctx, "b", []byte("2"))
	time.Sleep(time.Millisecond)
	c.Set(ctx, "c", []byte("3"))

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry should be evicted")
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestCache_InvalidRedisURLDisablesL2(t *testing.T) {
	ctx := context.Background()
	c := youtube.NewCache(ctx, "not-a-url", time.Minute, 0)
	defer c.Close()

	c.Set(ctx, "k", []byte("v"))
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)
}

func TestKey_Deterministic(t *testing.T) {
	assert.Equal(t, youtube.Key("a", "b"), youtube.Key("a", "b"))
	assert.NotEqual(t, youtube.Key("a", "b"), youtube.Key("a|b", ""))
}

func TestCached_Fetch(t *testing.T) {
	ctx := context.Background()
	opts := youtube.FetchOptions{Language: "en", AutoGenerated: true}

	m := &fixtures.MockFetcher{}
	m.On("Fetch", mock.Anything, "dQw4w9WgXcQ", opts).Return(fixtures.SampleResult("dQw4w9WgXcQ"), nil).Once()

	f := youtube.NewCached(m, youtube.NewCache(ctx, "", time.Minute, 10))

	first, err := f.Fetch(ctx, "dQw4w9WgXcQ", opts)
	require.NoError(t, err)
	second, err := f.Fetch(ctx, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	m.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestCached_DoesNotCacheErrorsOrEmpty(t *testing.T) {
	ctx := context.Background()
	opts := youtube.FetchOptions{Language: "ko"}

	empty := fixtures.SampleResult("abcdefghijk")
	empty.Captions = ""

	m := &fixtures.MockFetcher{}
	m.On("Fetch", mock.Anything, "abcdefghijk", opts).Return(nil, errors.New("boom")).Once()
	m.On("Fetch", mock.Anything, "abcdefghijk", opts).Return(empty, nil).Twice()

	f := youtube.NewCached(m, youtube.NewCache(ctx, "", time.Minute, 10))

	_, err := f.Fetch(ctx, "abcdefghijk", opts)
	assert.Error(t, err)
	_, err = f.Fetch(ctx, "abcdefghijk", opts)
	assert.NoError(t, err)
	_, err = f.Fetch(ctx, "abcdefghijk", opts)
	assert.NoError(t, err)

	m.AssertExpectations(t)
}
