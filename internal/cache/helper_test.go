package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestAsidePopulatesAndReadsBack(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedThing) func() error {
		return func() error {
			fetches++
			dest.Name = "general"
			dest.Count = 3
			return nil
		}
	}

	var first cachedThing
	require.NoError(t, Aside(ctx, ChannelKey(7), &first, ChannelTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "general", first.Name)

	// Second read must come from the cache.
	var second cachedThing
	require.NoError(t, Aside(ctx, ChannelKey(7), &second, ChannelTTL, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAsideFetchErrorIsNotCached(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	boom := errors.New("db down")
	var dest cachedThing
	err := Aside(ctx, PostKey(1), &dest, PostTTL, func() error { return boom })
	assert.ErrorIs(t, err, boom)

	found, err := GetJSON(ctx, PostKey(1), &dest)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidateChannelDropsCatalogToo(t *testing.T) {
	mr := setupMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ChannelKey(2), cachedThing{Name: "a"}, ChannelTTL))
	require.NoError(t, SetJSON(ctx, CatalogKey(), []cachedThing{{Name: "a"}}, CatalogTTL))

	InvalidateChannel(ctx, 2)

	assert.False(t, mr.Exists(ChannelKey(2)))
	assert.False(t, mr.Exists(CatalogKey()))
}

func TestAsideIsNoopWithoutClient(t *testing.T) {
	SetClient(nil)
	var dest cachedThing
	err := Aside(context.Background(), ChannelKey(1), &dest, ChannelTTL, func() error {
		dest.Name = "fallback"
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "fallback", dest.Name)
}
