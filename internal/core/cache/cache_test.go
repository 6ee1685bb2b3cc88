package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

type item struct {
	Name string `json:"name"`
}

func TestJSONCachesUntilInvalidated(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var loads int32
	load := func(context.Context) ([]item, error) {
		atomic.AddInt32(&loads, 1)
		return []item{{Name: "a"}, {Name: "b"}}, nil
	}

	got, err := JSON(ctx, c, "items", time.Minute, load)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.True(t, mr.Exists("talentdesk:items"))

	_, err = JSON(ctx, c, "items", time.Minute, load)
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&loads))

	require.NoError(t, c.Invalidate(ctx, "items"))
	assert.False(t, mr.Exists("talentdesk:items"))

	_, err = JSON(ctx, c, "items", time.Minute, load)
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&loads))
}

func TestJSONReloadsCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("talentdesk:items", "{broken"))

	got, err := JSON(context.Background(), c, "items", time.Minute, func(context.Context) ([]item, error) {
		return []item{{Name: "fresh"}}, nil
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Name)
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c, mr := newTestCache(t)
	boom := errors.New("boom")
	_, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("talentdesk:k"))
}

func TestTTLExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	_, err := c.GetOrLoad(context.Background(), "k", time.Second, func(context.Context) ([]byte, error) {
		return []byte(`1`), nil
	})
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)
	assert.False(t, mr.Exists("talentdesk:k"))
}

func TestGenerationBump(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	n, err := c.Generation(ctx, "gen")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	k0, err := c.VersionedKey(ctx, "gen", "list")
	require.NoError(t, err)
	require.NoError(t, c.Bump(ctx, "gen"))
	k1, err := c.VersionedKey(ctx, "gen", "list")
	require.NoError(t, err)

	assert.Equal(t, "list:v0", k0)
	assert.Equal(t, "list:v1", k1)
}
