package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func useTestRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()

	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestGetSetJSON(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	var out payload
	found, err := GetJSON(ctx, "missing", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, "k", payload{Name: "x", Count: 3}, time.Minute))

	found, err = GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "x", Count: 3}, out)
}

func TestAside(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	calls := 0
	fetch := func(dest *payload) func() error {
		return func() error {
			calls++
			*dest = payload{Name: "db", Count: calls}
			return nil
		}
	}

	var first payload
	require.NoError(t, Aside(ctx, "aside:k", &first, time.Minute, fetch(&first)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "db", first.Name)

	// second read is served from the cache
	var second payload
	require.NoError(t, Aside(ctx, "aside:k", &second, time.Minute, fetch(&second)))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestAsideFallsBackWhenRedisDies(t *testing.T) {
	mr := useTestRedis(t)
	ctx := context.Background()

	// Redis was reachable at startup but goes away mid-life.
	mr.Close()

	calls := 0
	var out payload
	fetch := func() error {
		calls++
		out = payload{Name: "db"}
		return nil
	}

	require.NoError(t, Aside(ctx, "k", &out, time.Minute, fetch))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "db", out.Name)
}

func TestAsideWithoutRedis(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	calls := 0
	var out payload
	fetch := func() error {
		calls++
		out = payload{Name: "db"}
		return nil
	}

	// every read falls through to fetch when the cache is down
	require.NoError(t, Aside(ctx, "k", &out, time.Minute, fetch))
	require.NoError(t, Aside(ctx, "k", &out, time.Minute, fetch))
	assert.Equal(t, 2, calls)
}

func TestInvalidate(t *testing.T) {
	useTestRedis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, ProfileKey(1), payload{Name: "p"}, time.Minute))
	require.NoError(t, SetJSON(ctx, ProfilesListKey, []payload{{Name: "p"}}, time.Minute))

	InvalidateProfile(ctx, 1)

	var out payload
	found, err := GetJSON(ctx, ProfileKey(1), &out)
	require.NoError(t, err)
	assert.False(t, found)

	var list []payload
	found, err = GetJSON(ctx, ProfilesListKey, &list)
	require.NoError(t, err)
	assert.False(t, found)
}
