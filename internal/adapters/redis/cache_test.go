package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	redisad "hostel_finder/internal/adapters/redis"
	"hostel_finder/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	in := []domain.Hostel{{ID: "1", Name: "Pagoda", Amenities: []string{"WiFi"}, Price: 900}}
	require.NoError(t, c.Set(ctx, "k", in, 60))

	var out []domain.Hostel
	ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, in[0].Name, out[0].Name)
	require.Equal(t, in[0].Amenities, out[0].Amenities)

	mr.FastForward(61 * time.Second)
	ok, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_Miss(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	var out map[string]any
	ok, err := c.Get(ctx, "absent", &out)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_Incr(t *testing.T) {
	c, _ := newCache(t)
	ctx := context.Background()

	n, err := c.Incr(ctx, "gen")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	n, _ = c.Incr(ctx, "gen")
	require.EqualValues(t, 2, n)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("bad", "{not json"))

	var out []domain.Hostel
	ok, err := c.Get(context.Background(), "bad", &out)
	require.Error(t, err)
	require.False(t, ok)
}
