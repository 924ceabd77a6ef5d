package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struchkova/konakovo-backend/internal/cache"
)

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c cache.Cache = cache.Nop{}

	require.NoError(t, c.Set(ctx, cache.KeyServices, []string{"x"}))

	var out []string
	hit, err := c.Get(ctx, cache.KeyServices, &out)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, out)

	assert.NoError(t, c.Delete(ctx, cache.CatalogKeys...))
}

func TestOpen_BadURL(t *testing.T) {
	_, err := cache.Open(context.Background(), "http://localhost:6379")

	assert.Error(t, err)
}

// newTestRedis connects to TEST_REDIS_URL and skips when it is unset.
// Each test gets its own key prefix so runs never collide.
func newTestRedis(t *testing.T) *cache.Redis {
	t.Helper()
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set; skipping integration test")
	}

	client, err := cache.Open(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedis(client, "test:"+uuid.NewString()+":", time.Minute)
}

type payload struct {
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

func TestRedis_RoundTrip(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	var miss payload
	hit, err := c.Get(ctx, cache.KeySchedule, &miss)
	require.NoError(t, err)
	assert.False(t, hit)

	in := payload{Title: "Март 2026", Tags: []string{"йога"}}
	require.NoError(t, c.Set(ctx, cache.KeySchedule, in))

	var out payload
	hit, err = c.Get(ctx, cache.KeySchedule, &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, in, out)
}

func TestRedis_Delete(t *testing.T) {
	c := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, cache.KeyServices, payload{Title: "x"}))
	require.NoError(t, c.Delete(ctx, cache.CatalogKeys...))

	var out payload
	hit, err := c.Get(ctx, cache.KeyServices, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}
