package cache

import (
	"LostFound/internal/model"
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNop(t *testing.T) {
	var c MatchCache = Nop{}
	ctx := context.Background()
	require.NoError(t, c.Set(ctx, 0, "x", []model.Item{{ID: "y"}}))
	items, ok, err := c.Get(ctx, 0, "x")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, items)
	assert.NoError(t, c.Bump(ctx))
	gen, err := c.Generation(ctx)
	assert.NoError(t, err)
	assert.Zero(t, gen)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "lostfound:matches:3:abc", Key(3, "abc"))
}

// Интеграционный тест: выполняется только при заданном REDIS_URL.
func TestRedisMatchCache_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}
	ctx := context.Background()
	client, err := Connect(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisMatchCache(client, time.Minute)
	id := uuid.NewString()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	_, ok, err := c.Get(ctx, gen, id)
	require.NoError(t, err)
	assert.False(t, ok)

	cat := "Keys"
	require.NoError(t, c.Set(ctx, gen, id, []model.Item{{ID: "m1", Type: model.ItemFound, Category: &cat}}))
	items, ok, err := c.Get(ctx, gen, id)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "m1", items[0].ID)
	assert.Equal(t, "Keys", *items[0].Category)

	require.NoError(t, c.Set(ctx, gen, id, nil))
	items, ok, _ = c.Get(ctx, gen, id)
	assert.True(t, ok)
	assert.Empty(t, items)

	// после Bump старые записи не видны
	require.NoError(t, c.Bump(ctx))
	next, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Greater(t, next, gen)
	_, ok, _ = c.Get(ctx, next, id)
	assert.False(t, ok)
}
