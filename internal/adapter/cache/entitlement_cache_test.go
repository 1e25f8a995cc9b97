package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*RedisEntitlementCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisEntitlementCache(client, time.Minute, zap.NewNop()), mr
}

func TestRedisEntitlementCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then hit", func(t *testing.T) {
		c, _ := newTestCache(t)

		list, ok, err := c.Get(ctx, "U1")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, list)

		orderID := uuid.New()
		want := []*model.Entitlement{{
			ID:              uuid.New(),
			BuyerID:         "U1",
			ItemType:        model.ItemTypeCourse,
			ItemRef:         "C1",
			GrantingOrderID: orderID,
			GrantedAt:       time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		}}
		stored, err := c.Set(ctx, "U1", 0, want)
		require.NoError(t, err)
		assert.True(t, stored)

		list, ok, err = c.Get(ctx, "U1")
		require.NoError(t, err)
		assert.True(t, ok)
		require.Len(t, list, 1)
		assert.Equal(t, orderID, list[0].GrantingOrderID)
		assert.True(t, want[0].GrantedAt.Equal(list[0].GrantedAt))
	})

	t.Run("empty list is cached as a hit", func(t *testing.T) {
		c, _ := newTestCache(t)
		_, err := c.Set(ctx, "U2", 0, nil)
		require.NoError(t, err)

		list, ok, err := c.Get(ctx, "U2")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, list)
	})

	t.Run("invalidate removes entry", func(t *testing.T) {
		c, mr := newTestCache(t)
		_, err := c.Set(ctx, "U3", 0, []*model.Entitlement{})
		require.NoError(t, err)
		assert.True(t, mr.Exists("entitlements:U3"))

		require.NoError(t, c.Invalidate(ctx, "U3"))
		assert.False(t, mr.Exists("entitlements:U3"))

		gen, err := c.Generation(ctx, "U3")
		require.NoError(t, err)
		assert.Equal(t, int64(1), gen)
	})

	t.Run("write with stale generation is dropped", func(t *testing.T) {
		c, mr := newTestCache(t)

		gen, err := c.Generation(ctx, "U5")
		require.NoError(t, err)
		assert.Equal(t, int64(0), gen)

		// A grant commits between the reader's generation read and its write.
		require.NoError(t, c.Invalidate(ctx, "U5"))

		stored, err := c.Set(ctx, "U5", gen, []*model.Entitlement{})
		require.NoError(t, err)
		assert.False(t, stored)
		assert.False(t, mr.Exists("entitlements:U5"))

		gen, err = c.Generation(ctx, "U5")
		require.NoError(t, err)
		stored, err = c.Set(ctx, "U5", gen, []*model.Entitlement{})
		require.NoError(t, err)
		assert.True(t, stored)
		assert.True(t, mr.Exists("entitlements:U5"))
	})

	t.Run("generation outlives list expiry", func(t *testing.T) {
		c, mr := newTestCache(t)
		require.NoError(t, c.Invalidate(ctx, "U6"))
		mr.FastForward(time.Hour)

		gen, err := c.Generation(ctx, "U6")
		require.NoError(t, err)
		assert.Equal(t, int64(1), gen)
	})

	t.Run("corrupt generation surfaces an error", func(t *testing.T) {
		c, mr := newTestCache(t)
		require.NoError(t, mr.Set("entitlement_gen:U7", "not-a-number"))

		_, err := c.Generation(ctx, "U7")
		assert.Error(t, err)
	})

	t.Run("entries expire", func(t *testing.T) {
		c, mr := newTestCache(t)
		_, err := c.Set(ctx, "U4", 0, []*model.Entitlement{})
		require.NoError(t, err)
		mr.FastForward(2 * time.Minute)

		_, ok, err := c.Get(ctx, "U4")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestNoopEntitlementCache(t *testing.T) {
	c := NoopEntitlementCache{}
	stored, err := c.Set(context.Background(), "U1", 0, nil)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(context.Background(), "U1")
	require.NoError(t, err)
	assert.False(t, ok)
}
