package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	customErr "github.com/shiv90154/CarrerPath-sub002/internal/domain/errors"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAccessGrantor_GrantIsIdempotent(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	firstOrder, secondOrder := uuid.New(), uuid.New()

	first, err := h.grantor.Grant(ctx, buyer.ID, model.ItemTypeCourse, paidID, firstOrder)
	require.NoError(t, err)
	second, err := h.grantor.Grant(ctx, buyer.ID, model.ItemTypeCourse, paidID, secondOrder)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, firstOrder, second.GrantingOrderID)
	assert.Equal(t, first.GrantedAt, second.GrantedAt)
	assert.Equal(t, 1, h.store.entitlementCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Grants.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.metrics.Grants.WithLabelValues("existing")))
}

func TestAccessGrantor_RolledBackGrantLeavesCache(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	err := h.store.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.grantor.Grant(ctx, buyer.ID, model.ItemTypeCourse, paidID, uuid.New()); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	assert.Equal(t, 0, h.store.entitlementCount())
	assert.Empty(t, h.cache.invalidated)
}

func TestAccessGrantor_HasEntitlement(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	owned, err := h.grantor.HasEntitlement(ctx, buyer.ID, model.ItemTypeCourse, paidID)
	require.NoError(t, err)
	assert.False(t, owned)

	_, err = h.grantor.Grant(ctx, buyer.ID, model.ItemTypeCourse, paidID, uuid.New())
	require.NoError(t, err)

	owned, err = h.grantor.HasEntitlement(ctx, buyer.ID, model.ItemTypeCourse, paidID)
	require.NoError(t, err)
	assert.True(t, owned)

	owned, err = h.grantor.HasEntitlement(ctx, other.ID, model.ItemTypeCourse, paidID)
	require.NoError(t, err)
	assert.False(t, owned)
}

func TestAccessGrantor_ListEntitlements(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	_, err := h.grantor.Grant(ctx, buyer.ID, model.ItemTypeCourse, paidID, uuid.New())
	require.NoError(t, err)

	t.Run("self defaults to actor", func(t *testing.T) {
		list, err := h.grantor.ListEntitlements(ctx, buyer, "")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("served from cache after first read", func(t *testing.T) {
		cached, ok, err := h.cache.Get(ctx, buyer.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Len(t, cached, 1)
	})

	t.Run("admin reads any buyer", func(t *testing.T) {
		list, err := h.grantor.ListEntitlements(ctx, admin, buyer.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		list, err := h.grantor.ListEntitlements(ctx, other, "")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("other buyer is forbidden", func(t *testing.T) {
		_, err := h.grantor.ListEntitlements(ctx, other, buyer.ID)
		assert.ErrorIs(t, err, customErr.ErrForbidden)
	})

	t.Run("grant invalidates cache", func(t *testing.T) {
		_, err := h.grantor.Grant(ctx, buyer.ID, model.ItemTypeEbook, ebookID, uuid.New())
		require.NoError(t, err)

		list, err := h.grantor.ListEntitlements(ctx, buyer, "")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

// pausingEntitlements holds the first ListByBuyer after its read until resume closes.
type pausingEntitlements struct {
	memEntitlements
	once   sync.Once
	read   chan struct{}
	resume chan struct{}
}

func (p *pausingEntitlements) ListByBuyer(ctx context.Context, buyerID string) ([]*model.Entitlement, error) {
	list, err := p.memEntitlements.ListByBuyer(ctx, buyerID)
	p.once.Do(func() {
		close(p.read)
		<-p.resume
	})
	return list, err
}

func TestAccessGrantor_ListDoesNotCacheReadOlderThanGrant(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	slow := &pausingEntitlements{
		memEntitlements: memEntitlements{h.store},
		read:            make(chan struct{}),
		resume:          make(chan struct{}),
	}
	reader := NewAccessGrantor(h.store, slow, h.cache, h.metrics, zap.NewNop())

	type result struct {
		list []*model.Entitlement
		err  error
	}
	done := make(chan result, 1)
	go func() {
		list, err := reader.ListEntitlements(ctx, buyer, "")
		done <- result{list, err}
	}()

	<-slow.read
	_, err := h.grantor.Grant(ctx, buyer.ID, model.ItemTypeCourse, paidID, uuid.New())
	require.NoError(t, err)
	close(slow.resume)

	stale := <-done
	require.NoError(t, stale.err)
	assert.Empty(t, stale.list)

	_, cached, err := h.cache.Get(ctx, buyer.ID)
	require.NoError(t, err)
	assert.False(t, cached)

	list, err := reader.ListEntitlements(ctx, buyer, "")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, paidID, list[0].ItemRef)
}
