package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	customErr "github.com/shiv90154/CarrerPath-sub002/internal/domain/errors"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
)

// AccessGrantor is the only writer of entitlements.
type AccessGrantor struct {
	tx           domainRepo.Transactor
	entitlements domainRepo.EntitlementRepository
	cache        provider.EntitlementCache
	metrics      *Metrics
	logger       *zap.Logger
	now          func() time.Time
}

func NewAccessGrantor(
	tx domainRepo.Transactor,
	entitlements domainRepo.EntitlementRepository,
	cache provider.EntitlementCache,
	metrics *Metrics,
	logger *zap.Logger,
) *AccessGrantor {
	return &AccessGrantor{
		tx:           tx,
		entitlements: entitlements,
		cache:        cache,
		metrics:      metrics,
		logger:       logger,
		now:          defaultClock,
	}
}

// Grant records that buyerID may consume the item. It is idempotent: when an
// entitlement already exists it is returned unchanged, including its granting order.
// Called inside a transaction it joins it, and the cache is invalidated on commit.
func (g *AccessGrantor) Grant(ctx context.Context, buyerID string, itemType model.ItemType, itemRef string, orderID uuid.UUID) (*model.Entitlement, error) {
	var stored *model.Entitlement
	var created bool

	err := g.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		stored, created, err = g.entitlements.InsertIfAbsent(ctx, &model.Entitlement{
			ID:              uuid.New(),
			BuyerID:         buyerID,
			ItemType:        itemType,
			ItemRef:         itemRef,
			GrantingOrderID: orderID,
			GrantedAt:       g.now(),
		})
		if err != nil {
			return err
		}

		g.tx.AfterCommit(ctx, func(ctx context.Context) {
			result := "existing"
			if created {
				result = "created"
			}
			g.metrics.Grants.WithLabelValues(result).Inc()
			if err := g.cache.Invalidate(ctx, buyerID); err != nil {
				g.logger.Warn("Failed to invalidate entitlement cache",
					zap.String("buyer_id", buyerID),
					zap.Error(err))
			}
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to grant entitlement: %w", err)
	}

	if created {
		g.logger.Info("Entitlement granted",
			zap.String("buyer_id", buyerID),
			zap.String("item_type", string(itemType)),
			zap.String("item_ref", itemRef),
			zap.String("order_id", orderID.String()))
	}

	return stored, nil
}

// HasEntitlement reports whether buyerID already owns the item.
func (g *AccessGrantor) HasEntitlement(ctx context.Context, buyerID string, itemType model.ItemType, itemRef string) (bool, error) {
	_, err := g.entitlements.Get(ctx, buyerID, itemType, itemRef)
	if errors.Is(err, domainRepo.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check entitlement: %w", err)
	}
	return true, nil
}

// ListEntitlements returns buyerID's entitlements. An empty buyerID means the actor.
// Cache failures fall back to the database.
func (g *AccessGrantor) ListEntitlements(ctx context.Context, actor entity.Actor, buyerID string) ([]*model.Entitlement, error) {
	if buyerID == "" {
		buyerID = actor.ID
	}
	if !actor.CanView(buyerID) {
		return nil, customErr.NewForbiddenError("", "cannot list another buyer's entitlements")
	}

	list, ok, err := g.cache.Get(ctx, buyerID)
	if err != nil {
		g.logger.Warn("Entitlement cache read failed", zap.String("buyer_id", buyerID), zap.Error(err))
	}
	if ok {
		return list, nil
	}

	// The generation is read before the database so a grant committing
	// during the read makes the write below a no-op.
	gen, genErr := g.cache.Generation(ctx, buyerID)
	if genErr != nil {
		g.logger.Warn("Entitlement cache generation read failed", zap.String("buyer_id", buyerID), zap.Error(genErr))
	}

	list, err = g.entitlements.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*model.Entitlement{}
	}

	if genErr == nil {
		if _, err := g.cache.Set(ctx, buyerID, gen, list); err != nil {
			g.logger.Warn("Entitlement cache write failed", zap.String("buyer_id", buyerID), zap.Error(err))
		}
	}
	return list, nil
}
