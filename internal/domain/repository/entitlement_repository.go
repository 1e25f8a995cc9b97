package repository

import (
	"context"

	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
)

// EntitlementRepository records access grants
type EntitlementRepository interface {
	// InsertIfAbsent inserts e unless (buyer, item type, item ref) already exists,
	// then returns the stored row. created is false when an earlier grant won.
	InsertIfAbsent(ctx context.Context, e *model.Entitlement) (stored *model.Entitlement, created bool, err error)

	// Get returns ErrNotFound when the buyer has no entitlement for the item
	Get(ctx context.Context, buyerID string, itemType model.ItemType, itemRef string) (*model.Entitlement, error)

	// ListByBuyer returns every entitlement of buyerID, oldest first
	ListByBuyer(ctx context.Context, buyerID string) ([]*model.Entitlement, error)
}
