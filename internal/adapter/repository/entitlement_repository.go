package repository

import (
	"context"
	"fmt"

	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entitlementRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewEntitlementRepository creates a new entitlement repository instance
func NewEntitlementRepository(db *gorm.DB, logger *zap.Logger) domainRepo.EntitlementRepository {
	return &entitlementRepository{
		db:     db,
		logger: logger,
	}
}

// InsertIfAbsent relies on idx_entitlements_identity, so concurrent grants
// for the same item leave exactly one row whose order id is never overwritten.
func (r *entitlementRepository) InsertIfAbsent(ctx context.Context, e *model.Entitlement) (*model.Entitlement, bool, error) {
	db := conn(ctx, r.db)

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "buyer_id"}, {Name: "item_type"}, {Name: "item_ref"}},
		DoNothing: true,
	}).Create(e)
	if result.Error != nil {
		r.logger.Error("Failed to insert entitlement",
			zap.String("buyer_id", e.BuyerID),
			zap.String("item_type", string(e.ItemType)),
			zap.String("item_ref", e.ItemRef),
			zap.Error(result.Error))
		return nil, false, fmt.Errorf("failed to insert entitlement: %w", result.Error)
	}
	created := result.RowsAffected == 1

	stored, err := r.Get(ctx, e.BuyerID, e.ItemType, e.ItemRef)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read back entitlement: %w", err)
	}

	if !created {
		r.logger.Info("Entitlement already granted (idempotency)",
			zap.String("buyer_id", e.BuyerID),
			zap.String("item_ref", e.ItemRef),
			zap.String("granting_order_id", stored.GrantingOrderID.String()))
	}

	return stored, created, nil
}

func (r *entitlementRepository) Get(ctx context.Context, buyerID string, itemType model.ItemType, itemRef string) (*model.Entitlement, error) {
	var e model.Entitlement
	err := conn(ctx, r.db).
		Where("buyer_id = ? AND item_type = ? AND item_ref = ?", buyerID, itemType, itemRef).
		First(&e).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (r *entitlementRepository) ListByBuyer(ctx context.Context, buyerID string) ([]*model.Entitlement, error) {
	var list []*model.Entitlement
	err := conn(ctx, r.db).
		Where("buyer_id = ?", buyerID).
		Order("granted_at ASC").
		Find(&list).Error
	if err != nil {
		r.logger.Error("Failed to list entitlements",
			zap.String("buyer_id", buyerID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list entitlements: %w", err)
	}
	return list, nil
}
