package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the OrderRepository interface
type orderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository instance
func NewOrderRepository(db *gorm.DB, logger *zap.Logger) domainRepo.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an order. A colliding reference surfaces as ErrDuplicate.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	// A savepoint keeps an outer transaction usable after a unique violation.
	err := conn(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("failed to create order %s: %w", order.Reference, domainRepo.ErrDuplicate)
		}
		r.logger.Error("Failed to create order",
			zap.String("order_id", order.ID.String()),
			zap.String("buyer_id", order.BuyerID),
			zap.Error(err))
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := conn(ctx, r.db).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// LockByID reads the order with SELECT ... FOR UPDATE. Only meaningful inside a transaction.
func (r *orderRepository) LockByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter entity.OrderFilter, limit, offset int) ([]*model.Order, int64, error) {
	query := conn(ctx, r.db).Model(&model.Order{})
	if filter.BuyerID != "" {
		query = query.Where("buyer_id = ?", filter.BuyerID)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count orders", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	if filter.State == model.OrderStatePendingReview {
		query = query.Order("proof_submitted_at ASC").Order("created_at ASC")
	} else {
		query = query.Order("created_at DESC")
	}

	var orders []*model.Order
	if err := query.Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, total, nil
}

func (r *orderRepository) CompareAndSwapState(ctx context.Context, id uuid.UUID, from []model.OrderState, change domainRepo.StateChange) (bool, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	updates := map[string]interface{}{
		"state":      change.To,
		"updated_at": change.UpdatedAt,
	}
	if change.ProofSubmittedAt != nil {
		updates["proof_submitted_at"] = *change.ProofSubmittedAt
	}
	if change.DecidedAt != nil {
		updates["decided_at"] = *change.DecidedAt
	}
	if change.DecidedBy != nil {
		updates["decided_by"] = *change.DecidedBy
	}
	if change.DecisionNote != nil {
		updates["decision_note"] = *change.DecisionNote
	}

	result := conn(ctx, r.db).
		Model(&model.Order{}).
		Where("id = ? AND state IN ?", id, states).
		Updates(updates)
	if result.Error != nil {
		r.logger.Error("Failed to update order state",
			zap.String("order_id", id.String()),
			zap.String("state", string(change.To)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to update order state: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}
