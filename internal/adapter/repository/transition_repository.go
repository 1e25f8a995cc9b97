package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type transitionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewTransitionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.TransitionRepository {
	return &transitionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transitionRepository) Record(ctx context.Context, t *model.OrderTransition) error {
	if err := conn(ctx, r.db).Create(t).Error; err != nil {
		r.logger.Error("Failed to record order transition",
			zap.String("order_id", t.OrderID.String()),
			zap.String("state", string(t.ToState)),
			zap.Error(err))
		return fmt.Errorf("failed to record order transition: %w", err)
	}
	return nil
}

func (r *transitionRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.OrderTransition, error) {
	var list []*model.OrderTransition
	err := conn(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list order transitions: %w", err)
	}
	return list, nil
}
