package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
)

// TransitionRepository appends to the order audit trail
type TransitionRepository interface {
	Record(ctx context.Context, t *model.OrderTransition) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.OrderTransition, error)
}
