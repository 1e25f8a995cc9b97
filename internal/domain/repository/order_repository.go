package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
)

// StateChange is the set of columns written by a state transition.
// Nil pointers leave the column untouched.
type StateChange struct {
	To               model.OrderState
	ProofSubmittedAt *time.Time
	DecidedAt        *time.Time
	DecidedBy        *string
	DecisionNote     *string
	UpdatedAt        time.Time
}

// OrderRepository defines the persistence operations on orders
type OrderRepository interface {
	// Create inserts a new order
	Create(ctx context.Context, order *model.Order) error

	// GetByID returns ErrNotFound when the order does not exist
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// LockByID reads the order and holds its row lock until the transaction ends
	LockByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// List returns one page of orders matching filter and the total count.
	// Orders in pending_review are sorted oldest proof first, others newest first.
	List(ctx context.Context, filter entity.OrderFilter, limit, offset int) ([]*model.Order, int64, error)

	// CompareAndSwapState applies change only while the order is in one of from.
	// It reports false when no row was updated.
	CompareAndSwapState(ctx context.Context, id uuid.UUID, from []model.OrderState, change StateChange) (bool, error)
}
