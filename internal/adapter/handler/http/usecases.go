package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
)

// PurchaseUsecase is the buyer-facing workflow facade.
type PurchaseUsecase interface {
	Purchase(ctx context.Context, actor entity.Actor, itemType model.ItemType, itemRef string) (*entity.CreateOrderResult, error)
	Status(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*entity.OrderStatus, error)
}

// OrderQueryUsecase reads orders and their audit trail.
type OrderQueryUsecase interface {
	GetOrder(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, actor entity.Actor, filter entity.OrderFilter, page entity.PaginationParams) (*entity.PaginatedOrders, error)
	History(ctx context.Context, actor entity.Actor, orderID uuid.UUID) ([]*model.OrderTransition, error)
}

type ProofUsecase interface {
	AttachProof(ctx context.Context, actor entity.Actor, orderID uuid.UUID, data []byte, contentType string) (*model.PaymentProof, error)
	GetProof(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*entity.ProofView, error)
	MaxBytes() int64
}

type DecisionUsecase interface {
	Decide(ctx context.Context, actor entity.Actor, orderID uuid.UUID, decision entity.Decision) (*model.Order, error)
}

type EntitlementUsecase interface {
	ListEntitlements(ctx context.Context, actor entity.Actor, buyerID string) ([]*model.Entitlement, error)
}
