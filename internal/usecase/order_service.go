package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	customErr "github.com/shiv90154/CarrerPath-sub002/internal/domain/errors"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	referenceAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"
	referenceLength   = 10
	referenceAttempts = 3
)

// OrderService owns order creation, lookups and the initial transitions.
type OrderService struct {
	machine *stateMachine
	catalog provider.Catalog
	grantor *AccessGrantor
	newRef  func() (string, error)
	logger  *zap.Logger
}

func NewOrderService(
	tx domainRepo.Transactor,
	orders domainRepo.OrderRepository,
	transitions domainRepo.TransitionRepository,
	catalog provider.Catalog,
	grantor *AccessGrantor,
	publisher provider.EventPublisher,
	metrics *Metrics,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		machine: &stateMachine{
			tx:          tx,
			orders:      orders,
			transitions: transitions,
			publisher:   publisher,
			metrics:     metrics,
			logger:      logger,
			now:         defaultClock,
		},
		catalog: catalog,
		grantor: grantor,
		newRef:  newReference,
		logger:  logger,
	}
}

// newReference returns a short code buyers put in the UPI payment note.
func newReference() (string, error) {
	return gonanoid.Generate(referenceAlphabet, referenceLength)
}

// CreateOrder records a purchase intent at the catalog price.
// Paid orders are returned in pending_proof. Free orders are created approved
// together with their entitlement in one transaction.
func (s *OrderService) CreateOrder(ctx context.Context, actor entity.Actor, itemType model.ItemType, itemRef string) (*entity.CreateOrderResult, error) {
	itemRef = strings.TrimSpace(itemRef)
	if !itemType.Valid() {
		return nil, customErr.NewInvalidArgumentError(fmt.Sprintf("unknown item type %q", itemType))
	}
	if itemRef == "" {
		return nil, customErr.NewInvalidArgumentError("itemRef is required")
	}

	item, err := s.catalog.GetPrice(ctx, itemType, itemRef)
	if errors.Is(err, provider.ErrItemNotFound) {
		return nil, customErr.NewItemNotFoundError(string(itemType), itemRef)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up price: %w", err)
	}

	owned, err := s.grantor.HasEntitlement(ctx, actor.ID, itemType, itemRef)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, customErr.NewAlreadyEntitledError(string(itemType), itemRef)
	}

	var result *entity.CreateOrderResult
	for attempt := 1; attempt <= referenceAttempts; attempt++ {
		ref, err := s.newRef()
		if err != nil {
			return nil, fmt.Errorf("failed to generate order reference: %w", err)
		}

		order := s.newOrder(actor.ID, item, ref)
		if order.IsFree() {
			result, err = s.createFree(ctx, order)
		} else {
			result, err = s.createPaid(ctx, order)
		}
		if errors.Is(err, domainRepo.ErrDuplicate) {
			s.logger.Warn("Order reference collision, retrying",
				zap.String("reference", ref),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if result == nil {
		return nil, fmt.Errorf("failed to allocate a unique order reference")
	}

	pricing := "paid"
	if result.Order.IsFree() {
		pricing = "free"
	}
	s.machine.metrics.OrdersCreated.WithLabelValues(string(itemType), pricing).Inc()

	s.logger.Info("Order created",
		zap.String("order_id", result.Order.ID.String()),
		zap.String("buyer_id", result.Order.BuyerID),
		zap.String("item_ref", itemRef),
		zap.Int64("amount", result.Order.Amount),
		zap.String("state", string(result.Order.State)))

	return result, nil
}

func (s *OrderService) newOrder(buyerID string, item *provider.CatalogItem, ref string) *model.Order {
	now := s.machine.now()
	return &model.Order{
		ID:        uuid.New(),
		Reference: ref,
		BuyerID:   buyerID,
		ItemType:  item.Type,
		ItemRef:   item.Ref,
		ItemTitle: item.Title,
		Amount:    item.Amount,
		Currency:  model.CurrencyINR,
		State:     model.OrderStateCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *OrderService) createPaid(ctx context.Context, order *model.Order) (*entity.CreateOrderResult, error) {
	err := s.machine.withinTransaction(ctx, func(ctx context.Context) error {
		if err := s.machine.orders.Create(ctx, order); err != nil {
			return err
		}
		if err := s.machine.record(ctx, order, nil, order.BuyerID, nil, nil); err != nil {
			return err
		}
		return s.machine.advance(ctx, order, transition{
			From: []model.OrderState{model.OrderStateCreated},
			Change: domainRepo.StateChange{
				To:        model.OrderStatePendingProof,
				UpdatedAt: order.CreatedAt,
			},
			Actor: model.SystemActor,
		})
	})
	if err != nil {
		return nil, err
	}
	return &entity.CreateOrderResult{Order: order}, nil
}

func (s *OrderService) createFree(ctx context.Context, order *model.Order) (*entity.CreateOrderResult, error) {
	decidedBy := model.SystemActor
	order.State = model.OrderStateApproved
	order.DecidedAt = &order.CreatedAt
	order.DecidedBy = &decidedBy

	var granted *model.Entitlement
	err := s.machine.withinTransaction(ctx, func(ctx context.Context) error {
		if err := s.machine.orders.Create(ctx, order); err != nil {
			return err
		}
		if err := s.machine.record(ctx, order, nil, model.SystemActor, nil, map[string]interface{}{"free": true}); err != nil {
			return err
		}

		var err error
		granted, err = s.grantor.Grant(ctx, order.BuyerID, order.ItemType, order.ItemRef, order.ID)
		if err != nil {
			return err
		}
		if granted.GrantingOrderID != order.ID {
			// A concurrent order won the grant; drop this one.
			return customErr.NewAlreadyEntitledError(string(order.ItemType), order.ItemRef)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entity.CreateOrderResult{Order: order, Entitlement: granted}, nil
}

// GetOrder returns the order when actor is its buyer or an admin.
func (s *OrderService) GetOrder(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.machine.orders.GetByID(ctx, orderID)
	if errors.Is(err, domainRepo.ErrNotFound) {
		return nil, customErr.NewOrderNotFoundError(orderID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !actor.CanView(order.BuyerID) {
		return nil, customErr.NewForbiddenError(orderID.String(), "order belongs to another buyer")
	}
	return order, nil
}

// ListOrders pages through orders. Buyers only ever see their own.
func (s *OrderService) ListOrders(ctx context.Context, actor entity.Actor, filter entity.OrderFilter, page entity.PaginationParams) (*entity.PaginatedOrders, error) {
	if !actor.IsAdmin() {
		filter.BuyerID = actor.ID
	}
	if filter.State != "" && !filter.State.Valid() {
		return nil, customErr.NewInvalidArgumentError(fmt.Sprintf("unknown state %q", filter.State))
	}
	page = page.Normalized()

	orders, total, err := s.machine.orders.List(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*model.Order{}
	}

	return &entity.PaginatedOrders{
		Data:       orders,
		Pagination: entity.NewPaginationMeta(page, total),
	}, nil
}

// History returns the order's audit trail, oldest first.
func (s *OrderService) History(ctx context.Context, actor entity.Actor, orderID uuid.UUID) ([]*model.OrderTransition, error) {
	if _, err := s.GetOrder(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return s.machine.transitions.ListByOrder(ctx, orderID)
}
