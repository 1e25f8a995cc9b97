package usecase

import (
	"context"
	"net/url"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shopspring/decimal"
)

// PayeeConfig is the UPI destination shown in payment instructions.
type PayeeConfig struct {
	UPIID string
	Name  string
}

// WorkflowService sequences the buyer-facing purchase flow.
type WorkflowService struct {
	orders *OrderService
	proofs *ProofService
	payee  PayeeConfig
}

func NewWorkflowService(orders *OrderService, proofs *ProofService, payee PayeeConfig) *WorkflowService {
	return &WorkflowService{
		orders: orders,
		proofs: proofs,
		payee:  payee,
	}
}

// Purchase creates the order and, for paid items, attaches the payment
// instructions the buyer needs to pay out of band.
func (w *WorkflowService) Purchase(ctx context.Context, actor entity.Actor, itemType model.ItemType, itemRef string) (*entity.CreateOrderResult, error) {
	result, err := w.orders.CreateOrder(ctx, actor, itemType, itemRef)
	if err != nil {
		return nil, err
	}
	if !result.Order.IsFree() {
		result.Instructions = w.instructions(result.Order)
	}
	return result, nil
}

// Status summarizes the order for a polling client.
func (w *WorkflowService) Status(ctx context.Context, actor entity.Actor, orderID uuid.UUID) (*entity.OrderStatus, error) {
	order, err := w.orders.GetOrder(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	hasProof, err := w.proofs.HasProof(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	status := &entity.OrderStatus{
		Order:    order,
		Phase:    entity.PhaseOf(order.State),
		HasProof: hasProof,
	}
	if order.State == model.OrderStatePendingProof {
		status.Instructions = w.instructions(order)
	}
	return status, nil
}

func (w *WorkflowService) instructions(order *model.Order) *entity.PaymentInstructions {
	amount := decimal.New(order.Amount, -2).StringFixed(2)

	q := url.Values{}
	q.Set("pa", w.payee.UPIID)
	q.Set("pn", w.payee.Name)
	q.Set("am", amount)
	q.Set("cu", order.Currency)
	q.Set("tn", order.Reference)

	return &entity.PaymentInstructions{
		PayeeUPIID:    w.payee.UPIID,
		PayeeName:     w.payee.Name,
		Amount:        order.Amount,
		AmountDisplay: entity.FormatINR(order.Amount),
		Currency:      order.Currency,
		Reference:     order.Reference,
		UPIURI:        "upi://pay?" + q.Encode(),
	}
}
