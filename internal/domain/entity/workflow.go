package entity

import (
	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
)

// Role names carried in the access token.
const (
	RoleAdmin = "admin"
	RoleBuyer = "buyer"
)

// Actor is the authenticated caller of an operation.
type Actor struct {
	ID   string
	Role string
}

// IsAdmin reports whether the actor holds approval privilege.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanView reports whether the actor may read data owned by buyerID.
func (a Actor) CanView(buyerID string) bool {
	return a.IsAdmin() || a.ID == buyerID
}

// Phase is the UI-facing summary of an order state.
type Phase string

const (
	PhaseAwaitingPayment Phase = "awaiting_payment"
	PhaseAwaitingReview  Phase = "awaiting_review"
	PhaseCompleted       Phase = "completed"
	PhaseRejected        Phase = "rejected"
)

// PhaseOf maps an order state onto its phase. created is only ever observed
// inside the creating transaction, so it reports as awaiting payment.
func PhaseOf(state model.OrderState) Phase {
	switch state {
	case model.OrderStatePendingReview:
		return PhaseAwaitingReview
	case model.OrderStateApproved:
		return PhaseCompleted
	case model.OrderStateRejected:
		return PhaseRejected
	default:
		return PhaseAwaitingPayment
	}
}

// PaymentInstructions tell the buyer where and how much to pay.
type PaymentInstructions struct {
	PayeeUPIID    string `json:"payeeUpiId"`
	PayeeName     string `json:"payeeName"`
	Amount        int64  `json:"amount"`
	AmountDisplay string `json:"amountDisplay"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
	UPIURI        string `json:"upiUri"`
}

// CreateOrderResult is returned when a purchase intent is recorded.
// Instructions is nil for free items.
type CreateOrderResult struct {
	Order        *model.Order         `json:"order"`
	Instructions *PaymentInstructions `json:"instructions,omitempty"`
	Entitlement  *model.Entitlement   `json:"entitlement,omitempty"`
}

// OrderStatus is what a polling client needs to render the order.
type OrderStatus struct {
	Order        *model.Order         `json:"order"`
	Phase        Phase                `json:"phase"`
	HasProof     bool                 `json:"hasProof"`
	Instructions *PaymentInstructions `json:"instructions,omitempty"`
}

// ProofView pairs a proof with a short-lived URL to the image.
type ProofView struct {
	Proof *model.PaymentProof `json:"proof"`
	URL   string              `json:"url"`
}

// OrderFilter narrows listOrders. BuyerID is forced to the caller for buyers.
type OrderFilter struct {
	BuyerID string
	State   model.OrderState
}

// Decision outcomes accepted by the approval authority.
const (
	OutcomeApproved = "approved"
	OutcomeRejected = "rejected"
)

// MaxDecisionNoteLength caps the admin's note.
const MaxDecisionNoteLength = 500

// Decision is an admin's verdict on an order under review.
// A non-nil ProofID must still be the order's current proof.
type Decision struct {
	Outcome string
	Note    string
	ProofID *uuid.UUID
}
