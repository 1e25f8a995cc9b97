package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderState is the position of an order in the manual payment workflow.
type OrderState string

const (
	OrderStateCreated       OrderState = "created"
	OrderStatePendingProof  OrderState = "pending_proof"
	OrderStatePendingReview OrderState = "pending_review"
	OrderStateApproved      OrderState = "approved"
	OrderStateRejected      OrderState = "rejected"
)

// IsTerminal reports whether no transition may leave s.
func (s OrderState) IsTerminal() bool {
	return s == OrderStateApproved || s == OrderStateRejected
}

// Valid reports whether s is a known state.
func (s OrderState) Valid() bool {
	switch s {
	case OrderStateCreated, OrderStatePendingProof, OrderStatePendingReview,
		OrderStateApproved, OrderStateRejected:
		return true
	}
	return false
}

// orderTransitions lists the states each state may move to.
// pending_review -> pending_review is the proof replacement re-entry.
var orderTransitions = map[OrderState][]OrderState{
	OrderStateCreated:       {OrderStatePendingProof},
	OrderStatePendingProof:  {OrderStatePendingReview},
	OrderStatePendingReview: {OrderStatePendingReview, OrderStateApproved, OrderStateRejected},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to OrderState) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ItemType identifies which catalog an item belongs to.
type ItemType string

const (
	ItemTypeCourse        ItemType = "course"
	ItemTypeTestSeries    ItemType = "testSeries"
	ItemTypeEbook         ItemType = "ebook"
	ItemTypeStudyMaterial ItemType = "studyMaterial"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeCourse, ItemTypeTestSeries, ItemTypeEbook, ItemTypeStudyMaterial:
		return true
	}
	return false
}

// CurrencyINR is the only supported currency. Amounts are in paise.
const CurrencyINR = "INR"

// SystemActor is recorded as decided_by for free items.
const SystemActor = "system"

// Order is a buyer's intent to purchase one catalog item.
type Order struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Reference        string     `gorm:"column:reference;size:16;uniqueIndex;not null" json:"reference"`
	BuyerID          string     `gorm:"column:buyer_id;size:100;not null;index:idx_orders_buyer_created" json:"buyerId"`
	ItemType         ItemType   `gorm:"column:item_type;size:20;not null" json:"itemType"`
	ItemRef          string     `gorm:"column:item_ref;size:100;not null" json:"itemRef"`
	ItemTitle        string     `gorm:"column:item_title;size:255" json:"itemTitle"`
	Amount           int64      `gorm:"column:amount;not null" json:"amount"`
	Currency         string     `gorm:"column:currency;size:3;not null;default:'INR'" json:"currency"`
	State            OrderState `gorm:"column:state;size:20;not null;index" json:"state"`
	ProofSubmittedAt *time.Time `gorm:"column:proof_submitted_at" json:"proofSubmittedAt,omitempty"`
	DecidedAt        *time.Time `gorm:"column:decided_at" json:"decidedAt,omitempty"`
	DecidedBy        *string    `gorm:"column:decided_by;size:100" json:"decidedBy,omitempty"`
	DecisionNote     *string    `gorm:"column:decision_note;size:500" json:"decisionNote,omitempty"`
	CreatedAt        time.Time  `gorm:"not null;index:idx_orders_buyer_created" json:"createdAt"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

// IsFree reports whether the order short-circuits review.
func (o *Order) IsFree() bool {
	return o.Amount == 0
}
