package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderTransition is one row of an order's audit trail.
type OrderTransition struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uuid.UUID      `gorm:"column:order_id;type:uuid;not null;index" json:"orderId"`
	FromState *OrderState    `gorm:"column:from_state;size:20" json:"fromState,omitempty"`
	ToState   OrderState     `gorm:"column:to_state;size:20;not null" json:"toState"`
	Actor     string         `gorm:"column:actor;size:100;not null" json:"actor"`
	Note      *string        `gorm:"column:note;size:500" json:"note,omitempty"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
}

func (OrderTransition) TableName() string {
	return "order_transitions"
}
