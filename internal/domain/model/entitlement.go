package model

import (
	"time"

	"github.com/google/uuid"
)

// Entitlement records that a buyer may consume an item.
// (buyer_id, item_type, item_ref) is unique and rows are never updated.
type Entitlement struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BuyerID         string    `gorm:"column:buyer_id;size:100;not null;uniqueIndex:idx_entitlements_identity,priority:1" json:"buyerId"`
	ItemType        ItemType  `gorm:"column:item_type;size:20;not null;uniqueIndex:idx_entitlements_identity,priority:2" json:"itemType"`
	ItemRef         string    `gorm:"column:item_ref;size:100;not null;uniqueIndex:idx_entitlements_identity,priority:3" json:"itemRef"`
	GrantingOrderID uuid.UUID `gorm:"column:granting_order_id;type:uuid;not null" json:"grantingOrderId"`
	GrantedAt       time.Time `gorm:"column:granted_at;not null" json:"grantedAt"`
}

func (Entitlement) TableName() string {
	return "entitlements"
}
