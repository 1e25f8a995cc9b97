package model

import (
	"time"

	"github.com/google/uuid"
)

// PaymentProof is the screenshot a buyer uploaded for an order.
// There is at most one row per order; a re-upload replaces it.
type PaymentProof struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID     uuid.UUID `gorm:"column:order_id;type:uuid;not null;uniqueIndex" json:"orderId"`
	ObjectKey   string    `gorm:"column:object_key;size:512;not null" json:"objectKey"`
	ContentType string    `gorm:"column:content_type;size:50;not null" json:"contentType"`
	ByteSize    int64     `gorm:"column:byte_size;not null" json:"byteSize"`
	Checksum    string    `gorm:"column:checksum;size:64;not null;index" json:"checksum"`
	UploadedAt  time.Time `gorm:"column:uploaded_at;not null" json:"uploadedAt"`
}

func (PaymentProof) TableName() string {
	return "payment_proofs"
}
