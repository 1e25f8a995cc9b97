package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
)

// ProofRepository stores the single payment proof of each order
type ProofRepository interface {
	// Replace creates the order's proof or overwrites the existing row in place.
	// It returns the previous proof when one was replaced.
	Replace(ctx context.Context, proof *model.PaymentProof) (*model.PaymentProof, error)

	// GetByOrderID returns ErrNotFound when no proof has been uploaded
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.PaymentProof, error)

	// OrdersWithChecksum lists other orders whose proof has the same image hash
	OrdersWithChecksum(ctx context.Context, checksum string, excludeOrderID uuid.UUID) ([]uuid.UUID, error)
}
