package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type proofRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewProofRepository creates a new payment proof repository instance
func NewProofRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ProofRepository {
	return &proofRepository{
		db:     db,
		logger: logger,
	}
}

// Replace upserts on order_id so an order never has two proof rows.
func (r *proofRepository) Replace(ctx context.Context, proof *model.PaymentProof) (*model.PaymentProof, error) {
	db := conn(ctx, r.db)

	var previous *model.PaymentProof
	var existing model.PaymentProof
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("order_id = ?", proof.OrderID).
		First(&existing).Error
	switch {
	case err == nil:
		previous = &existing
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, fmt.Errorf("failed to read current proof: %w", err)
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"id", "object_key", "content_type", "byte_size", "checksum", "uploaded_at"}),
	}).Create(proof).Error
	if err != nil {
		r.logger.Error("Failed to store payment proof",
			zap.String("order_id", proof.OrderID.String()),
			zap.String("proof_id", proof.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to store payment proof: %w", err)
	}

	if previous != nil {
		r.logger.Info("Payment proof replaced",
			zap.String("order_id", proof.OrderID.String()),
			zap.String("previous_proof_id", previous.ID.String()),
			zap.String("proof_id", proof.ID.String()))
	}

	return previous, nil
}

func (r *proofRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*model.PaymentProof, error) {
	var proof model.PaymentProof
	if err := conn(ctx, r.db).Where("order_id = ?", orderID).First(&proof).Error; err != nil {
		return nil, notFound(err)
	}
	return &proof, nil
}

func (r *proofRepository) OrdersWithChecksum(ctx context.Context, checksum string, excludeOrderID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := conn(ctx, r.db).
		Model(&model.PaymentProof{}).
		Where("checksum = ? AND order_id <> ?", checksum, excludeOrderID).
		Order("uploaded_at ASC").
		Limit(10).
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up proof checksum: %w", err)
	}
	return ids, nil
}
