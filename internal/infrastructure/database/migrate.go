package database

import (
	"fmt"

	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	err := db.AutoMigrate(
		&model.Order{},
		&model.PaymentProof{},
		&model.Entitlement{},
		&model.OrderTransition{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createConstraints(db); err != nil {
		logger.Error("Failed to create constraints", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createConstraints adds CHECK constraints GORM does not express.
func createConstraints(db *gorm.DB) error {
	constraints := map[string]string{
		"chk_orders_state":  `CHECK (state IN ('created', 'pending_proof', 'pending_review', 'approved', 'rejected'))`,
		"chk_orders_amount": `CHECK (amount >= 0)`,
	}
	for name, check := range constraints {
		stmt := fmt.Sprintf(`
DO $$
BEGIN
    IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = '%s') THEN
        ALTER TABLE orders ADD CONSTRAINT %s %s;
    END IF;
END $$;`, name, name, check)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", name, err)
		}
	}
	return nil
}

// createCustomIndexes creates custom indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// Admin review queue, oldest proof first
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_orders_review_queue ON orders (proof_submitted_at) WHERE state = 'pending_review'`).Error; err != nil {
		return err
	}

	return nil
}
