package database

import (
	"github.com/shiv90154/CarrerPath-sub002/internal/adapter/repository"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Transactor  domainRepo.Transactor
	Order       domainRepo.OrderRepository
	Proof       domainRepo.ProofRepository
	Entitlement domainRepo.EntitlementRepository
	Transition  domainRepo.TransitionRepository
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Transactor:  repository.NewTransactor(db),
		Order:       repository.NewOrderRepository(db, logger),
		Proof:       repository.NewProofRepository(db, logger),
		Entitlement: repository.NewEntitlementRepository(db, logger),
		Transition:  repository.NewTransitionRepository(db, logger),
	}
}
