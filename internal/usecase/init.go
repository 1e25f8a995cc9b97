package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shiv90154/CarrerPath-sub002/internal/config"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
)

// Dependencies are the repositories and collaborators the use cases run on.
type Dependencies struct {
	Transactor   domainRepo.Transactor
	Orders       domainRepo.OrderRepository
	Proofs       domainRepo.ProofRepository
	Entitlements domainRepo.EntitlementRepository
	Transitions  domainRepo.TransitionRepository

	Catalog   provider.Catalog
	Storage   provider.ObjectStorage
	Cache     provider.EntitlementCache
	Publisher provider.EventPublisher

	Registerer prometheus.Registerer
}

// UseCases holds every workflow component.
type UseCases struct {
	Grantor   *AccessGrantor
	Orders    *OrderService
	Proofs    *ProofService
	Approvals *ApprovalService
	Workflow  *WorkflowService
}

// SetupUseCases wires the components leaves first.
func SetupUseCases(logger *zap.Logger, cfg *config.Config, deps Dependencies) *UseCases {
	metrics := NewMetrics(deps.Registerer)

	grantor := NewAccessGrantor(deps.Transactor, deps.Entitlements, deps.Cache, metrics, logger)

	orders := NewOrderService(
		deps.Transactor,
		deps.Orders,
		deps.Transitions,
		deps.Catalog,
		grantor,
		deps.Publisher,
		metrics,
		logger,
	)

	proofs := NewProofService(
		deps.Transactor,
		deps.Orders,
		deps.Proofs,
		deps.Transitions,
		deps.Storage,
		deps.Publisher,
		metrics,
		ProofConfig{
			MaxBytes:  cfg.Proof.MaxBytes,
			URLTTL:    cfg.Proof.URLTTL,
			KeyPrefix: cfg.Proof.KeyPrefix,
		},
		logger,
	)

	approvals := NewApprovalService(
		deps.Transactor,
		deps.Orders,
		deps.Proofs,
		deps.Transitions,
		grantor,
		deps.Publisher,
		metrics,
		logger,
	)

	workflow := NewWorkflowService(orders, proofs, PayeeConfig{
		UPIID: cfg.Payee.UPIID,
		Name:  cfg.Payee.Name,
	})

	return &UseCases{
		Grantor:   grantor,
		Orders:    orders,
		Proofs:    proofs,
		Approvals: approvals,
		Workflow:  workflow,
	}
}
