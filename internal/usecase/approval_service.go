package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	customErr "github.com/shiv90154/CarrerPath-sub002/internal/domain/errors"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
)

// ApprovalService is the admin-only authority that closes an order.
type ApprovalService struct {
	machine *stateMachine
	proofs  domainRepo.ProofRepository
	grantor *AccessGrantor
	logger  *zap.Logger
}

func NewApprovalService(
	tx domainRepo.Transactor,
	orders domainRepo.OrderRepository,
	proofs domainRepo.ProofRepository,
	transitions domainRepo.TransitionRepository,
	grantor *AccessGrantor,
	publisher provider.EventPublisher,
	metrics *Metrics,
	logger *zap.Logger,
) *ApprovalService {
	return &ApprovalService{
		machine: &stateMachine{
			tx:          tx,
			orders:      orders,
			transitions: transitions,
			publisher:   publisher,
			metrics:     metrics,
			logger:      logger,
			now:         defaultClock,
		},
		proofs:  proofs,
		grantor: grantor,
		logger:  logger,
	}
}

// Decide approves or rejects an order under review. Approval grants the
// entitlement in the same transaction, so access exists iff the order is approved.
// The order row is locked before the proof is read, so the proof recorded as
// decided_proof_id is the one current at commit.
func (s *ApprovalService) Decide(ctx context.Context, actor entity.Actor, orderID uuid.UUID, decision entity.Decision) (*model.Order, error) {
	if !actor.IsAdmin() {
		return nil, customErr.NewForbiddenError(orderID.String(), "only admins can decide orders")
	}

	var target model.OrderState
	switch decision.Outcome {
	case entity.OutcomeApproved:
		target = model.OrderStateApproved
	case entity.OutcomeRejected:
		target = model.OrderStateRejected
	default:
		return nil, customErr.NewInvalidArgumentError(fmt.Sprintf("outcome must be %q or %q", entity.OutcomeApproved, entity.OutcomeRejected))
	}

	var notePtr *string
	if trimmed := clampNote(decision.Note); trimmed != "" {
		notePtr = &trimmed
	}

	var order *model.Order
	err := s.machine.withinTransaction(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.machine.orders.LockByID(ctx, orderID)
		if errors.Is(err, domainRepo.ErrNotFound) {
			return customErr.NewOrderNotFoundError(orderID.String())
		}
		if err != nil {
			return err
		}
		if order.State != model.OrderStatePendingReview {
			return customErr.NewInvalidStateError(orderID.String(),
				fmt.Sprintf("order is %s, only pending_review orders can be decided", order.State))
		}

		proof, err := s.proofs.GetByOrderID(ctx, orderID)
		if errors.Is(err, domainRepo.ErrNotFound) {
			return customErr.NewInvalidStateError(orderID.String(), "order has no proof to decide on")
		}
		if err != nil {
			return err
		}
		if decision.ProofID != nil && *decision.ProofID != proof.ID {
			return customErr.NewInvalidStateError(orderID.String(),
				fmt.Sprintf("proof %s was replaced by %s, review the current proof", *decision.ProofID, proof.ID))
		}

		now := s.machine.now()
		decidedBy := actor.ID
		if err := s.machine.advance(ctx, order, transition{
			From: []model.OrderState{model.OrderStatePendingReview},
			Change: domainRepo.StateChange{
				To:           target,
				DecidedAt:    &now,
				DecidedBy:    &decidedBy,
				DecisionNote: notePtr,
				UpdatedAt:    now,
			},
			Actor:    actor.ID,
			Note:     notePtr,
			Metadata: map[string]interface{}{"decided_proof_id": proof.ID.String()},
		}); err != nil {
			return err
		}

		if target != model.OrderStateApproved {
			return nil
		}
		_, err = s.grantor.Grant(ctx, order.BuyerID, order.ItemType, order.ItemRef, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order decided",
		zap.String("order_id", order.ID.String()),
		zap.String("state", string(order.State)),
		zap.String("decided_by", actor.ID))

	return order, nil
}

// clampNote trims the note and caps it at MaxDecisionNoteLength characters.
func clampNote(note string) string {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) <= entity.MaxDecisionNoteLength {
		return note
	}
	runes := []rune(note)
	return strings.TrimSpace(string(runes[:entity.MaxDecisionNoteLength]))
}
