package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	customErr "github.com/shiv90154/CarrerPath-sub002/internal/domain/errors"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/provider"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// stateMachine applies order transitions as compare-and-swap updates,
// writes the audit row and schedules the state change event.
type stateMachine struct {
	tx          domainRepo.Transactor
	orders      domainRepo.OrderRepository
	transitions domainRepo.TransitionRepository
	publisher   provider.EventPublisher
	metrics     *Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// transition describes one requested state change.
type transition struct {
	From     []model.OrderState
	Change   domainRepo.StateChange
	Actor    string
	Note     *string
	Metadata map[string]interface{}
}

func defaultClock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// advance must run inside a transaction. On success order reflects the new state.
// A CAS miss is reported as NotFound or InvalidState after re-reading the row.
func (m *stateMachine) advance(ctx context.Context, order *model.Order, t transition) error {
	for _, from := range t.From {
		if !model.CanTransition(from, t.Change.To) {
			return fmt.Errorf("transition %s -> %s is not allowed", from, t.Change.To)
		}
	}

	ok, err := m.orders.CompareAndSwapState(ctx, order.ID, t.From, t.Change)
	if err != nil {
		return err
	}
	if !ok {
		current, err := m.orders.GetByID(ctx, order.ID)
		if errors.Is(err, domainRepo.ErrNotFound) {
			return customErr.NewOrderNotFoundError(order.ID.String())
		}
		if err != nil {
			return err
		}
		return customErr.NewInvalidStateError(order.ID.String(),
			fmt.Sprintf("order is %s, cannot move to %s", current.State, t.Change.To))
	}

	from := order.State
	applyChange(order, t.Change)

	if err := m.record(ctx, order, &from, t.Actor, t.Note, t.Metadata); err != nil {
		return err
	}

	m.logger.Info("Order state changed",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("state", string(order.State)),
		zap.String("actor", t.Actor))
	return nil
}

// record writes the audit row for order's current state and defers the event
// and metric until commit. from is nil for the initial state. Under
// withinTransaction the event joins the transaction's batch.
func (m *stateMachine) record(ctx context.Context, order *model.Order, from *model.OrderState, actor string, note *string, metadata map[string]interface{}) error {
	row := &model.OrderTransition{
		OrderID:   order.ID,
		FromState: from,
		ToState:   order.State,
		Actor:     actor,
		Note:      note,
		CreatedAt: order.UpdatedAt,
	}
	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to encode transition metadata: %w", err)
		}
		row.Metadata = datatypes.JSON(raw)
	}
	if err := m.transitions.Record(ctx, row); err != nil {
		return err
	}

	event := &provider.OrderEvent{
		ID:        uuid.NewString(),
		Type:      provider.EventOrderStateChanged,
		OrderID:   order.ID.String(),
		BuyerID:   order.BuyerID,
		ItemType:  order.ItemType,
		ItemRef:   order.ItemRef,
		To:        order.State,
		Actor:     actor,
		Timestamp: order.UpdatedAt,
	}
	fromLabel := "none"
	if from != nil {
		event.From = *from
		fromLabel = string(*from)
	}

	batch, ok := ctx.Value(pendingEventsKey{}).(*pendingEvents)
	if !ok {
		batch = &pendingEvents{}
		m.tx.AfterCommit(ctx, func(ctx context.Context) { m.flush(ctx, batch) })
	}
	batch.events = append(batch.events, event)
	batch.fromLabels = append(batch.fromLabels, fromLabel)
	return nil
}

type pendingEventsKey struct{}

// pendingEvents collects the events recorded by one transaction.
type pendingEvents struct {
	events     []*provider.OrderEvent
	fromLabels []string
}

// withinTransaction runs fn in a transaction and publishes everything it
// recorded in a single Publish after commit. Nested calls join the outer batch.
func (m *stateMachine) withinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, ok := ctx.Value(pendingEventsKey{}).(*pendingEvents); ok {
			return fn(ctx)
		}

		batch := &pendingEvents{}
		ctx = context.WithValue(ctx, pendingEventsKey{}, batch)
		if err := fn(ctx); err != nil {
			return err
		}
		m.tx.AfterCommit(ctx, func(ctx context.Context) { m.flush(ctx, batch) })
		return nil
	})
}

func (m *stateMachine) flush(ctx context.Context, batch *pendingEvents) {
	if len(batch.events) == 0 {
		return
	}
	for i, event := range batch.events {
		m.metrics.Transitions.WithLabelValues(batch.fromLabels[i], string(event.To)).Inc()
	}
	if err := m.publisher.Publish(ctx, batch.events...); err != nil {
		last := batch.events[len(batch.events)-1]
		m.logger.Warn("Failed to publish order events",
			zap.String("order_id", last.OrderID),
			zap.String("state", string(last.To)),
			zap.Int("count", len(batch.events)),
			zap.Error(err))
	}
}

func applyChange(order *model.Order, change domainRepo.StateChange) {
	order.State = change.To
	order.UpdatedAt = change.UpdatedAt
	if change.ProofSubmittedAt != nil {
		order.ProofSubmittedAt = change.ProofSubmittedAt
	}
	if change.DecidedAt != nil {
		order.DecidedAt = change.DecidedAt
	}
	if change.DecidedBy != nil {
		order.DecidedBy = change.DecidedBy
	}
	if change.DecisionNote != nil {
		order.DecisionNote = change.DecisionNote
	}
}
