//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shiv90154/CarrerPath-sub002/internal/adapter/repository"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/entity"
	"github.com/shiv90154/CarrerPath-sub002/internal/domain/model"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"github.com/shiv90154/CarrerPath-sub002/internal/infrastructure/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "payments",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=testuser password=testpass dbname=payments sslmode=disable", host, port.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

func newOrder(buyerID string, state model.OrderState) *model.Order {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.Order{
		ID:        uuid.New(),
		Reference: uuid.NewString()[:10],
		BuyerID:   buyerID,
		ItemType:  model.ItemTypeCourse,
		ItemRef:   "course-" + uuid.NewString()[:8],
		Amount:    49900,
		Currency:  model.CurrencyINR,
		State:     state,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestRepositories(t *testing.T) {
	db := setupTestDB(t)
	logger := zap.NewNop()
	ctx := context.Background()

	tx := repository.NewTransactor(db)
	orders := repository.NewOrderRepository(db, logger)
	proofs := repository.NewProofRepository(db, logger)
	entitlements := repository.NewEntitlementRepository(db, logger)
	transitions := repository.NewTransitionRepository(db, logger)

	t.Run("order create and duplicate reference", func(t *testing.T) {
		order := newOrder("buyer-1", model.OrderStatePendingProof)
		require.NoError(t, orders.Create(ctx, order))

		got, err := orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.Reference, got.Reference)
		assert.Equal(t, int64(49900), got.Amount)

		dup := newOrder("buyer-1", model.OrderStatePendingProof)
		dup.Reference = order.Reference
		err = orders.Create(ctx, dup)
		assert.ErrorIs(t, err, domainRepo.ErrDuplicate)

		_, err = orders.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domainRepo.ErrNotFound)
	})

	t.Run("duplicate reference keeps outer transaction usable", func(t *testing.T) {
		first := newOrder("buyer-1", model.OrderStatePendingProof)
		require.NoError(t, orders.Create(ctx, first))

		retry := newOrder("buyer-1", model.OrderStatePendingProof)
		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			clash := newOrder("buyer-1", model.OrderStatePendingProof)
			clash.Reference = first.Reference
			if err := orders.Create(ctx, clash); !errors.Is(err, domainRepo.ErrDuplicate) {
				return fmt.Errorf("expected duplicate, got %v", err)
			}
			return orders.Create(ctx, retry)
		})
		require.NoError(t, err)

		_, err = orders.GetByID(ctx, retry.ID)
		assert.NoError(t, err)
	})

	t.Run("compare and swap allows one winner", func(t *testing.T) {
		order := newOrder("buyer-2", model.OrderStatePendingReview)
		require.NoError(t, orders.Create(ctx, order))

		var wg sync.WaitGroup
		results := make(chan bool, 2)
		for _, to := range []model.OrderState{model.OrderStateApproved, model.OrderStateRejected} {
			wg.Add(1)
			go func(to model.OrderState) {
				defer wg.Done()
				now := time.Now()
				admin := "admin-1"
				ok, err := orders.CompareAndSwapState(ctx, order.ID, []model.OrderState{model.OrderStatePendingReview}, domainRepo.StateChange{
					To:        to,
					DecidedAt: &now,
					DecidedBy: &admin,
					UpdatedAt: now,
				})
				assert.NoError(t, err)
				results <- ok
			}(to)
		}
		wg.Wait()
		close(results)

		wins := 0
		for ok := range results {
			if ok {
				wins++
			}
		}
		assert.Equal(t, 1, wins)

		got, err := orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, got.State.IsTerminal())
		require.NotNil(t, got.DecidedBy)
		assert.Equal(t, "admin-1", *got.DecidedBy)
	})

	t.Run("review queue is oldest proof first", func(t *testing.T) {
		buyer := "buyer-queue"
		base := time.Now().UTC().Add(-time.Hour)
		var ids []uuid.UUID
		for i := 0; i < 3; i++ {
			order := newOrder(buyer, model.OrderStatePendingReview)
			submitted := base.Add(time.Duration(2-i) * time.Minute)
			order.ProofSubmittedAt = &submitted
			require.NoError(t, orders.Create(ctx, order))
			ids = append([]uuid.UUID{order.ID}, ids...)
		}

		list, total, err := orders.List(ctx, entity.OrderFilter{BuyerID: buyer, State: model.OrderStatePendingReview}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, list, 3)
		for i, o := range list {
			assert.Equal(t, ids[i], o.ID)
		}
	})

	t.Run("proof replace keeps one row", func(t *testing.T) {
		order := newOrder("buyer-3", model.OrderStatePendingReview)
		require.NoError(t, orders.Create(ctx, order))

		first := &model.PaymentProof{
			ID: uuid.New(), OrderID: order.ID, ObjectKey: "proofs/a.png",
			ContentType: "image/png", ByteSize: 10, Checksum: "aa", UploadedAt: time.Now(),
		}
		previous, err := proofs.Replace(ctx, first)
		require.NoError(t, err)
		assert.Nil(t, previous)

		second := &model.PaymentProof{
			ID: uuid.New(), OrderID: order.ID, ObjectKey: "proofs/b.jpg",
			ContentType: "image/jpeg", ByteSize: 20, Checksum: "bb", UploadedAt: time.Now(),
		}
		previous, err = proofs.Replace(ctx, second)
		require.NoError(t, err)
		require.NotNil(t, previous)
		assert.Equal(t, first.ID, previous.ID)

		stored, err := proofs.GetByOrderID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, stored.ID)
		assert.Equal(t, "proofs/b.jpg", stored.ObjectKey)

		var count int64
		require.NoError(t, db.Model(&model.PaymentProof{}).Where("order_id = ?", order.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		other := newOrder("buyer-4", model.OrderStatePendingReview)
		require.NoError(t, orders.Create(ctx, other))
		_, err = proofs.Replace(ctx, &model.PaymentProof{
			ID: uuid.New(), OrderID: other.ID, ObjectKey: "proofs/c.jpg",
			ContentType: "image/jpeg", ByteSize: 20, Checksum: "bb", UploadedAt: time.Now(),
		})
		require.NoError(t, err)

		matches, err := proofs.OrdersWithChecksum(ctx, "bb", other.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{order.ID}, matches)
	})

	t.Run("entitlement insert if absent", func(t *testing.T) {
		grant := func(orderID uuid.UUID) (*model.Entitlement, bool, error) {
			return entitlements.InsertIfAbsent(ctx, &model.Entitlement{
				ID: uuid.New(), BuyerID: "buyer-5", ItemType: model.ItemTypeEbook,
				ItemRef: "ebook-1", GrantingOrderID: orderID, GrantedAt: time.Now(),
			})
		}

		firstOrder, secondOrder := uuid.New(), uuid.New()
		stored, created, err := grant(firstOrder)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, firstOrder, stored.GrantingOrderID)

		stored, created, err = grant(secondOrder)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, firstOrder, stored.GrantingOrderID)

		list, err := entitlements.ListByBuyer(ctx, "buyer-5")
		require.NoError(t, err)
		assert.Len(t, list, 1)

		_, err = entitlements.Get(ctx, "buyer-5", model.ItemTypeCourse, "ebook-1")
		assert.ErrorIs(t, err, domainRepo.ErrNotFound)
	})

	t.Run("rollback drops writes and hooks", func(t *testing.T) {
		order := newOrder("buyer-6", model.OrderStatePendingProof)
		hookRan := false
		boom := errors.New("boom")

		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			require.NoError(t, orders.Create(ctx, order))
			require.NoError(t, transitions.Record(ctx, &model.OrderTransition{
				OrderID: order.ID, ToState: model.OrderStatePendingProof, Actor: model.SystemActor,
				Metadata: datatypes.JSON(`{"free":false}`), CreatedAt: time.Now(),
			}))
			tx.AfterCommit(ctx, func(context.Context) { hookRan = true })
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.False(t, hookRan)

		_, err = orders.GetByID(ctx, order.ID)
		assert.ErrorIs(t, err, domainRepo.ErrNotFound)
		history, err := transitions.ListByOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("commit runs hooks and keeps history order", func(t *testing.T) {
		order := newOrder("buyer-7", model.OrderStateCreated)
		hookRan := false
		created := model.OrderStateCreated

		err := tx.WithinTransaction(ctx, func(ctx context.Context) error {
			if err := orders.Create(ctx, order); err != nil {
				return err
			}
			if err := transitions.Record(ctx, &model.OrderTransition{
				OrderID: order.ID, ToState: model.OrderStateCreated, Actor: "buyer-7", CreatedAt: time.Now(),
			}); err != nil {
				return err
			}
			if err := transitions.Record(ctx, &model.OrderTransition{
				OrderID: order.ID, FromState: &created, ToState: model.OrderStatePendingProof,
				Actor: model.SystemActor, CreatedAt: time.Now(),
			}); err != nil {
				return err
			}
			tx.AfterCommit(ctx, func(context.Context) { hookRan = true })
			return nil
		})
		require.NoError(t, err)
		assert.True(t, hookRan)

		history, err := transitions.ListByOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Nil(t, history[0].FromState)
		assert.Equal(t, model.OrderStatePendingProof, history[1].ToState)
	})
}
