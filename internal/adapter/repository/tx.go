package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	domainRepo "github.com/shiv90154/CarrerPath-sub002/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

// txState is carried in the context for the lifetime of one transaction.
type txState struct {
	tx    *gorm.DB
	hooks []func(ctx context.Context)
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor returns a Transactor whose transaction is carried in the context.
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

// WithinTransaction joins an outer transaction when ctx already carries one.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		return err
	}

	for _, hook := range state.hooks {
		hook(ctx)
	}
	return nil
}

func (t *transactor) AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		state.hooks = append(state.hooks, fn)
		return
	}
	fn(ctx)
}

// conn returns the transaction from ctx or the base handle.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		return state.tx
	}
	return db.WithContext(ctx)
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domainRepo.ErrNotFound
	}
	return err
}
