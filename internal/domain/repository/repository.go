package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when an insert hits a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

// Transactor runs fn inside one database transaction.
// Repository calls made with the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// AfterCommit defers fn until the outermost transaction in ctx commits.
	// fn is dropped on rollback and runs immediately outside a transaction.
	AfterCommit(ctx context.Context, fn func(ctx context.Context))
}
