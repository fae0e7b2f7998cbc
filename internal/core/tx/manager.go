// Package tx provides transaction management abstractions.
// Domain services depend on these interfaces, not on a concrete database.
package tx

import (
	"context"
)

// Manager defines the contract for transaction management.
// The Postgres implementation lives in infrastructure/storage/postgres.
type Manager interface {
	// RunInTransaction executes fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn succeeds, the transaction is committed.
	//
	// Nested calls reuse the existing transaction from context.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Passthrough runs fn without any transaction boundary.
// Used when the sinks behind a service do not share a transactional store;
// writes that land before a failure stay in place.
type Passthrough struct{}

// RunInTransaction implements Manager.
func (Passthrough) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// IsTransactional reports whether m gives an atomic boundary.
func IsTransactional(m Manager) bool {
	switch m.(type) {
	case nil, Passthrough, *Passthrough:
		return false
	}
	return true
}

var _ Manager = Passthrough{}
