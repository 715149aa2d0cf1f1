package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and hands out repositories bound to the
// current transaction. Client code must explicitly manage the transaction
// lifecycle and must keep transactions short: never hold one open across a
// remote call.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// HistoryRepository returns a HistoryRepository bound to the current
	// transaction started by Begin().
	HistoryRepository() HistoryRepository
}
