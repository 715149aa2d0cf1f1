// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, per-order locking,
// transaction management, and persistence.
//
// Handlers never hold a database transaction open across a remote OSR call:
// state is persisted before the call and again after it, in separate short
// transactions.
package commands

import (
	"context"

	"osrorders/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// HistoryRepoFactory provides access to the history repository within
	// a transaction.
	HistoryRepoFactory interface {
		HistoryRepository() ports.HistoryRepository
	}

	// HistoryUoW manages transactions for history record operations.
	HistoryUoW interface {
		TxManager
		HistoryRepoFactory
	}

	// HistoryUoWFactory creates new history unit of work instances.
	HistoryUoWFactory interface {
		Create() HistoryUoW
	}
)
