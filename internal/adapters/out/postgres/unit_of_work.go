// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. A unit of work owns one database transaction and hands out
// repositories bound to it, so a command handler can group its writes and
// commit or roll them back as one.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.HistoryRepository().Add(ctx, record); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Keep transactions short: persist, commit, then talk to the remote system.
// Each concurrent operation must use its own UnitOfWork instance.
package postgres

import (
	"context"

	"gorm.io/gorm"

	"osrorders/internal/adapters/out/postgres/historyrepo"
	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/ports"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate interface{}
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one GORM
// connection pool. Each Create call yields a fresh instance with its own
// transaction state.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the
// aggregates written through its repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction. Calling Begin again on an
// instance with an open transaction is a no-op, never a nested transaction.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Returns gorm.ErrInvalidTransaction if no transaction is open.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// HistoryRepository provides access to history persistence within the unit
// of work. The repository runs inside the current transaction if one is
// active, otherwise on the main connection.
func (uow *GormUnitOfWork) HistoryRepository() ports.HistoryRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return historyrepo.NewGormHistoryRepository(db, uow)
}

// TrackAggregate registers a domain aggregate as modified within this unit
// of work. Called by the repositories on every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
