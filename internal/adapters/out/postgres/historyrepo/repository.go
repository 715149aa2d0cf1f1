package historyrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
	"osrorders/internal/core/ports"
	"osrorders/internal/pkg/errs"
)

// GormHistoryRepository implements ports.HistoryRepository using GORM.
type GormHistoryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormHistoryRepository creates a new GORM history repository.
func NewGormHistoryRepository(db *gorm.DB, tracker aggregateTracker) *GormHistoryRepository {
	return &GormHistoryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new history record to the database.
// Returns ports.ErrRecordAlreadyExists when the identifier is taken.
func (r *GormHistoryRepository) Add(ctx context.Context, record *order.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)

	var count int64
	if err := r.db.WithContext(ctx).Model(&RecordDTO{}).
		Where("id = ?", dto.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ports.ErrRecordAlreadyExists
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// Update saves an existing history record to the database. All columns are
// written, so fields cleared on the record (like last_error after a
// successful transition) are cleared in storage too.
func (r *GormHistoryRepository) Update(ctx context.Context, record *order.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).Model(&RecordDTO{}).
		Where("id = ?", dto.ID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("record", record.ID().String())
	}

	r.tracker.TrackAggregate(record.ID(), record)
	return nil
}

// Get retrieves a history record by ID.
func (r *GormHistoryRepository) Get(ctx context.Context, id kernel.UUID) (*order.Record, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RecordDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("record", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// List retrieves the records matching the filter, most recently updated
// first.
func (r *GormHistoryRepository) List(ctx context.Context, filter ports.HistoryFilter) ([]*order.Record, error) {
	tx := r.db.WithContext(ctx).Order("last_updated_at DESC")

	if len(filter.Statuses) > 0 {
		names := make([]string, 0, len(filter.Statuses))
		for _, status := range filter.Statuses {
			names = append(names, status.String())
		}
		tx = tx.Where("status IN ?", names)
	}
	if !filter.UpdatedBefore.IsZero() {
		tx = tx.Where("last_updated_at < ?", filter.UpdatedBefore)
	}

	var dtos []RecordDTO
	if err := tx.Find(&dtos).Error; err != nil {
		return nil, err
	}

	records := make([]*order.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Remove deletes a history record by ID. Removing an absent record is not
// an error, so retention sweeps stay idempotent.
func (r *GormHistoryRepository) Remove(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&RecordDTO{}, "id = ?", id.Bytes()).Error
}
