// Package historyrepo provides data transfer objects and mapping functions
// for order history persistence. This package implements the repository
// pattern for the history record aggregate, handling the conversion between
// domain records and database rows.
package historyrepo

import (
	"time"

	"github.com/google/uuid"

	"osrorders/internal/core/domain/model/kernel"
	"osrorders/internal/core/domain/model/order"
)

// RecordDTO represents the database structure for persisting history
// records. Status and kind are stored by name rather than numeric value,
// so the history stays readable and stable across enum reordering.
type RecordDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber     string    `gorm:"index"`
	Kind            string
	Document        string `gorm:"type:text"`
	Status          string `gorm:"index"`
	RemoteReference string
	Attempts        int
	LastError       string
	CreatedAt       time.Time
	LastUpdatedAt   time.Time `gorm:"index"`
}

// TableName specifies the database table name for history records.
func (RecordDTO) TableName() string {
	return "order_history"
}

// fromDomain converts a history record to its database representation.
func fromDomain(record *order.Record) RecordDTO {
	return RecordDTO{
		ID:              record.ID().Bytes(),
		OrderNumber:     record.OrderNumber(),
		Kind:            record.Kind().String(),
		Document:        record.Document(),
		Status:          record.Status().String(),
		RemoteReference: record.RemoteReference(),
		Attempts:        record.Attempts(),
		LastError:       record.LastError(),
		CreatedAt:       record.CreatedAt(),
		LastUpdatedAt:   record.LastUpdatedAt(),
	}
}

// toDomain converts a database row to a history record aggregate.
func toDomain(dto RecordDTO) (*order.Record, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	kind, err := order.KindFromName(dto.Kind)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromName(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreRecord(
		id,
		dto.OrderNumber,
		kind,
		dto.Document,
		status,
		dto.RemoteReference,
		dto.Attempts,
		dto.LastError,
		dto.CreatedAt,
		dto.LastUpdatedAt,
	), nil
}
