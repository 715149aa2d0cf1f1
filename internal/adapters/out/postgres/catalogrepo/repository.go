package catalogrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"osrorders/internal/core/ports"
	"osrorders/internal/pkg/errs"
)

// GormCatalogRepository implements ports.CatalogReader using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GORM catalog repository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// Lookup retrieves a catalog entry by product code.
func (r *GormCatalogRepository) Lookup(ctx context.Context, code string) (ports.Descriptor, error) {
	if code == "" {
		return ports.Descriptor{}, errs.NewValueIsRequiredError("code")
	}

	var dto ProductDTO
	if err := r.db.WithContext(ctx).First(&dto, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Descriptor{}, errs.NewObjectNotFoundError("product", code)
		}
		return ports.Descriptor{}, err
	}

	return toDescriptor(dto), nil
}

// ListAvailable retrieves the entries currently available for ordering,
// sorted by code.
func (r *GormCatalogRepository) ListAvailable(ctx context.Context) ([]ports.Descriptor, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where("available = ?", true))
}

// ListAll retrieves every catalog entry, sorted by code.
func (r *GormCatalogRepository) ListAll(ctx context.Context) ([]ports.Descriptor, error) {
	return r.list(ctx, r.db.WithContext(ctx))
}

func (r *GormCatalogRepository) list(_ context.Context, tx *gorm.DB) ([]ports.Descriptor, error) {
	var dtos []ProductDTO
	if err := tx.Order("code").Find(&dtos).Error; err != nil {
		return nil, err
	}

	descriptors := make([]ports.Descriptor, 0, len(dtos))
	for _, dto := range dtos {
		descriptors = append(descriptors, toDescriptor(dto))
	}

	return descriptors, nil
}
