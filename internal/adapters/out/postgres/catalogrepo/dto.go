// Package catalogrepo provides read-only access to the product catalog
// operators pick from when composing orders.
package catalogrepo

import "osrorders/internal/core/ports"

// ProductDTO represents a catalog row.
type ProductDTO struct {
	Code      string `gorm:"primaryKey"`
	Name      string
	Available bool `gorm:"index"`
}

// TableName specifies the database table name for catalog entries.
func (ProductDTO) TableName() string {
	return "catalog_products"
}

func toDescriptor(dto ProductDTO) ports.Descriptor {
	return ports.Descriptor{
		Code:      dto.Code,
		Name:      dto.Name,
		Available: dto.Available,
	}
}
