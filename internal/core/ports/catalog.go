package ports

import "context"

// Descriptor is one product catalog entry operators pick from when
// composing an order.
type Descriptor struct {
	Code      string
	Name      string
	Available bool
}

// CatalogReader is the read-only port to the product catalog backing field
// prefill and product code validation.
type CatalogReader interface {
	// Lookup retrieves a catalog entry by product code.
	// Returns errs.ObjectNotFoundError if the code is unknown.
	Lookup(ctx context.Context, code string) (Descriptor, error)

	// ListAvailable retrieves the entries currently available for ordering.
	ListAvailable(ctx context.Context) ([]Descriptor, error)

	// ListAll retrieves every catalog entry, available or not.
	ListAll(ctx context.Context) ([]Descriptor, error)
}
