package order

import (
	"fmt"

	"osrorders/internal/pkg/errs"
)

// Kind identifies which of the fixed OSR order types a spec describes.
// The set is closed: each kind maps to exactly one remote document schema.
type Kind int

const (
	// KindUndefined represents an invalid or uninitialized kind.
	// This value (0) helps catch uninitialized Kind values.
	KindUndefined Kind = iota

	// Standard is a pick order processed by the OSR in standard mode,
	// picking into a nominated container.
	Standard

	// Manual is a pick order processed at a manual workstation;
	// no container is nominated up front.
	Manual

	// Inventory requests a stock count of a product in a specific container.
	Inventory

	// GoodsIn announces new stock arriving in a container.
	GoodsIn

	// GoodsAdd announces additional stock for an already known product
	// (goods-in order in renewal mode, without a container).
	GoodsAdd

	// Transport moves a loaded container to a target zone, announcing the
	// container's slot contents up front.
	Transport
)

// getKindStrings returns the map of Kind values to their serialized names.
func getKindStrings() map[Kind]string {
	return map[Kind]string{
		KindUndefined: "Undefined",
		Standard:      "Standard",
		Manual:        "Manual",
		Inventory:     "Inventory",
		GoodsIn:       "GoodsIn",
		GoodsAdd:      "GoodsAdd",
		Transport:     "Transport",
	}
}

// getValidKindStrings returns only the kinds an operator may submit.
func getValidKindStrings() map[Kind]string {
	//nolint:exhaustive // KindUndefined is intentionally excluded as it's invalid
	return map[Kind]string{
		Standard:  "Standard",
		Manual:    "Manual",
		Inventory: "Inventory",
		GoodsIn:   "GoodsIn",
		GoodsAdd:  "GoodsAdd",
		Transport: "Transport",
	}
}

// Validate checks that the Kind is one of the supported order kinds.
func (k Kind) Validate() error {
	if _, ok := getValidKindStrings()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%d is not a valid order kind", k))
	}
	return nil
}

// String returns the serialized name of the kind, or "Undefined" for
// invalid values. Implements fmt.Stringer.
func (k Kind) String() string {
	if s, ok := getKindStrings()[k]; ok {
		return s
	}
	return "Undefined"
}

// KindFromName parses a serialized kind name as produced by String.
// Used when reconstructing records from persistence or API input.
func KindFromName(name string) (Kind, error) {
	for kind, s := range getValidKindStrings() {
		if s == name {
			return kind, nil
		}
	}
	return KindUndefined, errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a valid order kind", name))
}

// numberInfix returns the fragment embedded in remote order numbers for this
// kind, e.g. "src-pick-1" for a Standard order submitted by source "src".
func (k Kind) numberInfix() string {
	switch k {
	case Standard:
		return "pick"
	case Manual:
		return "pick-manual"
	case Inventory:
		return "inv"
	case GoodsIn:
		return "goods-in"
	case GoodsAdd:
		return "goods-add"
	case Transport:
		return "transport"
	default:
		return "unknown"
	}
}

// isPick reports whether the kind is a pick order.
func (k Kind) isPick() bool {
	return k == Standard || k == Manual
}

// supportsLines reports whether a spec of this kind may carry multiple
// order lines: pick orders repeat pick_order_line, transport orders repeat
// slot_contents.
func (k Kind) supportsLines() bool {
	return k.isPick() || k == Transport
}
