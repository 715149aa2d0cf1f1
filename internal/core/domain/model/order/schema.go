package order

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Canonical field names accepted in an OrderSpec. Each kind's schema declares
// which of these are required and in which order they are validated.
const (
	FieldQuantity        = "quantity"
	FieldContainerNumber = "container_number"
	FieldProductCode     = "product_code"
	FieldProductName     = "product_name"
	FieldContainerType   = "container_type"
	FieldTargetZone      = "target_zone"
	FieldCompartmentType = "compartment_type"
	FieldNewOwner        = "new_owner"
	FieldOwner           = "owner"
	FieldSlotNumber      = "slot_number"
	FieldOrderNumber     = "order_number"
)

// ErrOrderValidation is the sentinel wrapped by every ValidationError.
var ErrOrderValidation = errors.New("order validation failed")

// ValidationError reports the first invalid field of a spec, in schema order.
// The builder never drops or coerces invalid data; the offending field and a
// human-readable reason are surfaced to the operator instead.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q is invalid: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrOrderValidation
}

// fieldRule pairs a schema field with its value validator.
// Rules are evaluated in declaration order, which is the kind's fixed
// schema order; the first failing rule determines the reported field.
type fieldRule struct {
	name     string
	validate func(value string) error
}

// productCodePattern matches the catalog-lookup identifier format:
// alphanumeric with embedded dots, underscores, and dashes.
var productCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

func validateQuantity(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%q is not an integer", value)
	}
	if n <= 0 {
		return fmt.Errorf("%d is not greater than 0", n)
	}
	return nil
}

func validateProductCode(value string) error {
	if value == "" {
		return errors.New("product code must not be empty")
	}
	if !productCodePattern.MatchString(value) {
		return fmt.Errorf("%q does not match the catalog identifier format", value)
	}
	return nil
}

func validateNonEmpty(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("must not be empty")
	}
	return nil
}

func validateOrderNumber(value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New("must not be empty")
	}
	if strings.ContainsAny(value, " \t\n") {
		return fmt.Errorf("%q must not contain whitespace", value)
	}
	return nil
}

// schemaFor returns the ordered field rules of a kind. The order is part of
// the remote contract: validation reports failures in this order, and the
// document payload emits attributes in this order.
func schemaFor(kind Kind) []fieldRule {
	switch kind {
	case Standard:
		return []fieldRule{
			{FieldQuantity, validateQuantity},
			{FieldContainerNumber, validateNonEmpty},
			{FieldProductCode, validateProductCode},
			{FieldProductName, validateNonEmpty},
			{FieldOrderNumber, validateOrderNumber},
		}
	case Manual:
		return []fieldRule{
			{FieldQuantity, validateQuantity},
			{FieldProductCode, validateProductCode},
			{FieldProductName, validateNonEmpty},
			{FieldOrderNumber, validateOrderNumber},
		}
	case Inventory:
		return []fieldRule{
			{FieldContainerNumber, validateNonEmpty},
			{FieldProductCode, validateProductCode},
			{FieldOrderNumber, validateOrderNumber},
		}
	case GoodsIn:
		return []fieldRule{
			{FieldQuantity, validateQuantity},
			{FieldContainerNumber, validateNonEmpty},
			{FieldProductCode, validateProductCode},
			{FieldProductName, validateNonEmpty},
			{FieldContainerType, validateNonEmpty},
			{FieldOrderNumber, validateOrderNumber},
		}
	case GoodsAdd:
		return []fieldRule{
			{FieldQuantity, validateQuantity},
			{FieldProductCode, validateProductCode},
			{FieldProductName, validateNonEmpty},
			{FieldOrderNumber, validateOrderNumber},
		}
	case Transport:
		return []fieldRule{
			{FieldQuantity, validateQuantity},
			{FieldContainerNumber, validateNonEmpty},
			{FieldProductCode, validateProductCode},
			{FieldProductName, validateNonEmpty},
			{FieldTargetZone, validateNonEmpty},
			{FieldContainerType, validateNonEmpty},
			{FieldCompartmentType, validateNonEmpty},
			{FieldNewOwner, validateNonEmpty},
			{FieldOwner, validateNonEmpty},
			{FieldSlotNumber, validateNonEmpty},
			{FieldOrderNumber, validateOrderNumber},
		}
	default:
		return nil
	}
}

// lineSchema returns the ordered field rules applied to each pick order line.
func lineSchema() []fieldRule {
	return []fieldRule{
		{FieldQuantity, validateQuantity},
		{FieldProductCode, validateProductCode},
		{FieldProductName, validateNonEmpty},
	}
}

// slotSchema returns the ordered field rules applied to each slot contents
// entry of a transport order.
func slotSchema() []fieldRule {
	return []fieldRule{
		{FieldSlotNumber, validateNonEmpty},
		{FieldQuantity, validateQuantity},
		{FieldProductCode, validateProductCode},
		{FieldProductName, validateNonEmpty},
	}
}
