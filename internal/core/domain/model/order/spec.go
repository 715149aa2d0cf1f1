package order

import (
	"errors"
	"fmt"

	"osrorders/internal/pkg/errs"
	"osrorders/internal/pkg/guard"
)

var (
	ErrOrderSpecIsNotConstructed = errors.New(
		"OrderSpec must be created via NewOrderSpec or NewOrderSpecWithLines",
	)
)

// Field is a single named order value as entered by the operator.
// The field name is one of the Field* constants declared in the schema.
type Field struct {
	Name  string
	Value string
}

// OrderSpec captures operator intent for one order: the kind, the supplied
// field values in entry order, optional per-line values for pick orders, and
// the dry-run flag. An OrderSpec is immutable once constructed; amending an
// order means building a new spec.
//
// Field entry order is irrelevant to the produced document: the document
// builder always emits elements in the kind's fixed schema order.
//
// Example:
//
//	spec, err := order.NewOrderSpec(order.Standard, []order.Field{
//	    {Name: order.FieldQuantity, Value: "10"},
//	    {Name: order.FieldContainerNumber, Value: "T925001"},
//	    {Name: order.FieldProductCode, Value: "test01"},
//	    {Name: order.FieldProductName, Value: "Test-Product-1"},
//	    {Name: order.FieldOrderNumber, Value: "1"},
//	}, false)
type OrderSpec struct { //nolint:recvcheck //using for validation
	kind   Kind
	fields []Field
	lines  [][]Field
	dryRun bool

	guard guard.ConstructorGuard
}

// NewOrderSpec creates a single-line order spec.
// Validates that the kind is supported, at least one field is supplied, and
// no field name appears twice. Field values themselves are validated later
// by the document builder against the kind's schema.
func NewOrderSpec(kind Kind, fields []Field, dryRun bool) (OrderSpec, error) {
	return newOrderSpec(kind, fields, nil, dryRun)
}

// NewOrderSpecWithLines creates an order spec carrying multiple order lines.
// Pick kinds (Standard, Manual) repeat pick order lines; Transport repeats
// slot contents. Each line holds the per-line fields of its kind.
func NewOrderSpecWithLines(kind Kind, fields []Field, lines [][]Field, dryRun bool) (OrderSpec, error) {
	if !kind.supportsLines() {
		return OrderSpec{}, errs.NewValueIsInvalidErrorWithCause(
			"lines",
			fmt.Errorf("%s orders do not support order lines", kind),
		)
	}
	if len(lines) == 0 {
		return OrderSpec{}, errs.NewValueIsRequiredError("lines")
	}
	return newOrderSpec(kind, fields, lines, dryRun)
}

func newOrderSpec(kind Kind, fields []Field, lines [][]Field, dryRun bool) (OrderSpec, error) {
	if err := kind.Validate(); err != nil {
		return OrderSpec{}, err
	}
	if len(fields) == 0 {
		return OrderSpec{}, errs.NewValueIsRequiredError("fields")
	}

	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return OrderSpec{}, errs.NewValueIsRequiredError("field name")
		}
		if _, ok := seen[f.Name]; ok {
			return OrderSpec{}, errs.NewValueIsInvalidErrorWithCause(
				"fields",
				fmt.Errorf("field %q is supplied twice", f.Name),
			)
		}
		seen[f.Name] = struct{}{}
	}

	for i, line := range lines {
		if len(line) == 0 {
			return OrderSpec{}, errs.NewValueIsInvalidErrorWithCause(
				"lines",
				fmt.Errorf("line %d is empty", i+1),
			)
		}
	}

	return OrderSpec{
		kind:   kind,
		fields: copyFields(fields),
		lines:  copyLines(lines),
		dryRun: dryRun,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the spec was created through a constructor.
func (s OrderSpec) Validate() error {
	return s.guard.Validate(ErrOrderSpecIsNotConstructed)
}

// Kind returns the order kind.
func (s OrderSpec) Kind() Kind {
	return s.kind
}

// Fields returns a copy of the supplied fields in entry order.
func (s OrderSpec) Fields() []Field {
	return copyFields(s.fields)
}

// Lines returns a copy of the supplied order lines, or nil for
// single-line specs.
func (s OrderSpec) Lines() [][]Field {
	return copyLines(s.lines)
}

// DryRun reports whether submission should rehearse without a network call.
func (s OrderSpec) DryRun() bool {
	return s.dryRun
}

// Value returns the value of the named field and whether it was supplied.
func (s OrderSpec) Value(name string) (string, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func copyFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

func copyLines(lines [][]Field) [][]Field {
	if lines == nil {
		return nil
	}
	out := make([][]Field, len(lines))
	for i, line := range lines {
		out[i] = copyFields(line)
	}
	return out
}

// lineValue returns the value of name within a single order line.
func lineValue(line []Field, name string) (string, bool) {
	for _, f := range line {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}
