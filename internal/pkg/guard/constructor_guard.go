// Package guard provides the constructor guard pattern used by value objects,
// commands, and queries throughout the application. A guard distinguishes an
// object built through its designated constructor from a zero value, so that
// validation can reject structs that bypassed construction rules.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific
// validation error is supplied and the object was not properly constructed.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as created through its constructor.
// Embed it as a private field and set it with NewConstructorGuard inside the
// constructor; zero-value instances then fail Validate.
//
// Example:
//
//	type OrderSpec struct {
//	    kind  Kind
//	    guard guard.ConstructorGuard
//	}
//
//	func NewOrderSpec(kind Kind) (OrderSpec, error) {
//	    return OrderSpec{kind: kind, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (s OrderSpec) Validate() error {
//	    return s.guard.Validate(ErrOrderSpecIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard that marks an object as properly
// constructed. Call it only from the object's constructor.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate checks that the guarded object was created through its constructor.
// Returns validationError for zero-value instances, or
// ErrDefaultConstructorGuard when validationError is nil.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
