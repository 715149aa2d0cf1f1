package order

import (
	"encoding/xml"

	"osrorders/internal/pkg/errs"
	"osrorders/internal/pkg/guard"
)

// DocumentState tracks the document lifecycle. A document starts as a
// Draft produced by the builder and becomes Finalized exactly once.
// Only a Finalized document may be handed to the transport layer or
// captured in a history record.
type DocumentState int

const (
	// DocumentStateUndefined is the zero value of an unconstructed document.
	DocumentStateUndefined DocumentState = iota

	// Draft is a validated document that may still be discarded.
	Draft

	// Finalized is a frozen document ready for submission.
	Finalized
)

var documentStateStrings = map[DocumentState]string{
	DocumentStateUndefined: "Undefined",
	Draft:                  "Draft",
	Finalized:              "Finalized",
}

// String returns the name of the state.
func (s DocumentState) String() string {
	if name, ok := documentStateStrings[s]; ok {
		return name
	}
	return documentStateStrings[DocumentStateUndefined]
}

// Document is an immutable host2osr XML document built from an OrderSpec.
//
// The payload is fixed at construction time. The only mutation a document
// permits is the Draft to Finalized transition, which marks it as the
// exact bytes that will be (or were) sent to the remote system.
//
// Example:
//
//	doc, err := builder.Build(spec)
//	if err != nil {
//		return err
//	}
//	if err := doc.Finalize(); err != nil {
//		return err
//	}
//	payload, err := doc.XML()
type Document struct {
	orderNumber string
	kind        Kind
	envelope    host2osrEnvelope
	state       DocumentState

	guard guard.ConstructorGuard
}

func newDocument(orderNumber string, kind Kind, envelope host2osrEnvelope) *Document {
	return &Document{
		orderNumber: orderNumber,
		kind:        kind,
		envelope:    envelope,
		state:       Draft,

		guard: guard.NewConstructorGuard(),
	}
}

// OrderNumber returns the fully qualified order number, including the
// operator name prefix and the kind infix.
func (d *Document) OrderNumber() string {
	return d.orderNumber
}

// Kind returns the order kind the document was built for.
func (d *Document) Kind() Kind {
	return d.kind
}

// State returns the current lifecycle state.
func (d *Document) State() DocumentState {
	return d.state
}

// Finalize freezes the document. Finalizing twice is an error.
func (d *Document) Finalize() error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.state == Finalized {
		return errs.NewValueIsInvalidErrorWithCause("state",
			errs.NewValueIsInvalidError("document is already finalized"))
	}
	d.state = Finalized
	return nil
}

// XML renders the document as an indented host2osr payload.
func (d *Document) XML() (string, error) {
	if err := d.Validate(); err != nil {
		return "", err
	}
	out, err := xml.MarshalIndent(d.envelope, "", "  ")
	if err != nil {
		return "", errs.NewValueIsInvalidErrorWithCause("document", err)
	}
	return xml.Header + string(out), nil
}

// Validate checks that the document was created through the builder.
func (d *Document) Validate() error {
	return d.guard.Validate(errs.NewValueIsRequiredError("document"))
}
