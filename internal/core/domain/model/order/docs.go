// Package order contains the order domain model: the operator-supplied
// OrderSpec, the schema-validated Document transmitted to the OSR control
// system, and the persisted Record that tracks one submission through its
// lifecycle.
//
// The package enforces the wire contract of the OSR host interface: each
// order kind maps to a fixed document schema with a mandated element order,
// and a document can only be transmitted once it has been validated and
// finalized.
package order
