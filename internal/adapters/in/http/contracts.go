package http

import "time"

// Error is the uniform error payload returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FieldValue is one named order value as entered by the operator.
type FieldValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewOrder is the request body for order submission. Lines are optional;
// a single-line order derives its line from the header fields.
type NewOrder struct {
	Kind   string         `json:"kind"`
	Fields []FieldValue   `json:"fields"`
	Lines  [][]FieldValue `json:"lines,omitempty"`
	DryRun bool           `json:"dry_run,omitempty"`
}

// OrderCreated reports the identifier assigned to a submitted order.
type OrderCreated struct {
	ID string `json:"id"`
}

// Order is the full view of one history record, document included.
type Order struct {
	ID              string    `json:"id"`
	OrderNumber     string    `json:"order_number"`
	Kind            string    `json:"kind"`
	Status          string    `json:"status"`
	Document        string    `json:"document"`
	RemoteReference string    `json:"remote_reference,omitempty"`
	Attempts        int       `json:"attempts"`
	LastError       string    `json:"last_error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LastUpdatedAt   time.Time `json:"last_updated_at"`
}

// OrderSummary is the list view of one history record.
type OrderSummary struct {
	ID              string    `json:"id"`
	OrderNumber     string    `json:"order_number"`
	Kind            string    `json:"kind"`
	Status          string    `json:"status"`
	RemoteReference string    `json:"remote_reference,omitempty"`
	Attempts        int       `json:"attempts"`
	LastError       string    `json:"last_error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	LastUpdatedAt   time.Time `json:"last_updated_at"`
}

// Product is one catalog entry an operator may reference in order fields.
type Product struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// SandboxCommands carries simulator shell commands derived from a stored
// order document, for exercising an order against a sandbox installation.
type SandboxCommands struct {
	Carrier       string `json:"carrier"`
	InsertCarrier string `json:"insert_carrier"`
	RemoveCarrier string `json:"remove_carrier"`
}

// PurgeResult reports how many history records a retention sweep removed.
type PurgeResult struct {
	Removed int `json:"removed"`
}
