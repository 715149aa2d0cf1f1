// Package kernel contains shared value objects used across the domain model.
// It holds building blocks with no business meaning of their own, such as the
// UUID identifier type, keeping aggregate packages free of infrastructure
// concerns like identifier generation.
package kernel
