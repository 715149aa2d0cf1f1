// Package services provides domain services that operate across the order
// history aggregates. It implements logic that does not naturally belong to
// a single aggregate root.
//
// The package includes:
//   - SandboxCommandGenerator: derives simulator console commands from
//     order documents for sandbox installations without real hardware
package services
