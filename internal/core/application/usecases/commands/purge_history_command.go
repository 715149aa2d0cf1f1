package commands

import (
	"errors"
	"time"

	"osrorders/internal/pkg/guard"
)

var (
	ErrPurgeHistoryCommandIsNotConstructed = errors.New(
		"PurgeHistoryCommand must be created via NewPurgeHistoryCommand constructor",
	)
	ErrMaxAgeIsInvalid = errors.New("maxAge must be greater than 0")
)

// PurgeHistoryCommand represents a request to remove history records
// older than the retention age.
type PurgeHistoryCommand struct { //nolint:recvcheck //using for validation
	maxAge time.Duration

	guard guard.ConstructorGuard
}

// NewPurgeHistoryCommand creates a command to purge aged history records.
// Validates that the retention age is positive.
func NewPurgeHistoryCommand(maxAge time.Duration) (PurgeHistoryCommand, error) {
	if maxAge <= 0 {
		return PurgeHistoryCommand{}, ErrMaxAgeIsInvalid
	}

	return PurgeHistoryCommand{
		maxAge: maxAge,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PurgeHistoryCommand) Validate() error {
	return c.guard.Validate(ErrPurgeHistoryCommandIsNotConstructed)
}

// MaxAge returns the retention age; records last updated earlier than
// now minus MaxAge are eligible for removal.
func (c PurgeHistoryCommand) MaxAge() time.Duration {
	return c.maxAge
}
