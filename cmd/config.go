package cmd

import "time"

// Config carries all settings the service reads at startup. String fields
// come straight from the environment; typed fields are parsed by the caller
// before composition.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// OSR connection
	OsrBaseURL     string
	OsrID          string
	OsrCallTimeout time.Duration

	// Document building
	OperatorName  string
	CapacitySpecs map[string]int

	// Submission retry policy
	MaxSendAttempts int
	BackoffBase     time.Duration
	BackoffCap      time.Duration

	// Background jobs
	RetentionAge    time.Duration
	CleanupSchedule string
	RefreshSchedule string
}
