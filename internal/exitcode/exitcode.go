// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown command).
	UserError = 1

	// ConfigError indicates an unreadable or invalid configuration.
	ConfigError = 2

	// StoreError indicates the task file could not be loaded or saved.
	StoreError = 3
)
