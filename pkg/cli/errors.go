package cli

import (
	"errors"
	"fmt"

	stdrErrors "stdr-sim/stdrc/pkg/stdr/errors"
)

// Process exit codes. Compile failures get one code per error category so
// scripts can tell a broken document from a broken inclusion.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitLoad      = 2
	ExitReference = 3
	ExitSchema    = 4
)

// ConfigError represents an error in configuration.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in %s: %s", e.Field, e.Message)
}

// CommandError represents an error from a command execution.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// ExitCode maps err to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return ExitFailure
	}

	e, ok := stdrErrors.As(err)
	if !ok {
		return ExitFailure
	}
	switch e.Type {
	case stdrErrors.ErrorTypeLoad:
		return ExitLoad
	case stdrErrors.ErrorTypeReference:
		return ExitReference
	case stdrErrors.ErrorTypeSchema:
		return ExitSchema
	default:
		return ExitFailure
	}
}
