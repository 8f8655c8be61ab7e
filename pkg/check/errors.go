package check

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is matched by a ConfigError for a name registered twice.
	ErrDuplicate = errors.New("check is already registered")

	// ErrInvalid is matched by a ConfigError for a malformed registration.
	ErrInvalid = errors.New("invalid check")
)

// ConfigError is a setup-time error, raised before any check runs.
type ConfigError struct {
	Name   string
	Err    error
	Detail string
}

func (e *ConfigError) Error() string {
	msg := "invalid configuration"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Detail != "" {
		msg = e.Detail
	}
	if e.Name == "" {
		return "config: " + msg
	}
	return fmt.Sprintf("config: check %q: %s", e.Name, msg)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Failure is returned by an Action to signal that the check failed.
type Failure struct {
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

// Fail returns a *Failure with the given message.
func Fail(msg string) error {
	return &Failure{Message: msg}
}

// Failf returns a *Failure with a formatted message.
func Failf(format string, args ...any) error {
	return &Failure{Message: fmt.Sprintf(format, args...)}
}
