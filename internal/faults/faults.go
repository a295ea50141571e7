package faults

import (
	"errors"
	"fmt"
)

// Error categories for the demo service. Every error returned by a domain
// service wraps exactly one of these, so callers can route on category with
// errors.Is without inspecting message text.
var (
	// ErrConfiguration marks missing or invalid credentials/config. Fatal
	// for the operation, never retried.
	ErrConfiguration = errors.New("configuration error")
	// ErrUpstream marks a failed call to an external provider (LLM,
	// media transport, calendar). The upstream message is preserved.
	ErrUpstream = errors.New("upstream service error")
	// ErrValidation marks content that arrived but is unusable, e.g. a
	// persona completion that doesn't parse or has out-of-range fields.
	ErrValidation = errors.New("validation error")
	// ErrPermission marks client-side media capture denial.
	ErrPermission = errors.New("permission denied")
	// ErrConnection marks a real-time transport connect/publish failure.
	ErrConnection = errors.New("connection error")
)

func Configurationf(format string, args ...any) error {
	return wrapf(ErrConfiguration, format, args...)
}

func Upstreamf(format string, args ...any) error {
	return wrapf(ErrUpstream, format, args...)
}

func Validationf(format string, args ...any) error {
	return wrapf(ErrValidation, format, args...)
}

func Permissionf(format string, args ...any) error {
	return wrapf(ErrPermission, format, args...)
}

func Connectionf(format string, args ...any) error {
	return wrapf(ErrConnection, format, args...)
}

func wrapf(category error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", category, fmt.Sprintf(format, args...))
}
