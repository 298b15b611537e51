// Package contract provides interfaces, configuration and shared utilities
// for the flowlens internal architecture.
package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowlens/flowlens/schema"
)

// RecordSource defines the inbound data dependency of the engine. It is
// implemented by a collaborator (SQL store, JSON export, test double); the
// core only requires this contract and knows nothing about Jira, REST or
// storage technology. Implementations must honor ctx cancellation; the pure
// computation functions never block on I/O themselves.
type RecordSource interface {
	// FetchRecords returns the normalized lifecycle records for a scope and
	// period. An empty slice with a nil error means the period has no data.
	FetchRecords(ctx context.Context, scope, period string) ([]schema.LifecycleRecord, error)

	// Close releases any underlying resources.
	Close() error
}

// ErrInsufficientData marks results below the configured minimum sample
// size. Callers get an explicit "unavailable" answer instead of a
// misleadingly precise one.
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError carries the sample counts behind an
// ErrInsufficientData result. It unwraps to the sentinel.
type InsufficientDataError struct {
	Got  int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d completed items, need at least %d", e.Got, e.Need)
}

func (e *InsufficientDataError) Unwrap() error {
	return ErrInsufficientData
}

// ConfigError indicates caller misuse (zero-length window, bad thresholds).
// It fails fast rather than degrading, since it is not a data-sparsity
// condition.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}

// NewConfigError builds a ConfigError for the given field.
func NewConfigError(field, reason string) error {
	return &ConfigError{Field: field, Reason: reason}
}
