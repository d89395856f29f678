// Package collect implements the source collectors that produce raw
// signals. Each collector owns its own endpoint quirks and pagination; the
// pipeline only sees the uniform Collector contract and a slice of signals.
package collect

import (
	"context"

	"github.com/jonathan/signal-scout/internal/types"
)

// Collector yields zero or more raw signals from one external source.
// Collectors never touch the store; deduplication happens at write time.
type Collector interface {
	// Source identifies which source this collector feeds
	Source() types.SourceAPI
	// Collect performs one collection pass
	Collect(ctx context.Context) ([]types.Signal, error)
}

// Error represents a collector failure for one source
type Error struct {
	Source  types.SourceAPI
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return "collector " + string(e.Source) + ": " + e.Message + ": " + e.Cause.Error()
	}
	return "collector " + string(e.Source) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
