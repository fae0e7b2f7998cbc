package numerator

import (
	"context"
	"time"
)

// Generator generates document numbers.
// Implementations live in pkg/numerator.
type Generator interface {
	// GetNextNumber generates the next document number.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., BD-2026-00001)
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)
}
