package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockGenerator is a test implementation of Generator.
// Without GetNextNumberFunc it hands out PREFIX-YEAR-00001, -00002, ...
type MockGenerator struct {
	GetNextNumberFunc func(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	mu   sync.Mutex
	next int
}

// GetNextNumber implements Generator.
func (m *MockGenerator) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if m.GetNextNumberFunc != nil {
		return m.GetNextNumberFunc(ctx, cfg, opts, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("%s-%s-%05d", cfg.Prefix, period.Format("2006"), m.next), nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
