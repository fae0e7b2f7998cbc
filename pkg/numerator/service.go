// Package numerator provides document auto-numbering backed by the sys_sequences table.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/medtraie/Gaztesto-sub001/internal/core/numerator"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering functionality.
type Service struct {
	querier      Querier
	rangeQuerier Querier
	now          func() time.Time

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// Option configures a Service.
type Option func(*Service)

// WithRangeQuerier reserves cached ranges through q instead of the main querier.
// q must commit on its own, outside the caller's transaction, so a rollback
// never returns a cached range to the database.
func WithRangeQuerier(q Querier) Option {
	return func(s *Service) {
		s.rangeQuerier = q
	}
}

// New creates a numerator service. A nil querier is allowed only with StrategyTimestamp.
func New(querier Querier, opts ...Option) *Service {
	s := &Service{
		querier: querier,
		now:     time.Now,
		ranges:  make(map[string]*cachedRange),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rangeQuerier == nil {
		s.rangeQuerier = querier
	}
	return s
}

// GetNextNumber generates the next document number.
// Pattern: PREFIX-YEAR-XXXXX (e.g., BD-2026-00001), or PREFIX-unixmillis with StrategyTimestamp.
func (s *Service) GetNextNumber(ctx context.Context, cfg numerator.Config, opts *numerator.Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	if opts == nil {
		opts = numerator.DefaultOptions()
	}

	if opts.Strategy == numerator.StrategyTimestamp {
		return fmt.Sprintf("%s-%d", cfg.Prefix, s.now().UnixMilli()), nil
	}
	if s.querier == nil {
		return "", fmt.Errorf("numerator: strategy %d needs a database querier", opts.Strategy)
	}

	key := buildKey(cfg, period)

	var (
		num int64
		err error
	)
	switch opts.Strategy {
	case numerator.StrategyCached:
		num, err = s.getNextCached(ctx, key, opts)
	default:
		num, err = s.getNextStrict(ctx, key)
	}
	if err != nil {
		return "", err
	}

	return formatNumber(cfg, period, num), nil
}

// getNextStrict bumps the sequence by one using UPSERT + RETURNING.
func (s *Service) getNextStrict(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached serves numbers from memory, reserving a new range from the DB when exhausted.
// current_val tracks the last handed-out value, so a bump by size reserves (old, old+size].
func (s *Service) getNextCached(ctx context.Context, key string, opts *numerator.Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, ok := s.ranges[key]
	if !ok {
		rng = &cachedRange{}
		s.ranges[key] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.rangeQuerier.QueryRow(ctx, `
			INSERT INTO sys_sequences (key, current_val)
			VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + $2
			RETURNING current_val
		`, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber sets the sequence value (for migration purposes) and drops any cached range.
func (s *Service) SetNextNumber(ctx context.Context, cfg numerator.Config, period time.Time, value int64) error {
	key := buildKey(cfg, period)

	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = $2
		RETURNING current_val
	`, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, key)
	s.cacheMu.Unlock()

	if err != nil {
		return fmt.Errorf("set next number: %w", err)
	}
	return nil
}

func buildKey(cfg numerator.Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

func formatNumber(cfg numerator.Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts the trailing numeric part of a formatted number.
// Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	i := strings.LastIndexByte(formatted, '-')
	if i < 0 || i == len(formatted)-1 {
		return -1
	}
	num, err := strconv.ParseInt(formatted[i+1:], 10, 64)
	if err != nil || num < 0 {
		return -1
	}
	return num
}

var _ numerator.Generator = (*Service)(nil)
