// Package numerator provides domain contracts for document auto-numbering.
package numerator

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPDATE ... RETURNING for every number.
	// Guarantees sequential numbers without gaps.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Faster, but may produce gaps if the application restarts.
	StrategyCached

	// StrategyTimestamp derives the number from the wall clock (PREFIX-unixmillis).
	// Needs no storage; two commits in the same millisecond collide.
	StrategyTimestamp
)

// ParseStrategy maps a configuration value to a Strategy. Unknown values fall back to Strict.
func ParseStrategy(s string) Strategy {
	switch s {
	case "cached":
		return StrategyCached
	case "timestamp":
		return StrategyTimestamp
	default:
		return StrategyStrict
	}
}

// Options configuration for number generation.
type Options struct {
	// Strategy to use for number generation
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "BD", "BS")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}
