package engine

import (
	"log/slog"
)

// ============================================================================
// CUBE OPTIONS: Functional options for New()
// ============================================================================

// Option configures cube behavior via functional options pattern.
type Option func(*config)

type config struct {
	Precision             int32    // decimals kept in result tables
	SampleSize            int      // records listed by slice
	SampleColumns         []string // columns listed by slice; empty → schema, then all fields
	DistributionDimension string   // dimension counted by dice; empty → schema, then "quality"
	Logger                *slog.Logger
}

// WithPrecision sets the display rounding of aggregated values.
func WithPrecision(places int32) Option {
	return func(c *config) {
		c.Precision = places
	}
}

// WithSampleSize sets how many matched records slice lists.
func WithSampleSize(n int) Option {
	return func(c *config) {
		c.SampleSize = n
	}
}

// WithSampleColumns sets the fields listed for slice sample records.
func WithSampleColumns(columns ...string) Option {
	return func(c *config) {
		c.SampleColumns = columns
	}
}

// WithDistributionDimension sets the dimension dice reports a distribution for.
func WithDistributionDimension(dimension string) Option {
	return func(c *config) {
		c.DistributionDimension = dimension
	}
}

// WithLogger routes operation logs to logger. Without it the cube is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.Logger = logger
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Precision:  2,
		SampleSize: 5,
		Logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
