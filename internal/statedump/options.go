package statedump

import (
	"github.com/yndnr/statedump/internal/telemetry/logger"
	"github.com/yndnr/statedump/internal/telemetry/metric"
)

// Option configures Restore, Capture and Inspect.
type Option func(*options)

type options struct {
	logger    logger.Logger
	metrics   *metric.Registry
	rateLimit int
}

// WithLogger sets the logger. Defaults to logger.Default().
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records transfer counts and durations into r.
func WithMetrics(r *metric.Registry) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithRateLimit throttles column export to bytesPerSec. Zero disables it.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		o.rateLimit = bytesPerSec
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: logger.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
