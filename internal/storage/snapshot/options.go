package snapshot

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

const defaultBufferSize = 1 << 20 // 1MB

// Option configures an export.
type Option func(*options)

type options struct {
	bufferSize int
	limiter    *rate.Limiter
}

// WithRateLimit caps export writes at bytesPerSec. Zero or negative means
// unlimited. Useful when dumping from a node that is still serving.
func WithRateLimit(bytesPerSec int) Option {
	return func(o *options) {
		if bytesPerSec > 0 {
			o.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
		}
	}
}

// WithBufferSize sets the write buffer size in bytes.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{bufferSize: defaultBufferSize}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// limitedWriter throttles writes through a token bucket. Writes larger
// than the burst are split so WaitN never exceeds it.
type limitedWriter struct {
	ctx     context.Context
	w       io.Writer
	limiter *rate.Limiter
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	written := 0
	burst := l.limiter.Burst()
	for len(p) > 0 {
		n := len(p)
		if n > burst {
			n = burst
		}
		if err := l.limiter.WaitN(l.ctx, n); err != nil {
			return written, err
		}
		m, err := l.w.Write(p[:n])
		written += m
		if err != nil {
			return written, err
		}
		p = p[n:]
	}
	return written, nil
}
