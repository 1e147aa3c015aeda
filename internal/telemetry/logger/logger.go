package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

// Logger is what restore, capture and the storage engines log through.
// Every call goes out with the context bound by WithContext, so handlers
// see the operation's deadline and values.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithContext(ctx context.Context) Logger
}

// Config mirrors the log section of the statedump config file.
type Config struct {
	Level     string    // debug, info, warn or error; empty means info
	Format    string    // text or json; empty means text
	Output    io.Writer // nil means stderr
	AddSource bool
}

func DefaultConfig() Config {
	return Config{Level: "info", Format: "text", Output: os.Stderr}
}

// levels maps accepted level names to slog levels. "warning" is kept as an
// alias because operators tend to type it.
var levels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// threshold is shared by every logger built with New, so SetLevel affects
// loggers that were already handed out.
var threshold = new(slog.LevelVar)

type handle struct {
	sl  *slog.Logger
	ctx context.Context
}

// New builds a logger writing to cfg.Output and resets the shared level to
// cfg.Level.
func New(cfg Config) (Logger, error) {
	lvl, err := lookupLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level:     threshold,
		AddSource: cfg.AddSource,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			return renderBytes(a)
		},
	}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = slog.NewTextHandler(out, opts)
	case "json":
		h = slog.NewJSONHandler(out, opts)
	default:
		return nil, fmt.Errorf("logger: unknown format %q", cfg.Format)
	}

	threshold.Set(lvl)
	return newHandle(slog.New(h)), nil
}

func newHandle(sl *slog.Logger) *handle {
	return &handle{sl: sl, ctx: context.Background()}
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() Logger {
	return newHandle(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// Slog unwraps l for libraries that want a *slog.Logger (the storage
// engines). Foreign Logger implementations get slog.Default.
func Slog(l Logger) *slog.Logger {
	if h, ok := l.(*handle); ok {
		return h.sl
	}
	return slog.Default()
}

func lookupLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	lvl, ok := levels[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("logger: unknown level %q", name)
	}
	return lvl, nil
}

// ValidLevel reports whether level is one of the names New accepts.
func ValidLevel(level string) bool {
	_, ok := levels[strings.ToLower(level)]
	return ok
}

// SetLevel changes the level of every logger at once. Unknown names fall
// back to info.
func SetLevel(level string) {
	lvl, err := lookupLevel(level)
	if err != nil {
		lvl = slog.LevelInfo
	}
	threshold.Set(lvl)
}

// GetLevel returns the canonical name of the current level.
func GetLevel() string {
	switch threshold.Level() {
	case slog.LevelDebug:
		return "debug"
	case slog.LevelWarn:
		return "warn"
	case slog.LevelError:
		return "error"
	}
	return "info"
}

func (h *handle) log(lvl slog.Level, msg string, args []any) {
	h.sl.Log(h.ctx, lvl, msg, args...)
}

func (h *handle) Debug(msg string, args ...any) { h.log(slog.LevelDebug, msg, args) }
func (h *handle) Info(msg string, args ...any)  { h.log(slog.LevelInfo, msg, args) }
func (h *handle) Warn(msg string, args ...any)  { h.log(slog.LevelWarn, msg, args) }
func (h *handle) Error(msg string, args ...any) { h.log(slog.LevelError, msg, args) }

func (h *handle) With(args ...any) Logger {
	return &handle{sl: h.sl.With(args...), ctx: h.ctx}
}

func (h *handle) WithContext(ctx context.Context) Logger {
	return &handle{sl: h.sl, ctx: ctx}
}

// fallback serves the package-level helpers and FromContext until the CLI
// installs the configured logger with SetDefault.
var fallback atomic.Pointer[handle]

func init() {
	l, _ := New(DefaultConfig())
	fallback.Store(l.(*handle))
}

// SetDefault replaces the process-wide logger. Loggers from other packages
// are ignored.
func SetDefault(l Logger) {
	if h, ok := l.(*handle); ok {
		fallback.Store(h)
	}
}

func Default() Logger { return fallback.Load() }

// Package-level shorthands for code that has no logger in scope, such as
// the signal handler in main.

func Debug(msg string, args ...any) { fallback.Load().Debug(msg, args...) }
func Info(msg string, args ...any)  { fallback.Load().Info(msg, args...) }
func Warn(msg string, args ...any)  { fallback.Load().Warn(msg, args...) }
func Error(msg string, args ...any) { fallback.Load().Error(msg, args...) }
