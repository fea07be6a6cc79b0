package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"reqlog.local/internal/logformat"
)

// Source supplies the compiled format for each request. Implementations
// must be safe for concurrent use.
type Source interface {
	Load() logformat.Format
}

// Static is a Source that always returns the same format.
type Static logformat.Format

func (s Static) Load() logformat.Format { return logformat.Format(s) }

// Sink receives finished access lines.
type Sink interface {
	Emit(ctx context.Context, line string, attrs ...slog.Attr)
}

// Option configures AccessLog.
type Option func(*config)

type config struct {
	source          Source
	sink            Sink
	logger          *slog.Logger
	excludePaths    map[string]bool
	excludePrefixes []string
	clientIP        bool
	now             func() time.Time
}

func defaultConfig() *config {
	return &config{
		source:       Static(logformat.Default),
		excludePaths: make(map[string]bool),
		now:          time.Now,
	}
}

func (c *config) skip(path string) bool {
	if c.excludePaths[path] {
		return true
	}
	for _, p := range c.excludePrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// WithSource sets where the format is read from on every request. Pass a
// reloadable store to change the format at runtime.
func WithSource(src Source) Option {
	return func(c *config) {
		if src != nil {
			c.source = src
		}
	}
}

// WithFormat uses a fixed compiled format.
func WithFormat(f logformat.Format) Option {
	return WithSource(Static(f))
}

// WithSink sends lines to sink instead of the logger.
func WithSink(sink Sink) Option {
	return func(c *config) {
		c.sink = sink
	}
}

// WithLogger sets the logger used for lines (when no sink is set) and for
// middleware errors. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithExcludePaths skips logging for exact path matches.
//
//	middleware.AccessLog(middleware.WithExcludePaths("/healthz"))
func WithExcludePaths(paths ...string) Option {
	return func(c *config) {
		for _, p := range paths {
			c.excludePaths[p] = true
		}
	}
}

// WithExcludePrefixes skips logging for paths with any of the prefixes.
func WithExcludePrefixes(prefixes ...string) Option {
	return func(c *config) {
		c.excludePrefixes = append(c.excludePrefixes, prefixes...)
	}
}

// WithClientIP renders {remote-addr} as gee.ClientIP instead of the socket
// address.
func WithClientIP(enabled bool) Option {
	return func(c *config) {
		c.clientIP = enabled
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
