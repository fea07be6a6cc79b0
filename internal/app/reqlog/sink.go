package reqlog

import (
	"context"
	"log/slog"

	"reqlog.local/internal/platform/metrics"
)

// Sink receives finished access lines. Emit must not block the request for
// long and must be safe for concurrent use.
type Sink interface {
	Emit(ctx context.Context, line string, attrs ...slog.Attr)
}

// SlogSink writes each line as the message of an info record.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(ctx context.Context, line string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, line, attrs...)
	metrics.AccessLogLinesTotal.WithLabelValues("slog").Inc()
}

// Tee sends every line to each sink in order.
type Tee []Sink

func (t Tee) Emit(ctx context.Context, line string, attrs ...slog.Attr) {
	for _, s := range t {
		s.Emit(ctx, line, attrs...)
	}
}
