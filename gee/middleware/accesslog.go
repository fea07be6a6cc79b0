package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"reqlog.local/gee"
	"reqlog.local/internal/logformat"
)

// StartTimeKey is the context key holding the request start time.
const StartTimeKey = "accesslog.start"

// AccessLog renders one line per request with the configured format.
//
// Register it before Recovery so that a recovered panic is logged with the
// 500 Recovery writes and a panic attribute. The line is still emitted, with
// a missing status, if the panic is not recovered.
func AccessLog(opts ...Option) gee.HandlerFunc {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return func(ctx *gee.Context) {
		if cfg.skip(ctx.Path) {
			ctx.Next()
			return
		}
		ctx.Set(StartTimeKey, cfg.now())
		defer cfg.emit(ctx)
		ctx.Next()
	}
}

func (c *config) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.Default()
}

func (c *config) emit(ctx *gee.Context) {
	var start time.Time
	if v, ok := ctx.Get(StartTimeKey); ok {
		start, _ = v.(time.Time)
	}
	elapsed, err := logformat.Elapsed(start, c.now())
	if err != nil {
		c.log().Error("access log skipped", "err", err, "method", ctx.Method, "path", ctx.Path)
		return
	}

	rc := ctx.RenderContext(start, elapsed)
	if c.clientIP {
		rc.RemoteAddr = gee.ClientIP(ctx.Req)
	}
	line := c.source.Load().Render(&rc)

	reqCtx := ctx.Req.Context()
	attrs := requestAttrs(reqCtx, ctx)
	if c.sink != nil {
		c.sink.Emit(reqCtx, line, attrs...)
		return
	}
	c.log().LogAttrs(reqCtx, slog.LevelInfo, line, attrs...)
}

func requestAttrs(reqCtx context.Context, ctx *gee.Context) []slog.Attr {
	var attrs []slog.Attr
	if v, ok := ctx.Get(RequestIDKey); ok {
		if id, _ := v.(string); id != "" {
			attrs = append(attrs, slog.String("request_id", id))
		}
	}
	if v, ok := ctx.Get(gee.PanicKey); ok {
		attrs = append(attrs, slog.String("panic", fmt.Sprint(v)))
	}
	if sc := trace.SpanContextFromContext(reqCtx); sc.IsValid() {
		attrs = append(attrs,
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()))
	}
	return attrs
}
