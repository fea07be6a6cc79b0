package httpmiddleware

import (
	"go.opentelemetry.io/otel/trace"

	"reqlog.local/gee"
)

// TraceName renames the server span to "METHOD route" once the route is
// known. Unmatched requests keep the span name set by otelhttp.
func TraceName() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		if ctx.RoutePattern != "" {
			trace.SpanFromContext(ctx.Req.Context()).SetName(ctx.Method + " " + ctx.RoutePattern)
		}
		ctx.Next()
	}
}
