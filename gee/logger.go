package gee

import (
	"log/slog"
	"net/http"
	"time"

	"reqlog.local/internal/logformat"
)

// Logger logs one line per request in logformat.Default. Requests whose
// panic was recovered by an inner Recovery are logged at error level with
// the panic value attached. The line is written even while a panic unwinds
// through Logger. gee/middleware.AccessLog is the configurable version.
func Logger() HandlerFunc {
	return func(ctx *Context) {
		start := time.Now()
		defer func() {
			rc := ctx.RenderContext(start, time.Since(start))
			line := logformat.Default.Render(&rc)
			if v, ok := ctx.Get(PanicKey); ok {
				slog.Error(line, "panic", v)
				return
			}
			slog.Info(line)
		}()
		ctx.Next()
	}
}

// RenderContext snapshots the request and response for log rendering.
func (c *Context) RenderContext(start time.Time, elapsed time.Duration) logformat.RenderContext {
	status, _ := c.Writer.StatusCode()
	return logformat.RenderContext{
		Method:     c.Method,
		URI:        FullURL(c.Req),
		Status:     status,
		RemoteAddr: c.Req.RemoteAddr,
		Start:      start,
		Elapsed:    elapsed,
	}
}

// FullURL reconstructs the absolute URL the client requested.
func FullURL(req *http.Request) string {
	if req.URL.IsAbs() {
		return req.URL.String()
	}
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	uri := req.RequestURI
	if uri == "" {
		uri = req.URL.RequestURI()
	}
	return scheme + "://" + req.Host + uri
}
