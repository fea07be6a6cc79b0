package gee

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
)

func TestLoggerUsesDefaultFormat(t *testing.T) {
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(old) })

	engine := New()
	engine.Use(Logger())
	engine.GET("/items/:id", func(ctx *Context) { ctx.String(http.StatusCreated, "ok") })
	engine.GET("/silent", func(ctx *Context) {})

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/items/7", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/silent", nil))

	out := buf.String()
	created := regexp.MustCompile(`msg="GET http://example.com/items/7 -> 201 Created \([0-9.]+ ms ms\)"`)
	if !created.MatchString(out) {
		t.Errorf("missing created line in %q", out)
	}
	if !bytes.Contains(buf.Bytes(), []byte("-> <missing status code> (")) {
		t.Errorf("missing sentinel line in %q", out)
	}
}

func captureDefaultLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(old) })
	return &buf
}

func TestDefaultLogsRecoveredPanic(t *testing.T) {
	buf := captureDefaultLog(t)

	engine := Default()
	engine.GET("/panic", func(ctx *Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("code: got %d, want 500", w.Code)
	}
	line := regexp.MustCompile(`level=ERROR msg="GET http://example.com/panic -> 500 Internal Server Error \([0-9.]+ ms ms\)" panic=boom`)
	if !line.MatchString(buf.String()) {
		t.Errorf("missing access line for recovered panic in %q", buf.String())
	}
}

func TestLoggerWritesLineWhenPanicEscapes(t *testing.T) {
	buf := captureDefaultLog(t)

	engine := New()
	engine.Use(Logger())
	engine.GET("/panic", func(ctx *Context) { panic("boom") })

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recovered %v, want boom", r)
			}
		}()
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/panic", nil))
	}()

	if !bytes.Contains(buf.Bytes(), []byte(`msg="GET http://example.com/panic -> <missing status code> (`)) {
		t.Errorf("missing access line in %q", buf.String())
	}
}
