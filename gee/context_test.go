package gee

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAbort(t *testing.T) {
	c := &Context{index: -1}
	if c.IsAborted() {
		t.Error("new context should not be aborted")
	}

	c.Abort()
	if !c.IsAborted() {
		t.Error("context should be aborted after Abort()")
	}
}

func TestAbortStopsHandlerChain(t *testing.T) {
	var executed []int

	c := newContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	c.handlers = []HandlerFunc{
		func(c *Context) {
			executed = append(executed, 1)
			c.Next()
		},
		func(c *Context) {
			executed = append(executed, 2)
			c.Abort()
			c.Next()
		},
		func(c *Context) {
			executed = append(executed, 3)
		},
	}

	c.Next()

	if len(executed) != 2 || executed[0] != 1 || executed[1] != 2 {
		t.Errorf("expected [1 2], got %v", executed)
	}
}

func TestFailStopsHandlerChain(t *testing.T) {
	w := httptest.NewRecorder()
	c := newContext(w, httptest.NewRequest(http.MethodGet, "/", nil))
	ran := false
	c.handlers = []HandlerFunc{
		func(c *Context) { c.Fail(http.StatusBadRequest, "bad request") },
		func(c *Context) { ran = true },
	}

	c.Next()

	if ran {
		t.Error("handler after Fail should not run")
	}
	if !c.IsAborted() {
		t.Error("context should be aborted after Fail()")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestAbortWithStatusJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c := newContext(w, httptest.NewRequest(http.MethodGet, "/", nil))

	c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})

	if !c.IsAborted() {
		t.Error("context should be aborted")
	}
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}
}

func TestMiddlewareExecutionOrder(t *testing.T) {
	var order []string

	c := newContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	c.handlers = []HandlerFunc{
		func(c *Context) {
			order = append(order, "m1-before")
			c.Next()
			order = append(order, "m1-after")
		},
		func(c *Context) {
			order = append(order, "m2-before")
			c.Next()
			order = append(order, "m2-after")
		},
		func(c *Context) { order = append(order, "handler") },
	}

	c.Next()

	expected := []string{"m1-before", "m2-before", "handler", "m2-after", "m1-after"}
	if len(order) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, order)
	}
	for i, v := range expected {
		if order[i] != v {
			t.Errorf("at index %d: expected %s, got %s", i, v, order[i])
		}
	}
}

func TestContextKeys(t *testing.T) {
	c := newContext(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if _, ok := c.Get("start"); ok {
		t.Fatal("unset key should not be found")
	}
	now := time.Now()
	c.Set("start", now)
	v, ok := c.Get("start")
	if !ok || v.(time.Time) != now {
		t.Fatalf("Get: got (%v, %v)", v, ok)
	}
	if c.MustGet("start").(time.Time) != now {
		t.Fatal("MustGet returned a different value")
	}

	defer func() {
		if recover() == nil {
			t.Error("MustGet on a missing key should panic")
		}
	}()
	c.MustGet("missing")
}

func TestContextRenderContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/items?id=7", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	c := newContext(httptest.NewRecorder(), req)
	start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rc := c.RenderContext(start, time.Second)
	if rc.Status != 0 {
		t.Errorf("status before write: got %d, want 0", rc.Status)
	}
	c.Status(http.StatusAccepted)
	rc = c.RenderContext(start, time.Second)

	if rc.Method != http.MethodPost || rc.URI != "http://example.com/items?id=7" ||
		rc.Status != http.StatusAccepted || rc.RemoteAddr != "192.0.2.1:1234" ||
		!rc.Start.Equal(start) || rc.Elapsed != time.Second {
		t.Errorf("unexpected render context: %+v", rc)
	}
}

func TestFullURL(t *testing.T) {
	abs := httptest.NewRequest(http.MethodGet, "https://api.example.org/v1/x?y=1", nil)
	if got := FullURL(abs); got != "https://api.example.org/v1/x?y=1" {
		t.Errorf("absolute: got %q", got)
	}

	rel := httptest.NewRequest(http.MethodGet, "/a/b", nil)
	rel.Host = "svc.local:8080"
	if got := FullURL(rel); got != "http://svc.local:8080/a/b" {
		t.Errorf("relative: got %q", got)
	}
}
