package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "json", slog.LevelInfo, "reqlog")

	logger.Debug("hidden")
	logger.Info("GET /x -> 200 OK (1 ms ms)", "request_id", "abc")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected exactly one JSON record, got %q: %v", buf.String(), err)
	}
	if m["msg"] != "GET /x -> 200 OK (1 ms ms)" || m["service"] != "reqlog" || m["request_id"] != "abc" {
		t.Fatalf("unexpected record: %v", m)
	}
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "TEXT", slog.LevelDebug, "").Debug("hello")

	out := buf.String()
	if !strings.Contains(out, "level=DEBUG") || !strings.Contains(out, "msg=hello") {
		t.Fatalf("unexpected text output: %q", out)
	}
	if strings.Contains(out, "service=") {
		t.Fatalf("empty service should not be attached: %q", out)
	}
}
