package reqlog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqlog.local/internal/platform/metrics"
)

type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	h.records = append(h.records, r)
	h.mu.Unlock()
	return nil
}
func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

func TestSlogSink_EmitsInfo(t *testing.T) {
	h := &recordHandler{}
	sink := NewSlogSink(slog.New(h))

	sink.Emit(context.Background(), "GET /x -> 200 OK (1 ms ms)", slog.String("request_id", "abc"))

	require.Len(t, h.records, 1)
	r := h.records[0]
	assert.Equal(t, slog.LevelInfo, r.Level)
	assert.Equal(t, "GET /x -> 200 OK (1 ms ms)", r.Message)
	var got string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "request_id" {
			got = a.Value.String()
		}
		return true
	})
	assert.Equal(t, "abc", got)
}

type fakeWriter struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	err    error
	ctxErr error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ctxErr = ctx.Err()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_Emit(t *testing.T) {
	fw := &fakeWriter{}
	sink := newKafkaSink(fw)
	at := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sink.now = func() time.Time { return at }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink.Emit(ctx, "GET /x", slog.String("request_id", "abc"), slog.String("trace_id", "t1"))

	require.Len(t, fw.msgs, 1)
	msg := fw.msgs[0]
	assert.Equal(t, "GET /x", string(msg.Value))
	assert.Equal(t, "abc", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	assert.Equal(t, []kafka.Header{
		{Key: "request_id", Value: []byte("abc")},
		{Key: "trace_id", Value: []byte("t1")},
	}, msg.Headers)
	assert.NoError(t, fw.ctxErr, "cancelled request context must not reach the writer")

	require.NoError(t, sink.Close())
	assert.True(t, fw.closed)
}

func TestKafkaSink_WriteErrorCounted(t *testing.T) {
	fw := &fakeWriter{err: errors.New("broker down")}
	sink := newKafkaSink(fw)
	errs := metrics.AccessLogSinkErrorsTotal.WithLabelValues("kafka")
	before := testutil.ToFloat64(errs)

	sink.Emit(context.Background(), "line")

	assert.Equal(t, before+1, testutil.ToFloat64(errs))
}

type countingSink struct{ lines []string }

func (c *countingSink) Emit(_ context.Context, line string, _ ...slog.Attr) {
	c.lines = append(c.lines, line)
}

func TestTee(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	Tee{a, b}.Emit(context.Background(), "one")

	assert.Equal(t, []string{"one"}, a.lines)
	assert.Equal(t, []string{"one"}, b.lines)
}
