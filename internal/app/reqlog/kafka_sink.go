package reqlog

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"reqlog.local/internal/platform/metrics"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes one message per access line. The message value is the
// line; attributes become headers and request_id, when present, the key.
type KafkaSink struct {
	writer messageWriter
	now    func() time.Time
}

// NewKafkaSink uses an asynchronous writer so requests never wait on the
// broker; delivery failures are logged and counted.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		Async:        true,
		BatchTimeout: 100 * time.Millisecond,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				metrics.AccessLogSinkErrorsTotal.WithLabelValues("kafka").Add(float64(len(messages)))
				slog.Error("kafka access log delivery failed", "err", err, "messages", len(messages))
			}
		},
	}
	return newKafkaSink(w)
}

func newKafkaSink(w messageWriter) *KafkaSink {
	return &KafkaSink{writer: w, now: time.Now}
}

func (k *KafkaSink) Emit(ctx context.Context, line string, attrs ...slog.Attr) {
	msg := kafka.Message{
		Value: []byte(line),
		Time:  k.now(),
	}
	for _, a := range attrs {
		v := a.Value.String()
		if a.Key == "request_id" {
			msg.Key = []byte(v)
		}
		msg.Headers = append(msg.Headers, kafka.Header{Key: a.Key, Value: []byte(v)})
	}
	// The request context is cancelled as soon as the handler returns.
	if err := k.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		metrics.AccessLogSinkErrorsTotal.WithLabelValues("kafka").Inc()
		slog.Error("kafka write failed", "err", err)
		return
	}
	metrics.AccessLogLinesTotal.WithLabelValues("kafka").Inc()
}

// Close flushes pending messages.
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
