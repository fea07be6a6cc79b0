// Package reqlog holds the runtime side of access logging: the shared
// format store and the sinks finished lines are sent to.
package reqlog

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"reqlog.local/internal/logformat"
	"reqlog.local/internal/platform/metrics"
)

// Snapshot is one immutable revision of the active format.
type Snapshot struct {
	Format   logformat.Format
	Template string
	Revision uint64
}

// Store is the process-wide handle to the active access log format.
// Readers never block; Reload swaps the whole snapshot atomically.
type Store struct {
	mu  sync.Mutex // serializes writers
	cur atomic.Pointer[Snapshot]
}

// NewStore compiles template, or uses logformat.Default when template is
// nil. An empty template is the empty format, as with Reload. A bad
// template is returned as an error so startup can fail.
func NewStore(template *string) (*Store, error) {
	f, err := logformat.New(template)
	if err != nil {
		return nil, err
	}
	tmpl := logformat.DefaultTemplate
	if template != nil {
		tmpl = *template
	}
	s := &Store{}
	s.cur.Store(&Snapshot{Format: f, Template: tmpl, Revision: 1})
	metrics.AccessLogFormatRevision.Set(1)
	return s, nil
}

// Load implements middleware.Source.
func (s *Store) Load() logformat.Format {
	return s.cur.Load().Format
}

func (s *Store) Snapshot() Snapshot {
	return *s.cur.Load()
}

// Reload compiles template and makes it active. On error the current format
// stays in place. An empty template is valid and logs empty lines.
func (s *Store) Reload(template string) (Snapshot, error) {
	f, err := logformat.Compile(template)
	if err != nil {
		metrics.AccessLogFormatReloadsTotal.WithLabelValues("invalid").Inc()
		return s.Snapshot(), err
	}
	return s.swap(f, template), nil
}

// Reset makes logformat.Default active again.
func (s *Store) Reset() Snapshot {
	return s.swap(logformat.Default, logformat.DefaultTemplate)
}

func (s *Store) swap(f logformat.Format, template string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := &Snapshot{Format: f, Template: template, Revision: s.cur.Load().Revision + 1}
	s.cur.Store(next)
	metrics.AccessLogFormatReloadsTotal.WithLabelValues("ok").Inc()
	metrics.AccessLogFormatRevision.Set(float64(next.Revision))
	slog.Info("access log format changed", "template", template, "revision", next.Revision)
	return *next
}
