package logformat

import (
	"errors"
	"net/http"
	"strconv"
	"time"
)

// MissingStatus is rendered for {status} when no handler set one.
const MissingStatus = "<missing status code>"

// RequestTimeLayout renders {request-time}: microsecond precision with a
// numeric UTC offset, e.g. 2024-03-01T09:30:00.123456Z+0100.
const RequestTimeLayout = "2006-01-02T15:04:05.000000Z-0700"

var ErrNoStartTime = errors.New("logformat: request start time not recorded")

// RenderContext is the per-request input to Render. Status 0 means no status
// was set.
type RenderContext struct {
	Method     string
	URI        string
	Status     int
	RemoteAddr string
	Start      time.Time
	Elapsed    time.Duration
}

// Render produces the log line for rc. It never fails.
func (f Format) Render(rc *RenderContext) string {
	if len(f.units) == 0 {
		return ""
	}
	return string(f.AppendRender(make([]byte, 0, 64), rc))
}

// AppendRender appends the rendered line to dst.
func (f Format) AppendRender(dst []byte, rc *RenderContext) []byte {
	if rc == nil {
		rc = &RenderContext{}
	}
	for _, u := range f.units {
		dst = u.appendTo(dst, rc)
	}
	return dst
}

func (l Literal) appendTo(dst []byte, _ *RenderContext) []byte {
	return append(dst, l...)
}

func (f Field) appendTo(dst []byte, rc *RenderContext) []byte {
	switch f {
	case Method:
		return append(dst, rc.Method...)
	case URI:
		return append(dst, rc.URI...)
	case Status:
		return appendStatus(dst, rc.Status)
	case ResponseTime:
		dst = strconv.AppendFloat(dst, Millis(rc.Elapsed), 'f', -1, 64)
		return append(dst, " ms"...)
	case RemoteAddr:
		return append(dst, rc.RemoteAddr...)
	case RequestTime:
		return rc.Start.AppendFormat(dst, RequestTimeLayout)
	}
	return dst
}

func appendStatus(dst []byte, code int) []byte {
	if code == 0 {
		return append(dst, MissingStatus...)
	}
	dst = strconv.AppendInt(dst, int64(code), 10)
	if text := http.StatusText(code); text != "" {
		dst = append(dst, ' ')
		dst = append(dst, text...)
	}
	return dst
}

// Millis converts d to milliseconds as whole seconds * 1000 plus the
// sub-second remainder. Negative durations are clamped to zero.
func Millis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	secs := d / time.Second
	nanos := d % time.Second
	return float64(secs)*1000 + float64(nanos)/1e6
}

// Elapsed returns end - start, clamped to zero. A zero start means the start
// time was never recorded.
func Elapsed(start, end time.Time) (time.Duration, error) {
	if start.IsZero() {
		return 0, ErrNoStartTime
	}
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	return d, nil
}
