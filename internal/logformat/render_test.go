package logformat

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() *RenderContext {
	return &RenderContext{
		Method:     "GET",
		URI:        "http://example.com/items?id=7",
		Status:     200,
		RemoteAddr: "192.0.2.10:51234",
		Start:      time.Date(2024, 3, 1, 9, 30, 0, 123456789, time.FixedZone("CET", 3600)),
		Elapsed:    12500 * time.Microsecond,
	}
}

func TestRender_LiteralsAroundField(t *testing.T) {
	f := MustCompile("X{method}Y")
	assert.Equal(t, "XGETY", f.Render(&RenderContext{Method: "GET"}))
}

func TestRender_MissingStatus(t *testing.T) {
	f := MustCompile("{status}")
	assert.Equal(t, "<missing status code>", f.Render(&RenderContext{}))
}

func TestRender_Status(t *testing.T) {
	f := MustCompile("{status}")
	assert.Equal(t, "200 OK", f.Render(&RenderContext{Status: 200}))
	assert.Equal(t, "404 Not Found", f.Render(&RenderContext{Status: 404}))
	assert.Equal(t, "599", f.Render(&RenderContext{Status: 599}))
}

func TestRender_ResponseTime(t *testing.T) {
	f := MustCompile("{response-time}")
	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{2*time.Second + 500_000_000*time.Nanosecond, "2500 ms"},
		{12500 * time.Microsecond, "12.5 ms"},
		{0, "0 ms"},
		{-3 * time.Second, "0 ms"},
		{1500 * time.Nanosecond, "0.0015 ms"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Render(&RenderContext{Elapsed: tt.elapsed}), tt.elapsed.String())
	}
}

func TestRender_RequestTimeKeepsOffset(t *testing.T) {
	f := MustCompile("{request-time}")
	rc := sampleContext()
	assert.Equal(t, "2024-03-01T09:30:00.123456Z+0100", f.Render(rc))

	rc.Start = time.Date(2024, 3, 1, 9, 30, 0, 5000, time.UTC)
	assert.Equal(t, "2024-03-01T09:30:00.000005Z+0000", f.Render(rc))
}

func TestRender_Default(t *testing.T) {
	got := Default.Render(sampleContext())
	assert.Equal(t, "GET http://example.com/items?id=7 -> 200 OK (12.5 ms ms)", got)
}

func TestRender_AllFields(t *testing.T) {
	f := MustCompile("{remote-addr} [{request-time}] {method} {uri} {status} {response-time}")
	assert.Equal(t,
		"192.0.2.10:51234 [2024-03-01T09:30:00.123456Z+0100] GET http://example.com/items?id=7 200 OK 12.5 ms",
		f.Render(sampleContext()))
}

func TestRender_NeverFailsOnEmptyContext(t *testing.T) {
	f := MustCompile("{method}|{uri}|{status}|{response-time}|{remote-addr}|{request-time}")
	assert.NotPanics(t, func() {
		assert.Equal(t, "||<missing status code>|0 ms||0001-01-01T00:00:00.000000Z+0000", f.Render(&RenderContext{}))
		assert.Equal(t, f.Render(&RenderContext{}), f.Render(nil))
	})
}

func TestRender_Deterministic(t *testing.T) {
	f := MustCompile("[{request-time}] {remote-addr} \"{method} {uri}\" {status} {response-time}")
	rc := sampleContext()
	first := f.Render(rc)

	var wg sync.WaitGroup
	results := make([]string, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = f.Render(rc)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, first, r)
	}
}

func TestAppendRender_ReusesBuffer(t *testing.T) {
	f := MustCompile("{method} {uri}")
	buf := []byte("> ")
	buf = f.AppendRender(buf, &RenderContext{Method: "PUT", URI: "/x"})
	assert.Equal(t, "> PUT /x", string(buf))
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 2500.0, Millis(2500*time.Millisecond))
	assert.Equal(t, 0.25, Millis(250*time.Microsecond))
	assert.Equal(t, 0.0, Millis(-time.Millisecond))
}

func TestElapsed(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	d, err := Elapsed(start, start.Add(1500*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	d, err = Elapsed(start, start.Add(-time.Second))
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = Elapsed(time.Time{}, start)
	assert.True(t, errors.Is(err, ErrNoStartTime))
}
