// Command logfmt checks an access log template before it is deployed.
//
//	logfmt '{method} {uri} -> {status}'          # print compiled units
//	logfmt -preview '{method} {uri} {status}'    # render a sample line
//
// With no template the default format is used. Exit status is 1 for an
// invalid template.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"reqlog.local/internal/logformat"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("logfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	preview := fs.Bool("preview", false, "render a sample request instead of listing units")
	method := fs.String("method", "GET", "sample request method")
	uri := fs.String("uri", "http://localhost:9999/healthz", "sample request URI")
	status := fs.Int("status", 200, "sample response status, 0 for none")
	remote := fs.String("remote-addr", "127.0.0.1:52100", "sample client address")
	elapsed := fs.Duration("elapsed", 2500*time.Millisecond, "sample response time")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var tmpl *string
	if fs.NArg() > 0 {
		s := strings.Join(fs.Args(), " ")
		tmpl = &s
	}
	f, err := logformat.New(tmpl)
	if err != nil {
		fmt.Fprintln(stderr, err)
		var fe *logformat.Error
		if tmpl != nil && errors.As(err, &fe) {
			fmt.Fprintf(stderr, "  %s\n  %s^\n", *tmpl, strings.Repeat(" ", fe.Pos))
		}
		return 1
	}

	if *preview {
		fmt.Fprintln(stdout, f.Render(&logformat.RenderContext{
			Method:     *method,
			URI:        *uri,
			Status:     *status,
			RemoteAddr: *remote,
			Start:      time.Now(),
			Elapsed:    *elapsed,
		}))
		return 0
	}
	for i, u := range f.Units() {
		switch u := u.(type) {
		case logformat.Literal:
			fmt.Fprintf(stdout, "%2d literal %q\n", i, string(u))
		case logformat.Field:
			fmt.Fprintf(stdout, "%2d field   %s\n", i, u)
		}
	}
	return 0
}
