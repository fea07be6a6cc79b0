// Package logformat compiles request-line templates and renders them.
//
// A template is plain text with field placeholders in braces:
//
//	{method} {uri} -> {status} ({response-time} ms)
//
// Compile once at startup, then call Render for every request. A compiled
// Format is immutable and safe for concurrent use.
//
// There is no escape syntax: a template cannot produce a literal '{'.
package logformat
