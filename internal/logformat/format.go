package logformat

import "strings"

// Unit is one compiled instruction: a Literal or a Field.
type Unit interface {
	appendTo(dst []byte, rc *RenderContext) []byte
}

// Literal is text copied to the output unchanged.
type Literal string

// Format is a compiled template. The zero value renders the empty string.
//
// A Format is never modified after compilation, so copies share their units
// and may be rendered from any number of goroutines.
type Format struct {
	units []Unit
}

// DefaultTemplate is the template Default is equivalent to.
const DefaultTemplate = "{method} {uri} -> {status} ({response-time} ms)"

// Default is used when no template is configured.
var Default = Format{units: []Unit{
	Method,
	Literal(" "),
	URI,
	Literal(" -> "),
	Status,
	Literal(" ("),
	ResponseTime,
	Literal(" ms)"),
}}

// Compile parses template in a single pass. Text outside braces is kept as
// literal units; each {token} must name a known Field.
func Compile(template string) (Format, error) {
	var units []Unit
	lit := 0
	for i := 0; i < len(template); i++ {
		if template[i] != '{' {
			continue
		}
		if i > lit {
			units = append(units, Literal(template[lit:i]))
		}
		end := strings.IndexByte(template[i+1:], '}')
		if end < 0 {
			return Format{}, &Error{Pos: i, Err: ErrUnterminatedPlaceholder}
		}
		token := template[i+1 : i+1+end]
		f, ok := ParseField(token)
		if !ok {
			return Format{}, &Error{Pos: i, Token: token, Err: ErrUnknownField}
		}
		units = append(units, f)
		i += end + 1
		lit = i + 1
	}
	if lit < len(template) {
		units = append(units, Literal(template[lit:]))
	}
	return Format{units: units}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(template string) Format {
	f, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return f
}

// New compiles template, or returns Default when template is nil.
func New(template *string) (Format, error) {
	if template == nil {
		return Default, nil
	}
	return Compile(*template)
}

// Units returns a copy of the compiled units in rendering order.
func (f Format) Units() []Unit {
	if len(f.units) == 0 {
		return nil
	}
	out := make([]Unit, len(f.units))
	copy(out, f.units)
	return out
}

func (f Format) Len() int { return len(f.units) }

// Equal reports whether f and g render identically for every context.
func (f Format) Equal(g Format) bool {
	if len(f.units) != len(g.units) {
		return false
	}
	for i := range f.units {
		if f.units[i] != g.units[i] {
			return false
		}
	}
	return true
}

// String returns a template that compiles back to f.
func (f Format) String() string {
	var b strings.Builder
	for _, u := range f.units {
		switch u := u.(type) {
		case Literal:
			b.WriteString(string(u))
		case Field:
			b.WriteString(u.String())
		}
	}
	return b.String()
}
