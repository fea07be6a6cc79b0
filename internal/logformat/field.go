package logformat

// Field is one of the request/response values a template can interpolate.
type Field uint8

const (
	Method Field = iota + 1
	URI
	Status
	ResponseTime
	RemoteAddr
	RequestTime
)

var fieldTokens = [...]string{
	Method:       "method",
	URI:          "uri",
	Status:       "status",
	ResponseTime: "response-time",
	RemoteAddr:   "remote-addr",
	RequestTime:  "request-time",
}

// Fields lists every field in declaration order.
func Fields() []Field {
	return []Field{Method, URI, Status, ResponseTime, RemoteAddr, RequestTime}
}

// ParseField maps a placeholder token to its field. Matching is exact and
// case-sensitive.
func ParseField(token string) (Field, bool) {
	for f := Method; f <= RequestTime; f++ {
		if fieldTokens[f] == token {
			return f, true
		}
	}
	return 0, false
}

// Token returns the placeholder spelling, without braces.
func (f Field) Token() string {
	if f < Method || f > RequestTime {
		return ""
	}
	return fieldTokens[f]
}

func (f Field) String() string {
	if t := f.Token(); t != "" {
		return "{" + t + "}"
	}
	return "{?}"
}
