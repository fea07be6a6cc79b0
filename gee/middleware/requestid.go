package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"time"

	"reqlog.local/gee"
)

const (
	requestIDHeader = "X-Request-ID"
	// RequestIDKey is the context key holding the request id.
	RequestIDKey = "request_id"

	maxRequestIDLen = 128
)

// ReqID propagates the incoming X-Request-ID or assigns a new one, on both
// the request and the response. Incoming ids that are too long or contain
// anything but printable ASCII are replaced, since the id ends up in log
// records and Kafka keys.
func ReqID() gee.HandlerFunc {
	return func(ctx *gee.Context) {
		id := ctx.Req.Header.Get(requestIDHeader)
		if !validRequestID(id) {
			id = GenerateReqID()
			if id == "" {
				id = strconv.FormatInt(time.Now().UnixNano(), 10)
			}
			ctx.Req.Header.Set(requestIDHeader, id)
		}
		ctx.Set(RequestIDKey, id)
		ctx.SetHeader(requestIDHeader, id)
		ctx.Next()
	}
}

// GenerateReqID returns 32 random hex characters, or "" if the system
// random source fails.
func GenerateReqID() string {
	src := make([]byte, 16)
	if _, err := rand.Read(src); err != nil {
		return ""
	}
	return hex.EncodeToString(src)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
