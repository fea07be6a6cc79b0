package gee

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// MaxJSONBody caps the request bodies ShouldBindJSON reads.
const MaxJSONBody = 64 << 10

var (
	ErrEmptyBody    = errors.New("empty body")
	ErrTrailingJSON = errors.New("body must contain only one JSON value")
	ErrBodyTooLarge = errors.New("body too large")
)

// ShouldBindJSON decodes exactly one JSON object from the body into dst,
// rejecting unknown fields and bodies over MaxJSONBody.
func (c *Context) ShouldBindJSON(dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Req.Body, MaxJSONBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return bindError(err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err != nil {
			return bindError(err)
		}
		return ErrTrailingJSON
	}
	return nil
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, io.EOF):
		return ErrEmptyBody
	case errors.As(err, &tooLarge):
		return ErrBodyTooLarge
	}
	return err
}

// BindJSON is ShouldBindJSON that aborts with 400, or 413 when the body is
// too large.
func (c *Context) BindJSON(dst any) error {
	err := c.ShouldBindJSON(dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrBodyTooLarge):
		c.AbortWithError(http.StatusRequestEntityTooLarge, err.Error())
	default:
		c.AbortWithError(http.StatusBadRequest, "invalid json: "+err.Error())
	}
	return err
}
