package logformat

import (
	"errors"
	"strconv"
)

var (
	ErrUnterminatedPlaceholder = errors.New("unterminated placeholder")
	ErrUnknownField            = errors.New("unknown field")
)

// Error describes why a template failed to compile.
//
// Pos is the byte offset of the opening brace of the offending placeholder.
// Token is set for ErrUnknownField.
type Error struct {
	Pos   int
	Token string
	Err   error
}

func (e *Error) Error() string {
	msg := "logformat: " + e.Err.Error()
	if errors.Is(e.Err, ErrUnknownField) {
		msg += " " + strconv.Quote(e.Token)
	}
	return msg + " at offset " + strconv.Itoa(e.Pos)
}

func (e *Error) Unwrap() error { return e.Err }
