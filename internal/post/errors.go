package post

import (
	"errors"
	"fmt"
)

// UnsupportedError describes an instruction a dialect cannot express.
// It is never returned from an instruction method; Degrade turns it into a
// log entry.
type UnsupportedError struct {
	Post   string
	Kind   Kind
	Detail string
}

func (e *UnsupportedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s not supported by %s (%s)", e.Kind, e.Post, e.Detail)
	}
	return fmt.Sprintf("%s not supported by %s", e.Kind, e.Post)
}

// Logger is the part of a program buffer that receives diagnostics.
type Logger interface {
	AddLog(msg string)
}

// Degrade records err in the diagnostic log instead of failing the call.
func Degrade(log Logger, kind Kind, err error) {
	var ue *UnsupportedError
	if errors.As(err, &ue) {
		log.AddLog(ue.Error())
		return
	}
	log.AddLog(fmt.Sprintf("%s: %v", kind, err))
}

// Unsupported logs that kind is not available in the named dialect.
func Unsupported(log Logger, post string, kind Kind, detail string) {
	Degrade(log, kind, &UnsupportedError{Post: post, Kind: kind, Detail: detail})
}
