package post

import (
	"fmt"
	"strings"
)

// Ref names an I/O variable either explicitly or by index.
// The zero value is index 0.
type Ref struct {
	name  string
	index int
	named bool
}

// Named refers to a variable by its controller name, passed through verbatim.
func Named(name string) Ref {
	return Ref{name: name, named: true}
}

// Indexed refers to the n-th output or input; the dialect picks the name.
func Indexed(n int) Ref {
	return Ref{index: n}
}

// Name returns the explicit name, if any.
func (r Ref) Name() (string, bool) {
	return r.name, r.named
}

// Index returns the numeric index, if any.
func (r Ref) Index() (int, bool) {
	return r.index, !r.named
}

// Render returns the explicit name, or pattern formatted with the index
// (for example "OUT[%d]").
func (r Ref) Render(pattern string) string {
	if r.named {
		return r.name
	}
	return fmt.Sprintf(pattern, r.index)
}

func (r Ref) String() string {
	if r.named {
		return r.name
	}
	return fmt.Sprintf("#%d", r.index)
}

// IoValue is the value written to or awaited on an I/O variable: either a
// literal controller token or a boolean the dialect renders itself.
// The zero value is Boolean(false).
type IoValue struct {
	literal   string
	value     bool
	isLiteral bool
}

// Literal passes token through verbatim.
func Literal(token string) IoValue {
	return IoValue{literal: token, isLiteral: true}
}

// Boolean is rendered with the dialect's TRUE/FALSE tokens.
func Boolean(v bool) IoValue {
	return IoValue{value: v}
}

// Number maps a numeric level onto a boolean: positive is true.
func Number(v float64) IoValue {
	return Boolean(v > 0)
}

// Literal returns the literal token, if any.
func (v IoValue) Literal() (string, bool) {
	return v.literal, v.isLiteral
}

// Bool returns the boolean value, if any.
func (v IoValue) Bool() (bool, bool) {
	return v.value, !v.isLiteral
}

// Render returns the literal token, or trueTok/falseTok for a boolean.
func (v IoValue) Render(trueTok, falseTok string) string {
	if v.isLiteral {
		return v.literal
	}
	if v.value {
		return trueTok
	}
	return falseTok
}

func (v IoValue) String() string {
	return v.Render("true", "false")
}

// FunctionCall normalizes code into a zero-argument call token: spaces become
// underscores and "()" is appended unless the code already ends with ")".
func FunctionCall(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), " ", "_")
	if !strings.HasSuffix(code, ")") {
		code += "()"
	}
	return code
}
