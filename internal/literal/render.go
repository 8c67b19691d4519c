package literal

import (
	"math"
	"strconv"
	"strings"
)

// DefaultPrecision is the number of float decimals used when Options is
// left at its zero value.
const DefaultPrecision = 9

// Exact selects the shortest decimal that parses back to the same float.
const Exact = -1

// Options tunes rendering.
type Options struct {
	// Precision is the maximum number of float decimals. Zero means
	// DefaultPrecision; Exact means as many as needed to round-trip.
	Precision int
}

func (o Options) precision() int {
	if o.Precision == 0 {
		return DefaultPrecision
	}
	return o.Precision
}

// Render returns the literal text for v.
func Render(v Value, opts Options) string {
	var sb strings.Builder
	write(&sb, v, opts.precision())
	return sb.String()
}

func write(sb *strings.Builder, v Value, prec int) {
	switch val := v.(type) {
	case nil, Null:
		sb.WriteString("None")
	case Bool:
		if val {
			sb.WriteString("True")
		} else {
			sb.WriteString("False")
		}
	case Int:
		sb.WriteString(strconv.FormatInt(int64(val), 10))
	case Float:
		sb.WriteString(formatFloat(float64(val), prec))
	case String:
		sb.WriteString(quote(string(val)))
	case List:
		sb.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, elem, prec)
		}
		sb.WriteByte(']')
	case Dict:
		sb.WriteByte('{')
		for i, e := range val {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quote(e.Key))
			sb.WriteString(": ")
			write(sb, e.Value, prec)
		}
		sb.WriteByte('}')
	case Call:
		sb.WriteString(val.Func)
		sb.WriteByte('(')
		for i, arg := range val.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			write(sb, arg, prec)
		}
		sb.WriteByte(')')
	}
}

// formatFloat renders f in fixed-point. Trailing zeros are trimmed down to
// one decimal, and the sign of zero is kept.
func formatFloat(f float64, prec int) string {
	switch {
	case math.IsNaN(f):
		return `float("nan")`
	case math.IsInf(f, 1):
		return `float("inf")`
	case math.IsInf(f, -1):
		return `-float("inf")`
	}

	s := strconv.FormatFloat(f, 'f', prec, 64)
	if !strings.Contains(s, ".") {
		return s + ".0"
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// quote produces a double-quoted string literal. Starlark string literals
// must be valid UTF-8, so invalid bytes are replaced with U+FFFD.
func quote(s string) string {
	return strconv.Quote(strings.ToValidUTF8(s, "�"))
}
