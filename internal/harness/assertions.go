package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It carries the emitted lines so the failure can be read in place.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Lines    []string // Emitted program for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nProgram:\n")
	for i, line := range e.Lines {
		fmt.Fprintf(&buf, "  %3d| %s\n", i+1, line)
	}
	return buf.String()
}

func checkAssertions(assertions []Assertion, r *Result) error {
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertLineContains:
			err = assertLineContains(r, a)
		case AssertLineOrder:
			err = assertLineOrder(r, a)
		case AssertLineCount:
			err = assertLineCount(r, a)
		case AssertLogContains:
			err = assertLogContains(r, a)
		case AssertLogEmpty:
			err = assertLogEmpty(r)
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func assertLineContains(r *Result, a Assertion) error {
	if indexFrom(r.Lines, 0, a.Text) >= 0 {
		return nil
	}
	return &AssertionError{
		Type:     AssertLineContains,
		Expected: fmt.Sprintf("a line containing %q", a.Text),
		Actual:   "no such line",
		Lines:    r.Lines,
	}
}

// assertLineOrder checks that each text appears on a later line than the
// one before it. Other lines may sit in between.
func assertLineOrder(r *Result, a Assertion) error {
	next := 0
	for i, text := range a.Texts {
		found := indexFrom(r.Lines, next, text)
		if found < 0 {
			actual := "not found"
			if i > 0 {
				actual = fmt.Sprintf("not found after line %d (%q)", next, a.Texts[i-1])
			}
			return &AssertionError{
				Type:     AssertLineOrder,
				Expected: fmt.Sprintf("%q in order", a.Texts),
				Actual:   fmt.Sprintf("%q %s", text, actual),
				Lines:    r.Lines,
			}
		}
		next = found + 1
	}
	return nil
}

func assertLineCount(r *Result, a Assertion) error {
	if len(r.Lines) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertLineCount,
		Expected: fmt.Sprintf("%d lines", a.Count),
		Actual:   fmt.Sprintf("%d lines", len(r.Lines)),
		Lines:    r.Lines,
	}
}

func assertLogContains(r *Result, a Assertion) error {
	if strings.Contains(r.Log, a.Text) {
		return nil
	}
	return &AssertionError{
		Type:     AssertLogContains,
		Expected: fmt.Sprintf("log containing %q", a.Text),
		Actual:   fmt.Sprintf("log %q", r.Log),
		Lines:    r.Lines,
	}
}

func assertLogEmpty(r *Result) error {
	if r.Log == "" {
		return nil
	}
	return &AssertionError{
		Type:     AssertLogEmpty,
		Expected: "empty log",
		Actual:   fmt.Sprintf("log %q", r.Log),
		Lines:    r.Lines,
	}
}

func indexFrom(lines []string, start int, text string) int {
	for i := start; i < len(lines); i++ {
		if strings.Contains(lines[i], text) {
			return i
		}
	}
	return -1
}
