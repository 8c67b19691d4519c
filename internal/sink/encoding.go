package sink

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Well-known encoding labels. Any WHATWG label is accepted.
const (
	UTF8     = "utf-8"
	ShiftJIS = "shift_jis"
)

// LookupEncoding resolves an encoding label. An empty label means UTF-8.
func LookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// Encode converts text to the given encoding. Characters the target cannot
// represent are replaced rather than rejected, so a single unsupported glyph
// in a comment never blocks a save.
func Encode(text, label string) ([]byte, error) {
	enc, err := LookupEncoding(label)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(text), nil
	}
	return encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes([]byte(text))
}
