package config

import (
	"errors"
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
)

// Error codes for configuration failures.
const (
	ErrCodeRead    = "E101"
	ErrCodeFormat  = "E102"
	ErrCodeParse   = "E103"
	ErrCodeInvalid = "E104"
)

// LoadError reports a configuration file that could not be used.
type LoadError struct {
	Code string
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, details(e.Err))
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError returns true if err wraps a LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// details flattens CUE error lists into one message.
func details(err error) string {
	var ce cueerrors.Error
	if errors.As(err, &ce) {
		return cueerrors.Details(ce, nil)
	}
	return err.Error()
}
