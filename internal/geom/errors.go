package geom

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes geometry encoding errors.
type ErrorCode string

const (
	// ErrCodeNonFinite indicates a NaN or infinite value.
	ErrCodeNonFinite ErrorCode = "NON_FINITE"

	// ErrCodeShape indicates a matrix of the wrong size.
	ErrCodeShape ErrorCode = "BAD_SHAPE"

	// ErrCodeCapacity indicates more joints than available labels.
	ErrCodeCapacity ErrorCode = "CAPACITY"
)

// FormatError reports geometry or joint input that cannot be rendered.
type FormatError struct {
	Code    ErrorCode
	Message string

	// Index is the offending field or row, when known.
	Index int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s (index %d)", e.Code, e.Message, e.Index)
}

// CapacityError reports a joint vector longer than the label alphabet.
type CapacityError struct {
	Axes     int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d joints exceed %d available labels", ErrCodeCapacity, e.Axes, e.Capacity)
}

// IsFormatError returns true if err wraps a FormatError.
func IsFormatError(err error) bool {
	var fe *FormatError
	return errors.As(err, &fe)
}

// IsCapacityError returns true if err wraps a CapacityError.
func IsCapacityError(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}
