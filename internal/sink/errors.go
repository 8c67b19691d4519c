package sink

import (
	"errors"
	"fmt"
)

// ErrNoUploader is returned when a send is requested but no transfer
// capability was configured.
var ErrNoUploader = errors.New("no upload capability configured")

// PersistenceError reports a failure to write a program to storage.
// A save that fails this way has written nothing usable.
type PersistenceError struct {
	Op   string // "validate", "resolve", "mkdir", "encode", "write"
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// TransferError reports a failed upload to the robot controller.
type TransferError struct {
	Host string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer to %s: %v", e.Host, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// IsPersistenceError returns true if err wraps a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsTransferError returns true if err wraps a TransferError.
func IsTransferError(err error) bool {
	var te *TransferError
	return errors.As(err, &te)
}
