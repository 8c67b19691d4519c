package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/robopost/internal/config"
	"github.com/roach88/robopost/internal/harness"
	"github.com/roach88/robopost/internal/replay"
	"github.com/roach88/robopost/internal/sink"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Program failure (failed assertion, bad step, failed save or upload)
	ExitCommandError = 2 // Command error (bad flags, unreadable config, missing files)
)

// Error codes reported in JSON output.
const (
	ErrCodeGeneric  = "E001" // Generic/unknown error
	ErrCodeConfig   = "E002" // Backend configuration rejected
	ErrCodeProgram  = "E003" // Program file unreadable or invalid
	ErrCodeStep     = "E004" // Instruction arguments unusable
	ErrCodeAssert   = "E005" // Program assertion failed
	ErrCodeScript   = "E006" // Replay script failed
	ErrCodePersist  = "E007" // Program file could not be written
	ErrCodeTransfer = "E008" // Upload failed
	ErrCodeCatalog  = "E009" // Save catalog unavailable
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// ErrorCode classifies err into one of the E00x codes.
func ErrorCode(err error) string {
	var (
		stepErr   *harness.StepError
		assertErr *harness.AssertionError
	)
	switch {
	case config.IsLoadError(err):
		return ErrCodeConfig
	case errors.As(err, &assertErr):
		return ErrCodeAssert
	case sink.IsPersistenceError(err):
		return ErrCodePersist
	case sink.IsTransferError(err):
		return ErrCodeTransfer
	case replay.IsScriptError(err):
		return ErrCodeScript
	case errors.As(err, &stepErr):
		return ErrCodeStep
	case errors.Is(err, errCatalog):
		return ErrCodeCatalog
	case errors.Is(err, errProgram):
		return ErrCodeProgram
	default:
		return ErrCodeGeneric
	}
}

// OutputFormatter writes command results and errors as text or as a
// CLIResponse JSON document.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; falls back to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope of every command.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error part of a CLIResponse.
type CLIError struct {
	Code    string `json:"code"` // one of the E00x codes
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (f *OutputFormatter) json() bool {
	return f.Format == "json"
}

func (f *OutputFormatter) encode(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Success writes data. Text output prints it with fmt's default format.
func (f *OutputFormatter) Success(data any) error {
	if f.json() {
		return f.encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes a coded error. Text output shows details only when verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.json() {
		return f.encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	if _, err := fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message); err != nil {
		return err
	}
	if f.Verbose && details != nil {
		_, err := fmt.Fprintf(f.Writer, "Details: %v\n", details)
		return err
	}
	return nil
}

// Report writes err with the code ErrorCode assigns it.
func (f *OutputFormatter) Report(err error) error {
	return f.Error(ErrorCode(err), err.Error(), nil)
}

// VerboseLog writes a diagnostic line when verbose. It never goes to
// Writer when ErrWriter is set, so JSON output stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if f.Verbose {
		fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
	}
}

// GetErrWriter returns ErrWriter, or Writer when none is set.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// indentLines prefixes every line of text and ends it with a newline.
func indentLines(text, prefix string) string {
	var buf strings.Builder
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		buf.WriteString(prefix)
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	return buf.String()
}
