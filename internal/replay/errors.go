package replay

import (
	"errors"
	"fmt"

	"go.starlark.net/starlark"
)

// ScriptError reports a replay script that failed to parse or execute.
type ScriptError struct {
	Path string
	Err  error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("replay %s: %v", e.Path, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Backtrace returns the Starlark call stack of the failure, if any.
func (e *ScriptError) Backtrace() string {
	var ee *starlark.EvalError
	if errors.As(e.Err, &ee) {
		return ee.Backtrace()
	}
	return ""
}

// IsScriptError returns true if err wraps a ScriptError.
func IsScriptError(err error) bool {
	var se *ScriptError
	return errors.As(err, &se)
}
