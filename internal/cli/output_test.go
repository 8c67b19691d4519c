package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/robopost/internal/config"
	"github.com/roach88/robopost/internal/harness"
	"github.com/roach88/robopost/internal/replay"
	"github.com/roach88/robopost/internal/sink"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"result": "success"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error(ErrCodeConfig, "robot_post is required", []string{"cell.cue"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E002", resp.Error.Code)
	assert.Equal(t, "robot_post is required", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Error("E001", "generation failed", map[string]string{"file": "pick.yaml"}))
	assert.Contains(t, buf.String(), "Error [E001]: generation failed")
	assert.NotContains(t, buf.String(), "Details:")

	buf.Reset()
	formatter.Verbose = true
	require.NoError(t, formatter.Error("E001", "generation failed", map[string]string{"file": "pick.yaml"}))
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, diag := &bytes.Buffer{}, &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: tt.verbose}

			formatter.VerboseLog("Processing %s", "pick.yaml")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Contains(t, diag.String(), "Processing pick.yaml")
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestExitError(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitFailure, "save failed", base)
	assert.Equal(t, "save failed: disk full", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", NewExitError(ExitCommandError, "bad"))))
	assert.Equal(t, ExitFailure, GetExitCode(base))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"config", &config.LoadError{Code: config.ErrCodeInvalid, Err: errors.New("x")}, ErrCodeConfig},
		{"assertion", &harness.AssertionError{Type: harness.AssertLineCount}, ErrCodeAssert},
		{"step", &harness.StepError{Err: errors.New("x")}, ErrCodeStep},
		{"step wrapping save", &harness.StepError{Err: &sink.PersistenceError{Path: "a", Err: errors.New("x")}}, ErrCodePersist},
		{"transfer", &sink.TransferError{Host: "h", Err: errors.New("x")}, ErrCodeTransfer},
		{"script", &replay.ScriptError{Path: "a.star", Err: errors.New("x")}, ErrCodeScript},
		{"catalog", fmt.Errorf("%w: locked", errCatalog), ErrCodeCatalog},
		{"program", fmt.Errorf("%w: bad yaml", errProgram), ErrCodeProgram},
		{"other", errors.New("x"), ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(WrapExitError(ExitFailure, "failed", tt.err)))
		})
	}
}

func TestIndentLines(t *testing.T) {
	assert.Equal(t, "  a\n  b\n", indentLines("a\nb\n", "  "))
	assert.Equal(t, "> a\n", indentLines("a", "> "))
}
