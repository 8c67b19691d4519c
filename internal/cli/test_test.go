package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runTestCmd(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewTestCommand(&RootOptions{Format: format})
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, err := runTestCmd(t, "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, err := runTestCmd(t, "text", "/nonexistent/programs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "programs directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, err := runTestCmd(t, "text", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No programs found.")
}

func TestTestCommandGoldenPass(t *testing.T) {
	out, err := runTestCmd(t, "text", "testdata/programs")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ pick")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, "testdata/programs/pick.yaml", filepath.Join(dir, "pick.yaml"))

	// Under another dialect the output no longer matches.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0o755))
	copyFile(t, "testdata/programs/golden/pick.golden", filepath.Join(dir, "golden", "pick.golden"))

	out, err := runTestCmd(t, "text", dir, "--post", "Precise")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ pick")
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandUpdate(t *testing.T) {
	dir := t.TempDir()
	copyFile(t, "testdata/programs/pick.yaml", filepath.Join(dir, "pick.yaml"))

	out, err := runTestCmd(t, "text", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "golden updated")

	got, err := os.ReadFile(filepath.Join(dir, "golden", "pick.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile("testdata/programs/golden/pick.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	_, err = runTestCmd(t, "text", dir)
	require.NoError(t, err)
}

func TestTestCommandAssertionFailure(t *testing.T) {
	out, err := runTestCmd(t, "text", "testdata/failing")
	require.Error(t, err)
	assert.Contains(t, out, "✓ passes")
	assert.Contains(t, out, "✗ wrong_count")
	assert.Contains(t, out, "Assertion failed: line_count")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandFilter(t *testing.T) {
	out, err := runTestCmd(t, "text", "testdata/failing", "--filter", "pass*")
	require.NoError(t, err)
	assert.Contains(t, out, "1 total")
	assert.NotContains(t, out, "wrong_count")
}

func TestTestCommandJSON(t *testing.T) {
	out, err := runTestCmd(t, "json", "testdata/failing")
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeAssert, resp.Error.Code)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("progs", "golden", "pick.golden"), goldenFilePath(filepath.Join("progs", "pick.yaml")))
}

func copyFile(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0o644))
}
