package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/robopost/internal/harness"
	"github.com/roach88/robopost/internal/post"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Backend BackendFlags
	Update  bool   // regenerate golden files
	Filter  string // program filter (glob pattern)
}

// ProgramResult holds the result of a single program run.
type ProgramResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Programs []ProgramResult `json:"programs"`
	Passed   int             `json:"passed"`
	Failed   int             `json:"failed"`
	Total    int             `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <programs-dir>",
		Short: "Check instruction programs against their golden output",
		Long: `Run every program in a directory without saving, then check its
assertions and compare the emitted lines with golden/<name>.golden.

Programs without a golden file are checked by their assertions only.

Exit codes:
  0 - All programs passed
  1 - One or more programs failed
  2 - Command error (invalid paths, etc.)

Examples:
  robopost test ./programs
  robopost test ./programs --filter "pick-*"
  robopost test ./programs --post Precise --update
  robopost test ./programs --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	opts.Backend.register(cmd)
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter programs by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, programsDir string, cmd *cobra.Command) error {
	if _, err := os.Stat(programsDir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("programs directory not found: %s", programsDir))
	}

	programFiles, err := findProgramFiles(programsDir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find programs", err)
	}

	if len(programFiles) == 0 {
		if opts.Format == "json" {
			return outputTestJSON(cmd, TestResult{Programs: []ProgramResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No programs found.")
		return nil
	}

	result := TestResult{
		Programs: make([]ProgramResult, 0, len(programFiles)),
		Total:    len(programFiles),
	}
	for _, file := range programFiles {
		res := runProgramTest(file, opts, cmd)
		result.Programs = append(result.Programs, res)
		if res.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		return outputTestJSON(cmd, result)
	}
	return outputTestText(cmd, result)
}

// findProgramFiles finds YAML program files directly inside dir. Golden
// files live in a subdirectory and are never matched.
func findProgramFiles(dir, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(e.Name(), ext))
			if err != nil {
				return nil, fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				continue
			}
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

// runProgramTest executes a single program and returns the result.
func runProgramTest(file string, opts *TestOptions, cmd *cobra.Command) ProgramResult {
	w := cmd.OutOrStdout()
	fail := func(name string, errs ...string) ProgramResult {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✗ %s\n", name)
			for _, e := range errs {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
		return ProgramResult{Name: name, Pass: false, Errors: errs}
	}
	pass := func(name, note string) ProgramResult {
		if opts.Format != "json" {
			fmt.Fprintf(w, "✓ %s%s\n", name, note)
		}
		return ProgramResult{Name: name, Pass: true}
	}

	prog, err := harness.LoadProgram(file)
	if err != nil {
		return fail(filepath.Base(file), fmt.Sprintf("load error: %v", err))
	}

	cfg, err := resolveConfig(opts.Backend, prog.Robot)
	if err != nil {
		return fail(prog.Name, fmt.Sprintf("config error: %v", err))
	}
	p, err := post.New(cfg, post.Env{})
	if err != nil {
		return fail(prog.Name, fmt.Sprintf("backend error: %v", err))
	}

	result, err := harness.Run(prog, p, harness.Options{SkipSave: true})
	if err != nil {
		return fail(prog.Name, err.Error())
	}

	goldenPath := goldenFilePath(file)
	snapshot := harness.Snapshot(result)

	if opts.Update {
		if err := writeGoldenFile(goldenPath, snapshot); err != nil {
			return fail(prog.Name, fmt.Sprintf("golden update error: %v", err))
		}
		return pass(prog.Name, " (golden updated)")
	}

	golden, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		return pass(prog.Name, "")
	}
	if err != nil {
		return fail(prog.Name, fmt.Sprintf("failed to read golden file: %v", err))
	}
	if !bytes.Equal(golden, snapshot) {
		return fail(prog.Name, "output does not match golden file (run with --update to regenerate)")
	}
	return pass(prog.Name, "")
}

// goldenFilePath returns the path to the golden file for a program.
func goldenFilePath(programFile string) string {
	dir := filepath.Dir(programFile)
	base := filepath.Base(programFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

func writeGoldenFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(cmd *cobra.Command, result TestResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if result.Failed > 0 {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeAssert,
			Message: fmt.Sprintf("%d program(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d program(s) failed", result.Failed))
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(cmd *cobra.Command, result TestResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d program(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All programs passed")
	return nil
}
