package harness

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/robopost/internal/post"
)

// Snapshot renders a result as golden file text: the emitted lines, then
// the diagnostic log under a "--- log" marker when it is non-empty.
func Snapshot(r *Result) []byte {
	var buf strings.Builder
	for _, line := range r.Lines {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if r.Log != "" {
		buf.WriteString("--- log\n")
		buf.WriteString(r.Log)
		if !strings.HasSuffix(r.Log, "\n") {
			buf.WriteByte('\n')
		}
	}
	return []byte(buf.String())
}

// RunWithGolden executes a program and compares the emitted lines against
// testdata/golden/{prog.Name}.golden. ProgSave steps are skipped so the
// run writes nothing to disk.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, prog *Program, p post.Post) error {
	t.Helper()

	result, err := Run(prog, p, Options{SkipSave: true})
	if err != nil {
		return err
	}
	AssertGolden(t, prog.Name, result)
	return nil
}

// AssertGolden compares an existing result against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, Snapshot(result))
}
