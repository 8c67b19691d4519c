package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/robopost/internal/post"
)

func TestLoadProgram_Valid(t *testing.T) {
	prog, err := LoadProgram("testdata/programs/pick_and_place.yaml")
	require.NoError(t, err)

	assert.Equal(t, "pick_and_place", prog.Name)
	assert.Equal(t, "Generic", prog.Robot["robot_post"])
	require.NotEmpty(t, prog.Steps)
	assert.Equal(t, post.KindProgStart, prog.Steps[0].Kind)
	assert.Equal(t, "Sample", prog.Steps[0].Args["progname"])
	assert.Equal(t, 8, prog.Steps[0].Line)
	assert.Len(t, prog.Assertions, 4)
}

func TestLoadProgram_MissingFile(t *testing.T) {
	_, err := LoadProgram(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read program file")
}

func TestParseProgram_NullArgs(t *testing.T) {
	prog, err := ParseProgram([]byte(`
name: bare
steps:
  - ProgFinish:
`))
	require.NoError(t, err)
	assert.Empty(t, prog.Steps[0].Args)
}

func TestParseProgram_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: x\nsteps: [{ProgStart: {}}]\nbogus: 1\n", "field bogus not found"},
		{"missing name", "steps: [{ProgStart: {}}]\n", "name is required"},
		{"no steps", "name: x\n", "steps list is required"},
		{"unknown instruction", "name: x\nsteps: [{Teleport: {}}]\n", `unknown instruction "Teleport"`},
		{"two keys", "name: x\nsteps: [{ProgStart: {}, ProgFinish: {}}]\n", "single-key mapping"},
		{"unknown argument", "name: x\nsteps: [{Pause: {seconds: 1}}]\n", `Pause has no argument "seconds"`},
		{"line_order one text", "name: x\nsteps: [{ProgStart: {}}]\nassertions: [{type: line_order, texts: [a]}]\n", "at least 2 texts"},
		{"line_contains no text", "name: x\nsteps: [{ProgStart: {}}]\nassertions: [{type: line_contains}]\n", "requires text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProgram([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestProgramFilesParse(t *testing.T) {
	files, err := filepath.Glob("testdata/programs/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			data, err := os.ReadFile(f)
			require.NoError(t, err)
			_, err = ParseProgram(data)
			require.NoError(t, err)
		})
	}
}
