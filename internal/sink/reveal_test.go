package sink

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevealMissingViewer(t *testing.T) {
	err := Reveal("/tmp/whatever.txt", "robopost-no-such-viewer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reveal")
}

func TestRevealStartsViewer(t *testing.T) {
	viewer, err := exec.LookPath("true")
	if err != nil {
		t.Skip("true(1) not available")
	}
	assert.NoError(t, Reveal("/tmp/whatever.txt", viewer))
}

func TestDefaultOpener(t *testing.T) {
	cmd := defaultOpener("/tmp/x.txt")
	require.NotNil(t, cmd)
	assert.Equal(t, "/tmp/x.txt", cmd.Args[len(cmd.Args)-1])
}
