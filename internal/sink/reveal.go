package sink

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Reveal opens path in viewer, or in the platform default application when
// viewer is empty. It does not wait for the viewer to exit.
//
// The returned error is informational: a viewer that fails to launch must
// not fail the save that produced the file.
func Reveal(path, viewer string) error {
	var cmd *exec.Cmd
	if viewer != "" {
		cmd = exec.Command(viewer, path)
	} else {
		cmd = defaultOpener(path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("reveal %s: %w", path, err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func defaultOpener(path string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path)
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return exec.Command("xdg-open", path)
	}
}
