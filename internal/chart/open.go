package chart

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenImage asks the host OS to open the image with its default viewer.
// Best effort: the viewer is started, not waited for.
func OpenImage(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open image viewer: %w", err)
	}
	return nil
}
