//go:build !windows && !darwin

package ui

import "os/exec"

// revealInFileManager opens the given directory with the desktop's default
// handler
func revealInFileManager(path string) error {
	cmd := exec.Command("xdg-open", path)
	return cmd.Start()
}
