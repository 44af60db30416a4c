//go:build darwin

package ui

import "os/exec"

// revealInFileManager opens the given directory in Finder
func revealInFileManager(path string) error {
	cmd := exec.Command("open", path)
	return cmd.Start()
}
