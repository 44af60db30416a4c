//go:build windows

package ui

import "os/exec"

// revealInFileManager opens the given directory in Windows Explorer
func revealInFileManager(path string) error {
	cmd := exec.Command("explorer.exe", path)
	return cmd.Start()
}
