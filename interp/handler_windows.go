//go:build windows

package interp

import (
	"os"
	"os/exec"
)

// prepareCommand is a no-op on Windows.
func prepareCommand(cmd *exec.Cmd, pgid int) {}

// interruptCommand kills the process, just like killCommand.
func interruptCommand(cmd *exec.Cmd) error {
	return cmd.Process.Signal(os.Kill)
}

// killCommand kills the process itself; no process group is signaled.
func killCommand(cmd *exec.Cmd) error {
	return cmd.Process.Signal(os.Kill)
}
