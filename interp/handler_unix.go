//go:build unix

package interp

import (
	"os/exec"
	"syscall"
)

// prepareCommand sets the SysProcAttr for the command to start in its own
// new process group, or, when pgid is nonzero, to join that existing group
// instead. Setting Pgid alongside Setpgid makes the kernel place the child
// into the target group as part of the fork, before it execs, which is the
// only race-free way to do this: once a child has exec'd, a parent can no
// longer move it into a different process group.
func prepareCommand(cmd *exec.Cmd, pgid int) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true, Pgid: pgid}
}

// interruptCommand interrupts the whole process group.
func interruptCommand(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGINT)
}

// killCommand kills the whole process group.
func killCommand(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
