// Copyright (c) 2017, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

//go:build unix

package interp

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// signalJob delivers sig to every process in the job's process group.
func signalJob(pgid int, sig syscall.Signal) error {
	if pgid <= 0 {
		return nil
	}
	return syscall.Kill(-pgid, sig)
}

// tcsetpgrp grants terminal ownership of f to pgid, letting that process
// group receive keyboard-generated signals such as SIGINT and SIGTSTP.
func tcsetpgrp(f *os.File, pgid int) error {
	if f == nil || pgid <= 0 {
		return nil
	}
	return unix.IoctlSetPointerInt(int(f.Fd()), unix.TIOCSPGRP, pgid)
}

// tcgetpgrp reports the process group currently owning the terminal.
func tcgetpgrp(f *os.File) (int, error) {
	if f == nil {
		return 0, nil
	}
	return unix.IoctlGetInt(int(f.Fd()), unix.TIOCGPGRP)
}

// shellPgid reports the shell process's own process group, used to reclaim
// the terminal once a foreground job finishes or stops.
func shellPgid() int {
	pgid, err := unix.Getpgid(0)
	if err != nil {
		return 0
	}
	return pgid
}

// currentUmask reports the process umask without permanently changing it.
func currentUmask() int {
	mask := syscall.Umask(0)
	syscall.Umask(mask)
	return mask
}

// setUmask installs mask as the process umask and returns the previous one.
func setUmask(mask int) int {
	return syscall.Umask(mask)
}

// killPid sends sig directly to a single process by pid, for "kill" with a
// plain numeric argument rather than a job spec.
func killPid(pid int, sig syscall.Signal) error {
	return syscall.Kill(pid, sig)
}

const (
	sigTerm = syscall.SIGTERM
	sigCont = syscall.SIGCONT
	sigStop = syscall.SIGSTOP
	sigTstp = syscall.SIGTSTP
)

var signalByName = map[string]syscall.Signal{
	"HUP": syscall.SIGHUP, "INT": syscall.SIGINT, "QUIT": syscall.SIGQUIT,
	"ILL": syscall.SIGILL, "TRAP": syscall.SIGTRAP, "ABRT": syscall.SIGABRT,
	"KILL": syscall.SIGKILL, "BUS": syscall.SIGBUS, "FPE": syscall.SIGFPE,
	"SEGV": syscall.SIGSEGV, "PIPE": syscall.SIGPIPE, "ALRM": syscall.SIGALRM,
	"TERM": syscall.SIGTERM, "USR1": syscall.SIGUSR1, "USR2": syscall.SIGUSR2,
	"CHLD": syscall.SIGCHLD, "CONT": syscall.SIGCONT, "STOP": syscall.SIGSTOP,
	"TSTP": syscall.SIGTSTP, "TTIN": syscall.SIGTTIN, "TTOU": syscall.SIGTTOU,
	"WINCH": syscall.SIGWINCH, "URG": syscall.SIGURG,
}
