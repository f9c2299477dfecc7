// Copyright (c) 2017, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

//go:build !unix

package interp

import (
	"os"
	"syscall"
)

// signalJob is a no-op: process groups aren't a portable concept outside Unix.
func signalJob(pgid int, sig syscall.Signal) error { return nil }

// tcsetpgrp is a no-op outside Unix.
func tcsetpgrp(f *os.File, pgid int) error { return nil }

// tcgetpgrp is a no-op outside Unix.
func tcgetpgrp(f *os.File) (int, error) { return 0, nil }

// shellPgid is a no-op outside Unix.
func shellPgid() int { return 0 }

// currentUmask is a no-op outside Unix; there is no POSIX umask concept.
func currentUmask() int { return 0 }

// setUmask is a no-op outside Unix.
func setUmask(mask int) int { return 0 }

// killPid sends sig to a single process by pid.
func killPid(pid int, sig syscall.Signal) error {
	p, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return p.Signal(sig)
}

// Job-control signals beyond SIGINT/SIGKILL/SIGTERM have no portable meaning
// outside Unix; sigCont/sigStop/sigTstp are never actually sent since
// signalJob above is a no-op.
const (
	sigTerm = syscall.SIGTERM
	sigCont = syscall.Signal(0)
	sigStop = syscall.Signal(0)
	sigTstp = syscall.Signal(0)
)

var signalByName = map[string]syscall.Signal{
	"INT": syscall.SIGINT, "KILL": syscall.SIGKILL, "TERM": syscall.SIGTERM,
}
