// Copyright (c) 2017, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

// Package coreutils provides an [interp.ExecHandlerFunc] middleware that
// serves a handful of common utilities (cat, ls, rm, and friends) from
// bundled Go implementations rather than the host PATH.
//
// This exists mainly for Windows, where none of these tools ship with the
// OS, but it is equally usable as a sandboxed command set: a caller can wire
// it in front of (or instead of) [interp.DefaultExecHandler] to run a script
// without depending on whatever happens to be installed on $PATH.
package coreutils

import (
	"context"
	"runtime"

	"github.com/u-root/u-root/pkg/core"
	"github.com/u-root/u-root/pkg/core/base64"
	"github.com/u-root/u-root/pkg/core/cat"
	"github.com/u-root/u-root/pkg/core/chmod"
	"github.com/u-root/u-root/pkg/core/cp"
	"github.com/u-root/u-root/pkg/core/find"
	"github.com/u-root/u-root/pkg/core/gzip"
	"github.com/u-root/u-root/pkg/core/ls"
	"github.com/u-root/u-root/pkg/core/mkdir"
	"github.com/u-root/u-root/pkg/core/mktemp"
	"github.com/u-root/u-root/pkg/core/mv"
	"github.com/u-root/u-root/pkg/core/rm"
	"github.com/u-root/u-root/pkg/core/shasum"
	"github.com/u-root/u-root/pkg/core/tar"
	"github.com/u-root/u-root/pkg/core/touch"
	"github.com/u-root/u-root/pkg/core/xargs"

	"github.com/kamet-sh/posh/interp"
)

// builders constructs a fresh [core.Command] per invocation; u-root commands
// carry per-run flag state, so they can't be shared across calls.
var builders = map[string]func() core.Command{
	"cat":    func() core.Command { return cat.New() },
	"chmod":  func() core.Command { return chmod.New() },
	"cp":     func() core.Command { return cp.New() },
	"find":   func() core.Command { return find.New() },
	"ls":     func() core.Command { return ls.New() },
	"mkdir":  func() core.Command { return mkdir.New() },
	"mv":     func() core.Command { return mv.New() },
	"rm":     func() core.Command { return rm.New() },
	"touch":  func() core.Command { return touch.New() },
	"xargs":  func() core.Command { return xargs.New() },
	"base64": func() core.Command { return base64.New() },
	"gzcat":  func() core.Command { return gzip.New("gzcat") },
	"gzip":   func() core.Command { return gzip.New("gzip") },
	"gunzip": func() core.Command { return gzip.New("gunzip") },
	"mktemp": func() core.Command { return mktemp.New() },
	"shasum": func() core.Command { return shasum.New() },
	"tar":    func() core.Command { return tar.New() },
}

// ExecHandler returns a middleware that serves the commands in builders from
// their bundled implementation, falling through to next for everything else.
//
// Because it takes priority over whatever the host PATH provides, callers
// that also want the system's own cat/ls/rm should only install this when it
// actually helps, e.g. with [OnlyOnWindows].
func ExecHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		name, rest := args[0], args[1:]
		newCmd, ok := builders[name]
		if !ok {
			return next(ctx, args)
		}

		hc := interp.HandlerCtx(ctx)
		cmd := newCmd()
		cmd.SetIO(hc.Stdin, hc.Stdout, hc.Stderr)
		cmd.SetWorkingDir(hc.Dir)
		cmd.SetLookupEnv(func(key string) (string, bool) {
			v := hc.Env.Get(key)
			return v.Str, v.Set
		})
		return cmd.RunContext(ctx, rest...)
	}
}

// OnlyOnWindows wraps mw so it is only consulted when running on Windows,
// leaving Unix-likes to use their own, presumably more complete, coreutils.
func OnlyOnWindows(mw func(interp.ExecHandlerFunc) interp.ExecHandlerFunc) func(interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	if runtime.GOOS != "windows" {
		return func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc { return next }
	}
	return mw
}
