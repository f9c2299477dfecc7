// Copyright (c) 2017, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

package expand

import (
	"io"
	"io/fs"
	"strings"

	"github.com/kamet-sh/posh/syntax"
)

// Config specifies details about how shell expansion should be performed. The
// zero value is a valid configuration, as long as all the fields that are
// required according to their comment are supplied.
type Config struct {
	// Env is used to fetch and write variables during expansion. Almost all
	// expansions require this field to be non-nil; see [Environ] and
	// [WriteEnviron].
	Env WriteEnviron

	// CmdSubst is used to run a command substitution, such as `$(echo foo)`.
	// If nil, support for command substitution is disabled.
	CmdSubst func(w io.Writer, cs *syntax.CmdSubst) error

	// ProcSubst is used to run a process substitution, such as `<(echo foo)`.
	// If nil, support for process substitution is disabled.
	ProcSubst func(w *syntax.ProcSubst) (string, error)

	// ReadDir2 is used to read a directory's entries during globbing. If nil,
	// globbing is disabled.
	ReadDir2 func(path string) ([]fs.DirEntry, error)

	// NoGlob disables globbing, even when ReadDir2 is set.
	NoGlob bool
	// GlobStar makes globbing support "**" to mean recursive directories.
	GlobStar bool
	// NoCaseGlob makes globbing treat file names case-insensitively.
	NoCaseGlob bool
	// NullGlob makes globbing expand to zero fields when a pattern matches
	// no files, instead of expanding to the pattern itself.
	NullGlob bool
	// NoUnset makes expanding an unset parameter result in an error, much
	// like bash's "set -u".
	NoUnset bool

	ifs      string
	curParam *syntax.ParamExp // the parameter expansion node currently being expanded, for LINENO
}

func (cfg *Config) ifsRune(r rune) bool {
	for _, r2 := range cfg.ifs {
		if r == r2 {
			return true
		}
	}
	return false
}

func (cfg *Config) ifsJoin(strs []string) string {
	sep := ""
	if cfg.ifs != "" {
		sep = cfg.ifs[:1]
	}
	return strings.Join(strs, sep)
}

func (cfg *Config) prepareIFS() {
	vr := cfg.Env.Get("IFS")
	if !vr.IsSet() {
		cfg.ifs = " \t\n"
	} else {
		cfg.ifs = vr.String()
	}
}

func (cfg *Config) envGet(name string) string {
	return cfg.Env.Get(name).String()
}

func (cfg *Config) envSet(name, value string) error {
	return cfg.Env.Set(name, Variable{Set: true, Kind: String, Str: value})
}
