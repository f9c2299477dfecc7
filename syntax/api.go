// Copyright (c) 2016, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

package syntax

import "io"

// LangVariant describes a shell dialect that the parser can be told to
// accept. The grammar in this package is bash-shaped by default; POSIX
// mode tightens it to match POSIX where the two disagree.
type LangVariant int

const (
	// LangBash is the default dialect, matching bash as closely as the
	// core grammar allows.
	LangBash LangVariant = iota
	// LangPOSIX restricts parsing to the POSIX shell command language,
	// rejecting bash-only constructs such as arrays and slicing. Bash
	// keywords such as [[ are not rejected; they parse as command names.
	LangPOSIX
	// LangMirBSDKorn and LangAuto are accepted for API compatibility
	// with shells that support more dialects; this parser treats both
	// the same as LangBash, since mksh-only syntax isn't implemented.
	LangMirBSDKorn
	LangAuto
)

// Parser holds the configuration built up by a chain of ParserOption
// values, plus any internal state the parser keeps across files when
// reused via NewParser.
type Parser struct {
	mode    ParseMode
	variant LangVariant

	// stopAt and recoverErrors are accepted for API compatibility with
	// incremental/interactive parsing front-ends; this implementation
	// always parses to EOF and stops at the first syntax error.
	stopAt        []byte
	recoverErrors int
}

// ParserOption is a function that applies a setting to a Parser
// constructed with NewParser.
type ParserOption func(*Parser)

// NewParser allocates a new Parser and applies any options to it.
func NewParser(options ...ParserOption) *Parser {
	p := &Parser{}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// KeepComments makes the parser attach comments to the AST as *Comment
// nodes, rather than discarding them.
func KeepComments(enabled bool) ParserOption {
	return func(p *Parser) {
		if enabled {
			p.mode |= ParseComments
		} else {
			p.mode &^= ParseComments
		}
	}
}

// Variant changes the shell dialect the parser accepts.
func Variant(l LangVariant) ParserOption {
	return func(p *Parser) {
		p.variant = l
		if l == LangPOSIX {
			p.mode |= PosixConformant
		} else {
			p.mode &^= PosixConformant
		}
	}
}

// StopAt configures a word that, when encountered as a standalone
// token, ends parsing early and reports ErrStopAt. It is accepted for
// compatibility with front-ends that stop at an interactive prompt
// marker; this parser does not yet implement the early-stop behavior.
func StopAt(word string) ParserOption {
	return func(p *Parser) { p.stopAt = []byte(word) }
}

// RecoverErrors sets the maximum number of parse errors to recover
// from and keep collecting, instead of stopping at the first one. It
// is accepted for compatibility; this parser always stops at the
// first error it encounters.
func RecoverErrors(n int) ParserOption {
	return func(p *Parser) { p.recoverErrors = n }
}

// Parse reads the entirety of r and parses it as a shell program named
// name, honoring any options given to NewParser.
func (p *Parser) Parse(r io.Reader, name string) (*File, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(src, name, p.mode)
}

// PrinterOption is a function that applies a setting to a Printer
// constructed with NewPrinter.
type PrinterOption func(*Printer)

// Printer pretty-prints an AST back to shell syntax, honoring the
// formatting knobs set through PrinterOption values.
type Printer struct {
	cfg PrintConfig
}

// NewPrinter allocates a new Printer and applies any options to it.
func NewPrinter(options ...PrinterOption) *Printer {
	pr := &Printer{}
	for _, opt := range options {
		opt(pr)
	}
	return pr
}

// Print writes node to w using the printer's configuration. node may
// be a *File, a *Stmt, a Command, or a *Word.
func (pr *Printer) Print(w io.Writer, node Node) error {
	return pr.cfg.Fprint(w, node)
}

// Indent sets the number of spaces to use per indentation level. A
// value of 0 (the default) uses tabs instead.
func Indent(n uint) PrinterOption {
	return func(pr *Printer) { pr.cfg.Spaces = int(n) }
}

// SpaceRedirects adds a space between a redirection operator and its
// target, e.g. "cat > file" instead of the default "cat >file".
func SpaceRedirects(enabled bool) PrinterOption {
	return func(pr *Printer) { pr.cfg.spaceRedirects = enabled }
}

// SwitchCaseIndent indents "case" clause bodies one extra level past
// their pattern.
func SwitchCaseIndent(enabled bool) PrinterOption {
	return func(pr *Printer) { pr.cfg.switchCaseIndent = enabled }
}

// FunctionNextLine places a function's opening brace on the line
// after its signature, rather than on the same line.
func FunctionNextLine(enabled bool) PrinterOption {
	return func(pr *Printer) { pr.cfg.functionNextLine = enabled }
}

// BinaryNextLine places the operator of a binary command (&&, ||) on
// the line that follows, rather than at the end of the first operand.
func BinaryNextLine(enabled bool) PrinterOption {
	return func(pr *Printer) { pr.cfg.binaryNextLine = enabled }
}

// KeepPadding records whether to keep the original alignment padding
// in front of trailing comments. The printer does not read this
// setting, so the output is the same either way.
func KeepPadding(enabled bool) PrinterOption {
	return func(pr *Printer) { pr.cfg.keepPadding = enabled }
}

// Minify records a request for minified output. The printer does not
// read this setting: comments and formatting are printed as usual.
func Minify(enabled bool) PrinterOption {
	return func(pr *Printer) { pr.cfg.minify = enabled }
}

// SingleLine records a request to print the whole file on one line.
// The printer does not read this setting: statements are separated
// as usual.
func SingleLine(enabled bool) PrinterOption {
	return func(pr *Printer) { pr.cfg.singleLine = enabled }
}
