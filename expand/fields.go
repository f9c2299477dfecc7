// Copyright (c) 2017, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

package expand

import (
	"context"
	"fmt"
	"os/user"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kamet-sh/posh/syntax"
)

type fieldPart struct {
	val   string
	quote quoteLevel
}

type quoteLevel uint

const (
	quoteNone quoteLevel = iota
	quoteDouble
	quoteSingle
)

func fieldJoin(parts []fieldPart) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0].val
	}
	var buf strings.Builder
	for _, part := range parts {
		buf.WriteString(part.val)
	}
	return buf.String()
}

func escapedGlobField(parts []fieldPart) (escaped string, glob bool) {
	var buf strings.Builder
	for _, part := range parts {
		if part.quote > quoteNone {
			buf.WriteString(syntax.QuotePattern(part.val))
			continue
		}
		buf.WriteString(part.val)
		if syntax.HasPattern(part.val) {
			glob = true
		}
	}
	if glob {
		escaped = buf.String()
	}
	return escaped, glob
}

// Literal expands a single word as if it were within double quotes. It is
// the usual semantics for most default shell expansions, e.g. assignment
// right-hand sides or case-statement words.
func Literal(cfg *Config, word *syntax.Word) (string, error) {
	if word == nil {
		return "", nil
	}
	field, err := cfg.wordField(context.Background(), word.Parts, quoteDouble)
	if err != nil {
		return "", err
	}
	return fieldJoin(field), nil
}

// Document expands a single word as a heredoc body. It currently performs
// exactly the same expansion as [Literal].
func Document(cfg *Config, word *syntax.Word) (string, error) {
	if word == nil {
		return "", nil
	}
	field, err := cfg.wordField(context.Background(), word.Parts, quoteDouble)
	if err != nil {
		return "", err
	}
	return fieldJoin(field), nil
}

// Pattern expands a word to be used as a pattern, such as in a case clause or
// a parameter expansion operator like "${x#pattern}". Parts which came from a
// quoted context are escaped so that they are matched literally.
func Pattern(cfg *Config, word *syntax.Word) (string, error) {
	field, err := cfg.wordField(context.Background(), word.Parts, quoteSingle)
	if err != nil {
		return "", err
	}
	var buf strings.Builder
	for _, part := range field {
		if part.quote > quoteNone {
			buf.WriteString(syntax.QuotePattern(part.val))
		} else {
			buf.WriteString(part.val)
		}
	}
	return buf.String(), nil
}

// Fields expands a number of words as if they were arguments to a simple
// command, performing brace expansion, parameter and command substitution,
// field splitting, and finally filename globbing.
func Fields(cfg *Config, words ...*syntax.Word) ([]string, error) {
	ctx := context.Background()
	cfg.prepareIFS()

	fields := make([]string, 0, len(words))
	dir := cfg.envGet("PWD")
	baseDir := syntax.QuotePattern(dir)
	for _, word := range words {
		for _, expWord := range Braces(word) {
			wfields, err := cfg.wordFields(ctx, expWord.Parts)
			if err != nil {
				return nil, err
			}
			for _, field := range wfields {
				path, doGlob := escapedGlobField(field)
				var matches []string
				abs := filepath.IsAbs(path)
				if doGlob && !cfg.NoGlob && cfg.ReadDir2 != nil {
					if !abs {
						path = filepath.Join(baseDir, path)
					}
					matches = cfg.glob(path)
				}
				if len(matches) == 0 {
					if doGlob && cfg.NullGlob && !cfg.NoGlob && cfg.ReadDir2 != nil {
						continue
					}
					fields = append(fields, fieldJoin(field))
					continue
				}
				for _, match := range matches {
					if !abs {
						endSeparator := strings.HasSuffix(match, string(filepath.Separator))
						match, _ = filepath.Rel(dir, match)
						if endSeparator {
							match += string(filepath.Separator)
						}
					}
					fields = append(fields, match)
				}
			}
		}
	}
	return fields, nil
}

func (cfg *Config) wordField(ctx context.Context, wps []syntax.WordPart, ql quoteLevel) ([]fieldPart, error) {
	var field []fieldPart
	for i, wp := range wps {
		switch x := wp.(type) {
		case *syntax.Lit:
			s := x.Value
			if i == 0 {
				s = cfg.expandUser(s)
			}
			if ql == quoteDouble && strings.Contains(s, "\\") {
				var buf strings.Builder
				for i := 0; i < len(s); i++ {
					b := s[i]
					if b == '\\' && i+1 < len(s) {
						switch s[i+1] {
						case '\n':
							i++
							continue
						case '"', '\\', '$', '`':
							continue
						}
					}
					buf.WriteByte(b)
				}
				s = buf.String()
			}
			field = append(field, fieldPart{val: s})
		case *syntax.SglQuoted:
			fp := fieldPart{quote: quoteSingle, val: x.Value}
			if x.Dollar {
				fp.val, _, _ = Format(cfg, fp.val, nil)
			}
			field = append(field, fp)
		case *syntax.DblQuoted:
			parts, err := cfg.wordField(ctx, x.Parts, quoteDouble)
			if err != nil {
				return nil, err
			}
			for _, part := range parts {
				part.quote = quoteDouble
				field = append(field, part)
			}
		case *syntax.ParamExp:
			str, err := cfg.paramExp(ctx, x)
			if err != nil {
				return nil, err
			}
			field = append(field, fieldPart{val: str})
		case *syntax.CmdSubst:
			str, err := cfg.cmdSubst(ctx, x)
			if err != nil {
				return nil, err
			}
			field = append(field, fieldPart{val: str})
		case *syntax.ProcSubst:
			str, err := cfg.procSubst(x)
			if err != nil {
				return nil, err
			}
			field = append(field, fieldPart{val: str})
		case *syntax.ArithmExp:
			n, err := Arithm(cfg, x.X)
			if err != nil {
				return nil, err
			}
			field = append(field, fieldPart{val: strconv.Itoa(n)})
		case *syntax.ExtGlob:
			field = append(field, fieldPart{val: x.Pattern.Value, quote: quoteSingle})
		default:
			return nil, fmt.Errorf("unhandled word part: %T", x)
		}
	}
	return field, nil
}

func (cfg *Config) cmdSubst(ctx context.Context, cs *syntax.CmdSubst) (string, error) {
	if cfg.CmdSubst == nil {
		return "", fmt.Errorf("command substitution is not supported")
	}
	var buf strings.Builder
	if err := cfg.CmdSubst(&stringWriter{&buf}, cs); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func (cfg *Config) procSubst(ps *syntax.ProcSubst) (string, error) {
	if cfg.ProcSubst == nil {
		return "", fmt.Errorf("process substitution is not supported")
	}
	return cfg.ProcSubst(ps)
}

// stringWriter adapts a strings.Builder to the io.Writer interface expected
// by CmdSubst, without pulling in bytes.Buffer just for this.
type stringWriter struct {
	b *strings.Builder
}

func (w *stringWriter) Write(p []byte) (int, error) {
	return w.b.Write(p)
}

func (cfg *Config) wordFields(ctx context.Context, wps []syntax.WordPart) ([][]fieldPart, error) {
	var fields [][]fieldPart
	var curField []fieldPart
	allowEmpty := false
	flush := func() {
		if len(curField) == 0 {
			return
		}
		fields = append(fields, curField)
		curField = nil
	}
	splitAdd := func(val string) {
		for i, field := range strings.FieldsFunc(val, cfg.ifsRune) {
			if i > 0 {
				flush()
			}
			curField = append(curField, fieldPart{val: field})
		}
	}
	for i, wp := range wps {
		switch x := wp.(type) {
		case *syntax.Lit:
			s := x.Value
			if i == 0 {
				s = cfg.expandUser(s)
			}
			if strings.Contains(s, "\\") {
				var buf strings.Builder
				for i := 0; i < len(s); i++ {
					b := s[i]
					if b == '\\' && i+1 < len(s) {
						i++
						b = s[i]
					}
					buf.WriteByte(b)
				}
				s = buf.String()
			}
			curField = append(curField, fieldPart{val: s})
		case *syntax.SglQuoted:
			allowEmpty = true
			fp := fieldPart{quote: quoteSingle, val: x.Value}
			if x.Dollar {
				fp.val, _, _ = Format(cfg, fp.val, nil)
			}
			curField = append(curField, fp)
		case *syntax.DblQuoted:
			allowEmpty = true
			if len(x.Parts) == 1 {
				if pe, _ := x.Parts[0].(*syntax.ParamExp); pe != nil {
					if elems, ok := cfg.quotedElems(pe); ok {
						for i, elem := range elems {
							if i > 0 {
								flush()
							}
							curField = append(curField, fieldPart{quote: quoteDouble, val: elem})
						}
						continue
					}
				}
			}
			parts, err := cfg.wordField(ctx, x.Parts, quoteDouble)
			if err != nil {
				return nil, err
			}
			for _, part := range parts {
				part.quote = quoteDouble
				curField = append(curField, part)
			}
		case *syntax.ParamExp:
			str, err := cfg.paramExp(ctx, x)
			if err != nil {
				return nil, err
			}
			splitAdd(str)
		case *syntax.CmdSubst:
			str, err := cfg.cmdSubst(ctx, x)
			if err != nil {
				return nil, err
			}
			splitAdd(str)
		case *syntax.ProcSubst:
			str, err := cfg.procSubst(x)
			if err != nil {
				return nil, err
			}
			curField = append(curField, fieldPart{val: str})
		case *syntax.ArithmExp:
			n, err := Arithm(cfg, x.X)
			if err != nil {
				return nil, err
			}
			curField = append(curField, fieldPart{val: strconv.Itoa(n)})
		case *syntax.ExtGlob:
			curField = append(curField, fieldPart{val: x.Pattern.Value, quote: quoteSingle})
		default:
			return nil, fmt.Errorf("unhandled word part: %T", x)
		}
	}
	flush()
	if allowEmpty && len(fields) == 0 {
		fields = append(fields, curField)
	}
	return fields, nil
}

// quotedElems checks if a parameter expansion is exactly ${@} or ${foo[@]},
// returning its individual elements unsplit.
func (cfg *Config) quotedElems(pe *syntax.ParamExp) ([]string, bool) {
	if pe == nil || pe.Excl || pe.Length || pe.Width {
		return nil, false
	}
	if pe.Param.Value == "@" {
		return cfg.Env.Get("@").List, true
	}
	if anyOfLit(pe.Index, "@") == "" {
		return nil, false
	}
	vr := cfg.Env.Get(pe.Param.Value)
	if vr.Kind == Indexed {
		return vr.List, true
	}
	return nil, false
}

func (cfg *Config) expandUser(field string) string {
	if len(field) == 0 || field[0] != '~' {
		return field
	}
	name := field[1:]
	rest := ""
	if i := strings.Index(name, "/"); i >= 0 {
		rest = name[i:]
		name = name[:i]
	}
	if name == "" {
		return cfg.envGet("HOME") + rest
	}
	u, err := user.Lookup(name)
	if err != nil {
		return field
	}
	return u.HomeDir + rest
}

func anyOfLit(v any, vals ...string) string {
	word, _ := v.(*syntax.Word)
	if word == nil || len(word.Parts) != 1 {
		return ""
	}
	lit, ok := word.Parts[0].(*syntax.Lit)
	if !ok {
		return ""
	}
	for _, val := range vals {
		if lit.Value == val {
			return val
		}
	}
	return ""
}

func findAllIndex(pattern, name string, n int) [][]int {
	expr, err := syntax.TranslatePattern(pattern, true)
	if err != nil {
		return nil
	}
	rx := regexp.MustCompile(expr)
	return rx.FindAllStringIndex(name, n)
}

var rxGlobStar = regexp.MustCompile(".*")

func (cfg *Config) glob(pattern string) []string {
	parts := strings.Split(pattern, string(filepath.Separator))
	matches := []string{"."}
	if filepath.IsAbs(pattern) {
		if parts[0] == "" {
			matches[0] = string(filepath.Separator)
		} else {
			matches[0] = parts[0] + string(filepath.Separator)
		}
		parts = parts[1:]
	}
	for _, part := range parts {
		if part == "**" && cfg.GlobStar {
			for i := range matches {
				matches[i] += string(filepath.Separator)
			}
			latest := matches
			for {
				var newMatches []string
				for _, dir := range latest {
					newMatches = cfg.globDir(dir, rxGlobStar, newMatches)
				}
				if len(newMatches) == 0 {
					break
				}
				matches = append(matches, newMatches...)
				latest = newMatches
			}
			continue
		}
		expr, err := syntax.TranslatePattern(part, true)
		if err != nil {
			return nil
		}
		if cfg.NoCaseGlob {
			expr = "(?i)" + expr
		}
		rx := regexp.MustCompile("^" + expr + "$")
		var newMatches []string
		for _, dir := range matches {
			newMatches = cfg.globDir(dir, rx, newMatches)
		}
		matches = newMatches
	}
	return matches
}

func (cfg *Config) globDir(dir string, rx *regexp.Regexp, matches []string) []string {
	if cfg.ReadDir2 == nil {
		return matches
	}
	entries, err := cfg.ReadDir2(dir)
	if err != nil {
		return matches
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		if !strings.HasPrefix(rx.String(), `^\.`) && !strings.HasPrefix(rx.String(), "(?i)^\\.") && name[0] == '.' {
			continue
		}
		if rx.MatchString(name) {
			matches = append(matches, filepath.Join(dir, name))
		}
	}
	return matches
}

// ReadFields splits s into up to n fields using the shell's current IFS,
// mimicking the behaviour of the "read" builtin.
func ReadFields(cfg *Config, s string, n int, raw bool) []string {
	cfg.prepareIFS()
	type pos struct{ start, end int }
	var fpos []pos

	runes := make([]rune, 0, len(s))
	infield := false
	esc := false
	for _, r := range s {
		if infield {
			if cfg.ifsRune(r) && (raw || !esc) {
				fpos[len(fpos)-1].end = len(runes)
				infield = false
			}
		} else {
			if !cfg.ifsRune(r) && (raw || !esc) {
				fpos = append(fpos, pos{start: len(runes), end: -1})
				infield = true
			}
		}
		if r == '\\' {
			if raw || esc {
				runes = append(runes, r)
			}
			esc = !esc
			continue
		}
		runes = append(runes, r)
		esc = false
	}
	if len(fpos) == 0 {
		return nil
	}
	if infield {
		fpos[len(fpos)-1].end = len(runes)
	}

	switch {
	case n == 1:
		fpos[0].start, fpos[0].end = 0, len(runes)
		fpos = fpos[:1]
	case n != -1 && n < len(fpos):
		fpos[n-1].end = fpos[len(fpos)-1].end
		fpos = fpos[:n]
	}

	fields := make([]string, len(fpos))
	for i, p := range fpos {
		fields[i] = string(runes[p.start:p.end])
	}
	return fields
}

// Format implements a subset of the POSIX printf format string semantics,
// used by the "printf" builtin and by $'...' escape expansion.
func Format(cfg *Config, format string, args []string) (string, int, error) {
	var buf strings.Builder
	esc := false
	var fmts []rune
	initialArgs := len(args)

	for _, c := range format {
		switch {
		case esc:
			esc = false
			switch c {
			case 'n':
				buf.WriteRune('\n')
			case 'r':
				buf.WriteRune('\r')
			case 't':
				buf.WriteRune('\t')
			case '\\':
				buf.WriteRune('\\')
			default:
				buf.WriteRune('\\')
				buf.WriteRune(c)
			}
		case len(fmts) > 0:
			switch c {
			case '%':
				buf.WriteByte('%')
				fmts = nil
			case 'c':
				var b byte
				if len(args) > 0 {
					arg := ""
					arg, args = args[0], args[1:]
					if len(arg) > 0 {
						b = arg[0]
					}
				}
				buf.WriteByte(b)
				fmts = nil
			case '+', '-', ' ':
				if len(fmts) > 1 {
					return "", 0, fmt.Errorf("invalid format char: %c", c)
				}
				fmts = append(fmts, c)
			case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
				fmts = append(fmts, c)
			case 's', 'd', 'i', 'u', 'o', 'x':
				arg := ""
				if len(args) > 0 {
					arg, args = args[0], args[1:]
				}
				var farg any = arg
				if c != 's' {
					n, _ := strconv.ParseInt(arg, 0, 0)
					if c == 'i' || c == 'd' {
						farg = int(n)
					} else {
						farg = uint(n)
					}
					if c == 'i' || c == 'u' {
						c = 'd'
					}
				}
				fmts = append(fmts, c)
				fmt.Fprintf(&buf, string(fmts), farg)
				fmts = nil
			default:
				return "", 0, fmt.Errorf("invalid format char: %c", c)
			}
		case c == '\\':
			esc = true
		case args != nil && c == '%':
			fmts = []rune{c}
		default:
			buf.WriteRune(c)
		}
	}
	if len(fmts) > 0 {
		return "", 0, fmt.Errorf("missing format char")
	}
	return buf.String(), initialArgs - len(args), nil
}
