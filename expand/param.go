// Copyright (c) 2017, Posh Authors <posh@kamet-sh.dev>
// See LICENSE for licensing information

package expand

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kamet-sh/posh/syntax"
)

// UnsetParameterError is returned when a parameter expansion of the form
// "${var:?message}" is triggered on an unset or empty variable.
type UnsetParameterError struct {
	Expr    *syntax.ParamExp
	Message string
}

func (u UnsetParameterError) Error() string {
	return u.Message
}

func (cfg *Config) paramExp(ctx context.Context, pe *syntax.ParamExp) (string, error) {
	oldParam := cfg.curParam
	cfg.curParam = pe
	defer func() { cfg.curParam = oldParam }()

	name := pe.Param.Value
	var index syntax.ArithmExpr
	if pe.Ind != nil {
		index = &pe.Ind.Word
	}
	switch name {
	case "@", "*":
		index = &syntax.Word{Parts: []syntax.WordPart{&syntax.Lit{Value: name}}}
	}
	var vr Variable
	switch name {
	case "LINENO":
		line := uint64(cfg.curParam.Pos().Line())
		vr = Variable{Set: true, Kind: String, Str: strconv.FormatUint(line, 10)}
	default:
		vr = cfg.Env.Get(name)
	}
	if cfg.NoUnset && !vr.IsSet() && pe.Exp == nil {
		return "", UnsetParameterError{Expr: pe, Message: fmt.Sprintf("%s: unbound variable", name)}
	}
	set := vr.IsSet()
	str := cfg.varStr(vr, 0)
	var err error
	if index != nil {
		str, err = cfg.varInd(ctx, vr, index, 0)
		if err != nil {
			return "", err
		}
	}
	slicePos := func(expr syntax.ArithmExpr) (int, error) {
		p, err := Arithm(cfg, expr)
		if err != nil {
			return 0, err
		}
		if p < 0 {
			p = len(str) + p
			if p < 0 {
				p = len(str)
			}
		} else if p > len(str) {
			p = len(str)
		}
		return p, nil
	}
	var elems []string
	if vr.Kind == Indexed {
		elems = append([]string(nil), vr.List...)
	} else {
		elems = []string{str}
	}
	switch {
	case pe.Length:
		n := len(elems)
		if anyOfLit(index, "@", "*") == "" {
			n = utf8.RuneCountInString(str)
		}
		str = strconv.Itoa(n)
	case pe.Slice != nil:
		if len(pe.Slice.Offset.Parts) > 0 {
			offset, err := slicePos(&pe.Slice.Offset)
			if err != nil {
				return "", err
			}
			str = str[offset:]
		}
		if len(pe.Slice.Length.Parts) > 0 {
			length, err := slicePos(&pe.Slice.Length)
			if err != nil {
				return "", err
			}
			if length <= len(str) {
				str = str[:length]
			}
		}
	case pe.Repl != nil:
		orig, err := Pattern(cfg, pe.Repl.Orig)
		if err != nil {
			return "", err
		}
		with, err := Literal(cfg, pe.Repl.With)
		if err != nil {
			return "", err
		}
		n := 1
		if pe.Repl.All {
			n = -1
		}
		locs := findAllIndex(orig, str, n)
		var buf strings.Builder
		last := 0
		for _, loc := range locs {
			buf.WriteString(str[last:loc[0]])
			buf.WriteString(with)
			last = loc[1]
		}
		buf.WriteString(str[last:])
		str = buf.String()
	case pe.Exp != nil:
		arg, err := Literal(cfg, pe.Exp.Word)
		if err != nil {
			return "", err
		}
		switch op := pe.Exp.Op; op {
		case syntax.SubstColAdd:
			if str == "" {
				break
			}
			fallthrough
		case syntax.SubstAdd:
			if set {
				str = arg
			}
		case syntax.SubstSub:
			if set {
				break
			}
			fallthrough
		case syntax.SubstColSub:
			if str == "" {
				str = arg
			}
		case syntax.SubstQuest:
			if set {
				break
			}
			fallthrough
		case syntax.SubstColQuest:
			if str == "" {
				return "", UnsetParameterError{Expr: pe, Message: arg}
			}
		case syntax.SubstAssgn:
			if set {
				break
			}
			fallthrough
		case syntax.SubstColAssgn:
			if str == "" {
				if err := cfg.envSet(name, arg); err != nil {
					return "", err
				}
				str = arg
			}
		case syntax.RemSmallPrefix, syntax.RemLargePrefix,
			syntax.RemSmallSuffix, syntax.RemLargeSuffix:
			suffix := op == syntax.RemSmallSuffix || op == syntax.RemLargeSuffix
			large := op == syntax.RemLargePrefix || op == syntax.RemLargeSuffix
			for i, elem := range elems {
				elems[i] = removePattern(elem, arg, suffix, large)
			}
			str = strings.Join(elems, " ")
		case syntax.UpperFirst, syntax.UpperAll,
			syntax.LowerFirst, syntax.LowerAll:
			caseFunc := unicode.ToLower
			if op == syntax.UpperFirst || op == syntax.UpperAll {
				caseFunc = unicode.ToUpper
			}
			all := op == syntax.UpperAll || op == syntax.LowerAll

			expr, err := syntax.TranslatePattern(arg, false)
			if err != nil {
				return str, nil
			}
			rx := regexp.MustCompile(expr)

			for i, elem := range elems {
				rs := []rune(elem)
				for ri, r := range rs {
					if rx.MatchString(string(r)) {
						rs[ri] = caseFunc(r)
						if !all {
							break
						}
					}
				}
				elems[i] = string(rs)
			}
			str = strings.Join(elems, " ")
		}
	}
	return str, nil
}

func removePattern(str, pattern string, fromEnd, greedy bool) string {
	expr, err := syntax.TranslatePattern(pattern, greedy)
	if err != nil {
		return str
	}
	switch {
	case fromEnd && !greedy:
		expr = ".*(" + expr + ")$"
	case fromEnd:
		expr = "(" + expr + ")$"
	default:
		expr = "^(" + expr + ")"
	}
	rx := regexp.MustCompile(expr)
	if loc := rx.FindStringSubmatchIndex(str); loc != nil {
		str = str[:loc[2]] + str[loc[3]:]
	}
	return str
}

func (cfg *Config) varStr(vr Variable, depth int) string {
	if !vr.Declared() || depth > maxNameRefDepth {
		return ""
	}
	if vr.Kind == NameRef {
		vr = cfg.Env.Get(vr.Str)
		return cfg.varStr(vr, depth+1)
	}
	return vr.String()
}

func (cfg *Config) varInd(ctx context.Context, vr Variable, idx syntax.ArithmExpr, depth int) (string, error) {
	if depth > maxNameRefDepth {
		return "", nil
	}
	switch vr.Kind {
	case NameRef:
		vr = cfg.Env.Get(vr.Str)
		return cfg.varInd(ctx, vr, idx, depth+1)
	case Indexed:
		switch anyOfLit(idx, "@", "*") {
		case "@":
			return strings.Join(vr.List, " "), nil
		case "*":
			return cfg.ifsJoin(vr.List), nil
		}
		i, err := Arithm(cfg, idx)
		if err != nil {
			return "", err
		}
		if i >= 0 && i < len(vr.List) {
			return vr.List[i], nil
		}
		return "", nil
	case Associative:
		if lit := anyOfLit(idx, "@", "*"); lit != "" {
			var strs []string
			keys := make([]string, 0, len(vr.Map))
			for k := range vr.Map {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				strs = append(strs, vr.Map[k])
			}
			if lit == "*" {
				return cfg.ifsJoin(strs), nil
			}
			return strings.Join(strs, " "), nil
		}
		key, err := Literal(cfg, idx.(*syntax.Word))
		if err != nil {
			return "", err
		}
		return vr.Map[key], nil
	default:
		n, err := Arithm(cfg, idx)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return vr.Str, nil
		}
		return "", nil
	}
}
