// Package nametmpl parses REG cells that may carry range-expansion
// shorthand, e.g. "ch{n}_ctrl, n=range(4)" or "irq{i} i = 8 ~ 15".
package nametmpl

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/vk/irgen/internal/model"
)

var (
	clauseRe      = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)
	placeholderRe = regexp.MustCompile(`\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}`)
	rangeCallRe   = regexp.MustCompile(`^range\s*\(\s*([^,()]*?)\s*(?:,\s*([^,()]*?)\s*(?:,\s*([^,()]*?)\s*)?)?\)$`)
	boundedRe     = regexp.MustCompile(`^([^~\s]+)\s*~\s*([^~\s]+)$`)
	countRe       = regexp.MustCompile(`^\d+$`)
	emptyArgRe    = regexp.MustCompile(`[(,]\s*[,)]`)
)

// Parse turns a REG cell into a NameTemplate. Failures are *model.Error of
// kind MalformedRangeSpec without a cell reference; callers attach one.
func Parse(cell string) (model.NameTemplate, error) {
	raw := strings.TrimSpace(cell)
	tpl := model.NameTemplate{Raw: cell, Template: raw}

	var ident, clause string
	if loc := clauseRe.FindStringSubmatchIndex(raw); loc != nil {
		ident = raw[loc[2]:loc[3]]
		clause = strings.TrimSpace(raw[loc[4]:loc[5]])
		tpl.Template = strings.TrimRight(strings.TrimSpace(raw[:loc[0]]), ", \t")
	}

	matches := placeholderRe.FindAllStringSubmatch(tpl.Template, -1)
	switch {
	case len(matches) > 1:
		return tpl, malformed(cell, "at most one placeholder is supported, found %d", len(matches))
	case strings.Count(tpl.Template, "{") != len(matches) || strings.Count(tpl.Template, "}") != len(matches):
		return tpl, malformed(cell, "unbalanced or invalid placeholder braces")
	case len(matches) == 0 && ident == "":
		return tpl, nil
	case len(matches) == 0:
		return tpl, malformed(cell, "range clause %q has no matching placeholder", ident)
	case ident == "":
		return tpl, malformed(cell, "placeholder {%s} has no range clause", matches[0][1])
	case matches[0][1] != ident:
		return tpl, malformed(cell, "placeholder {%s} does not match range variable %q", matches[0][1], ident)
	}

	spec, err := parseClause(clause)
	if err != nil {
		return tpl, malformed(cell, "%s", err.Error())
	}
	if err := spec.Validate(); err != nil {
		return tpl, malformed(cell, "%s", err.Error())
	}

	tpl.Placeholder = ident
	tpl.Template = placeholderRe.ReplaceAllString(tpl.Template, "{"+ident+"}")
	tpl.Range = &spec
	return tpl, nil
}

type clauseError string

func (e clauseError) Error() string { return string(e) }

func parseClause(clause string) (model.RangeSpec, error) {
	if m := rangeCallRe.FindStringSubmatch(clause); m != nil {
		if emptyArgRe.MatchString(clause) {
			return model.RangeSpec{}, clauseError("range() has an empty argument")
		}
		args := make([]int, 0, 3)
		for i, s := range m[1:] {
			if s == "" && i > 0 {
				break
			}
			v, err := strconv.Atoi(s)
			if err != nil {
				return model.RangeSpec{}, clauseError("range argument " + strconv.Quote(s) + " is not an integer")
			}
			args = append(args, v)
		}
		switch len(args) {
		case 1:
			if args[0] < 0 {
				return model.RangeSpec{}, clauseError("range count must be a non-negative integer")
			}
			return model.Enumerated(args[0]), nil
		case 2:
			if args[0] >= args[1] {
				return model.RangeSpec{}, clauseError("range(" + strconv.Itoa(args[0]) + ", " + strconv.Itoa(args[1]) + ") is empty")
			}
			return model.Bounded(args[0], args[1]-1), nil
		default:
			return model.Stepped(args[0], args[1], args[2]), nil
		}
	}

	if m := boundedRe.FindStringSubmatch(clause); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo != nil || errHi != nil {
			return model.RangeSpec{}, clauseError("bounds of " + strconv.Quote(clause) + " must be integers")
		}
		return model.Bounded(lo, hi), nil
	}

	if countRe.MatchString(clause) {
		n, err := strconv.Atoi(clause)
		if err != nil {
			return model.RangeSpec{}, clauseError("count " + strconv.Quote(clause) + " is out of range")
		}
		return model.Enumerated(n), nil
	}

	return model.RangeSpec{}, clauseError("unrecognised range clause " + strconv.Quote(clause) + ", expected range(k) or lo~hi")
}

func malformed(cell string, format string, args ...any) *model.Error {
	return model.Errorf(model.KindMalformedRangeSpec, model.Ref{}, format, args...).WithValue(cell)
}
