package classify

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// Kind identifies how a pattern string is interpreted.
type Kind int

const (
	KindInvalid Kind = iota
	KindGlob
	KindPathRegex
	KindAnchoredRegex
)

func (k Kind) String() string {
	switch k {
	case KindGlob:
		return "glob"
	case KindPathRegex:
		return "path_regex"
	case KindAnchoredRegex:
		return "anchored_regex"
	default:
		return "invalid"
	}
}

const globMeta = "*?[]"

// Pattern is a compiled classification pattern.
type Pattern struct {
	Raw  string
	Kind Kind
	Err  error

	re *regexp.Regexp
}

// Compile determines the variant of raw and compiles it with globs matching
// case-insensitively. Compilation errors are recorded on the returned
// Pattern, whose Kind is then KindInvalid.
func Compile(raw string) Pattern {
	return compile(raw, false)
}

// CompileCaseSensitive is Compile with globs matching case-sensitively.
// Regex variants are case-insensitive either way.
func CompileCaseSensitive(raw string) Pattern {
	return compile(raw, true)
}

func compile(raw string, globCaseSensitive bool) Pattern {
	p := Pattern{Raw: raw}
	var expr string
	switch {
	case strings.ContainsAny(raw, globMeta) && !strings.HasPrefix(raw, "^"):
		p.Kind = KindGlob
		expr = translateGlob(raw)
		if !globCaseSensitive {
			expr = "(?i)" + expr
		}
	case strings.Contains(raw, "/"):
		p.Kind = KindPathRegex
		expr = "(?i)" + raw
	default:
		p.Kind = KindAnchoredRegex
		expr = "(?i)^(?:" + raw + ")"
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		p.Err = fmt.Errorf("compile %s pattern %q: %w", p.Kind, raw, err)
		p.Kind = KindInvalid
		return p
	}
	p.re = re
	return p
}

// Match reports whether the pattern matches a file. relPath is the file's
// path relative to the album root using forward slashes; glob and anchored
// patterns only see its final element.
func (p Pattern) Match(relPath string) bool {
	if p.re == nil {
		return false
	}
	if p.Kind == KindPathRegex {
		return p.re.MatchString(relPath)
	}
	return p.re.MatchString(path.Base(relPath))
}

// Unreachable reports whether the pattern compiled but can never match: a
// glob is tested against the basename, so one naming a directory is dead.
func (p Pattern) Unreachable() bool {
	return p.Kind == KindGlob && strings.Contains(p.Raw, "/")
}

// Valid reports whether the pattern compiled.
func (p Pattern) Valid() bool {
	return p.Kind != KindInvalid
}
