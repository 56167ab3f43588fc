package pathtmpl

import (
	"strconv"
	"strings"

	"extrafiles/internal/textutil"
)

// Func implements a template function. Returning false renders the call
// verbatim.
type Func func(args []string) (string, bool)

var functions = map[string]Func{
	"lower":   unary(strings.ToLower),
	"upper":   unary(strings.ToUpper),
	"title":   unary(textutil.Title),
	"asciify": unary(textutil.Asciify),
	"left":    tmplLeft,
	"right":   tmplRight,
	"if":      tmplIf,
}

// Functions returns the names of the supported template functions.
func Functions() []string {
	return []string{"asciify", "if", "left", "lower", "right", "title", "upper"}
}

func unary(fn func(string) string) Func {
	return func(args []string) (string, bool) {
		if len(args) != 1 {
			return "", false
		}
		return fn(args[0]), true
	}
}

func tmplLeft(args []string) (string, bool) {
	s, n, ok := textAndCount(args)
	if !ok {
		return "", false
	}
	r := []rune(s)
	if n < len(r) {
		r = r[:n]
	}
	return string(r), true
}

func tmplRight(args []string) (string, bool) {
	s, n, ok := textAndCount(args)
	if !ok {
		return "", false
	}
	r := []rune(s)
	if n < len(r) {
		r = r[len(r)-n:]
	}
	return string(r), true
}

func textAndCount(args []string) (string, int, bool) {
	if len(args) != 2 {
		return "", 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil || n < 0 {
		return "", 0, false
	}
	return args[0], n, true
}

// tmplIf renders then when cond is truthy, otherwise else (or nothing).
// Empty strings, "false" and integers equal to zero are falsy.
func tmplIf(args []string) (string, bool) {
	if len(args) < 2 || len(args) > 3 {
		return "", false
	}
	if truthy(args[0]) {
		return args[1], true
	}
	if len(args) == 3 {
		return args[2], true
	}
	return "", true
}

func truthy(cond string) bool {
	cond = strings.TrimSpace(cond)
	if n, err := strconv.Atoi(cond); err == nil {
		return n != 0
	}
	return cond != "" && !strings.EqualFold(cond, "false")
}
