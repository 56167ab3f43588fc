package classify

import (
	"regexp"
	"strings"
)

// translateGlob converts an fnmatch-style glob into an anchored regular
// expression. '*' matches any run of characters including none, '?' one
// character, "[...]" a character class with "[!...]" negation. An
// unterminated '[' is treated as a literal bracket.
func translateGlob(pattern string) string {
	var b strings.Builder
	b.WriteString(`^(?s:`)
	runes := []rune(pattern)
	n := len(runes)
	for i := 0; i < n; {
		c := runes[i]
		i++
		switch c {
		case '*':
			// Consecutive stars are equivalent to one.
			for i < n && runes[i] == '*' {
				i++
			}
			b.WriteString(`.*`)
		case '?':
			b.WriteString(`.`)
		case '[':
			j := i
			if j < n && runes[j] == '!' {
				j++
			}
			if j < n && runes[j] == ']' {
				j++
			}
			for j < n && runes[j] != ']' {
				j++
			}
			if j >= n {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(translateClass(runes[i:j]))
			i = j + 1
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString(`)$`)
	return b.String()
}

func translateClass(body []rune) string {
	negate := false
	if len(body) > 0 && body[0] == '!' {
		negate = true
		body = body[1:]
	}
	var b strings.Builder
	b.WriteByte('[')
	if negate {
		b.WriteByte('^')
	}
	for idx, r := range body {
		switch r {
		case '\\', '[', ']':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '^':
			if idx == 0 && !negate {
				b.WriteString(`\^`)
			} else {
				b.WriteRune(r)
			}
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(']')
	return b.String()
}
