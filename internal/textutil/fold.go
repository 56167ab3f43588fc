package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var letterFolds = map[rune]string{
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'ø': "o", 'Ø': "O",
	'œ': "oe", 'Œ': "OE", 'ł': "l", 'Ł': "L", 'đ': "d",
	'Đ': "D", 'þ': "th", 'Þ': "Th", 'ð': "d", 'Ð': "D",
}

// Asciify strips diacritics and transliterates common Latin ligatures.
// Characters with no ASCII approximation are dropped.
func Asciify(value string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(chain, value)
	if err != nil {
		stripped = value
	}
	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		default:
			if fold, ok := letterFolds[r]; ok {
				b.WriteString(fold)
			}
		}
	}
	return b.String()
}

// Title capitalizes each word using language-neutral casing rules.
func Title(value string) string {
	return cases.Title(language.Und).String(value)
}
