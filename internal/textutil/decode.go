package textutil

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

// DecodeName converts a raw filesystem name to text. Invalid UTF-8 sequences
// are replaced with U+FFFD instead of failing, and the result is NFC
// normalized so names written by NFD filesystems compare equal to patterns
// typed as composed characters.
func DecodeName(raw []byte) string {
	if utf8.Valid(raw) {
		return norm.NFC.String(string(raw))
	}
	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		return norm.NFC.String(string([]rune(string(raw))))
	}
	return norm.NFC.String(string(decoded))
}

// NormalizeName returns s in NFC form.
func NormalizeName(s string) string {
	return norm.NFC.String(s)
}
