package textutil

import "strings"

// componentReplacer replaces characters that would split or escape a path
// segment when a metadata value is interpolated into a template.
var componentReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	"\x00", "",
)

// SanitizeComponent makes a metadata value safe to use as a single path
// segment. Path separators become underscores, NUL bytes are removed, and a
// value consisting only of dots collapses to an underscore so it cannot
// address a parent directory.
func SanitizeComponent(value string) string {
	value = strings.TrimSpace(componentReplacer.Replace(value))
	if value != "" && strings.Trim(value, ".") == "" {
		return "_"
	}
	return value
}
