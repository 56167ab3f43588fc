// Package classify maps ancillary album files to user-defined categories.
//
// Each configured pattern is compiled once into a tagged variant: a shell
// glob tested against the basename, a case-insensitive regular expression
// searched in the album-relative path (patterns that mention a directory
// separator), or a case-insensitive regular expression anchored at the start
// of the basename. Globs ignore case unless WithCaseSensitiveGlobs is set.
// Categories are tried in configured order and the first matching pattern
// wins. Patterns that fail to compile are reported once through the logger
// and never match.
package classify
