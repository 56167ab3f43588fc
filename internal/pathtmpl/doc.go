// Package pathtmpl parses and renders destination path templates.
//
// Templates use the beets path format: $field and ${field} interpolate album
// metadata, %func{arg,...} calls one of a small set of string functions, and
// $$, $%, $} and $, produce the literal character. $albumpath names the album
// root directory. Parsing never fails; anything that does not form a valid
// reference or call is kept as literal text, and references to unknown
// fields or functions render verbatim.
package pathtmpl
