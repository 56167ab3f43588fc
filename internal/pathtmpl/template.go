package pathtmpl

import (
	"strings"
)

const (
	// AlbumPathField is the reserved field holding the album root directory.
	AlbumPathField = "albumpath"
	// MissingAlbumPath is substituted for $albumpath when the field map
	// lacks it.
	MissingAlbumPath = "."
)

type nodeKind int

const (
	literalNode nodeKind = iota
	fieldNode
	callNode
)

type node struct {
	kind nodeKind
	text string // literal text, field name or function name
	raw  string // source text of a field reference or call
	args [][]node
}

// Template is a parsed path template. It is immutable and safe for
// concurrent use.
type Template struct {
	source string
	nodes  []node
}

// Parse parses src. It never fails.
func Parse(src string) *Template {
	p := parser{src: src}
	return &Template{source: src, nodes: p.parseExpr(false)}
}

// Source returns the template text.
func (t *Template) Source() string {
	return t.source
}

// Fields returns the distinct field names referenced by the template, in
// order of first appearance.
func (t *Template) Fields() []string {
	seen := map[string]struct{}{}
	var out []string
	var walk func([]node)
	walk = func(nodes []node) {
		for _, n := range nodes {
			switch n.kind {
			case fieldNode:
				if _, ok := seen[n.text]; !ok {
					seen[n.text] = struct{}{}
					out = append(out, n.text)
				}
			case callNode:
				for _, arg := range n.args {
					walk(arg)
				}
			}
		}
	}
	walk(t.nodes)
	return out
}

// Substitute renders the template against fields. Values of fields other
// than albumpath are sanitized so they cannot add path separators.
func (t *Template) Substitute(fields map[string]any) string {
	var b strings.Builder
	render(&b, t.nodes, fields)
	return b.String()
}

// Substitute parses and renders src in one step.
func Substitute(src string, fields map[string]any) string {
	return Parse(src).Substitute(fields)
}

func render(b *strings.Builder, nodes []node, fields map[string]any) {
	for _, n := range nodes {
		switch n.kind {
		case literalNode:
			b.WriteString(n.text)
		case fieldNode:
			value, ok := lookup(fields, n.text)
			if !ok {
				b.WriteString(n.raw)
				continue
			}
			b.WriteString(value)
		case callNode:
			fn, ok := functions[n.text]
			if !ok {
				b.WriteString(n.raw)
				continue
			}
			args := make([]string, len(n.args))
			for i, arg := range n.args {
				var ab strings.Builder
				render(&ab, arg, fields)
				args[i] = ab.String()
			}
			out, ok := fn(args)
			if !ok {
				b.WriteString(n.raw)
				continue
			}
			b.WriteString(out)
		}
	}
}

func lookup(fields map[string]any, name string) (string, bool) {
	value, ok := fields[name]
	if name == AlbumPathField {
		if !ok {
			return MissingAlbumPath, true
		}
		return FormatValue(value), true
	}
	if !ok {
		return "", false
	}
	return sanitize(FormatValue(value)), true
}
