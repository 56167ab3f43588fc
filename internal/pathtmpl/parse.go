package pathtmpl

const (
	escapeChar = '$'
	funcChar   = '%'
	groupOpen  = '{'
	groupClose = '}'
	argSep     = ','
)

type parser struct {
	src string
	pos int
}

// parseExpr consumes text until the end of input or, inside a function
// argument, until an unescaped argument separator or closing brace.
func (p *parser) parseExpr(inArg bool) []node {
	var (
		nodes []node
		lit   []byte
	)
	flush := func() {
		if len(lit) > 0 {
			nodes = append(nodes, node{kind: literalNode, text: string(lit)})
			lit = lit[:0]
		}
	}

	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if inArg && (c == argSep || c == groupClose) {
			break
		}
		switch c {
		case escapeChar:
			if n, ok := p.parseField(); ok {
				flush()
				nodes = append(nodes, n)
				continue
			}
			if p.pos+1 < len(p.src) && isEscapable(p.src[p.pos+1]) {
				lit = append(lit, p.src[p.pos+1])
				p.pos += 2
				continue
			}
			lit = append(lit, c)
			p.pos++
		case funcChar:
			if n, ok := p.parseCall(); ok {
				flush()
				nodes = append(nodes, n)
				continue
			}
			lit = append(lit, c)
			p.pos++
		default:
			lit = append(lit, c)
			p.pos++
		}
	}
	flush()
	return nodes
}

// parseField reads $name or ${name} at the current position.
func (p *parser) parseField() (node, bool) {
	start := p.pos
	i := start + 1
	if i < len(p.src) && p.src[i] == groupOpen {
		end := i + 1
		for end < len(p.src) && isIdent(p.src[end]) {
			end++
		}
		if end == i+1 || end >= len(p.src) || p.src[end] != groupClose {
			return node{}, false
		}
		p.pos = end + 1
		return node{kind: fieldNode, text: p.src[i+1 : end], raw: p.src[start:p.pos]}, true
	}
	end := i
	for end < len(p.src) && isIdent(p.src[end]) {
		end++
	}
	if end == i {
		return node{}, false
	}
	p.pos = end
	return node{kind: fieldNode, text: p.src[i:end], raw: p.src[start:end]}, true
}

// parseCall reads %name{arg,...} at the current position. An unterminated
// call leaves the position untouched.
func (p *parser) parseCall() (node, bool) {
	start := p.pos
	i := start + 1
	end := i
	for end < len(p.src) && isIdent(p.src[end]) {
		end++
	}
	if end == i || end >= len(p.src) || p.src[end] != groupOpen {
		return node{}, false
	}
	name := p.src[i:end]

	p.pos = end + 1
	var args [][]node
	for {
		args = append(args, p.parseExpr(true))
		if p.pos >= len(p.src) {
			p.pos = start
			return node{}, false
		}
		if p.src[p.pos] == argSep {
			p.pos++
			continue
		}
		p.pos++ // groupClose
		break
	}
	return node{kind: callNode, text: name, raw: p.src[start:p.pos], args: args}, true
}

func isIdent(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isEscapable(c byte) bool {
	switch c {
	case escapeChar, funcChar, groupClose, argSep:
		return true
	}
	return false
}
