package filter

import (
	"strings"
)

// Parse turns a filter expression into a tree. "and" binds tighter than
// "or"; parentheses group. Combinators may also be written as & && | ||.
// A blank expression parses to nil, meaning no filter.
//
//	expr       := and { or and }
//	and        := primary { and primary }
//	primary    := "(" expr ")" | column op value
//	column     := `quoted` | text up to an operator
//	value      := "quoted" | 'quoted' | text up to a combinator, operator, ")" or end
func Parse(expr string) (Expr, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	p := &parser{src: expr}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, errorf(expr, p.pos, "unexpected %q", p.snippet())
	}
	return e, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte { return p.src[p.pos] }

func (p *parser) skipSpace() {
	for !p.eof() && isSpace(p.peek()) {
		p.pos++
	}
}

func (p *parser) snippet() string {
	s := p.src[p.pos:]
	if len(s) > 12 {
		s = s[:12] + "…"
	}
	return s
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.combinator("or", '|') {
			return left, nil
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		if !p.combinator("and", '&') {
			return left, nil
		}
		right, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
}

// combinator consumes word (any case) or its one or two character symbol.
func (p *parser) combinator(word string, sym byte) bool {
	rest := p.src[p.pos:]
	switch {
	case strings.HasPrefix(rest, string([]byte{sym, sym})):
		p.pos += 2
		return true
	case strings.HasPrefix(rest, string(sym)):
		p.pos++
		return true
	case keywordAt(rest, word):
		p.pos += len(word)
		return true
	}
	return false
}

func (p *parser) parsePrimary() (Expr, error) {
	p.skipSpace()
	if p.eof() {
		return nil, errorf(p.src, p.pos, "expected comparison")
	}
	if p.peek() == '(' {
		open := p.pos
		p.pos++
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.eof() || p.peek() != ')' {
			return nil, errorf(p.src, open, "missing closing parenthesis")
		}
		p.pos++
		return e, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	start := p.pos
	col, err := p.parseColumn()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	op, ok := p.parseOp()
	if !ok {
		return nil, errorf(p.src, p.pos, "expected comparison operator after %q", col)
	}
	p.skipSpace()
	val, quoted, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return &Comparison{Column: col, Op: op, Value: val, Quoted: quoted, Pos: start}, nil
}

func (p *parser) parseColumn() (string, error) {
	start := p.pos
	if p.peek() == '`' {
		end := strings.IndexByte(p.src[p.pos+1:], '`')
		if end < 0 {
			return "", errorf(p.src, start, "unterminated column name")
		}
		name := p.src[p.pos+1 : p.pos+1+end]
		p.pos += end + 2
		if strings.TrimSpace(name) == "" {
			return "", errorf(p.src, start, "expected column name")
		}
		return name, nil
	}
	for !p.eof() && !strings.ContainsRune("=!<>&|()", rune(p.peek())) {
		p.pos++
	}
	name := strings.TrimSpace(p.src[start:p.pos])
	if name == "" {
		return "", errorf(p.src, start, "expected column name")
	}
	return name, nil
}

func (p *parser) parseOp() (Op, bool) {
	rest := p.src[p.pos:]
	for _, c := range []struct {
		tok string
		op  Op
	}{
		{"==", Eq}, {"!=", Ne}, {"<=", Le}, {">=", Ge},
		{"=", Eq}, {"<", Lt}, {">", Gt},
	} {
		if strings.HasPrefix(rest, c.tok) {
			p.pos += len(c.tok)
			return c.op, true
		}
	}
	return 0, false
}

func (p *parser) parseValue() (string, bool, error) {
	if p.eof() {
		return "", false, errorf(p.src, p.pos, "expected value")
	}
	if q := p.peek(); q == '"' || q == '\'' {
		start := p.pos
		p.pos++
		var b strings.Builder
		for !p.eof() {
			c := p.peek()
			switch {
			case c == '\\' && p.pos+1 < len(p.src):
				b.WriteByte(p.src[p.pos+1])
				p.pos += 2
			case c == q:
				p.pos++
				return b.String(), true, nil
			default:
				b.WriteByte(c)
				p.pos++
			}
		}
		return "", false, errorf(p.src, start, "unterminated string")
	}
	start := p.pos
	for !p.eof() {
		c := p.peek()
		// comparison characters end a bare value so a missing
		// combinator is reported instead of swallowed
		if strings.IndexByte("&|)=<>", c) >= 0 {
			break
		}
		if isSpace(c) {
			j := p.pos
			for j < len(p.src) && isSpace(p.src[j]) {
				j++
			}
			if keywordAt(p.src[j:], "and") || keywordAt(p.src[j:], "or") {
				break
			}
		}
		p.pos++
	}
	val := strings.TrimSpace(p.src[start:p.pos])
	if val == "" {
		return "", false, errorf(p.src, start, "expected value")
	}
	return val, false, nil
}

// keywordAt reports whether s starts with word as a whole word.
func keywordAt(s, word string) bool {
	if len(s) < len(word) || !strings.EqualFold(s[:len(word)], word) {
		return false
	}
	if len(s) == len(word) {
		return true
	}
	c := s[len(word)]
	return isSpace(c) || c == '(' || c == '`'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
