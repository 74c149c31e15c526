package fixture

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"ilemit/internal/symbols"
)

type typeExpr struct {
	// param is set for !T and !!T.
	param    string
	method   bool
	path     []segment
	suffixes []suffix
}

type segment struct {
	name string
	args []*typeExpr
}

type suffix struct {
	kind symbols.Kind
	// rank is zero for [] and the dimension count for [,] and wider.
	rank int
}

type memberExpr struct {
	owner *typeExpr
	name  string
	args  []*typeExpr
}

func (e *typeExpr) String() string {
	var b strings.Builder
	if e.param != "" {
		b.WriteByte('!')
		if e.method {
			b.WriteByte('!')
		}
		b.WriteString(e.param)
	}
	for i, seg := range e.path {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(seg.name)
		writeArgs(&b, seg.args)
	}
	for _, s := range e.suffixes {
		switch s.kind {
		case symbols.KindArrayType:
			b.WriteByte('[')
			if s.rank > 1 {
				b.WriteString(strings.Repeat(",", s.rank-1))
			}
			b.WriteByte(']')
		case symbols.KindPointerType:
			b.WriteByte('*')
		case symbols.KindByRefType:
			b.WriteByte('&')
		}
	}
	return b.String()
}

func writeArgs(b *strings.Builder, args []*typeExpr) {
	if len(args) == 0 {
		return
	}
	b.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.String())
	}
	b.WriteByte('>')
}

type exprParser struct {
	src string
	pos int
}

func parseTypeExpr(src string) (*typeExpr, error) {
	p := &exprParser{src: src}
	e, err := p.typ()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return e, nil
}

// parseMemberExpr parses Type::name and Type::name<Args>.
func parseMemberExpr(src string) (*memberExpr, error) {
	p := &exprParser{src: src}
	owner, err := p.typ()
	if err != nil {
		return nil, err
	}
	p.space()
	if !strings.HasPrefix(p.src[p.pos:], "::") {
		return nil, p.errorf("expected '::'")
	}
	p.pos += 2
	p.space()
	name, err := p.ident(true)
	if err != nil {
		return nil, err
	}
	m := &memberExpr{owner: owner, name: name}
	if p.peek() == '<' {
		if m.args, err = p.args(); err != nil {
			return nil, err
		}
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return m, nil
}

func (p *exprParser) errorf(format string, args ...any) error {
	return fmt.Errorf("type expression %q at %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *exprParser) peek() byte {
	p.space()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *exprParser) space() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *exprParser) end() error {
	if p.peek() != 0 {
		return p.errorf("unexpected %q", p.src[p.pos:])
	}
	return nil
}

func (p *exprParser) typ() (*typeExpr, error) {
	e := &typeExpr{}
	if p.peek() == '!' {
		p.pos++
		if p.peek() == '!' {
			p.pos++
			e.method = true
		}
		name, err := p.ident(false)
		if err != nil {
			return nil, err
		}
		e.param = name
	} else {
		for {
			name, err := p.ident(false)
			if err != nil {
				return nil, err
			}
			seg := segment{name: name}
			if p.peek() == '<' {
				if seg.args, err = p.args(); err != nil {
					return nil, err
				}
			}
			e.path = append(e.path, seg)
			if p.peek() != '.' {
				break
			}
			p.pos++
		}
	}
	for {
		switch p.peek() {
		case '[':
			p.pos++
			rank := 1
			for p.peek() == ',' {
				p.pos++
				rank++
			}
			if p.peek() != ']' {
				return nil, p.errorf("expected ']'")
			}
			p.pos++
			if rank == 1 {
				rank = 0
			}
			e.suffixes = append(e.suffixes, suffix{kind: symbols.KindArrayType, rank: rank})
		case '*':
			p.pos++
			e.suffixes = append(e.suffixes, suffix{kind: symbols.KindPointerType})
		case '&':
			p.pos++
			e.suffixes = append(e.suffixes, suffix{kind: symbols.KindByRefType})
		default:
			return e, nil
		}
	}
}

func (p *exprParser) args() ([]*typeExpr, error) {
	p.pos++ // '<'
	var out []*typeExpr
	for {
		arg, err := p.typ()
		if err != nil {
			return nil, err
		}
		out = append(out, arg)
		switch p.peek() {
		case ',':
			p.pos++
		case '>':
			p.pos++
			return out, nil
		default:
			return nil, p.errorf("expected ',' or '>'")
		}
	}
}

// ident reads an identifier. Member names may start with a dot, as in .ctor.
func (p *exprParser) ident(member bool) (string, error) {
	p.space()
	start := p.pos
	if member && p.pos < len(p.src) && p.src[p.pos] == '.' {
		p.pos++
	}
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r != '_' && r != '`' && !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) {
			break
		}
		p.pos += size
	}
	if p.pos == start || (member && p.pos == start+1 && p.src[start] == '.') {
		return "", p.errorf("expected identifier")
	}
	return norm.NFC.String(p.src[start:p.pos]), nil
}
