package resolve

import (
	"fmt"
	"strconv"

	"github.com/reoring/sszero/internal/ir"
)

// SyntaxError reports a malformed type expression.
type SyntaxError struct {
	Expr   string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("type expression %q: %s at offset %d", e.Expr, e.Msg, e.Offset)
}

// ParseExpr parses a type expression such as "List[uint64, 16]" or
// "Container{slot: uint64, root: Bytes32}" into its syntax tree. Names are
// not resolved.
func ParseExpr(src string) (ir.Expr, error) {
	p := &parser{src: src}
	p.next()
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %s after expression", p.tok)
	}
	return e, nil
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokInt
	tokPunct
	tokIllegal
)

type token struct {
	kind tokKind
	text string
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokIllegal:
		return fmt.Sprintf("character %q", t.text)
	}
	return fmt.Sprintf("%q", t.text)
}

type parser struct {
	src string
	off int
	tok token
}

func (p *parser) next() {
	for p.off < len(p.src) && isSpace(p.src[p.off]) {
		p.off++
	}
	start := p.off
	if p.off >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}
	c := p.src[p.off]
	switch {
	case isIdentStart(c):
		for p.off < len(p.src) && isIdentPart(p.src[p.off]) {
			p.off++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.off], pos: start}
	case isDigit(c):
		for p.off < len(p.src) && isDigit(p.src[p.off]) {
			p.off++
		}
		p.tok = token{kind: tokInt, text: p.src[start:p.off], pos: start}
	case c == '[' || c == ']' || c == '{' || c == '}' || c == ',' || c == ':':
		p.off++
		p.tok = token{kind: tokPunct, text: string(c), pos: start}
	default:
		p.off++
		p.tok = token{kind: tokIllegal, text: string(c), pos: start}
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Expr: p.src, Offset: p.tok.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(punct string) error {
	if p.tok.kind != tokPunct || p.tok.text != punct {
		return p.errorf("expected %q, found %s", punct, p.tok)
	}
	p.next()
	return nil
}

func (p *parser) is(punct string) bool {
	return p.tok.kind == tokPunct && p.tok.text == punct
}

// expr := ident [ "[" arg { "," arg } "]" ] | "Container" "{" fields "}"
func (p *parser) expr() (ir.Expr, error) {
	if p.tok.kind != tokIdent {
		return nil, p.errorf("expected type name, found %s", p.tok)
	}
	head := p.tok
	p.next()
	if head.text == "Container" && p.is("{") {
		return p.container(head.pos)
	}
	if !p.is("[") {
		return &ir.Name{Ident: head.text, Pos: head.pos}, nil
	}
	p.next()
	g := &ir.Generic{Head: head.text, Pos: head.pos}
	for {
		a, err := p.arg()
		if err != nil {
			return nil, err
		}
		g.Args = append(g.Args, a)
		if p.is(",") {
			p.next()
			continue
		}
		break
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	return g, nil
}

func (p *parser) arg() (ir.Expr, error) {
	if p.tok.kind != tokInt {
		return p.expr()
	}
	n, err := strconv.Atoi(p.tok.text)
	if err != nil {
		return nil, p.errorf("integer %s out of range", p.tok)
	}
	a := &ir.Int{Value: n, Pos: p.tok.pos}
	p.next()
	return a, nil
}

// fields := [ field { "," field } [ "," ] ], field := ident ":" expr
func (p *parser) container(pos int) (ir.Expr, error) {
	p.next() // "{"
	c := &ir.Container{Pos: pos}
	for !p.is("}") {
		if p.tok.kind != tokIdent {
			return nil, p.errorf("expected field name, found %s", p.tok)
		}
		f := ir.Field{Name: p.tok.text, Pos: p.tok.pos}
		p.next()
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		t, err := p.expr()
		if err != nil {
			return nil, err
		}
		f.Type = t
		c.Fields = append(c.Fields, f)
		if !p.is(",") {
			break
		}
		p.next()
	}
	if err := p.expect("}"); err != nil {
		return nil, err
	}
	return c, nil
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isDigit(c byte) bool      { return '0' <= c && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }
