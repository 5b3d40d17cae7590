// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/aclements/mwplot/data"
)

// SyntaxError is returned by Parse for malformed expressions.
type SyntaxError struct {
	Src string
	Pos int // Byte offset in Src
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%q:%d: %s", e.Src, e.Pos+1, e.Msg)
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokNum
	tokStr
	tokIdent
	tokPunct
)

type token struct {
	kind tokKind
	text string // Identifier name, punctuation, or decoded string
	num  float64
	pos  int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of expression"
	case tokStr:
		return strconv.Quote(t.text)
	}
	return t.text
}

// puncts lists punctuation tokens, longest first.
var puncts = []string{
	"===", "!==",
	"==", "!=", "<=", ">=", "&&", "||",
	"<", ">", "+", "-", "*", "/", "%", "!", "&", "|",
	"(", ")", "[", "]", ",", ".",
}

type parser struct {
	src  string
	toks []token
	pos  int
}

// Parse parses src into an expression tree.
func Parse(src string) (n Node, err error) {
	p := &parser{src: src}
	defer func() {
		err2 := recover()
		if err2, ok := err2.(*SyntaxError); ok {
			n, err = nil, err2
		} else if err2 != nil {
			panic(err2)
		}
	}()
	p.lex()
	n = p.binary(1)
	if t := p.peek(); t.kind != tokEOF {
		p.bad(t.pos, "unexpected %s", t)
	}
	return n, nil
}

// MustParse is like Parse, but panics if src cannot be parsed.
func MustParse(src string) Node {
	n, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return n
}

// bad panics with a SyntaxError at byte offset pos.
func (p *parser) bad(pos int, format string, a ...interface{}) {
	panic(&SyntaxError{p.src, pos, fmt.Sprintf(format, a...)})
}

func (p *parser) lex() {
	src := p.src
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case c >= '0' && c <= '9' || c == '.' && i+1 < len(src) && src[i+1] >= '0' && src[i+1] <= '9':
			j := i
			for j < len(src) && (isDigit(src[j]) || src[j] == '.') {
				j++
			}
			if j < len(src) && (src[j] == 'e' || src[j] == 'E') {
				j++
				if j < len(src) && (src[j] == '+' || src[j] == '-') {
					j++
				}
				for j < len(src) && isDigit(src[j]) {
					j++
				}
			}
			x, err := strconv.ParseFloat(src[i:j], 64)
			if err != nil {
				p.bad(i, "bad number %s", src[i:j])
			}
			p.toks = append(p.toks, token{kind: tokNum, text: src[i:j], num: x, pos: i})
			i = j

		case c == '\'' || c == '"':
			var b strings.Builder
			j := i + 1
			for {
				if j >= len(src) {
					p.bad(i, "unterminated string")
				}
				if src[j] == c {
					break
				}
				if src[j] == '\\' && j+1 < len(src) {
					j++
					switch src[j] {
					case 'n':
						b.WriteByte('\n')
					case 't':
						b.WriteByte('\t')
					default:
						b.WriteByte(src[j])
					}
				} else {
					b.WriteByte(src[j])
				}
				j++
			}
			p.toks = append(p.toks, token{kind: tokStr, text: b.String(), pos: i})
			i = j + 1

		case isIdentStart(rune(c)):
			j := i
			for j < len(src) && (isIdentStart(rune(src[j])) || isDigit(src[j])) {
				j++
			}
			p.toks = append(p.toks, token{kind: tokIdent, text: src[i:j], pos: i})
			i = j

		default:
			punct := ""
			for _, pu := range puncts {
				if strings.HasPrefix(src[i:], pu) {
					punct = pu
					break
				}
			}
			if punct == "" {
				p.bad(i, "unexpected character %q", c)
			}
			p.toks = append(p.toks, token{kind: tokPunct, text: punct, pos: i})
			i += len(punct)
		}
	}
	p.toks = append(p.toks, token{kind: tokEOF, pos: len(src)})
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || r < 0x80 && unicode.IsLetter(r)
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(text string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == text
}

func (p *parser) expect(text string) token {
	t := p.next()
	if t.kind != tokPunct || t.text != text {
		p.bad(t.pos, "want %s, got %s", text, t)
	}
	return t
}

// binary parses a binary expression whose operators all have
// precedence at least minPrec.
func (p *parser) binary(minPrec int) Node {
	x := p.unary()
	for {
		t := p.peek()
		if t.kind == tokIdent && t.text == "in" {
			if precIn < minPrec {
				return x
			}
			p.next()
			x = &In{X: x, Set: p.list()}
			continue
		}
		if t.kind != tokPunct {
			return x
		}
		bop, ok := binaryOps[t.text]
		if !ok || bop.prec < minPrec {
			return x
		}
		p.next()
		y := p.binary(bop.prec + 1)
		x = &Binary{Op: bop.op, X: x, Y: y}
	}
}

func (p *parser) unary() Node {
	switch {
	case p.isPunct("-"):
		p.next()
		x := p.unary()
		if lit, ok := x.(*Literal); ok {
			if v, ok := lit.Val.Float(); ok {
				return &Literal{data.Num(-v)}
			}
		}
		return &Unary{OpNeg, x}
	case p.isPunct("+"):
		p.next()
		return p.unary()
	case p.isPunct("!"):
		p.next()
		return &Unary{OpNot, p.unary()}
	}
	return p.primary()
}

func (p *parser) primary() Node {
	t := p.next()
	switch t.kind {
	case tokNum:
		return &Literal{data.Num(t.num)}
	case tokStr:
		return &Literal{data.Str(t.text)}
	case tokIdent:
		switch t.text {
		case "true":
			return &Literal{data.Boolean(true)}
		case "false":
			return &Literal{data.Boolean(false)}
		case "null":
			return &Literal{data.NullValue}
		case "datum":
			return p.field()
		}
		if p.isPunct("(") {
			return p.call(t)
		}
		if p.isPunct(".") || p.isPunct("[") {
			p.bad(p.peek().pos, "member access on %s is not supported", t.text)
		}
		return &ParamRef{t.text}
	case tokPunct:
		switch t.text {
		case "(":
			x := p.binary(1)
			p.expect(")")
			return x
		case "[":
			p.pos--
			return p.list()
		}
	}
	p.bad(t.pos, "unexpected %s", t)
	return nil
}

// field parses the member access following "datum".
func (p *parser) field() Node {
	t := p.next()
	if t.kind == tokPunct && t.text == "." {
		name := p.next()
		if name.kind != tokIdent {
			p.bad(name.pos, "want field name, got %s", name)
		}
		return &Field{name.text}
	}
	if t.kind == tokPunct && t.text == "[" {
		name := p.next()
		if name.kind != tokStr {
			p.bad(name.pos, "want quoted field name, got %s", name)
		}
		p.expect("]")
		return &Field{name.text}
	}
	p.bad(t.pos, "datum must be followed by a field access")
	return nil
}

func (p *parser) call(name token) Node {
	fn, ok := lookupFunc(name.text)
	if !ok {
		p.bad(name.pos, "undefined function %s", name.text)
	}
	p.expect("(")
	var args []Node
	for !p.isPunct(")") {
		if len(args) > 0 {
			p.expect(",")
		}
		args = append(args, p.binary(1))
	}
	p.expect(")")
	if want := funcs[fn].nargs; len(args) != want {
		p.bad(name.pos, "%s takes %d argument(s), got %d", fn, want, len(args))
	}
	for i, a := range args {
		if _, ok := a.(*List); ok && (fn != FuncIndexOf || i != 0) {
			p.bad(name.pos, "list argument not allowed here")
		}
	}
	return &Call{fn, args}
}

// list parses a bracketed list of literals.
func (p *parser) list() *List {
	p.expect("[")
	l := &List{}
	for !p.isPunct("]") {
		if len(l.Elts) > 0 {
			p.expect(",")
		}
		t := p.peek()
		elt, ok := p.unary().(*Literal)
		if !ok {
			p.bad(t.pos, "list elements must be literals")
		}
		l.Elts = append(l.Elts, elt.Val)
	}
	p.expect("]")
	return l
}
