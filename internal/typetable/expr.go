package typetable

import (
	"fmt"
	"strconv"
	"strings"
)

// dimKind classifies one bracketed array dimension.
type dimKind uint8

const (
	dimAbsent   dimKind = iota // []
	dimConst                   // [4]
	dimSymbolic                // [N]
)

// arrayDim is a parsed array dimension.
type arrayDim struct {
	kind  dimKind
	value int
	text  string
}

// typeExpr is a parsed type expression: a name and its dimensions,
// outermost first.
type typeExpr struct {
	name string
	dims []arrayDim
}

func (e typeExpr) String() string {
	var sb strings.Builder
	sb.WriteString(e.name)
	for _, d := range e.dims {
		sb.WriteByte('[')
		sb.WriteString(d.text)
		sb.WriteByte(']')
	}
	return sb.String()
}

// exprError is a parse error at a byte offset within the expression.
type exprError struct {
	offset int
	msg    string
}

func (e *exprError) Error() string {
	return fmt.Sprintf("column %d: %s", e.offset+1, e.msg)
}

// parseTypeExpr parses `name` followed by zero or more `[N]`, `[]` or
// `[ident]` suffixes. Blanks around tokens are ignored.
func parseTypeExpr(src string) (typeExpr, error) {
	p := exprParser{src: src}
	var e typeExpr

	p.skipBlanks()
	name, ok := p.ident()
	if !ok {
		return e, p.errorf("expected a type name")
	}
	e.name = name

	for {
		p.skipBlanks()
		if p.eof() {
			return e, nil
		}
		if p.peek() != '[' {
			return e, p.errorf("unexpected %q", p.peek())
		}
		p.pos++
		p.skipBlanks()

		var d arrayDim
		switch {
		case p.eof():
			return e, p.errorf("unterminated dimension")
		case p.peek() == ']':
			d.kind = dimAbsent
		case isDigit(p.peek()):
			start := p.pos
			for !p.eof() && isDigit(p.peek()) {
				p.pos++
			}
			d.text = p.src[start:p.pos]
			n, err := strconv.Atoi(d.text)
			if err != nil || n <= 0 {
				return e, &exprError{offset: start, msg: fmt.Sprintf("invalid array size %q", d.text)}
			}
			d.kind = dimConst
			d.value = n
		default:
			id, ok := p.ident()
			if !ok {
				return e, p.errorf("expected an array size")
			}
			d.kind = dimSymbolic
			d.text = id
		}

		p.skipBlanks()
		if p.eof() || p.peek() != ']' {
			return e, p.errorf("expected ']'")
		}
		p.pos++
		e.dims = append(e.dims, d)
	}
}

type exprParser struct {
	src string
	pos int
}

func (p *exprParser) eof() bool  { return p.pos >= len(p.src) }
func (p *exprParser) peek() byte { return p.src[p.pos] }

func (p *exprParser) skipBlanks() {
	for !p.eof() && (p.peek() == ' ' || p.peek() == '\t') {
		p.pos++
	}
}

func (p *exprParser) ident() (string, bool) {
	start := p.pos
	if p.eof() || !isIdentStart(p.peek()) {
		return "", false
	}
	for !p.eof() && (isIdentStart(p.peek()) || isDigit(p.peek())) {
		p.pos++
	}
	return p.src[start:p.pos], true
}

func (p *exprParser) errorf(format string, args ...any) error {
	return &exprError{offset: p.pos, msg: fmt.Sprintf(format, args...)}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
