package syntax

import (
	"strings"

	"github.com/weft-lang/weft/internal/src"
)

// maxNest bounds the recursion of nested argument lists, index
// expressions, array literals and template interpolations.
const maxNest = 256

type opKind uint8

const (
	opBinary   opKind = iota
	opAssign          // = += ...
	opUnary           // prefix ! - + ~ * & ++ --
	opParen           // ( marker
	opQuestion        // ? waiting for its :
	opColon           // ?: with both branches open
)

// opEntry is an operator waiting on the operator stack.
type opEntry struct {
	kind opKind
	tok  Tok
	prec int
	pos  src.Pos
}

// reducible reports whether e can be applied to operands. Parentheses and
// unmatched question marks are barriers.
func (e opEntry) reducible() bool {
	return e.kind != opParen && e.kind != opQuestion
}

// exprParser holds the operand and operator stacks of one expression.
type exprParser struct {
	p   *Parser
	xs  []Expr
	ops []opEntry
}

func (e *exprParser) push(x Expr) { e.xs = append(e.xs, x) }

func (e *exprParser) pop() Expr {
	x := e.xs[len(e.xs)-1]
	e.xs = e.xs[:len(e.xs)-1]
	return x
}

func (e *exprParser) top() *opEntry {
	if len(e.ops) == 0 {
		return nil
	}
	return &e.ops[len(e.ops)-1]
}

// reduce applies the operator on top of the stack.
func (e *exprParser) reduce() {
	op := e.ops[len(e.ops)-1]
	e.ops = e.ops[:len(e.ops)-1]

	switch op.kind {
	case opUnary:
		u := &Operation{Op: op.tok, X: e.pop()}
		u.pos = op.pos
		e.push(u)

	case opBinary:
		y, x := e.pop(), e.pop()
		b := &Operation{Op: op.tok, X: x, Y: y}
		b.pos = x.Pos()
		e.push(b)

	case opAssign:
		y, x := e.pop(), e.pop()
		a := &AssignExpr{Op: op.tok, X: x, Y: y}
		a.pos = x.Pos()
		e.push(a)

	case opColon:
		y, x, cond := e.pop(), e.pop(), e.pop()
		c := &CondExpr{Cond: cond, X: x, Y: y}
		c.pos = cond.Pos()
		e.push(c)

	case opQuestion:
		// cond ? x with no ':'
		e.p.syntaxErrorAt(e.p.pos, "expected \":\" in conditional expression, found "+e.p.found())
		bad := &BadExpr{}
		bad.pos = e.p.pos
		x, cond := e.pop(), e.pop()
		c := &CondExpr{Cond: cond, X: x, Y: bad}
		c.pos = cond.Pos()
		e.push(c)

	case opParen:
		e.p.syntaxErrorAt(e.p.pos, "expected \")\", found "+e.p.found())
		x := e.pop()
		paren := &ParenExpr{X: x}
		paren.pos = op.pos
		e.push(paren)
	}
}

// reduceWhile reduces reducible operators for which cond holds.
func (e *exprParser) reduceWhile(cond func(opEntry) bool) {
	for t := e.top(); t != nil && t.reducible() && cond(*t); t = e.top() {
		e.reduce()
	}
}

// openQuestion reports whether a ? awaits its : above the innermost paren.
func (e *exprParser) openQuestion() bool {
	for i := len(e.ops) - 1; i >= 0; i-- {
		switch e.ops[i].kind {
		case opQuestion:
			return true
		case opParen:
			return false
		}
	}
	return false
}

func (e *exprParser) openParen() bool {
	for i := len(e.ops) - 1; i >= 0; i-- {
		if e.ops[i].kind == opParen {
			return true
		}
	}
	return false
}

// expr parses an expression by precedence climbing over explicit operand
// and operator stacks. Assignment and ?: associate to the right, binary
// operators to the left. Parentheses are markers on the operator stack so
// that deeply parenthesized input does not recurse.
func (p *Parser) expr() Expr {
	p.nest++
	defer func() { p.nest-- }()
	if p.nest > maxNest {
		p.syntaxError("expression nested too deeply")
		bad := &BadExpr{}
		bad.pos = p.pos
		p.advance()
		return bad
	}

	e := &exprParser{p: p}

operand:
	// Prefix operators and opening parentheses, then one operand.
	for {
		switch p.tok {
		case _Not, _Sub, _Add, _Tilde, _Mul, _And, _Inc, _Dec:
			e.ops = append(e.ops, opEntry{kind: opUnary, tok: p.tok, prec: precUnary, pos: p.pos})
			p.next()
			continue
		case _Lparen:
			e.ops = append(e.ops, opEntry{kind: opParen, pos: p.pos})
			p.next()
			continue
		}
		e.push(p.postfix(p.operand()))
		break
	}

	// Operators.
	for {
		switch {
		case p.tok.Precedence() > 0:
			prec := p.tok.Precedence()
			e.reduceWhile(func(t opEntry) bool { return t.prec >= prec })
			e.ops = append(e.ops, opEntry{kind: opBinary, tok: p.tok, prec: prec, pos: p.pos})
			p.next()
			goto operand

		case p.tok.IsAssignOp():
			e.reduceWhile(func(t opEntry) bool { return t.prec > precAssign })
			e.ops = append(e.ops, opEntry{kind: opAssign, tok: p.tok, prec: precAssign, pos: p.pos})
			p.next()
			goto operand

		case p.tok == _Question:
			e.reduceWhile(func(t opEntry) bool { return t.prec > precCond })
			e.ops = append(e.ops, opEntry{kind: opQuestion, tok: p.tok, prec: precCond, pos: p.pos})
			p.next()
			goto operand

		case p.tok == _Colon && e.openQuestion():
			for e.top().kind != opQuestion {
				e.reduce()
			}
			t := e.top()
			t.kind = opColon
			p.next()
			goto operand

		case p.tok == _Rparen && e.openParen():
			for t := e.top(); t.kind != opParen; t = e.top() {
				e.reduce()
			}
			open := e.ops[len(e.ops)-1]
			e.ops = e.ops[:len(e.ops)-1]
			paren := &ParenExpr{X: e.pop()}
			paren.pos = open.pos
			p.next()
			e.push(p.postfix(paren))
			continue
		}
		break
	}

	for len(e.ops) > 0 {
		e.reduce()
	}
	return e.xs[0]
}

// operand parses a name, literal, array literal, new expression or
// template string. It does not consume anything on error.
func (p *Parser) operand() Expr {
	switch p.tok {
	case _Name, _This:
		n := &Name{Value: p.lit}
		n.pos = p.pos
		p.next()
		return n

	case _Int, _Float, _String:
		kind := IntLit
		switch p.tok {
		case _Float:
			kind = FloatLit
		case _String:
			kind = StringLit
		}
		lit := &BasicLit{Value: p.lit, Kind: kind}
		lit.pos = p.pos
		p.next()
		return lit

	case _TemplateLit:
		return p.templateLit()

	case _Illegal:
		// already reported by the scanner
		bad := &BadExpr{}
		bad.pos = p.pos
		p.next()
		return bad

	case _Lbrack:
		return p.arrayLit()

	case _New:
		return p.newExpr()
	}

	p.syntaxError("expected expression, found " + p.found())
	bad := &BadExpr{}
	bad.pos = p.pos
	return bad
}

// postfix parses calls, indexing, member selection and x++ / x--.
func (p *Parser) postfix(x Expr) Expr {
	for {
		switch p.tok {
		case _Lparen:
			call := &CallExpr{Fun: x}
			call.pos = x.Pos()
			call.Args = p.argList()
			x = call

		case _Lbrack:
			idx := &IndexExpr{X: x}
			idx.pos = x.Pos()
			p.next()
			idx.Index = p.expr()
			p.want(_Rbrack)
			x = idx

		case _Dot, _Arrow:
			sel := &SelectorExpr{X: x, Arrow: p.tok == _Arrow}
			sel.pos = x.Pos()
			p.next()
			sel.Sel = p.name()
			x = sel

		case _Inc, _Dec:
			op := &Operation{Op: p.tok, X: x, Postfix: true}
			op.pos = x.Pos()
			p.next()
			x = op

		default:
			return x
		}
	}
}

// argList parses (args...).
func (p *Parser) argList() []Expr {
	p.want(_Lparen)
	var list []Expr
	for p.tok != _Rparen && p.tok != _EOF {
		list = append(list, p.expr())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	return list
}

// arrayLit parses [a, b, ...]. A trailing comma is allowed.
func (p *Parser) arrayLit() Expr {
	lit := &ArrayLit{}
	lit.pos = p.pos
	p.want(_Lbrack)
	for p.tok != _Rbrack && p.tok != _EOF {
		lit.Elems = append(lit.Elems, p.expr())
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rbrack)
	return lit
}

// newExpr parses new T(args...).
func (p *Parser) newExpr() Expr {
	n := &NewExpr{}
	n.pos = p.pos
	if !p.features.ClassTemplates {
		p.syntaxError("new expressions are not enabled")
	}
	p.want(_New)
	n.Type = p.typeExpr()
	if p.tok == _Lparen {
		n.Args = p.argList()
	}
	return n
}

// templateLit splits a template string token into its text parts and
// parses each ${...} interpolation as an expression.
func (p *Parser) templateLit() Expr {
	t := &TemplateLit{}
	t.pos = p.pos
	raw := p.lit
	if !p.features.TemplateStrings {
		p.syntaxError("template strings are not enabled")
		p.next()
		bad := &BadExpr{}
		bad.pos = t.pos
		return bad
	}
	if p.toks[p.i].Unterminated {
		// reported by the scanner; the holes may be cut off
		p.next()
		bad := &BadExpr{}
		bad.pos = t.pos
		return bad
	}
	p.next()

	parts, holes := splitTemplate(raw)
	t.Parts = parts
	for _, h := range holes {
		pos := offsetPos(t.pos.Shift(1), raw[:h.offset])
		t.Exprs = append(t.Exprs, p.subExpr(h.text, pos))
	}
	return t
}

// subExpr parses text, found at pos inside a template string, as a single
// expression.
func (p *Parser) subExpr(text string, pos src.Pos) Expr {
	if strings.TrimSpace(text) == "" {
		p.syntaxErrorAt(pos, "empty expression in template string")
		bad := &BadExpr{}
		bad.pos = pos
		return bad
	}

	filename := pos.Filename()
	var errh func(line, col uint32, msg string)
	if p.sink != nil {
		errh = func(line, col uint32, msg string) {
			p.sink.ReportLexicalError(src.NewPos(filename, line, col), msg)
		}
	}
	s := NewScannerAt(filename, strings.NewReader(text), pos.Line(), pos.Col(), errh)
	var toks []Token
	for {
		s.Next()
		toks = append(toks, s.Token())
		if s.Tok() == _EOF {
			break
		}
	}

	sub := NewParser(toks, p.features, p.sink)
	sub.nest = p.nest
	x := sub.expr()
	if sub.tok != _EOF {
		sub.syntaxError("unexpected " + sub.found() + " in template expression")
	}
	p.errcnt += sub.errcnt
	return x
}

type templateHole struct {
	text   string
	offset int // byte offset of text in the raw template
}

// splitTemplate splits raw template text into decoded text parts and the
// source of each ${...} interpolation. len(parts) == len(holes)+1.
func splitTemplate(raw string) (parts []string, holes []templateHole) {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch {
		case c == '\\' && i+1 < len(raw):
			i += decodeEscape(&b, raw[i+1:]) + 1

		case c == '$' && i+1 < len(raw) && raw[i+1] == '{':
			parts = append(parts, b.String())
			b.Reset()
			start := i + 2
			end := matchBrace(raw, start)
			holes = append(holes, templateHole{text: raw[start:end], offset: start})
			i = end + 1

		default:
			b.WriteByte(c)
			i++
		}
	}
	parts = append(parts, b.String())
	return parts, holes
}

// decodeEscape writes the character for the escape sequence at the start
// of s (just after the backslash) and returns the number of bytes used.
// Unknown escapes stand for the escaped character itself.
func decodeEscape(b *strings.Builder, s string) int {
	switch s[0] {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '0':
		b.WriteByte(0)
	case 'x':
		if len(s) >= 3 && isHexDigit(rune(s[1])) && isHexDigit(rune(s[2])) {
			b.WriteRune(hexValue(rune(s[1]))*16 + hexValue(rune(s[2])))
			return 3
		}
		b.WriteByte('x')
	default:
		b.WriteByte(s[0])
	}
	return 1
}

// matchBrace returns the index of the } closing the interpolation whose
// text starts at start, skipping nested braces, strings and templates.
// It returns len(raw) if there is none.
func matchBrace(raw string, start int) int {
	depth := 0
	for i := start; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case '"', '\'', '`':
			i = skipQuoted(raw, i)
		case '\\':
			i++
		}
	}
	return len(raw)
}

// skipQuoted returns the index of the quote closing the string or template
// that opens at raw[i].
func skipQuoted(raw string, i int) int {
	quote := raw[i]
	for i++; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case quote:
			return i
		case '$':
			if quote == '`' && i+1 < len(raw) && raw[i+1] == '{' {
				i = matchBrace(raw, i+2)
			}
		}
	}
	return len(raw)
}

// offsetPos returns the position reached by advancing from pos over text.
func offsetPos(pos src.Pos, text string) src.Pos {
	line, col := pos.Line(), pos.Col()
	for _, r := range text {
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return src.NewPos(pos.Filename(), line, col)
}
