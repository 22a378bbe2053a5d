package syntax

import (
	"fmt"

	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/src"
)

// Parser performs syntax analysis over a token slice produced by Tokenize.
type Parser struct {
	toks     []Token
	features Features
	sink     *diag.Sink

	// Current token info (cached from toks[i])
	i   int
	tok Tok
	lit string
	pos src.Pos

	// Error handling
	errcnt  int
	lastErr int // token index of the last reported error, -1 if none

	// Context tracking
	nest  int    // expression nesting depth
	class string // name of the class whose members are being parsed
}

// NewParser creates a Parser for tokens. Syntax errors are reported to
// sink, which may be nil. A missing trailing EOF token is supplied.
func NewParser(tokens []Token, features Features, sink *diag.Sink) *Parser {
	toks := make([]Token, len(tokens), len(tokens)+1)
	copy(toks, tokens)
	if len(toks) == 0 || toks[len(toks)-1].Tok != _EOF {
		var pos src.Pos
		if len(toks) > 0 {
			pos = toks[len(toks)-1].Pos
		}
		toks = append(toks, Token{Tok: _EOF, Pos: pos})
	}
	p := &Parser{toks: toks, features: features, sink: sink, lastErr: -1}
	p.seek(0)
	return p
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) seek(i int) {
	if i >= len(p.toks) {
		i = len(p.toks) - 1
	}
	p.i = i
	t := p.toks[i]
	p.tok, p.lit, p.pos = t.Tok, t.Lit, t.Pos
}

// next advances to the next token. It stays put at EOF.
func (p *Parser) next() {
	p.seek(p.i + 1)
}

// peek returns the token n positions ahead of the current one.
func (p *Parser) peek(n int) Tok {
	i := p.i + n
	if i >= len(p.toks) {
		return _EOF
	}
	return p.toks[i].Tok
}

// got reports whether the current token is tok.
// If so, it consumes the token and returns true.
func (p *Parser) got(tok Tok) bool {
	if p.tok == tok {
		p.next()
		return true
	}
	return false
}

// want consumes the current token if it matches tok. Otherwise it reports
// an error, skips to a synchronization point and consumes tok if it is
// found there.
func (p *Parser) want(tok Tok) {
	if !p.got(tok) {
		p.syntaxError("expected " + tokDesc(tok) + ", found " + p.found())
		p.advance()
		p.got(tok)
	}
}

func tokDesc(tok Tok) string {
	switch tok {
	case _Name:
		return "name"
	case _EOF:
		return "end of file"
	}
	return fmt.Sprintf("%q", tok.String())
}

// found describes the current token for error messages.
func (p *Parser) found() string {
	switch p.tok {
	case _EOF:
		return "end of file"
	case _Name:
		return "name " + p.lit
	case _Int, _Float, _String, _TemplateLit, _Illegal:
		return "literal"
	}
	return fmt.Sprintf("%q", p.tok.String())
}

// ----------------------------------------------------------------------------
// Error handling

// syntaxError reports a syntax error at the current token.
func (p *Parser) syntaxError(msg string) {
	p.syntaxErrorAt(p.pos, msg)
}

// syntaxErrorAt reports a syntax error at pos. At most one error is
// reported per token.
func (p *Parser) syntaxErrorAt(pos src.Pos, msg string) {
	if p.i == p.lastErr {
		return
	}
	p.lastErr = p.i
	p.errcnt++
	if p.sink != nil {
		p.sink.ReportSyntaxError(pos, msg)
	}
}

// Errors returns the number of syntax errors reported.
func (p *Parser) Errors() int {
	return p.errcnt
}

// syncKeyword reports whether tok starts a declaration or statement.
func syncKeyword(tok Tok) bool {
	switch tok {
	case _Class, _Interface, _Function, _Template, _Let, _Var, _Const,
		_If, _While, _Do, _For, _Return, _Break, _Continue,
		_Public, _Private, _Protected:
		return true
	}
	return false
}

// advance skips tokens until a synchronization point: an unmatched ; } ) or
// ], a declaration or statement keyword, or EOF. Balanced bracket groups
// are skipped whole. The synchronization token is not consumed.
func (p *Parser) advance() {
	for {
		switch p.tok {
		case _EOF, _Semi, _Rbrace, _Rparen, _Rbrack:
			return
		case _Lbrace, _Lparen, _Lbrack:
			p.skipGroup()
			continue
		}
		if syncKeyword(p.tok) {
			return
		}
		p.next()
	}
}

// skipGroup skips a balanced bracket group starting at the current opening
// bracket, including the closing bracket.
func (p *Parser) skipGroup() {
	depth := 0
	for p.tok != _EOF {
		switch p.tok {
		case _Lbrace, _Lparen, _Lbrack:
			depth++
		case _Rbrace, _Rparen, _Rbrack:
			depth--
		}
		p.next()
		if depth == 0 {
			return
		}
	}
}

// skipDecl skips a whole declaration: up to and including a ; at bracket
// depth zero, or a top-level { } body and an optional trailing ;.
func (p *Parser) skipDecl() {
	for p.tok != _EOF {
		switch p.tok {
		case _Semi:
			p.next()
			return
		case _Lbrace:
			p.skipGroup()
			p.got(_Semi)
			return
		case _Lparen, _Lbrack:
			p.skipGroup()
		case _Rbrace:
			return
		default:
			p.next()
		}
	}
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses the token stream and returns the program. It always returns
// a Program; declarations that failed to parse are dropped or partial.
func (p *Parser) Parse() *Program {
	prog := &Program{}
	prog.pos = p.pos

	for p.tok != _EOF {
		start := p.i
		prog.Decls = append(prog.Decls, p.topDecl()...)
		if p.i == start {
			// unparseable token; make progress
			p.next()
		}
	}
	return prog
}

// ----------------------------------------------------------------------------
// Declarations

// topDecl parses one top-level declaration. C-style variable declarations
// with several declarators yield several VarDecls.
func (p *Parser) topDecl() []Decl {
	vis := Public
	if v, ok := p.visibility(); ok {
		vis = v
	}

	switch p.tok {
	case _Semi:
		p.next()
		return nil

	case _Class:
		return declList(p.classDecl(vis, nil))

	case _Template:
		return declList(p.templateDecl(vis))

	case _Interface:
		return declList(p.interfaceDecl(vis))

	case _Function:
		return declList(p.keywordFuncDecl(vis))

	case _Let, _Var, _Const:
		return varDeclList(p.keywordVarDecls(vis))
	}

	if p.typeThenName(p.i) {
		return p.cDecl(vis)
	}

	p.syntaxError("expected declaration, found " + p.found())
	p.skipDecl()
	return nil
}

func declList(d Decl) []Decl {
	if d == nil {
		return nil
	}
	return []Decl{d}
}

func varDeclList(list []*VarDecl) []Decl {
	out := make([]Decl, len(list))
	for i, d := range list {
		out[i] = d
	}
	return out
}

// visibility consumes a public, private or protected modifier.
func (p *Parser) visibility() (Visibility, bool) {
	var v Visibility
	switch p.tok {
	case _Public:
		v = Public
	case _Private:
		v = Private
	case _Protected:
		v = Protected
	default:
		return 0, false
	}
	p.next()
	return v, true
}

// scanType reports where a type-shaped token run starting at token i ends:
// a name, template arguments when classes are enabled, then any number of
// * and [] or [N] suffixes. It returns -1 if no type starts at i.
func (p *Parser) scanType(i int) int {
	tok := func(j int) Tok {
		if j >= len(p.toks) {
			return _EOF
		}
		return p.toks[j].Tok
	}

	if tok(i) != _Name {
		return -1
	}
	i++

	if tok(i) == _Lss && p.features.ClassTemplates {
		depth := 1
		i++
		for depth > 0 {
			switch tok(i) {
			case _Lss:
				depth++
			case _Gtr:
				depth--
			case _Shr:
				depth -= 2
			case _Name, _Comma, _Mul, _Lbrack, _Rbrack, _Int:
			default:
				return -1
			}
			i++
		}
		if depth < 0 {
			return -1
		}
	}

	for {
		switch {
		case tok(i) == _Mul:
			i++
		case tok(i) == _Lbrack && tok(i+1) == _Rbrack:
			i += 2
		case tok(i) == _Lbrack && tok(i+1) == _Int && tok(i+2) == _Rbrack:
			i += 3
		default:
			return i
		}
	}
}

// typeThenName reports whether a type-shaped run followed by a name starts
// at token i. Where no expression can appear that is a declaration.
func (p *Parser) typeThenName(i int) bool {
	j := p.scanType(i)
	return j >= 0 && j < len(p.toks) && p.toks[j].Tok == _Name
}

// declStart reports whether a C-style declaration starts at statement
// token i: a type-shaped run, a name, then a token that can follow a
// declarator. a * b + c; is an expression; a * b; stays a declaration.
func (p *Parser) declStart(i int) bool {
	if !p.typeThenName(i) {
		return false
	}
	j := p.scanType(i)
	if j+1 >= len(p.toks) {
		return false
	}
	switch p.toks[j+1].Tok {
	case _Semi, _Assign, _Comma, _Lbrack, _Lparen:
		return true
	}
	return false
}

// cDecl parses a C-style declaration: a function, a prototype, or one or
// more variables.
//
//	int add(int a, int b) { ... }
//	float* scale(float* v, float k);
//	int a, b = 2, buf[4];
func (p *Parser) cDecl(vis Visibility) []Decl {
	pos := p.pos
	typ := p.typeExpr()
	if p.tok == _Name && p.peek(1) == _Lparen {
		return declList(p.cFuncRest(pos, typ, vis))
	}
	return varDeclList(p.cVarRest(pos, typ, vis))
}

// cFuncRest parses the name, parameters and body of a C-form function whose
// result type has already been parsed.
func (p *Parser) cFuncRest(pos src.Pos, result Expr, vis Visibility) *FuncDecl {
	f := &FuncDecl{Form: CForm, Vis: vis}
	f.pos = pos
	f.Name = p.name()
	if n, ok := result.(*Name); ok && n.Value == "void" {
		result = nil
	}
	f.Result = result
	f.Params = p.cParams()
	f.Body = p.funcBody()
	return f
}

// cVarRest parses the declarators of a C-style variable declaration.
func (p *Parser) cVarRest(pos src.Pos, typ Expr, vis Visibility) []*VarDecl {
	var list []*VarDecl
	for {
		d := &VarDecl{Vis: vis}
		d.pos = pos
		t := typ
		for p.tok == _Mul {
			// int a, *b;
			ptr := &PointerType{Base: t}
			ptr.pos = p.pos
			t = ptr
			p.next()
		}
		d.Name = p.name()
		d.Type = p.arraySuffix(t, false)
		if p.got(_Assign) {
			d.Value = p.expr()
		}
		list = append(list, d)
		if !p.got(_Comma) {
			break
		}
		pos = p.pos
	}
	p.want(_Semi)
	return list
}

// arraySuffix parses array suffixes such as buf[4] or rows[][3]. In type
// position (typeOnly) a length must be an integer literal; declarators
// accept any expression.
func (p *Parser) arraySuffix(elem Expr, typeOnly bool) Expr {
	if p.tok != _Lbrack {
		return elem
	}
	// Collect the dimensions first: int m[2][3] is an array of 2 arrays of 3.
	type dim struct {
		pos src.Pos
		len Expr
	}
	var dims []dim
	for p.tok == _Lbrack && (!typeOnly || p.typeDim()) {
		d := dim{pos: p.pos}
		p.next()
		if p.tok != _Rbrack {
			d.len = p.expr()
		}
		p.want(_Rbrack)
		dims = append(dims, d)
	}
	t := elem
	for i := len(dims) - 1; i >= 0; i-- {
		a := &ArrayType{Len: dims[i].len, Elem: t}
		a.pos = dims[i].pos
		t = a
	}
	return t
}

// cParams parses a C-style parameter list: (void), () or (T [name], ...).
func (p *Parser) cParams() []*Field {
	p.want(_Lparen)
	if p.tok == _Name && p.lit == "void" && p.peek(1) == _Rparen {
		p.next()
	}
	var list []*Field
	for p.tok != _Rparen && p.tok != _EOF {
		f := &Field{}
		f.pos = p.pos
		f.Type = p.typeExpr()
		if p.tok == _Name {
			f.Name = p.name()
		}
		f.Type = p.arraySuffix(f.Type, false)
		list = append(list, f)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	return list
}

// keywordParams parses a keyword-form parameter list: (a: T, b, ...).
// Unannotated parameters have a nil Type.
func (p *Parser) keywordParams() []*Field {
	p.want(_Lparen)
	var list []*Field
	for p.tok != _Rparen && p.tok != _EOF {
		f := &Field{}
		f.pos = p.pos
		f.Name = p.name()
		if p.got(_Colon) {
			f.Type = p.typeExpr()
		}
		list = append(list, f)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Rparen)
	return list
}

// funcBody parses a function body, or the ; of a forward declaration.
func (p *Parser) funcBody() *BlockStmt {
	if p.got(_Semi) {
		return nil
	}
	if p.tok != _Lbrace {
		p.syntaxError("expected function body or \";\", found " + p.found())
		p.advance()
		if p.tok == _Lbrace {
			return p.blockStmt()
		}
		p.got(_Semi)
		return nil
	}
	return p.blockStmt()
}

// keywordFuncDecl parses: function name(a: T, b): R { ... }
func (p *Parser) keywordFuncDecl(vis Visibility) *FuncDecl {
	f := &FuncDecl{Form: KeywordForm, Vis: vis}
	f.pos = p.pos
	p.want(_Function)
	f.Name = p.name()
	f.Params = p.keywordParams()
	if p.got(_Colon) {
		f.Result = p.typeExpr()
	}
	f.Body = p.funcBody()
	return f
}

// keywordVarDecls parses: let|var|const name [: T] [= value] {, ...} ;
func (p *Parser) keywordVarDecls(vis Visibility) []*VarDecl {
	kw := p.tok
	p.next()
	var list []*VarDecl
	for {
		d := &VarDecl{Keyword: kw, Vis: vis}
		d.pos = p.pos
		d.Name = p.name()
		if p.got(_Colon) {
			d.Type = p.typeExpr()
		}
		if p.got(_Assign) {
			d.Value = p.expr()
		}
		list = append(list, d)
		if !p.got(_Comma) {
			break
		}
	}
	p.want(_Semi)
	return list
}

// templateDecl parses template <typename T, ...> followed by a class or
// function declaration.
func (p *Parser) templateDecl(vis Visibility) Decl {
	if !p.features.ClassTemplates {
		p.syntaxError("templates are not enabled")
		p.skipDecl()
		return nil
	}
	p.want(_Template)
	tparams := p.typeParams()

	switch {
	case p.tok == _Class:
		return p.classDecl(vis, tparams)
	case p.tok == _Function:
		f := p.keywordFuncDecl(vis)
		f.TypeParams = tparams
		return f
	case p.typeThenName(p.i):
		pos := p.pos
		typ := p.typeExpr()
		if p.tok == _Name && p.peek(1) == _Lparen {
			f := p.cFuncRest(pos, typ, vis)
			f.TypeParams = tparams
			return f
		}
	}
	p.syntaxError("expected class or function after template parameters")
	p.skipDecl()
	return nil
}

// typeParams parses <typename T, class U>.
func (p *Parser) typeParams() []*Name {
	p.want(_Lss)
	var list []*Name
	for p.tok != _Gtr && p.tok != _EOF {
		if !p.got(_Typename) && !p.got(_Class) {
			p.syntaxError("expected typename, found " + p.found())
		}
		list = append(list, p.name())
		if !p.got(_Comma) {
			break
		}
	}
	p.closeAngle()
	return list
}

// closeAngle consumes a > closing template brackets. A >> token is split
// so that Box<Pair<int>> closes two lists.
func (p *Parser) closeAngle() {
	if p.tok == _Shr {
		t := &p.toks[p.i]
		t.Tok, t.Lit, t.Pos = _Gtr, ">", t.Pos.Shift(1)
		p.seek(p.i)
		return
	}
	p.want(_Gtr)
}

// classDecl parses:
//
//	class Name [: Base | extends Base] { members } [;]
//	class Name;
func (p *Parser) classDecl(vis Visibility, tparams []*Name) Decl {
	if !p.features.ClassTemplates {
		p.syntaxError("classes are not enabled")
		p.skipDecl()
		return nil
	}
	c := &ClassDecl{Vis: vis, TypeParams: tparams}
	c.pos = p.pos
	p.want(_Class)
	c.Name = p.name()

	if p.got(_Semi) {
		c.Forward = true
		return c
	}
	if p.got(_Colon) || p.got(_Extends) {
		p.visibility() // class D : public B
		c.Base = p.typeExpr()
	}

	outer := p.class
	p.class = c.Name.Value
	c.Members, c.Rbrace = p.memberBlock(false)
	p.class = outer
	p.got(_Semi)
	return c
}

// interfaceDecl parses: interface Name [extends Base] { signatures }
func (p *Parser) interfaceDecl(vis Visibility) Decl {
	if !p.features.StructuralInterfaces {
		p.syntaxError("interfaces are not enabled")
		p.skipDecl()
		return nil
	}
	d := &InterfaceDecl{Vis: vis}
	d.pos = p.pos
	p.want(_Interface)
	d.Name = p.name()
	if p.got(_Extends) || p.got(_Colon) {
		d.Base = p.typeExpr()
	}

	outer := p.class
	p.class = ""
	d.Members, _ = p.memberBlock(true)
	p.class = outer
	p.got(_Semi)
	return d
}

// memberBlock parses { members } and returns the members and the position
// of the closing brace. Section labels (private:) set the default
// visibility of the members that follow.
func (p *Parser) memberBlock(iface bool) ([]Decl, src.Pos) {
	p.want(_Lbrace)
	var members []Decl
	section := Public
	for p.tok != _Rbrace && p.tok != _EOF {
		start := p.i

		if !iface && (p.tok == _Public || p.tok == _Private || p.tok == _Protected) && p.peek(1) == _Colon {
			section, _ = p.visibility()
			p.next() // :
			continue
		}
		vis := section
		if v, ok := p.visibility(); ok {
			vis = v
		}
		members = append(members, p.member(vis, iface)...)

		if p.i == start {
			p.next()
		}
	}
	rbrace := p.pos
	p.want(_Rbrace)
	return members, rbrace
}

// member parses one class member or interface signature.
func (p *Parser) member(vis Visibility, iface bool) []Decl {
	var list []Decl
	switch p.tok {
	case _Semi:
		p.next()
		return nil

	case _Function:
		list = declList(p.keywordFuncDecl(vis))

	case _Let, _Var, _Const:
		list = varDeclList(p.keywordVarDecls(vis))

	case _Template:
		if iface {
			p.syntaxError("interface members cannot be templates")
			p.skipDecl()
			return nil
		}
		list = declList(p.templateDecl(vis))

	case _Class, _Interface:
		p.syntaxError("nested " + p.lit + " declarations are not supported")
		p.skipDecl()
		return nil

	case _Name:
		switch {
		case !iface && p.peek(1) == _Lparen && (p.lit == p.class || p.lit == "constructor"):
			list = declList(p.ctorDecl(vis))
		case p.peek(1) == _Colon:
			list = declList(p.fieldDecl(vis))
		case p.peek(1) == _Lparen:
			list = declList(p.methodDecl(vis))
		case p.typeThenName(p.i):
			list = p.cDecl(vis)
		default:
			p.syntaxError("expected member declaration, found " + p.found())
			p.advance()
			p.got(_Semi)
			return nil
		}

	default:
		p.syntaxError("expected member declaration, found " + p.found())
		p.advance()
		p.got(_Semi)
		return nil
	}

	if iface {
		for _, d := range list {
			switch d := d.(type) {
			case *FuncDecl:
				if d.Body != nil {
					p.syntaxErrorAt(d.Body.Pos(), "interface method "+d.Name.Value+" cannot have a body")
				}
			case *VarDecl:
				if d.Value != nil {
					p.syntaxErrorAt(d.Value.Pos(), "interface field "+d.Name.Value+" cannot have an initializer")
				}
			}
		}
	}
	return list
}

// ctorDecl parses a constructor: Name(T a, ...) { } or constructor(a: T) { }.
func (p *Parser) ctorDecl(vis Visibility) *FuncDecl {
	f := &FuncDecl{Ctor: true, Vis: vis}
	f.pos = p.pos
	f.Name = p.name()
	if f.Name.Value == "constructor" {
		f.Form = KeywordForm
		f.Params = p.keywordParams()
	} else {
		f.Form = CForm
		f.Params = p.cParams()
	}
	f.Body = p.funcBody()
	return f
}

// fieldDecl parses a script-style field: name: T [= value];
func (p *Parser) fieldDecl(vis Visibility) *VarDecl {
	d := &VarDecl{Vis: vis}
	d.pos = p.pos
	d.Name = p.name()
	p.want(_Colon)
	d.Type = p.typeExpr()
	if p.got(_Assign) {
		d.Value = p.expr()
	}
	p.want(_Semi)
	return d
}

// methodDecl parses a script-style method: name(a: T): R { ... }
func (p *Parser) methodDecl(vis Visibility) *FuncDecl {
	f := &FuncDecl{Form: KeywordForm, Vis: vis}
	f.pos = p.pos
	f.Name = p.name()
	f.Params = p.keywordParams()
	if p.got(_Colon) {
		f.Result = p.typeExpr()
	}
	f.Body = p.funcBody()
	return f
}

// ----------------------------------------------------------------------------
// Types

// typeExpr parses a type: Name, Name<Args>, followed by * and [] suffixes.
func (p *Parser) typeExpr() Expr {
	if p.tok != _Name {
		p.syntaxError("expected type, found " + p.found())
		b := &BadExpr{}
		b.pos = p.pos
		return b
	}
	var t Expr
	name := p.name()
	t = name
	if p.tok == _Lss && p.features.ClassTemplates {
		t = p.instType(name)
	}
	for {
		switch {
		case p.tok == _Mul:
			ptr := &PointerType{Base: t}
			ptr.pos = p.pos
			t = ptr
			p.next()
		case p.tok == _Lbrack && p.typeDim():
			t = p.arraySuffix(t, true)
		default:
			return t
		}
	}
}

// typeDim reports whether the current [ starts a [] or [N] type suffix.
func (p *Parser) typeDim() bool {
	return p.peek(1) == _Rbrack || p.peek(1) == _Int && p.peek(2) == _Rbrack
}

// instType parses the argument list of Base<Args...>.
func (p *Parser) instType(base *Name) Expr {
	t := &InstType{Base: base}
	t.pos = base.Pos()
	p.want(_Lss)
	for p.tok != _Gtr && p.tok != _Shr && p.tok != _EOF {
		t.Args = append(t.Args, p.typeExpr())
		if !p.got(_Comma) {
			break
		}
	}
	p.closeAngle()
	return t
}

// name parses an identifier. On error it returns a placeholder name "_".
func (p *Parser) name() *Name {
	n := &Name{}
	n.pos = p.pos
	if p.tok == _Name {
		n.Value = p.lit
		p.next()
		return n
	}
	p.syntaxError("expected name, found " + p.found())
	n.Value = "_"
	return n
}

// ----------------------------------------------------------------------------
// Statements

// blockStmt parses { stmts }.
func (p *Parser) blockStmt() *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.pos
	p.want(_Lbrace)
	for p.tok != _Rbrace && p.tok != _EOF {
		start := p.i
		if s := p.stmt(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
		if p.i == start {
			p.next()
		}
	}
	b.Rbrace = p.pos
	p.want(_Rbrace)
	return b
}

// stmt parses a statement. It returns nil for rejected constructs.
func (p *Parser) stmt() Stmt {
	switch p.tok {
	case _Lbrace:
		return p.blockStmt()
	case _If:
		return p.ifStmt()
	case _While:
		return p.whileStmt()
	case _Do:
		return p.doWhileStmt()
	case _For:
		return p.forStmt()
	case _Return:
		return p.returnStmt()
	case _Break, _Continue:
		return p.branchStmt()
	case _Semi:
		s := &EmptyStmt{}
		s.pos = p.pos
		p.next()
		return s
	case _Let, _Var, _Const:
		return p.declStmt(p.keywordVarDecls(Public))
	case _Function, _Class, _Interface, _Template:
		p.syntaxError("nested " + p.lit + " declarations are not supported")
		p.skipDecl()
		return nil
	case _Public, _Private, _Protected:
		p.syntaxError("unexpected " + p.lit + " in function body")
		p.next()
		return nil
	}

	if p.declStart(p.i) {
		if j := p.scanType(p.i); j+1 < len(p.toks) && p.toks[j+1].Tok == _Lparen {
			p.syntaxError("nested function declarations are not supported")
			p.skipDecl()
			return nil
		}
		pos := p.pos
		typ := p.typeExpr()
		return p.declStmt(p.cVarRest(pos, typ, Public))
	}

	s := &ExprStmt{}
	s.pos = p.pos
	s.X = p.expr()
	p.want(_Semi)
	return s
}

func (p *Parser) declStmt(list []*VarDecl) Stmt {
	s := &DeclStmt{Decls: list}
	if len(list) > 0 {
		s.pos = list[0].Pos()
	}
	return s
}

// parenCond parses ( expr ).
func (p *Parser) parenCond() Expr {
	p.want(_Lparen)
	x := p.expr()
	p.want(_Rparen)
	return x
}

// ifStmt parses: if (cond) stmt [else stmt]
func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.pos
	p.want(_If)
	s.Cond = p.parenCond()
	s.Then = p.body()
	if p.got(_Else) {
		s.Else = p.body()
	}
	return s
}

// body parses the statement controlled by if, while, do or for.
func (p *Parser) body() Stmt {
	if s := p.stmt(); s != nil {
		return s
	}
	e := &EmptyStmt{}
	e.pos = p.pos
	return e
}

// whileStmt parses: while (cond) stmt
func (p *Parser) whileStmt() Stmt {
	s := &WhileStmt{}
	s.pos = p.pos
	p.want(_While)
	s.Cond = p.parenCond()
	s.Body = p.body()
	return s
}

// doWhileStmt parses: do stmt while (cond);
func (p *Parser) doWhileStmt() Stmt {
	s := &DoWhileStmt{}
	s.pos = p.pos
	p.want(_Do)
	s.Body = p.body()
	p.want(_While)
	s.Cond = p.parenCond()
	p.want(_Semi)
	return s
}

// forStmt parses: for ([init]; [cond]; [post]) stmt
func (p *Parser) forStmt() Stmt {
	s := &ForStmt{}
	s.pos = p.pos
	p.want(_For)
	p.want(_Lparen)

	switch {
	case p.tok == _Semi:
		p.next()
	case p.tok == _Let || p.tok == _Var || p.tok == _Const:
		s.Init = p.declStmt(p.keywordVarDecls(Public))
	case p.declStart(p.i):
		pos := p.pos
		typ := p.typeExpr()
		s.Init = p.declStmt(p.cVarRest(pos, typ, Public))
	default:
		init := &ExprStmt{}
		init.pos = p.pos
		init.X = p.expr()
		s.Init = init
		p.want(_Semi)
	}

	if p.tok != _Semi {
		s.Cond = p.expr()
	}
	p.want(_Semi)
	if p.tok != _Rparen {
		s.Post = p.expr()
	}
	p.want(_Rparen)
	s.Body = p.body()
	return s
}

// returnStmt parses: return [expr];
func (p *Parser) returnStmt() Stmt {
	s := &ReturnStmt{}
	s.pos = p.pos
	p.want(_Return)
	if p.tok != _Semi && p.tok != _Rbrace && p.tok != _EOF {
		s.Result = p.expr()
	}
	p.want(_Semi)
	return s
}

// branchStmt parses: break; or continue;
func (p *Parser) branchStmt() Stmt {
	s := &BranchStmt{Tok: p.tok}
	s.pos = p.pos
	p.next()
	p.want(_Semi)
	return s
}
