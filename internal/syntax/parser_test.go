package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/weft-lang/weft/internal/diag"
)

// ----------------------------------------------------------------------------
// Test helpers

func parseWith(t *testing.T, src string, f Features) (*Program, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	toks := Tokenize("test.wf", src, sink)
	prog := NewParser(toks, f, sink).Parse()
	if prog == nil {
		t.Fatal("Parse returned nil")
	}
	return prog, sink
}

func parseProgram(t *testing.T, src string) *Program {
	t.Helper()
	prog, sink := parseWith(t, src, AllFeatures())
	if sink.HasErrors() {
		t.Fatalf("unexpected errors in %q:\n%s", src, diagString(sink))
	}
	return prog
}

func diagString(sink *diag.Sink) string {
	var b strings.Builder
	for _, d := range sink.Diagnostics() {
		b.WriteString(d.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// parseExpr parses src as the only statement of a function body.
func parseExpr(t *testing.T, src string) Expr {
	t.Helper()
	prog := parseProgram(t, "void f() { "+src+"; }")
	body := prog.Decls[0].(*FuncDecl).Body
	if len(body.Stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(body.Stmts))
	}
	s, ok := body.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("got %T, want *ExprStmt", body.Stmts[0])
	}
	return s.X
}

// declSummary describes a declaration as "Kind name [vis]".
func declSummary(d Decl) string {
	switch d := d.(type) {
	case *VarDecl:
		return fmt.Sprintf("var %s %s %s", d.Name.Value, TypeString(d.Type), d.Vis)
	case *FuncDecl:
		kind := "func"
		if d.Ctor {
			kind = "ctor"
		}
		return fmt.Sprintf("%s %s %s", kind, d.Name.Value, d.Vis)
	case *ClassDecl:
		return "class " + d.Name.Value
	case *InterfaceDecl:
		return "interface " + d.Name.Value
	}
	return fmt.Sprintf("%T", d)
}

func summaries(decls []Decl) []string {
	var out []string
	for _, d := range decls {
		out = append(out, declSummary(d))
	}
	return out
}

func checkStrings(t *testing.T, what string, got, want []string) {
	t.Helper()
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("%s:\ngot  %q\nwant %q", what, got, want)
	}
}

// ----------------------------------------------------------------------------
// Declarations

func TestParseVarDecls(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"int x = 1;", []string{"var x int public"}},
		{"float* p;", []string{"var p float* public"}},
		{"int a, *b, c[4];", []string{"var a int public", "var b int* public", "var c int[4] public"}},
		{"int m[2][3];", []string{"var m int[2][3] public"}},
		{"int[] xs;", []string{"var xs int[] public"}},
		{"let x: float = 1.5;", []string{"var x float public"}},
		{"var y = 2;", []string{"var y any public"}},
		{"const k = 3, j: int = 4;", []string{"var k any public", "var j int public"}},
		{"private int secret;", []string{"var secret int private"}},
		{"Box<int> b;", []string{"var b Box<int> public"}},
		{"Box<Box<int>> bb;", []string{"var bb Box<Box<int>> public"}},
		{"Pair<int, float*>* pp;", []string{"var pp Pair<int, float*>* public"}},
		{";;", nil},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			checkStrings(t, "decls", summaries(prog.Decls), tt.want)
		})
	}
}

func TestParseVarKeywords(t *testing.T) {
	prog := parseProgram(t, "let a = 1; var b = 2; const c = 3; int d = 4;")
	want := []Tok{_Let, _Var, _Const, 0}
	for i, d := range prog.Decls {
		v := d.(*VarDecl)
		if v.Keyword != want[i] {
			t.Errorf("decl %d keyword = %v, want %v", i, v.Keyword, want[i])
		}
		if v.IsConst() != (want[i] == _Const) {
			t.Errorf("decl %d IsConst = %v", i, v.IsConst())
		}
	}
}

func TestParseFuncDecls(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		form    FuncForm
		params  string // "name:type" list
		result  string
		forward bool
	}{
		{"c_form", "int add(int a, int b) { return a + b; }", CForm, "a:int b:int", "int", false},
		{"c_void_params", "void f(void);", CForm, "", "any", true},
		{"c_empty_params", "void g() {}", CForm, "", "any", false},
		{"c_pointers", "float* scale(float* v, float k);", CForm, "v:float* k:float", "float*", true},
		{"c_unnamed", "int proto(int, float);", CForm, "_:int _:float", "int", true},
		{"c_array_param", "int sum(int xs[], int n) { return 0; }", CForm, "xs:int[] n:int", "int", false},
		{"keyword", "function add(a: int, b): float { return a; }", KeywordForm, "a:int b:any", "float", false},
		{"keyword_noresult", "function noop() { }", KeywordForm, "", "any", false},
		{"keyword_forward", "function later(x: vec3): vec3;", KeywordForm, "x:vec3", "vec3", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			if len(prog.Decls) != 1 {
				t.Fatalf("got %d decls, want 1", len(prog.Decls))
			}
			f, ok := prog.Decls[0].(*FuncDecl)
			if !ok {
				t.Fatalf("got %T, want *FuncDecl", prog.Decls[0])
			}
			if f.Form != tt.form {
				t.Errorf("form = %v, want %v", f.Form, tt.form)
			}
			var params []string
			for _, p := range f.Params {
				name := "_"
				if p.Name != nil {
					name = p.Name.Value
				}
				params = append(params, name+":"+TypeString(p.Type))
			}
			if got := strings.Join(params, " "); got != tt.params {
				t.Errorf("params = %q, want %q", got, tt.params)
			}
			if got := TypeString(f.Result); got != tt.result {
				t.Errorf("result = %q, want %q", got, tt.result)
			}
			if (f.Body == nil) != tt.forward {
				t.Errorf("forward = %v, want %v", f.Body == nil, tt.forward)
			}
		})
	}
}

func TestParseClass(t *testing.T) {
	src := `
class Circle : Shape {
public:
	Circle(float radius) { r = radius; }
	float area() { return r * r; }
private:
	float r;
	int hits = 0, misses;
protected:
	name: string;
	scale(k: float): void { r = r * k; }
	public int id;
	constructor(x: float) { }
};
`
	prog := parseProgram(t, src)
	if len(prog.Decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(prog.Decls))
	}
	c := prog.Decls[0].(*ClassDecl)
	if c.Name.Value != "Circle" || TypeString(c.Base) != "Shape" || c.Forward {
		t.Errorf("got class %s base %s forward %v", c.Name.Value, TypeString(c.Base), c.Forward)
	}
	checkStrings(t, "members", summaries(c.Members), []string{
		"ctor Circle public",
		"func area public",
		"var r float private",
		"var hits int private",
		"var misses int private",
		"var name string protected",
		"func scale protected",
		"var id int public",
		"ctor constructor protected",
	})
	if ctor := c.Members[0].(*FuncDecl); ctor.Form != CForm || len(ctor.Params) != 1 {
		t.Errorf("C++ constructor: form %v, %d params", ctor.Form, len(ctor.Params))
	}
	if ctor := c.Members[8].(*FuncDecl); ctor.Form != KeywordForm || len(ctor.Params) != 1 {
		t.Errorf("script constructor: form %v, %d params", ctor.Form, len(ctor.Params))
	}
}

func TestParseClassForms(t *testing.T) {
	tests := []struct {
		src     string
		base    string
		forward bool
		tparams int
	}{
		{"class Foo;", "any", true, 0},
		{"class A {}", "any", false, 0},
		{"class B extends A { }", "A", false, 0},
		{"class C : public A { }", "A", false, 0},
		{"template <typename T> class Box { T value; Box(T v) { value = v; } T get() { return value; } }", "any", false, 1},
		{"template <typename K, class V> class Map;", "any", true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parseProgram(t, tt.src)
			c := prog.Decls[0].(*ClassDecl)
			if TypeString(c.Base) != tt.base || c.Forward != tt.forward || len(c.TypeParams) != tt.tparams {
				t.Errorf("got base %s forward %v tparams %d", TypeString(c.Base), c.Forward, len(c.TypeParams))
			}
		})
	}
}

func TestParseTemplateFunction(t *testing.T) {
	prog := parseProgram(t, "template <typename T> T max(T a, T b) { return a > b ? a : b; }\n"+
		"template <typename T> function id(x: T): T { return x; }")
	for i, d := range prog.Decls {
		f := d.(*FuncDecl)
		if len(f.TypeParams) != 1 || f.TypeParams[0].Value != "T" {
			t.Errorf("decl %d: type params %v", i, f.TypeParams)
		}
	}
}

func TestParseInterface(t *testing.T) {
	prog := parseProgram(t, `
interface Drawable extends Shape {
	void draw();
	color: int;
	getName(): string;
	function size(): int;
	float scale(float k);
}`)
	d := prog.Decls[0].(*InterfaceDecl)
	if d.Name.Value != "Drawable" || TypeString(d.Base) != "Shape" {
		t.Errorf("got interface %s base %s", d.Name.Value, TypeString(d.Base))
	}
	checkStrings(t, "members", summaries(d.Members), []string{
		"func draw public",
		"var color int public",
		"func getName public",
		"func size public",
		"func scale public",
	})
	for _, m := range d.Members {
		if f, ok := m.(*FuncDecl); ok && f.Body != nil {
			t.Errorf("interface method %s has a body", f.Name.Value)
		}
	}
}

// A structural interface, a class with one base reference and a plain
// function parse to three declarations when every flavor is enabled. With
// interfaces disabled the interface is rejected with a syntax error.
func TestParseFeatureGates(t *testing.T) {
	src := `
interface Shape { float area(); }
class Circle : Shape { float r; float area() { return 3.14f * r * r; } }
int main() { return 0; }
`
	prog, sink := parseWith(t, src, AllFeatures())
	if sink.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", diagString(sink))
	}
	checkStrings(t, "all features", summaries(prog.Decls),
		[]string{"interface Shape", "class Circle", "func main public"})

	noIfaces := AllFeatures()
	noIfaces.StructuralInterfaces = false
	prog, sink = parseWith(t, src, noIfaces)
	if sink.Count(diag.InCategory(diag.Syntax)) < 1 {
		t.Fatal("no syntax error with interfaces disabled")
	}
	if !strings.Contains(sink.Diagnostics()[0].Msg, "interfaces are not enabled") {
		t.Errorf("first error = %q", sink.Diagnostics()[0].Msg)
	}
	checkStrings(t, "no interfaces", summaries(prog.Decls), []string{"class Circle", "func main public"})

	prog, sink = parseWith(t, src, Features{})
	checkStrings(t, "C only", summaries(prog.Decls), []string{"func main public"})
	if sink.ErrorCount() != 2 {
		t.Errorf("C only: got %d errors, want 2:\n%s", sink.ErrorCount(), diagString(sink))
	}
}

func TestParseDisabledConstructs(t *testing.T) {
	tests := []struct {
		src  string
		f    Features
		want string
	}{
		{"template <typename T> class Box {}", Features{}, "templates are not enabled"},
		{"class A {}", Features{StructuralInterfaces: true}, "classes are not enabled"},
		{"void f() { p = new A(); }", Features{}, "new expressions are not enabled"},
		{"void f() { s = `x`; }", Features{ClassTemplates: true}, "template strings are not enabled"},
	}
	for _, tt := range tests {
		_, sink := parseWith(t, tt.src, tt.f)
		if sink.ErrorCount() != 1 || !strings.Contains(sink.Diagnostics()[0].Msg, tt.want) {
			t.Errorf("%q: got\n%swant one error %q", tt.src, diagString(sink), tt.want)
		}
	}
}

// ----------------------------------------------------------------------------
// Statements

func stmtTypeName(s Stmt) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", s), "*syntax.")
}

func TestParseStatements(t *testing.T) {
	prog := parseProgram(t, `
void f() {
	int i = 0;
	let j = 1;
	if (i < j) i++; else { j--; }
	while (i < 10) i += 1;
	do { i--; } while (i > 0);
	for (int k = 0; k < 3; k++) { continue; }
	for (;;) break;
	for (i = 0; i < 2; ) {}
	;
	print(i);
	return;
}`)
	body := prog.Decls[0].(*FuncDecl).Body
	var got []string
	for _, s := range body.Stmts {
		got = append(got, stmtTypeName(s))
	}
	checkStrings(t, "statements", got, []string{
		"DeclStmt", "DeclStmt", "IfStmt", "WhileStmt", "DoWhileStmt",
		"ForStmt", "ForStmt", "ForStmt", "EmptyStmt", "ExprStmt", "ReturnStmt",
	})

	ifs := body.Stmts[2].(*IfStmt)
	if _, ok := ifs.Then.(*ExprStmt); !ok {
		t.Errorf("then = %T, want *ExprStmt", ifs.Then)
	}
	if _, ok := ifs.Else.(*BlockStmt); !ok {
		t.Errorf("else = %T, want *BlockStmt", ifs.Else)
	}

	loop := body.Stmts[5].(*ForStmt)
	if _, ok := loop.Init.(*DeclStmt); !ok || ExprString(loop.Cond) != "k < 3" || ExprString(loop.Post) != "k++" {
		t.Errorf("for clauses: %T %s %s", loop.Init, ExprString(loop.Cond), ExprString(loop.Post))
	}
	empty := body.Stmts[6].(*ForStmt)
	if empty.Init != nil || empty.Cond != nil || empty.Post != nil {
		t.Error("for (;;) has clauses")
	}
	if _, ok := body.Stmts[7].(*ForStmt).Init.(*ExprStmt); !ok {
		t.Error("for (i = 0; ...) init is not an expression statement")
	}
}

func TestParseDeclVsExpr(t *testing.T) {
	tests := []struct {
		stmt string
		want string
	}{
		{"a * b;", "DeclStmt"},  // declaration wins, as in C
		{"a * b = c;", "DeclStmt"},
		{"a * b, c;", "DeclStmt"},
		{"a * b[2];", "DeclStmt"},
		{"a * b + c;", "ExprStmt"},
		{"x * y == z;", "ExprStmt"},
		{"n * m * k;", "ExprStmt"},
		{"a * b.c;", "ExprStmt"},
		{"a.b = c;", "ExprStmt"},
		{"a[1] = 2;", "ExprStmt"},
		{"a[1] b;", "DeclStmt"},
		{"a < b;", "ExprStmt"},
		{"Box<int> b;", "DeclStmt"},
		{"let x = 1;", "DeclStmt"},
		{"x;", "ExprStmt"},
		{"f(x);", "ExprStmt"},
	}
	for _, tt := range tests {
		prog := parseProgram(t, "void f() { "+tt.stmt+" }")
		body := prog.Decls[0].(*FuncDecl).Body
		if got := stmtTypeName(body.Stmts[0]); got != tt.want {
			t.Errorf("%q parsed as %s, want %s", tt.stmt, got, tt.want)
		}
	}
}

func TestUnterminatedTemplateReportedOnce(t *testing.T) {
	for _, src := range []string{
		"let s = `abc ${ \"x",
		"let s = `abc ${ 'x",
		"let s = `${a +",
		"let s = `${ `${b",
	} {
		t.Run(src, func(t *testing.T) {
			prog, sink := parseWith(t, src, AllFeatures())
			if n := sink.Count(diag.InCategory(diag.Lexical)); n != 1 {
				t.Fatalf("got %d lexical errors, want 1:\n%s", n, diagString(sink))
			}
			d := sink.Diagnostics()[0]
			if d.Msg != "template string not terminated" || d.Pos.String() != "test.wf:1:9" {
				t.Errorf("first diagnostic = %s", d)
			}
			if len(prog.Decls) != 1 {
				t.Fatalf("got %d declarations, want 1", len(prog.Decls))
			}
			if _, ok := prog.Decls[0].(*VarDecl).Value.(*BadExpr); !ok {
				t.Errorf("value is %T, want *BadExpr", prog.Decls[0].(*VarDecl).Value)
			}
		})
	}
}

func TestProductStatements(t *testing.T) {
	tests := []struct {
		stmt string
		want string // ExprString of the product reading, or "" for none
	}{
		{"a * b;", "a * b"},
		{"float * p;", "float * p"},
		{"a * b = c;", ""},
		{"a * b, c;", ""},
		{"a ** b;", ""},
		{"int b;", ""},
		{"let b = a;", ""},
	}
	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			prog, sink := parseWith(t, "void f() { "+tt.stmt+" }", AllFeatures())
			if sink.HasErrors() {
				t.Fatalf("unexpected errors:\n%s", diagString(sink))
			}
			d, ok := prog.Decls[0].(*FuncDecl).Body.Stmts[0].(*DeclStmt)
			if !ok {
				t.Fatalf("%q is not a declaration", tt.stmt)
			}
			x := d.AsProduct()
			if tt.want == "" {
				if x != nil {
					t.Errorf("AsProduct = %s, want nil", ExprString(x.X))
				}
				return
			}
			if x == nil {
				t.Fatal("AsProduct = nil")
			}
			if got := ExprString(x.X); got != tt.want {
				t.Errorf("AsProduct = %s, want %s", got, tt.want)
			}
			if x.Pos() != d.Pos() {
				t.Errorf("position = %s, want %s", x.Pos(), d.Pos())
			}
		})
	}
}

func TestParseMultiplicationStatements(t *testing.T) {
	for _, src := range []string{"a * b + c;", "x * y == z;", "n * m * k;"} {
		t.Run(src, func(t *testing.T) {
			prog, sink := parseWith(t, "void f() { "+src+" }", AllFeatures())
			if sink.HasErrors() {
				t.Fatalf("unexpected errors:\n%s", diagString(sink))
			}
			s, ok := prog.Decls[0].(*FuncDecl).Body.Stmts[0].(*ExprStmt)
			if !ok {
				t.Fatalf("parsed as %T", prog.Decls[0].(*FuncDecl).Body.Stmts[0])
			}
			if _, ok := s.X.(*Operation); !ok {
				t.Errorf("expression is %T, want *Operation", s.X)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Expressions

func TestParseExpressions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a + b * c", "a + (b * c)"},
		{"a * b + c", "(a * b) + c"},
		{"a - b - c", "(a - b) - c"},
		{"a = b = c", "a = (b = c)"},
		{"a += b * 2", "a += (b * 2)"},
		{"c ? x : y", "c ? x : y"},
		{"a ? b : c ? d : e", "a ? b : (c ? d : e)"},
		{"a ? b ? c : d : e", "a ? (b ? c : d) : e"},
		{"x = a || b ? 1 : 2", "x = ((a || b) ? 1 : 2)"},
		{"-a * b", "(-a) * b"},
		{"!a.b", "!a.b"},
		{"(a + b) * c", "(a + b) * c"},
		{"((a))", "((a))"},
		{"x = (a ? b : c) + 1", "x = ((a ? b : c) + 1)"},
		{"f(a, b + 1)[i].x", "f(a, b + 1)[i].x"},
		{"p->next->val", "p->next->val"},
		{"i++ + ++j", "(i++) + (++j)"},
		{"a < b == c > d", "(a < b) == (c > d)"},
		{"a && b || c && d", "(a && b) || (c && d)"},
		{"a | b ^ c & d", "a | (b ^ (c & d))"},
		{"1 << 2 + 3", "1 << (2 + 3)"},
		{"*p = &x", "(*p) = (&x)"},
		{"~x % 4", "(~x) % 4"},
		{"new Box<int>(1, 2)", "new Box<int>(1, 2)"},
		{"new Node", "new Node()"},
		{"[1, 2, 3,]", "[1, 2, 3]"},
		{"vec3(1.0, 2.0, 3.0).xy", "vec3(1.0, 2.0, 3.0).xy"},
		{"this.x = 'it'", "this.x = \"it\""},
		{"int(x) + float(y)", "int(x) + float(y)"},
		{"f(g(h(1)))", "f(g(h(1)))"},
		{"(a, b)", "<bad>"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if tt.want == "<bad>" {
				_, sink := parseWith(t, "void f() { "+tt.src+"; }", AllFeatures())
				if !sink.HasErrors() {
					t.Errorf("%q parsed without errors", tt.src)
				}
				return
			}
			if got := ExprString(parseExpr(t, tt.src)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseLiteralKinds(t *testing.T) {
	tests := []struct {
		src  string
		kind LitKind
	}{
		{"1", IntLit},
		{"0x1F", IntLit},
		{"1.5", FloatLit},
		{"2f", FloatLit},
		{"3.0d", FloatLit},
		{"'s'", StringLit},
	}
	for _, tt := range tests {
		lit, ok := parseExpr(t, tt.src).(*BasicLit)
		if !ok || lit.Kind != tt.kind {
			t.Errorf("%q: got %#v, want kind %v", tt.src, lit, tt.kind)
		}
	}
}

func TestParseDeepParens(t *testing.T) {
	const depth = 10000
	src := "void f() { x = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + "; }"
	_, sink := parseWith(t, src, AllFeatures())
	if sink.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", diagString(sink))
	}
}

func TestParseNestingLimit(t *testing.T) {
	const depth = 300
	src := "void f() { x = " + strings.Repeat("f(", depth) + "1" + strings.Repeat(")", depth) + "; }"
	prog, sink := parseWith(t, src, AllFeatures())
	if sink.ErrorCount() != 1 || !strings.Contains(sink.Diagnostics()[0].Msg, "nested too deeply") {
		t.Fatalf("got:\n%s", diagString(sink))
	}
	if len(prog.Decls) != 1 {
		t.Errorf("got %d decls, want 1", len(prog.Decls))
	}
}

func TestParseTemplateStrings(t *testing.T) {
	tests := []struct {
		src   string
		parts []string
		exprs []string
	}{
		{"`plain`", []string{"plain"}, nil},
		{"`sum = ${a + b}!`", []string{"sum = ", "!"}, []string{"a + b"}},
		{"`${x}${y}`", []string{"", "", ""}, []string{"x", "y"}},
		{"`a${`b${c}`}d`", []string{"a", "d"}, []string{"`b${c}`"}},
		{"`${ {1} }`", []string{"", ""}, []string{"<bad>"}},
		{"`\\${x} \\n`", []string{"${x} \n"}, nil},
		{"`${f(\"}\")}`", []string{"", ""}, []string{"f(\"}\")"}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if tt.exprs != nil && tt.exprs[0] == "<bad>" {
				_, sink := parseWith(t, "void f() { "+tt.src+"; }", AllFeatures())
				if !sink.HasErrors() {
					t.Error("no error for block in template expression")
				}
				return
			}
			lit, ok := parseExpr(t, tt.src).(*TemplateLit)
			if !ok {
				t.Fatalf("not a template literal")
			}
			checkStrings(t, "parts", lit.Parts, tt.parts)
			var exprs []string
			for _, x := range lit.Exprs {
				exprs = append(exprs, ExprString(x))
			}
			checkStrings(t, "exprs", exprs, tt.exprs)
		})
	}
}

func TestParseTemplatePositions(t *testing.T) {
	prog := parseProgram(t, "let s = `v=${x}`;\nlet m = `a\n${y}`;")
	x := prog.Decls[0].(*VarDecl).Value.(*TemplateLit).Exprs[0]
	if got := x.Pos().String(); got != "test.wf:1:14" {
		t.Errorf("x at %s, want test.wf:1:14", got)
	}
	y := prog.Decls[1].(*VarDecl).Value.(*TemplateLit).Exprs[0]
	if got := y.Pos().String(); got != "test.wf:3:3" {
		t.Errorf("y at %s, want test.wf:3:3", got)
	}
}

func TestParseTemplateErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
		pos  string
	}{
		{"let s = `${}`;", "empty expression in template string", "test.wf:1:12"},
		{"let s = `${a +}`;", "expected expression", ""},
		{"let s = `${a b}`;", "unexpected name b in template expression", "test.wf:1:14"},
		{"let s = `${@}`;", "unexpected character", "test.wf:1:12"},
	}
	for _, tt := range tests {
		_, sink := parseWith(t, tt.src, AllFeatures())
		if sink.ErrorCount() < 1 {
			t.Errorf("%q: no errors", tt.src)
			continue
		}
		d := sink.Diagnostics()[0]
		if !strings.Contains(d.Msg, tt.want) {
			t.Errorf("%q: error %q, want %q", tt.src, d.Msg, tt.want)
		}
		if tt.pos != "" && d.Pos.String() != tt.pos {
			t.Errorf("%q: error at %s, want %s", tt.src, d.Pos, tt.pos)
		}
	}
}

// ----------------------------------------------------------------------------
// Errors and recovery

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string // substring of the single expected error
		pos  string
	}{
		{"missing_operand", "int x = ;", `expected expression, found ";"`, "test.wf:1:9"},
		{"missing_semi_before_brace", "void f() { x = 1 }", `expected ";", found "}"`, "test.wf:1:18"},
		{"missing_semi_break", "void f() { break }", `expected ";"`, "test.wf:1:18"},
		{"nested_function", "void f() { int g() { } }", "nested function declarations are not supported", "test.wf:1:12"},
		{"nested_class", "void f() { class A {} }", "nested class declarations are not supported", "test.wf:1:12"},
		{"stray_expression", "x + 1;", "expected declaration, found name x", "test.wf:1:1"},
		{"missing_colon", "void f() { a ? b; }", `expected ":" in conditional expression`, "test.wf:1:17"},
		{"missing_rparen", "void f() { (a + b; }", `expected ")"`, "test.wf:1:18"},
		{"call_missing_comma", "void f() { f(a b); }", `expected ")", found name b`, "test.wf:1:16"},
		{"member_missing_semi", "class A { int x }", `expected ";"`, "test.wf:1:17"},
		{"interface_body", "interface I { void f() { } }", "interface method f cannot have a body", "test.wf:1:24"},
		{"interface_init", "interface I { x: int = 3; }", "interface field x cannot have an initializer", "test.wf:1:24"},
		{"missing_name", "let = 5;", `expected name, found "="`, "test.wf:1:5"},
		{"template_without_decl", "template <typename T> int x;", "expected class or function after template parameters", "test.wf:1:27"},
		{"missing_body", "int f() return 1;", `expected function body or ";"`, "test.wf:1:9"},
		{"bad_typeparam", "template <T> class A {}", "expected typename", "test.wf:1:11"},
		{"visibility_in_body", "void f() { public int x; }", "unexpected public in function body", "test.wf:1:12"},
		{"bad_member", "class A { 42; }", "expected member declaration, found literal", "test.wf:1:11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, sink := parseWith(t, tt.src, AllFeatures())
			if sink.ErrorCount() != 1 {
				t.Fatalf("got %d errors, want 1:\n%s", sink.ErrorCount(), diagString(sink))
			}
			d := sink.Diagnostics()[0]
			if d.Category != diag.Syntax {
				t.Errorf("category = %v, want syntax", d.Category)
			}
			if !strings.Contains(d.Msg, tt.want) {
				t.Errorf("message = %q, want substring %q", d.Msg, tt.want)
			}
			if d.Pos.String() != tt.pos {
				t.Errorf("position = %s, want %s", d.Pos, tt.pos)
			}
		})
	}
}

func TestParseIllegalTokenNoExtraError(t *testing.T) {
	_, sink := parseWith(t, "void f() { x = 0x; }", AllFeatures())
	if sink.ErrorCount() != 1 || sink.Diagnostics()[0].Category != diag.Lexical {
		t.Errorf("got:\n%swant a single lexical error", diagString(sink))
	}
}

func TestParseErrorRecovery(t *testing.T) {
	src := `int a = ;
void f() { x = 1 }
int ok = 2;
class C { int y }
function g(): int { return 1; }
`
	prog, sink := parseWith(t, src, AllFeatures())
	if sink.ErrorCount() != 3 {
		t.Errorf("got %d errors, want 3:\n%s", sink.ErrorCount(), diagString(sink))
	}
	checkStrings(t, "decls", summaries(prog.Decls), []string{
		"var a int public", "func f public", "var ok int public", "class C", "func g public",
	})

	// One error per token position.
	seen := map[string]bool{}
	for _, d := range sink.Diagnostics() {
		if seen[d.Pos.String()] {
			t.Errorf("two errors at %s", d.Pos)
		}
		seen[d.Pos.String()] = true
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{
		"", "}", "{", "(", ")", "class", "class A", "class A {", "interface",
		"int", "int x", "int f(", "int f(int", "void f() {", "void f() { if",
		"void f() { for (", "template", "template <", "template <typename",
		"let x = a ?", "let x = (((", "let x = )))", "let x = [1, 2",
		"let x = new", "Box<", "Box<int", "Box<Box<int>", "a->", "`${",
		"function", "function f(a:", "public", "public:", "class A { public: }",
	}
	for _, in := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("parser panicked on %q: %v", in, r)
				}
			}()
			parseWith(t, in, AllFeatures())
		}()
	}
}

func TestNewParserAddsEOF(t *testing.T) {
	toks := Tokenize("t.wf", "int x;", nil)
	prog := NewParser(toks[:len(toks)-1], AllFeatures(), nil).Parse()
	if len(prog.Decls) != 1 {
		t.Errorf("got %d decls, want 1", len(prog.Decls))
	}
	if prog := NewParser(nil, AllFeatures(), nil).Parse(); len(prog.Decls) != 0 {
		t.Errorf("empty token slice gave %d decls", len(prog.Decls))
	}
}

func TestParserErrorsCount(t *testing.T) {
	toks := Tokenize("t.wf", "int a = ; int b = ;", nil)
	p := NewParser(toks, AllFeatures(), nil)
	p.Parse()
	if p.Errors() != 2 {
		t.Errorf("Errors() = %d, want 2", p.Errors())
	}
}

// ----------------------------------------------------------------------------
// Printing and walking

func TestFprint(t *testing.T) {
	prog := parseProgram(t, "int add(int a, int b) { return a + b; }")
	var buf bytes.Buffer
	Fprint(&buf, prog)
	out := buf.String()
	for _, want := range []string{"Program", "FuncDecl add test.wf:1:1", "Param: a int", "Result: int", "ReturnStmt a + b"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFprintJSON(t *testing.T) {
	prog := parseProgram(t, "class A { int x; }\nint f() { return 1; }")
	var buf bytes.Buffer
	if err := FprintJSON(&buf, prog); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Type  string `json:"type"`
		Decls []struct {
			Type    string            `json:"type"`
			Name    string            `json:"name"`
			Members []json.RawMessage `json:"members"`
			Form    string            `json:"form"`
		} `json:"decls"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if got.Type != "Program" || len(got.Decls) != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Decls[0].Type != "ClassDecl" || len(got.Decls[0].Members) != 1 {
		t.Errorf("class: %+v", got.Decls[0])
	}
	if got.Decls[1].Type != "FuncDecl" || got.Decls[1].Form != "c" {
		t.Errorf("func: %+v", got.Decls[1])
	}
}

func TestWalk(t *testing.T) {
	prog := parseProgram(t, "int add(int a, int b) { return a + b; }")
	var names []string
	Walk(prog, func(n Node) bool {
		if name, ok := n.(*Name); ok {
			names = append(names, name.Value)
		}
		return true
	})
	checkStrings(t, "names", names, []string{"add", "a", "int", "b", "int", "int", "a", "b"})
}

func TestInspectPrune(t *testing.T) {
	prog := parseProgram(t, `
void f() {
	if (x > 0) { if (y) { } }
	while (z) { if (w) {} }
}`)
	var ifs, whiles int
	Inspect(prog, func(n Node) bool {
		switch n.(type) {
		case *IfStmt:
			ifs++
		case *WhileStmt:
			whiles++
			return false
		}
		return true
	})
	if ifs != 2 || whiles != 1 {
		t.Errorf("got %d ifs and %d whiles, want 2 and 1", ifs, whiles)
	}
}

func TestParseGolden(t *testing.T) {
	files, err := filepath.Glob("testdata/parse_*.wf")
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			src, err := os.ReadFile(f)
			if err != nil {
				t.Fatal(err)
			}

			sink := diag.NewSink()
			prog := NewParser(Tokenize(f, string(src), sink), AllFeatures(), sink).Parse()
			if sink.HasErrors() {
				t.Fatalf("errors:\n%s", diagString(sink))
			}

			var buf bytes.Buffer
			Fprint(&buf, prog)
			got := buf.String()

			golden := strings.TrimSuffix(f, ".wf") + ".ast.golden"

			if os.Getenv("UPDATE_GOLDEN") != "" {
				if err := os.WriteFile(golden, []byte(got), 0644); err != nil {
					t.Fatal(err)
				}
				return
			}

			want, err := os.ReadFile(golden)
			if err != nil {
				if os.IsNotExist(err) {
					if err := os.WriteFile(golden, []byte(got), 0644); err != nil {
						t.Fatal(err)
					}
					t.Logf("created golden file: %s", golden)
					return
				}
				t.Fatal(err)
			}

			if got != string(want) {
				t.Errorf("AST mismatch for %s\nRun with UPDATE_GOLDEN=1 to update", f)
			}
		})
	}
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"int main() { return 0; }",
		"class A : B { public: A(int x) { } private: int y; }",
		"interface I { void f(); }",
		"template <typename T> class Box { T v; }",
		"function f(a: int, b): float { return a ? b : 1.0; }",
		"let s = `x = ${x + `y${z}`}`;",
		"void f() { for (int i = 0; i < 10; i++) { if (i) continue; } }",
		"Box<Box<int>> b = new Box<Box<int>>();",
		"void f() { p->x = -(a + b) * c[2]; }",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, src string) {
		sink := diag.NewSink()
		toks := Tokenize("fuzz.wf", src, sink)
		if toks[len(toks)-1].Tok != _EOF {
			t.Fatal("missing EOF")
		}
		_ = NewParser(toks, AllFeatures(), sink).Parse()
	})
}
