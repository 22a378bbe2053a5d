package syntax

import (
	"strings"
	"testing"

	"github.com/weft-lang/weft/internal/diag"
)

// scanAll tokenizes text and returns the token types and literals,
// excluding the final EOF.
func scanAll(t *testing.T, text string) ([]Tok, []string, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	toks := Tokenize("test.wf", text, sink)
	if n := len(toks); n == 0 || toks[n-1].Tok != _EOF {
		t.Fatalf("Tokenize(%q) does not end with EOF: %v", text, toks)
	}
	var tt []Tok
	var lits []string
	for _, tok := range toks[:len(toks)-1] {
		tt = append(tt, tok.Tok)
		lits = append(lits, tok.Lit)
	}
	return tt, lits, sink
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Tok
		lits   []string
	}{
		// Identifiers and predeclared names
		{"ident", "foo", []Tok{_Name}, []string{"foo"}},
		{"ident_underscore", "_bar9", []Tok{_Name}, []string{"_bar9"}},
		{"predecl_int", "int", []Tok{_Name}, []string{"int"}},
		{"predecl_vec3", "vec3", []Tok{_Name}, []string{"vec3"}},
		{"predecl_any", "any", []Tok{_Name}, []string{"any"}},
		{"predecl_null", "null", []Tok{_Name}, []string{"null"}},
		{"case_sensitive", "Class", []Tok{_Name}, []string{"Class"}},

		// Keywords
		{"kw_class", "class", []Tok{_Class}, []string{"class"}},
		{"kw_function", "function", []Tok{_Function}, []string{"function"}},
		{"kw_template", "template typename", []Tok{_Template, _Typename}, []string{"template", "typename"}},
		{"kw_bindings", "let var const", []Tok{_Let, _Var, _Const}, []string{"let", "var", "const"}},

		// Integers
		{"int_dec", "123", []Tok{_Int}, []string{"123"}},
		{"int_hex", "0x1F", []Tok{_Int}, []string{"0x1F"}},
		{"int_oct", "0o17", []Tok{_Int}, []string{"0o17"}},
		{"int_bin", "0b1010", []Tok{_Int}, []string{"0b1010"}},
		{"int_leading_zero", "007", []Tok{_Int}, []string{"007"}},
		{"int_then_dot", "1.x", []Tok{_Int, _Dot, _Name}, []string{"1", ".", "x"}},

		// Floats
		{"float_frac", "3.14", []Tok{_Float}, []string{"3.14"}},
		{"float_exp", "1e10", []Tok{_Float}, []string{"1e10"}},
		{"float_exp_sign", "2.5e-3", []Tok{_Float}, []string{"2.5e-3"}},
		{"float_suffix_f", "2.5f", []Tok{_Float}, []string{"2.5f"}},
		{"float_suffix_d", "1.0D", []Tok{_Float}, []string{"1.0D"}},
		{"float_int_suffix", "10f", []Tok{_Float}, []string{"10f"}},

		// Strings
		{"string_double", `"hello"`, []Tok{_String}, []string{"hello"}},
		{"string_single", `'world'`, []Tok{_String}, []string{"world"}},
		{"string_empty", `""`, []Tok{_String}, []string{""}},
		{"string_escapes", `"a\n\t\r\\\"\'b"`, []Tok{_String}, []string{"a\n\t\r\\\"'b"}},
		{"string_nul_hex", `'\0\x41'`, []Tok{_String}, []string{"\x00A"}},
		{"string_other_quote", `"it's"`, []Tok{_String}, []string{"it's"}},
		{"string_multiline", "\"a\nb\"", []Tok{_String}, []string{"a\nb"}},

		// Templates keep their raw text
		{"template_plain", "`hi`", []Tok{_TemplateLit}, []string{"hi"}},
		{"template_interp", "`x = ${x}`", []Tok{_TemplateLit}, []string{"x = ${x}"}},
		{"template_nested_braces", "`${ {a} }`", []Tok{_TemplateLit}, []string{"${ {a} }"}},
		{"template_nested_string", "`${\"}\"}`", []Tok{_TemplateLit}, []string{"${\"}\"}"}},
		{"template_nested_template", "`a${`b${c}`}d`", []Tok{_TemplateLit}, []string{"a${`b${c}`}d"}},
		{"template_escaped_tick", "`a\\`b`", []Tok{_TemplateLit}, []string{"a\\`b"}},

		// Operators
		{"op_arith", "+ - * / %", []Tok{_Add, _Sub, _Mul, _Div, _Rem}, []string{"+", "-", "*", "/", "%"}},
		{"op_incdec", "++ --", []Tok{_Inc, _Dec}, []string{"++", "--"}},
		{"op_assign", "= += -= *= /= %=", []Tok{_Assign, _AddAssign, _SubAssign, _MulAssign, _DivAssign, _RemAssign},
			[]string{"=", "+=", "-=", "*=", "/=", "%="}},
		{"op_compare", "== != < <= > >=", []Tok{_Eql, _Neq, _Lss, _Leq, _Gtr, _Geq},
			[]string{"==", "!=", "<", "<=", ">", ">="}},
		{"op_logic", "&& || !", []Tok{_AndAnd, _OrOr, _Not}, []string{"&&", "||", "!"}},
		{"op_bits", "& | ^ ~ << >>", []Tok{_And, _Or, _Xor, _Tilde, _Shl, _Shr},
			[]string{"&", "|", "^", "~", "<<", ">>"}},
		{"op_member", "a->b.c", []Tok{_Name, _Arrow, _Name, _Dot, _Name}, []string{"a", "->", "b", ".", "c"}},
		{"op_cond", "a ? b : c", []Tok{_Name, _Question, _Name, _Colon, _Name}, []string{"a", "?", "b", ":", "c"}},
		{"op_arrow_vs_sub", "a - >b", []Tok{_Name, _Sub, _Gtr, _Name}, []string{"a", "-", ">", "b"}},

		// Delimiters
		{"delims", "( ) [ ] { } , ;", []Tok{_Lparen, _Rparen, _Lbrack, _Rbrack, _Lbrace, _Rbrace, _Comma, _Semi},
			[]string{"(", ")", "[", "]", "{", "}", ",", ";"}},

		// Comments and whitespace
		{"line_comment", "a // b\nc", []Tok{_Name, _Name}, []string{"a", "c"}},
		{"block_comment", "a /* b\n * c */ d", []Tok{_Name, _Name}, []string{"a", "d"}},
		{"block_comment_not_nested", "/* /* */ x", []Tok{_Name}, []string{"x"}},
		{"newlines_are_space", "a\n\n\tb", []Tok{_Name, _Name}, []string{"a", "b"}},
		{"empty", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, lits, sink := scanAll(t, tt.src)
			if sink.HasErrors() {
				t.Fatalf("unexpected errors: %v", sink.Diagnostics())
			}
			if len(toks) != len(tt.tokens) {
				t.Fatalf("got %d tokens %v, want %d %v", len(toks), toks, len(tt.tokens), tt.tokens)
			}
			for i := range toks {
				if toks[i] != tt.tokens[i] {
					t.Errorf("token %d = %v, want %v", i, toks[i], tt.tokens[i])
				}
				if lits[i] != tt.lits[i] {
					t.Errorf("literal %d = %q, want %q", i, lits[i], tt.lits[i])
				}
			}
		})
	}
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		tokens []Tok
		msg    string // substring of the single expected error
		pos    string
	}{
		{"unterminated_double", `x = "abc`, []Tok{_Name, _Assign, _String}, "string literal not terminated", "test.wf:1:5"},
		{"unterminated_single", "'abc\ndef", []Tok{_String}, "string literal not terminated", "test.wf:1:1"},
		{"unterminated_backslash", `"abc\`, []Tok{_String}, "string literal not terminated", "test.wf:1:1"},
		{"unterminated_template", "a `b${c}", []Tok{_Name, _TemplateLit}, "template string not terminated", "test.wf:1:3"},
		{"unterminated_interp", "`${ \"x` ", []Tok{_TemplateLit}, "template string not terminated", "test.wf:1:1"},
		{"unterminated_comment", "a /* b", []Tok{_Name}, "comment not terminated", "test.wf:1:3"},
		{"unknown_char", "a @ b", []Tok{_Name, _Name}, "unexpected character '@'", "test.wf:1:3"},
		{"unknown_escape", `"\q"`, []Tok{_String}, "unknown escape sequence", "test.wf:1:3"},
		{"bad_hex_escape", `"\xZZ"`, []Tok{_String}, "invalid hex escape", "test.wf:1:4"},
		{"unterminated_hex_escape", `'abc\x`, []Tok{_String}, "string literal not terminated", "test.wf:1:1"},
		{"unterminated_hex_digit", `"\x4`, []Tok{_String}, "string literal not terminated", "test.wf:1:1"},
		{"invalid_utf8", "a = \xff;", []Tok{_Name, _Assign, _Semi}, "invalid UTF-8 encoding", "test.wf:1:5"},
		{"replacement_char", "a \uFFFD b", []Tok{_Name, _Name}, "unexpected character", "test.wf:1:3"},
		{"hex_no_digits", "0x", []Tok{_Illegal}, "hexadecimal literal has no digits", "test.wf:1:1"},
		{"hex_no_digits_suffix", "0xg1 y", []Tok{_Illegal, _Name}, "hexadecimal literal has no digits", "test.wf:1:1"},
		{"octal_bad_digit", "0o19", []Tok{_Illegal}, "invalid digit '9' in octal literal", "test.wf:1:1"},
		{"binary_bad_digit", "x = 0b102;", []Tok{_Name, _Assign, _Illegal, _Semi}, "invalid digit '2' in binary literal", "test.wf:1:5"},
		{"bad_suffix", "12abc", []Tok{_Illegal}, "invalid suffix 'a'", "test.wf:1:1"},
		{"bad_suffix_after_f", "1.5fx", []Tok{_Illegal}, "invalid suffix 'x'", "test.wf:1:1"},
		{"exponent_no_digits", "1e+", []Tok{_Illegal}, "exponent has no digits", "test.wf:1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _, sink := scanAll(t, tt.src)
			if sink.ErrorCount() != 1 {
				t.Fatalf("got %d errors %v, want exactly 1", sink.ErrorCount(), sink.Diagnostics())
			}
			d := sink.Diagnostics()[0]
			if d.Category != diag.Lexical {
				t.Errorf("category = %v, want lexical", d.Category)
			}
			if !strings.Contains(d.Msg, tt.msg) {
				t.Errorf("message = %q, want substring %q", d.Msg, tt.msg)
			}
			if d.Pos.String() != tt.pos {
				t.Errorf("position = %s, want %s", d.Pos, tt.pos)
			}
			if len(toks) != len(tt.tokens) {
				t.Fatalf("got tokens %v, want %v", toks, tt.tokens)
			}
			for i := range toks {
				if toks[i] != tt.tokens[i] {
					t.Errorf("token %d = %v, want %v", i, toks[i], tt.tokens[i])
				}
			}
		})
	}
}

func TestScanUnterminatedFlag(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`"abc"`, false},
		{`"abc`, true},
		{"`a${b}`", false},
		{"`a${b}", true},
		{"`${ \"x", true},
		{"x", false},
	}
	for _, tt := range tests {
		toks := Tokenize("f.wf", tt.src, nil)
		if got := toks[0].Unterminated; got != tt.want {
			t.Errorf("%q: Unterminated = %t, want %t", tt.src, got, tt.want)
		}
		if toks[len(toks)-1].Unterminated {
			t.Errorf("%q: EOF token marked unterminated", tt.src)
		}
	}
}

func TestScanPositions(t *testing.T) {
	text := "int x = 1;\n  float y;\n`t`"
	toks := Tokenize("p.wf", text, nil)
	want := []string{"p.wf:1:1", "p.wf:1:5", "p.wf:1:7", "p.wf:1:9", "p.wf:1:10",
		"p.wf:2:3", "p.wf:2:9", "p.wf:2:10", "p.wf:3:1", "p.wf:3:4"}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, tok := range toks {
		if tok.Pos.String() != want[i] {
			t.Errorf("token %d (%v) at %s, want %s", i, tok.Tok, tok.Pos, want[i])
		}
		if i > 0 && !toks[i-1].Pos.Before(tok.Pos) {
			t.Errorf("token %d not after token %d", i, i-1)
		}
	}
}

func TestScannerAt(t *testing.T) {
	s := NewScannerAt("p.wf", strings.NewReader("a + b"), 3, 7, nil)
	s.Next()
	if s.Tok() != _Name || s.Literal() != "a" || s.Pos().String() != "p.wf:3:7" {
		t.Errorf("got %v %q at %s", s.Tok(), s.Literal(), s.Pos())
	}
	s.Next()
	s.Next()
	if s.Pos().String() != "p.wf:3:11" {
		t.Errorf("b at %s, want p.wf:3:11", s.Pos())
	}
}

func TestTokenizeNeverPanics(t *testing.T) {
	inputs := []string{
		"\"", "'", "`", "`${", "/*", "0x", "0b", "1e", "\\", "\x00", "\xff\xfe",
		"${}", "}}}{{{", "->->", "`${`${`${", "'\\x", "\"\\x4",
	}
	for _, in := range inputs {
		toks := Tokenize("f.wf", in, diag.NewSink())
		if len(toks) == 0 || toks[len(toks)-1].Tok != _EOF {
			t.Errorf("Tokenize(%q) = %v, want trailing EOF", in, toks)
		}
	}
}
