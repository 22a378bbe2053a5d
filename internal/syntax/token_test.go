package syntax

import (
	"strconv"
	"strings"
	"testing"
)

func TestTokString(t *testing.T) {
	tests := []struct {
		tok  Tok
		want string
	}{
		{_EOF, "EOF"},
		{_Illegal, "ILLEGAL"},
		{_Name, "NAME"},
		{_TemplateLit, "TEMPLATE"},
		{_AddAssign, "+="},
		{_Question, "?"},
		{_Arrow, "->"},
		{_Tilde, "~"},
		{_Class, "class"},
		{_Typename, "typename"},
		{tokCount + 5, "tok(" + strconv.Itoa(int(tokCount)+5) + ")"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.tok, got, tt.want)
		}
	}
}

func TestTokNamesComplete(t *testing.T) {
	for tok := Tok(0); tok < tokCount; tok++ {
		if tokNames[tok] == "" {
			t.Errorf("token %d has no name", tok)
		}
	}
}

func TestTokPrecedence(t *testing.T) {
	tests := []struct {
		toks []Tok
		want int
	}{
		{[]Tok{_OrOr}, 3},
		{[]Tok{_AndAnd}, 4},
		{[]Tok{_Or}, 5},
		{[]Tok{_Xor}, 6},
		{[]Tok{_And}, 7},
		{[]Tok{_Eql, _Neq}, 8},
		{[]Tok{_Lss, _Leq, _Gtr, _Geq}, 9},
		{[]Tok{_Shl, _Shr}, 10},
		{[]Tok{_Add, _Sub}, 11},
		{[]Tok{_Mul, _Div, _Rem}, 12},
		{[]Tok{_Assign, _AddAssign, _Question, _Colon, _Not, _Name, _Dot}, 0},
	}
	for _, tt := range tests {
		for _, tok := range tt.toks {
			if got := tok.Precedence(); got != tt.want {
				t.Errorf("%v.Precedence() = %d, want %d", tok, got, tt.want)
			}
		}
	}
	if !(precAssign < precCond && precCond < _OrOr.Precedence() && _Mul.Precedence() < precUnary) {
		t.Error("precedence levels out of order")
	}
}

func TestTokClasses(t *testing.T) {
	for tok := Tok(0); tok < tokCount; tok++ {
		_, isKw := keywords[tok.String()]
		if tok.IsKeyword() != isKw {
			t.Errorf("%v.IsKeyword() = %v, keyword table says %v", tok, tok.IsKeyword(), isKw)
		}
		if tok.IsKeyword() && tok.IsOperator() {
			t.Errorf("%v is both keyword and operator", tok)
		}
		if tok.IsAssignOp() && !tok.IsOperator() {
			t.Errorf("%v is an assignment but not an operator", tok)
		}
	}
	for _, tok := range []Tok{_Assign, _AddAssign, _SubAssign, _MulAssign, _DivAssign, _RemAssign} {
		if !tok.IsAssignOp() {
			t.Errorf("%v.IsAssignOp() = false", tok)
		}
	}
	if _Eql.IsAssignOp() || _Lparen.IsOperator() {
		t.Error("misclassified token")
	}
}

func TestBinaryOp(t *testing.T) {
	pairs := map[Tok]Tok{
		_AddAssign: _Add, _SubAssign: _Sub, _MulAssign: _Mul,
		_DivAssign: _Div, _RemAssign: _Rem, _Assign: _Assign,
	}
	for in, want := range pairs {
		if got := in.BinaryOp(); got != want {
			t.Errorf("%v.BinaryOp() = %v, want %v", in, got, want)
		}
	}
}

func TestTokenKind(t *testing.T) {
	tests := []struct {
		src  string
		want []Kind
	}{
		{"class Foo", []Kind{KindKeyword, KindIdent, KindEOF}},
		{"1 2.0 'a' `t`", []Kind{KindNumber, KindNumber, KindString, KindTemplate, KindEOF}},
		{"a += b;", []Kind{KindIdent, KindOperator, KindIdent, KindPunct, KindEOF}},
		{"( ) { } ? :", []Kind{KindPunct, KindPunct, KindPunct, KindPunct, KindOperator, KindPunct, KindEOF}},
		{"0x", []Kind{KindIllegal, KindEOF}},
	}
	for _, tt := range tests {
		toks := Tokenize("k.wf", tt.src, nil)
		var got []string
		for _, tok := range toks {
			got = append(got, tok.Kind().String())
		}
		var want []string
		for _, k := range tt.want {
			want = append(want, k.String())
		}
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("%q kinds = %v, want %v", tt.src, got, want)
		}
	}
}

func TestKindString(t *testing.T) {
	if KindIdent.String() != "identifier" || KindPunct.String() != "punctuation" {
		t.Errorf("unexpected kind names %q %q", KindIdent, KindPunct)
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}

func TestLookupKeyword(t *testing.T) {
	for word, tok := range keywords {
		if got := LookupKeyword(word); got != tok {
			t.Errorf("LookupKeyword(%q) = %v, want %v", word, got, tok)
		}
	}
	for _, word := range []string{"int", "float", "vec3", "any", "true", "null", "Class", "If", "constructor"} {
		if got := LookupKeyword(word); got != _Name {
			t.Errorf("LookupKeyword(%q) = %v, want NAME", word, got)
		}
	}
	if len(keywords) != int(_While-_Break)+1 {
		t.Errorf("keyword table has %d entries, want %d", len(keywords), _While-_Break+1)
	}
}

func TestTokenString(t *testing.T) {
	toks := Tokenize("s.wf", "x", nil)
	if got := toks[0].String(); got != `s.wf:1:1 NAME "x"` {
		t.Errorf("String() = %s", got)
	}
}
