// Package syntax implements lexical and syntactic analysis for the Weft language.
package syntax

import (
	"fmt"

	"github.com/weft-lang/weft/internal/src"
)

// Tok is the fine-grained type of a lexical token.
type Tok uint

const (
	// Special tokens
	_EOF     Tok = iota // end of file
	_Illegal            // error-recovery placeholder for a malformed token

	// Names and literals
	_Name        // identifier: foo, Circle, vec3
	_Int         // 123, 0x1F, 0o17, 0b1010
	_Float       // 3.14, 1e10, 2.5f, 1.0d
	_String      // "hello", 'world'
	_TemplateLit // `hello ${name}`

	// Assignment operators
	_Assign    // =
	_AddAssign // +=
	_SubAssign // -=
	_MulAssign // *=
	_DivAssign // /=
	_RemAssign // %=

	// Conditional
	_Question // ?

	// Binary operators, low to high precedence
	_OrOr   // ||
	_AndAnd // &&
	_Or     // |
	_Xor    // ^
	_And    // &
	_Eql    // ==
	_Neq    // !=
	_Lss    // <
	_Leq    // <=
	_Gtr    // >
	_Geq    // >=
	_Shl    // <<
	_Shr    // >>
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /
	_Rem    // %

	// Unary and postfix operators
	_Not   // !
	_Tilde // ~
	_Inc   // ++
	_Dec   // --
	_Arrow // ->
	_Dot   // .

	// Delimiters
	_Lparen // (
	_Rparen // )
	_Lbrack // [
	_Rbrack // ]
	_Lbrace // {
	_Rbrace // }
	_Comma  // ,
	_Semi   // ;
	_Colon  // :

	// Keywords
	_Break
	_Class
	_Const
	_Continue
	_Do
	_Else
	_Extends
	_For
	_Function
	_If
	_Interface
	_Let
	_New
	_Private
	_Protected
	_Public
	_Return
	_Template
	_This
	_Typename
	_Var
	_While

	tokCount
)

var tokNames = [...]string{
	_EOF:     "EOF",
	_Illegal: "ILLEGAL",

	_Name:        "NAME",
	_Int:         "INT",
	_Float:       "FLOAT",
	_String:      "STRING",
	_TemplateLit: "TEMPLATE",

	_Assign:    "=",
	_AddAssign: "+=",
	_SubAssign: "-=",
	_MulAssign: "*=",
	_DivAssign: "/=",
	_RemAssign: "%=",

	_Question: "?",

	_OrOr:   "||",
	_AndAnd: "&&",
	_Or:     "|",
	_Xor:    "^",
	_And:    "&",
	_Eql:    "==",
	_Neq:    "!=",
	_Lss:    "<",
	_Leq:    "<=",
	_Gtr:    ">",
	_Geq:    ">=",
	_Shl:    "<<",
	_Shr:    ">>",
	_Add:    "+",
	_Sub:    "-",
	_Mul:    "*",
	_Div:    "/",
	_Rem:    "%",

	_Not:   "!",
	_Tilde: "~",
	_Inc:   "++",
	_Dec:   "--",
	_Arrow: "->",
	_Dot:   ".",

	_Lparen: "(",
	_Rparen: ")",
	_Lbrack: "[",
	_Rbrack: "]",
	_Lbrace: "{",
	_Rbrace: "}",
	_Comma:  ",",
	_Semi:   ";",
	_Colon:  ":",

	_Break:     "break",
	_Class:     "class",
	_Const:     "const",
	_Continue:  "continue",
	_Do:        "do",
	_Else:      "else",
	_Extends:   "extends",
	_For:       "for",
	_Function:  "function",
	_If:        "if",
	_Interface: "interface",
	_Let:       "let",
	_New:       "new",
	_Private:   "private",
	_Protected: "protected",
	_Public:    "public",
	_Return:    "return",
	_Template:  "template",
	_This:      "this",
	_Typename:  "typename",
	_Var:       "var",
	_While:     "while",
}

// String returns the string representation of the token.
func (t Tok) String() string {
	if t < tokCount {
		return tokNames[t]
	}
	return fmt.Sprintf("tok(%d)", t)
}

// Precedence returns the precedence of a binary operator, or 0.
// Higher binds tighter:
//
//	3: ||
//	4: &&
//	5: |
//	6: ^
//	7: &
//	8: == !=
//	9: < <= > >=
//	10: << >>
//	11: + -
//	12: * / %
//
// Assignment (1) and the conditional operator (2) are handled separately
// because they are right-associative.
func (t Tok) Precedence() int {
	switch t {
	case _OrOr:
		return 3
	case _AndAnd:
		return 4
	case _Or:
		return 5
	case _Xor:
		return 6
	case _And:
		return 7
	case _Eql, _Neq:
		return 8
	case _Lss, _Leq, _Gtr, _Geq:
		return 9
	case _Shl, _Shr:
		return 10
	case _Add, _Sub:
		return 11
	case _Mul, _Div, _Rem:
		return 12
	}
	return 0
}

const (
	precAssign = 1
	precCond   = 2
	precUnary  = 13
)

// IsKeyword reports whether t is a keyword token.
func (t Tok) IsKeyword() bool {
	return t >= _Break && t <= _While
}

// IsOperator reports whether t is an operator token.
func (t Tok) IsOperator() bool {
	return t >= _Assign && t <= _Dot
}

// IsAssignOp reports whether t is = or a compound assignment.
func (t Tok) IsAssignOp() bool {
	return t >= _Assign && t <= _RemAssign
}

// BinaryOp returns the binary operator of a compound assignment (+= yields +).
func (t Tok) BinaryOp() Tok {
	switch t {
	case _AddAssign:
		return _Add
	case _SubAssign:
		return _Sub
	case _MulAssign:
		return _Mul
	case _DivAssign:
		return _Div
	case _RemAssign:
		return _Rem
	}
	return t
}

// Exported tokens for the semantic analyzer.
const (
	EOF      Tok = _EOF
	Assign   Tok = _Assign
	OrOr     Tok = _OrOr
	AndAnd   Tok = _AndAnd
	Or       Tok = _Or
	Xor      Tok = _Xor
	And      Tok = _And
	Eql      Tok = _Eql
	Neq      Tok = _Neq
	Lss      Tok = _Lss
	Leq      Tok = _Leq
	Gtr      Tok = _Gtr
	Geq      Tok = _Geq
	Shl      Tok = _Shl
	Shr      Tok = _Shr
	Add      Tok = _Add
	Sub      Tok = _Sub
	Mul      Tok = _Mul
	Div      Tok = _Div
	Rem      Tok = _Rem
	Not      Tok = _Not
	Tilde    Tok = _Tilde
	Inc      Tok = _Inc
	Dec      Tok = _Dec
	Break    Tok = _Break
	Continue Tok = _Continue
	Const    Tok = _Const
	Let      Tok = _Let
	Var      Tok = _Var
)

// Kind is the coarse classification of a token.
type Kind uint8

const (
	KindEOF Kind = iota
	KindIllegal
	KindKeyword
	KindIdent
	KindNumber
	KindString
	KindTemplate
	KindOperator
	KindPunct
)

var kindNames = [...]string{
	KindEOF:      "eof",
	KindIllegal:  "illegal",
	KindKeyword:  "keyword",
	KindIdent:    "identifier",
	KindNumber:   "number",
	KindString:   "string",
	KindTemplate: "template",
	KindOperator: "operator",
	KindPunct:    "punctuation",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Token is a classified lexical unit with its source position.
type Token struct {
	Tok Tok
	Lit string // identifier, keyword or operator text; literal text (decoded for strings)
	Pos src.Pos

	Unterminated bool // string or template literal cut off by the end of input
}

// Kind classifies the token.
func (t Token) Kind() Kind {
	switch {
	case t.Tok == _EOF:
		return KindEOF
	case t.Tok == _Illegal:
		return KindIllegal
	case t.Tok.IsKeyword():
		return KindKeyword
	case t.Tok == _Name:
		return KindIdent
	case t.Tok == _Int || t.Tok == _Float:
		return KindNumber
	case t.Tok == _String:
		return KindString
	case t.Tok == _TemplateLit:
		return KindTemplate
	case t.Tok.IsOperator():
		return KindOperator
	}
	return KindPunct
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Tok, t.Lit)
}

// keywords maps keyword strings to their token.
// Type names (int, float, vec3, any, ...) and the constants true, false and
// null are not keywords; they are predeclared names resolved during analysis.
var keywords = map[string]Tok{
	"break":     _Break,
	"class":     _Class,
	"const":     _Const,
	"continue":  _Continue,
	"do":        _Do,
	"else":      _Else,
	"extends":   _Extends,
	"for":       _For,
	"function":  _Function,
	"if":        _If,
	"interface": _Interface,
	"let":       _Let,
	"new":       _New,
	"private":   _Private,
	"protected": _Protected,
	"public":    _Public,
	"return":    _Return,
	"template":  _Template,
	"this":      _This,
	"typename":  _Typename,
	"var":       _Var,
	"while":     _While,
}

// LookupKeyword returns the keyword token for ident, or _Name.
func LookupKeyword(ident string) Tok {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return _Name
}
