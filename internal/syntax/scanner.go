package syntax

import (
	"fmt"
	"io"
	"strings"

	"github.com/weft-lang/weft/internal/diag"
	"github.com/weft-lang/weft/internal/src"
)

// Scanner performs lexical analysis on Weft source code.
type Scanner struct {
	source // embedded character reader

	// Current token info
	tok    Tok     // token type
	lit    string  // token text; decoded content for strings, raw content for templates
	tokPos src.Pos // token start position
	cut    bool    // literal not terminated

	// Literal accumulation
	litBuf strings.Builder
}

// NewScanner creates a new Scanner for the given source.
// The errh function is called for each lexical error; if nil, errors are silently ignored.
func NewScanner(filename string, r io.Reader, errh func(line, col uint32, msg string)) *Scanner {
	return NewScannerAt(filename, r, 1, 1, errh)
}

// NewScannerAt is like NewScanner but positions the first character at line:col.
func NewScannerAt(filename string, r io.Reader, line, col uint32, errh func(line, col uint32, msg string)) *Scanner {
	return &Scanner{source: *newSourceAt(filename, r, line, col, errh)}
}

// Tokenize scans text to completion and returns its tokens.
// The result always ends with an EOF token. Lexical errors are reported to
// sink, which may be nil.
func Tokenize(filename, text string, sink *diag.Sink) []Token {
	var errh func(line, col uint32, msg string)
	if sink != nil {
		errh = func(line, col uint32, msg string) {
			sink.ReportLexicalError(src.NewPos(filename, line, col), msg)
		}
	}
	s := NewScanner(filename, strings.NewReader(text), errh)
	var toks []Token
	for {
		s.Next()
		toks = append(toks, s.Token())
		if s.tok == _EOF {
			return toks
		}
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	for isWhitespace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()
	s.cut = false

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.scanIdent()

	case isDigit(s.ch):
		s.scanNumber()

	case s.ch == '"' || s.ch == '\'':
		s.scanString()

	case s.ch == '`':
		s.scanTemplate()

	case isOperatorStart(s.ch):
		if s.scanOperator() {
			// a comment was skipped
			goto redo
		}

	default:
		if !s.bad {
			s.error(fmt.Sprintf("unexpected character %q", s.ch))
		}
		s.nextch()
		goto redo
	}
}

// Tok returns the current token type.
func (s *Scanner) Tok() Tok {
	return s.tok
}

// Literal returns the current token's literal value.
func (s *Scanner) Literal() string {
	return s.lit
}

// Pos returns the current token's start position.
func (s *Scanner) Pos() src.Pos {
	return s.tokPos
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return Token{Tok: s.tok, Lit: s.lit, Pos: s.tokPos, Unterminated: s.cut}
}

func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
}

func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
}

func (s *Scanner) scanIdent() {
	s.startLit()
	s.nextch()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// scanNumber scans an integer or floating-point literal.
//
// A malformed literal is reported once, at its start, and becomes a single
// _Illegal token that also swallows any trailing letters and digits.
func (s *Scanner) scanNumber() {
	s.litBuf.Reset()
	s.tok = _Int
	var bad string

	if s.ch == '0' && strings.ContainsRune("xXoObB", s.peek()) {
		s.continueLit()
		s.nextch()
		base, name := 16, "hexadecimal"
		switch lower(s.ch) {
		case 'o':
			base, name = 8, "octal"
		case 'b':
			base, name = 2, "binary"
		}
		s.continueLit()
		s.nextch()

		n := 0
		for isDigitOf(s.ch, base) {
			s.continueLit()
			s.nextch()
			n++
		}
		switch {
		case n == 0:
			bad = name + " literal has no digits"
		case isDigit(s.ch):
			bad = fmt.Sprintf("invalid digit %q in %s literal", s.ch, name)
		}
	} else {
		s.scanDigits()
		if s.ch == '.' && isDigit(s.peek()) {
			s.tok = _Float
			s.continueLit()
			s.nextch()
			s.scanDigits()
		}
		if lower(s.ch) == 'e' {
			s.tok = _Float
			s.continueLit()
			s.nextch()
			if s.ch == '+' || s.ch == '-' {
				s.continueLit()
				s.nextch()
			}
			if isDigit(s.ch) {
				s.scanDigits()
			} else {
				bad = "exponent has no digits"
			}
		}
		if bad == "" && (lower(s.ch) == 'f' || lower(s.ch) == 'd') {
			s.tok = _Float
			s.continueLit()
			s.nextch()
		}
	}

	if bad == "" && (isLetter(s.ch) || isDigit(s.ch)) {
		bad = fmt.Sprintf("invalid suffix %q on number literal", s.ch)
	}
	if bad != "" {
		for isLetter(s.ch) || isDigit(s.ch) {
			s.continueLit()
			s.nextch()
		}
		s.errorAt(s.tokPos, bad)
		s.tok = _Illegal
	}
	s.lit = s.litBuf.String()
}

func (s *Scanner) scanDigits() {
	for isDigit(s.ch) {
		s.continueLit()
		s.nextch()
	}
}

func isDigitOf(r rune, base int) bool {
	switch base {
	case 2:
		return isBinaryDigit(r)
	case 8:
		return isOctalDigit(r)
	}
	return isHexDigit(r)
}

// scanString scans a single- or double-quoted string literal.
// The resulting literal is the decoded string content. Strings may span lines.
func (s *Scanner) scanString() {
	quote := s.ch
	s.nextch()
	var b strings.Builder

	s.tok = _String
	for {
		switch {
		case s.ch == quote:
			s.nextch()
			s.lit = b.String()
			return

		case s.ch == '\\':
			if r, ok := s.scanEscape(); ok {
				b.WriteRune(r)
			}

		case s.ch < 0:
			s.errorAt(s.tokPos, "string literal not terminated")
			s.lit = b.String()
			s.cut = true
			return

		default:
			b.WriteRune(s.ch)
			s.nextch()
		}
	}
}

// scanEscape scans an escape sequence and returns the decoded rune.
func (s *Scanner) scanEscape() (rune, bool) {
	s.nextch() // skip \

	switch s.ch {
	case 'n':
		s.nextch()
		return '\n', true
	case 't':
		s.nextch()
		return '\t', true
	case 'r':
		s.nextch()
		return '\r', true
	case '0':
		s.nextch()
		return 0, true
	case '\\', '"', '\'', '`', '$':
		r := s.ch
		s.nextch()
		return r, true
	case 'x':
		s.nextch()
		return s.scanHexEscape()
	case -1:
		// reported by the caller as an unterminated literal
		return 0, false
	default:
		s.error(fmt.Sprintf("unknown escape sequence: \\%c", s.ch))
		s.nextch()
		return 0, false
	}
}

// scanHexEscape scans the two digits of a \xNN escape sequence.
func (s *Scanner) scanHexEscape() (rune, bool) {
	var val rune
	for i := 0; i < 2; i++ {
		if s.ch < 0 {
			// reported by the caller as an unterminated literal
			return 0, false
		}
		if !isHexDigit(s.ch) {
			s.error("invalid hex escape")
			return 0, false
		}
		val = val*16 + hexValue(s.ch)
		s.nextch()
	}
	return val, true
}

func hexValue(r rune) rune {
	switch {
	case '0' <= r && r <= '9':
		return r - '0'
	case 'a' <= lower(r) && lower(r) <= 'f':
		return lower(r) - 'a' + 10
	}
	return 0
}

// scanTemplate scans a backtick template string. The literal is the raw text
// between the backticks; the parser splits it into parts and interpolations.
func (s *Scanner) scanTemplate() {
	s.nextch() // skip `
	s.litBuf.Reset()
	s.tok = _TemplateLit
	if !s.rawTemplate() {
		s.errorAt(s.tokPos, "template string not terminated")
		s.cut = true
	}
	s.lit = s.litBuf.String()
}

// rawTemplate copies template text into litBuf up to the closing backtick,
// which it consumes but does not copy. Inside ${...} it tracks brace depth
// and copies nested strings and templates whole. It reports whether the
// closing backtick was found.
func (s *Scanner) rawTemplate() bool {
	depth := 0
	for {
		switch {
		case s.ch < 0:
			return false

		case s.ch == '`' && depth == 0:
			s.nextch()
			return true

		case s.ch == '\\':
			s.continueLit()
			s.nextch()
			if s.ch < 0 {
				return false
			}
			s.continueLit()
			s.nextch()

		case s.ch == '$' && s.peek() == '{':
			s.continueLit()
			s.nextch()
			s.continueLit()
			s.nextch()
			depth++

		case depth > 0 && s.ch == '{':
			s.continueLit()
			s.nextch()
			depth++

		case depth > 0 && s.ch == '}':
			s.continueLit()
			s.nextch()
			depth--

		case depth > 0 && (s.ch == '"' || s.ch == '\''):
			if !s.rawQuoted() {
				return false
			}

		case depth > 0 && s.ch == '`':
			s.continueLit()
			s.nextch()
			if !s.rawTemplate() {
				return false
			}
			s.litBuf.WriteByte('`')

		default:
			s.continueLit()
			s.nextch()
		}
	}
}

// rawQuoted copies a quoted string, quotes included, into litBuf.
func (s *Scanner) rawQuoted() bool {
	quote := s.ch
	s.continueLit()
	s.nextch()
	for s.ch >= 0 {
		switch s.ch {
		case quote:
			s.continueLit()
			s.nextch()
			return true
		case '\\':
			s.continueLit()
			s.nextch()
			if s.ch < 0 {
				return false
			}
		}
		s.continueLit()
		s.nextch()
	}
	return false
}

// scanOperator scans an operator or delimiter.
// Returns true if a comment was skipped (caller should rescan).
func (s *Scanner) scanOperator() bool {
	ch := s.ch
	s.nextch()

	switch ch {
	case '+':
		s.pick(_Add, '+', _Inc, '=', _AddAssign)
	case '-':
		s.pick(_Sub, '-', _Dec, '=', _SubAssign, '>', _Arrow)
	case '*':
		s.pick(_Mul, '=', _MulAssign)
	case '/':
		switch s.ch {
		case '/':
			s.skipLineComment()
			return true
		case '*':
			s.skipBlockComment()
			return true
		}
		s.pick(_Div, '=', _DivAssign)
	case '%':
		s.pick(_Rem, '=', _RemAssign)
	case '&':
		s.pick(_And, '&', _AndAnd)
	case '|':
		s.pick(_Or, '|', _OrOr)
	case '^':
		s.pick(_Xor)
	case '<':
		s.pick(_Lss, '=', _Leq, '<', _Shl)
	case '>':
		s.pick(_Gtr, '=', _Geq, '>', _Shr)
	case '=':
		s.pick(_Assign, '=', _Eql)
	case '!':
		s.pick(_Not, '=', _Neq)
	case '~':
		s.pick(_Tilde)
	case '?':
		s.pick(_Question)
	case ':':
		s.pick(_Colon)
	case '(':
		s.pick(_Lparen)
	case ')':
		s.pick(_Rparen)
	case '[':
		s.pick(_Lbrack)
	case ']':
		s.pick(_Rbrack)
	case '{':
		s.pick(_Lbrace)
	case '}':
		s.pick(_Rbrace)
	case ',':
		s.pick(_Comma)
	case ';':
		s.pick(_Semi)
	case '.':
		s.pick(_Dot)
	}
	return false
}

// pick sets the current token to single, or to the two-character operator
// paired with the current character in alts (given as char, token pairs),
// consuming that character.
func (s *Scanner) pick(single Tok, alts ...interface{}) {
	s.tok = single
	for i := 0; i+1 < len(alts); i += 2 {
		if s.ch == alts[i].(rune) {
			s.nextch()
			s.tok = alts[i+1].(Tok)
			break
		}
	}
	s.lit = s.tok.String()
}

// skipLineComment skips a line comment (from // to end of line).
func (s *Scanner) skipLineComment() {
	s.nextch() // second /
	for s.ch != '\n' && s.ch >= 0 {
		s.nextch()
	}
}

// skipBlockComment skips a /* */ comment. Block comments do not nest.
func (s *Scanner) skipBlockComment() {
	s.nextch() // *
	for s.ch >= 0 {
		if s.ch == '*' && s.peek() == '/' {
			s.nextch()
			s.nextch()
			return
		}
		s.nextch()
	}
	s.errorAt(s.tokPos, "comment not terminated")
}
