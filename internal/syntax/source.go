package syntax

import (
	"io"
	"unicode/utf8"

	"github.com/weft-lang/weft/internal/src"
)

// source is a character reader with position tracking.
// It reads UTF-8 encoded text and provides character-by-character access.
type source struct {
	buf []byte // entire input

	filename string
	line     uint32 // current line number (1-based)
	col      uint32 // current column number (1-based, byte offset)

	ch   rune // current character, -1 for EOF
	offs int  // byte offset of the character after ch
	bad  bool // ch came from an invalid UTF-8 encoding, already reported

	errh func(line, col uint32, msg string)
}

// newSource creates a source reading all of src.
// The errh function is called for each error; if nil, errors are ignored.
func newSource(filename string, r io.Reader, errh func(line, col uint32, msg string)) *source {
	return newSourceAt(filename, r, 1, 1, errh)
}

// newSourceAt is like newSource but numbers the first character line:col.
// It is used to scan text embedded in a larger file, such as template
// string interpolations.
func newSourceAt(filename string, r io.Reader, line, col uint32, errh func(line, col uint32, msg string)) *source {
	s := &source{
		filename: filename,
		line:     line,
		col:      col - 1, // incremented by the first nextch
		ch:       -1,
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(r)
	if err != nil {
		s.error("error reading source: " + err.Error())
		s.ch = -1
		return s
	}

	s.nextch()
	return s
}

// nextch reads the next character and updates the position.
// (line, col) always refers to s.ch after nextch returns.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	s.bad = r == utf8.RuneError && width == 1
	if s.bad {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
	s.offs += width
}

// peek returns the character after s.ch without consuming anything.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

// pos returns the position of the current character.
func (s *source) pos() src.Pos {
	return src.NewPos(s.filename, s.line, s.col)
}

// error reports a lexical error at the current position.
func (s *source) error(msg string) {
	s.errorAt(s.pos(), msg)
}

// errorAt reports a lexical error at pos.
func (s *source) errorAt(pos src.Pos, msg string) {
	if s.errh != nil {
		s.errh(pos.Line(), pos.Col(), msg)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || 'a' <= lower(r) && lower(r) <= 'f'
}

func isOctalDigit(r rune) bool {
	return '0' <= r && r <= '7'
}

func isBinaryDigit(r rune) bool {
	return r == '0' || r == '1'
}

// lower returns the lowercase version of an ASCII letter; OR-ing with 0x20
// leaves digits and most punctuation unchanged.
func lower(r rune) rune {
	return ('a' - 'A') | r
}

func isWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isOperatorStart(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '=', '!', '~', '?', ':',
		'(', ')', '[', ']', '{', '}', ',', ';', '.':
		return true
	}
	return false
}
