package core

import "bytes"

// TokenType represents the type of token
type TokenType int

const (
	TokenWhitespace TokenType = iota
	TokenDelimiter
	TokenKeyword // one of the reserved words
	TokenRegular // any other run of plain bytes: numbers, operators, junk
)

// String returns the name of the token type
func (t TokenType) String() string {
	switch t {
	case TokenWhitespace:
		return "Whitespace"
	case TokenDelimiter:
		return "Delimiter"
	case TokenKeyword:
		return "Keyword"
	case TokenRegular:
		return "Regular"
	default:
		return "Unknown"
	}
}

// Keyword identifies a reserved word
type Keyword int

const (
	KeywordNone Keyword = iota
	KeywordTrue
	KeywordFalse
	KeywordObj
	KeywordEndobj
	KeywordNull
	KeywordStream
	KeywordEndstream
	KeywordR
	KeywordXref
	KeywordTrailer
	KeywordN
	KeywordF
	KeywordStartxref
)

var keywords = map[string]Keyword{
	"true":      KeywordTrue,
	"false":     KeywordFalse,
	"obj":       KeywordObj,
	"endobj":    KeywordEndobj,
	"null":      KeywordNull,
	"stream":    KeywordStream,
	"endstream": KeywordEndstream,
	"R":         KeywordR,
	"xref":      KeywordXref,
	"trailer":   KeywordTrailer,
	"n":         KeywordN,
	"f":         KeywordF,
	"startxref": KeywordStartxref,
}

// Token is a lexeme in the buffer. Value aliases the buffer and must not be
// modified.
type Token struct {
	Type    TokenType
	Class   ByteClass // first byte's class; exact kind for whitespace and delimiters
	Keyword Keyword   // set when Type is TokenKeyword
	Value   []byte
	Pos     int64 // offset of Value[0] in the buffer
}

// End returns the offset just past the token.
func (t Token) End() int64 {
	return t.Pos + int64(len(t.Value))
}

// Is reports whether t is the given keyword.
func (t Token) Is(kw Keyword) bool {
	return t.Type == TokenKeyword && t.Keyword == kw
}

// IsDelim reports whether t is the given delimiter byte.
func (t Token) IsDelim(b byte) bool {
	return t.Type == TokenDelimiter && t.Value[0] == b
}

// Lexer is a cursor over an immutable buffer. A Lexer must not be shared
// between goroutines; create one per caller instead.
type Lexer struct {
	buf []byte
	pos int64
}

// NewLexer creates a new lexer positioned at offset 0
func NewLexer(buf []byte) *Lexer {
	return &Lexer{buf: buf}
}

// Pos returns the cursor position
func (l *Lexer) Pos() int64 {
	return l.pos
}

// SetPos moves the cursor. Positions outside the buffer are allowed; the
// next read reports ErrEndOfInput.
func (l *Lexer) SetPos(pos int64) {
	l.pos = pos
}

// Len returns the buffer length
func (l *Lexer) Len() int64 {
	return int64(len(l.buf))
}

// Bytes returns buf[start:end] clamped to the buffer.
func (l *Lexer) Bytes(start, end int64) []byte {
	if start < 0 {
		start = 0
	}
	if end > int64(len(l.buf)) {
		end = int64(len(l.buf))
	}
	if start >= end {
		return nil
	}
	return l.buf[start:end]
}

// Peek returns the token at the cursor without consuming it.
//
// Only literal space bytes are skipped; every other whitespace byte is
// returned as a one-byte whitespace token. Use SkipWhitespace or
// PeekSignificant to ignore all whitespace and comments.
func (l *Lexer) Peek() (Token, error) {
	n := int64(len(l.buf))
	if l.pos < 0 || l.pos >= n {
		return Token{}, newError(ErrEndOfInput, l.pos, "")
	}

	start := l.pos
	for start < n && l.buf[start] == ' ' {
		start++
	}
	if start == n {
		return Token{Type: TokenWhitespace, Class: ClassSpace, Value: l.buf[l.pos:n], Pos: l.pos}, nil
	}

	b := l.buf[start]
	class := Classify(b)
	switch {
	case class.IsWhitespace():
		return Token{Type: TokenWhitespace, Class: class, Value: l.buf[start : start+1], Pos: start}, nil
	case class.IsDelimiter():
		return Token{Type: TokenDelimiter, Class: class, Value: l.buf[start : start+1], Pos: start}, nil
	}

	end := start + 1
	for end < n && isRegular(l.buf[end]) {
		end++
	}
	value := l.buf[start:end]
	if kw, ok := keywords[string(value)]; ok {
		return Token{Type: TokenKeyword, Class: ClassPlain, Keyword: kw, Value: value, Pos: start}, nil
	}
	return Token{Type: TokenRegular, Class: ClassPlain, Value: value, Pos: start}, nil
}

// Next returns the token at the cursor and moves past it.
func (l *Lexer) Next() (Token, error) {
	tok, err := l.Peek()
	if err != nil {
		return tok, err
	}
	l.pos = tok.End()
	return tok, nil
}

// SkipWhitespace moves the cursor past all whitespace kinds and % comments.
func (l *Lexer) SkipWhitespace() {
	n := int64(len(l.buf))
	for l.pos >= 0 && l.pos < n {
		b := l.buf[l.pos]
		if isWhitespace(b) {
			l.pos++
			continue
		}
		if b == '%' {
			// Comments run to the end of the line; the EOL itself is whitespace.
			for l.pos < n && l.buf[l.pos] != '\r' && l.buf[l.pos] != '\n' {
				l.pos++
			}
			continue
		}
		return
	}
}

// PeekSignificant skips whitespace and comments, then peeks.
func (l *Lexer) PeekSignificant() (Token, error) {
	l.SkipWhitespace()
	return l.Peek()
}

// NextSignificant skips whitespace and comments, then consumes a token.
func (l *Lexer) NextSignificant() (Token, error) {
	l.SkipWhitespace()
	return l.Next()
}

// byteAt returns the byte at pos and whether pos is inside the buffer.
func (l *Lexer) byteAt(pos int64) (byte, bool) {
	if pos < 0 || pos >= int64(len(l.buf)) {
		return 0, false
	}
	return l.buf[pos], true
}

// lastIndex finds the last occurrence of word at a token boundary.
func (l *Lexer) lastIndex(word []byte) int64 {
	end := len(l.buf)
	for {
		i := bytes.LastIndex(l.buf[:end], word)
		if i < 0 {
			return -1
		}
		after := i + len(word)
		if (i == 0 || !isRegular(l.buf[i-1])) && (after >= len(l.buf) || !isRegular(l.buf[after])) {
			return int64(i)
		}
		end = i
	}
}
