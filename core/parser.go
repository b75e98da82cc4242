package core

import (
	"errors"
	"fmt"
	"strconv"
)

// ReferenceResolver is an interface for resolving indirect references.
// This allows the parser to resolve indirect stream lengths when needed.
type ReferenceResolver interface {
	ResolveReference(ref IndirectRef) (Object, error)
}

// Parser builds objects from the tokens of a buffer. It holds a cursor, so a
// Parser must not be shared between goroutines.
type Parser struct {
	lex      *Lexer
	resolver ReferenceResolver
}

// NewParser creates a new parser positioned at offset 0.
func NewParser(buf []byte) *Parser {
	return &Parser{lex: NewLexer(buf)}
}

// SetReferenceResolver sets the reference resolver for the parser.
// This is needed to resolve indirect stream lengths.
func (p *Parser) SetReferenceResolver(resolver ReferenceResolver) {
	p.resolver = resolver
}

// Pos returns the cursor position.
func (p *Parser) Pos() int64 {
	return p.lex.Pos()
}

// SetPos moves the cursor.
func (p *Parser) SetPos(pos int64) {
	p.lex.SetPos(pos)
}

// Lexer exposes the underlying tokenizer.
func (p *Parser) Lexer() *Lexer {
	return p.lex
}

// ParseObjectAt parses one object starting at offset.
func (p *Parser) ParseObjectAt(offset int64) (Object, error) {
	p.lex.SetPos(offset)
	return p.ParseObject()
}

// ParseObject parses the next object. On success the cursor is just past
// the object; leading whitespace and comments are skipped, trailing ones are
// not.
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.lex.PeekSignificant()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenDelimiter:
		switch tok.Value[0] {
		case '(':
			return p.parseLiteralString(tok.Pos)
		case '<':
			if b, ok := p.lex.byteAt(tok.Pos + 1); ok && b == '<' {
				return p.parseDictOrStream(tok.Pos)
			}
			return p.parseHexString(tok.Pos)
		case '/':
			return p.parseName(tok.Pos)
		case '[':
			return p.parseArray(tok.Pos)
		}
		return nil, newError(ErrUnexpectedToken, tok.Pos, "unexpected delimiter %q", tok.Value)

	case TokenKeyword:
		switch tok.Keyword {
		case KeywordTrue:
			p.lex.SetPos(tok.End())
			return Bool(true), nil
		case KeywordFalse:
			p.lex.SetPos(tok.End())
			return Bool(false), nil
		case KeywordNull:
			p.lex.SetPos(tok.End())
			return Null{}, nil
		}
		return nil, newError(ErrUnexpectedToken, tok.Pos, "unexpected keyword %q", tok.Value)

	case TokenRegular:
		return p.parseNumber(tok)
	}

	return nil, newError(ErrUnexpectedToken, tok.Pos, "unexpected %v token", tok.Type)
}

// truncated turns end-of-input inside a construct into ErrUnexpectedEnd.
func truncated(err error, start int64, what string) error {
	if errors.Is(err, ErrEndOfInput) {
		return newError(ErrUnexpectedEnd, start, "unterminated %s", what)
	}
	return err
}

// parseNumber parses an integer, real number, or indirect reference.
// Indirect references are detected by lookahead: "num gen R" pattern.
func (p *Parser) parseNumber(tok Token) (Object, error) {
	p.lex.SetPos(tok.End())

	if n, ok := parseInteger(tok.Value); ok {
		if n >= 0 {
			if ref, ok := p.tryReference(n); ok {
				return ref, nil
			}
		}
		return Int(n), nil
	}

	if isRealLexeme(tok.Value) {
		f, err := strconv.ParseFloat(string(tok.Value), 64)
		if err == nil {
			return Real(f), nil
		}
	}

	p.lex.SetPos(tok.Pos)
	return nil, newError(ErrUnexpectedToken, tok.Pos, "unexpected %q", tok.Value)
}

// tryReference looks at most two tokens ahead for "<gen> R". The cursor is
// restored when the pattern does not match.
func (p *Parser) tryReference(num int64) (Object, bool) {
	save := p.lex.Pos()

	gen, err := p.lex.NextSignificant()
	if err == nil && gen.Type == TokenRegular && isUnsigned(gen.Value) {
		r, err := p.lex.NextSignificant()
		if err == nil && r.Is(KeywordR) {
			if g, err := strconv.ParseInt(string(gen.Value), 10, 32); err == nil {
				return IndirectRef{Number: int(num), Generation: int(g)}, true
			}
		}
	}

	p.lex.SetPos(save)
	return nil, false
}

// parseInteger accepts an optional sign followed by digits only.
func parseInteger(b []byte) (int64, bool) {
	digits := b
	if len(digits) > 0 && (digits[0] == '+' || digits[0] == '-') {
		digits = digits[1:]
	}
	if !isUnsigned(digits) {
		return 0, false
	}
	n, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isUnsigned(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, c := range b {
		if !isDigit(c) {
			return false
		}
	}
	return true
}

// isRealLexeme accepts sign, digits, '.', and an exponent marker, with at
// least one digit. strconv does the rest of the validation.
func isRealLexeme(b []byte) bool {
	digits := 0
	for _, c := range b {
		switch {
		case isDigit(c):
			digits++
		case c == '.' || c == '+' || c == '-' || c == 'e' || c == 'E':
		default:
			return false
		}
	}
	return digits > 0
}

// parseLiteralString reads a balanced-parenthesis string starting at the '('.
func (p *Parser) parseLiteralString(start int64) (Object, error) {
	var out []byte
	depth := 1
	i := start + 1

	for {
		b, ok := p.lex.byteAt(i)
		if !ok {
			return nil, newError(ErrUnexpectedEnd, start, "unterminated literal string")
		}
		i++

		switch b {
		case '(':
			depth++
			out = append(out, b)
		case ')':
			depth--
			if depth == 0 {
				p.lex.SetPos(i)
				return String(out), nil
			}
			out = append(out, b)
		case '\r':
			// An unescaped EOL of any form reads as a single LF.
			if next, ok := p.lex.byteAt(i); ok && next == '\n' {
				i++
			}
			out = append(out, '\n')
		case '\\':
			next, ok := p.lex.byteAt(i)
			if !ok {
				return nil, newError(ErrUnexpectedEnd, start, "unterminated literal string")
			}
			i++
			switch next {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, next)
			case '\r':
				// Line continuation
				if lf, ok := p.lex.byteAt(i); ok && lf == '\n' {
					i++
				}
			case '\n':
			default:
				if isOctalDigit(next) {
					val := next - '0'
					for n := 0; n < 2; n++ {
						d, ok := p.lex.byteAt(i)
						if !ok || !isOctalDigit(d) {
							break
						}
						val = val*8 + (d - '0')
						i++
					}
					out = append(out, val)
				} else {
					// Unknown escape: the backslash is dropped
					out = append(out, next)
				}
			}
		default:
			out = append(out, b)
		}
	}
}

// parseHexString reads <hex digits> starting at the '<'.
func (p *Parser) parseHexString(start int64) (Object, error) {
	out := []byte{}
	var hi byte
	half := false

	for i := start + 1; ; i++ {
		b, ok := p.lex.byteAt(i)
		if !ok {
			return nil, newError(ErrUnexpectedEnd, start, "unterminated hex string")
		}
		switch {
		case b == '>':
			if half {
				out = append(out, hi<<4)
			}
			p.lex.SetPos(i + 1)
			return HexString(out), nil
		case isWhitespace(b):
		case isHexDigit(b):
			if half {
				out = append(out, hi<<4|hexValue(b))
			} else {
				hi = hexValue(b)
			}
			half = !half
		default:
			return nil, newError(ErrUnexpectedToken, i, "invalid hex digit %q", b)
		}
	}
}

// parseName reads /Name starting at the solidus, decoding #xx escapes.
func (p *Parser) parseName(start int64) (Object, error) {
	i := start + 1
	end := i
	for {
		b, ok := p.lex.byteAt(end)
		if !ok || !isRegular(b) {
			break
		}
		end++
	}

	raw := p.lex.Bytes(i, end)
	out := make([]byte, 0, len(raw))
	for j := 0; j < len(raw); j++ {
		if raw[j] != '#' {
			out = append(out, raw[j])
			continue
		}
		if j+2 >= len(raw) {
			return nil, newError(ErrUnexpectedToken, i+int64(j), "truncated #xx escape in name")
		}
		h1, h2 := raw[j+1], raw[j+2]
		if !isHexDigit(h1) || !isHexDigit(h2) {
			return nil, newError(ErrUnexpectedToken, i+int64(j), "invalid #xx escape in name")
		}
		out = append(out, hexValue(h1)<<4|hexValue(h2))
		j += 2
	}

	p.lex.SetPos(end)
	return Name(out), nil
}

// parseArray parses a PDF array "[obj1 obj2 ...]".
func (p *Parser) parseArray(start int64) (Object, error) {
	p.lex.SetPos(start + 1)

	arr := Array{}
	for {
		tok, err := p.lex.PeekSignificant()
		if err != nil {
			return nil, truncated(err, start, "array")
		}
		if tok.IsDelim(']') {
			p.lex.SetPos(tok.End())
			return arr, nil
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, truncated(err, start, "array")
		}
		arr = append(arr, obj)
	}
}

// parseDictOrStream parses "<< /Key value ... >>" and, when the keyword
// stream follows, the stream body as well.
func (p *Parser) parseDictOrStream(start int64) (Object, error) {
	dict, err := p.parseDict(start)
	if err != nil {
		return nil, err
	}

	save := p.lex.Pos()
	tok, err := p.lex.PeekSignificant()
	if err == nil && tok.Is(KeywordStream) {
		stream, err := p.parseStream(dict, tok)
		if err != nil {
			return nil, err
		}
		return stream, nil
	}
	p.lex.SetPos(save)
	return dict, nil
}

func (p *Parser) parseDict(start int64) (*Dict, error) {
	p.lex.SetPos(start + 2)

	dict := NewDict()
	for {
		tok, err := p.lex.PeekSignificant()
		if err != nil {
			return nil, truncated(err, start, "dictionary")
		}

		if tok.IsDelim('>') {
			b, ok := p.lex.byteAt(tok.Pos + 1)
			if !ok {
				return nil, newError(ErrUnexpectedEnd, start, "unterminated dictionary")
			}
			if b != '>' {
				return nil, newError(ErrUnexpectedToken, tok.Pos, "expected '>>'")
			}
			p.lex.SetPos(tok.Pos + 2)
			return dict, nil
		}

		if !tok.IsDelim('/') {
			return nil, newError(ErrUnexpectedToken, tok.Pos, "expected name for dictionary key, got %q", tok.Value)
		}
		key, err := p.parseName(tok.Pos)
		if err != nil {
			return nil, err
		}

		value, err := p.ParseObject()
		if err != nil {
			return nil, truncated(err, start, "dictionary")
		}
		dict.Set(key.(Name), value)
	}
}

// parseStream reads the raw stream body after the "stream" keyword. The
// body is exactly /Length bytes and is never tokenized.
func (p *Parser) parseStream(dict *Dict, kw Token) (*Stream, error) {
	length, err := p.streamLength(dict, kw.Pos)
	if err != nil {
		return nil, err
	}

	// The keyword is followed by CRLF or LF; a lone CR is tolerated.
	pos := kw.End()
	b, ok := p.lex.byteAt(pos)
	if !ok {
		return nil, newError(ErrUnexpectedEnd, pos, "missing end-of-line after stream keyword")
	}
	switch b {
	case '\r':
		pos++
		if lf, ok := p.lex.byteAt(pos); ok && lf == '\n' {
			pos++
		}
	case '\n':
		pos++
	default:
		return nil, newError(ErrUnexpectedToken, pos, "stream keyword must be followed by an end-of-line")
	}

	end := pos + length
	if end > p.lex.Len() {
		return nil, newError(ErrUnexpectedEnd, pos, "stream data truncated: /Length %d, %d bytes available", length, p.lex.Len()-pos)
	}
	data := p.lex.Bytes(pos, end)

	p.lex.SetPos(end)
	tok, err := p.lex.NextSignificant()
	if err != nil {
		return nil, truncated(err, pos, "stream")
	}
	if !tok.Is(KeywordEndstream) {
		return nil, newError(ErrUnexpectedToken, tok.Pos, "expected 'endstream', got %q", tok.Value)
	}

	return &Stream{Dict: dict, Data: data, Offset: pos}, nil
}

func (p *Parser) streamLength(dict *Dict, at int64) (int64, error) {
	var length int64
	switch v := dict.Get("Length").(type) {
	case Int:
		length = int64(v)
	case IndirectRef:
		if p.resolver == nil {
			return 0, newError(ErrUnexpectedToken, at, "indirect reference for stream length requires a reference resolver")
		}
		resolved, err := p.resolver.ResolveReference(v)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve stream length %s: %w", v, err)
		}
		n, ok := resolved.(Int)
		if !ok {
			return 0, newError(ErrUnexpectedToken, at, "stream length %s resolved to %v, expected Int", v, resolved.Type())
		}
		length = int64(n)
	case nil:
		return 0, newError(ErrUnexpectedToken, at, "stream dictionary missing /Length")
	default:
		return 0, newError(ErrUnexpectedToken, at, "invalid type for stream length: %v", v.Type())
	}

	if length < 0 {
		return 0, newError(ErrUnexpectedToken, at, "invalid stream length: %d", length)
	}
	return length, nil
}

// ParseIndirectObject parses an indirect object definition.
// Format: "num gen obj <object> endobj" or "num gen obj <dict> stream ... endstream endobj"
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	start := p.lex.Pos()

	num, err := p.expectUnsigned("object number")
	if err != nil {
		return nil, err
	}
	gen, err := p.expectUnsigned("generation number")
	if err != nil {
		return nil, err
	}

	tok, err := p.lex.NextSignificant()
	if err != nil {
		return nil, truncated(err, start, "indirect object")
	}
	if !tok.Is(KeywordObj) {
		return nil, newError(ErrUnexpectedToken, tok.Pos, "expected 'obj' keyword, got %q", tok.Value)
	}

	obj, err := p.ParseObject()
	if err != nil {
		return nil, truncated(err, start, "indirect object")
	}

	tok, err = p.lex.NextSignificant()
	if err != nil {
		return nil, truncated(err, start, "indirect object")
	}
	if !tok.Is(KeywordEndobj) {
		return nil, newError(ErrUnexpectedToken, tok.Pos, "expected 'endobj' keyword, got %q", tok.Value)
	}

	return &IndirectObject{
		Ref:    IndirectRef{Number: int(num), Generation: int(gen)},
		Object: obj,
	}, nil
}

func (p *Parser) expectUnsigned(what string) (int64, error) {
	start := p.lex.Pos()
	tok, err := p.lex.NextSignificant()
	if err != nil {
		return 0, truncated(err, start, "indirect object")
	}
	if tok.Type != TokenRegular || !isUnsigned(tok.Value) {
		return 0, newError(ErrUnexpectedToken, tok.Pos, "expected %s, got %q", what, tok.Value)
	}
	n, err := strconv.ParseInt(string(tok.Value), 10, 32)
	if err != nil {
		return 0, newError(ErrUnexpectedToken, tok.Pos, "%s out of range: %s", what, tok.Value)
	}
	return n, nil
}
