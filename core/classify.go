package core

// ByteClass is the lexical class of a single byte. Each whitespace and
// delimiter byte has its own class so callers can switch on the exact kind.
type ByteClass uint8

const (
	ClassPlain ByteClass = iota

	// Whitespace kinds
	ClassNull           // 0x00
	ClassTab            // 0x09
	ClassLineFeed       // 0x0A
	ClassFormFeed       // 0x0C
	ClassCarriageReturn // 0x0D
	ClassSpace          // 0x20

	// Delimiter kinds
	ClassLeftParen    // (
	ClassRightParen   // )
	ClassLessThan     // <
	ClassGreaterThan  // >
	ClassLeftBracket  // [
	ClassRightBracket // ]
	ClassLeftBrace    // {
	ClassRightBrace   // }
	ClassSolidus      // /
	ClassPercent      // %
)

var classTable = func() [256]ByteClass {
	var t [256]ByteClass
	t[0x00] = ClassNull
	t['\t'] = ClassTab
	t['\n'] = ClassLineFeed
	t['\f'] = ClassFormFeed
	t['\r'] = ClassCarriageReturn
	t[' '] = ClassSpace
	t['('] = ClassLeftParen
	t[')'] = ClassRightParen
	t['<'] = ClassLessThan
	t['>'] = ClassGreaterThan
	t['['] = ClassLeftBracket
	t[']'] = ClassRightBracket
	t['{'] = ClassLeftBrace
	t['}'] = ClassRightBrace
	t['/'] = ClassSolidus
	t['%'] = ClassPercent
	return t
}()

// Classify returns the class of b.
func Classify(b byte) ByteClass {
	return classTable[b]
}

// IsWhitespace reports whether c is one of the six whitespace kinds.
func (c ByteClass) IsWhitespace() bool {
	return c >= ClassNull && c <= ClassSpace
}

// IsDelimiter reports whether c is one of the ten delimiter kinds.
func (c ByteClass) IsDelimiter() bool {
	return c >= ClassLeftParen && c <= ClassPercent
}

// IsPlain reports whether c is neither whitespace nor a delimiter.
func (c ByteClass) IsPlain() bool {
	return c == ClassPlain
}

func (c ByteClass) String() string {
	switch c {
	case ClassPlain:
		return "Plain"
	case ClassNull:
		return "Whitespace(NUL)"
	case ClassTab:
		return "Whitespace(TAB)"
	case ClassLineFeed:
		return "Whitespace(LF)"
	case ClassFormFeed:
		return "Whitespace(FF)"
	case ClassCarriageReturn:
		return "Whitespace(CR)"
	case ClassSpace:
		return "Whitespace(SP)"
	case ClassLeftParen:
		return "Delimiter(()"
	case ClassRightParen:
		return "Delimiter())"
	case ClassLessThan:
		return "Delimiter(<)"
	case ClassGreaterThan:
		return "Delimiter(>)"
	case ClassLeftBracket:
		return "Delimiter([)"
	case ClassRightBracket:
		return "Delimiter(])"
	case ClassLeftBrace:
		return "Delimiter({)"
	case ClassRightBrace:
		return "Delimiter(})"
	case ClassSolidus:
		return "Delimiter(/)"
	case ClassPercent:
		return "Delimiter(%)"
	default:
		return "Unknown"
	}
}

func isWhitespace(b byte) bool {
	return classTable[b].IsWhitespace()
}

func isDelimiter(b byte) bool {
	return classTable[b].IsDelimiter()
}

func isRegular(b byte) bool {
	return classTable[b] == ClassPlain
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isOctalDigit(b byte) bool {
	return b >= '0' && b <= '7'
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}
