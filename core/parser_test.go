package core

import (
	"errors"
	"fmt"
	"testing"
)

func dictOf(kv ...interface{}) *Dict {
	d := NewDict()
	for i := 0; i < len(kv); i += 2 {
		d.Set(Name(kv[i].(string)), kv[i+1].(Object))
	}
	return d
}

// TestParseObject tests parsing of every object form
func TestParseObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Object
	}{
		{"reference", "10 0 R", IndirectRef{Number: 10, Generation: 0}},
		{"reference with comment", "10 % gen next\n 3 R", IndirectRef{Number: 10, Generation: 3}},
		{"integer", "42", Int(42)},
		{"negative integer", "-17", Int(-17)},
		{"signed integer", "+7", Int(7)},
		{"negative is not a reference", "-1 0 R", Int(-1)},
		{"negative generation is not a reference", "1 -0 R", Int(1)},
		{"two integers", "1 2", Int(1)},
		{"real", "3.14", Real(3.14)},
		{"real leading dot", "-.5", Real(-0.5)},
		{"real trailing dot", "4.", Real(4)},
		{"true", "true", Bool(true)},
		{"false", "false", Bool(false)},
		{"null", "null", Null{}},
		{"literal string", "(Hello)", String("Hello")},
		{"balanced parens", "(a(b)c)", String("a(b)c")},
		{"escaped paren", `(a\)b)`, String("a)b")},
		{"escapes", `(\n\r\t\b\f\\)`, String("\n\r\t\b\f\\")},
		{"octal", `(\101\102\53)`, String("AB+")},
		{"octal stops at non-digit", `(\0618)`, String("18")},
		{"unknown escape", `(\q)`, String("q")},
		{"line continuation", "(line\\\ncont)", String("linecont")},
		{"line continuation CRLF", "(line\\\r\ncont)", String("linecont")},
		{"CRLF becomes LF", "(a\r\nb)", String("a\nb")},
		{"CR becomes LF", "(a\rb)", String("a\nb")},
		{"empty string", "()", String("")},
		{"hex string", "<48656C6C6F>", HexString("Hello")},
		{"hex string whitespace", "<48 65\n6c>", HexString("Hel")},
		{"hex string odd", "<48 65 6>", HexString{0x48, 0x65, 0x60}},
		{"empty hex string", "<>", HexString{}},
		{"name", "/Name1", Name("Name1")},
		{"name escape", "/A#20B", Name("A B")},
		{"empty name", "/ ", Name("")},
		{"name stops at delimiter", "/Type/Page", Name("Type")},
		{"array", "[1 2 3]", Array{Int(1), Int(2), Int(3)}},
		{"array with reference", "[1 0 R 2]", Array{IndirectRef{Number: 1}, Int(2)}},
		{"nested array", "[[1] [/A]]", Array{Array{Int(1)}, Array{Name("A")}}},
		{"empty array", "[ ]", Array{}},
		{"dict", "<</K/V>>", dictOf("K", Name("V"))},
		{"dict nested", "<< /A << /B [1 2] >> /C (x) >>", dictOf("A", dictOf("B", Array{Int(1), Int(2)}), "C", String("x"))},
		{"dict duplicate key", "<< /A 1 /B 2 /A 3 >>", dictOf("A", Int(3), "B", Int(2))},
		{"empty dict", "<<>>", NewDict()},
		{"leading whitespace", " \r\n% c\n 5", Int(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser([]byte(tt.input))
			got, err := p.ParseObject()
			if err != nil {
				t.Fatalf("ParseObject(%q) error: %v", tt.input, err)
			}
			if !Equal(got, tt.want) {
				t.Errorf("ParseObject(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseObjectCursor tests where the cursor is left after a parse
func TestParseObjectCursor(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"10 0 R  next", 6},
		{"1 2 3", 1},
		{"1 2 obj", 1},
		{"(ab) x", 4},
		{"<</A 1>> 5", 8},
		{"  /N ", 4},
	}

	for _, tt := range tests {
		p := NewParser([]byte(tt.input))
		if _, err := p.ParseObject(); err != nil {
			t.Fatalf("ParseObject(%q) error: %v", tt.input, err)
		}
		if p.Pos() != tt.want {
			t.Errorf("ParseObject(%q) left cursor at %d, want %d", tt.input, p.Pos(), tt.want)
		}
	}
}

// TestParseObjectErrors tests failure kinds and offsets
func TestParseObjectErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    error
		wantOff int64
	}{
		{"empty", "", ErrEndOfInput, 0},
		{"unterminated string", "(abc", ErrUnexpectedEnd, 0},
		{"unterminated escape", `(abc\`, ErrUnexpectedEnd, 0},
		{"unterminated array", " [1 2", ErrUnexpectedEnd, 1},
		{"unterminated dict", "<< /A 1", ErrUnexpectedEnd, 0},
		{"unterminated hex", "<41", ErrUnexpectedEnd, 0},
		{"single greater-than in dict", "<< /A 1 > >>", ErrUnexpectedToken, 8},
		{"stray bracket", "]", ErrUnexpectedToken, 0},
		{"stray brace", "{", ErrUnexpectedToken, 0},
		{"dict key not a name", "<< 1 2 >>", ErrUnexpectedToken, 3},
		{"bad hex digit", "<4G>", ErrUnexpectedToken, 2},
		{"bad name escape", "/A#G1", ErrUnexpectedToken, 2},
		{"keyword", "endobj", ErrUnexpectedToken, 0},
		{"bad number", "1.2.3", ErrUnexpectedToken, 0},
		{"junk", "abc", ErrUnexpectedToken, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser([]byte(tt.input)).ParseObject()
			if !errors.Is(err, tt.kind) {
				t.Fatalf("ParseObject(%q) error = %v, want %v", tt.input, err, tt.kind)
			}
			off, ok := ErrorOffset(err)
			if !ok || off != tt.wantOff {
				t.Errorf("error offset = %d, %v, want %d", off, ok, tt.wantOff)
			}
		})
	}
}

type mapResolver map[IndirectRef]Object

func (m mapResolver) ResolveReference(ref IndirectRef) (Object, error) {
	obj, ok := m[ref]
	if !ok {
		return nil, fmt.Errorf("no object %v", ref)
	}
	return obj, nil
}

// TestParseStream tests stream bodies with direct and indirect lengths
func TestParseStream(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		resolver ReferenceResolver
		data     string
		offset   int64
	}{
		{"LF", "<< /Length 5 >>\nstream\nhello\nendstream", nil, "hello", 23},
		{"CRLF", "<</Length 5>>stream\r\nhello endstream", nil, "hello", 21},
		{"lone CR", "<</Length 3>>stream\rabc\rendstream", nil, "abc", 20},
		{"empty", "<</Length 0>>stream\n\nendstream", nil, "", 20},
		{"keyword inside data", "<</Length 11>>stream\nxxendstream\nendstream", nil, "xxendstream", 21},
		{"indirect length", "<< /Length 3 0 R >>\nstream\r\nabcde\nendstream", mapResolver{{Number: 3}: Int(5)}, "abcde", 28},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser([]byte(tt.input))
			if tt.resolver != nil {
				p.SetReferenceResolver(tt.resolver)
			}
			obj, err := p.ParseObject()
			if err != nil {
				t.Fatalf("ParseObject error: %v", err)
			}
			s, ok := obj.(*Stream)
			if !ok {
				t.Fatalf("got %T, want *Stream", obj)
			}
			if string(s.Data) != tt.data {
				t.Errorf("Data = %q, want %q", s.Data, tt.data)
			}
			if s.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", s.Offset, tt.offset)
			}
			if p.Pos() != int64(len(tt.input)) {
				t.Errorf("cursor at %d, want end %d", p.Pos(), len(tt.input))
			}
		})
	}
}

// TestParseStreamErrors tests stream failures
func TestParseStreamErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		resolver ReferenceResolver
		kind     error
	}{
		{"missing length", "<< >>\nstream\nabc\nendstream", nil, ErrUnexpectedToken},
		{"negative length", "<</Length -1>>\nstream\nabc\nendstream", nil, ErrUnexpectedToken},
		{"real length", "<</Length 3.0>>\nstream\nabc\nendstream", nil, ErrUnexpectedToken},
		{"indirect without resolver", "<</Length 9 0 R>>\nstream\nabc\nendstream", nil, ErrUnexpectedToken},
		{"indirect resolves to name", "<</Length 9 0 R>>\nstream\nabc\nendstream", mapResolver{{Number: 9}: Name("x")}, ErrUnexpectedToken},
		{"length too long", "<</Length 99>>\nstream\nabc\nendstream", nil, ErrUnexpectedEnd},
		{"length too short", "<</Length 2>>\nstream\nabc\nendstream", nil, ErrUnexpectedToken},
		{"no EOL", "<</Length 3>>\nstream abc\nendstream", nil, ErrUnexpectedToken},
		{"missing endstream", "<</Length 3>>\nstream\nabc", nil, ErrUnexpectedEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser([]byte(tt.input))
			if tt.resolver != nil {
				p.SetReferenceResolver(tt.resolver)
			}
			obj, err := p.ParseObject()
			if !errors.Is(err, tt.kind) {
				t.Fatalf("error = %v, want %v", err, tt.kind)
			}
			if obj != nil {
				t.Errorf("got object %v alongside error", obj)
			}
		})
	}
}

// TestParseStreamResolverError tests that a resolver failure is wrapped
func TestParseStreamResolverError(t *testing.T) {
	p := NewParser([]byte("<</Length 9 0 R>>\nstream\nabc\nendstream"))
	p.SetReferenceResolver(mapResolver{})
	_, err := p.ParseObject()
	if err == nil {
		t.Fatal("expected error")
	}
}

// TestParseIndirectObject tests "num gen obj ... endobj"
func TestParseIndirectObject(t *testing.T) {
	input := "12 3 obj\n<< /Type /Test /Val 1 >>\nendobj\n"
	p := NewParser([]byte(input))

	iobj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject error: %v", err)
	}
	if iobj.Ref != (IndirectRef{Number: 12, Generation: 3}) {
		t.Errorf("Ref = %v, want 12 3 R", iobj.Ref)
	}
	want := dictOf("Type", Name("Test"), "Val", Int(1))
	if !Equal(iobj.Object, want) {
		t.Errorf("Object = %v, want %v", iobj.Object, want)
	}
	if p.Pos() != int64(len(input)-1) {
		t.Errorf("cursor at %d, want %d", p.Pos(), len(input)-1)
	}
}

// TestParseIndirectObjectErrors tests malformed object headers and trailers
func TestParseIndirectObjectErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  error
	}{
		{"missing obj", "1 0 xx 5 endobj", ErrUnexpectedToken},
		{"negative number", "-1 0 obj 5 endobj", ErrUnexpectedToken},
		{"missing endobj", "1 0 obj 5", ErrUnexpectedEnd},
		{"wrong terminator", "1 0 obj 5 endstream", ErrUnexpectedToken},
		{"truncated header", "1 0", ErrUnexpectedEnd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser([]byte(tt.input)).ParseIndirectObject()
			if !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
		})
	}
}

// TestParseObjectAt tests parsing from an explicit offset
func TestParseObjectAt(t *testing.T) {
	p := NewParser([]byte("junk ) /Target"))
	obj, err := p.ParseObjectAt(7)
	if err != nil {
		t.Fatal(err)
	}
	if obj != Name("Target") {
		t.Errorf("got %v, want /Target", obj)
	}
}
