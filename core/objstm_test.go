package core

import (
	"errors"
	"testing"

	"github.com/tsawler/pdfxref/internal/pdftest"
)

func parseStreamAt(t *testing.T, buf []byte, off int64) *Stream {
	t.Helper()
	p := NewParser(buf)
	p.SetPos(off)
	iobj, err := p.ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject error: %v", err)
	}
	s, ok := iobj.Object.(*Stream)
	if !ok {
		t.Fatalf("object is %T, want *Stream", iobj.Object)
	}
	return s
}

// TestObjectStream tests extraction of embedded objects
func TestObjectStream(t *testing.T) {
	for _, deflate := range []bool{false, true} {
		b := pdftest.New("1.5")
		off := b.ObjStm(10, []int{3, 4, 7}, []string{"<< /A 1 >>", "(four)", "[1 0 R]"}, deflate)
		s := parseStreamAt(t, b.Bytes(), off)

		os, err := NewObjectStream(s, nil)
		if err != nil {
			t.Fatalf("NewObjectStream error: %v", err)
		}
		if os.N() != 3 {
			t.Errorf("N = %d, want 3", os.N())
		}
		if os.Extends() != nil {
			t.Errorf("Extends = %v, want nil", os.Extends())
		}

		tests := []struct {
			index int
			num   int
			want  Object
		}{
			{0, 3, dictOf("A", Int(1))},
			{1, 4, String("four")},
			{2, 7, Array{IndirectRef{Number: 1}}},
		}
		for _, tt := range tests {
			num, obj, err := os.ObjectAt(tt.index)
			if err != nil {
				t.Fatalf("ObjectAt(%d) error: %v", tt.index, err)
			}
			if num != tt.num || !Equal(obj, tt.want) {
				t.Errorf("ObjectAt(%d) = %d %v, want %d %v", tt.index, num, obj, tt.num, tt.want)
			}
		}

		if i, ok, err := os.IndexOf(7); err != nil || !ok || i != 2 {
			t.Errorf("IndexOf(7) = %d, %v, %v", i, ok, err)
		}
		if _, ok, _ := os.IndexOf(99); ok {
			t.Error("IndexOf(99) should report false")
		}
		if _, _, err := os.ObjectAt(3); !errors.Is(err, ErrObjectNotFound) {
			t.Errorf("ObjectAt(3) error = %v, want ErrObjectNotFound", err)
		}
		nums, err := os.ObjectNumbers()
		if err != nil || len(nums) != 3 || nums[2] != 7 {
			t.Errorf("ObjectNumbers = %v, %v", nums, err)
		}
	}
}

// TestObjectStreamErrors tests invalid object stream dictionaries and headers
func TestObjectStreamErrors(t *testing.T) {
	tests := []struct {
		name string
		dict string
		data string
		kind error
	}{
		{"wrong type", "/Type /XRef /N 1 /First 4", "3 0 null", ErrUnexpectedToken},
		{"missing N", "/Type /ObjStm /First 4", "3 0 null", ErrUnexpectedToken},
		{"negative First", "/Type /ObjStm /N 1 /First -1", "3 0 null", ErrUnexpectedToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := pdftest.New("1.5")
			off := b.Stream(10, 0, tt.dict, []byte(tt.data))
			_, err := NewObjectStream(parseStreamAt(t, b.Bytes(), off), nil)
			if !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
		})
	}

	lazy := []struct {
		name string
		dict string
		data string
		kind error
	}{
		{"First beyond data", "/Type /ObjStm /N 1 /First 40", "3 0 null", ErrUnexpectedEnd},
		{"short header", "/Type /ObjStm /N 2 /First 4", "3 0 null", ErrUnexpectedEnd},
		{"bad header", "/Type /ObjStm /N 1 /First 5", "x 0  null", ErrUnexpectedToken},
		{"huge N", "/Type /ObjStm /N 1152921504606846976 /First 0", "3 0 null", ErrUnexpectedToken},
		{"N exceeds header", "/Type /ObjStm /N 3 /First 4", "3 0 null", ErrUnexpectedToken},
		{"bad filter", "/Type /ObjStm /N 1 /First 4 /Filter /FlateDecode", "3 0 null", ErrDecompressionFailure},
	}
	for _, tt := range lazy {
		t.Run(tt.name, func(t *testing.T) {
			b := pdftest.New("1.5")
			off := b.Stream(10, 0, tt.dict, []byte(tt.data))
			os, err := NewObjectStream(parseStreamAt(t, b.Bytes(), off), nil)
			if err != nil {
				t.Fatalf("NewObjectStream error: %v", err)
			}
			if _, _, err := os.ObjectAt(0); !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
		})
	}

	if _, err := NewObjectStream(nil, nil); err == nil {
		t.Error("expected error for nil stream")
	}
}

// TestObjectStreamExtends tests that /Extends is recorded
func TestObjectStreamExtends(t *testing.T) {
	b := pdftest.New("1.5")
	off := b.Stream(10, 0, "/Type /ObjStm /N 1 /First 4 /Extends 9 0 R", []byte("3 0 null"))
	os, err := NewObjectStream(parseStreamAt(t, b.Bytes(), off), nil)
	if err != nil {
		t.Fatal(err)
	}
	if os.Extends() == nil || *os.Extends() != (IndirectRef{Number: 9}) {
		t.Errorf("Extends = %v, want 9 0 R", os.Extends())
	}
	if os.First() != 4 {
		t.Errorf("First = %d, want 4", os.First())
	}
}
