// Package pdftest builds small PDF files with correct byte offsets for tests.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Builder appends PDF syntax to a buffer and remembers where each indirect
// object starts.
type Builder struct {
	buf     bytes.Buffer
	offsets map[int]int64
	gens    map[int]int
}

// New starts a file with a %PDF header and a binary comment line.
func New(version string) *Builder {
	b := &Builder{offsets: make(map[int]int64), gens: make(map[int]int)}
	fmt.Fprintf(&b.buf, "%%PDF-%s\n%%\xE2\xE3\xCF\xD3\n", version)
	return b
}

// Len returns the current length, which is the offset of the next write.
func (b *Builder) Len() int64 {
	return int64(b.buf.Len())
}

// Raw appends s verbatim and returns its offset.
func (b *Builder) Raw(s string) int64 {
	off := b.Len()
	b.buf.WriteString(s)
	return off
}

// Offset returns the recorded offset of object num.
func (b *Builder) Offset(num int) int64 {
	return b.offsets[num]
}

// Object appends "num gen obj body endobj" and returns its offset.
func (b *Builder) Object(num, gen int, body string) int64 {
	off := b.Len()
	b.offsets[num] = off
	b.gens[num] = gen
	fmt.Fprintf(&b.buf, "%d %d obj\n%s\nendobj\n", num, gen, body)
	return off
}

// Stream appends a stream object. dict holds the dictionary entries without
// the surrounding << >>; /Length is added.
func (b *Builder) Stream(num, gen int, dict string, data []byte) int64 {
	off := b.Len()
	b.offsets[num] = off
	b.gens[num] = gen
	fmt.Fprintf(&b.buf, "%d %d obj\n<< %s /Length %d >>\nstream\n", num, gen, dict, len(data))
	b.buf.Write(data)
	b.buf.WriteString("\nendstream\nendobj\n")
	return off
}

// XRefTable appends a table section and trailer. With no nums it covers
// objects 0 through the highest recorded number; otherwise each listed
// object gets its own one-entry subsection.
func (b *Builder) XRefTable(trailer string, nums ...int) int64 {
	off := b.Len()
	b.buf.WriteString("xref\n")

	if len(nums) == 0 {
		max := 0
		for n := range b.offsets {
			if n > max {
				max = n
			}
		}
		fmt.Fprintf(&b.buf, "0 %d\n", max+1)
		b.buf.WriteString("0000000000 65535 f \n")
		for n := 1; n <= max; n++ {
			b.record(n)
		}
	} else {
		sorted := append([]int(nil), nums...)
		sort.Ints(sorted)
		for _, n := range sorted {
			fmt.Fprintf(&b.buf, "%d 1\n", n)
			b.record(n)
		}
	}

	fmt.Fprintf(&b.buf, "trailer\n%s\n", trailer)
	return off
}

func (b *Builder) record(n int) {
	off, ok := b.offsets[n]
	if !ok {
		b.buf.WriteString("0000000000 00000 f \n")
		return
	}
	fmt.Fprintf(&b.buf, "%010d %05d n \n", off, b.gens[n])
}

// Row is one cross-reference stream record.
type Row struct {
	Type   byte
	Field1 int64
	Field2 int
}

// InUse returns a type 1 row for a recorded object.
func (b *Builder) InUse(num int) Row {
	return Row{Type: 1, Field1: b.offsets[num], Field2: b.gens[num]}
}

// Compressed returns a type 2 row for the index-th object of stream objstm.
func Compressed(objstm, index int) Row {
	return Row{Type: 2, Field1: int64(objstm), Field2: index}
}

// Free returns a type 0 row.
func Free(next int64, gen int) Row {
	return Row{Type: 0, Field1: next, Field2: gen}
}

// EncodeRows packs rows with /W [1 4 2].
func EncodeRows(rows []Row) []byte {
	out := make([]byte, 0, len(rows)*7)
	for _, r := range rows {
		out = append(out, r.Type,
			byte(r.Field1>>24), byte(r.Field1>>16), byte(r.Field1>>8), byte(r.Field1),
			byte(r.Field2>>8), byte(r.Field2))
	}
	return out
}

// XRefStream appends a /Type /XRef stream object with /W [1 4 2]. dict must
// supply /Size and, when rows do not start at 0, /Index. With deflate set
// the payload is Flate compressed.
func (b *Builder) XRefStream(num int, dict string, rows []Row, deflate bool) int64 {
	data := EncodeRows(rows)
	d := "/Type /XRef /W [1 4 2] " + dict
	if deflate {
		data = Deflate(data)
		d += " /Filter /FlateDecode"
	}
	return b.Stream(num, 0, d, data)
}

// ObjStm appends an object stream holding bodies for nums, in order.
func (b *Builder) ObjStm(num int, nums []int, bodies []string, deflate bool) int64 {
	var header, payload bytes.Buffer
	for i, n := range nums {
		fmt.Fprintf(&header, "%d %d ", n, payload.Len())
		payload.WriteString(bodies[i])
		payload.WriteString("\n")
	}

	data := append(header.Bytes(), payload.Bytes()...)
	d := fmt.Sprintf("/Type /ObjStm /N %d /First %d", len(nums), header.Len())
	if deflate {
		data = Deflate(data)
		d += " /Filter /FlateDecode"
	}
	return b.Stream(num, 0, d, data)
}

// Finish appends startxref and %%EOF and returns a copy of the file.
func (b *Builder) Finish(xref int64) []byte {
	fmt.Fprintf(&b.buf, "startxref\n%d\n%%%%EOF\n", xref)
	return b.Bytes()
}

// Bytes returns a copy of the buffer.
func (b *Builder) Bytes() []byte {
	return append([]byte(nil), b.buf.Bytes()...)
}

// Deflate zlib-compresses data.
func Deflate(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// WriteFile writes data to a temporary file and returns its path.
func WriteFile(t testing.TB, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.pdf")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to create temp PDF: %v", err)
	}
	return path
}

// Minimal returns a two-object document: catalog 1 and an empty page tree 2.
func Minimal() []byte {
	b := New("1.4")
	b.Object(1, 0, "<< /Type /Catalog /Pages 2 0 R >>")
	b.Object(2, 0, "<< /Type /Pages /Kids [] /Count 0 >>")
	return b.Finish(b.XRefTable("<< /Size 3 /Root 1 0 R >>"))
}
