package pdfxref

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/tsawler/pdfxref/core"
	"github.com/tsawler/pdfxref/internal/pdftest"
)

// TestOpen tests reading a file from disk
func TestOpen(t *testing.T) {
	path := pdftest.WriteFile(t, pdftest.Minimal())

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("failed to open PDF: %v", err)
	}
	if doc.Version().String() != "1.4" {
		t.Errorf("Version = %v, want 1.4", doc.Version())
	}
	if doc.NumObjects() != 3 {
		t.Errorf("NumObjects = %d, want 3", doc.NumObjects())
	}
}

// TestOpenNonExistent tests opening a non-existent file
func TestOpenNonExistent(t *testing.T) {
	_, err := Open("/nonexistent/file.pdf")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

// TestOpenInvalid tests that parse errors name the file and keep their kind
func TestOpenInvalid(t *testing.T) {
	path := pdftest.WriteFile(t, []byte("%PDF-1.4\nnot really a pdf\n"))

	_, err := Open(path)
	if !errors.Is(err, core.ErrMalformedOffset) {
		t.Errorf("error = %v, want ErrMalformedOffset", err)
	}
	if err != nil && !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the file", err)
	}
}

// TestParseWithOptions tests the re-exported options
func TestParseWithOptions(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	calls := 0
	inf := core.InflaterFunc(func(data []byte, filter core.Name, params core.Object) ([]byte, error) {
		calls++
		return core.DefaultInflater.Inflate(data, filter, params)
	})

	b := pdftest.New("1.5")
	b.ObjStm(10, []int{1}, []string{"<< /Type /Catalog /Pages 2 0 R >>"}, true)
	b.Object(2, 0, "<< /Type /Pages /Kids [] /Count 0 >>")
	rows := []pdftest.Row{pdftest.Free(0, 65535), pdftest.Compressed(10, 0), b.InUse(2), b.InUse(10)}
	data := b.Finish(b.XRefStream(11, "/Size 11 /Index [0 3 10 1] /Root 1 0 R", rows, true))

	doc, err := Parse(data, WithLogger(logger), WithInflater(inf), WithMaxDepth(8))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("inflater calls after Parse = %d, want 1", calls)
	}

	if _, err := doc.Catalog(); err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("inflater calls after Catalog = %d, want 2", calls)
	}
	if !strings.Contains(logs.String(), "xref section") {
		t.Errorf("expected debug logs, got:\n%s", logs.String())
	}
}

// TestPages tests the page listing helper
func TestPages(t *testing.T) {
	b := pdftest.New("1.4")
	b.Object(1, 0, "<< /Type /Catalog /Pages 2 0 R >>")
	b.Object(2, 0, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	b.Object(3, 0, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>")
	doc := Must(Parse(b.Finish(b.XRefTable("<< /Size 4 /Root 1 0 R >>"))))

	pages, err := Pages(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 1 || pages[0].Ref.Number != 3 {
		t.Errorf("Pages = %v", pages)
	}

	empty := Must(Parse(pdftest.Minimal()))
	if pages, err := Pages(empty); err != nil || len(pages) != 0 {
		t.Errorf("empty document Pages = %v, %v", pages, err)
	}
}

// TestMust tests the panic helper
func TestMust(t *testing.T) {
	// Test Must with successful result
	result := Must("hello", nil)
	if result != "hello" {
		t.Errorf("expected 'hello', got %q", result)
	}

	// Test Must with error (should panic)
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected Must to panic on error")
		}
	}()
	Must("", os.ErrNotExist)
}
