// Package pdfxref reads the object structure of PDF files: the
// cross-reference chain, the trailer and every indirect object, including
// objects packed into object streams.
//
// Basic usage:
//
//	doc, err := pdfxref.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	obj, err := doc.GetObject(core.ObjectID{Number: 1})
//
// With options:
//
//	doc, err := pdfxref.Open("report.pdf",
//	    pdfxref.WithLogger(logger),
//	    pdfxref.WithMaxDepth(16))
//
// For lower-level access, the core, reader, resolver and pages packages
// are also available.
package pdfxref

import (
	"fmt"
	"os"

	"github.com/tsawler/pdfxref/pages"
	"github.com/tsawler/pdfxref/reader"
)

// Document is a parsed PDF. See reader.Document.
type Document = reader.Document

// Option configures a Document. See reader.Option.
type Option = reader.Option

// Option constructors, re-exported from the reader package.
var (
	WithInflater = reader.WithInflater
	WithLogger   = reader.WithLogger
	WithMaxDepth = reader.WithMaxDepth
)

// Open reads filename into memory and parses it.
//
// Example:
//
//	doc, err := pdfxref.Open("document.pdf")
func Open(filename string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := reader.Open(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return doc, nil
}

// Parse parses a PDF already held in memory. buf must not be modified
// while the Document is in use.
func Parse(buf []byte, opts ...Option) (*Document, error) {
	return reader.Open(buf, opts...)
}

// Pages returns the pages of doc in document order.
func Pages(doc *Document) ([]*pages.Page, error) {
	catalog, err := doc.Catalog()
	if err != nil {
		return nil, err
	}
	return pages.NewCatalog(catalog, doc).Pages()
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	doc := pdfxref.Must(pdfxref.Open("document.pdf"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
