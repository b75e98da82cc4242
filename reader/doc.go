// Package reader provides the Document model: a PDF held in memory with
// its cross-reference chain resolved.
//
// This package orchestrates the lower-level core package. It owns no file
// handles; the caller supplies the bytes.
//
// # Opening Documents
//
// Use [Open] with the file contents:
//
//	doc, err := reader.Open(data, reader.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Document Information
//
//   - Version() - header version (e.g., 1.7), zero when the header is missing
//   - Trailer() - merged trailer dictionary
//   - XRef() - merged cross-reference table
//   - Catalog() - document catalog dictionary
//   - Info() - document info dictionary (metadata), nil when absent
//
// # Object Resolution
//
//   - GetObject(id) - load an object by id
//   - ResolveReference(ref) - resolve an IndirectRef
//   - Resolve(obj) - resolve if indirect, otherwise return as-is
//
// Objects stored in object streams are loaded through their container.
// A chain of containers that loops back on itself, or nests deeper than
// [WithMaxDepth], fails with core.ErrCyclicXRef.
//
// # Concurrency
//
// A Document is read-only after Open and nothing is cached, so GetObject
// may be called from many goroutines at once.
package reader
