// Package resolver provides PDF indirect reference resolution.
//
// PDF documents use indirect references (e.g., "5 0 R") to refer to objects
// stored elsewhere in the file. This package resolves these references,
// following chains of references and detecting circular dependencies.
//
// # Basic Usage
//
// Create a resolver over anything with GetObject, such as a
// *reader.Document:
//
//	r := resolver.NewResolver(doc)
//	obj, err := r.Resolve(ref)
//
// # Deep Resolution
//
// For complete expansion of nested references in dictionaries, arrays and
// stream dictionaries:
//
//	resolved, err := r.ResolveDeep(obj)
//
// The result is a new object tree; the input is left untouched.
//
// # Cycle Detection
//
// A reference reached again from inside its own expansion fails with
// [ErrCircularReference]. The same object may still appear in sibling
// branches. Nesting beyond the limit fails with [ErrMaxDepth]:
//
//	r := resolver.NewResolver(doc, resolver.WithMaxDepth(50))
//
// An ObjectResolver holds no per-call state and may be shared between
// goroutines when its reader may.
package resolver
