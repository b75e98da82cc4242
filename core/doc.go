// Package core implements the lowest layer of a PDF reader: byte
// classification, tokenizing, object parsing, and cross-reference
// resolution over an in-memory buffer.
//
// # Object Types
//
// Every parsed value satisfies [Object]. The set is closed:
//
//   - [Null], [Bool], [Int], [Real]
//   - [String] (literal) and [HexString]
//   - [Name]
//   - [Array] and [*Dict] (insertion ordered)
//   - [*Stream] (dictionary plus raw payload)
//   - [IndirectRef] ("num gen R")
//
// Each String method returns canonical PDF syntax that parses back to an
// equal object.
//
// # Parsing
//
// [Lexer] yields zero-copy tokens over the buffer. [Parser] builds objects
// from them with at most two tokens of lookahead, which is what
// distinguishes "1 0 R" from two integers.
//
//	p := core.NewParser(buf)
//	obj, err := p.ParseObjectAt(offset)
//
// # Cross-Reference Tables
//
// [XRefParser] follows startxref and the /Prev chain, handling table and
// stream sections as well as hybrid files, and merges them into an
// [XRefTable] in which the newest definition of each object wins.
//
// # Errors
//
// Failures are [*Error] values carrying a byte offset; test the kind with
// errors.Is against [ErrUnexpectedToken], [ErrUnexpectedEnd],
// [ErrMalformedOffset], [ErrCyclicXRef], [ErrObjectNotFound], and
// [ErrDecompressionFailure].
package core
