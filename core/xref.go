package core

import (
	"log/slog"
	"math"
	"sort"
	"strconv"
)

// XRefEntryType is the kind of a cross-reference entry.
type XRefEntryType int

const (
	XRefFree       XRefEntryType = iota // type 0 / 'f'
	XRefInUse                           // type 1 / 'n'
	XRefCompressed                      // type 2, stored in an object stream
)

func (t XRefEntryType) String() string {
	switch t {
	case XRefFree:
		return "free"
	case XRefInUse:
		return "in-use"
	case XRefCompressed:
		return "compressed"
	default:
		return "unknown"
	}
}

// XRefEntry represents a single cross-reference entry.
type XRefEntry struct {
	Type XRefEntryType

	// Offset is the byte offset for in-use objects and the next free object
	// number for free ones.
	Offset     int64
	Generation int

	// StreamNumber and Index locate a compressed object.
	StreamNumber int
	Index        int
}

// XRefForm is the physical form of a cross-reference section.
type XRefForm int

const (
	XRefFormTable  XRefForm = iota // "xref" keyword with fixed-width records
	XRefFormStream                 // /Type /XRef stream object
)

func (f XRefForm) String() string {
	if f == XRefFormStream {
		return "stream"
	}
	return "table"
}

// XRefSection is one cross-reference section as it appears in the file.
type XRefSection struct {
	Offset  int64
	Form    XRefForm
	Entries map[int]XRefEntry
	Trailer *Dict
}

// XRefTable is the merged view of every section reachable from startxref.
type XRefTable struct {
	Entries  map[int]XRefEntry
	Trailer  *Dict
	Sections []int64 // section offsets in the order they were visited
}

// NewXRefTable creates a new empty XRef table
func NewXRefTable() *XRefTable {
	return &XRefTable{
		Entries: make(map[int]XRefEntry),
		Trailer: NewDict(),
	}
}

// Get retrieves an XRef entry by object number
func (x *XRefTable) Get(objNum int) (XRefEntry, bool) {
	entry, ok := x.Entries[objNum]
	return entry, ok
}

// Size returns the number of entries in the table
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// Numbers returns the object numbers in the table in ascending order.
func (x *XRefTable) Numbers() []int {
	nums := make([]int, 0, len(x.Entries))
	for n := range x.Entries {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// merge adds entries and trailer keys the table does not have yet. Sections
// are merged newest first, so the first definition seen is the live one.
func (x *XRefTable) merge(sec *XRefSection) {
	for n, e := range sec.Entries {
		if _, ok := x.Entries[n]; !ok {
			x.Entries[n] = e
		}
	}
	for _, k := range sec.Trailer.Keys() {
		if !x.Trailer.Has(k) {
			x.Trailer.Set(k, sec.Trailer.Get(k))
		}
	}
	x.Sections = append(x.Sections, sec.Offset)
}

// XRefParser locates and parses the cross-reference sections of a buffer.
type XRefParser struct {
	buf      []byte
	inflater Inflater
	logger   *slog.Logger
}

// NewXRefParser creates a new XRef parser
func NewXRefParser(buf []byte) *XRefParser {
	return &XRefParser{
		buf:      buf,
		inflater: DefaultInflater,
		logger:   slog.Default(),
	}
}

// SetInflater sets the decoder used for cross-reference stream payloads.
func (x *XRefParser) SetInflater(inf Inflater) {
	if inf == nil {
		inf = DefaultInflater
	}
	x.inflater = inf
}

// SetLogger sets the logger; nil restores slog.Default().
func (x *XRefParser) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	x.logger = logger
}

// FindXRef returns the offset written after the last "startxref" keyword.
func (x *XRefParser) FindXRef() (int64, error) {
	lex := NewLexer(x.buf)
	idx := lex.lastIndex([]byte("startxref"))
	if idx < 0 {
		return 0, newError(ErrMalformedOffset, lex.Len(), "startxref not found")
	}

	lex.SetPos(idx + int64(len("startxref")))
	tok, err := lex.PeekSignificant()
	if err != nil || tok.Type != TokenRegular {
		return 0, newError(ErrMalformedOffset, lex.Pos(), "missing offset after startxref")
	}

	var offset int64
	for _, b := range tok.Value {
		if !isDigit(b) {
			return 0, newError(ErrMalformedOffset, tok.Pos, "invalid startxref offset %q", tok.Value)
		}
		d := int64(b - '0')
		if offset > (math.MaxInt64-d)/10 {
			return 0, newError(ErrMalformedOffset, tok.Pos, "startxref offset %q overflows", tok.Value)
		}
		offset = offset*10 + d
	}
	return offset, nil
}

// Resolve walks the section chain from startxref and merges it. For each
// object number the entry from the newest section wins. A hybrid file's
// /XRefStm section is visited after its table and before /Prev.
func (x *XRefParser) Resolve() (*XRefTable, error) {
	offset, err := x.FindXRef()
	if err != nil {
		return nil, err
	}

	table := NewXRefTable()
	visited := make(map[int64]bool)
	refs := &tableResolver{buf: x.buf, table: table}

	for {
		sec, err := x.visit(offset, visited, table, refs)
		if err != nil {
			return nil, err
		}

		if sec.Form == XRefFormTable {
			stm, ok, err := trailerOffset(sec, "XRefStm")
			if err != nil {
				return nil, err
			}
			if ok {
				if _, err := x.visit(stm, visited, table, refs); err != nil {
					return nil, err
				}
			}
		}

		prev, ok, err := trailerOffset(sec, "Prev")
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		offset = prev
	}

	x.logger.Debug("resolved xref chain",
		"sections", len(table.Sections),
		"entries", len(table.Entries))
	return table, nil
}

func (x *XRefParser) visit(offset int64, visited map[int64]bool, table *XRefTable, refs ReferenceResolver) (*XRefSection, error) {
	if offset < 0 || offset >= int64(len(x.buf)) {
		return nil, newError(ErrMalformedOffset, offset, "xref offset outside buffer of %d bytes", len(x.buf))
	}
	if visited[offset] {
		return nil, newError(ErrCyclicXRef, offset, "xref section visited twice")
	}
	visited[offset] = true

	sec, err := x.parseSection(offset, refs)
	if err != nil {
		return nil, err
	}
	table.merge(sec)

	x.logger.Debug("xref section",
		"offset", offset,
		"form", sec.Form.String(),
		"entries", len(sec.Entries))
	return sec, nil
}

// trailerOffset reads an optional offset-valued trailer key.
func trailerOffset(sec *XRefSection, key Name) (int64, bool, error) {
	switch v := sec.Trailer.Get(key).(type) {
	case nil:
		return 0, false, nil
	case Int:
		return int64(v), true, nil
	default:
		return 0, false, newError(ErrMalformedOffset, sec.Offset, "/%s is %v, expected Int", key, v.Type())
	}
}

// ParseSection parses the single section at offset. The keyword "xref"
// selects table form; anything else is parsed as an xref stream.
func (x *XRefParser) ParseSection(offset int64) (*XRefSection, error) {
	return x.parseSection(offset, nil)
}

func (x *XRefParser) parseSection(offset int64, refs ReferenceResolver) (*XRefSection, error) {
	lex := NewLexer(x.buf)
	lex.SetPos(offset)
	tok, err := lex.PeekSignificant()
	if err != nil {
		return nil, truncated(err, offset, "xref section")
	}
	if tok.Is(KeywordXref) {
		lex.SetPos(tok.End())
		return x.parseTable(lex, offset)
	}
	return x.parseStreamSection(offset, refs)
}

const xrefRecordLen = 20

func (x *XRefParser) parseTable(lex *Lexer, offset int64) (*XRefSection, error) {
	sec := &XRefSection{Offset: offset, Form: XRefFormTable, Entries: make(map[int]XRefEntry)}

	for {
		tok, err := lex.PeekSignificant()
		if err != nil {
			return nil, truncated(err, offset, "xref table")
		}
		if tok.Is(KeywordTrailer) {
			lex.SetPos(tok.End())
			break
		}

		first, err := readCount(lex, "subsection start")
		if err != nil {
			return nil, err
		}
		count, err := readCount(lex, "subsection count")
		if err != nil {
			return nil, err
		}

		lex.SkipWhitespace()
		pos := lex.Pos()
		if int64(count) > (lex.Len()-pos)/xrefRecordLen {
			return nil, newError(ErrUnexpectedEnd, pos, "xref subsection of %d entries truncated", count)
		}
		for i := 0; i < count; i++ {
			entry, err := parseTableRecord(lex.Bytes(pos, pos+xrefRecordLen), pos)
			if err != nil {
				return nil, err
			}
			sec.Entries[first+i] = entry
			pos += xrefRecordLen
		}
		lex.SetPos(pos)
	}

	p := NewParser(x.buf)
	p.SetPos(lex.Pos())
	obj, err := p.ParseObject()
	if err != nil {
		return nil, truncated(err, offset, "trailer")
	}
	trailer, ok := obj.(*Dict)
	if !ok {
		return nil, newError(ErrUnexpectedToken, lex.Pos(), "trailer is %v, expected dictionary", obj.Type())
	}
	sec.Trailer = trailer
	return sec, nil
}

func readCount(lex *Lexer, what string) (int, error) {
	tok, err := lex.NextSignificant()
	if err != nil {
		return 0, truncated(err, lex.Pos(), what)
	}
	if tok.Type != TokenRegular || !isUnsigned(tok.Value) {
		return 0, newError(ErrUnexpectedToken, tok.Pos, "expected %s, got %q", what, tok.Value)
	}
	n, err := strconv.ParseInt(string(tok.Value), 10, 32)
	if err != nil {
		return 0, newError(ErrUnexpectedToken, tok.Pos, "%s %q out of range", what, tok.Value)
	}
	return int(n), nil
}

// parseTableRecord parses "oooooooooo ggggg n" plus a two-byte terminator.
func parseTableRecord(rec []byte, at int64) (XRefEntry, error) {
	if len(rec) < xrefRecordLen {
		return XRefEntry{}, newError(ErrUnexpectedEnd, at, "xref record truncated")
	}

	digits := func(b []byte) (int64, bool) {
		var n int64
		for _, c := range b {
			if !isDigit(c) {
				return 0, false
			}
			n = n*10 + int64(c-'0')
		}
		return n, true
	}

	offset, ok1 := digits(rec[0:10])
	gen, ok2 := digits(rec[11:16])
	if !ok1 || !ok2 || rec[10] != ' ' || rec[16] != ' ' {
		return XRefEntry{}, newError(ErrUnexpectedToken, at, "malformed xref record %q", rec)
	}

	switch string(rec[18:20]) {
	case " \r", " \n", "\r\n":
	default:
		return XRefEntry{}, newError(ErrUnexpectedToken, at+18, "bad xref record terminator %q", rec[18:20])
	}

	entry := XRefEntry{Offset: offset, Generation: int(gen)}
	switch rec[17] {
	case 'n':
		entry.Type = XRefInUse
	case 'f':
		entry.Type = XRefFree
	default:
		return XRefEntry{}, newError(ErrUnexpectedToken, at+17, "xref record type %q, expected n or f", rec[17])
	}
	return entry, nil
}

// tableResolver resolves in-use references against the sections merged so
// far. It lets an xref stream's /Length point at an object defined by a
// newer section.
type tableResolver struct {
	buf   []byte
	table *XRefTable
}

func (r *tableResolver) ResolveReference(ref IndirectRef) (Object, error) {
	e, ok := r.table.Get(ref.Number)
	if !ok || e.Type != XRefInUse || e.Generation != ref.Generation {
		return nil, newError(ErrObjectNotFound, 0, "object %s not in merged xref", ref.ID())
	}

	p := NewParser(r.buf)
	p.SetPos(e.Offset)
	iobj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	if iobj.Ref != ref {
		return nil, newError(ErrObjectNotFound, e.Offset, "found object %s, expected %s", iobj.Ref.ID(), ref.ID())
	}
	return iobj.Object, nil
}
