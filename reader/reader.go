package reader

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/tsawler/pdfxref/core"
)

// Document is a parsed PDF held in memory. It is read-only after Open and
// safe for concurrent use.
type Document struct {
	buf      []byte
	version  core.Version
	xref     *core.XRefTable
	inflater core.Inflater
	logger   *slog.Logger
	maxDepth int
}

// Ensure Document implements core.ReferenceResolver
var _ core.ReferenceResolver = (*Document)(nil)

// Open resolves the cross-reference chain of buf. The buffer must not be
// modified while the Document is in use.
func Open(buf []byte, opts ...Option) (*Document, error) {
	d := &Document{
		buf:      buf,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.inflater == nil {
		d.inflater = core.DefaultInflater
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}

	version, _, err := core.ParseHeader(buf)
	if err != nil {
		d.logger.Debug("no PDF header", "error", err)
	}
	d.version = version

	xp := core.NewXRefParser(buf)
	xp.SetInflater(d.inflater)
	xp.SetLogger(d.logger)
	table, err := xp.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to load xref: %w", err)
	}
	d.xref = table

	d.logger.Debug("opened document",
		"version", version.String(),
		"size", len(buf),
		"objects", len(table.Entries))
	return d, nil
}

// Version returns the header version. It is zero when the header is missing.
func (d *Document) Version() core.Version {
	return d.version
}

// Trailer returns the merged trailer dictionary.
func (d *Document) Trailer() *core.Dict {
	return d.xref.Trailer
}

// XRef returns the merged cross-reference table.
// Exposed for debugging/inspection
func (d *Document) XRef() *core.XRefTable {
	return d.xref
}

// Len returns the size of the underlying buffer in bytes.
func (d *Document) Len() int {
	return len(d.buf)
}

// NumObjects returns the trailer /Size, or 0 when it is missing.
func (d *Document) NumObjects() int {
	size, ok := d.xref.Trailer.GetInt("Size")
	if !ok {
		return 0
	}
	return int(size)
}

// ObjectIDs returns the ids of every in-use and compressed object, sorted
// by object number.
func (d *Document) ObjectIDs() []core.ObjectID {
	var ids []core.ObjectID
	for _, num := range d.xref.Numbers() {
		e, _ := d.xref.Get(num)
		switch e.Type {
		case core.XRefInUse:
			ids = append(ids, core.ObjectID{Number: num, Generation: e.Generation})
		case core.XRefCompressed:
			ids = append(ids, core.ObjectID{Number: num})
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Number < ids[j].Number })
	return ids
}

// GetObject loads an object by id. Nothing is cached: every call parses
// from the buffer.
func (d *Document) GetObject(id core.ObjectID) (core.Object, error) {
	return d.load(id, &lookup{visited: make(map[int]bool)})
}

// ResolveReference resolves an indirect reference
func (d *Document) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return d.GetObject(ref.ID())
}

// Resolve resolves obj if it is an indirect reference, otherwise returns it as-is
func (d *Document) Resolve(obj core.Object) (core.Object, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		return d.ResolveReference(ref)
	}
	return obj, nil
}

// DecodeStream decodes s through the configured inflater.
func (d *Document) DecodeStream(s *core.Stream) ([]byte, error) {
	return s.Decode(d.inflater)
}

// Catalog returns the document catalog (root object)
func (d *Document) Catalog() (*core.Dict, error) {
	root := d.xref.Trailer.Get("Root")
	if root == nil {
		return nil, fmt.Errorf("trailer missing /Root entry")
	}
	return d.resolveDict(root, "catalog")
}

// Info returns the document info dictionary. It returns nil, nil when the
// trailer has no /Info.
func (d *Document) Info() (*core.Dict, error) {
	info := d.xref.Trailer.Get("Info")
	if info == nil {
		return nil, nil // Info is optional
	}
	return d.resolveDict(info, "info")
}

func (d *Document) resolveDict(obj core.Object, what string) (*core.Dict, error) {
	resolved, err := d.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", what, err)
	}
	dict, ok := resolved.(*core.Dict)
	if !ok {
		return nil, fmt.Errorf("%s is not a dictionary: %T", what, resolved)
	}
	return dict, nil
}
