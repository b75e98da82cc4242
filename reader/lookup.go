package reader

import (
	"fmt"

	"github.com/tsawler/pdfxref/core"
)

// lookup tracks one GetObject call: the object numbers being loaded and
// how deeply loads are nested. Each call gets its own, so the Document
// stays free of mutable state.
type lookup struct {
	visited map[int]bool
	depth   int
}

// lookupResolver resolves indirect /Length values inside a lookup.
type lookupResolver struct {
	d *Document
	l *lookup
}

func (r lookupResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.d.load(ref.ID(), r.l)
}

func (d *Document) load(id core.ObjectID, l *lookup) (core.Object, error) {
	if l.visited[id.Number] {
		return nil, &core.Error{Kind: core.ErrCyclicXRef, Msg: fmt.Sprintf("object %s is already being loaded", id)}
	}
	if l.depth >= d.maxDepth {
		return nil, &core.Error{Kind: core.ErrCyclicXRef, Msg: fmt.Sprintf("object %s exceeds nesting depth %d", id, d.maxDepth)}
	}
	l.visited[id.Number] = true
	l.depth++
	defer func() {
		delete(l.visited, id.Number)
		l.depth--
	}()

	e, ok := d.xref.Get(id.Number)
	if !ok {
		return nil, &core.Error{Kind: core.ErrObjectNotFound, Msg: fmt.Sprintf("object %s not in xref", id)}
	}

	switch e.Type {
	case core.XRefInUse:
		return d.loadDirect(id, e, l)
	case core.XRefCompressed:
		return d.loadCompressed(id, e, l)
	}
	return nil, &core.Error{Kind: core.ErrObjectNotFound, Msg: fmt.Sprintf("object %s is free", id)}
}

func (d *Document) loadDirect(id core.ObjectID, e core.XRefEntry, l *lookup) (core.Object, error) {
	if e.Generation != id.Generation {
		return nil, &core.Error{Kind: core.ErrObjectNotFound, Offset: e.Offset,
			Msg: fmt.Sprintf("object %s has generation %d in xref", id, e.Generation)}
	}

	p := core.NewParser(d.buf)
	p.SetReferenceResolver(lookupResolver{d: d, l: l})
	p.SetPos(e.Offset)
	iobj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse object %s: %w", id, err)
	}
	if iobj.Ref.ID() != id {
		return nil, &core.Error{Kind: core.ErrObjectNotFound, Offset: e.Offset,
			Msg: fmt.Sprintf("object number mismatch: expected %s, got %s", id, iobj.Ref.ID())}
	}
	return iobj.Object, nil
}

func (d *Document) loadCompressed(id core.ObjectID, e core.XRefEntry, l *lookup) (core.Object, error) {
	if id.Generation != 0 {
		return nil, &core.Error{Kind: core.ErrObjectNotFound,
			Msg: fmt.Sprintf("compressed object %s must have generation 0", id)}
	}

	container, err := d.load(core.ObjectID{Number: e.StreamNumber}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to load object stream %d for object %s: %w", e.StreamNumber, id, err)
	}
	stream, ok := container.(*core.Stream)
	if !ok {
		return nil, &core.Error{Kind: core.ErrUnexpectedToken,
			Msg: fmt.Sprintf("object stream %d is %v, expected Stream", e.StreamNumber, container.Type())}
	}

	os, err := core.NewObjectStream(stream, d.inflater)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", e.StreamNumber, err)
	}
	num, obj, err := os.ObjectAt(e.Index)
	if err != nil {
		return nil, fmt.Errorf("object stream %d: %w", e.StreamNumber, err)
	}
	if num != id.Number {
		return nil, &core.Error{Kind: core.ErrObjectNotFound, Offset: stream.Offset,
			Msg: fmt.Sprintf("object stream %d index %d holds object %d, expected %d", e.StreamNumber, e.Index, num, id.Number)}
	}

	d.logger.Debug("loaded compressed object",
		"object", id.String(),
		"stream", e.StreamNumber,
		"index", e.Index)
	return obj, nil
}
