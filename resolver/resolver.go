package resolver

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfxref/core"
)

var (
	// ErrCircularReference is returned when a reference is reached again
	// from inside its own expansion.
	ErrCircularReference = errors.New("circular reference")

	// ErrMaxDepth is returned when nesting exceeds the configured limit.
	ErrMaxDepth = errors.New("maximum resolution depth exceeded")
)

// DefaultMaxDepth is the nesting limit used when WithMaxDepth is not given.
const DefaultMaxDepth = 100

// ObjectResolver resolves indirect references in PDF objects
// It can recursively resolve references in dictionaries and arrays
type ObjectResolver struct {
	reader   ObjectReader
	maxDepth int
}

// ObjectReader interface allows the resolver to work with any reader
type ObjectReader interface {
	GetObject(id core.ObjectID) (core.Object, error)
}

// Option configures the resolver
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default: 100)
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		r.maxDepth = depth
	}
}

// NewResolver creates a new object resolver
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:   reader,
		maxDepth: DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// walk holds the state of one resolution tree. The path set only holds
// references on the way down, so the same object may appear in sibling
// branches.
type walk struct {
	path map[core.ObjectID]bool
	deep bool
}

// Resolve follows obj if it is an indirect reference. Nested references
// are left in place.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	return r.resolve(obj, &walk{path: make(map[core.ObjectID]bool)}, 0)
}

// ResolveDeep recursively resolves all indirect references in dictionaries,
// arrays and stream dictionaries. The input is not modified.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolve(obj, &walk{path: make(map[core.ObjectID]bool), deep: true}, 0)
}

func (r *ObjectResolver) resolve(obj core.Object, w *walk, depth int) (core.Object, error) {
	if depth > r.maxDepth {
		return nil, fmt.Errorf("%w (%d)", ErrMaxDepth, r.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		id := v.ID()
		if w.path[id] {
			return nil, fmt.Errorf("%w: %s R", ErrCircularReference, id)
		}
		w.path[id] = true
		defer delete(w.path, id)

		resolved, err := r.reader.GetObject(id)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve reference %s R: %w", id, err)
		}
		if !w.deep {
			return resolved, nil
		}
		return r.resolve(resolved, w, depth+1)

	case *core.Dict:
		if !w.deep {
			return v, nil
		}
		dict, err := r.resolveDict(v, w, depth)
		if err != nil {
			return nil, err
		}
		return dict, nil

	case core.Array:
		if !w.deep {
			return v, nil
		}

		// Resolve all array elements
		resolved := make(core.Array, len(v))
		for i, elem := range v {
			resolvedElem, err := r.resolve(elem, w, depth+1)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve array element %d: %w", i, err)
			}
			resolved[i] = resolvedElem
		}
		return resolved, nil

	case *core.Stream:
		if !w.deep {
			return v, nil
		}

		dict, err := r.resolveDict(v.Dict, w, depth)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve stream dict: %w", err)
		}
		return &core.Stream{Dict: dict, Data: v.Data, Offset: v.Offset}, nil

	default:
		// Primitive types don't need resolution
		return obj, nil
	}
}

func (r *ObjectResolver) resolveDict(d *core.Dict, w *walk, depth int) (*core.Dict, error) {
	resolved := core.NewDict()
	for _, key := range d.Keys() {
		value, err := r.resolve(d.Get(key), w, depth+1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve dict key %s: %w", key, err)
		}
		resolved.Set(key, value)
	}
	return resolved, nil
}

// ResolveDict is a convenience method for resolving dictionaries
// It resolves the dictionary and all its values (deep resolution)
func (r *ObjectResolver) ResolveDict(dict *core.Dict) (*core.Dict, error) {
	resolved, err := r.ResolveDeep(dict)
	if err != nil {
		return nil, err
	}
	return resolved.(*core.Dict), nil
}

// ResolveArray is a convenience method for resolving arrays
// It resolves all elements in the array (deep resolution)
func (r *ObjectResolver) ResolveArray(arr core.Array) (core.Array, error) {
	resolved, err := r.ResolveDeep(arr)
	if err != nil {
		return nil, err
	}
	return resolved.(core.Array), nil
}

// ResolveReference resolves a single indirect reference
// This is a shallow resolution - it returns the referenced object but doesn't recurse
func (r *ObjectResolver) ResolveReference(ref core.IndirectRef) (core.Object, error) {
	return r.Resolve(ref)
}

// GetObject loads an object by id (convenience method)
func (r *ObjectResolver) GetObject(id core.ObjectID) (core.Object, error) {
	return r.reader.GetObject(id)
}

// GetObjectResolvedDeep loads and fully resolves an object by id
func (r *ObjectResolver) GetObjectResolvedDeep(id core.ObjectID) (core.Object, error) {
	return r.ResolveDeep(core.IndirectRef(id))
}
