package pages

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdfxref/core"
)

// ErrCyclicPageTree is returned when a /Kids entry points back at a node
// the traversal is already inside.
var ErrCyclicPageTree = errors.New("cyclic page tree")

// ObjectResolver interface for resolving indirect references.
// *reader.Document implements it.
type ObjectResolver interface {
	Resolve(obj core.Object) (core.Object, error)
}

// Catalog represents the PDF document catalog (root of document structure)
type Catalog struct {
	dict     *core.Dict
	resolver ObjectResolver
}

// NewCatalog creates a new catalog from a dictionary
func NewCatalog(dict *core.Dict, resolver ObjectResolver) *Catalog {
	return &Catalog{
		dict:     dict,
		resolver: resolver,
	}
}

// Type returns the catalog type (should be "Catalog")
func (c *Catalog) Type() string {
	name, _ := c.dict.GetName("Type")
	return string(name)
}

// Version returns the /Version entry if present. It overrides the header
// version when later than it.
func (c *Catalog) Version() string {
	name, _ := c.dict.GetName("Version")
	return string(name)
}

// PageTree resolves /Pages and returns the page tree rooted there.
func (c *Catalog) PageTree() (*PageTree, error) {
	pagesObj := c.dict.Get("Pages")
	if pagesObj == nil {
		return nil, fmt.Errorf("catalog missing /Pages entry")
	}

	resolved, err := c.resolver.Resolve(pagesObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Pages: %w", err)
	}

	root, ok := resolved.(*core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages type: %T", resolved)
	}

	tree := NewPageTree(root, c.resolver)
	if ref, ok := pagesObj.(core.IndirectRef); ok {
		tree.rootID = ref.ID()
		tree.hasRootID = true
	}
	return tree, nil
}

// Pages returns every page in document order.
func (c *Catalog) Pages() ([]*Page, error) {
	tree, err := c.PageTree()
	if err != nil {
		return nil, err
	}
	return tree.Pages()
}

// Metadata returns the metadata stream if present
func (c *Catalog) Metadata() (*core.Stream, error) {
	metadataRef := c.dict.Get("Metadata")
	if metadataRef == nil {
		return nil, nil // Optional
	}

	metadataObj, err := c.resolver.Resolve(metadataRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve /Metadata: %w", err)
	}

	stream, ok := metadataObj.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("invalid /Metadata type: %T", metadataObj)
	}

	return stream, nil
}

// PageTree represents the PDF page tree. It is not safe for concurrent use
// until Pages has returned once.
type PageTree struct {
	root      *core.Dict
	rootID    core.ObjectID
	hasRootID bool
	resolver  ObjectResolver
	pages     []*Page // Cached flattened page list
}

// NewPageTree creates a new page tree from the root pages dictionary
func NewPageTree(root *core.Dict, resolver ObjectResolver) *PageTree {
	return &PageTree{
		root:     root,
		resolver: resolver,
	}
}

// Count returns the /Count of the root node. It may disagree with the
// number of leaves on damaged files; len(Pages()) is authoritative.
func (t *PageTree) Count() (int, error) {
	countObj := t.root.Get("Count")
	if countObj == nil {
		return 0, fmt.Errorf("page tree missing /Count entry")
	}

	count, ok := countObj.(core.Int)
	if !ok {
		return 0, fmt.Errorf("invalid /Count type: %T", countObj)
	}

	return int(count), nil
}

// GetPage returns the page at the given index (0-based)
func (t *PageTree) GetPage(index int) (*Page, error) {
	pages, err := t.Pages()
	if err != nil {
		return nil, err
	}

	if index < 0 || index >= len(pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(pages))
	}

	return pages[index], nil
}

// Pages returns all pages as a slice
func (t *PageTree) Pages() ([]*Page, error) {
	if t.pages == nil {
		if err := t.loadPages(); err != nil {
			return nil, err
		}
	}

	return t.pages, nil
}

// loadPages traverses the page tree and builds the flattened page list
func (t *PageTree) loadPages() error {
	w := &treeWalk{path: make(map[core.ObjectID]bool)}
	if t.hasRootID {
		w.path[t.rootID] = true
	}

	if err := t.traversePageNode(w, t.root, t.rootID, nil); err != nil {
		return fmt.Errorf("failed to traverse page tree: %w", err)
	}

	t.pages = w.pages
	if t.pages == nil {
		t.pages = []*Page{}
	}
	return nil
}

type treeWalk struct {
	path  map[core.ObjectID]bool // nodes on the current branch
	pages []*Page
}

// traversePageNode recursively traverses a page tree node. ancestors holds
// the Pages nodes above it, nearest first, for inheritable attributes.
func (t *PageTree) traversePageNode(w *treeWalk, node *core.Dict, id core.ObjectID, ancestors []*core.Dict) error {
	typeName, _ := node.GetName("Type")

	// A node without /Type is a Pages node when it has /Kids
	if typeName == "" && node.Has("Kids") {
		typeName = "Pages"
	}

	switch typeName {
	case "Pages":
		kidsObj := node.Get("Kids")
		if kidsObj == nil {
			return fmt.Errorf("Pages node missing /Kids entry")
		}

		kidsResolved, err := t.resolver.Resolve(kidsObj)
		if err != nil {
			return fmt.Errorf("failed to resolve /Kids: %w", err)
		}

		kids, ok := kidsResolved.(core.Array)
		if !ok {
			return fmt.Errorf("invalid /Kids type: %T", kidsResolved)
		}

		chain := append([]*core.Dict{node}, ancestors...)
		for i, kidObj := range kids {
			var kidID core.ObjectID
			if ref, ok := kidObj.(core.IndirectRef); ok {
				kidID = ref.ID()
				if w.path[kidID] {
					return fmt.Errorf("%w: kid %d refers to %s R", ErrCyclicPageTree, i, kidID)
				}
			}

			kidResolved, err := t.resolver.Resolve(kidObj)
			if err != nil {
				return fmt.Errorf("failed to resolve kid %d: %w", i, err)
			}

			kidDict, ok := kidResolved.(*core.Dict)
			if !ok {
				return fmt.Errorf("invalid kid type: %T", kidResolved)
			}

			if _, isRef := kidObj.(core.IndirectRef); isRef {
				w.path[kidID] = true
			}
			err = t.traversePageNode(w, kidDict, kidID, chain)
			delete(w.path, kidID)
			if err != nil {
				return err
			}
		}

	case "Page":
		w.pages = append(w.pages, NewPage(id, node, ancestors, t.resolver))

	default:
		return fmt.Errorf("unexpected page node type: %q", typeName)
	}

	return nil
}

// Page represents a single PDF page
type Page struct {
	// Ref is the id of the page object. It is zero for a page dictionary
	// written directly inside /Kids.
	Ref core.ObjectID

	dict      *core.Dict
	ancestors []*core.Dict // Pages nodes above the page, nearest first
	resolver  ObjectResolver
}

// NewPage creates a new page from a dictionary
func NewPage(ref core.ObjectID, dict *core.Dict, ancestors []*core.Dict, resolver ObjectResolver) *Page {
	return &Page{
		Ref:       ref,
		dict:      dict,
		ancestors: ancestors,
		resolver:  resolver,
	}
}

// Dict returns the page dictionary.
func (p *Page) Dict() *core.Dict {
	return p.dict
}

// inherited looks key up on the page, then on each ancestor in turn.
func (p *Page) inherited(key core.Name) core.Object {
	if v := p.dict.Get(key); v != nil {
		return v
	}
	for _, a := range p.ancestors {
		if v := a.Get(key); v != nil {
			return v
		}
	}
	return nil
}

// MediaBox returns the page media box [x1 y1 x2 y2]
// This is inheritable
func (p *Page) MediaBox() ([]float64, error) {
	return p.getBox("MediaBox")
}

// CropBox returns the page crop box [x1 y1 x2 y2]
// This is inheritable, defaults to MediaBox if not present
func (p *Page) CropBox() ([]float64, error) {
	if p.inherited("CropBox") == nil {
		return p.MediaBox()
	}
	return p.getBox("CropBox")
}

// getBox retrieves a box attribute (inheritable)
func (p *Page) getBox(name core.Name) ([]float64, error) {
	boxObj := p.inherited(name)
	if boxObj == nil {
		return nil, fmt.Errorf("%s not found", name)
	}

	boxResolved, err := p.resolver.Resolve(boxObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}

	boxArr, ok := boxResolved.(core.Array)
	if !ok {
		return nil, fmt.Errorf("invalid %s type: %T", name, boxResolved)
	}

	if len(boxArr) != 4 {
		return nil, fmt.Errorf("invalid %s length: %d (expected 4)", name, len(boxArr))
	}

	box := make([]float64, 4)
	for i := range boxArr {
		v, ok := boxArr.GetNumber(i)
		if !ok {
			return nil, fmt.Errorf("invalid %s element type: %T", name, boxArr[i])
		}
		box[i] = v
	}

	return box, nil
}

// Resources returns the page resources dictionary
// This is inheritable
func (p *Page) Resources() (*core.Dict, error) {
	resourcesObj := p.inherited("Resources")
	if resourcesObj == nil {
		return nil, fmt.Errorf("resources not found")
	}

	resourcesResolved, err := p.resolver.Resolve(resourcesObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Resources: %w", err)
	}

	resourcesDict, ok := resourcesResolved.(*core.Dict)
	if !ok {
		return nil, fmt.Errorf("invalid Resources type: %T", resourcesResolved)
	}

	return resourcesDict, nil
}

// Contents returns the page content stream(s). The streams are resolved
// but not decoded.
func (p *Page) Contents() ([]*core.Stream, error) {
	contentsObj := p.dict.Get("Contents")
	if contentsObj == nil {
		return nil, nil // Contents is optional
	}

	contentsResolved, err := p.resolver.Resolve(contentsObj)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Contents: %w", err)
	}

	// Contents can be a single stream or array of streams
	switch v := contentsResolved.(type) {
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		streams := make([]*core.Stream, 0, len(v))
		for i, elem := range v {
			resolved, err := p.resolver.Resolve(elem)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve contents[%d]: %w", i, err)
			}
			s, ok := resolved.(*core.Stream)
			if !ok {
				return nil, fmt.Errorf("invalid contents[%d] type: %T", i, resolved)
			}
			streams = append(streams, s)
		}
		return streams, nil
	default:
		return nil, fmt.Errorf("invalid Contents type: %T", contentsResolved)
	}
}

// Rotate returns the page rotation (0, 90, 180, or 270)
// This is inheritable
func (p *Page) Rotate() int {
	rotate, ok := p.inherited("Rotate").(core.Int)
	if !ok {
		return 0 // Default
	}

	r := int(rotate) % 360
	if r < 0 {
		r += 360
	}
	return r
}

// Width returns the page width (from MediaBox)
func (p *Page) Width() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[2] - box[0], nil
}

// Height returns the page height (from MediaBox)
func (p *Page) Height() (float64, error) {
	box, err := p.MediaBox()
	if err != nil {
		return 0, err
	}
	return box[3] - box[1], nil
}
