// Package pages provides PDF page tree traversal and page access.
//
// # Page Tree
//
// PDF documents organize pages in a tree structure. Start from the
// catalog and walk to the leaves:
//
//	catalog := pages.NewCatalog(catalogDict, doc)
//	tree, _ := catalog.PageTree()
//	page, _ := tree.GetPage(0)  // 0-indexed
//
// A /Kids entry that refers back to a node on the current branch fails
// with [ErrCyclicPageTree].
//
// # Page Access
//
// The [Page] type represents a single PDF page with:
//
//   - Ref - the page object id
//   - MediaBox - page dimensions
//   - CropBox - visible area, defaulting to MediaBox
//   - Rotate - page rotation (0, 90, 180, 270)
//   - Resources - fonts, images, etc.
//   - Contents - content streams, resolved but not interpreted
//
// MediaBox, CropBox, Resources and Rotate are inherited from the nearest
// ancestor Pages node that defines them.
//
// # Object Resolution
//
// The [ObjectResolver] interface abstracts object lookup, so the page
// tree does not depend on the reader package.
package pages
