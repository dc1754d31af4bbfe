package score

import "sync"

// MemoryLink is an immutable in-memory Link.
type MemoryLink struct {
	Target string
	Region Rect
}

// URL returns the link target.
func (l MemoryLink) URL() string {
	return l.Target
}

// Area returns the link's region.
func (l MemoryLink) Area() Rect {
	return l.Region
}

// MemoryPage is one page of a MemoryDocument.
type MemoryPage struct {
	links []Link
}

// NewMemoryPage builds a page from its links, kept in the given order.
func NewMemoryPage(links ...Link) MemoryPage {
	return MemoryPage{links: links}
}

// Links returns the page's links in encounter order.
func (p MemoryPage) Links() []Link {
	return p.links
}

// MemoryDocument is an in-memory rendered document, typically decoded from
// a renderer link dump. Its pages never change after construction, so the
// lock it carries only satisfies the Document scan contract.
type MemoryDocument struct {
	mu     sync.Mutex
	id     DocumentID
	source string
	pages  []MemoryPage
}

// NewMemoryDocument builds a document from its pages and assigns it a
// fresh ID.
func NewMemoryDocument(pages ...MemoryPage) *MemoryDocument {
	return &MemoryDocument{
		id:    NewDocumentID(),
		pages: pages,
	}
}

// ID returns the document's identity.
func (d *MemoryDocument) ID() DocumentID {
	return d.id
}

// Source returns the rendered artifact this document describes, when known
// (the "score" field of a link dump).
func (d *MemoryDocument) Source() string {
	return d.source
}

// PageCount returns the number of pages.
func (d *MemoryDocument) PageCount() int {
	return len(d.pages)
}

// Page returns page i.
func (d *MemoryDocument) Page(i int) Page {
	return d.pages[i]
}

// Lock takes the document's scan lock.
func (d *MemoryDocument) Lock() {
	d.mu.Lock()
}

// Unlock releases the document's scan lock.
func (d *MemoryDocument) Unlock() {
	d.mu.Unlock()
}

var _ Document = (*MemoryDocument)(nil)
