// Package score models the rendered side of the correlation: paginated
// documents whose pages carry link regions pointing back into source files.
// It also loads renderer link dumps from disk and watches them for changes.
package score

import "github.com/google/uuid"

// DocumentID identifies one rendered document. Caches key on it.
type DocumentID string

// NewDocumentID returns a fresh unique document ID.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.NewString())
}

// Rect is a rectangular region in page coordinates.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Link is one navigable region on a page.
type Link interface {
	// URL returns the link target. It may be empty or point anywhere;
	// consumers filter for the targets they understand.
	URL() string

	// Area returns the region the link occupies on its page.
	Area() Rect
}

// Page is one page of a rendered document.
type Page interface {
	// Links returns the page's links in encounter order.
	Links() []Link
}

// Document is a paginated rendered score. Lock must be held for the
// duration of any page or link scan: a live renderer may rewrite its
// internal state (re-render on zoom, page-count change) at any time.
type Document interface {
	ID() DocumentID
	PageCount() int
	Page(i int) Page
	Lock()
	Unlock()
}
