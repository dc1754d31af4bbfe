package pointlink

import (
	"fmt"
	"sort"

	"github.com/dshills/scorelink/internal/score"
)

// Position is a source location key: 1-based line, 0-based column.
type Position struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Less orders positions by line, then column.
func (p Position) Less(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Destination locates one visual region in a rendered document.
type Destination struct {
	Page int // 0-based page index
	Area score.Rect
}

// LinkTable groups one rendered document's link destinations by source
// file and position. A table is built once per document and never
// changes afterward; bindings copy the destination slices they need, so
// the table can be evicted while bindings live on.
type LinkTable struct {
	doc   score.DocumentID
	files map[string]map[Position][]Destination
}

// BuildLinkTable scans every page of doc in order and indexes every link
// whose URL the matcher accepts. Links with unrecognized or malformed
// URLs are skipped silently. The document lock is held across the whole
// scan so a renderer swapping pages underneath cannot tear the table.
func BuildLinkTable(doc score.Document, m *Matcher) *LinkTable {
	t := &LinkTable{
		doc:   doc.ID(),
		files: make(map[string]map[Position][]Destination),
	}

	doc.Lock()
	defer doc.Unlock()

	for i := 0; i < doc.PageCount(); i++ {
		for _, link := range doc.Page(i).Links() {
			ref, ok := m.Match(link.URL())
			if !ok {
				continue
			}
			positions := t.files[ref.Path]
			if positions == nil {
				positions = make(map[Position][]Destination)
				t.files[ref.Path] = positions
			}
			pos := Position{Line: ref.Line, Column: ref.Column}
			positions[pos] = append(positions[pos], Destination{Page: i, Area: link.Area()})
		}
	}
	return t
}

// DocumentID returns the identity of the document the table was built
// from.
func (t *LinkTable) DocumentID() score.DocumentID {
	return t.doc
}

// Files returns the source files with at least one destination, sorted.
func (t *LinkTable) Files() []string {
	files := make([]string, 0, len(t.files))
	for f := range t.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// HasFile reports whether the table holds destinations for path.
func (t *LinkTable) HasFile(path string) bool {
	_, ok := t.files[path]
	return ok
}

// Positions returns path's positions sorted by (line, column).
func (t *LinkTable) Positions(path string) []Position {
	positions := make([]Position, 0, len(t.files[path]))
	for p := range t.files[path] {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Less(positions[j])
	})
	return positions
}

// Destinations returns the destinations recorded for an exact
// (path, position) key, in page-scan order. Nil if the key was never
// seen.
func (t *LinkTable) Destinations(path string, pos Position) []Destination {
	return t.files[path][pos]
}
