package pointlink

import (
	"sort"

	"github.com/dshills/scorelink/internal/engine/buffer"
	"github.com/dshills/scorelink/internal/engine/token"
)

// Outcome tags the result of a caret or selection query.
type Outcome uint8

const (
	// OutcomeIndeterminate makes no decision: nothing applies here, but
	// whatever the host highlighted before may stand.
	OutcomeIndeterminate Outcome = iota

	// OutcomeClear states definitively that no destinations apply and any
	// earlier highlight should go away.
	OutcomeClear

	// OutcomeMatch selects a half-open range of bound positions whose
	// destinations apply.
	OutcomeMatch
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeIndeterminate:
		return "indeterminate"
	case OutcomeClear:
		return "clear"
	case OutcomeMatch:
		return "match"
	default:
		return "unknown"
	}
}

// Binding correlates one source file's link positions with a live buffer.
// Each table position becomes a buffer anchor, so the correlation keeps
// tracking the same text as the buffer is edited.
//
// anchors ascend by buffer offset and destinations[i] belongs to
// anchors[i] for the binding's whole life; edits shift anchors but never
// reorder the lists.
type Binding struct {
	path     string
	buf      *buffer.Buffer
	src      token.Source
	resolver *DelimiterResolver
	anchors  []*buffer.Anchor
	dests    [][]Destination
	byKey    map[Position]int
}

// NewBinding anchors every table position of path in buf. Positions on
// lines the buffer does not have, or whose column runs past their line's
// end, are dropped: a stale table degrades to fewer bound positions,
// never to an error. The column check keeps a spilled key from landing
// on the next line, where it would collide with that line's own keys.
func NewBinding(path string, buf *buffer.Buffer, src token.Source, table *LinkTable) *Binding {
	b := &Binding{
		path:     path,
		buf:      buf,
		src:      src,
		resolver: NewDelimiterResolver(src),
		byKey:    make(map[Position]int),
	}

	for _, pos := range table.Positions(path) {
		if pos.Line < 1 || int64(pos.Line) > int64(buf.LineCount()) {
			continue
		}
		line := uint32(pos.Line - 1)
		if pos.Column > buf.LineLen(line) {
			continue
		}
		anchor, err := buf.Anchor(buf.LineStartOffset(line) + buffer.ByteOffset(pos.Column))
		if err != nil {
			continue
		}
		b.byKey[pos] = len(b.anchors)
		b.anchors = append(b.anchors, anchor)
		b.dests = append(b.dests, table.Destinations(path, pos))
	}
	return b
}

// Path returns the source file path this binding answers for.
func (b *Binding) Path() string {
	return b.path
}

// Buffer returns the bound buffer.
func (b *Binding) Buffer() *buffer.Buffer {
	return b.buf
}

// Len returns the number of bound positions.
func (b *Binding) Len() int {
	return len(b.anchors)
}

// Anchor returns the anchor at index i of the bound position list.
func (b *Binding) Anchor(i int) *buffer.Anchor {
	return b.anchors[i]
}

// Destinations returns the rendered destinations belonging to the bound
// position at index i, in page-scan order.
func (b *Binding) Destinations(i int) []Destination {
	return b.dests[i]
}

// Cursor returns the anchor bound for an exact (line, column) table key.
// The key identifies the position as the table recorded it; the anchor
// tells where that position lives in the buffer now. ErrNotFound if the
// key was never bound.
func (b *Binding) Cursor(line, column int) (*buffer.Anchor, error) {
	i, ok := b.byKey[Position{Line: line, Column: column}]
	if !ok {
		return nil, ErrNotFound
	}
	return b.anchors[i], nil
}

// Release releases every anchor the binding holds. The binding must not
// be used afterward.
func (b *Binding) Release() {
	for _, anchor := range b.anchors {
		anchor.Release()
	}
}

// findLink returns the largest index whose anchor offset is <= pos, or
// -1 when pos precedes every anchor.
func (b *Binding) findLink(pos buffer.ByteOffset) int {
	return sort.Search(len(b.anchors), func(i int) bool {
		return b.anchors[i].Offset() > pos
	}) - 1
}

// Indices maps a caret or selection to the half-open index range of
// bound positions whose destinations apply. Equal offsets query the
// caret point at start; start < end queries the selection. The returned
// range is meaningful only for OutcomeMatch.
//
// A point query does a bit of trickery: a caret resting on the closing
// delimiter of a slur, phrasing slur or beam resolves to the opening
// token's bound position, since that is where the destination was
// engraved from.
func (b *Binding) Indices(start, end buffer.ByteOffset) (int, int, Outcome) {
	if start < end {
		return b.selectionIndices(start, end)
	}
	return b.pointIndices(start)
}

func (b *Binding) selectionIndices(start, end buffer.ByteOffset) (int, int, Outcome) {
	last := b.findLink(end - 1)
	if last >= 0 {
		first := b.findLink(start)
		if first < 0 || b.anchors[first].Offset() < start {
			first++
		}
		if first <= last {
			return first, last + 1, OutcomeMatch
		}
	}
	return 0, 0, OutcomeClear
}

func (b *Binding) pointIndices(pos buffer.ByteOffset) (int, int, Outcome) {
	index := b.findLink(pos)
	if index < 0 {
		// before all bound positions
		return 0, 0, OutcomeIndeterminate
	}

	anchor := b.anchors[index]
	if anchor.Offset() < pos {
		// The caret trails the nearest anchor. It may rest on the closing
		// delimiter of a construct whose opening token carries the
		// destination.
		caret := b.buf.OffsetToPoint(pos)
		anchorPt := anchor.Point()

		bound := int64(-1)
		if anchorPt.Line == caret.Line {
			bound = int64(anchorPt.Column)
		}

		opener, openerLine, found := b.resolver.ResolveLine(caret.Line, caret.Column, bound)
		if found {
			openerOff := b.buf.LineStartOffset(openerLine) + buffer.ByteOffset(opener.StartCol)
			index = b.findLink(openerOff)
			if index < 0 || b.anchors[index].Line() != openerLine {
				return 0, 0, OutcomeIndeterminate
			}
		} else if anchorPt.Line != caret.Line {
			return 0, 0, OutcomeClear
		}
	}
	return index, index + 1, OutcomeMatch
}
