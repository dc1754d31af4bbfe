package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Buffer is a line-indexed text buffer. It tracks the byte offset of every
// line start so that line/column addressing stays O(log n), and it shifts
// all outstanding Anchors on every edit.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	content    []byte
	lineStarts []ByteOffset
	anchors    []*Anchor
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		lineStarts: []ByteOffset{0},
		revisionID: NewRevisionID(),
	}
}

// NewBufferFromString creates a buffer with initial content.
// Line endings are normalized to LF.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.content = []byte(normalizeLineEndings(s))
	b.lineStarts = scanLineStarts(b.content)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// Read all content first so CRLF sequences split across read
	// boundaries normalize correctly.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// scanLineStarts returns the byte offset of every line start in content.
// The result always contains at least offset 0; a trailing newline opens a
// final empty line.
func scanLineStarts(content []byte) []ByteOffset {
	starts := make([]ByteOffset, 1, 16)
	starts[0] = 0
	for i, c := range content {
		if c == '\n' {
			starts = append(starts, ByteOffset(i+1))
		}
	}
	return starts
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return string(b.content)
}

// TextRange returns text in the given byte range, clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := ByteOffset(len(b.content))
	start = clampOffset(start, n)
	end = clampOffset(end, n)
	if start >= end {
		return ""
	}
	return string(b.content[start:end])
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.content))
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content) == 0
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lineStarts))
}

// LineText returns the text of a specific line (without newline).
// Out-of-range lines yield the empty string.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line >= uint32(len(b.lineStarts)) {
		return ""
	}
	return string(b.content[b.lineStarts[line]:b.lineEndLocked(line)])
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line >= uint32(len(b.lineStarts)) {
		return 0
	}
	return int(b.lineEndLocked(line) - b.lineStarts[line])
}

// Coordinate Conversion

// LineStartOffset returns the byte offset of the start of a line.
// Out-of-range lines clamp to the buffer length.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line >= uint32(len(b.lineStarts)) {
		return ByteOffset(len(b.content))
	}
	return b.lineStarts[line]
}

// LineEndOffset returns the byte offset of the end of a line (before the
// newline). Out-of-range lines clamp to the buffer length.
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line >= uint32(len(b.lineStarts)) {
		return ByteOffset(len(b.content))
	}
	return b.lineEndLocked(line)
}

// lineEndLocked returns the offset just past line's last content byte.
func (b *Buffer) lineEndLocked(line uint32) ByteOffset {
	if int(line+1) < len(b.lineStarts) {
		return b.lineStarts[line+1] - 1
	}
	return ByteOffset(len(b.content))
}

// OffsetToPoint converts a byte offset to line/column.
// Offsets outside the buffer clamp to its bounds.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.offsetToPointLocked(clampOffset(offset, ByteOffset(len(b.content))))
}

func (b *Buffer) offsetToPointLocked(offset ByteOffset) Point {
	// Largest line whose start is <= offset.
	line := sort.Search(len(b.lineStarts), func(i int) bool {
		return b.lineStarts[i] > offset
	}) - 1
	return Point{
		Line:   uint32(line),
		Column: uint32(offset - b.lineStarts[line]),
	}
}

// PointToOffset converts line/column to byte offset.
// Lines clamp to the last line; columns clamp to the line length.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	line := point.Line
	if n := uint32(len(b.lineStarts)); line >= n {
		line = n - 1
	}
	col := ByteOffset(point.Column)
	if max := b.lineEndLocked(line) - b.lineStarts[line]; col > max {
		col = max
	}
	return b.lineStarts[line] + col
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > ByteOffset(len(b.content)) {
		return 0, ErrOffsetOutOfRange
	}

	text = normalizeLineEndings(text)
	b.spliceLocked(offset, offset, text)

	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(len(b.content)) {
		return ErrRangeInvalid
	}

	b.spliceLocked(start, end, "")
	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(len(b.content)) {
		return 0, ErrRangeInvalid
	}

	text = normalizeLineEndings(text)
	b.spliceLocked(start, end, text)

	return start + ByteOffset(len(text)), nil
}

// spliceLocked replaces content[start:end] with text, reindexes lines,
// shifts anchors, and bumps the revision. Caller holds the write lock.
func (b *Buffer) spliceLocked(start, end ByteOffset, text string) {
	updated := make([]byte, 0, ByteOffset(len(b.content))-(end-start)+ByteOffset(len(text)))
	updated = append(updated, b.content[:start]...)
	updated = append(updated, text...)
	updated = append(updated, b.content[end:]...)

	b.content = updated
	b.lineStarts = scanLineStarts(b.content)
	b.shiftAnchorsLocked(start, end, ByteOffset(len(text)))
	b.revisionID = NewRevisionID()
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

func clampOffset(off, max ByteOffset) ByteOffset {
	if off < 0 {
		return 0
	}
	if off > max {
		return max
	}
	return off
}
