package buffer

// Anchor is a position in a Buffer that stays logically correct across
// edits. The owning buffer shifts every registered anchor as part of each
// edit, under the same lock:
//
//   - an edit entirely before the anchor shifts it by the edit's delta
//   - an insertion exactly at the anchor moves it past the inserted text
//   - an edit at or after the anchor leaves it unchanged
//   - an edit spanning the anchor clamps it to the edit start plus the
//     replacement length and marks it invalid
//
// An invalid anchor keeps reporting a usable, in-bounds position; Valid
// only records that the originally anchored text was removed.
type Anchor struct {
	buf   *Buffer
	off   ByteOffset
	valid bool
}

// Anchor registers a new anchor at the given offset.
// Returns ErrOffsetOutOfRange if the offset is outside the buffer.
func (b *Buffer) Anchor(offset ByteOffset) (*Anchor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > ByteOffset(len(b.content)) {
		return nil, ErrOffsetOutOfRange
	}

	a := &Anchor{buf: b, off: offset, valid: true}
	b.anchors = append(b.anchors, a)
	return a, nil
}

// AnchorCount returns the number of registered anchors.
func (b *Buffer) AnchorCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.anchors)
}

// shiftAnchorsLocked updates every anchor for the edit that replaced
// [start, end) with newLen bytes. Caller holds the write lock.
func (b *Buffer) shiftAnchorsLocked(start, end, newLen ByteOffset) {
	delta := newLen - (end - start)
	for _, a := range b.anchors {
		switch {
		case end <= a.off:
			// Entirely before the anchor. An insertion exactly at the
			// anchor lands here too, moving the anchor past the new text.
			a.off += delta
		case start >= a.off:
			// At or after the anchor: unchanged. An anchor sitting exactly
			// at the start of a deletion survives it.
		default:
			// The edit spans the anchor: its text is gone.
			a.off = start + newLen
			a.valid = false
		}
	}
}

// Offset returns the anchor's current byte offset.
func (a *Anchor) Offset() ByteOffset {
	a.buf.mu.RLock()
	defer a.buf.mu.RUnlock()
	return a.off
}

// Point returns the anchor's current line/column position.
func (a *Anchor) Point() Point {
	a.buf.mu.RLock()
	defer a.buf.mu.RUnlock()
	return a.buf.offsetToPointLocked(a.off)
}

// Line returns the anchor's current 0-indexed line.
func (a *Anchor) Line() uint32 {
	return a.Point().Line
}

// Column returns the anchor's current 0-indexed byte column.
func (a *Anchor) Column() uint32 {
	return a.Point().Column
}

// Valid reports whether the anchored text still exists. It turns false when
// an edit deletes or replaces the range containing the anchor.
func (a *Anchor) Valid() bool {
	a.buf.mu.RLock()
	defer a.buf.mu.RUnlock()
	return a.valid
}

// Buffer returns the buffer the anchor belongs to.
func (a *Anchor) Buffer() *Buffer {
	return a.buf
}

// Release deregisters the anchor. After Release the anchor keeps its last
// offset but no longer tracks edits. Releasing twice is a no-op.
func (a *Anchor) Release() {
	a.buf.mu.Lock()
	defer a.buf.mu.Unlock()

	for i, other := range a.buf.anchors {
		if other == a {
			a.buf.anchors = append(a.buf.anchors[:i], a.buf.anchors[i+1:]...)
			return
		}
	}
}
