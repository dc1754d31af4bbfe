// Package buffer provides a thread-safe, line-indexed text buffer and the
// mutation-tolerant Anchor type built on top of it.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Coordinate conversion between byte offsets and line/column positions
//   - Anchors: positions that are shifted on every edit so they stay
//     logically correct while the text around them changes
//   - Line ending normalization
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("c4( d4 e4)\nf4 g4\n")
//
//	// Anchor the opening slur; it survives edits before it.
//	a, _ := buf.Anchor(2)
//	buf.Insert(0, "\\relative ")
//	_ = a.Offset() // 12
//
// Position Types:
//
//   - ByteOffset: raw byte position in the buffer
//   - Point: line and column position (0-indexed, column in bytes)
//
// Thread Safety:
//
// All Buffer and Anchor methods are thread-safe. Read operations acquire a
// read lock, write operations an exclusive lock. Anchors are shifted under
// the same lock that applies the edit, so an anchor read never observes a
// stale position.
package buffer
