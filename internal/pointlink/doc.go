// Package pointlink correlates positions in rendered score documents
// with positions in the source text they were engraved from, in both
// directions.
//
// A rendered document carries links whose URLs encode source locations
// (scheme://path:line:column). BuildLinkTable scans a document once and
// groups those locations by file. NewBinding plants a buffer anchor for
// every location of one file, so the correlation survives edits: anchors
// ride along with insertions and deletions above them.
//
// Forward resolution (click in the score, land in the text) goes through
// Registry.ResolveLink, which parses a link URL and returns the anchor
// bound for it. Reverse resolution (move the caret, highlight the score)
// goes through Binding.Indices, which maps a caret offset or selection to
// the half-open range of bound positions whose destinations apply.
//
// A caret that trails the nearest bound position may be resting on a
// closing delimiter (slur, phrasing slur, beam) whose opening token is
// the position that carries the destination. DelimiterResolver walks the
// token stream backward with nesting to find that opener.
//
// Everything in this package is single-threaded by contract: the host
// serializes all calls on one goroutine. Buffers do their own locking,
// so anchors may be read concurrently with host edits.
package pointlink
