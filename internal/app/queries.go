package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/scorelink/internal/engine/buffer"
	"github.com/dshills/scorelink/internal/pointlink"
)

// pointQuery is a parsed caret query.
type pointQuery struct {
	raw    string
	path   string
	line   int // 1-based
	column int // 0-based
}

// selectionQuery is a parsed selection query.
type selectionQuery struct {
	raw   string
	path  string
	start buffer.ByteOffset
	end   buffer.ByteOffset
}

// parseQueries parses the option query strings up front, so bad syntax
// fails before any correlation work.
func (a *Application) parseQueries() error {
	for _, raw := range a.opts.Points {
		q, err := parsePointQuery(raw)
		if err != nil {
			return err
		}
		a.points = append(a.points, q)
	}
	for _, raw := range a.opts.Selections {
		q, err := parseSelectionQuery(raw)
		if err != nil {
			return err
		}
		a.sels = append(a.sels, q)
	}
	return nil
}

// splitQuery splits "path:a:b" from the right, so paths may contain
// colons.
func splitQuery(raw string) (path, first, second string, ok bool) {
	last := strings.LastIndexByte(raw, ':')
	if last < 0 {
		return "", "", "", false
	}
	mid := strings.LastIndexByte(raw[:last], ':')
	if mid < 1 {
		return "", "", "", false
	}
	return raw[:mid], raw[mid+1 : last], raw[last+1:], true
}

func parsePointQuery(raw string) (pointQuery, error) {
	path, lineStr, colStr, ok := splitQuery(raw)
	if !ok {
		return pointQuery{}, fmt.Errorf("point query %q: want file:line:column", raw)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil || line < 1 {
		return pointQuery{}, fmt.Errorf("point query %q: bad line %q", raw, lineStr)
	}
	column, err := strconv.Atoi(colStr)
	if err != nil || column < 0 {
		return pointQuery{}, fmt.Errorf("point query %q: bad column %q", raw, colStr)
	}
	return pointQuery{raw: raw, path: path, line: line, column: column}, nil
}

func parseSelectionQuery(raw string) (selectionQuery, error) {
	path, startStr, endStr, ok := splitQuery(raw)
	if !ok {
		return selectionQuery{}, fmt.Errorf("selection query %q: want file:start:end", raw)
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start < 0 {
		return selectionQuery{}, fmt.Errorf("selection query %q: bad start %q", raw, startStr)
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return selectionQuery{}, fmt.Errorf("selection query %q: bad end %q", raw, endStr)
	}
	return selectionQuery{raw: raw, path: path, start: start, end: end}, nil
}

// resolveEntry answers one link URL query. Missing files are opened on
// demand through the store.
func (a *Application) resolveEntry(raw string) (*jsonBuilder, bool) {
	e := newJSON()
	e.set("url", raw)

	anchor, err := a.registry.ResolveLink(raw, true)
	if err != nil {
		e.set("outcome", "not-found")
		return e, false
	}

	pt := anchor.Point()
	e.set("outcome", "match")
	e.set("offset", anchor.Offset())
	e.set("line", pt.Line+1)
	e.set("column", pt.Column)
	e.set("valid", anchor.Valid())
	return e, true
}

// pointEntry answers one caret query. A file with no live binding makes
// the query unanswerable, not merely cleared.
func (a *Application) pointEntry(q pointQuery) (*jsonBuilder, bool) {
	e := newJSON()
	e.set("query", q.raw)

	binding, ok := a.registry.Binding(q.path)
	if !ok {
		e.set("outcome", "unbound")
		return e, false
	}

	buf := binding.Buffer()
	off := buf.PointToOffset(buffer.Point{Line: uint32(q.line - 1), Column: uint32(q.column)})
	e.set("offset", off)

	lo, hi, outcome := binding.Indices(off, off)
	fillOutcome(e, binding, lo, hi, outcome)
	return e, true
}

// selectionEntry answers one selection query.
func (a *Application) selectionEntry(q selectionQuery) (*jsonBuilder, bool) {
	e := newJSON()
	e.set("query", q.raw)

	binding, ok := a.registry.Binding(q.path)
	if !ok {
		e.set("outcome", "unbound")
		return e, false
	}

	lo, hi, outcome := binding.Indices(q.start, q.end)
	fillOutcome(e, binding, lo, hi, outcome)
	return e, true
}

// fillOutcome records a query outcome and, for matches, the applying
// index range and rendered destinations.
func fillOutcome(e *jsonBuilder, binding *pointlink.Binding, lo, hi int, outcome pointlink.Outcome) {
	e.set("outcome", outcome.String())
	if outcome != pointlink.OutcomeMatch {
		return
	}
	e.set("indices", []int{lo, hi})
	for i := lo; i < hi; i++ {
		for _, dest := range binding.Destinations(i) {
			d := newJSON()
			d.set("page", dest.Page)
			d.set("area", []float64{dest.Area.X0, dest.Area.Y0, dest.Area.X1, dest.Area.Y1})
			e.appendChild("destinations", d)
		}
	}
}
