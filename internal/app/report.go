package app

import (
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// jsonBuilder assembles a JSON document incrementally. The first error
// sticks; render surfaces it.
type jsonBuilder struct {
	buf []byte
	err error
}

func newJSON() *jsonBuilder {
	return &jsonBuilder{buf: []byte(`{}`)}
}

// set assigns a value at an sjson path.
func (j *jsonBuilder) set(path string, value any) {
	if j.err != nil {
		return
	}
	j.buf, j.err = sjson.SetBytes(j.buf, path, value)
}

// appendChild appends a finished sub-document to the array at path.
func (j *jsonBuilder) appendChild(path string, child *jsonBuilder) {
	if j.err != nil {
		return
	}
	if child.err != nil {
		j.err = child.err
		return
	}
	j.buf, j.err = sjson.SetRawBytes(j.buf, path+".-1", child.buf)
}

// render pretty-prints the document, newline-terminated.
func (j *jsonBuilder) render() ([]byte, error) {
	if j.err != nil {
		return nil, j.err
	}
	out := pretty.Pretty(j.buf)
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	return out, nil
}

// report runs every configured query and writes one JSON report to the
// output. It reports whether any query went unanswered.
func (a *Application) report() (bool, error) {
	rep := newJSON()
	rep.set("dump", a.opts.DumpPath)
	if src := a.doc.Source(); src != "" {
		rep.set("score", src)
	}
	rep.set("document", string(a.doc.ID()))

	table := a.registry.Table(a.doc)
	rep.set("files", table.Files())

	unresolved := false
	for _, raw := range a.opts.Resolve {
		entry, ok := a.resolveEntry(raw)
		if !ok {
			unresolved = true
		}
		rep.appendChild("resolve", entry)
	}
	for _, q := range a.points {
		entry, ok := a.pointEntry(q)
		if !ok {
			unresolved = true
		}
		rep.appendChild("points", entry)
	}
	for _, q := range a.sels {
		entry, ok := a.selectionEntry(q)
		if !ok {
			unresolved = true
		}
		rep.appendChild("selections", entry)
	}

	// Bound paths go last: resolve queries may have opened files.
	rep.set("bound", a.registry.BoundPaths())

	out, err := rep.render()
	if err != nil {
		return false, err
	}
	if _, err := a.out.Write(out); err != nil {
		return false, err
	}
	return unresolved, nil
}
