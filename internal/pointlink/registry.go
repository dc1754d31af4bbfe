package pointlink

import (
	"fmt"
	"sort"

	"github.com/tliron/commonlog"

	"github.com/dshills/scorelink/internal/docstore"
	"github.com/dshills/scorelink/internal/engine/buffer"
	"github.com/dshills/scorelink/internal/score"
)

var log = commonlog.GetLogger("scorelink.pointlink")

// Registry owns the per-document link-table cache and the per-path
// bindings. It subscribes to the store's lifecycle notifications, so
// buffers opening late are bound as they appear and closing buffers take
// their bindings with them.
//
// Like everything in this package, the registry does no locking: the
// host serializes all calls on one goroutine.
type Registry struct {
	matcher  *Matcher
	store    *docstore.Store
	tables   map[score.DocumentID]*LinkTable
	bindings map[string]boundPath
}

// boundPath pairs a binding with the buffer that owns it, so a reopened
// path can be told apart from the buffer it was bound to.
type boundPath struct {
	binding *Binding
	owner   docstore.BufferID
}

// NewRegistry creates a registry over the given store and subscribes to
// its open and close notifications.
func NewRegistry(m *Matcher, store *docstore.Store) *Registry {
	r := &Registry{
		matcher:  m,
		store:    store,
		tables:   make(map[score.DocumentID]*LinkTable),
		bindings: make(map[string]boundPath),
	}
	store.OnOpen(r.BufferOpened)
	store.OnClose(func(entry *docstore.Entry) { r.Unbind(entry.ID) })
	return r
}

// Table returns the cached link table for doc, building it on first use.
// Building a table also binds every file it mentions that already has an
// open buffer, alias lookups included.
func (r *Registry) Table(doc score.Document) *LinkTable {
	if t, ok := r.tables[doc.ID()]; ok {
		return t
	}

	t := BuildLinkTable(doc, r.matcher)
	r.tables[doc.ID()] = t
	log.Infof("indexed document %s: %d source files", doc.ID(), len(t.Files()))

	for _, file := range t.Files() {
		if entry, ok := r.store.Find(file); ok {
			r.bind(t, file, entry)
		}
	}
	return t
}

// Bind binds path to the entry's buffer using whichever cached table
// mentions path. Reports whether a table was found; an existing binding
// for the path is replaced.
func (r *Registry) Bind(path string, entry *docstore.Entry) bool {
	for _, t := range r.tables {
		if t.HasFile(path) {
			r.bind(t, path, entry)
			return true
		}
	}
	return false
}

func (r *Registry) bind(t *LinkTable, path string, entry *docstore.Entry) {
	if old, ok := r.bindings[path]; ok {
		old.binding.Release()
	}
	binding := NewBinding(path, entry.Buf, entry.Tokens, t)
	r.bindings[path] = boundPath{binding: binding, owner: entry.ID}
	log.Debugf("bound %s to buffer %s (%d positions)", path, entry.ID, binding.Len())
}

// BufferOpened reacts to a newly opened buffer: every path the entry
// answers for (its own path plus registered aliases) that some cached
// table mentions gets bound. Paths already bound to this same buffer are
// left alone.
func (r *Registry) BufferOpened(entry *docstore.Entry) {
	for _, path := range r.store.Aliases(entry.Path) {
		if have, ok := r.bindings[path]; ok && have.owner == entry.ID {
			continue
		}
		for _, t := range r.tables {
			if t.HasFile(path) {
				r.bind(t, path, entry)
				break
			}
		}
	}
}

// Unbind drops every binding owned by the given buffer and releases its
// anchors. Store close notifications feed this automatically.
func (r *Registry) Unbind(id docstore.BufferID) {
	for path, bound := range r.bindings {
		if bound.owner == id {
			bound.binding.Release()
			delete(r.bindings, path)
			log.Debugf("unbound %s from buffer %s", path, id)
		}
	}
}

// Evict drops the cached table for a rendered document that went away.
// Live bindings hold their own destination copies and survive until
// their buffer closes or the path is rebound from a newer table.
func (r *Registry) Evict(id score.DocumentID) {
	if _, ok := r.tables[id]; ok {
		delete(r.tables, id)
		log.Debugf("evicted table for document %s", id)
	}
}

// Binding returns the live binding for path, if any.
func (r *Registry) Binding(path string) (*Binding, bool) {
	bound, ok := r.bindings[path]
	if !ok {
		return nil, false
	}
	return bound.binding, true
}

// BoundPaths returns the currently bound source paths, sorted.
func (r *Registry) BoundPaths() []string {
	paths := make([]string, 0, len(r.bindings))
	for path := range r.bindings {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ResolveLink parses a link URL and resolves it to the anchor bound for
// its source position. With loadIfAbsent, a path with no live binding
// triggers one open request through the store and a single retry; hosts
// with asynchronous loading may see the retry miss and a later call
// succeed. Every failure wraps ErrNotFound.
func (r *Registry) ResolveLink(raw string, loadIfAbsent bool) (*buffer.Anchor, error) {
	ref, ok := r.matcher.Match(raw)
	if !ok {
		return nil, fmt.Errorf("%w: unrecognized link %q", ErrNotFound, raw)
	}

	if bound, ok := r.bindings[ref.Path]; ok {
		return bound.binding.Cursor(ref.Line, ref.Column)
	}

	if loadIfAbsent {
		if err := r.store.RequestOpen(ref.Path); err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrNotFound, ref.Path, err)
		}
		if bound, ok := r.bindings[ref.Path]; ok {
			return bound.binding.Cursor(ref.Line, ref.Column)
		}
	}
	return nil, fmt.Errorf("%w: no binding for %s", ErrNotFound, ref.Path)
}
