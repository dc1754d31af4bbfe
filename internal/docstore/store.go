// Package docstore hosts the live text buffers that correlation queries
// run against. It tracks open buffers by path, answers alias lookups for
// scratch copies that stand in for real files, and notifies listeners as
// buffers come and go.
package docstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/dshills/scorelink/internal/engine/buffer"
	"github.com/dshills/scorelink/internal/engine/token"
)

var log = commonlog.GetLogger("scorelink.docstore")

// Errors returned by store operations.
var (
	// ErrNotOpen indicates no buffer is hosted for the path.
	ErrNotOpen = errors.New("no open buffer for path")

	// ErrAlreadyOpen indicates the path already has a buffer.
	ErrAlreadyOpen = errors.New("buffer already open for path")
)

// BufferID identifies one live buffer across its lifecycle. IDs are never
// reused, so holders can tell a reopened path from the buffer they bound.
type BufferID string

// Entry is one open buffer together with its tokenized view.
type Entry struct {
	ID     BufferID
	Path   string
	Buf    *buffer.Buffer
	Tokens token.Source
}

// Store tracks open buffers by path.
//
// Like the rest of the core, the store does no locking of its own: the
// host serializes all access on a single goroutine.
type Store struct {
	entries map[string]*Entry
	order   []string          // open order, for All
	aliases map[string]string // alias path -> canonical path
	onOpen  []func(*Entry)
	onClose []func(*Entry)
	opener  func(path string) error
}

// Option configures a Store.
type Option func(*Store)

// WithOpener installs the hook RequestOpen uses to load absent paths.
// Hosts that manage file loading themselves install one; without it,
// RequestOpen reads from disk synchronously.
func WithOpener(fn func(path string) error) Option {
	return func(s *Store) { s.opener = fn }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]*Entry),
		aliases: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnOpen registers a listener invoked after each buffer opens.
func (s *Store) OnOpen(fn func(*Entry)) {
	s.onOpen = append(s.onOpen, fn)
}

// OnClose registers a listener invoked before each buffer is dropped,
// while its entry is still discoverable.
func (s *Store) OnClose(fn func(*Entry)) {
	s.onClose = append(s.onClose, fn)
}

// Open reads path from disk and hosts a buffer for it. The path is
// normalized to its absolute form before it becomes a key.
func (s *Store) Open(path string) (*Entry, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if _, exists := s.entries[absPath]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyOpen, absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, err
	}
	return s.add(absPath, string(content)), nil
}

// Add hosts a buffer for path with the given content, bypassing disk.
// The path is used verbatim as the key.
func (s *Store) Add(path, content string) (*Entry, error) {
	if _, exists := s.entries[path]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyOpen, path)
	}
	return s.add(path, content), nil
}

func (s *Store) add(path, content string) *Entry {
	buf := buffer.NewBufferFromString(content)
	entry := &Entry{
		ID:     BufferID(uuid.NewString()),
		Path:   path,
		Buf:    buf,
		Tokens: token.NewScanSource(buf),
	}
	s.entries[path] = entry
	s.order = append(s.order, path)

	log.Debugf("opened %s as buffer %s (%d lines)", path, entry.ID, buf.LineCount())

	for _, fn := range s.onOpen {
		fn(entry)
	}
	return entry
}

// Close drops the buffer for path, notifying close listeners first.
func (s *Store) Close(path string) error {
	entry, exists := s.entries[path]
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotOpen, path)
	}

	for _, fn := range s.onClose {
		fn(entry)
	}

	delete(s.entries, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	log.Debugf("closed %s (buffer %s)", path, entry.ID)
	return nil
}

// Find returns the entry hosting path, following one alias hop.
func (s *Store) Find(path string) (*Entry, bool) {
	if entry, exists := s.entries[path]; exists {
		return entry, true
	}
	if canonical, exists := s.aliases[path]; exists {
		if entry, ok := s.entries[canonical]; ok {
			return entry, true
		}
	}
	return nil, false
}

// All returns the open entries in opening order.
func (s *Store) All() []*Entry {
	entries := make([]*Entry, 0, len(s.entries))
	for _, path := range s.order {
		if entry, exists := s.entries[path]; exists {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Len returns the number of open buffers.
func (s *Store) Len() int {
	return len(s.entries)
}

// AddAlias declares that alias refers to the buffer hosted at canonical.
// Compilation scratch copies that answer for the real source register
// themselves this way.
func (s *Store) AddAlias(alias, canonical string) {
	s.aliases[alias] = canonical
}

// Aliases returns every path that answers for the buffer at canonical:
// the canonical path first, then its registered aliases sorted.
func (s *Store) Aliases(canonical string) []string {
	paths := []string{canonical}
	for alias, c := range s.aliases {
		if c == canonical {
			paths = append(paths, alias)
		}
	}
	sort.Strings(paths[1:])
	return paths
}

// RequestOpen asks the host to make a buffer for path available. Paths
// that already resolve to an entry are a no-op. With no opener hook
// installed, the file is read from disk synchronously; hooked hosts may
// complete asynchronously, in which case the buffer appears later.
func (s *Store) RequestOpen(path string) error {
	if _, ok := s.Find(path); ok {
		return nil
	}
	if s.opener != nil {
		return s.opener(path)
	}
	_, err := s.Open(path)
	return err
}
