// Package app wires the correlation core into the scorelink command:
// configuration, the buffer store, the registry, dump loading and the
// query report.
package app

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/tliron/commonlog"

	"github.com/dshills/scorelink/internal/config"
	"github.com/dshills/scorelink/internal/docstore"
	"github.com/dshills/scorelink/internal/pointlink"
	"github.com/dshills/scorelink/internal/score"
)

var log = commonlog.GetLogger("scorelink.app")

// Options configures the application.
type Options struct {
	// DumpPath is the rendered document's link dump.
	DumpPath string

	// ConfigPath overrides the default config file location.
	ConfigPath string

	// Scheme overrides the configured link URL scheme.
	Scheme string

	// Verbosity adds to the configured log verbosity.
	Verbosity int

	// Watch reloads the dump when the engraver rewrites it.
	Watch bool

	// Files are source files to open and bind on startup.
	Files []string

	// Resolve are link URLs to resolve into buffer positions.
	Resolve []string

	// Points are caret queries in file:line:column form, with a 1-based
	// line and a 0-based column.
	Points []string

	// Selections are selection queries in file:start:end form, with
	// byte offsets into the buffer.
	Selections []string

	// Out receives the report; os.Stdout when nil.
	Out io.Writer
}

// reload carries a reparsed dump from the watcher goroutine onto the
// Run loop.
type reload struct {
	doc *score.MemoryDocument
	err error
}

// Application wires the correlation core together for one link dump.
type Application struct {
	opts      Options
	cfg       *config.Config
	out       io.Writer
	store     *docstore.Store
	registry  *pointlink.Registry
	doc       *score.MemoryDocument
	watcher   *score.DumpWatcher
	reloads   chan reload
	points    []pointQuery
	sels      []selectionQuery
	done      chan struct{}
	closeOnce sync.Once
}

// New creates an application with the given options.
func New(opts Options) (*Application, error) {
	a := &Application{
		opts: opts,
		out:  opts.Out,
		done: make(chan struct{}),
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	if err := a.bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// bootstrap initializes all components in dependency order.
func (a *Application) bootstrap() error {
	// 1. Configuration, with option overrides on top.
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	commonlog.Configure(cfg.Verbosity, nil)

	// 2. Queries, so bad syntax fails before any work happens.
	if err := a.parseQueries(); err != nil {
		return err
	}

	// 3. Correlation core.
	a.store = docstore.NewStore()
	a.registry = pointlink.NewRegistry(pointlink.NewMatcher(cfg.Scheme), a.store)

	// 4. Rendered document.
	if a.opts.DumpPath == "" {
		return ErrNoDump
	}
	doc, err := score.LoadDump(a.opts.DumpPath)
	if err != nil {
		return err
	}
	a.doc = doc
	a.registry.Table(doc)

	// 5. Source buffers; binding happens through the open notification.
	for _, path := range a.opts.Files {
		if _, err := a.store.Open(path); err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
	}

	// 6. Dump watching.
	if a.cfg.Watch.Enabled {
		a.reloads = make(chan reload, 1)
		debounce := time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond
		watcher, err := score.WatchDump(a.opts.DumpPath, debounce, a.enqueueReload)
		if err != nil {
			return err
		}
		a.watcher = watcher
	}
	return nil
}

// loadConfig loads the config file and applies option overrides.
func (a *Application) loadConfig() (*config.Config, error) {
	path := a.opts.ConfigPath
	explicit := path != ""
	if !explicit {
		path = config.DefaultPath()
	}

	var cfg *config.Config
	if path != "" {
		loaded, err := config.NewLoader().Load(path)
		if err != nil {
			return nil, err
		}
		if loaded == nil && explicit {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		cfg = loaded
	}
	if cfg == nil {
		cfg = config.Default()
	}

	if a.opts.Scheme != "" {
		cfg.Scheme = a.opts.Scheme
	}
	cfg.Verbosity += a.opts.Verbosity
	if a.opts.Watch {
		cfg.Watch.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// enqueueReload hands a reparsed dump from the watcher goroutine to the
// Run loop. Everything touching the registry stays on that loop.
func (a *Application) enqueueReload(doc *score.MemoryDocument, err error) {
	select {
	case a.reloads <- reload{doc: doc, err: err}:
	case <-a.done:
	}
}

// Config returns the effective configuration.
func (a *Application) Config() *config.Config {
	return a.cfg
}

// Run writes the report for the configured queries. In watch mode it
// keeps running, reporting again after every dump reload, until
// Shutdown is called.
func (a *Application) Run() error {
	unresolved, err := a.report()
	if err != nil {
		return err
	}
	if a.watcher == nil {
		if unresolved {
			return ErrUnresolved
		}
		return nil
	}

	log.Infof("watching %s", a.watcher.Path())
	for {
		select {
		case <-a.done:
			return nil
		case r := <-a.reloads:
			if r.err != nil {
				log.Errorf("dump reload failed: %s", r.err.Error())
				continue
			}
			a.swapDocument(r.doc)
			if _, err := a.report(); err != nil {
				return err
			}
		}
	}
}

// swapDocument replaces the rendered document after a dump reload. The
// old table is evicted and every open buffer rebinds against the new
// one.
func (a *Application) swapDocument(doc *score.MemoryDocument) {
	a.registry.Evict(a.doc.ID())
	a.doc = doc
	a.registry.Table(doc)
	log.Infof("reloaded dump %s as document %s", a.opts.DumpPath, doc.ID())
}

// Shutdown stops watching and unblocks Run. Safe to call repeatedly.
func (a *Application) Shutdown() {
	a.closeOnce.Do(func() {
		close(a.done)
		if a.watcher != nil {
			a.watcher.Close()
		}
	})
}
