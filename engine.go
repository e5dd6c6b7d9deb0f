package circle

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/jward/circle/internal/runtime"
	"github.com/jward/circle/internal/sections"
	"github.com/jward/circle/internal/store"
	"github.com/jward/circle/scripts"
)

// ErrNoHistory is returned by history operations on an Engine created
// without a database.
var ErrNoHistory = errors.New("circle: no history database configured")

// Engine ties together area computation, the optional history store, the
// Risor script runtime and section parsing.
type Engine struct {
	store      *store.Store // nil when no database path was given
	runtime    *runtime.Runtime
	session    string
	scriptsDir string
	scriptsFS  fs.FS
	secOpts    sections.Options
}

// Option configures an Engine.
type Option func(*Engine)

// WithScriptsDir resolves script import statements against dir on disk
// instead of the embedded module library.
func WithScriptsDir(dir string) Option {
	return func(e *Engine) {
		e.scriptsDir = dir
	}
}

// WithScriptsFS resolves script import statements against fsys.
func WithScriptsFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.scriptsFS = fsys
	}
}

// WithSession sets the session id recorded with each computation. By
// default every Engine gets a fresh random UUID.
func WithSession(id string) Option {
	return func(e *Engine) {
		e.session = id
	}
}

// WithIndentAware controls whether sections end at the first line indented
// less than their header. Defaults to true.
func WithIndentAware(indentAware bool) Option {
	return func(e *Engine) {
		e.secOpts.IndentAware = indentAware
	}
}

// New creates an Engine. When dbPath is non-empty, a SQLite history
// database is opened (and migrated) there; otherwise nothing is persisted.
//
// Import resolution for scripts, in priority order:
//  1. WithScriptsFS, or else WithScriptsDir
//  2. the embedded library (import shapes), always available
func New(dbPath string, opts ...Option) (*Engine, error) {
	e := &Engine{secOpts: sections.DefaultOptions()}
	for _, opt := range opts {
		opt(e)
	}
	if e.session == "" {
		e.session = uuid.NewString()
	}

	if dbPath != "" {
		s, err := store.NewStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("circle: create store: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, fmt.Errorf("circle: migrate: %w", err)
		}
		e.store = s
	}

	rtOpts := []runtime.RuntimeOption{
		runtime.WithSession(e.session),
		runtime.WithSectionOptions(e.secOpts),
		runtime.WithLibraryFS(scripts.Lib()),
	}
	if e.scriptsFS != nil {
		rtOpts = append(rtOpts, runtime.WithRuntimeFS(e.scriptsFS))
	}

	// A nil *store.Store must not become a non-nil Recorder interface.
	var rec store.Recorder
	if e.store != nil {
		rec = e.store
	}
	e.runtime = runtime.NewRuntime(rec, e.scriptsDir, rtOpts...)

	return e, nil
}

// Close releases the Engine's database resources, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Session returns the id recorded with this Engine's computations.
func (e *Engine) Session() string {
	return e.session
}

// HasHistory reports whether computations are being persisted.
func (e *Engine) HasHistory() bool {
	return e.store != nil
}

// Compute returns the area for each radius, in order. When a history
// database is open each result is recorded with source "cli".
func (e *Engine) Compute(ctx context.Context, radii ...float64) ([]Computation, error) {
	out := make([]Computation, 0, len(radii))
	for _, r := range radii {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		c := store.Computation{
			Session: e.session,
			Radius:  r,
			Area:    Area(r),
			Source:  store.SourceCLI,
		}
		if e.store != nil {
			if _, err := e.store.InsertComputation(&c); err != nil {
				return out, fmt.Errorf("circle: record radius %s: %w", FormatArea(r), err)
			}
		}
		out = append(out, c)
	}
	return out, nil
}

// History returns up to limit recorded computations, newest first. A limit
// of zero or less returns everything.
func (e *Engine) History(limit int) ([]Computation, error) {
	if e.store == nil {
		return nil, ErrNoHistory
	}
	rows, err := e.store.Computations(limit)
	if err != nil {
		return nil, fmt.Errorf("circle: history: %w", err)
	}
	out := make([]Computation, len(rows))
	for i, c := range rows {
		out[i] = *c
	}
	return out, nil
}

// HistoryCount returns the number of recorded computations.
func (e *Engine) HistoryCount() (int, error) {
	if e.store == nil {
		return 0, ErrNoHistory
	}
	n, err := e.store.CountComputations()
	if err != nil {
		return 0, fmt.Errorf("circle: history count: %w", err)
	}
	return n, nil
}

// ClearHistory deletes every recorded computation.
func (e *Engine) ClearHistory() error {
	if e.store == nil {
		return ErrNoHistory
	}
	return e.store.ClearComputations()
}

// Eval runs a Risor program and returns its final value converted to Go.
func (e *Engine) Eval(ctx context.Context, source string) (any, error) {
	return e.runtime.EvalSource(ctx, "<inline>", source, nil)
}

// EvalFile reads and runs the Risor program at path. With WithScriptsFS the
// path names a file in that FS; otherwise it is a path on disk.
func (e *Engine) EvalFile(ctx context.Context, path string) (any, error) {
	if e.scriptsFS == nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("circle: resolving script path: %w", err)
		}
		path = abs
	}
	v, err := e.runtime.EvalScript(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("circle: %w", err)
	}
	return v, nil
}

// Sections parses the file at path for section markers, folding ranges and
// an outline.
func (e *Engine) Sections(ctx context.Context, path string) (*Document, error) {
	return sections.ParseFile(ctx, path, e.secOpts)
}
