package runtime

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"

	"github.com/jward/circle/internal/sections"
	"github.com/jward/circle/internal/store"
)

// Runtime embeds a Risor VM and exposes geometry host functions and,
// when a Recorder is attached, computation history to scripts.
type Runtime struct {
	recorder    store.Recorder
	session     string
	scriptsDir  string
	fsys        fs.FS
	libFS       fs.FS
	sectionOpts sections.Options
	logger      *log.Logger
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS configures the Runtime to load scripts and resolve import
// statements from an fs.FS instead of from disk.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithLibraryFS makes the modules in fsys importable by every script.
// The script source (fs.FS or scriptsDir) is searched first; the library
// answers imports it cannot.
func WithLibraryFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.libFS = fsys
	}
}

// WithSession tags computations recorded by scripts.
func WithSession(id string) RuntimeOption {
	return func(r *Runtime) {
		r.session = id
	}
}

// WithSectionOptions sets the options used by the sections() global.
func WithSectionOptions(opts sections.Options) RuntimeOption {
	return func(r *Runtime) {
		r.sectionOpts = opts
	}
}

// WithLogger redirects the script-facing log object. The default writes to
// stderr.
func WithLogger(l *log.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = l
	}
}

// NewRuntime creates a Runtime. rec may be nil, in which case the history
// globals are not defined.
func NewRuntime(rec store.Recorder, scriptsDir string, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		recorder:    rec,
		scriptsDir:  scriptsDir,
		sectionOpts: sections.DefaultOptions(),
		logger:      log.New(os.Stderr, "", 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EvalScript loads a Risor script with LoadScript and executes it with all
// standard globals plus any extra globals, returning the final value.
func (r *Runtime) EvalScript(ctx context.Context, scriptPath string, extraGlobals map[string]any) (any, error) {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return nil, err
	}
	return r.eval(ctx, src, scriptPath, extraGlobals)
}

// EvalSource executes source and returns its final value converted to Go
// (float64, int64, string, bool, []any, map[string]any or nil).
func (r *Runtime) EvalSource(ctx context.Context, label, source string, extraGlobals map[string]any) (any, error) {
	if label == "" {
		label = "<inline>"
	}
	return r.eval(ctx, source, label, extraGlobals)
}

func (r *Runtime) eval(ctx context.Context, source, label string, extraGlobals map[string]any) (any, error) {
	globals := r.buildGlobals(extraGlobals)

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}

	if imp := r.buildImporter(globals); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	result, err := risor.Eval(ctx, source, opts...)
	if err != nil {
		return nil, fmt.Errorf("runtime: script %s: %w", label, err)
	}
	if result == nil {
		return nil, nil
	}
	return result.Interface(), nil
}

// buildImporter returns a Risor importer configured for the Runtime's script
// sources. Returns nil if no fs.FS, scriptsDir or library is configured.
func (r *Runtime) buildImporter(globals map[string]any) importer.Importer {
	globalNames := make([]string, 0, len(globals))
	for name := range globals {
		globalNames = append(globalNames, name)
	}

	var chain chainImporter
	switch {
	case r.fsys != nil:
		chain = append(chain, importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		}))
	case r.scriptsDir != "":
		chain = append(chain, importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		}))
	}
	if r.libFS != nil {
		chain = append(chain, importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.libFS,
			Extensions:  []string{".risor"},
		}))
	}

	switch len(chain) {
	case 0:
		return nil
	case 1:
		return chain[0]
	}
	return chain
}

// chainImporter tries each importer in order. When all fail, the first
// error is returned, so a broken local module is not hidden by a library
// miss.
type chainImporter []importer.Importer

func (c chainImporter) Import(ctx context.Context, name string) (*object.Module, error) {
	var first error
	for _, imp := range c {
		mod, err := imp.Import(ctx, name)
		if err == nil {
			return mod, nil
		}
		if first == nil {
			first = err
		}
	}
	return nil, first
}

// LoadScript reads a .risor file and returns its source code.
// When an fs.FS is configured, uses fs.ReadFile on it. Otherwise, uses
// os.ReadFile with scriptsDir as the base directory for relative paths.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return "", fmt.Errorf("runtime: loading script %s from fs: %w", fsPath, err)
		}
		return string(data), nil
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(r.scriptsDir, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("runtime: loading script %s: %w", fullPath, err)
	}
	return string(data), nil
}

// buildGlobals constructs the full set of globals exposed to Risor scripts.
func (r *Runtime) buildGlobals(extra map[string]any) map[string]any {
	globals := map[string]any{
		"pi":            object.NewFloat(math.Pi),
		"area":          makeAreaFn(),
		"circumference": makeCircumferenceFn(),
		"format_area":   makeFormatAreaFn(),
		"sections":      makeSectionsFn(r.sectionOpts),
		"log":           mustProxy(&logObject{logger: r.logger}),
	}

	// History globals need a Recorder; risor cannot construct Go structs, so
	// these take plain values and build Computations Go-side.
	if r.recorder != nil {
		globals["record"] = makeRecordFn(r.recorder, r.session)
		globals["history"] = makeHistoryFn(r.recorder)
	}

	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("runtime: proxy error: %v", err))
	}
	return p
}
