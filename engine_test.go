package circle

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func TestNew_WithoutDatabase(t *testing.T) {
	t.Parallel()

	e, err := New("")
	require.NoError(t, err)
	defer e.Close()

	assert.False(t, e.HasHistory())
	assert.NotNil(t, e.runtime)

	_, err = e.History(10)
	assert.ErrorIs(t, err, ErrNoHistory)
	assert.ErrorIs(t, e.ClearHistory(), ErrNoHistory)
}

func TestNew_InvalidPath(t *testing.T) {
	t.Parallel()
	_, err := New("/nonexistent/dir/db.sqlite")
	require.Error(t, err)
}

func TestNew_SessionDefaultsToUUID(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	_, err := uuid.Parse(e.Session())
	assert.NoError(t, err)

	other := newTestEngine(t)
	assert.NotEqual(t, e.Session(), other.Session())
}

func TestWithSession(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithSession("fixed"))
	assert.Equal(t, "fixed", e.Session())
}

func TestClose(t *testing.T) {
	t.Parallel()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	e, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, e.Close())
}

// --- Compute & History ---

func TestCompute_WithoutDatabase(t *testing.T) {
	t.Parallel()

	e, err := New("")
	require.NoError(t, err)
	defer e.Close()

	got, err := e.Compute(context.Background(), 2.0, -2.0, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 12.566370614359172, got[0].Area)
	assert.Equal(t, got[0].Area, got[1].Area)
	assert.Equal(t, 0.0, got[2].Area)
	assert.Zero(t, got[0].ID)
}

func TestCompute_RecordsHistory(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithSession("s1"))

	_, err := e.Compute(context.Background(), 1, 2, 3)
	require.NoError(t, err)

	hist, err := e.History(0)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, 3.0, hist[0].Radius)
	assert.Equal(t, "s1", hist[0].Session)
	assert.Equal(t, "cli", hist[0].Source)
	assert.Positive(t, hist[0].ID)
}

func TestCompute_NonFinite(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	got, err := e.Compute(context.Background(), math.NaN(), math.Inf(-1))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got[0].Area))
	assert.True(t, math.IsInf(got[1].Area, 1))

	hist, err := e.History(0)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.True(t, math.IsNaN(hist[1].Area))
}

func TestCompute_CancelledContext(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Compute(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistoryCount(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	_, err := e.Compute(context.Background(), 1, 2, 3)
	require.NoError(t, err)

	n, err := e.HistoryCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	bare, err := New("")
	require.NoError(t, err)
	_, err = bare.HistoryCount()
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestClearHistory(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	_, err := e.Compute(context.Background(), 1)
	require.NoError(t, err)
	require.NoError(t, e.ClearHistory())

	hist, err := e.History(0)
	require.NoError(t, err)
	assert.Empty(t, hist)
}

// --- Scripts ---

func TestEval_Area(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	got, err := e.Eval(context.Background(), "area(2.0)")
	require.NoError(t, err)
	assert.Equal(t, 12.566370614359172, got)
}

func TestEval_RecordSharesSession(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithSession("shared"))

	_, err := e.Eval(context.Background(), "record(1)")
	require.NoError(t, err)

	hist, err := e.History(0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "shared", hist[0].Session)
	assert.Equal(t, "script", hist[0].Source)
}

func TestEval_EmbeddedShapesLibrary(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	got, err := e.Eval(context.Background(), "import shapes\nshapes.sector_area(2, 90)")
	require.NoError(t, err)
	assert.Equal(t, Area(2)*90/360.0, got)
}

func TestEval_ScriptsFS(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithScriptsFS(fstest.MapFS{
		"mine.risor": &fstest.MapFile{Data: []byte("func half(r) {\n\treturn area(r) / 2\n}\n")},
	}))

	got, err := e.Eval(context.Background(), "import mine\nmine.half(1)")
	require.NoError(t, err)
	assert.Equal(t, math.Pi/2, got)
}

func TestEvalFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "calc.risor")
	require.NoError(t, os.WriteFile(path, []byte("area(3)"), 0o644))

	e := newTestEngine(t, WithScriptsDir(dir))
	got, err := e.EvalFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, Area(3), got)
}

func TestEvalFile_ScriptsDirKeepsBundledLibrary(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "util.risor"), []byte("func twice(x) {\n\treturn x * 2\n}\n"), 0o644))
	path := filepath.Join(dir, "calc.risor")
	require.NoError(t, os.WriteFile(path, []byte("import shapes\nimport util\nutil.twice(shapes.diameter(2))"), 0o644))

	e := newTestEngine(t, WithScriptsDir(dir))
	got, err := e.EvalFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got)
}

func TestEvalFile_FromScriptsFS(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, WithScriptsFS(fstest.MapFS{
		"calc.risor": &fstest.MapFile{Data: []byte("import shapes\nshapes.diameter(5)")},
	}))

	got, err := e.EvalFile(context.Background(), "calc.risor")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got)
}

func TestEvalFile_Missing(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t)

	_, err := e.EvalFile(context.Background(), "/nonexistent/calc.risor")
	require.Error(t, err)
}

// --- Sections ---

func TestSections(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.py")
	src := "# %% Helpers\ndef area(r):\n  return r\n\n# %% Run\nprint(area(2.0))\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	e := newTestEngine(t)
	doc, err := e.Sections(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Helpers", doc.Sections[0].Title)
	assert.Equal(t, 3, doc.Sections[0].FoldEnd)
	assert.Equal(t, "python", doc.Language)
}

func TestSections_IndentAwareOption(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "demo.txt")
	require.NoError(t, os.WriteFile(path, []byte("  # %% s\n  a\nb\n"), 0o644))

	aware := newTestEngine(t)
	doc, err := aware.Sections(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Sections[0].FoldEnd)

	flat := newTestEngine(t, WithIndentAware(false))
	doc, err = flat.Sections(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Sections[0].FoldEnd)
}

func TestSectionsFiles_PreservesOrder(t *testing.T) {
	t.Parallel()
	e, err := New("")
	require.NoError(t, err)

	dir := t.TempDir()
	var paths []string
	for i := range 6 {
		p := filepath.Join(dir, fmt.Sprintf("f%d.py", i))
		src := strings.Repeat("# %% part\nx = 1\n", i+1)
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
		paths = append(paths, p)
	}

	docs, err := e.SectionsFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, docs, 6)
	for i, doc := range docs {
		assert.Equal(t, paths[i], doc.Path)
		assert.Len(t, doc.Sections, i+1)
	}
}

func TestSectionsFiles_ReportsFirstFailure(t *testing.T) {
	t.Parallel()
	e, err := New("")
	require.NoError(t, err)

	dir := t.TempDir()
	good := filepath.Join(dir, "ok.py")
	require.NoError(t, os.WriteFile(good, []byte("# %% a\n"), 0o644))
	missing := filepath.Join(dir, "missing.py")

	docs, err := e.SectionsFiles(context.Background(), []string{good, missing})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.py")
	require.NotNil(t, docs[0])
	assert.Nil(t, docs[1])
}
