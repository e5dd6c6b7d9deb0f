package sections

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goSource = `package main

// %% Types
type Shape struct {
	R float64
}

// %% Funcs
func Area(r float64) float64 {
	return r
}
`

const cSource = `// %% Types
struct Point
{
  int x;
  int y;
};

struct Point origin;

// %% Functions
int add(int a, int b)
{
  return a + b;
}
`

// --- Language detection tests ---

func TestLanguageForFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"main.go", "go", true},
		{"app.tsx", "typescript", true},
		{"script.py", "python", true},
		{"util.h", "c", true},
		{"util.hpp", "cpp", true},
		{"App.java", "java", true},
		{"app.rb", "ruby", true},
		{"notes.m", "", false},
		{"Makefile", "", false},
		{"path/to/file.PY", "python", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			got, ok := LanguageForFile(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrammarForLanguage(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"go", "typescript", "javascript", "python", "rust", "c", "cpp", "java", "php", "ruby"} {
		l, ok := GrammarForLanguage(lang)
		assert.True(t, ok, lang)
		assert.NotNil(t, l, lang)
	}
	_, ok := GrammarForLanguage("matlab")
	assert.False(t, ok)
}

// --- Containers ---

func TestContainers_Go(t *testing.T) {
	t.Parallel()

	got, err := Containers(context.Background(), []byte(goSource), "go")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Shape", got[0].Name)
	assert.Equal(t, KindType, got[0].Kind)
	assert.Equal(t, 3, got[0].Range.StartLine)
	assert.Equal(t, 5, got[0].Range.EndLine)

	assert.Equal(t, "Area(r float64)", got[1].Name)
	assert.Equal(t, KindFunction, got[1].Kind)
	assert.Equal(t, Range{StartLine: 8, StartCol: 0, EndLine: 10, EndCol: 1}, got[1].Range)
	assert.Equal(t, 8, got[1].Selection.StartLine)
	assert.Equal(t, 8, got[1].Selection.EndLine)
}

func TestContainers_C(t *testing.T) {
	t.Parallel()

	got, err := Containers(context.Background(), []byte(cSource), "c")
	require.NoError(t, err)

	var names []string
	for _, s := range got {
		names = append(names, s.Kind+" "+s.Name)
	}
	// The bodiless "struct Point" in "struct Point origin;" is not a
	// container; the declaration itself is a global variable.
	assert.Equal(t, []string{"struct Point", "variable origin", "function add(int a, int b)"}, names)
}

func TestContainers_CSectionsFixture(t *testing.T) {
	t.Parallel()

	src, err := os.ReadFile(filepath.Join("testdata", "c_sections.c"))
	require.NoError(t, err)

	got, err := Containers(context.Background(), src, "c")
	require.NoError(t, err)

	var names []string
	for _, s := range got {
		names = append(names, s.Kind+" "+s.Name)
	}
	assert.Equal(t, []string{
		"constant GNB_MAX_SLOTS_PER_FRAME",
		"constant SCALE_FACTOR",
		"variable number",
		"variable limit",
		"type_alias gnb_dl_tm_payload_t",
		"type_alias frame_slots_t",
		"declaration f1(void)",
		"declaration f2(void)",
		"declaration f3(int)",
		"declaration f4(int)",
		"struct Point",
		"enum Mode",
		"union Payload",
		"struct typedef struct",
		"namespace demo",
		"class Worker",
		"function main(void)",
		"function f1(void)",
		"function f2(void)",
		"function f3(int value)",
		"function f4(int value)",
	}, names)

	byName := make(map[string]*Symbol, len(got))
	for _, s := range got {
		byName[s.Name] = s
	}

	// Macros end on their own line even though the node swallows the newline.
	def := byName["GNB_MAX_SLOTS_PER_FRAME"]
	assert.Equal(t, Range{StartLine: 2, EndLine: 2, EndCol: 34}, def.Range)
	assert.Equal(t, Range{StartLine: 2, StartCol: 8, EndLine: 2, EndCol: 31}, def.Selection)

	assert.Equal(t, Range{StartLine: 6, EndLine: 6, EndCol: 16}, byName["number"].Range)
	assert.Equal(t, 47, byName["demo"].Range.StartLine)
	assert.Equal(t, 54, byName["demo"].Range.EndLine)
	assert.Equal(t, 49, byName["Worker"].Range.StartLine)
}

func TestParseSource_CSectionsFixture(t *testing.T) {
	t.Parallel()

	doc, err := ParseFile(context.Background(), filepath.Join("testdata", "c_sections.c"), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 91, doc.LineCount)

	sections := make(map[string]*Symbol)
	var collect func(syms []*Symbol)
	collect = func(syms []*Symbol) {
		for _, s := range syms {
			if s.Kind == KindSection {
				sections[s.Name] = s
			}
			collect(s.Children)
		}
	}
	collect(doc.Outline)

	childNames := func(title string) []string {
		sec, ok := sections[title]
		require.True(t, ok, "missing section %q", title)
		var names []string
		for _, c := range sec.Children {
			names = append(names, c.Name)
		}
		return names
	}

	assert.Equal(t, []string{"number", "limit"}, childNames("Global variables"))
	assert.Equal(t, []string{"gnb_dl_tm_payload_t", "frame_slots_t"}, childNames("Type Aliases"))
	assert.Equal(t, []string{"f1(void)", "f2(void)", "f3(int)", "f4(int)"}, childNames("Function Declarations"))
	assert.Equal(t, []string{"demo"}, childNames("C++ Blocks"))

	demo := sections["C++ Blocks"].Children[0]
	assert.Equal(t, KindNamespace, demo.Kind)
	require.Len(t, demo.Children, 1)
	assert.Equal(t, KindClass, demo.Children[0].Kind)
	assert.Equal(t, "Worker", demo.Children[0].Name)
}

func TestContainers_Python(t *testing.T) {
	t.Parallel()

	got, err := Containers(context.Background(), []byte(pythonSource), "python")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "area(r: float)", got[0].Name)
	assert.Equal(t, KindFunction, got[0].Kind)
	assert.Equal(t, 4, got[0].Range.StartLine)
}

func TestContainers_UnsupportedLanguage(t *testing.T) {
	t.Parallel()

	_, err := Containers(context.Background(), []byte("x"), "cobol")
	require.Error(t, err)
}

// --- Outline ---

func TestOutline_NestsBySmallestParent(t *testing.T) {
	t.Parallel()

	outer := &Symbol{Name: "outer", Range: Range{StartLine: 0, EndLine: 10, EndCol: 1}}
	mid := &Symbol{Name: "mid", Range: Range{StartLine: 2, EndLine: 8, EndCol: 1}}
	inner := &Symbol{Name: "inner", Range: Range{StartLine: 3, EndLine: 4, EndCol: 1}}
	other := &Symbol{Name: "other", Range: Range{StartLine: 12, EndLine: 13}}

	roots := Outline([]*Symbol{inner, other, mid, outer})
	require.Len(t, roots, 2)
	assert.Equal(t, "outer", roots[0].Name)
	assert.Equal(t, "other", roots[1].Name)
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "mid", roots[0].Children[0].Name)
	require.Len(t, roots[0].Children[0].Children, 1)
	assert.Equal(t, "inner", roots[0].Children[0].Children[0].Name)
}

func TestOutline_EqualRangesStaySiblings(t *testing.T) {
	t.Parallel()

	a := &Symbol{Name: "a", Range: Range{StartLine: 1, EndLine: 3}}
	b := &Symbol{Name: "b", Range: Range{StartLine: 1, EndLine: 3}}

	roots := Outline([]*Symbol{a, b})
	assert.Len(t, roots, 2)
}

func TestSectionSymbols_ClampsToDocument(t *testing.T) {
	t.Parallel()

	lines := []string{"a", "# %% end"}
	syms := SectionSymbols(lines, Parse(lines, DefaultOptions()))
	require.Len(t, syms, 1)
	assert.Equal(t, Range{StartLine: 1, EndLine: 1, EndCol: 8}, syms[0].Range)
	assert.Equal(t, Range{StartLine: 1, StartCol: 2, EndLine: 1, EndCol: 8}, syms[0].Selection)
}

func TestImplicitEnds(t *testing.T) {
	t.Parallel()

	ns := &Symbol{Name: "demo", Kind: KindNamespace, Range: Range{StartLine: 0, EndLine: 6}}
	secs := []Section{
		{HeaderLine: 2, ContentStart: 3, FoldEnd: 9},
		{HeaderLine: 8, ContentStart: 9, FoldEnd: 9},
	}

	got := ImplicitEnds(secs, []*Symbol{ns}, 10)
	assert.Equal(t, map[int]int{2: 6}, got)
}

func TestImplicitEnds_NextSectionInsideContainer(t *testing.T) {
	t.Parallel()

	ns := &Symbol{Range: Range{StartLine: 0, EndLine: 6}}
	secs := []Section{
		{HeaderLine: 2, ContentStart: 3, FoldEnd: 3},
		{HeaderLine: 4, ContentStart: 5, FoldEnd: 9},
	}

	got := ImplicitEnds(secs, []*Symbol{ns}, 10)
	assert.Equal(t, map[int]int{4: 6}, got)
}

// --- Documents ---

func TestParseSource_Go(t *testing.T) {
	t.Parallel()

	doc, err := ParseSource(context.Background(), "shapes.go", []byte(goSource), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "go", doc.Language)
	assert.Equal(t, 12, doc.LineCount)
	require.Len(t, doc.Sections, 2)

	require.Len(t, doc.Outline, 2)
	types, funcs := doc.Outline[0], doc.Outline[1]
	assert.Equal(t, "Types", types.Name)
	assert.Equal(t, KindSection, types.Kind)
	require.Len(t, types.Children, 1)
	assert.Equal(t, "Shape", types.Children[0].Name)

	assert.Equal(t, "Funcs", funcs.Name)
	require.Len(t, funcs.Children, 1)
	assert.Equal(t, "Area(r float64)", funcs.Children[0].Name)
}

func TestParseSource_Python(t *testing.T) {
	t.Parallel()

	doc, err := ParseSource(context.Background(), "python_sections.py", []byte(pythonSource), DefaultOptions())
	require.NoError(t, err)

	require.Len(t, doc.Outline, 3)
	helpers := doc.Outline[1]
	assert.Equal(t, "Python: Helpers", helpers.Name)
	require.Len(t, helpers.Children, 1)
	assert.Equal(t, "area(r: float)", helpers.Children[0].Name)
}

func TestParseSource_UnknownLanguageKeepsSections(t *testing.T) {
	t.Parallel()

	doc, err := ParseSource(context.Background(), "notes.txt", []byte("# %% One\ntext\n# %% Two\n"), DefaultOptions())
	require.NoError(t, err)

	assert.Empty(t, doc.Language)
	assert.Len(t, doc.Sections, 2)
	assert.Len(t, doc.Outline, 2)
}

func TestParseFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ParseFile(context.Background(), "/nonexistent/file.py", DefaultOptions())
	require.Error(t, err)
}
