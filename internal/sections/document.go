package sections

import (
	"context"
	"fmt"
	"os"
)

// Document is everything derived from one source file.
type Document struct {
	Path      string         `json:"path"`
	Language  string         `json:"language,omitempty"`
	LineCount int            `json:"line_count"`
	Sections  []Section      `json:"sections"`
	Folds     []FoldingRange `json:"folds"`
	Outline   []*Symbol      `json:"outline"`
	// ImplicitEnds maps section header lines to container closing lines.
	ImplicitEnds map[int]int `json:"implicit_ends,omitempty"`
}

// ParseFile reads path and analyzes it.
func ParseFile(ctx context.Context, path string, opts Options) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sections: reading %s: %w", path, err)
	}
	return ParseSource(ctx, path, src, opts)
}

// ParseSource analyzes src as if read from path; the path's extension picks
// the tree-sitter grammar. Files in unsupported languages still get sections
// and folds, just no container symbols.
func ParseSource(ctx context.Context, path string, src []byte, opts Options) (*Document, error) {
	lines := SplitLines(string(src))
	secs := Parse(lines, opts)

	doc := &Document{
		Path:      path,
		LineCount: len(lines),
		Sections:  secs,
		Folds:     FoldingRanges(lines, secs),
	}

	var containers []*Symbol
	if lang, ok := LanguageForFile(path); ok {
		doc.Language = lang
		c, err := Containers(ctx, src, lang)
		if err != nil {
			return nil, err
		}
		containers = c
	}

	doc.ImplicitEnds = ImplicitEnds(secs, containers, len(lines))
	doc.Outline = Outline(append(containers, SectionSymbols(lines, secs)...))
	return doc, nil
}
