// Package sections finds "%% Title" section markers in source files and
// derives folding ranges and a declaration outline from them.
//
// A marker is a line whose only content is an optional comment leader
// (//, #, ;, --, /*, *, <!--), the token %%, an optional title, and an
// optional comment closer (*/ or -->). Line and column numbers are 0-based;
// columns are byte offsets.
package sections

import (
	"regexp"
	"strings"
)

// DefaultTitle is used for markers with no title text.
const DefaultTitle = "Section"

var (
	markerRE      = regexp.MustCompile(`^\s*(?://|#|;|--|/\*+|\*|<!--)?\s*%%(?:\s+(.*?))?\s*(?:\*/|-->)?\s*$`)
	titleCloserRE = regexp.MustCompile(`\s*(\*/|-->)\s*$`)
)

// Section is one marker and the lines it governs.
type Section struct {
	HeaderLine   int    `json:"header_line"`
	HeaderIndent int    `json:"header_indent"`
	Title        string `json:"title"`
	TitleStart   int    `json:"title_start"`
	TitleEnd     int    `json:"title_end"`
	ContentStart int    `json:"content_start"`
	FoldEnd      int    `json:"fold_end"`
}

// Options controls section parsing.
type Options struct {
	// IndentAware ends a section early at the first non-blank line that is
	// indented less than its header.
	IndentAware bool
}

// DefaultOptions returns the options used when none are given.
func DefaultOptions() Options {
	return Options{IndentAware: true}
}

// Parse returns the sections found in lines, in line order.
func Parse(lines []string, opts Options) []Section {
	var headers []Section
	for n, text := range lines {
		if !markerRE.MatchString(text) {
			continue
		}
		marker := strings.Index(text, "%%")
		if marker < 0 {
			continue
		}
		headers = append(headers, Section{
			HeaderLine:   n,
			HeaderIndent: leadingWhitespace(text),
			Title:        sectionTitle(text, marker),
			TitleStart:   marker,
			TitleEnd:     len(strings.TrimRight(text, " \t\r\n\f\v")),
			ContentStart: n + 1,
			FoldEnd:      n + 1,
		})
	}

	for i := range headers {
		cur := &headers[i]
		maxEnd := len(lines) - 1
		if i+1 < len(headers) {
			maxEnd = headers[i+1].HeaderLine - 1
		}
		foldEnd := maxEnd

		if opts.IndentAware {
			for n := cur.ContentStart; n <= maxEnd; n++ {
				if isBlank(lines[n]) {
					continue
				}
				if leadingWhitespace(lines[n]) < cur.HeaderIndent {
					foldEnd = n - 1
					break
				}
			}
		}

		cur.FoldEnd = max(cur.ContentStart, foldEnd)
	}
	return headers
}

// SectionAt returns the index of the section whose range covers line, or -1.
func SectionAt(secs []Section, line int) int {
	for i, s := range secs {
		if line >= s.HeaderLine && line <= s.FoldEnd {
			return i
		}
	}
	return -1
}

func sectionTitle(text string, marker int) string {
	raw := strings.TrimSpace(titleCloserRE.ReplaceAllString(text[marker+2:], ""))
	if raw == "" {
		return DefaultTitle
	}
	return raw
}

// leadingWhitespace counts leading spaces and tabs.
func leadingWhitespace(text string) int {
	n := 0
	for n < len(text) && (text[n] == ' ' || text[n] == '\t') {
		n++
	}
	return n
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// SplitLines splits src into lines, dropping the terminator of each line.
// A trailing newline yields a final empty line, so the line count matches
// what an editor reports for the same text.
func SplitLines(src string) []string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
