package sections

import "sort"

// FoldingRange is an inclusive line range that an editor can collapse.
type FoldingRange struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  string `json:"kind,omitempty"` // "region" for sections
}

// IndentationFolds returns ranges opened by every non-blank line whose next
// non-blank line is indented deeper, closed before the next line at the
// same or shallower indent.
func IndentationFolds(lines []string) []FoldingRange {
	type open struct{ line, indent int }
	var (
		ranges []FoldingRange
		stack  []open
	)

	for n, text := range lines {
		if isBlank(text) {
			continue
		}
		indent := leadingWhitespace(text)
		for len(stack) > 0 && indent <= stack[len(stack)-1].indent {
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if end := n - 1; end > start.line {
				ranges = append(ranges, FoldingRange{Start: start.line, End: end})
			}
		}

		next := nextNonBlank(lines, n+1)
		if next < 0 {
			continue
		}
		if leadingWhitespace(lines[next]) > indent {
			stack = append(stack, open{line: n, indent: indent})
		}
	}

	last := len(lines) - 1
	for len(stack) > 0 {
		start := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if last > start.line {
			ranges = append(ranges, FoldingRange{Start: start.line, End: last})
		}
	}
	return ranges
}

// FoldingRanges merges section ranges with indentation folds. Duplicate
// (start, end) pairs are dropped, the section range winning; the result is
// sorted by start then end.
func FoldingRanges(lines []string, secs []Section) []FoldingRange {
	var all []FoldingRange
	for _, s := range secs {
		if s.FoldEnd > s.HeaderLine {
			all = append(all, FoldingRange{Start: s.HeaderLine, End: s.FoldEnd, Kind: "region"})
		}
	}
	all = append(all, IndentationFolds(lines)...)

	type key struct{ start, end int }
	seen := make(map[key]bool, len(all))
	merged := make([]FoldingRange, 0, len(all))
	for _, r := range all {
		k := key{r.Start, r.End}
		if seen[k] {
			continue
		}
		seen[k] = true
		merged = append(merged, r)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Start != merged[j].Start {
			return merged[i].Start < merged[j].Start
		}
		return merged[i].End < merged[j].End
	})
	return merged
}

func nextNonBlank(lines []string, from int) int {
	for n := from; n < len(lines); n++ {
		if !isBlank(lines[n]) {
			return n
		}
	}
	return -1
}
