package sections

import "sort"

// Range is a span of source text. Lines and columns are 0-based.
type Range struct {
	StartLine int `json:"start_line"`
	StartCol  int `json:"start_col"`
	EndLine   int `json:"end_line"`
	EndCol    int `json:"end_col"`
}

func (r Range) span() int { return r.EndLine - r.StartLine }

// strictlyContains reports whether r encloses other without being equal to it.
func (r Range) strictlyContains(other Range) bool {
	startsBefore := r.StartLine < other.StartLine ||
		(r.StartLine == other.StartLine && r.StartCol <= other.StartCol)
	endsAfter := r.EndLine > other.EndLine ||
		(r.EndLine == other.EndLine && r.EndCol >= other.EndCol)
	return startsBefore && endsAfter && r != other
}

// Symbol is an outline entry: a section or a container declaration.
type Symbol struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Range     Range     `json:"range"`
	Selection Range     `json:"selection"`
	Children  []*Symbol `json:"children,omitempty"`
}

// SectionSymbols converts sections to outline symbols. Each range runs from
// the start of the header line to the end of the section's last line,
// clamped to the document.
func SectionSymbols(lines []string, secs []Section) []*Symbol {
	if len(lines) == 0 {
		return nil
	}
	out := make([]*Symbol, 0, len(secs))
	for _, s := range secs {
		end := min(s.FoldEnd, len(lines)-1)
		out = append(out, &Symbol{
			Name: s.Title,
			Kind: KindSection,
			Range: Range{
				StartLine: s.HeaderLine, StartCol: 0,
				EndLine: end, EndCol: len(lines[end]),
			},
			Selection: Range{
				StartLine: s.HeaderLine, StartCol: s.TitleStart,
				EndLine: s.HeaderLine, EndCol: s.TitleEnd,
			},
		})
	}
	return out
}

// Outline nests symbols by range containment: each symbol becomes a child
// of the smallest other symbol that strictly contains it. Roots are
// returned ordered by start line, wider symbols first on ties.
func Outline(symbols []*Symbol) []*Symbol {
	sorted := make([]*Symbol, len(symbols))
	copy(sorted, symbols)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Range.StartLine != sorted[j].Range.StartLine {
			return sorted[i].Range.StartLine < sorted[j].Range.StartLine
		}
		return sorted[i].Range.span() > sorted[j].Range.span()
	})
	for _, s := range sorted {
		s.Children = nil
	}

	var roots []*Symbol
	for i, child := range sorted {
		best := -1
		bestSpan := 0
		for j, parent := range sorted {
			if i == j || !parent.Range.strictlyContains(child.Range) {
				continue
			}
			if span := parent.Range.span(); best < 0 || span < bestSpan {
				best, bestSpan = j, span
			}
		}
		if best >= 0 {
			sorted[best].Children = append(sorted[best].Children, child)
		} else {
			roots = append(roots, child)
		}
	}
	return roots
}

// ImplicitEnds maps a section's header line to the closing line of the
// innermost multi-line container it starts in, when no later section starts
// inside that container. Editors draw a divider there.
func ImplicitEnds(secs []Section, containers []*Symbol, lineCount int) map[int]int {
	ends := make(map[int]int)
	if len(secs) == 0 || lineCount == 0 {
		return ends
	}

	var multi []*Symbol
	for _, c := range containers {
		if c.Range.EndLine > c.Range.StartLine {
			multi = append(multi, c)
		}
	}
	sort.SliceStable(multi, func(i, j int) bool {
		return multi[i].Range.span() < multi[j].Range.span()
	})

	for i, s := range secs {
		var container *Symbol
		for _, c := range multi {
			if s.HeaderLine >= c.Range.StartLine && s.HeaderLine < c.Range.EndLine {
				container = c
				break
			}
		}
		if container == nil {
			continue
		}
		if i+1 < len(secs) && secs[i+1].HeaderLine <= container.Range.EndLine {
			continue
		}
		if end := container.Range.EndLine; end > s.HeaderLine && end < lineCount {
			ends[s.HeaderLine] = end
		}
	}
	return ends
}
