package circle

import (
	"github.com/jward/circle/internal/sections"
	"github.com/jward/circle/internal/store"
)

// Public type aliases for internal types used in the Engine API. These are
// Go type aliases (=), so no conversion is needed.

type Computation = store.Computation
type Document = sections.Document
type Section = sections.Section
type FoldingRange = sections.FoldingRange
type Symbol = sections.Symbol
type Range = sections.Range
