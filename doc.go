// Package circle computes circle areas and outlines section-marked source
// files.
//
// # Area
//
// [Area] is a pure function: it returns π·r² for any float64 radius. It does
// not validate its input, so negative radii, NaN and infinities follow the
// usual IEEE-754 rules.
//
//	a := circle.Area(2.0) // 12.566370614359172
//
// # Engine
//
// An [Engine] layers optional services on top of [Area]:
//
//   - History: when created with a database path, every computation made
//     through [Engine.Compute] is recorded in SQLite, tagged with the
//     Engine's session id.
//   - Scripting: [Engine.Eval] and [Engine.EvalFile] run Risor programs with
//     area, circumference and pi available as globals.
//   - Sections: [Engine.Sections] parses "%% Title" section markers, folding
//     ranges and a declaration outline (via tree-sitter) from a source file;
//     [Engine.SectionsFiles] does the same for many files concurrently.
//
// Create an Engine, compute, and close:
//
//	e, err := circle.New("history.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	results, err := e.Compute(ctx, 1, 2.5)
package circle
