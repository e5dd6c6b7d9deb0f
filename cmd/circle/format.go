package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jward/circle"
)

// formatComputationsText writes one area per line, in order. Rows carrying
// history metadata are printed as aligned columns instead.
func formatComputationsText(w io.Writer, rows []CLIComputation) {
	if len(rows) == 0 || rows[0].ID == nil {
		for _, r := range rows {
			fmt.Fprintln(w, circle.FormatArea(float64(r.Area)))
		}
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tRADIUS\tAREA\tSOURCE\tSESSION\tCREATED")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			*r.ID,
			circle.FormatArea(float64(r.Radius)),
			circle.FormatArea(float64(r.Area)),
			r.Source,
			shortSession(r.Session),
			r.CreatedAt.Local().Format(time.DateTime))
	}
	tw.Flush()
}

// shortSession trims a UUID to its first group for display.
func shortSession(s string) string {
	if i := strings.IndexByte(s, '-'); i > 0 {
		return s[:i]
	}
	return s
}

// formatValueText prints a script result. Floats use the same formatting
// as areas.
func formatValueText(w io.Writer, v any) {
	switch x := v.(type) {
	case nil:
		fmt.Fprintln(w, "nil")
	case CLIFloat:
		fmt.Fprintln(w, circle.FormatArea(float64(x)))
	case string:
		fmt.Fprintln(w, x)
	case []any, map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			fmt.Fprintf(w, "%v\n", x)
			return
		}
		fmt.Fprintln(w, string(b))
	default:
		fmt.Fprintf(w, "%v\n", x)
	}
}

// formatOutlineText prints the outline as an indented tree.
func formatOutlineText(w io.Writer, doc *circle.Document) {
	if len(doc.Outline) == 0 {
		fmt.Fprintf(w, "%s: no sections\n", doc.Path)
		return
	}
	var walk func(syms []*circle.Symbol, depth int)
	walk = func(syms []*circle.Symbol, depth int) {
		for _, s := range syms {
			fmt.Fprintf(w, "%s%s %s [%d-%d]\n",
				strings.Repeat("  ", depth), s.Kind, s.Name, s.Range.StartLine, s.Range.EndLine)
			walk(s.Children, depth+1)
		}
	}
	walk(doc.Outline, 0)

	if len(doc.ImplicitEnds) > 0 {
		headers := make([]int, 0, len(doc.ImplicitEnds))
		for h := range doc.ImplicitEnds {
			headers = append(headers, h)
		}
		sort.Ints(headers)
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Implicit section ends:")
		for _, h := range headers {
			fmt.Fprintf(w, "  %d -> %d\n", h, doc.ImplicitEnds[h])
		}
	}
}

// formatFoldsText prints folding ranges as aligned columns.
func formatFoldsText(w io.Writer, folds []circle.FoldingRange) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "START\tEND\tKIND")
	for _, f := range folds {
		kind := f.Kind
		if kind == "" {
			kind = "indent"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\n", f.Start, f.End, kind)
	}
	tw.Flush()
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []CLIComputation:
		formatComputationsText(w, v)
		if result.TotalCount != nil && *result.TotalCount > len(v) {
			fmt.Fprintf(w, "(%d of %d shown)\n", len(v), *result.TotalCount)
		}
	case CLIValue:
		formatValueText(w, v.Value)
	case *circle.Document:
		formatOutlineText(w, v)
	case []*circle.Document:
		for i, doc := range v {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s\n", doc.Path)
			formatOutlineText(w, doc)
		}
	case []circle.FoldingRange:
		formatFoldsText(w, v)
	case map[string][]circle.FoldingRange:
		paths := make([]string, 0, len(v))
		for p := range v {
			paths = append(paths, p)
		}
		sort.Strings(paths)
		for i, p := range paths {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s\n", p)
			formatFoldsText(w, v[p])
		}
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// outputResult writes result to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(stdout, result)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResult{Command: command, Error: err.Error()})
	return err
}

// validFormats lists accepted values for --format.
var validFormats = []string{"text", "json"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
