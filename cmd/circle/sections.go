package main

import (
	"context"

	"github.com/jward/circle"
	"github.com/spf13/cobra"
)

var (
	flagFolds       bool
	flagIndentAware bool
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <file>...",
	Short: "Outline the %% section markers in a source file",
	Long: "Finds comment lines of the form \"%% Title\" (after //, #, ;, --, /*, * or <!--)\n" +
		"and prints them as an outline together with the functions, classes and\n" +
		"other blocks tree-sitter finds in the file. All line numbers are 0-based.\n\n" +
		"Unlike editors that reserve %% for MATLAB cells, .m files are not skipped:\n" +
		"they are outlined like any other file without a known grammar.",
	Example: "  circle sections analysis.py\n  circle sections --folds main.c\n  circle sections *.py",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runSections,
}

func init() {
	sectionsCmd.Flags().BoolVar(&flagFolds, "folds", false, "print folding ranges instead of the outline")
	sectionsCmd.Flags().BoolVar(&flagIndentAware, "indent-aware", true, "end sections at the first line indented less than the header")
}

func runSections(cmd *cobra.Command, args []string) error {
	paths := make([]string, len(args))
	for i, a := range args {
		p, err := resolveFilePath(a)
		if err != nil {
			return outputError("sections", err)
		}
		paths[i] = p
	}

	e, err := openEngine(false, circle.WithIndentAware(flagIndentAware))
	if err != nil {
		return outputError("sections", err)
	}
	defer e.Close()

	ctx := context.Background()
	if len(paths) > 1 {
		docs, err := e.SectionsFiles(ctx, paths)
		if err != nil {
			return outputError("sections", err)
		}
		if flagFolds {
			folds := make(map[string][]circle.FoldingRange, len(docs))
			for _, d := range docs {
				folds[d.Path] = d.Folds
			}
			return outputResult(CLIResult{Command: "sections", Results: folds})
		}
		return outputResult(CLIResult{Command: "sections", Results: docs})
	}

	doc, err := e.Sections(ctx, paths[0])
	if err != nil {
		return outputError("sections", err)
	}

	if flagFolds {
		return outputResult(CLIResult{Command: "sections", Results: doc.Folds})
	}
	return outputResult(CLIResult{Command: "sections", Results: doc})
}
