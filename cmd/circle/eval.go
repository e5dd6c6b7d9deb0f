package main

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/jward/circle"
	"github.com/spf13/cobra"
)

var (
	flagEvalFile   string
	flagEvalRecord bool
	flagScriptsDir string
)

var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate a Risor expression or script with geometry globals",
	Long: "Runs Risor code with area(r), circumference(r), pi, format_area(v) and\n" +
		"sections(path) defined. With --record, record(r) and history(limit) are\n" +
		"also available. Imports resolve against --scripts-dir (default: the\n" +
		"directory of --file) first; the bundled shapes module is always importable.",
	Example: "  circle eval 'area(2.0)'\n  circle eval --file calc.risor --record",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runEval,
}

func init() {
	evalCmd.Flags().StringVar(&flagEvalFile, "file", "", "run the Risor script at this path")
	evalCmd.Flags().BoolVar(&flagEvalRecord, "record", false, "attach the history database (enables record and history)")
	evalCmd.Flags().StringVar(&flagScriptsDir, "scripts-dir", "", "resolve imports from this directory before the bundled modules")
}

func runEval(cmd *cobra.Command, args []string) error {
	if (flagEvalFile == "") == (len(args) == 0) {
		return outputError("eval", errors.New("provide exactly one of an expression or --file"))
	}

	var opts []circle.Option
	scriptsDir := flagScriptsDir
	if scriptsDir == "" && flagEvalFile != "" {
		// Scripts import siblings from their own directory.
		scriptsDir = filepath.Dir(flagEvalFile)
	}
	if scriptsDir != "" {
		opts = append(opts, circle.WithScriptsDir(scriptsDir))
	}

	e, err := openEngine(flagEvalRecord, opts...)
	if err != nil {
		return outputError("eval", err)
	}
	defer e.Close()

	ctx := context.Background()
	var value any
	if flagEvalFile != "" {
		value, err = e.EvalFile(ctx, flagEvalFile)
	} else {
		value, err = e.Eval(ctx, args[0])
	}
	if err != nil {
		return outputError("eval", err)
	}

	return outputResult(CLIResult{Command: "eval", Results: CLIValue{Value: toCLIValue(value)}})
}
