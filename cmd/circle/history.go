package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagLimit int
	flagClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded computations, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "maximum rows to show (0 for all)")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "delete all recorded computations")
}

func runHistory(cmd *cobra.Command, args []string) error {
	e, err := openEngine(true)
	if err != nil {
		return outputError("history", err)
	}
	defer e.Close()

	if flagClear {
		if err := e.ClearHistory(); err != nil {
			return outputError("history", err)
		}
		fmt.Fprintln(os.Stderr, "History cleared")
		total := 0
		return outputResult(CLIResult{Command: "history", Results: []CLIComputation{}, TotalCount: &total})
	}

	rows, err := e.History(flagLimit)
	if err != nil {
		return outputError("history", err)
	}
	total, err := e.HistoryCount()
	if err != nil {
		return outputError("history", err)
	}

	out := make([]CLIComputation, len(rows))
	for i, c := range rows {
		out[i] = toCLIComputation(c, true)
	}
	return outputResult(CLIResult{Command: "history", Results: out, TotalCount: &total})
}
