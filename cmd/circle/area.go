package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jward/circle"
	"github.com/spf13/cobra"
)

var flagRecord bool

var areaCmd = &cobra.Command{
	Use:   "area [radius...]",
	Short: "Print the area of a circle for each radius",
	Long: "Prints pi*r^2 for each radius, one per line, in argument order. With no\n" +
		"radius the default of 2.0 is used. Negative radii must follow \"--\".\n" +
		"NaN and Inf are accepted and propagate.",
	Example: "  circle area 1 2.5\n  circle area --record -- -3",
	RunE:    runArea,
}

func init() {
	areaCmd.Flags().BoolVar(&flagRecord, "record", false, "record results in the history database")
}

func runArea(cmd *cobra.Command, args []string) error {
	radii, err := parseRadii(args)
	if err != nil {
		return outputError("area", err)
	}

	e, err := openEngine(flagRecord)
	if err != nil {
		return outputError("area", err)
	}
	defer e.Close()

	results, err := e.Compute(context.Background(), radii...)
	if err != nil {
		return outputError("area", err)
	}
	if flagRecord {
		log.Printf("recorded %d result(s) in session %s", len(results), e.Session())
	}

	out := make([]CLIComputation, len(results))
	for i, c := range results {
		out[i] = toCLIComputation(c, false)
	}
	return outputResult(CLIResult{Command: "area", Results: out})
}

// parseRadii converts arguments to radii, defaulting to DefaultRadius.
func parseRadii(args []string) ([]float64, error) {
	if len(args) == 0 {
		return []float64{circle.DefaultRadius}, nil
	}
	radii := make([]float64, len(args))
	for i, a := range args {
		r, err := circle.ParseRadius(a)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		radii[i] = r
	}
	return radii, nil
}
