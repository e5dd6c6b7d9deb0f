package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/jward/circle"
	"github.com/spf13/cobra"
)

var (
	flagDB     string
	flagFormat string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

// stdout is where results are written; tests swap it out.
var stdout io.Writer = os.Stdout

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "circle",
	Short: "Circle areas, Risor geometry scripts and %% section outlines",
	Long: "With no arguments, circle prints the area of a circle of radius 2.\n" +
		"Subcommands compute other radii, run Risor scripts with geometry globals,\n" +
		"keep a SQLite history of results and outline %% section markers in source files.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	RunE: runDefault,
}

func init() {
	log.SetFlags(0)
	log.SetPrefix("circle: ")

	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "history database path (default: .circle/history.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: text|json")

	rootCmd.AddCommand(areaCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(historyCmd)
}

// runDefault prints the area for the default radius.
func runDefault(cmd *cobra.Command, args []string) error {
	r := circle.DefaultRadius
	return outputResult(CLIResult{
		Command: "area",
		Results: []CLIComputation{{Radius: CLIFloat(r), Area: CLIFloat(circle.Area(r))}},
	})
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath(repoRoot string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(repoRoot, flagDB)
	}
	return filepath.Join(repoRoot, ".circle", "history.db")
}

// historyDBPath resolves the database path from the working directory and
// ensures its parent directory exists.
func historyDBPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	return dbPath, nil
}

// openEngine creates an Engine, attaching the history database when
// withHistory is set.
func openEngine(withHistory bool, opts ...circle.Option) (*circle.Engine, error) {
	dbPath := ""
	if withHistory {
		p, err := historyDBPath()
		if err != nil {
			return nil, err
		}
		dbPath = p
	}
	e, err := circle.New(dbPath, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}
	return e, nil
}

// resolveFilePath converts a file argument to an absolute path.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}
