package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/refit-dev/refit/internal/output"
	"github.com/refit-dev/refit/internal/progress"
	"github.com/refit-dev/refit/pkg/analyzer/finalize"
	"github.com/refit-dev/refit/pkg/analyzer/staticize"
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze [path...]",
	Aliases: []string{"a"},
	Short:   "Run modifier analysis (all analyzers if no subcommand specified)",
	RunE:    runAnalyze,
}

// fullAnalysis holds the combined results of all analyzers.
type fullAnalysis struct {
	Staticize *staticize.Analysis `json:"staticize,omitempty" toon:"staticize,omitempty"`
	Finalize  *finalize.Analysis  `json:"finalize,omitempty" toon:"finalize,omitempty"`
}

func init() {
	// Persistent flags inherited by all analyzer subcommands
	analyzeCmd.PersistentFlags().StringP("format", "f", "text", "Output format: text, json, markdown, toon")
	analyzeCmd.PersistentFlags().StringP("output", "o", "", "Write output to file")
	analyzeCmd.PersistentFlags().Bool("no-cache", false, "Disable caching")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	files, err := scanFiles(cfg, getPaths(args))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		color.Yellow("No Java files found")
		return nil
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	results := fullAnalysis{}

	if cfg.Analysis.Staticize {
		store, err := openCache(cmd, cfg)
		if err != nil {
			return err
		}
		tracker := progress.NewTracker("Finding staticizable methods...", len(files))
		an := staticize.New(
			staticize.WithCache(store),
			staticize.WithMaxFileSize(cfg.Analysis.MaxFileSize),
			staticize.WithProgress(tracker.Tick),
		)
		results.Staticize, err = an.Analyze(context.Background(), files)
		an.Close()
		tracker.FinishSuccess()
		if err != nil {
			return fmt.Errorf("staticize analysis failed: %w", err)
		}
	}

	if cfg.Analysis.Finalize {
		tracker := progress.NewTracker("Finding finalizable locals...", len(files))
		an := finalize.New(
			finalize.WithMaxFileSize(cfg.Analysis.MaxFileSize),
			finalize.WithProgress(tracker.Tick),
		)
		results.Finalize, err = an.Analyze(context.Background(), files)
		an.Close()
		tracker.FinishSuccess()
		if err != nil {
			return fmt.Errorf("finalize analysis failed: %w", err)
		}
	}

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(results)
	}

	w := formatter.Writer()
	if formatter.Colored() {
		color.Cyan("=== Analysis Summary ===\n")
	} else {
		fmt.Fprintln(w, "=== Analysis Summary ===")
	}

	if results.Staticize != nil {
		fmt.Fprintf(w, "\nStaticizable methods:\n")
		fmt.Fprintf(w, "  Candidates: %d across %d classes (%d files scanned)\n",
			results.Staticize.Summary.TotalCandidates,
			results.Staticize.Summary.TotalClasses,
			results.Staticize.Summary.TotalFiles)
	}

	if results.Finalize != nil {
		fmt.Fprintf(w, "\nFinalizable locals:\n")
		fmt.Fprintf(w, "  Candidates: %d across %d methods (%d files scanned)\n",
			results.Finalize.Summary.TotalCandidates,
			results.Finalize.Summary.TotalMethods,
			results.Finalize.Summary.TotalFiles)
	}

	fmt.Fprintln(w, "\nRun `refit analyze staticize` or `refit analyze finalize` for details,")
	fmt.Fprintln(w, "or `refit apply --write` to rewrite the sources.")
	return nil
}
