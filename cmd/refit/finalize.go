package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/refit-dev/refit/internal/output"
	"github.com/refit-dev/refit/internal/progress"
	"github.com/refit-dev/refit/pkg/analyzer/finalize"
)

var finalizeCmd = &cobra.Command{
	Use:     "finalize [path...]",
	Aliases: []string{"fin"},
	Short:   "Find local variables that can be declared final",
	RunE:    runFinalize,
}

func init() {
	analyzeCmd.AddCommand(finalizeCmd)
}

func runFinalize(cmd *cobra.Command, args []string) error {
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

	tracker := progress.NewTracker("Finding finalizable locals...", len(files))
	an := finalize.New(
		finalize.WithMaxFileSize(cfg.Analysis.MaxFileSize),
		finalize.WithProgress(tracker.Tick),
	)
	defer an.Close()

	analysis, err := an.Analyze(context.Background(), files)
	tracker.FinishSuccess()
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(analysis)
	}

	if analysis.Summary.TotalCandidates == 0 {
		if formatter.Format() == output.FormatText {
			color.Green("No finalizable locals found in %d files", analysis.Summary.TotalFiles)
		}
		return nil
	}

	var rows [][]string
	for _, fr := range analysis.Files {
		for _, mr := range fr.Methods {
			for _, c := range mr.Locals {
				rows = append(rows, []string{
					fmt.Sprintf("%s:%d", fr.Path, c.Line),
					mr.Method + mr.Signature,
					joinNames(c.Names),
				})
			}
		}
	}

	table := output.NewTable(
		"Finalizable Locals",
		[]string{"Location", "Method", "Variables"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", analysis.Summary.TotalFiles),
			fmt.Sprintf("Methods: %d", analysis.Summary.TotalMethods),
			fmt.Sprintf("Candidates: %d", analysis.Summary.TotalCandidates),
		},
		analysis,
	)

	return formatter.Output(table)
}
