package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/refit-dev/refit/internal/output"
	"github.com/refit-dev/refit/internal/progress"
	"github.com/refit-dev/refit/pkg/analyzer/staticize"
)

var staticizeCmd = &cobra.Command{
	Use:     "staticize [path...]",
	Aliases: []string{"st"},
	Short:   "Find private and final methods that can be declared static",
	RunE:    runStaticize,
}

func init() {
	analyzeCmd.AddCommand(staticizeCmd)
}

func runStaticize(cmd *cobra.Command, args []string) error {
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
			color.Green("No staticizable methods found in %d files", analysis.Summary.TotalFiles)
		}
		return nil
	}

	var rows [][]string
	for _, fr := range analysis.Files {
		for _, cr := range fr.Classes {
			for _, m := range cr.Methods {
				rows = append(rows, []string{
					fmt.Sprintf("%s:%d", fr.Path, m.Line),
					cr.Class,
					m.Name + m.Signature,
				})
			}
		}
	}

	table := output.NewTable(
		"Staticizable Methods",
		[]string{"Location", "Class", "Method"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", analysis.Summary.TotalFiles),
			fmt.Sprintf("Classes: %d", analysis.Summary.TotalClasses),
			fmt.Sprintf("Candidates: %d", analysis.Summary.TotalCandidates),
		},
		analysis,
	)

	return formatter.Output(table)
}
