package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/refit-dev/refit/internal/fileproc"
	"github.com/refit-dev/refit/internal/output"
	"github.com/refit-dev/refit/internal/progress"
	"github.com/refit-dev/refit/pkg/analyzer/finalize"
	"github.com/refit-dev/refit/pkg/analyzer/staticize"
	"github.com/refit-dev/refit/pkg/java"
	"github.com/refit-dev/refit/pkg/parser"
	"github.com/refit-dev/refit/pkg/rewrite"
)

var applyCmd = &cobra.Command{
	Use:   "apply [path...]",
	Short: "Rewrite sources with the suggested modifiers",
	Long: `Computes the staticize and finalize edits and applies them to the Java
sources. Without --write this is a dry run that only reports what would
change.`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown, toon")
	applyCmd.Flags().StringP("output", "o", "", "Write output to file")
	applyCmd.Flags().Bool("write", false, "Write changes to the source files")
	applyCmd.Flags().Bool("staticize", true, "Apply static modifiers to eligible methods")
	applyCmd.Flags().Bool("finalize", true, "Apply final modifiers to eligible locals")

	rootCmd.AddCommand(applyCmd)
}

// fileChange reports the edits computed (and possibly applied) for one file.
type fileChange struct {
	Path      string `json:"path" toon:"path"`
	Staticize int    `json:"staticize" toon:"staticize"`
	Finalize  int    `json:"finalize" toon:"finalize"`
	Written   bool   `json:"written" toon:"written"`
}

func runApply(cmd *cobra.Command, args []string) error {
	write, _ := cmd.Flags().GetBool("write")
	doStaticize, _ := cmd.Flags().GetBool("staticize")
	doFinalize, _ := cmd.Flags().GetBool("finalize")

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

	tracker := progress.NewTracker("Applying modifier edits...", len(files))
	procErrs := &fileproc.ProcessingErrors{}

	process := func(psr *parser.Parser, path string) (fileChange, error) {
		return applyFile(psr, path, write, doStaticize, doFinalize)
	}
	changes := fileproc.MapFilesN(files, 0, process, tracker.Tick, procErrs.Add)
	tracker.FinishSuccess()

	if procErrs.HasErrors() {
		color.Yellow("Warning: %v", procErrs)
	}

	var applied []fileChange
	totalStaticize, totalFinalize := 0, 0
	for _, ch := range changes {
		if ch.Staticize == 0 && ch.Finalize == 0 {
			continue
		}
		applied = append(applied, ch)
		totalStaticize += ch.Staticize
		totalFinalize += ch.Finalize
	}
	sort.Slice(applied, func(i, j int) bool { return applied[i].Path < applied[j].Path })

	formatter, err := output.NewFormatter(output.ParseFormat(getFormat(cmd)), getOutputFile(cmd), cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(applied)
	}

	if len(applied) == 0 {
		if formatter.Format() == output.FormatText {
			color.Green("Nothing to change in %d files", len(files))
		}
		return nil
	}

	var rows [][]string
	for _, ch := range applied {
		rows = append(rows, []string{
			ch.Path,
			fmt.Sprintf("%d", ch.Staticize),
			fmt.Sprintf("%d", ch.Finalize),
		})
	}

	title := "Modifier Edits (dry run)"
	if write {
		title = "Modifier Edits Applied"
	}
	table := output.NewTable(
		title,
		[]string{"File", "Static Methods", "Final Locals"},
		rows,
		[]string{
			fmt.Sprintf("Files changed: %d", len(applied)),
			fmt.Sprintf("Static: %d", totalStaticize),
			fmt.Sprintf("Final: %d", totalFinalize),
		},
		applied,
	)
	if err := formatter.Output(table); err != nil {
		return err
	}

	if !write && formatter.Format() == output.FormatText {
		fmt.Fprintln(formatter.Writer(), "Re-run with --write to modify the files.")
	}
	return nil
}

// applyFile computes all edits for one file and optionally writes the result
// back in place.
func applyFile(psr *parser.Parser, path string, write, doStaticize, doFinalize bool) (fileChange, error) {
	result, err := psr.ParseFile(path)
	if err != nil {
		return fileChange{}, err
	}

	var edits []rewrite.Edit
	ch := fileChange{Path: path}

	for _, class := range java.Classes(result) {
		if doStaticize {
			eligible, err := staticize.AnalyzeClass(class, result.Source)
			if err != nil {
				return fileChange{}, err
			}
			classEdits := rewrite.StaticizeEdits(class, eligible)
			ch.Staticize += len(classEdits)
			edits = append(edits, classEdits...)
		}
		if doFinalize {
			methodEdits := rewrite.FinalizeEdits(finalize.AnalyzeClass(class, result.Source))
			ch.Finalize += len(methodEdits)
			edits = append(edits, methodEdits...)
		}
	}

	if len(edits) == 0 || !write {
		return ch, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return fileChange{}, err
	}
	if err := os.WriteFile(path, rewrite.Apply(result.Source, edits), info.Mode().Perm()); err != nil {
		return fileChange{}, err
	}
	ch.Written = true
	return ch, nil
}
