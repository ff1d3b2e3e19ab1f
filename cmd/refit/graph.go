package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/refit-dev/refit/internal/output"
	"github.com/refit-dev/refit/pkg/analyzer/staticize"
	"github.com/refit-dev/refit/pkg/java"
	"github.com/refit-dev/refit/pkg/parser"
)

var graphCmd = &cobra.Command{
	Use:   "graph [path...]",
	Short: "Dump the per-class instance-data usage graph",
	Long: `Builds the usage graph the staticize analysis runs on and prints it,
one class at a time. Useful for understanding why a method was or was
not reported.`,
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().StringP("format", "f", "text", "Output format: text, json, markdown, toon")
	graphCmd.Flags().StringP("output", "o", "", "Write output to file")
	graphCmd.Flags().String("class", "", "Only show the named class")
	graphCmd.Flags().Bool("stats", false, "Show graph statistics instead of the edge listing")

	rootCmd.AddCommand(graphCmd)
}

// classStats pairs a class name with its graph statistics for serialization.
type classStats struct {
	File  string               `json:"file" toon:"file"`
	Class string               `json:"class" toon:"class"`
	Stats staticize.GraphStats `json:"stats" toon:"stats"`
}

func runGraph(cmd *cobra.Command, args []string) error {
	classFilter, _ := cmd.Flags().GetString("class")
	showStats, _ := cmd.Flags().GetBool("stats")

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

	psr := parser.New()
	defer psr.Close()

	var allStats []classStats
	w := formatter.Writer()

	for _, path := range files {
		result, err := psr.ParseFile(path)
		if err != nil {
			if verbose {
				color.Yellow("Skipping %s: %v", path, err)
			}
			continue
		}

		for _, class := range java.Classes(result) {
			if classFilter != "" && class.Name != classFilter {
				continue
			}
			graph := staticize.BuildGraph(class, result.Source)

			if showStats {
				allStats = append(allStats, classStats{
					File:  path,
					Class: class.Name,
					Stats: graph.Stats(),
				})
				continue
			}

			fmt.Fprintf(w, "%s %s\n", path, class.Name)
			graph.Dump(w)
		}
	}

	if !showStats {
		return nil
	}

	if formatter.Format() == output.FormatJSON || formatter.Format() == output.FormatTOON {
		return formatter.Output(allStats)
	}

	var rows [][]string
	for _, cs := range allStats {
		rows = append(rows, []string{
			cs.File,
			cs.Class,
			fmt.Sprintf("%d", cs.Stats.Nodes),
			fmt.Sprintf("%d", cs.Stats.Edges),
			fmt.Sprintf("%d", cs.Stats.MaxInDegree),
			fmt.Sprintf("%d", len(cs.Stats.CycleNodes)),
		})
	}

	table := output.NewTable(
		"Usage Graph Statistics",
		[]string{"File", "Class", "Nodes", "Edges", "Max In-Degree", "Cycle Nodes"},
		rows,
		nil,
		allStats,
	)
	return formatter.Output(table)
}
