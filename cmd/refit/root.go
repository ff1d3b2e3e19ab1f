package main

import (
	"github.com/spf13/cobra"

	"github.com/refit-dev/refit/pkg/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "refit",
	Short: "Modifier hygiene analysis and rewriting for Java",
	Long: `Refit analyzes Java sources for modifier improvements that the compiler
cannot suggest on its own: private and final methods that never touch
instance state and can be declared static, and local variables assigned
exactly once that can be declared final.

Findings can be reported or applied directly to the source files.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
}

// loadConfig honors an explicit --config path, otherwise searches the
// standard locations.
func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	return config.LoadOrDefault(), nil
}
