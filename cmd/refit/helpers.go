package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/refit-dev/refit/internal/cache"
	"github.com/refit-dev/refit/internal/scanner"
	"github.com/refit-dev/refit/pkg/config"
)

// getPaths returns paths from args, defaulting to ["."]
func getPaths(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}

// getFormat returns the format flag value from the command.
func getFormat(cmd *cobra.Command) string {
	format, _ := cmd.Flags().GetString("format")
	return format
}

// getOutputFile returns the output file path from the command.
func getOutputFile(cmd *cobra.Command) string {
	outputFile, _ := cmd.Flags().GetString("output")
	return outputFile
}

// scanFiles collects the Java files under the given paths per the config's
// exclusion rules.
func scanFiles(cfg *config.Config, paths []string) ([]string, error) {
	return scanner.New(cfg).ScanPaths(paths)
}

// openCache builds the cache from config, honoring the no-cache flag.
func openCache(cmd *cobra.Command, cfg *config.Config) (*cache.Cache, error) {
	noCache, _ := cmd.Flags().GetBool("no-cache")
	return cache.New(cfg.Cache.Dir, cfg.Cache.TTL, cfg.Cache.Enabled && !noCache)
}

// joinNames renders a candidate's variable list for table output.
func joinNames(names []string) string {
	return strings.Join(names, ", ")
}
