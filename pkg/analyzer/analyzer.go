// Package analyzer holds the contract shared by the analysis packages
// beneath it.
package analyzer

import "context"

// FileAnalyzer is the common shape of an analysis in this repo: it consumes
// the Java files found by the scanner and produces its own report type.
type FileAnalyzer[T any] interface {
	// Analyze runs the analysis over files. The context carries
	// cancellation down from the command layer.
	Analyze(ctx context.Context, files []string) (T, error)

	// Close releases the per-worker parsers and any other held resources.
	Close()
}
