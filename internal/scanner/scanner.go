// Package scanner finds Java source files under the analyzed paths,
// honoring the configured exclusions.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/refit-dev/refit/pkg/config"
	"github.com/refit-dev/refit/pkg/parser"
)

// Scanner finds source files in a directory.
type Scanner struct {
	config *config.Config
}

// New creates a new file scanner.
func New(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// ScanDir recursively scans a directory for Java source files.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	files := make([]string, 0, 256)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}

		if d.IsDir() {
			if s.isExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.isExcludedFile(relPath) {
			return nil
		}
		if parser.DetectLanguage(path) != parser.LangUnknown {
			files = append(files, path)
		}

		return nil
	})

	return files, walkErr
}

// ScanPaths scans multiple paths; file arguments are taken as-is, directory
// arguments are walked.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var files []string
	for _, path := range paths {
		if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
			if parser.DetectLanguage(path) != parser.LangUnknown {
				files = append(files, path)
			}
			continue
		}
		found, err := s.ScanDir(path)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

func (s *Scanner) isExcludedDir(name string) bool {
	for _, dir := range s.config.Exclude.Dirs {
		if name == dir {
			return true
		}
	}
	return false
}

func (s *Scanner) isExcludedFile(relPath string) bool {
	base := filepath.Base(relPath)
	for _, pattern := range s.config.Exclude.Patterns {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, relPath); ok {
			return true
		}
	}
	for _, dir := range s.config.Exclude.Dirs {
		if strings.Contains(relPath, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(relPath, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
