// Package staticize decides which non-overridable (private or final) methods
// of a Java class never observe per-instance state, directly or transitively,
// and can therefore be declared static.
//
// The analysis builds a directed usage graph over the class's instance fields
// and methods, seeds "instance-data accessed" status at every node that
// provably touches instance state, propagates that status along usage edges
// to a fixed point, and reports the non-overridable methods left unmarked.
package staticize

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/refit-dev/refit/internal/cache"
	"github.com/refit-dev/refit/internal/fileproc"
	"github.com/refit-dev/refit/pkg/analyzer"
	"github.com/refit-dev/refit/pkg/java"
	"github.com/refit-dev/refit/pkg/parser"
)

// Analyzer finds staticizable methods across Java files.
type Analyzer struct {
	store       *cache.Cache
	maxFileSize int64
	onProgress  func()
}

// Compile-time check that Analyzer implements analyzer.FileAnalyzer.
var _ analyzer.FileAnalyzer[*Analysis] = (*Analyzer)(nil)

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxFileSize sets the maximum file size to analyze (0 = no limit).
func WithMaxFileSize(maxSize int64) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// WithCache enables result caching keyed by file content hash.
func WithCache(store *cache.Cache) Option {
	return func(a *Analyzer) {
		a.store = store
	}
}

// WithProgress sets a callback invoked once per processed file.
func WithProgress(fn func()) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a new staticize analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases resources held by the analyzer.
func (a *Analyzer) Close() {}

// Analyze processes the given files in parallel and aggregates per-class
// staticization candidates. Files that fail to parse are skipped; a class
// whose graph fails its internal consistency check contributes no
// candidates (the safe default).
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileResults := fileproc.MapFilesWithProgress(files, a.analyzeFile, a.onProgress)

	analysis := &Analysis{Files: make([]FileResult, 0, len(fileResults))}
	for _, fr := range fileResults {
		if len(fr.Classes) == 0 {
			analysis.Summary.TotalFiles++
			continue
		}
		analysis.Files = append(analysis.Files, fr)
		analysis.Summary.TotalFiles++
		for _, cr := range fr.Classes {
			analysis.Summary.TotalClasses++
			analysis.Summary.TotalCandidates += len(cr.Methods)
		}
	}

	sort.Slice(analysis.Files, func(i, j int) bool {
		return analysis.Files[i].Path < analysis.Files[j].Path
	})

	return analysis, ctx.Err()
}

const cachePrefix = "staticize:v1:"

func (a *Analyzer) analyzeFile(psr *parser.Parser, path string) (FileResult, error) {
	result, err := psr.ParseFile(path)
	if err != nil {
		return FileResult{}, err
	}
	if a.maxFileSize > 0 && int64(len(result.Source)) > a.maxFileSize {
		return FileResult{Path: path}, nil
	}

	var hash string
	if a.store != nil {
		hash = cache.HashBytes(result.Source)
		if data, ok := a.store.GetWithHash(cachePrefix+path, hash); ok {
			var cached FileResult
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	fr := FileResult{Path: path}
	for _, class := range java.Classes(result) {
		eligible, err := AnalyzeClass(class, result.Source)
		if err != nil {
			// internal invariant violation: leave the class unmarked
			continue
		}
		if cr := eligible.classResult(); len(cr.Methods) > 0 {
			fr.Classes = append(fr.Classes, cr)
		}
	}

	if a.store != nil {
		if data, err := json.Marshal(fr); err == nil {
			a.store.PutWithHash(cachePrefix+path, hash, data)
		}
	}

	return fr, nil
}

// EligibleSet is the result of analyzing one class: the set of methods that
// may be marked static.
type EligibleSet struct {
	Class   string
	methods map[NodeID]*java.Method
}

// Contains reports whether a method declaration is eligible.
func (s *EligibleSet) Contains(m *java.Method) bool {
	_, ok := s.methods[MethodID(m)]
	return ok
}

// Methods returns the eligible method declarations in source order.
func (s *EligibleSet) Methods() []*java.Method {
	methods := make([]*java.Method, 0, len(s.methods))
	for _, m := range s.methods {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Line < methods[j].Line })
	return methods
}

func (s *EligibleSet) classResult() ClassResult {
	cr := ClassResult{Class: s.Class}
	for _, m := range s.Methods() {
		cr.Methods = append(cr.Methods, Candidate{
			Name:      m.Name,
			Signature: m.Signature(),
			Line:      m.Line,
		})
	}
	return cr
}

// AnalyzeClass runs the full pipeline for a single class declaration:
// member classification, graph construction, reachability propagation and
// the eligibility decision. Construction fully completes before propagation
// begins; propagating over a partially built graph would under-approximate
// accessed status.
func AnalyzeClass(class *java.Class, source []byte) (*EligibleSet, error) {
	graph := BuildGraph(class, source)

	// every registered instance method must still resolve; anything else
	// is a corrupted graph and the class must not be staticized
	for _, m := range class.Methods {
		if m.IsStatic() {
			continue
		}
		if _, ok := graph.Lookup(MethodID(m)); !ok {
			return nil, fmt.Errorf("class %s: method %s%s missing from usage graph", class.Name, m.Name, m.Signature())
		}
	}

	marked := graph.propagate()

	eligible := &EligibleSet{
		Class:   class.Name,
		methods: make(map[NodeID]*java.Method),
	}
	for i, node := range graph.Nodes() {
		if node.Method == nil || node.Method.Constructor {
			continue
		}
		if !node.Method.NonOverridable() {
			continue
		}
		if !marked.Contains(uint32(i)) {
			eligible.methods[node.ID] = node.Method
		}
	}

	return eligible, nil
}
