// Package finalize finds local variables that are assigned exactly once and
// can be declared final. Assignments inside loops count double, so a variable
// initialized outside a loop and reassigned inside it is never reported.
package finalize

import (
	"context"
	"sort"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/refit-dev/refit/internal/fileproc"
	"github.com/refit-dev/refit/pkg/analyzer"
	"github.com/refit-dev/refit/pkg/java"
	"github.com/refit-dev/refit/pkg/parser"
)

// Analyzer finds finalizable local variables across Java files.
type Analyzer struct {
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

// WithProgress sets a callback invoked once per processed file.
func WithProgress(fn func()) Option {
	return func(a *Analyzer) {
		a.onProgress = fn
	}
}

// New creates a new finalize analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Close releases resources held by the analyzer.
func (a *Analyzer) Close() {}

// Analyze processes the given files in parallel. Files that fail to parse
// are skipped.
func (a *Analyzer) Analyze(ctx context.Context, files []string) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fileResults := fileproc.MapFilesWithProgress(files, a.analyzeFile, a.onProgress)

	analysis := &Analysis{Files: make([]FileResult, 0, len(fileResults))}
	for _, fr := range fileResults {
		analysis.Summary.TotalFiles++
		if len(fr.Methods) == 0 {
			continue
		}
		analysis.Files = append(analysis.Files, fr)
		for _, mr := range fr.Methods {
			analysis.Summary.TotalMethods++
			analysis.Summary.TotalCandidates += len(mr.Locals)
		}
	}

	sort.Slice(analysis.Files, func(i, j int) bool {
		return analysis.Files[i].Path < analysis.Files[j].Path
	})

	return analysis, ctx.Err()
}

func (a *Analyzer) analyzeFile(psr *parser.Parser, path string) (FileResult, error) {
	result, err := psr.ParseFile(path)
	if err != nil {
		return FileResult{}, err
	}
	if a.maxFileSize > 0 && int64(len(result.Source)) > a.maxFileSize {
		return FileResult{Path: path}, nil
	}

	fr := FileResult{Path: path}
	for _, class := range java.Classes(result) {
		fr.Methods = append(fr.Methods, AnalyzeClass(class, result.Source)...)
	}
	return fr, nil
}

// AnalyzeClass finds finalizable local declarations in every method of the
// class that has a body. Static methods are included; the analysis is purely
// local and instance state is irrelevant here.
func AnalyzeClass(class *java.Class, source []byte) []MethodResult {
	var results []MethodResult
	for _, m := range class.Methods {
		if m.Body == nil {
			continue
		}
		locals := methodCandidates(m, source)
		if len(locals) == 0 {
			continue
		}
		results = append(results, MethodResult{
			Method:    m.Name,
			Signature: m.Signature(),
			Line:      m.Line,
			Locals:    locals,
		})
	}
	return results
}

// local tracks the assignment count for one declared local variable.
type local struct {
	decl    *sitter.Node // the local_variable_declaration statement
	count   int
	isFinal bool
}

// counter accumulates per-name assignment counts within a single method body.
// Counting is keyed by name; when a field and a local share a name, field
// assignments after the local's declaration inflate the count, which only
// suppresses a candidate, never invents one.
type counter struct {
	source []byte
	method *sitter.Node
	locals map[string]*local
	order  []*sitter.Node // declaration statements in source order
}

func methodCandidates(m *java.Method, source []byte) []Candidate {
	c := &counter{
		source: source,
		method: m.Node,
		locals: make(map[string]*local),
	}
	c.walk(m.Body)

	// a declaration statement qualifies only if every variable it declares
	// is assigned exactly once, counting the initializer
	var candidates []Candidate
	for _, decl := range c.order {
		names := c.declaredNames(decl)
		ok := len(names) > 0
		for _, name := range names {
			l := c.locals[name]
			if l == nil || l.decl != decl || l.isFinal || l.count != 1 {
				ok = false
				break
			}
		}
		if ok {
			candidates = append(candidates, Candidate{
				Names:     names,
				Line:      decl.StartPoint().Row + 1,
				DeclStart: declInsertOffset(decl),
			})
		}
	}
	return candidates
}

func (c *counter) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration":
		// nested types have their own locals
		return

	case "local_variable_declaration":
		c.visitDeclaration(node)
		return

	case "assignment_expression":
		if left := node.ChildByFieldName("left"); left != nil && left.Type() == "identifier" {
			c.bump(parser.GetNodeText(left, c.source), node)
		} else {
			c.walk(node.ChildByFieldName("left"))
		}
		c.walk(node.ChildByFieldName("right"))
		return

	case "update_expression":
		for i := range int(node.NamedChildCount()) {
			child := node.NamedChild(i)
			if child.Type() == "identifier" {
				c.bump(parser.GetNodeText(child, c.source), node)
			} else {
				c.walk(child)
			}
		}
		return
	}

	for i := range int(node.NamedChildCount()) {
		c.walk(node.NamedChild(i))
	}
}

func (c *counter) visitDeclaration(decl *sitter.Node) {
	// variables of a for-statement header are loop control, not candidates
	if parent := decl.Parent(); parent != nil && parent.Type() == "for_statement" {
		c.walkInitializers(decl)
		return
	}

	isFinal := false
	for _, mod := range java.Modifiers(decl, c.source) {
		if mod.Name == java.ModFinal {
			isFinal = true
		}
	}

	registered := false
	for _, declarator := range parser.NamedChildrenOfType(decl, "variable_declarator") {
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := parser.GetNodeText(nameNode, c.source)

		count := 0
		if declarator.ChildByFieldName("value") != nil {
			count = 1
		}
		c.locals[name] = &local{decl: decl, count: count, isFinal: isFinal}
		registered = true
	}
	if registered {
		c.order = append(c.order, decl)
	}
	c.walkInitializers(decl)
}

// walkInitializers visits initializer expressions, which may themselves
// contain assignments to earlier locals.
func (c *counter) walkInitializers(decl *sitter.Node) {
	for _, declarator := range parser.NamedChildrenOfType(decl, "variable_declarator") {
		c.walk(declarator.ChildByFieldName("value"))
	}
}

// bump records one assignment to name. Assignments inside a loop body count
// as two: they happen an unknown number of times.
func (c *counter) bump(name string, at *sitter.Node) {
	l, ok := c.locals[name]
	if !ok {
		return
	}
	inc := 1
	if c.insideLoop(at) {
		inc = 2
	}
	l.count += inc
}

func (c *counter) insideLoop(node *sitter.Node) bool {
	for n := node.Parent(); n != nil && n != c.method; n = n.Parent() {
		switch n.Type() {
		case "for_statement", "enhanced_for_statement", "while_statement", "do_statement":
			return true
		}
	}
	return false
}

func (c *counter) declaredNames(decl *sitter.Node) []string {
	var names []string
	for _, declarator := range parser.NamedChildrenOfType(decl, "variable_declarator") {
		if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
			names = append(names, parser.GetNodeText(nameNode, c.source))
		}
	}
	return names
}

// declInsertOffset returns the byte offset where a final modifier belongs:
// after any existing modifiers, before the declared type.
func declInsertOffset(decl *sitter.Node) uint32 {
	if t := decl.ChildByFieldName("type"); t != nil {
		return t.StartByte()
	}
	return decl.StartByte()
}
