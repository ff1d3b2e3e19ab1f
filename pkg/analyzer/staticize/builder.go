package staticize

import (
	"github.com/refit-dev/refit/pkg/java"
	"github.com/refit-dev/refit/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// BuildGraph constructs the instance-data usage graph for one class.
//
// One node is registered per instance field and per instance method
// (constructors included; they participate as callers but are never
// staticization candidates). Then every instance method body is walked,
// adding an edge from each instance field it reads and each same-class
// instance method it calls to the method itself. References that resolve
// only outside the class (super accesses, this-qualified reads of unknown
// names, unresolved bare names and unqualified calls under an extends
// clause) are routed through the sentinel node.
//
// Static members never receive nodes or edges: reads of them do not taint.
func BuildGraph(class *java.Class, source []byte) *Graph {
	b := &builder{
		source:        source,
		graph:         NewGraph(),
		fields:        make(map[string]*java.Field),
		staticFields:  make(map[string]bool),
		methods:       make(map[string][]*java.Method),
		staticMethods: make(map[string]bool),
		hasSuper:      class.HasSuperclass,
	}

	for i := range class.Fields {
		f := &class.Fields[i]
		if f.Static {
			b.staticFields[f.Name] = true
			continue
		}
		b.graph.AddFieldNode(f)
		b.fields[f.Name] = f
	}
	for _, m := range class.Methods {
		if m.IsStatic() {
			b.staticMethods[m.Name] = true
			continue
		}
		b.graph.AddMethodNode(m)
		b.methods[m.Name] = append(b.methods[m.Name], m)
	}

	for _, m := range class.Methods {
		if m.IsStatic() || m.Body == nil {
			continue
		}
		b.walkMethod(m)
	}

	return b.graph
}

type builder struct {
	source        []byte
	graph         *Graph
	fields        map[string]*java.Field
	staticFields  map[string]bool
	methods       map[string][]*java.Method
	staticMethods map[string]bool
	hasSuper      bool

	// per-method walk state
	current   *java.Method
	currentID NodeID
	scopes    *java.ScopeStack
}

func (b *builder) walkMethod(m *java.Method) {
	b.current = m
	b.currentID = MethodID(m)
	b.scopes = java.NewScopeStack()

	b.scopes.Push()
	for _, p := range m.Params {
		b.scopes.Declare(p.Name)
	}
	b.walk(m.Body)
	b.scopes.Pop()
}

func (b *builder) text(node *sitter.Node) string {
	return parser.GetNodeText(node, b.source)
}

// walk traverses one method body. Scope-introducing constructs push and pop
// lexical scopes so field-shadowing locals and parameters are resolved
// correctly; nested type declarations are not descended into.
func (b *builder) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Type() {
	case "class_declaration", "interface_declaration", "enum_declaration",
		"record_declaration", "annotation_type_declaration":
		return

	case "block", "switch_block", "for_statement", "catch_clause":
		b.scopes.Push()
		b.walkChildren(node)
		b.scopes.Pop()
		return

	case "enhanced_for_statement":
		// the loop variable is not visible in the iterated expression
		b.scopes.Push()
		b.walk(node.ChildByFieldName("value"))
		b.scopes.Declare(b.text(node.ChildByFieldName("name")))
		b.walk(node.ChildByFieldName("body"))
		b.scopes.Pop()
		return

	case "lambda_expression":
		b.scopes.Push()
		b.declareLambdaParams(node.ChildByFieldName("parameters"))
		b.walk(node.ChildByFieldName("body"))
		b.scopes.Pop()
		return

	case "local_variable_declaration":
		// initializers are evaluated before the name is bound, so a
		// field read in "int x = x;" still taints
		for _, declarator := range parser.NamedChildrenOfType(node, "variable_declarator") {
			b.walk(declarator.ChildByFieldName("value"))
			b.scopes.Declare(b.text(declarator.ChildByFieldName("name")))
		}
		return

	case "formal_parameter", "spread_parameter", "catch_formal_parameter":
		b.declareParameter(node)
		return

	case "field_access":
		b.visitFieldAccess(node)
		return

	case "method_invocation":
		b.visitInvocation(node)
		return

	case "method_reference":
		b.visitMethodReference(node)
		return

	case "identifier":
		b.visitIdentifier(node)
		return

	case "this", "super":
		// a bare receiver expression (return this, super.x handled above)
		// pins the method to the instance
		b.graph.AddEdge(SentinelID, b.currentID)
		return
	}

	b.walkChildren(node)
}

func (b *builder) walkChildren(node *sitter.Node) {
	for i := range int(node.NamedChildCount()) {
		b.walk(node.NamedChild(i))
	}
}

func (b *builder) declareParameter(node *sitter.Node) {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		b.scopes.Declare(b.text(nameNode))
		return
	}
	for _, d := range parser.NamedChildrenOfType(node, "variable_declarator") {
		b.scopes.Declare(b.text(d.ChildByFieldName("name")))
	}
}

func (b *builder) declareLambdaParams(params *sitter.Node) {
	if params == nil {
		return
	}
	switch params.Type() {
	case "identifier":
		b.scopes.Declare(b.text(params))
	case "formal_parameters", "inferred_parameters":
		for i := range int(params.NamedChildCount()) {
			p := params.NamedChild(i)
			switch p.Type() {
			case "identifier":
				b.scopes.Declare(b.text(p))
			case "formal_parameter", "spread_parameter":
				b.declareParameter(p)
			}
		}
	}
}

// visitIdentifier handles a bare name occurrence in expression position.
// A name shadowed by a local or parameter never taints; an unshadowed name
// matching an instance field adds a field -> method edge. A name matching
// nothing is harmless in a class without a superclass, but under an
// extends clause it may be a superclass instance field, so it is routed
// through the sentinel unless its position rules that out (declared
// statics, qualifier names, case labels).
func (b *builder) visitIdentifier(node *sitter.Node) {
	if p := node.Parent(); p != nil {
		switch p.Type() {
		case "labeled_statement", "break_statement", "continue_statement":
			return // statement labels, not value reads
		}
	}
	name := b.text(node)
	if b.scopes.InScope(name) {
		return
	}
	if f, ok := b.fields[name]; ok {
		b.graph.AddEdge(FieldID(f), b.currentID)
		return
	}
	if b.hasSuper && !b.staticFields[name] && !sentinelExempt(node) {
		b.graph.AddEdge(SentinelID, b.currentID)
	}
}

// sentinelExempt reports identifier positions where an unresolved bare name
// cannot be an inherited instance-field read: the receiver of a qualified
// access or method reference (almost always a type name, as in
// Math.max(...)), and switch case labels, which must be constants.
func sentinelExempt(node *sitter.Node) bool {
	p := node.Parent()
	if p == nil {
		return true
	}
	switch p.Type() {
	case "switch_label":
		return true
	case "field_access", "method_invocation":
		obj := p.ChildByFieldName("object")
		return obj != nil && obj.StartByte() == node.StartByte()
	case "method_reference":
		return p.NamedChildCount() > 0 && p.NamedChild(0).StartByte() == node.StartByte()
	}
	return false
}

// visitFieldAccess handles qualified accesses. this.x resolves against the
// declared fields (shadowing does not apply to an explicit receiver);
// super.x is always an inherited instance member. Any other receiver is
// walked as an ordinary expression and the member name is ignored.
func (b *builder) visitFieldAccess(node *sitter.Node) {
	object := node.ChildByFieldName("object")
	if object == nil {
		return
	}
	switch object.Type() {
	case "this":
		name := b.text(node.ChildByFieldName("field"))
		if f, ok := b.fields[name]; ok {
			b.graph.AddEdge(FieldID(f), b.currentID)
		} else if b.hasSuper {
			b.graph.AddEdge(SentinelID, b.currentID)
		}
	case "super":
		b.graph.AddEdge(SentinelID, b.currentID)
	default:
		b.walk(object)
	}
}

// visitInvocation handles call expressions. Unqualified and this-qualified
// calls are resolved against the class's instance methods by name and
// arity; when several overloads share an arity, edges go to all of them.
// Direct self-recursion adds no edge. Calls that resolve to a static
// method of the class never taint. Unresolved calls under an extends
// clause are routed through the sentinel.
func (b *builder) visitInvocation(node *sitter.Node) {
	object := node.ChildByFieldName("object")
	args := node.ChildByFieldName("arguments")

	qualified := object != nil && object.Type() != "this"
	if qualified && object.Type() == "super" {
		b.graph.AddEdge(SentinelID, b.currentID)
		b.walk(args)
		return
	}
	if qualified {
		b.walk(object)
		b.walk(args)
		return
	}

	name := b.text(node.ChildByFieldName("name"))
	arity := parser.CountArguments(args)

	targets := b.resolveCall(name, arity)
	switch {
	case len(targets) > 0:
		for _, callee := range targets {
			calleeID := MethodID(callee)
			if calleeID == b.currentID {
				continue // direct self-recursion adds no reachable state
			}
			b.graph.AddEdge(calleeID, b.currentID)
		}
	case b.staticMethods[name]:
		// same-class static call, never taints
	case b.hasSuper:
		b.graph.AddEdge(SentinelID, b.currentID)
	}

	b.walk(args)
}

// visitMethodReference handles this::m and super::m. Without argument types
// the referenced overload cannot be narrowed, so every same-name instance
// method taints.
func (b *builder) visitMethodReference(node *sitter.Node) {
	if node.NamedChildCount() == 0 {
		return
	}
	receiver := node.NamedChild(0)
	switch receiver.Type() {
	case "this":
		name := ""
		for i := range int(node.ChildCount()) {
			child := node.Child(i)
			if child.Type() == "identifier" {
				name = b.text(child)
			}
		}
		if candidates, ok := b.methods[name]; ok {
			for _, callee := range candidates {
				calleeID := MethodID(callee)
				if calleeID != b.currentID {
					b.graph.AddEdge(calleeID, b.currentID)
				}
			}
		} else if !b.staticMethods[name] && b.hasSuper {
			b.graph.AddEdge(SentinelID, b.currentID)
		}
	case "super":
		b.graph.AddEdge(SentinelID, b.currentID)
	default:
		b.walk(receiver)
	}
}

// resolveCall returns the instance-method overloads matching a call by name
// and argument count, accounting for varargs.
func (b *builder) resolveCall(name string, arity int) []*java.Method {
	var targets []*java.Method
	for _, m := range b.methods[name] {
		if len(m.Params) == arity {
			targets = append(targets, m)
			continue
		}
		if m.Variadic && arity >= len(m.Params)-1 {
			targets = append(targets, m)
		}
	}
	return targets
}
