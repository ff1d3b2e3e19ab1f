// Package java builds a lightweight declaration model for Java classes from
// tree-sitter parse trees: class members with their modifiers, names, declared
// types and parameter signatures, plus the lexical scope tracking needed to
// tell shadowed locals apart from instance fields.
package java

import (
	"strings"

	"github.com/refit-dev/refit/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Modifier keyword names as they appear in source.
const (
	ModPublic    = "public"
	ModProtected = "protected"
	ModPrivate   = "private"
	ModStatic    = "static"
	ModFinal     = "final"
	ModAbstract  = "abstract"
)

// Modifier is a single modifier keyword with its byte range in the source.
type Modifier struct {
	Name  string
	Start uint32
	End   uint32
}

// Param is a declared method parameter.
type Param struct {
	Name string
	Type string
}

// Method is a method or constructor declared directly in a class body.
type Method struct {
	Name        string
	Params      []Param
	Variadic    bool
	Modifiers   []Modifier
	Constructor bool
	Line        uint32
	Node        *sitter.Node
	Body        *sitter.Node
}

// Has reports whether the method carries the given modifier keyword.
func (m *Method) Has(name string) bool {
	for _, mod := range m.Modifiers {
		if mod.Name == name {
			return true
		}
	}
	return false
}

// IsStatic reports whether the method is declared static.
func (m *Method) IsStatic() bool { return m.Has(ModStatic) }

// NonOverridable reports whether the method cannot be replaced by a subclass
// override, i.e. it is declared private or final.
func (m *Method) NonOverridable() bool {
	return m.Has(ModPrivate) || m.Has(ModFinal)
}

// Signature renders the declared parameter types, e.g. "(int,String)".
// Together with the name it identifies one overload.
func (m *Method) Signature() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Type)
	}
	b.WriteByte(')')
	return b.String()
}

// Field is one named variable from a field declaration.
type Field struct {
	Name   string
	Type   string
	Static bool
	Line   uint32
	Node   *sitter.Node
}

// Class is a class declaration with its directly declared members.
// Members of nested classes are not included.
type Class struct {
	Name          string
	HasSuperclass bool
	Fields        []Field
	Methods       []*Method
	Line          uint32
	Node          *sitter.Node
	Body          *sitter.Node
}

// Classes extracts all top-level class declarations from a parse result.
// Nested and inner classes are skipped entirely: their instance-data
// semantics (implicit outer-instance capture) are not modeled.
func Classes(result *parser.ParseResult) []*Class {
	var classes []*Class
	collectClasses(result.Tree.RootNode(), result.Source, false, &classes)
	return classes
}

func collectClasses(node *sitter.Node, source []byte, insideClass bool, out *[]*Class) {
	if node == nil {
		return
	}
	if node.Type() == "class_declaration" {
		if !insideClass {
			*out = append(*out, newClass(node, source))
		}
		insideClass = true
	}
	for i := range int(node.NamedChildCount()) {
		collectClasses(node.NamedChild(i), source, insideClass, out)
	}
}

func newClass(node *sitter.Node, source []byte) *Class {
	c := &Class{
		Node: node,
		Line: node.StartPoint().Row + 1,
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		c.Name = parser.GetNodeText(nameNode, source)
	}
	c.HasSuperclass = node.ChildByFieldName("superclass") != nil
	c.Body = node.ChildByFieldName("body")
	c.collectMembers(source)
	return c
}

// collectMembers walks the direct children of the class body. Nested type
// declarations are not descended into.
func (c *Class) collectMembers(source []byte) {
	if c.Body == nil {
		return
	}
	for i := range int(c.Body.NamedChildCount()) {
		member := c.Body.NamedChild(i)
		switch member.Type() {
		case "field_declaration":
			c.addFields(member, source)
		case "method_declaration":
			c.Methods = append(c.Methods, newMethod(member, source, false))
		case "constructor_declaration":
			c.Methods = append(c.Methods, newMethod(member, source, true))
		}
	}
}

func (c *Class) addFields(decl *sitter.Node, source []byte) {
	mods := Modifiers(decl, source)
	static := hasModifier(mods, ModStatic)
	typeName := parser.GetNodeText(decl.ChildByFieldName("type"), source)

	for _, declarator := range parser.NamedChildrenOfType(decl, "variable_declarator") {
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		c.Fields = append(c.Fields, Field{
			Name:   parser.GetNodeText(nameNode, source),
			Type:   typeName,
			Static: static,
			Line:   declarator.StartPoint().Row + 1,
			Node:   declarator,
		})
	}
}

func newMethod(node *sitter.Node, source []byte, constructor bool) *Method {
	m := &Method{
		Modifiers:   Modifiers(node, source),
		Constructor: constructor,
		Line:        node.StartPoint().Row + 1,
		Node:        node,
		Body:        node.ChildByFieldName("body"),
	}
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		m.Name = parser.GetNodeText(nameNode, source)
	}

	params := node.ChildByFieldName("parameters")
	if params == nil {
		return m
	}
	for i := range int(params.NamedChildCount()) {
		p := params.NamedChild(i)
		switch p.Type() {
		case "formal_parameter":
			m.Params = append(m.Params, Param{
				Name: parser.GetNodeText(p.ChildByFieldName("name"), source),
				Type: parser.GetNodeText(p.ChildByFieldName("type"), source),
			})
		case "spread_parameter":
			// varargs: last child is the variable_declarator
			param := Param{Type: parser.GetNodeText(p.ChildByFieldName("type"), source) + "..."}
			for _, d := range parser.NamedChildrenOfType(p, "variable_declarator") {
				param.Name = parser.GetNodeText(d.ChildByFieldName("name"), source)
			}
			m.Params = append(m.Params, param)
			m.Variadic = true
		}
	}
	return m
}

// Modifiers extracts the modifier keywords of a declaration node.
// Annotations inside the modifiers block are ignored.
func Modifiers(decl *sitter.Node, source []byte) []Modifier {
	var mods []Modifier
	for i := range int(decl.ChildCount()) {
		child := decl.Child(i)
		if child.Type() != "modifiers" {
			continue
		}
		for j := range int(child.ChildCount()) {
			tok := child.Child(j)
			switch tok.Type() {
			case ModPublic, ModProtected, ModPrivate, ModStatic, ModFinal, ModAbstract,
				"synchronized", "native", "strictfp", "transient", "volatile", "default", "sealed":
				mods = append(mods, Modifier{
					Name:  parser.GetNodeText(tok, source),
					Start: tok.StartByte(),
					End:   tok.EndByte(),
				})
			}
		}
	}
	return mods
}

func hasModifier(mods []Modifier, name string) bool {
	for _, m := range mods {
		if m.Name == name {
			return true
		}
	}
	return false
}
