package java

import (
	"testing"

	"github.com/refit-dev/refit/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string) *parser.ParseResult {
	t.Helper()
	p := parser.New()
	t.Cleanup(p.Close)

	result, err := p.Parse([]byte(source), parser.LangJava, "Test.java")
	require.NoError(t, err)
	return result
}

func TestClasses_Members(t *testing.T) {
	result := parse(t, `
class A extends Base {
  private int a;
  private static String s;
  int x, y;

  A(int a) { this.a = a; }

  private int get() { return a; }

  public void set(int v) { a = v; }

  static int util() { return 0; }
}
`)

	classes := Classes(result)
	require.Len(t, classes, 1)

	c := classes[0]
	assert.Equal(t, "A", c.Name)
	assert.True(t, c.HasSuperclass)

	require.Len(t, c.Fields, 4)
	assert.Equal(t, "a", c.Fields[0].Name)
	assert.Equal(t, "int", c.Fields[0].Type)
	assert.False(t, c.Fields[0].Static)
	assert.Equal(t, "s", c.Fields[1].Name)
	assert.True(t, c.Fields[1].Static)
	assert.Equal(t, "x", c.Fields[2].Name)
	assert.Equal(t, "y", c.Fields[3].Name)

	require.Len(t, c.Methods, 4)
	ctor := c.Methods[0]
	assert.True(t, ctor.Constructor)
	assert.Equal(t, "A", ctor.Name)
	assert.Equal(t, "(int)", ctor.Signature())

	get := c.Methods[1]
	assert.Equal(t, "get", get.Name)
	assert.True(t, get.Has(ModPrivate))
	assert.True(t, get.NonOverridable())
	assert.Equal(t, "()", get.Signature())

	set := c.Methods[2]
	assert.Equal(t, "set", set.Name)
	assert.False(t, set.NonOverridable())
	assert.Equal(t, "(int)", set.Signature())

	util := c.Methods[3]
	assert.True(t, util.IsStatic())
}

func TestClasses_SkipsNested(t *testing.T) {
	result := parse(t, `
class Outer {
  private int a;

  class Inner {
    private int b;
    private int getB() { return b; }
  }

  static class Nested {
    private int c;
  }
}
`)

	classes := Classes(result)
	require.Len(t, classes, 1)

	c := classes[0]
	assert.Equal(t, "Outer", c.Name)
	// inner members must not leak into the outer class
	require.Len(t, c.Fields, 1)
	assert.Equal(t, "a", c.Fields[0].Name)
	assert.Empty(t, c.Methods)
}

func TestClasses_NoSuperclass(t *testing.T) {
	result := parse(t, `class A { }`)
	classes := Classes(result)
	require.Len(t, classes, 1)
	assert.False(t, classes[0].HasSuperclass)
}

func TestMethod_FinalModifierRange(t *testing.T) {
	source := `class A {
  final int f() { return 1; }
}
`
	result := parse(t, source)
	classes := Classes(result)
	require.Len(t, classes, 1)
	require.Len(t, classes[0].Methods, 1)

	m := classes[0].Methods[0]
	require.Len(t, m.Modifiers, 1)
	mod := m.Modifiers[0]
	assert.Equal(t, ModFinal, mod.Name)
	assert.Equal(t, "final", source[mod.Start:mod.End])
}

func TestMethod_Varargs(t *testing.T) {
	result := parse(t, `
class A {
  private void log(String fmt, Object... args) {}
}
`)
	classes := Classes(result)
	require.Len(t, classes[0].Methods, 1)

	m := classes[0].Methods[0]
	assert.True(t, m.Variadic)
	require.Len(t, m.Params, 2)
	assert.Equal(t, "Object...", m.Params[1].Type)
}

func TestScopeStack(t *testing.T) {
	s := NewScopeStack()
	assert.False(t, s.InScope("x"))

	s.Push()
	s.Declare("x")
	assert.True(t, s.InScope("x"))

	s.Push()
	s.Declare("y")
	assert.True(t, s.InScope("x"))
	assert.True(t, s.InScope("y"))

	s.Pop()
	assert.False(t, s.InScope("y"))
	assert.True(t, s.InScope("x"))

	s.Pop()
	assert.False(t, s.InScope("x"))
	assert.Equal(t, 0, s.Depth())
}
