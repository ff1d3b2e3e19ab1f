package staticize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/refit-dev/refit/internal/cache"
	"github.com/refit-dev/refit/pkg/java"
	"github.com/refit-dev/refit/pkg/parser"
)

// analyzeSource runs the full class pipeline on a snippet with exactly one
// top-level class and returns the eligible method names.
func analyzeSource(t *testing.T, source string) []string {
	t.Helper()
	p := parser.New()
	t.Cleanup(p.Close)

	result, err := p.Parse([]byte(source), parser.LangJava, "Test.java")
	require.NoError(t, err)

	classes := java.Classes(result)
	require.Len(t, classes, 1)

	eligible, err := AnalyzeClass(classes[0], result.Source)
	require.NoError(t, err)

	var names []string
	for _, m := range eligible.Methods() {
		names = append(names, m.Name+m.Signature())
	}
	return names
}

func TestAnalyzeClass_PureAndFieldReading(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int pure(int v) { return v * 2; }

  private int read() { return value; }

  private void write(int v) { value = v; }

  private int thisRead() { return this.value; }
}
`)
	assert.Equal(t, []string{"pure(int)"}, names)
}

func TestAnalyzeClass_TransitiveTaint(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int leaf() { return value; }

  private int middle() { return leaf(); }

  private int top() { return middle(); }

  private int clean() { return 7; }
}
`)
	assert.Equal(t, []string{"clean()"}, names)
}

func TestAnalyzeClass_OverridableNeverReported(t *testing.T) {
	names := analyzeSource(t, `
class A {
  public int pure(int v) { return v + 1; }
  protected int alsoPure() { return 2; }
  int packagePrivate() { return 3; }
}
`)
	assert.Empty(t, names)
}

func TestAnalyzeClass_CallingOverridableTaints(t *testing.T) {
	names := analyzeSource(t, `
class A {
  public int hook() { return 1; }

  private int caller() { return hook(); }

  private int bystander() { return 2; }
}
`)
	// hook is overridable: a subclass override may touch instance state,
	// so the caller must stay an instance method
	assert.Equal(t, []string{"bystander()"}, names)
}

func TestAnalyzeClass_ConstructorNeverCandidate(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  A() { value = init(); }

  private int init() { return 1; }
}
`)
	// being called from the constructor does not taint init: taint flows
	// from the accessed member to the accessor, and init touches nothing
	assert.Equal(t, []string{"init()"}, names)
}

func TestAnalyzeClass_ParameterShadowing(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int shadowed(int value) { return value; }

  private int explicit(int value) { return this.value; }
}
`)
	// the parameter hides the field; this.value bypasses shadowing
	assert.Equal(t, []string{"shadowed(int)"}, names)
}

func TestAnalyzeClass_LocalShadowingEndsWithBlock(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int insideOnly() {
    if (true) {
      int value = 1;
      return value;
    }
    return 0;
  }

  private int afterBlock() {
    if (true) {
      int value = 1;
    }
    return value;
  }
}
`)
	// the local's scope ends with its block, so afterBlock reads the field
	assert.Equal(t, []string{"insideOnly()"}, names)
}

func TestAnalyzeClass_InitializerBeforeBinding(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int selfInit() {
    int value = value + 1;
    return value;
  }
}
`)
	// the initializer is evaluated before the local exists, so it reads
	// the field
	assert.Empty(t, names)
}

func TestAnalyzeClass_SelfRecursion(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int fact(int n) {
    if (n <= 1) return 1;
    return n * fact(n - 1);
  }
}
`)
	assert.Equal(t, []string{"fact(int)"}, names)
}

func TestAnalyzeClass_MutualRecursion(t *testing.T) {
	clean := analyzeSource(t, `
class A {
  private boolean even(int n) { return n == 0 || odd(n - 1); }
  private boolean odd(int n) { return n != 0 && even(n - 1); }
}
`)
	assert.ElementsMatch(t, []string{"even(int)", "odd(int)"}, clean)

	tainted := analyzeSource(t, `
class A {
  private int state;
  private boolean even(int n) { return n == state || odd(n - 1); }
  private boolean odd(int n) { return n != 0 && even(n - 1); }
}
`)
	assert.Empty(t, tainted)
}

func TestAnalyzeClass_OverloadsByArity(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int size() { return 0; }

  private int size(int offset) { return value + offset; }

  private int caller() { return size(); }
}
`)
	// size() and size(int) are distinct nodes; the zero-argument call only
	// reaches the clean overload
	assert.ElementsMatch(t, []string{"size()", "caller()"}, names)
}

func TestAnalyzeClass_OverloadsSameArityConservative(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int conv(int v) { return v; }

  private int conv(long v) { return value; }

  private int caller() { return conv(1); }
}
`)
	// both overloads share the arity, so the call taints through conv(long)
	assert.Equal(t, []string{"conv(int)"}, names)
}

func TestAnalyzeClass_VarargsArity(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int sum(int first, int... rest) { return value; }

  private int caller() { return sum(1, 2, 3); }
}
`)
	assert.Empty(t, names)
}

func TestAnalyzeClass_InheritanceSentinel(t *testing.T) {
	withSuper := analyzeSource(t, `
class A extends Base {
  private int callsInherited() { return helper(); }
  private int readsInherited() { return this.hidden; }
  private int explicitSuper() { return super.hidden; }
  private int clean(int v) { return v; }
}
`)
	assert.Equal(t, []string{"clean(int)"}, withSuper)

	withoutSuper := analyzeSource(t, `
class A {
  private int callsUnknown() { return helper(); }
}
`)
	// no extends clause: an unresolved call cannot reach inherited instance
	// state, and unresolved names do not taint
	assert.Equal(t, []string{"callsUnknown()"}, withoutSuper)
}

func TestAnalyzeClass_InheritedFieldReadUnqualified(t *testing.T) {
	names := analyzeSource(t, `
class A extends Base {
  private int m() { return inheritedField; }
  private int clean(int v) { return v; }
}
`)
	// a bare name matching nothing cannot be proven local, and under an
	// extends clause it may be superclass instance state; marking m static
	// would not even compile
	assert.Equal(t, []string{"clean(int)"}, names)
}

func TestAnalyzeClass_ExtendsQualifiersAndStaticsStayClean(t *testing.T) {
	names := analyzeSource(t, `
class A extends Base {
  private static int LIMIT;

  private int viaStatics(int v) { return Math.max(v, LIMIT); }
}
`)
	// Math is a qualifier and LIMIT a declared static: neither can be an
	// inherited instance field
	assert.Equal(t, []string{"viaStatics(int)"}, names)
}

func TestAnalyzeClass_SuperInvocationAlwaysTaints(t *testing.T) {
	names := analyzeSource(t, `
class A extends Base {
  private int viaSuper() { return super.helper(); }
}
`)
	assert.Empty(t, names)
}

func TestAnalyzeClass_BareThisTaints(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private A self() { return this; }
  private int clean() { return 1; }
}
`)
	assert.Equal(t, []string{"clean()"}, names)
}

func TestAnalyzeClass_StaticMembersNeverTaint(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private static int COUNTER;
  private int instance;

  private static int bump() { return COUNTER++; }

  private int usesStatics() { return COUNTER + bump(); }
}
`)
	assert.Equal(t, []string{"usesStatics()"}, names)
}

func TestAnalyzeClass_FinalMethodCandidate(t *testing.T) {
	names := analyzeSource(t, `
class A {
  public final int pure(int v) { return v * 3; }
}
`)
	assert.Equal(t, []string{"pure(int)"}, names)
}

func TestAnalyzeClass_MethodReference(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private int read() { return value; }

  private java.util.function.IntSupplier refTainted() { return this::read; }

  private int clean() { return 5; }
}
`)
	assert.Equal(t, []string{"clean()"}, names)
}

func TestAnalyzeClass_LambdaParamsShadow(t *testing.T) {
	names := analyzeSource(t, `
class A {
  private int value;

  private java.util.function.IntUnaryOperator shadowed() {
    return value -> value + 1;
  }
}
`)
	assert.Equal(t, []string{"shadowed()"}, names)
}

func TestEligibleSet_Contains(t *testing.T) {
	p := parser.New()
	t.Cleanup(p.Close)

	result, err := p.Parse([]byte(`
class A {
  private int value;
  private int pure(int v) { return v; }
  private int read() { return value; }
}
`), parser.LangJava, "Test.java")
	require.NoError(t, err)

	class := java.Classes(result)[0]
	eligible, err := AnalyzeClass(class, result.Source)
	require.NoError(t, err)

	require.Len(t, class.Methods, 2)
	assert.True(t, eligible.Contains(class.Methods[0]))
	assert.False(t, eligible.Contains(class.Methods[1]))
}

func writeJava(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalyzer_Analyze(t *testing.T) {
	dir := t.TempDir()
	a := writeJava(t, dir, "A.java", `
class A {
  private int value;
  private int pure(int v) { return v; }
  private int read() { return value; }
}
`)
	b := writeJava(t, dir, "B.java", `
class B {
  private int nothingHere() { return state; }
  private int state;
}
`)

	an := New()
	defer an.Close()

	analysis, err := an.Analyze(context.Background(), []string{b, a})
	require.NoError(t, err)

	assert.Equal(t, 2, analysis.Summary.TotalFiles)
	assert.Equal(t, 1, analysis.Summary.TotalClasses)
	assert.Equal(t, 1, analysis.Summary.TotalCandidates)

	require.Len(t, analysis.Files, 1)
	assert.Equal(t, a, analysis.Files[0].Path)
	require.Len(t, analysis.Files[0].Classes, 1)
	cr := analysis.Files[0].Classes[0]
	assert.Equal(t, "A", cr.Class)
	require.Len(t, cr.Methods, 1)
	assert.Equal(t, "pure", cr.Methods[0].Name)
	assert.Equal(t, "(int)", cr.Methods[0].Signature)
}

func TestAnalyzer_MaxFileSize(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "A.java", `
class A {
  private int pure(int v) { return v; }
}
`)

	an := New(WithMaxFileSize(1))
	defer an.Close()

	analysis, err := an.Analyze(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Zero(t, analysis.Summary.TotalCandidates)
}

func TestAnalyzer_CachedResult(t *testing.T) {
	dir := t.TempDir()
	path := writeJava(t, dir, "A.java", `
class A {
  private int pure(int v) { return v; }
}
`)

	store, err := cache.New(filepath.Join(dir, "cache"), 1, true)
	require.NoError(t, err)

	for range 2 {
		an := New(WithCache(store))
		analysis, err := an.Analyze(context.Background(), []string{path})
		an.Close()
		require.NoError(t, err)
		assert.Equal(t, 1, analysis.Summary.TotalCandidates)
	}
}
