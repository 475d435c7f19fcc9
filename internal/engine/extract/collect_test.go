package extract

import (
	"testing"

	"codeextract/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, src string, opts CollectOptions) *Collection {
	t.Helper()
	p, err := parser.NewParser(parser.Options{})
	require.NoError(t, err)

	unit, problem := p.ParseSource("Test.java", []byte(src))
	require.Nil(t, problem, "unexpected parse problem")
	t.Cleanup(unit.Close)
	return Collect(unit, opts)
}

func names(c *Collection) []string {
	out := make([]string, 0, len(c.Declarations))
	for _, d := range c.Declarations {
		out = append(out, d.Name)
	}
	return out
}

func TestCollect_PreOrderAcrossNestedTypes(t *testing.T) {
	src := `class Outer {
  void a() {}
  class Inner {
    void b() {}
  }
  void c() {
    Runnable r = new Runnable() {
      public void run() {}
    };
  }
}
`
	c := collect(t, src, CollectOptions{})
	require.Equal(t, []string{"a", "b", "c", "run"}, names(c))

	typeNames := make([]string, 0, len(c.Types))
	for _, ty := range c.Types {
		typeNames = append(typeNames, ty.Name)
	}
	assert.Equal(t, []string{"Outer", "Inner"}, typeNames)

	want := []string{"Outer", "Inner", "Outer", "Outer"}
	for i, d := range c.Declarations {
		ty, ok := c.EnclosingType(d)
		require.True(t, ok, d.Name)
		assert.Equal(t, want[i], ty.Name, d.Name)
	}
}

func TestCollect_InterfacesEnumsAndRecords(t *testing.T) {
	src := `interface Shape {
  double area();
  default String label() { return "shape"; }
}
enum Color {
  RED;
  String lower() { return name().toLowerCase(); }
}
record Point(int x, int y) {
  int sum() { return x + y; }
}
`
	c := collect(t, src, CollectOptions{})
	assert.Equal(t, []string{"area", "label", "lower", "sum"}, names(c))

	kinds := make([]string, 0, len(c.Types))
	for _, ty := range c.Types {
		kinds = append(kinds, ty.Kind)
	}
	assert.Equal(t, []string{"interface", "enum", "record"}, kinds)
}

func TestCollect_Constructors(t *testing.T) {
	src := `class Box {
  Box() { this(1); }
  Box(int size) {}
  int size() { return 0; }
}
`
	assert.Equal(t, []string{"size"}, names(collect(t, src, CollectOptions{})))
	assert.Equal(t, []string{"Box", "Box", "size"}, names(collect(t, src, CollectOptions{IncludeConstructors: true})))
}

func TestCollect_EmptyTree(t *testing.T) {
	c := collect(t, "", CollectOptions{})
	assert.Empty(t, c.Declarations)
	assert.Empty(t, c.Types)
}

func TestCollect_NoMethods(t *testing.T) {
	c := collect(t, "class Data { int value; }\n", CollectOptions{})
	assert.Empty(t, c.Declarations)
	require.Len(t, c.Types, 1)
	assert.Equal(t, "Data", c.Types[0].Name)
}

func TestCollect_DoesNotMutateTree(t *testing.T) {
	src := "class A {\n  /** doc */\n  void m() { int x = 1; }\n}\n"
	c := collect(t, src, CollectOptions{})
	before := c.Unit.Root().ToSexp()

	Collect(c.Unit, CollectOptions{})
	assert.Equal(t, before, c.Unit.Root().ToSexp())
	assert.Equal(t, src, string(c.Unit.Source))
}

func TestEnclosingType_OutOfRange(t *testing.T) {
	c := &Collection{}
	_, ok := c.EnclosingType(Declaration{TypeIndex: -1})
	assert.False(t, ok)
	_, ok = c.EnclosingType(Declaration{TypeIndex: 3})
	assert.False(t, ok)
}
