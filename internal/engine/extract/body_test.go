package extract

import (
	"testing"

	"codeextract/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const commentedBody = `class A {
    void m() {
        // make it
        int a = 1;
        if (a > 0) {
            a++;
        } // done
        // orphan
    }
}
`

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		preserve bool
		want     *string
	}{
		{
			name:     "abstract method has no body",
			src:      "abstract class A {\n  abstract void m();\n}\n",
			preserve: true,
			want:     nil,
		},
		{
			name:     "interface method has no body",
			src:      "interface A {\n  void m();\n}\n",
			preserve: true,
			want:     nil,
		},
		{
			name:     "empty block is present",
			src:      "class A {\n  void m() {}\n}\n",
			preserve: true,
			want:     strPtr(""),
		},
		{
			name:     "one statement per line",
			src:      "class A {\n  int m() {\n    int a = 1;   int b = 2;\n    return a + b;\n  }\n}\n",
			preserve: true,
			want:     strPtr("int a = 1;\nint b = 2;\nreturn a + b;"),
		},
		{
			name:     "original layout and comments",
			src:      commentedBody,
			preserve: true,
			want:     strPtr("// make it\n        int a = 1;\nif (a > 0) {\n            a++;\n        } // done"),
		},
		{
			name:     "dedented layout",
			src:      commentedBody,
			preserve: false,
			want:     strPtr("// make it\nint a = 1;\nif (a > 0) {\n    a++;\n} // done"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := collect(t, tc.src, CollectOptions{})
			require.Len(t, c.Declarations, 1)

			got := ExtractBody(c.Declarations[0], c.Unit.Source, tc.preserve)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestResolveSpan(t *testing.T) {
	t.Run("without comment starts at signature", func(t *testing.T) {
		c := collect(t, "class A {\n  @Deprecated\n  void m() {\n  }\n}\n", CollectOptions{})
		require.Len(t, c.Declarations, 1)

		span, err := ResolveSpan(c.Declarations[0], c.Unit.Source)
		require.NoError(t, err)
		assert.Equal(t, Range{Start: Position{Line: 2, Column: 3}, End: Position{Line: 4, Column: 3}}, span)
	})

	t.Run("with comment starts at comment", func(t *testing.T) {
		c := collect(t, "class A {\n    // why\n    void m() {}\n}\n", CollectOptions{})
		require.Len(t, c.Declarations, 1)

		span, err := ResolveSpan(c.Declarations[0], c.Unit.Source)
		require.NoError(t, err)
		assert.Equal(t, Position{Line: 2, Column: 5}, span.Start)
		assert.Equal(t, Position{Line: 3, Column: 15}, span.End)
	})

	t.Run("comment before a blank line does not move the start", func(t *testing.T) {
		c := collect(t, "class A {\n    // ---- helpers ----\n\n    void m() {}\n}\n", CollectOptions{})
		require.Len(t, c.Declarations, 1)
		assert.Empty(t, c.Declarations[0].Comments)

		span, err := ResolveSpan(c.Declarations[0], c.Unit.Source)
		require.NoError(t, err)
		assert.Equal(t, Range{Start: Position{Line: 4, Column: 5}, End: Position{Line: 4, Column: 15}}, span)
	})

	t.Run("columns count runes", func(t *testing.T) {
		c := collect(t, "class A { /* é */ void m() {} }\n", CollectOptions{})
		require.Len(t, c.Declarations, 1)

		span, err := ResolveSpan(c.Declarations[0], c.Unit.Source)
		require.NoError(t, err)
		assert.Equal(t, Position{Line: 1, Column: 11}, span.Start)
		assert.Equal(t, Position{Line: 1, Column: 29}, span.End)
	})

	t.Run("missing node fails", func(t *testing.T) {
		_, err := ResolveSpan(Declaration{Name: "ghost"}, nil)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.CodeInternal))
	})
}

func TestRuneColumn(t *testing.T) {
	src := []byte("é = x")
	assert.Equal(t, 4, runeColumn(src, 5, 5))
	assert.Equal(t, 0, runeColumn(src, 0, 0))
	assert.Equal(t, 9, runeColumn(src, 2, 9), "inconsistent input falls back to the byte column")
}

func TestMethodRecord_Absences(t *testing.T) {
	c := collect(t, "interface A {\n  void m();\n}\n", CollectOptions{})
	require.Len(t, c.Declarations, 1)

	record, err := c.MethodRecord(c.Declarations[0], RecordOptions{PreserveLayout: true})
	require.NoError(t, err)
	assert.Nil(t, record.Description)
	assert.Nil(t, record.Body)
	assert.Equal(t, "A", record.TypeName)
	assert.Equal(t, "Test.java", record.File)
}
