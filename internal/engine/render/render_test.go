package render

import (
	"os"
	"path/filepath"
	"testing"

	"codeextract/internal/core/errors"
	"codeextract/internal/engine/extract"
	"codeextract/internal/engine/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func sampleModel() *model.RenderModel {
	greeter := extract.TypeRecord{Name: "Greeter", SourceGroupID: "samples"}
	methods := []extract.MethodRecord{
		{
			Name:        "sayHello",
			Description: strPtr("Says hello\nto the world"),
			Body:        strPtr(`return "hi";`),
			Range: extract.Range{
				Start: extract.Position{Line: 2, Column: 5},
				End:   extract.Position{Line: 6, Column: 5},
			},
			TypeName: "Greeter",
			File:     "Greeter.java",
		},
		{
			Name:     "wave",
			TypeName: "Greeter",
			File:     "Greeter.java",
		},
	}
	return &model.RenderModel{
		Type:    greeter,
		Methods: methods,
		Types:   []model.TypeGroup{{Type: greeter, Methods: methods}},
	}
}

func TestRender_Fields(t *testing.T) {
	tmpl := `{{.type.name}} ({{.class.path}})
{{range .methods}}- {{.name}} @{{.range.start.line}}:{{.range.start.column}}-{{.range.end.line}}:{{.range.end.column}} [{{.description}}] {{.body}}
{{end}}`
	r, err := Compile("t", tmpl, Options{})
	require.NoError(t, err)

	out, err := r.Render(sampleModel())
	require.NoError(t, err)
	assert.Equal(t, "Greeter (samples)\n"+
		"- sayHello @2:5-6:5 [Says hello\nto the world] return \"hi\";\n"+
		"- wave @0:0-0:0 [] \n", out)
}

func TestRender_AbsentValuesAreFalsy(t *testing.T) {
	r, err := Compile("t", `{{range .methods}}{{.name}}:{{if .body}}body{{else}}none{{end}};{{end}}`, Options{})
	require.NoError(t, err)

	out, err := r.Render(sampleModel())
	require.NoError(t, err)
	assert.Equal(t, "sayHello:body;wave:none;", out)
}

func TestRender_UnknownKey(t *testing.T) {
	lenient, err := Compile("t", `[{{.type.nope}}]`, Options{})
	require.NoError(t, err)
	out, err := lenient.Render(sampleModel())
	require.NoError(t, err)
	assert.Equal(t, "[<no value>]", out)

	strict, err := Compile("t", `[{{.type.nope}}]`, Options{Strict: true})
	require.NoError(t, err)
	_, err = strict.Render(sampleModel())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTemplate))
}

func TestRender_Funcs(t *testing.T) {
	tmpl := `{{range .methods}}{{upper .name}}|{{default "n/a" .description | lower}}|{{indent 2 .body}}|{{join "," (lines .description)}}
{{end}}`
	r, err := Compile("t", tmpl, Options{})
	require.NoError(t, err)

	out, err := r.Render(sampleModel())
	require.NoError(t, err)
	assert.Equal(t, "SAYHELLO|says hello\nto the world|  return \"hi\";|Says hello,to the world\n"+
		"WAVE|n/a||\n", out)
}

func TestRender_PerTypeGrouping(t *testing.T) {
	r, err := Compile("t", `{{range .types}}{{.type.name}}={{len .methods}};{{end}}`, Options{})
	require.NoError(t, err)

	out, err := r.Render(sampleModel())
	require.NoError(t, err)
	assert.Equal(t, "Greeter=2;", out)
}

func TestRender_Deterministic(t *testing.T) {
	r, err := Compile("t", `{{range .methods}}{{.name}}{{.body}}{{end}}`, Options{})
	require.NoError(t, err)

	first, err := r.Render(sampleModel())
	require.NoError(t, err)
	second, err := r.Render(sampleModel())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_NilModel(t *testing.T) {
	r, err := Compile("t", `x`, Options{})
	require.NoError(t, err)
	_, err = r.Render(nil)
	assert.True(t, errors.IsCode(err, errors.CodeInternal))
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := Compile("t", `{{range .methods}}`, Options{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTemplate))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{.type.name}}`), 0o644))

	r, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "doc.tmpl", r.Name())

	_, err = Load(filepath.Join(dir, "missing.tmpl"), Options{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeTemplate))
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n\n  b", indent(2, "a\n\nb"))
	assert.Equal(t, "a", indent(0, "a"))
	assert.Equal(t, "", indent(4, ""))
}
