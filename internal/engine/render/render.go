package render

import (
	"bytes"
	"codeextract/internal/core/errors"
	"codeextract/internal/engine/model"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

type Options struct {
	// Strict makes a reference to an unknown key fail the render instead of
	// producing an empty value.
	Strict bool
}

// Renderer evaluates one compiled template against render models. It is safe
// for concurrent use once built.
type Renderer struct {
	name string
	tmpl *template.Template
}

// Load reads and compiles the template at path.
func Load(path string, opts Options) (*Renderer, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		code := errors.CodeTemplate
		if !os.IsNotExist(err) {
			code = errors.CodeIO
		}
		return nil, errors.AddContext(errors.Wrap(err, code, "failed to read template"), errors.CtxPath, path)
	}
	r, err := Compile(filepath.Base(path), string(content), opts)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return r, nil
}

// Compile parses template text.
func Compile(name, text string, opts Options) (*Renderer, error) {
	missing := "missingkey=zero"
	if opts.Strict {
		missing = "missingkey=error"
	}

	tmpl, err := template.New(name).Option(missing).Funcs(Funcs()).Parse(text)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeTemplate, "failed to compile template")
	}
	return &Renderer{name: name, tmpl: tmpl}, nil
}

func (r *Renderer) Name() string {
	return r.name
}

// Render evaluates the template against m.
func (r *Renderer) Render(m *model.RenderModel) (string, error) {
	if m == nil {
		return "", errors.New(errors.CodeInternal, "render model is nil")
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, m.Data()); err != nil {
		return "", errors.Wrap(err, errors.CodeTemplate, fmt.Sprintf("failed to render %s", r.name))
	}
	return buf.String(), nil
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"indent": indent,
		"trim":   strings.TrimSpace,
		"lines":  lines,
		"join":   join,
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"default": func(fallback, value string) string {
			if value == "" {
				return fallback
			}
			return value
		},
	}
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	if s == "" || n <= 0 {
		return s
	}
	pad := strings.Repeat(" ", n)
	parts := strings.Split(s, "\n")
	for i, line := range parts {
		if line != "" {
			parts[i] = pad + line
		}
	}
	return strings.Join(parts, "\n")
}

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func join(sep string, items []string) string {
	return strings.Join(items, sep)
}
