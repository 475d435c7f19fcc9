// # internal/engine/parser/parser.go
package parser

import (
	"codeextract/internal/core/errors"
	"codeextract/internal/shared/observability"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

const maxDiagnostics = 10

type Options struct {
	// Recursive parses the whole directory tree instead of its direct children.
	Recursive bool
	// Exclude holds glob patterns matched against the relative path and the base name.
	Exclude []string
}

// Parser turns directories of Java sources into tree-sitter trees. It is safe
// for concurrent use.
type Parser struct {
	grammar   Grammar
	pool      *ParserPool
	recursive bool
	exclude   []glob.Glob
}

func NewParser(opts Options) (*Parser, error) {
	compiled := make([]glob.Glob, 0, len(opts.Exclude))
	for _, pattern := range opts.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeValidation, fmt.Sprintf("invalid exclude pattern %q", pattern))
		}
		compiled = append(compiled, g)
	}

	grammar := JavaGrammar()
	return &Parser{
		grammar:   grammar,
		pool:      NewParserPool(grammar.Language),
		recursive: opts.Recursive,
		exclude:   compiled,
	}, nil
}

// ParseDir parses every matching file in dir. Files with syntax errors are
// reported in ParseResult.Problems and left out of ParseResult.Units; only
// I/O failures are returned as errors. Callers must Close the result.
func (p *Parser) ParseDir(ctx context.Context, dir string) (*ParseResult, error) {
	files, err := p.Discover(dir)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Dir: dir, Files: files}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			result.Close()
			return nil, err
		}

		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			result.Close()
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "read source file"), errors.CtxFile, rel)
		}

		unit, problem := p.ParseSource(rel, content)
		if problem != nil {
			result.Problems = append(result.Problems, *problem)
			continue
		}
		result.Units = append(result.Units, unit)
	}
	return result, nil
}

// ParseSource parses one file's content. Exactly one of the results is non-nil.
func (p *Parser) ParseSource(rel string, content []byte) (*Unit, *Problem) {
	start := time.Now()
	sp := p.pool.Get()
	tree := sp.Parse(content, nil)
	p.pool.Put(sp)
	observability.ParsingDuration.WithLabelValues(p.grammar.Name).Observe(time.Since(start).Seconds())

	if tree == nil {
		observability.ParseFailuresTotal.Inc()
		return nil, &Problem{File: rel, Diagnostics: []Diagnostic{{Message: "parser produced no tree"}}}
	}

	root := tree.RootNode()
	if root.HasError() {
		diagnostics := collectDiagnostics(root, content)
		tree.Close()
		observability.ParseFailuresTotal.Inc()
		return nil, &Problem{File: rel, Diagnostics: diagnostics}
	}

	observability.FilesParsedTotal.Inc()
	return &Unit{Path: rel, Source: content, Tree: tree}, nil
}

// Discover lists the relative, slash-separated paths of the regular source
// files in dir, sorted.
func (p *Parser) Discover(dir string) ([]string, error) {
	// doublestar swallows read errors, so the root is checked up front.
	if _, err := os.ReadDir(dir); err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "list source directory"), errors.CtxPath, dir)
	}

	pattern := "*" + p.grammar.Extension
	if p.recursive {
		pattern = "**/" + pattern
	}

	fsys := os.DirFS(dir)
	var files []string
	err := doublestar.GlobWalk(fsys, pattern, func(rel string, d fs.DirEntry) error {
		if !isRegular(fsys, rel, d) || p.excluded(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, errors.AddContext(errors.Wrap(err, errors.CodeIO, "walk source directory"), errors.CtxPath, dir)
	}
	sort.Strings(files)
	return files, nil
}

func (p *Parser) excluded(rel string) bool {
	base := path.Base(rel)
	for _, g := range p.exclude {
		if g.Match(rel) || g.Match(base) {
			return true
		}
	}
	return false
}

func isRegular(fsys fs.FS, rel string, d fs.DirEntry) bool {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := fs.Stat(fsys, rel)
		return err == nil && info.Mode().IsRegular()
	}
	return d.Type().IsRegular()
}

// collectDiagnostics reports ERROR and MISSING nodes in document order.
func collectDiagnostics(root *sitter.Node, source []byte) []Diagnostic {
	var out []Diagnostic
	stack := []*sitter.Node{root}
	for len(stack) > 0 && len(out) < maxDiagnostics {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil || !node.HasError() {
			continue
		}

		pos := node.StartPosition()
		switch {
		case node.IsMissing():
			out = append(out, Diagnostic{
				Line:    int(pos.Row) + 1,
				Column:  int(pos.Column) + 1,
				Message: fmt.Sprintf("missing %q", node.Kind()),
			})
			continue
		case node.IsError():
			out = append(out, Diagnostic{
				Line:    int(pos.Row) + 1,
				Column:  int(pos.Column) + 1,
				Message: fmt.Sprintf("unexpected %q", snippet(node, source)),
			})
			continue
		}

		for i := int(node.ChildCount()) - 1; i >= 0; i-- {
			stack = append(stack, node.Child(uint(i)))
		}
	}
	if len(out) == 0 {
		out = append(out, Diagnostic{Message: "syntax error"})
	}
	return out
}

func snippet(node *sitter.Node, source []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if start >= end || end > uint(len(source)) {
		return ""
	}
	text := string(source[start:end])
	if len(text) > 40 {
		text = text[:40] + "..."
	}
	return text
}
