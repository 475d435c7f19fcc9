// # internal/engine/parser/types.go
package parser

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Unit is one successfully parsed source file. The tree stays valid until
// Close is called; nodes obtained from it must not be used afterwards.
type Unit struct {
	Path   string // slash-separated, relative to the parsed directory
	Source []byte
	Tree   *sitter.Tree
}

func (u *Unit) Root() *sitter.Node {
	if u == nil || u.Tree == nil {
		return nil
	}
	return u.Tree.RootNode()
}

func (u *Unit) Close() {
	if u == nil || u.Tree == nil {
		return
	}
	u.Tree.Close()
	u.Tree = nil
}

// Diagnostic is a single syntax problem reported by the parser.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

func (d Diagnostic) String() string {
	if d.Line == 0 {
		return d.Message
	}
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Problem records why a file was excluded from extraction.
type Problem struct {
	File        string
	Diagnostics []Diagnostic
}

func (p Problem) String() string {
	parts := make([]string, 0, len(p.Diagnostics))
	for _, d := range p.Diagnostics {
		parts = append(parts, d.String())
	}
	return fmt.Sprintf("%s: %s", p.File, strings.Join(parts, ", "))
}

// ParseResult is the outcome of parsing one directory.
type ParseResult struct {
	Dir      string
	Files    []string
	Units    []*Unit
	Problems []Problem
}

// Close releases every parsed tree.
func (r *ParseResult) Close() {
	if r == nil {
		return
	}
	for _, u := range r.Units {
		u.Close()
	}
}
