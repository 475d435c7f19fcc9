package extract

import (
	"strings"

	"codeextract/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

var typeKinds = map[string]bool{
	"class_declaration":           true,
	"interface_declaration":       true,
	"enum_declaration":            true,
	"record_declaration":          true,
	"annotation_type_declaration": true,
}

type CollectOptions struct {
	IncludeConstructors bool
}

func (o CollectOptions) isDeclaration(kind string) bool {
	switch kind {
	case "method_declaration":
		return true
	case "constructor_declaration":
		return o.IncludeConstructors
	}
	return false
}

type frame struct {
	node      *sitter.Node
	typeIndex int
}

// Collect gathers every method-like declaration of unit in pre-order, at any
// nesting depth. The tree is only read.
func Collect(unit *parser.Unit, opts CollectOptions) *Collection {
	c := &Collection{Unit: unit}
	root := unit.Root()
	if root == nil {
		return c
	}

	stack := []frame{{node: root, typeIndex: -1}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		node := f.node
		kind := node.Kind()
		typeIndex := f.typeIndex

		switch {
		case typeKinds[kind]:
			if name := nameOf(node, unit.Source); name != "" {
				c.Types = append(c.Types, TypeDecl{
					Name:     name,
					Kind:     strings.TrimSuffix(kind, "_declaration"),
					Node:     node,
					Comments: attachedComments(node),
				})
				typeIndex = len(c.Types) - 1
			}
		case opts.isDeclaration(kind):
			if name := nameOf(node, unit.Source); name != "" {
				c.Declarations = append(c.Declarations, Declaration{
					Name:      name,
					Kind:      kind,
					Node:      node,
					Comments:  attachedComments(node),
					Body:      bodyOf(node),
					TypeIndex: typeIndex,
				})
			}
		}

		for i := int(node.NamedChildCount()) - 1; i >= 0; i-- {
			child := node.NamedChild(uint(i))
			if child == nil || isComment(child) {
				continue
			}
			stack = append(stack, frame{node: child, typeIndex: typeIndex})
		}
	}
	return c
}

func nameOf(node *sitter.Node, source []byte) string {
	return strings.TrimSpace(text(node.ChildByFieldName("name"), source))
}

func text(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start >= end || end > uint(len(source)) {
		return ""
	}
	return string(source[start:end])
}
