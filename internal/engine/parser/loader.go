// # internal/engine/parser/loader.go
package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// Grammar binds a tree-sitter language to the file extension it parses.
type Grammar struct {
	Name      string
	Extension string
	Language  *sitter.Language
}

// JavaGrammar returns the Java grammar used for every source group.
func JavaGrammar() Grammar {
	return Grammar{
		Name:      "java",
		Extension: ".java",
		Language:  sitter.NewLanguage(tree_sitter_java.Language()),
	}
}
