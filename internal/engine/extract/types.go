package extract

import (
	"fmt"

	"codeextract/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Position is a 1-based line and rune column in the original source.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range spans Start to End inclusive; End points at the last character.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// MethodRecord is the immutable projection of one method declaration.
// Description and Body are nil when the declaration has no comment or no body.
type MethodRecord struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Body        *string `json:"body,omitempty"`
	Range       Range   `json:"range"`
	TypeName    string  `json:"type"`
	File        string  `json:"file"`
}

// TypeRecord describes the type a group of methods belongs to.
type TypeRecord struct {
	Name          string  `json:"name"`
	Description   *string `json:"description,omitempty"`
	SourceGroupID string  `json:"path"`
}

// TypeDecl is a named type declaration found while collecting.
type TypeDecl struct {
	Name     string
	Kind     string
	Node     *sitter.Node
	Comments []*sitter.Node
}

// Declaration is one method-like node. The enclosing type is a lookup into
// the owning Collection's Types table; TypeIndex is -1 when none was found.
type Declaration struct {
	Name      string
	Kind      string
	Node      *sitter.Node
	Comments  []*sitter.Node
	Body      *sitter.Node
	TypeIndex int
}

// Collection holds every declaration of one parsed unit in document order.
// It borrows the unit's tree and is invalid once the unit is closed.
type Collection struct {
	Unit         *parser.Unit
	Types        []TypeDecl
	Declarations []Declaration
}

// EnclosingType resolves the declaration's type through the type table.
func (c *Collection) EnclosingType(d Declaration) (TypeDecl, bool) {
	if d.TypeIndex < 0 || d.TypeIndex >= len(c.Types) {
		return TypeDecl{}, false
	}
	return c.Types[d.TypeIndex], true
}
