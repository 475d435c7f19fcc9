package extract

import (
	"codeextract/internal/core/errors"
	"unicode/utf8"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ResolveSpan returns the declaration's range in the original source. The
// start moves back to the attached comment when there is one.
func ResolveSpan(d Declaration, source []byte) (Range, error) {
	if d.Node == nil || d.Node.EndByte() <= d.Node.StartByte() || d.Node.EndByte() > uint(len(source)) {
		return Range{}, errors.AddContext(
			errors.New(errors.CodeInternal, "declaration has no source position"),
			errors.CtxSymbol, d.Name,
		)
	}

	first := d.Node
	if len(d.Comments) > 0 {
		first = d.Comments[0]
	}
	return Range{
		Start: startPosition(first, source),
		End:   endPosition(d.Node, source),
	}, nil
}

func startPosition(node *sitter.Node, source []byte) Position {
	point := node.StartPosition()
	return Position{
		Line:   int(point.Row) + 1,
		Column: runeColumn(source, node.StartByte(), point.Column) + 1,
	}
}

// endPosition converts tree-sitter's exclusive end point into the inclusive
// position of the node's last character.
func endPosition(node *sitter.Node, source []byte) Position {
	point := node.EndPosition()
	return Position{
		Line:   int(point.Row) + 1,
		Column: runeColumn(source, node.EndByte(), point.Column),
	}
}

// runeColumn counts the runes between the start of the line and offset.
// Tree-sitter columns are byte based.
func runeColumn(source []byte, offset, byteColumn uint) int {
	if byteColumn > offset || offset > uint(len(source)) {
		return int(byteColumn)
	}
	return utf8.RuneCount(source[offset-byteColumn : offset])
}
