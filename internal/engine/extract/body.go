package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type statementSpan struct {
	start, end uint
	endRow     uint
}

// ExtractBody renders the declaration's direct statements, one per line, in
// their original text. Comments leading a statement stay with it, a comment
// trailing a statement's last line stays on that line, and comments after the
// last statement are dropped. Returns nil for bodyless declarations.
//
// With preserve unset, continuation lines are dedented by the indentation of
// the line each statement starts on.
func ExtractBody(d Declaration, source []byte, preserve bool) *string {
	if d.Body == nil {
		return nil
	}

	var spans []statementSpan
	var pendingStart uint
	pending := false
	for i := uint(0); i < d.Body.NamedChildCount(); i++ {
		child := d.Body.NamedChild(i)
		if child == nil {
			continue
		}
		if isComment(child) {
			if !pending && len(spans) > 0 && spans[len(spans)-1].endRow == child.StartPosition().Row {
				spans[len(spans)-1].end = child.EndByte()
				continue
			}
			if !pending {
				pendingStart = child.StartByte()
				pending = true
			}
			continue
		}

		start := child.StartByte()
		if pending {
			start = pendingStart
			pending = false
		}
		spans = append(spans, statementSpan{start: start, end: child.EndByte(), endRow: child.EndPosition().Row})
	}

	lines := make([]string, 0, len(spans))
	for _, s := range spans {
		stmt := string(source[s.start:s.end])
		if !preserve {
			stmt = dedent(stmt, lineIndent(source, s.start))
		}
		lines = append(lines, stmt)
	}
	body := strings.Join(lines, "\n")
	return &body
}

// lineIndent returns the whitespace between the start of offset's line and
// offset, or "" when other text precedes offset on that line.
func lineIndent(source []byte, offset uint) string {
	lineStart := offset
	for lineStart > 0 && source[lineStart-1] != '\n' {
		lineStart--
	}
	prefix := string(source[lineStart:offset])
	if strings.TrimLeft(prefix, " \t") != "" {
		return ""
	}
	return prefix
}

func dedent(stmt, indent string) string {
	if indent == "" || !strings.Contains(stmt, "\n") {
		return stmt
	}
	lines := strings.Split(stmt, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimPrefix(lines[i], indent)
	}
	return strings.Join(lines, "\n")
}

// bodyOf is the statement container of a declaration, if any.
func bodyOf(node *sitter.Node) *sitter.Node {
	return node.ChildByFieldName("body")
}
