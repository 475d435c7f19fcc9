package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// newlineSentinel stands in for line breaks while whitespace is collapsed.
// It contains no whitespace, so strings.Fields keeps it glued to its neighbours.
const newlineSentinel = "\x00NL\x00"

func isComment(node *sitter.Node) bool {
	switch node.Kind() {
	case "block_comment", "line_comment", "comment":
		return true
	}
	return false
}

func isLineComment(node *sitter.Node) bool {
	return node.Kind() == "line_comment"
}

// attachedComments returns the comment block directly preceding node, in
// source order. A block comment attaches on its own; consecutive line
// comments on adjacent lines attach together. A comment that trails code on
// the same line belongs to that code, not to node, and a comment followed by
// a blank line is an orphan.
func attachedComments(node *sitter.Node) []*sitter.Node {
	var comments []*sitter.Node
	cur := node
	for {
		prev := cur.PrevNamedSibling()
		if prev == nil || !isComment(prev) || trailsCode(prev) {
			break
		}
		if len(comments) == 0 {
			if prev.EndPosition().Row+1 < node.StartPosition().Row {
				break
			}
		} else {
			first := comments[0]
			if !isLineComment(prev) || !isLineComment(first) {
				break
			}
			if prev.EndPosition().Row+1 != first.StartPosition().Row {
				break
			}
		}
		comments = append([]*sitter.Node{prev}, comments...)
		if !isLineComment(prev) {
			break
		}
		cur = prev
	}
	return comments
}

func trailsCode(comment *sitter.Node) bool {
	prev := comment.PrevNamedSibling()
	if prev == nil || isComment(prev) {
		return false
	}
	return prev.EndPosition().Row == comment.StartPosition().Row
}

// CommentContent returns the text of a comment block with its markers
// stripped: "//", "/*", "/**", "*/" and the leading "*" gutter of block
// comment lines. Returns nil when there is no comment.
func CommentContent(comments []*sitter.Node, source []byte) *string {
	if len(comments) == 0 {
		return nil
	}
	parts := make([]string, 0, len(comments))
	for _, c := range comments {
		raw := strings.ReplaceAll(text(c, source), "\r", "")
		if isLineComment(c) || strings.HasPrefix(raw, "//") {
			parts = append(parts, strings.TrimPrefix(raw, "//"))
			continue
		}
		parts = append(parts, blockContent(raw))
	}
	content := strings.Join(parts, "\n")
	return &content
}

func blockContent(raw string) string {
	switch {
	case strings.HasPrefix(raw, "/**"):
		raw = raw[3:]
	case strings.HasPrefix(raw, "/*"):
		raw = raw[2:]
	}
	raw = strings.TrimSuffix(raw, "*/")

	lines := strings.Split(raw, "\n")
	for i := 1; i < len(lines); i++ {
		trimmed := strings.TrimLeft(lines[i], " \t")
		if strings.HasPrefix(trimmed, "*") {
			lines[i] = trimmed[1:]
		}
	}
	return strings.Join(lines, "\n")
}

// NormalizeComment collapses runs of whitespace within each line to single
// spaces while keeping every line break. Leading and trailing blank lines are
// dropped. Normalizing an already normalized string returns it unchanged.
func NormalizeComment(content *string) *string {
	if content == nil {
		return nil
	}
	s := strings.ReplaceAll(*content, "\n", newlineSentinel)
	s = strings.Join(strings.Fields(s), " ")
	s = strings.ReplaceAll(s, newlineSentinel, "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Trim(strings.Join(lines, "\n"), "\n")
	return &s
}
