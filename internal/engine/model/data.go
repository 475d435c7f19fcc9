package model

import "codeextract/internal/engine/extract"

// Data converts the model into the mapping handed to templates. Absent
// descriptions and bodies become empty strings.
//
//	type     {name, description, path}   (also exposed as "class")
//	methods  [{name, description, body, range{start,end{line,column}}, type, file}]
//	types    [{type, methods}]
func (m *RenderModel) Data() map[string]any {
	typ := typeData(m.Type)

	types := make([]map[string]any, 0, len(m.Types))
	for _, g := range m.Types {
		types = append(types, map[string]any{
			"type":    typeData(g.Type),
			"methods": methodsData(g.Methods),
		})
	}

	return map[string]any{
		"type":    typ,
		"class":   typ,
		"methods": methodsData(m.Methods),
		"types":   types,
	}
}

func typeData(t extract.TypeRecord) map[string]any {
	return map[string]any{
		"name":        t.Name,
		"description": deref(t.Description),
		"path":        t.SourceGroupID,
	}
}

func methodsData(records []extract.MethodRecord) []map[string]any {
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]any{
			"name":        r.Name,
			"description": deref(r.Description),
			"body":        deref(r.Body),
			"range": map[string]any{
				"start": positionData(r.Range.Start),
				"end":   positionData(r.Range.End),
			},
			"type": r.TypeName,
			"file": r.File,
		})
	}
	return out
}

func positionData(p extract.Position) map[string]any {
	return map[string]any{"line": p.Line, "column": p.Column}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
