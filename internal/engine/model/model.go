package model

import (
	"codeextract/internal/core/errors"
	"codeextract/internal/engine/extract"
	stderrors "errors"
	"fmt"
)

// ErrNoDeclarations reports a source group without any method declaration.
var ErrNoDeclarations = stderrors.New("no method declarations found")

// TypeGroup pairs one enclosing type with its own methods.
type TypeGroup struct {
	Type    extract.TypeRecord
	Methods []extract.MethodRecord
}

// RenderModel is what the template sees for one source group. Type is the
// enclosing type of the first declaration and Methods holds every method of
// the group; Types breaks the same methods down per enclosing type.
type RenderModel struct {
	Type    extract.TypeRecord
	Methods []extract.MethodRecord
	Types   []TypeGroup
}

type Options struct {
	PreserveLayout bool
}

// Assemble builds the render model of groupID from the collections of its
// parsed units, in order.
func Assemble(groupID string, collections []*extract.Collection, opts Options) (*RenderModel, error) {
	m := &RenderModel{}
	index := make(map[string]int)
	recordOpts := extract.RecordOptions{PreserveLayout: opts.PreserveLayout}

	for _, c := range collections {
		for _, d := range c.Declarations {
			typeDecl, ok := c.EnclosingType(d)
			if !ok {
				err := errors.New(errors.CodeMalformedTree, fmt.Sprintf("found no enclosing type for method %q", d.Name))
				err = errors.AddContext(err, errors.CtxFile, c.Unit.Path)
				return nil, errors.AddContext(err, errors.CtxGroup, groupID)
			}

			record, err := c.MethodRecord(d, recordOpts)
			if err != nil {
				return nil, errors.AddContext(err, errors.CtxFile, c.Unit.Path)
			}

			key := fmt.Sprintf("%s#%d", c.Unit.Path, d.TypeIndex)
			pos, seen := index[key]
			if !seen {
				pos = len(m.Types)
				index[key] = pos
				m.Types = append(m.Types, TypeGroup{Type: c.TypeRecord(typeDecl, groupID)})
			}
			m.Types[pos].Methods = append(m.Types[pos].Methods, record)
			m.Methods = append(m.Methods, record)
		}
	}

	if len(m.Methods) == 0 {
		return nil, ErrNoDeclarations
	}
	m.Type = m.Types[0].Type
	return m, nil
}
