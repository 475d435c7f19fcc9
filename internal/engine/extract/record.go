package extract

// RecordOptions controls how declarations are projected into records.
type RecordOptions struct {
	PreserveLayout bool
}

// MethodRecord builds the record for d, combining the normalized comment,
// the body text and the resolved span.
func (c *Collection) MethodRecord(d Declaration, opts RecordOptions) (MethodRecord, error) {
	source := c.Unit.Source
	span, err := ResolveSpan(d, source)
	if err != nil {
		return MethodRecord{}, err
	}

	record := MethodRecord{
		Name:        d.Name,
		Description: NormalizeComment(CommentContent(d.Comments, source)),
		Body:        ExtractBody(d, source, opts.PreserveLayout),
		Range:       span,
		File:        c.Unit.Path,
	}
	if t, ok := c.EnclosingType(d); ok {
		record.TypeName = t.Name
	}
	return record, nil
}

// TypeRecord describes t for the source group groupID.
func (c *Collection) TypeRecord(t TypeDecl, groupID string) TypeRecord {
	return TypeRecord{
		Name:          t.Name,
		Description:   NormalizeComment(CommentContent(t.Comments, c.Unit.Source)),
		SourceGroupID: groupID,
	}
}
