package ports

import (
	"codeextract/internal/engine/parser"
	"context"
)

// SourceParser abstracts turning one source group directory into parsed units.
type SourceParser interface {
	ParseDir(ctx context.Context, dir string) (*parser.ParseResult, error)
}

// Publisher delivers the rendered text of a run, keyed by source group id,
// to one sink.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, outputs map[string]string) error
}
