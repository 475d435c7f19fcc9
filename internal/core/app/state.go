package app

import (
	"codeextract/internal/engine/parser"
	"time"
)

// State is where a source group is in its extraction.
type State string

const (
	StateIdle                   State = "idle"
	StateParsingGroup           State = "parsing_group"
	StateCollectingDeclarations State = "collecting_declarations"
	StateAssemblingModel        State = "assembling_model"
	StateRendering              State = "rendering"
	StatePublished              State = "published"
	StateSkipped                State = "skipped"
	StateFailed                 State = "failed"
)

// Terminal reports whether no further transition can happen from s.
func (s State) Terminal() bool {
	return s == StatePublished || s == StateSkipped || s == StateFailed
}

// GroupReport describes how one source group went.
type GroupReport struct {
	ID       string
	Dir      string
	State    State
	Files    int
	Methods  int
	Types    int
	Problems []parser.Problem
	// Reason explains a Skipped or Failed state.
	Reason   string
	Duration time.Duration
}

// Result is the outcome of one run. Outputs maps every published source
// group id to its rendered text. Skipped is set when extraction was disabled
// and nothing may be published.
type Result struct {
	RunID   string
	Outputs map[string]string
	Groups  []GroupReport
	Skipped bool
}
