// Package errors defines the typed error taxonomy used across tree
// construction and template expansion.
package errors

import (
	"fmt"
	"strings"
)

// Kind classifies an IRError the way a compiler phase wants to react to it.
type Kind string

const (
	MalformedOperand Kind = "MalformedOperand" // child result type doesn't match expected operand kind
	MalformedArity   Kind = "MalformedArity"   // child/param count disagrees with the operator table
	DanglingChild    Kind = "DanglingChild"    // child offset doesn't address a node in the arena
	DuplicateLabel   Kind = "DuplicateLabel"   // LABEL id defined more than once
	MissingLabel     Kind = "MissingLabel"     // BRANCH references a label never defined
	ArenaExhausted   Kind = "ArenaExhausted"   // arena failed to grow
)

// Site pinpoints where in the tree an error was raised.
type Site struct {
	Node int // arena offset of the offending node, -1 if not applicable
	Op   string
}

// IRError is the error type raised by construction-time assertions
// throughout internal/exprtree. It is always fatal to the tree being built:
// callers must discard the tree and fall back to the interpreter path.
type IRError struct {
	Kind    Kind
	Message string
	Site    Site
}

func (e *IRError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if e.Site.Node >= 0 {
		sb.WriteString(fmt.Sprintf(" (node %d, op %s)", e.Site.Node, e.Site.Op))
	}
	return sb.String()
}

// New builds an IRError raised at the given site.
func New(kind Kind, node int, op, message string) *IRError {
	return &IRError{Kind: kind, Message: message, Site: Site{Node: node, Op: op}}
}
