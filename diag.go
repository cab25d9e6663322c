package antlr2sitter

import (
	"fmt"

	"github.com/rogpeppe/misc/antlr2sitter/antlr"
)

// DiagKind classifies a diagnostic.
type DiagKind int

const (
	// DiagUnsupported reports a construct that was replaced by a marker
	// because the target notation has no equivalent.
	DiagUnsupported DiagKind = 1 + iota
	// DiagEmpty reports an alternative or block with nothing in it.
	DiagEmpty
	// DiagDuplicate reports a rule name defined more than once in a run.
	DiagDuplicate
)

func (k DiagKind) String() string {
	switch k {
	case DiagUnsupported:
		return "unsupported"
	case DiagEmpty:
		return "empty"
	case DiagDuplicate:
		return "duplicate"
	}
	return fmt.Sprintf("DiagKind(%d)", int(k))
}

// Diagnostic records a place where the output needs manual attention.
type Diagnostic struct {
	Pos    antlr.Pos
	Rule   string
	Kind   DiagKind
	Detail string
}

func (d Diagnostic) String() string {
	if d.Pos.Line == 0 {
		return fmt.Sprintf("rule %s: %v: %s", d.Rule, d.Kind, d.Detail)
	}
	return fmt.Sprintf("%v: rule %s: %v: %s", d.Pos, d.Rule, d.Kind, d.Detail)
}
