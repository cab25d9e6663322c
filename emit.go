package antlr2sitter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

// Emitter writes translated rules as a single tree-sitter grammar
// document:
//
//	{
//
//		rules: {
//			name: $ => expr,
//		}
//
//	}
//
// Rules are written as they arrive, so if a run is abandoned part way
// through, the rules already written remain in the output.
type Emitter struct {
	w       *bufio.Writer
	started bool
	closed  bool
	seen    map[string]bool
	dups    []Diagnostic
	err     error
}

// NewEmitter returns an Emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{
		w:    bufio.NewWriter(w),
		seen: make(map[string]bool),
	}
}

// Rule writes a single rule line. Names are not deduplicated; a name
// seen before is written again and recorded in Duplicates.
//
// Once the document is closed nothing more is written, and the error
// is returned from Flush and Close.
func (e *Emitter) Rule(name, expr string) {
	if e.closed {
		if e.err == nil {
			e.err = errors.Newf("rule %s written after document was closed", name)
		}
		return
	}
	e.start()
	if e.seen[name] {
		e.dups = append(e.dups, Diagnostic{
			Rule:   name,
			Kind:   DiagDuplicate,
			Detail: "defined more than once",
		})
	}
	e.seen[name] = true
	e.printf("\t\t%s: $ => %s,\n", name, expr)
}

// Rules writes each rule in rs.
func (e *Emitter) Rules(rs []Rule) {
	for _, r := range rs {
		e.Rule(r.Name, r.Expr)
	}
}

// Duplicates returns a diagnostic for each repeated definition, in the
// order in which they were written.
func (e *Emitter) Duplicates() []Diagnostic {
	return e.dups
}

// Flush writes any buffered output without closing the document.
func (e *Emitter) Flush() error {
	if e.err != nil {
		return e.err
	}
	e.err = e.w.Flush()
	return e.err
}

// Close finishes the document and flushes it.
func (e *Emitter) Close() error {
	if e.closed {
		return e.err
	}
	e.start()
	e.printf("\t}\n\n}\n")
	e.closed = true
	return e.Flush()
}

func (e *Emitter) start() {
	if e.started {
		return
	}
	e.started = true
	e.printf("{\n\n\trules: {\n")
}

func (e *Emitter) printf(format string, a ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

// Emit writes a complete document holding rs to w.
func Emit(w io.Writer, rs []Rule) error {
	e := NewEmitter(w)
	e.Rules(rs)
	return e.Close()
}
