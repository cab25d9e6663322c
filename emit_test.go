package antlr2sitter

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestEmit(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	err := Emit(&buf, []Rule{{
		Name: "a",
		Expr: "$.b",
	}, {
		Name: "B",
		Expr: "'x'",
	}})
	c.Assert(err, qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "{\n\n\trules: {\n\t\ta: $ => $.b,\n\t\tB: $ => 'x',\n\t}\n\n}\n")
}

func TestEmitNoRules(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(Emit(&buf, nil), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "{\n\n\trules: {\n\t}\n\n}\n")
}

func TestEmitterKeepsOrderAcrossBatches(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	e.Rules([]Rule{{Name: "z", Expr: "$.y"}})
	e.Rules([]Rule{{Name: "a", Expr: "$.b"}})
	c.Assert(e.Close(), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "{\n\n\trules: {\n\t\tz: $ => $.y,\n\t\ta: $ => $.b,\n\t}\n\n}\n")
}

func TestEmitterDuplicates(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	e.Rule("a", "$.b")
	e.Rule("b", "'x'")
	e.Rule("a", "$.c")
	c.Assert(e.Close(), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "{\n\n\trules: {\n\t\ta: $ => $.b,\n\t\tb: $ => 'x',\n\t\ta: $ => $.c,\n\t}\n\n}\n")
	c.Assert(e.Duplicates(), qt.DeepEquals, []Diagnostic{{
		Rule:   "a",
		Kind:   DiagDuplicate,
		Detail: "defined more than once",
	}})
	c.Assert(e.Duplicates()[0].String(), qt.Equals, "rule a: duplicate: defined more than once")
}

func TestEmitterFlushLeavesDocumentOpen(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	e.Rule("a", "$.b")
	c.Assert(e.Flush(), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "{\n\n\trules: {\n\t\ta: $ => $.b,\n")
}

func TestEmitterRuleAfterClose(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	e := NewEmitter(&buf)
	e.Rule("a", "$.b")
	c.Assert(e.Close(), qt.IsNil)
	e.Rule("c", "$.d")
	c.Assert(buf.String(), qt.Equals, "{\n\n\trules: {\n\t\ta: $ => $.b,\n\t}\n\n}\n")
	c.Assert(e.Flush(), qt.ErrorMatches, `rule c written after document was closed`)
	c.Assert(e.Close(), qt.ErrorMatches, `rule c written after document was closed`)
}
