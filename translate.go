// Package antlr2sitter translates ANTLR v4 grammars into tree-sitter
// grammar rules.
//
// Parser rules become combinator expressions (seq, choice, repeat,
// field and so on). Lexer rules are translated into a flatter string
// form that usually needs finishing by hand. Constructs with no
// equivalent are replaced by markers and reported as diagnostics.
package antlr2sitter

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/rogpeppe/misc/antlr2sitter/antlr"
)

// Rule is a translated rule.
type Rule struct {
	Name string
	Kind antlr.RuleKind
	// Expr holds the rule body in target notation. It is empty when
	// the source rule has no body.
	Expr string
}

// Result holds the translation of a grammar.
type Result struct {
	Rules       []Rule
	Diagnostics []Diagnostic
}

// Translate translates every rule in g, in order.
//
// A malformed rule stops the translation. In that case the returned
// result holds the rules translated before it, along with the error.
func Translate(g *antlr.Grammar) (*Result, error) {
	res := &Result{}
	for _, r := range g.Rules {
		rule, diags, err := TranslateRule(r)
		res.Diagnostics = append(res.Diagnostics, diags...)
		if err != nil {
			return res, errors.Wrapf(err, "grammar %s", g.Name)
		}
		res.Rules = append(res.Rules, rule)
	}
	return res, nil
}

// TranslateRule translates a single rule.
func TranslateRule(r *antlr.Rule) (_ Rule, _ []Diagnostic, err error) {
	t := &translator{
		rule: r,
	}
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		if e, ok := e.(*cvtError); ok {
			err = errors.Wrapf(e.error, "%v: rule %s", r.Pos, r.Name)
			return
		}
		panic(e)
	}()
	rule := Rule{
		Name: r.Name,
		Kind: r.Kind,
	}
	switch r.Kind {
	case antlr.ParserRule:
		rule.Expr = t.parserRule()
	case antlr.LexerRule:
		rule.Expr = t.lexerRule()
	default:
		fatalf("unknown rule kind %v", r.Kind)
	}
	return rule, t.diags, nil
}

// translator holds the state for translating one rule.
type translator struct {
	rule  *antlr.Rule
	diags []Diagnostic
}

func (t *translator) report(pos antlr.Pos, kind DiagKind, format string, a ...interface{}) {
	t.diags = append(t.diags, Diagnostic{
		Pos:    pos,
		Rule:   t.rule.Name,
		Kind:   kind,
		Detail: fmt.Sprintf(format, a...),
	})
}

// mark reports the marker e, which stands in for something that could
// not be translated, and returns it.
func (t *translator) mark(pos antlr.Pos, e *Expr, format string, a ...interface{}) *Expr {
	t.report(pos, e.Kind, format, a...)
	return e
}

type cvtError struct {
	error
}

// fatalf aborts the current rule translation. It is recovered by
// TranslateRule.
func fatalf(f string, a ...interface{}) {
	panic(&cvtError{errors.Newf(f, a...)})
}
