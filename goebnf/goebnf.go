// Package goebnf converts grammars written in the EBNF dialect used by
// the Go language specification into antlr grammars, so that they can
// be translated in the same way.
//
// Following the EBNF package's own convention, productions whose names
// start with a lower case letter are lexical and become lexer rules;
// all others become parser rules.
package goebnf

import (
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/scanner"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/ebnf"

	"github.com/rogpeppe/misc/antlr2sitter/antlr"
)

// Parse reads an EBNF grammar from r and converts it. The grammar is
// named after the file.
func Parse(filename string, r io.Reader) (*antlr.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse grammar %s", filename)
	}
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return Convert(name, g)
}

// Convert converts g. Rules appear in the order in which their
// productions appear in the source.
func Convert(name string, g ebnf.Grammar) (_ *antlr.Grammar, err error) {
	defer func() {
		e := recover()
		if e == nil {
			return
		}
		if e, ok := e.(*cvtError); ok {
			err = e.error
			return
		}
		panic(e)
	}()
	prods := make([]*ebnf.Production, 0, len(g))
	for _, p := range g {
		prods = append(prods, p)
	}
	sort.Slice(prods, func(i, j int) bool {
		pi, pj := prods[i].Pos(), prods[j].Pos()
		if pi.Filename != pj.Filename {
			return pi.Filename < pj.Filename
		}
		return pi.Offset < pj.Offset
	})
	out := &antlr.Grammar{
		Name: name,
	}
	for _, p := range prods {
		out.Rules = append(out.Rules, convertProduction(g, p))
	}
	return out, nil
}

func convertProduction(g ebnf.Grammar, p *ebnf.Production) *antlr.Rule {
	r := &antlr.Rule{
		Pos:  pos(p.Pos()),
		Name: p.Name.String,
		Kind: antlr.ParserRule,
		Body: block(g, p.Expr, p.Pos()),
	}
	if isLexical(p.Name.String) {
		r.Kind = antlr.LexerRule
	}
	return r
}

// block converts e into a list of alternatives. An empty expression
// gives a single empty alternative.
func block(g ebnf.Grammar, e ebnf.Expression, at scanner.Position) *antlr.Block {
	if alts, ok := e.(ebnf.Alternative); ok {
		b := &antlr.Block{
			Alts: make([]*antlr.Alt, len(alts)),
		}
		for i, a := range alts {
			b.Alts[i] = alt(g, a, a.Pos())
		}
		return b
	}
	return &antlr.Block{
		Alts: []*antlr.Alt{alt(g, e, at)},
	}
}

func alt(g ebnf.Grammar, e ebnf.Expression, at scanner.Position) *antlr.Alt {
	a := &antlr.Alt{
		Pos: pos(at),
	}
	switch e := e.(type) {
	case nil:
	case ebnf.Sequence:
		for _, e1 := range e {
			a.Elements = append(a.Elements, element(g, e1))
		}
	default:
		a.Elements = []*antlr.Element{element(g, e)}
	}
	return a
}

func element(g ebnf.Grammar, e ebnf.Expression) *antlr.Element {
	el := &antlr.Element{
		Pos: pos(e.Pos()),
	}
	switch e := e.(type) {
	case *ebnf.Option:
		el.Node = body(g, e.Body, e.Lbrack)
		el.Suffix = antlr.Question
	case *ebnf.Repetition:
		el.Node = body(g, e.Body, e.Lbrace)
		el.Suffix = antlr.Star
	default:
		el.Node = node(g, e)
	}
	return el
}

// body converts the body of an option or repetition, avoiding a group
// when the body is a single term.
func body(g ebnf.Grammar, e ebnf.Expression, at scanner.Position) antlr.Node {
	switch e.(type) {
	case *ebnf.Name, *ebnf.Token, *ebnf.Range, *ebnf.Group:
		return node(g, e)
	}
	return &antlr.Group{Block: block(g, e, at)}
}

func node(g ebnf.Grammar, e ebnf.Expression) antlr.Node {
	switch e := e.(type) {
	case *ebnf.Name:
		if isLexical(e.String) {
			return &antlr.TokenRef{Name: e.String}
		}
		return &antlr.RuleRef{Name: e.String}
	case *ebnf.Token:
		return &antlr.Literal{Text: antlr.Quote(e.String)}
	case *ebnf.Range:
		return &antlr.CharRange{
			Lo: antlr.Quote(e.Begin.String),
			Hi: antlr.Quote(e.End.String),
		}
	case *ebnf.Group:
		return &antlr.Group{Block: block(g, e.Body, e.Lparen)}
	case *ebnf.Option, *ebnf.Repetition, ebnf.Alternative, ebnf.Sequence:
		return &antlr.Group{Block: block(g, e, e.Pos())}
	case *ebnf.Bad:
		fatalf("%v: bad expression: %s", e.TokPos, e.Error)
	default:
		fatalf("unknown ebnf node %#v", e)
	}
	panic("unreachable")
}

func isLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}

func pos(p scanner.Position) antlr.Pos {
	return antlr.Pos{
		Filename: p.Filename,
		Line:     p.Line,
		Column:   p.Column,
	}
}

type cvtError struct {
	error
}

func fatalf(f string, a ...interface{}) {
	panic(&cvtError{errors.Newf(f, a...)})
}
