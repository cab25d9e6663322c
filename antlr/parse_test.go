package antlr

import (
	"testing"

	"github.com/alecthomas/repr"
	qt "github.com/frankban/quicktest"
)

func TestParseGrammarHeader(t *testing.T) {
	c := qt.New(t)
	for src, kind := range map[string]GrammarKind{
		"grammar G;":        Combined,
		"lexer grammar G;":  LexerGrammar,
		"parser grammar G;": ParserGrammar,
	} {
		g, err := ParseString("g.g4", src)
		c.Assert(err, qt.IsNil)
		c.Assert(g.Name, qt.Equals, "G")
		c.Assert(g.Kind, qt.Equals, kind)
		c.Assert(g.Rules, qt.HasLen, 0)
	}
}

func TestParseRules(t *testing.T) {
	c := qt.New(t)
	g, err := ParseString("g.g4", `
/** A test grammar. */
grammar G;

options { language = Go; }
import Common, Other = Base;
tokens { INDENT, DEDENT }
@parser::members { int depth = 0; }

// Parser rules.
prog : stat+ EOF ;
stat : expr ';' ;

fragment DIGIT : [0-9] ;
INT : DIGIT+ ;
WS : [ \t\r\n]+ -> channel(HIDDEN) ;

mode INSIDE;
CLOSE : '>' -> popMode ;
`)
	c.Assert(err, qt.IsNil)
	type ruleInfo struct {
		Name     string
		Kind     RuleKind
		Fragment bool
		Mode     string
	}
	var got []ruleInfo
	for _, r := range g.Rules {
		got = append(got, ruleInfo{r.Name, r.Kind, r.Fragment, r.Mode})
	}
	c.Assert(got, qt.DeepEquals, []ruleInfo{
		{"prog", ParserRule, false, ""},
		{"stat", ParserRule, false, ""},
		{"DIGIT", LexerRule, true, ""},
		{"INT", LexerRule, false, ""},
		{"WS", LexerRule, false, ""},
		{"CLOSE", LexerRule, false, "INSIDE"},
	})
	c.Assert(g.Rules[0].Pos, qt.Equals, Pos{Filename: "g.g4", Line: 11, Column: 1})
	c.Assert(g.Rules[4].Body.Alts[0].Commands, qt.DeepEquals, []string{"channel(HIDDEN)"})
}

var parseElementTests = []struct {
	testName string
	rule     string
	expect   *Block
}{{
	testName: "labeled-atom-with-suffix",
	rule:     `r : xs+=item* ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &Labeled{
					Label:  "xs",
					Append: true,
					Node:   &RuleRef{Name: "item"},
				},
				Suffix: Star,
			}},
		}},
	},
}, {
	testName: "labeled-group",
	rule:     `r : op=('+' | '-') ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &Labeled{
					Label: "op",
					Node: &Group{
						Block: &Block{
							Alts: []*Alt{{
								Elements: []*Element{{Node: &Literal{Text: "'+'"}}},
							}, {
								Elements: []*Element{{Node: &Literal{Text: "'-'"}}},
							}},
						},
					},
				},
			}},
		}},
	},
}, {
	testName: "labeled-alternatives",
	rule:     `r : A # First | B # Second ;`,
	expect: &Block{
		Alts: []*Alt{{
			Label:    "First",
			Elements: []*Element{{Node: &TokenRef{Name: "A"}}},
		}, {
			Label:    "Second",
			Elements: []*Element{{Node: &TokenRef{Name: "B"}}},
		}},
	},
}, {
	testName: "non-greedy",
	rule:     `r : .+? ';' ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node:      &Wildcard{},
				Suffix:    Plus,
				NonGreedy: true,
			}, {
				Node: &Literal{Text: "';'"},
			}},
		}},
	},
}, {
	testName: "nested-action",
	rule:     `r : { if (x) { y("}"); } } b ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &Action{Text: `{ if (x) { y("}"); } }`},
			}, {
				Node: &RuleRef{Name: "b"},
			}},
		}},
	},
}, {
	testName: "nested-action-line-comment",
	rule:     "r : b { // don't\n } c ;",
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &RuleRef{Name: "b"},
			}, {
				Node: &Action{Text: "{ // don't\n }"},
			}, {
				Node: &RuleRef{Name: "c"},
			}},
		}},
	},
}, {
	testName: "nested-action-block-comment",
	rule:     `r : b { /* } */ } c ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &RuleRef{Name: "b"},
			}, {
				Node: &Action{Text: `{ /* } */ }`},
			}, {
				Node: &RuleRef{Name: "c"},
			}},
		}},
	},
}, {
	testName: "nested-action-unpaired-quote",
	rule:     "r : { x = '{'; y = \"it's\"; z = a / b; } c ;",
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &Action{Text: "{ x = '{'; y = \"it's\"; z = a / b; }"},
			}, {
				Node: &RuleRef{Name: "c"},
			}},
		}},
	},
}, {
	testName: "predicate",
	rule:     `r : {p()}? b ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &Action{Text: `{p()}`, Predicate: true},
			}, {
				Node: &RuleRef{Name: "b"},
			}},
		}},
	},
}, {
	testName: "rule-args",
	rule:     `r : e[0] ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &RuleRef{Name: "e", Args: "[0]"},
			}},
		}},
	},
}, {
	testName: "not-set",
	rule:     `r : ~(A | 'b') ~C ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &NotSet{Elements: []Node{&TokenRef{Name: "A"}, &Literal{Text: "'b'"}}},
			}, {
				Node: &NotSet{Elements: []Node{&TokenRef{Name: "C"}}},
			}},
		}},
	},
}, {
	testName: "lexer-atoms",
	rule:     `R : 'a'..'z' [0-9_] . ~[\n] ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &CharRange{Lo: "'a'", Hi: "'z'"},
			}, {
				Node: &CharSet{Text: "[0-9_]"},
			}, {
				Node: &Wildcard{},
			}, {
				Node: &NotSet{Elements: []Node{&CharSet{Text: `[\n]`}}},
			}},
		}},
	},
}, {
	testName: "lexer-group-and-commands",
	rule:     `R : ('x' | 'y')+ -> type(S), mode(M) ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{
				Node: &Group{
					Block: &Block{
						Alts: []*Alt{{
							Elements: []*Element{{Node: &Literal{Text: "'x'"}}},
						}, {
							Elements: []*Element{{Node: &Literal{Text: "'y'"}}},
						}},
					},
				},
				Suffix: Plus,
			}},
			Commands: []string{"type(S)", "mode(M)"},
		}},
	},
}, {
	testName: "empty-alternative",
	rule:     `r : a | ;`,
	expect: &Block{
		Alts: []*Alt{{
			Elements: []*Element{{Node: &RuleRef{Name: "a"}}},
		}, {}},
	},
}}

func TestParseElements(t *testing.T) {
	c := qt.New(t)
	for _, test := range parseElementTests {
		c.Run(test.testName, func(c *qt.C) {
			g, err := ParseString("g.g4", "grammar G;\n"+test.rule)
			c.Assert(err, qt.IsNil)
			c.Assert(g.Rules, qt.HasLen, 1)
			body := g.Rules[0].Body
			clearPos(body)
			c.Assert(body, qt.DeepEquals, test.expect, qt.Commentf("%s", repr.String(body, repr.Indent("  "))))
		})
	}
}

func TestParseRulesAfterActionComments(t *testing.T) {
	c := qt.New(t)
	g, err := ParseString("g.g4", `grammar G;
a : b { // don't
  } c ;
e : { /* } */ } f ;
d : 'x' ;
`)
	c.Assert(err, qt.IsNil)
	var names []string
	for _, r := range g.Rules {
		names = append(names, r.Name)
	}
	c.Assert(names, qt.DeepEquals, []string{"a", "e", "d"})
}

func TestParseEmptyBody(t *testing.T) {
	c := qt.New(t)
	g, err := ParseString("g.g4", "grammar G;\nr : ;\nfragment A : ;\n")
	c.Assert(err, qt.IsNil)
	c.Assert(g.Rules, qt.HasLen, 2)
	for _, r := range g.Rules {
		c.Assert(r.Body, qt.Not(qt.IsNil), qt.Commentf("rule %s", r.Name))
		c.Assert(r.Body.Alts, qt.HasLen, 1)
		c.Assert(r.Body.Alts[0].Elements, qt.HasLen, 0)
		c.Assert(r.Body.Alts[0].Pos.Line, qt.Not(qt.Equals), 0)
	}
}

func TestParseError(t *testing.T) {
	c := qt.New(t)
	_, err := ParseString("bad.g4", "grammar G;\nr : a ( b ;")
	c.Assert(err, qt.ErrorMatches, `cannot parse grammar bad.g4: .*`)
}

func TestQuote(t *testing.T) {
	c := qt.New(t)
	c.Assert(Quote(`a'b\c`+"\n\x01"), qt.Equals, `'a\'b\\c\n\u0001'`)
	c.Assert(Unquote(Quote("x")), qt.Equals, "x")
	c.Assert(Unquote("'+'"), qt.Equals, "+")
	c.Assert(Unquote(`"+"`), qt.Equals, "+")
	c.Assert(Unquote("+"), qt.Equals, "+")
	c.Assert(Unquote("'"), qt.Equals, "'")
}

// clearPos zeroes the positions in b so that it can be compared
// structurally.
func clearPos(b *Block) {
	if b == nil {
		return
	}
	for _, a := range b.Alts {
		a.Pos = Pos{}
		for _, e := range a.Elements {
			e.Pos = Pos{}
			clearNodePos(e.Node)
		}
	}
}

func clearNodePos(n Node) {
	switch n := n.(type) {
	case *Group:
		clearPos(n.Block)
	case *Labeled:
		clearNodePos(n.Node)
	}
}
