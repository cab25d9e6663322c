package antlr

import (
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/cockroachdb/errors"
)

// Braces always open an action; options, tokens and channels blocks
// are consumed the same way and discarded.
var grammarLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Whitespace", `\s+`, nil},
		{"Comment", `//[^\n]*`, nil},
		{"BlockComment", `/\*(?s:.*?)\*/`, nil},
		{"String", `'(\\.|[^'\\])*'`, nil},
		{"CharSet", `\[(\\.|[^\]\\])*\]`, nil},
		{"TokenRef", `[A-Z][a-zA-Z0-9_]*`, nil},
		{"RuleRef", `[a-z_][a-zA-Z0-9_]*`, nil},
		{"Int", `[0-9]+`, nil},
		{"ActionStart", `\{`, lexer.Push("Action")},
		{"Punct", `\.\.|->|\+=|::|[:;|()*+?~.=,#<>@]`, nil},
	},
	"Action": {
		{"ActionStart", `\{`, lexer.Push("Action")},
		{"ActionEnd", `\}`, lexer.Pop()},
		{"ActionLineComment", `//[^\n]*`, nil},
		{"ActionBlockComment", `/\*(?s:.*?)\*/`, nil},
		{"ActionString", `"(\\.|[^"\\\n])*"|'(\\.|[^'\\\n])*'`, nil},
		{"ActionText", `[^{}"'/]+|["'/]`, nil},
	},
})

var parser = participle.MustBuild[grammarSpec](
	participle.Lexer(grammarLexer),
	participle.Elide("Whitespace", "Comment", "BlockComment"),
	participle.UseLookahead(4),
)

// Parse parses an ANTLR v4 grammar read from r.
func Parse(filename string, r io.Reader) (*Grammar, error) {
	gs, err := parser.Parse(filename, r)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot parse grammar %s", filename)
	}
	return gs.grammar(), nil
}

// ParseString parses an ANTLR v4 grammar held in src.
func ParseString(filename, src string) (*Grammar, error) {
	return Parse(filename, strings.NewReader(src))
}

type grammarSpec struct {
	Kind     string      `@("lexer" | "parser")?`
	Name     string      `"grammar" @(TokenRef | RuleRef) ";"`
	Prequels []*prequel  `@@*`
	Rules    []*ruleSpec `@@*`
	Modes    []*modeSpec `@@*`
}

type prequel struct {
	Block   *actionBlock `  ("options" | "tokens" | "channels") @@`
	Imports []string     `| "import" @(TokenRef | RuleRef) ("=" (TokenRef | RuleRef))? ("," @(TokenRef | RuleRef) ("=" (TokenRef | RuleRef))?)* ";"`
	Action  *namedAction `| @@`
}

type namedAction struct {
	Scope  string       `"@" (@(TokenRef | RuleRef) "::")?`
	Name   string       `@(TokenRef | RuleRef)`
	Action *actionBlock `@@`
}

type actionBlock struct {
	Parts []*actionPart `ActionStart @@* ActionEnd`
}

type actionPart struct {
	Text   string       `  @(ActionText | ActionString | ActionLineComment | ActionBlockComment)`
	Nested *actionBlock `| @@`
}

func (a *actionBlock) String() string {
	var b strings.Builder
	a.write(&b)
	return b.String()
}

func (a *actionBlock) write(b *strings.Builder) {
	b.WriteByte('{')
	for _, p := range a.Parts {
		if p.Nested != nil {
			p.Nested.write(b)
			continue
		}
		b.WriteString(p.Text)
	}
	b.WriteByte('}')
}

type ruleSpec struct {
	Lexer  *lexerRuleSpec  `  @@`
	Parser *parserRuleSpec `| @@`
}

type parserRuleSpec struct {
	Pos      lexer.Position
	Name     string              `@RuleRef`
	Args     string              `@CharSet?`
	Returns  string              `("returns" @CharSet)?`
	Throws   []string            `("throws" @(TokenRef | RuleRef) ("," @(TokenRef | RuleRef))*)?`
	Locals   string              `("locals" @CharSet)?`
	Options  *actionBlock        `("options" @@)?`
	Actions  []*namedAction      `@@*`
	Body     *altList            `":" @@? ";"`
	Handlers []*exceptionHandler `@@*`
}

type exceptionHandler struct {
	Catch   string       `(  "catch" @CharSet`
	Finally bool         ` | @"finally" )`
	Action  *actionBlock `@@`
}

type lexerRuleSpec struct {
	Pos      lexer.Position
	Fragment bool          `@"fragment"?`
	Name     string        `@TokenRef`
	Options  *actionBlock  `("options" @@)?`
	Body     *lexerAltList `":" @@? ";"`
}

type modeSpec struct {
	Name  string           `"mode" @(TokenRef | RuleRef) ";"`
	Rules []*lexerRuleSpec `@@*`
}

// Alternatives may be empty, so each one after the first is anchored
// on its "|" rather than matched as a zero-width struct.
type altList struct {
	First *labeledAlt `@@?`
	Rest  []*altTail  `@@*`
}

type altTail struct {
	Pos lexer.Position
	Alt *labeledAlt `"|" @@?`
}

type labeledAlt struct {
	Pos      lexer.Position
	Options  []*elementOption `("<" @@ ("," @@)* ">")?`
	Elements []*element       `@@*`
	Label    string           `("#" @(TokenRef | RuleRef))?`
}

type element struct {
	Pos       lexer.Position
	Labeled   *labeledElement `(  @@`
	Atom      *atom           ` | @@`
	Block     *altList        ` | "(" @@ ")"`
	Action    *actionBlock    ` | @@ )`
	Suffix    string          `@("*" | "+" | "?")?`
	NonGreedy bool            `@"?"?`
}

type labeledElement struct {
	Label string   `@(TokenRef | RuleRef)`
	Op    string   `@("=" | "+=")`
	Atom  *atom    `(  @@`
	Block *altList ` | "(" @@ ")" )`
}

type atom struct {
	Range    *charRange       `(  @@`
	Literal  string           ` | @String`
	Token    string           ` | @TokenRef`
	Rule     *ruleRef         ` | @@`
	NotSet   []*setElement    ` | "~" ( "(" @@ ("|" @@)* ")" | @@ )`
	CharSet  string           ` | @CharSet`
	Wildcard bool             ` | @"." )`
	Options  []*elementOption `("<" @@ ("," @@)* ">")?`
}

type ruleRef struct {
	Name string `@RuleRef`
	Args string `@CharSet?`
}

type charRange struct {
	Lo string `@String ".."`
	Hi string `@String`
}

type setElement struct {
	Range   *charRange `  @@`
	Literal string     `| @String`
	Token   string     `| @TokenRef`
	CharSet string     `| @CharSet`
}

type elementOption struct {
	Name  string `@(TokenRef | RuleRef)`
	Value string `("=" @(TokenRef | RuleRef | String | Int))?`
}

type lexerAltList struct {
	First *lexerAlt       `@@?`
	Rest  []*lexerAltTail `@@*`
}

type lexerAltTail struct {
	Pos lexer.Position
	Alt *lexerAlt `"|" @@?`
}

type lexerAlt struct {
	Pos      lexer.Position
	Elements []*lexerElement `@@*`
	Commands []*lexerCommand `("->" @@ ("," @@)*)?`
}

type lexerCommand struct {
	Name string `@(TokenRef | RuleRef)`
	Arg  string `("(" @(TokenRef | RuleRef | Int) ")")?`
}

func (c *lexerCommand) String() string {
	if c.Arg == "" {
		return c.Name
	}
	return c.Name + "(" + c.Arg + ")"
}

type lexerElement struct {
	Pos       lexer.Position
	Atom      *atom         `(  @@`
	Block     *lexerAltList ` | "(" @@ ")"`
	Action    *actionBlock  ` | @@ )`
	Suffix    string        `@("*" | "+" | "?")?`
	NonGreedy bool          `@"?"?`
}

func pos(p lexer.Position) Pos {
	return Pos{
		Filename: p.Filename,
		Line:     p.Line,
		Column:   p.Column,
	}
}

func (s *grammarSpec) grammar() *Grammar {
	g := &Grammar{
		Name: s.Name,
	}
	switch s.Kind {
	case "lexer":
		g.Kind = LexerGrammar
	case "parser":
		g.Kind = ParserGrammar
	}
	for _, r := range s.Rules {
		if r.Lexer != nil {
			g.Rules = append(g.Rules, r.Lexer.rule(""))
		} else {
			g.Rules = append(g.Rules, r.Parser.rule())
		}
	}
	for _, m := range s.Modes {
		for _, r := range m.Rules {
			g.Rules = append(g.Rules, r.rule(m.Name))
		}
	}
	return g
}

func (r *parserRuleSpec) rule() *Rule {
	rule := &Rule{
		Pos:  pos(r.Pos),
		Name: r.Name,
		Kind: ParserRule,
	}
	rule.Body = r.Body.block(rule.Pos)
	return rule
}

func (r *lexerRuleSpec) rule(mode string) *Rule {
	rule := &Rule{
		Pos:      pos(r.Pos),
		Name:     r.Name,
		Kind:     LexerRule,
		Fragment: r.Fragment,
		Mode:     mode,
	}
	rule.Body = r.Body.block(rule.Pos)
	return rule
}

// block returns the alternatives of l. An absent or empty list still
// yields one empty alternative, positioned at the enclosing rule or
// element.
func (l *altList) block(at Pos) *Block {
	b := &Block{}
	if l == nil {
		l = &altList{}
	}
	if l.First != nil {
		b.Alts = append(b.Alts, l.First.alt())
	} else {
		b.Alts = append(b.Alts, &Alt{Pos: at})
	}
	for _, t := range l.Rest {
		if t.Alt == nil {
			b.Alts = append(b.Alts, &Alt{Pos: pos(t.Pos)})
			continue
		}
		b.Alts = append(b.Alts, t.Alt.alt())
	}
	return b
}

func (a *labeledAlt) alt() *Alt {
	alt := &Alt{
		Pos:   pos(a.Pos),
		Label: a.Label,
	}
	for _, e := range a.Elements {
		alt.Elements = append(alt.Elements, e.element())
	}
	return alt
}

func (e *element) element() *Element {
	el := &Element{
		Pos:       pos(e.Pos),
		Suffix:    suffix(e.Suffix),
		NonGreedy: e.NonGreedy,
	}
	switch {
	case e.Labeled != nil:
		l := &Labeled{
			Label:  e.Labeled.Label,
			Append: e.Labeled.Op == "+=",
		}
		if e.Labeled.Atom != nil {
			l.Node = e.Labeled.Atom.node()
		} else {
			l.Node = &Group{Block: e.Labeled.Block.block(el.Pos)}
		}
		el.Node = l
	case e.Atom != nil:
		el.Node = e.Atom.node()
	case e.Block != nil:
		el.Node = &Group{Block: e.Block.block(el.Pos)}
	case e.Action != nil:
		el.Node, el.Suffix = actionNode(e.Action, el.Suffix)
	}
	return el
}

// actionNode turns an action followed by "?" into a predicate.
func actionNode(a *actionBlock, sfx Suffix) (Node, Suffix) {
	if sfx == Question {
		return &Action{Text: a.String(), Predicate: true}, NoSuffix
	}
	return &Action{Text: a.String()}, sfx
}

func (a *atom) node() Node {
	switch {
	case a.Range != nil:
		return a.Range.node()
	case a.Literal != "":
		return &Literal{Text: a.Literal}
	case a.Token != "":
		return &TokenRef{Name: a.Token}
	case a.Rule != nil:
		return &RuleRef{Name: a.Rule.Name, Args: a.Rule.Args}
	case a.NotSet != nil:
		n := &NotSet{
			Elements: make([]Node, len(a.NotSet)),
		}
		for i, s := range a.NotSet {
			n.Elements[i] = s.node()
		}
		return n
	case a.CharSet != "":
		return &CharSet{Text: a.CharSet}
	case a.Wildcard:
		return &Wildcard{}
	}
	return nil
}

func (r *charRange) node() Node {
	return &CharRange{Lo: r.Lo, Hi: r.Hi}
}

func (s *setElement) node() Node {
	switch {
	case s.Range != nil:
		return s.Range.node()
	case s.Literal != "":
		return &Literal{Text: s.Literal}
	case s.Token != "":
		return &TokenRef{Name: s.Token}
	case s.CharSet != "":
		return &CharSet{Text: s.CharSet}
	}
	return nil
}

func (l *lexerAltList) block(at Pos) *Block {
	b := &Block{}
	if l == nil {
		l = &lexerAltList{}
	}
	if l.First != nil {
		b.Alts = append(b.Alts, l.First.alt())
	} else {
		b.Alts = append(b.Alts, &Alt{Pos: at})
	}
	for _, t := range l.Rest {
		if t.Alt == nil {
			b.Alts = append(b.Alts, &Alt{Pos: pos(t.Pos)})
			continue
		}
		b.Alts = append(b.Alts, t.Alt.alt())
	}
	return b
}

func (a *lexerAlt) alt() *Alt {
	alt := &Alt{
		Pos: pos(a.Pos),
	}
	for _, e := range a.Elements {
		alt.Elements = append(alt.Elements, e.element())
	}
	for _, c := range a.Commands {
		alt.Commands = append(alt.Commands, c.String())
	}
	return alt
}

func (e *lexerElement) element() *Element {
	el := &Element{
		Pos:       pos(e.Pos),
		Suffix:    suffix(e.Suffix),
		NonGreedy: e.NonGreedy,
	}
	switch {
	case e.Atom != nil:
		el.Node = e.Atom.node()
	case e.Block != nil:
		el.Node = &Group{Block: e.Block.block(el.Pos)}
	case e.Action != nil:
		el.Node, el.Suffix = actionNode(e.Action, el.Suffix)
	}
	return el
}

func suffix(s string) Suffix {
	switch s {
	case "*":
		return Star
	case "+":
		return Plus
	case "?":
		return Question
	}
	return NoSuffix
}
