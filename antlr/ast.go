// Package antlr holds a typed AST for ANTLR v4 grammars and a parser
// that produces it.
//
// The AST is deliberately small: it records only what is needed to
// translate rule bodies, and drops options, arguments, return values
// and other target-language details after parsing them.
package antlr

import "fmt"

// Pos is a position in a grammar source file.
type Pos struct {
	Filename string
	Line     int
	Column   int
}

func (p Pos) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// GrammarKind distinguishes combined, lexer-only and parser-only grammars.
type GrammarKind int

const (
	Combined GrammarKind = iota
	LexerGrammar
	ParserGrammar
)

// Grammar is one parsed grammar file. Rules are held in source order.
type Grammar struct {
	Name  string
	Kind  GrammarKind
	Rules []*Rule
}

// RuleKind says whether a rule builds syntax or matches characters.
type RuleKind int

const (
	ParserRule RuleKind = iota
	LexerRule
)

func (k RuleKind) String() string {
	switch k {
	case ParserRule:
		return "parser rule"
	case LexerRule:
		return "lexer rule"
	}
	return fmt.Sprintf("RuleKind(%d)", int(k))
}

// Rule is a single rule definition.
type Rule struct {
	Pos      Pos
	Name     string
	Kind     RuleKind
	Fragment bool
	// Mode holds the lexer mode the rule was declared in, if any.
	Mode string
	// Body is nil when the rule declares no block.
	Body *Block
}

// Block is a list of alternatives.
type Block struct {
	Alts []*Alt
}

// Alt is one alternative of a block.
type Alt struct {
	Pos Pos
	// Label holds the "# Label" name, if any.
	Label    string
	Elements []*Element
	// Commands holds lexer commands such as "skip" or "channel(HIDDEN)".
	Commands []string
}

// Suffix is an EBNF suffix operator.
type Suffix int

const (
	NoSuffix Suffix = iota
	Star
	Plus
	Question
)

func (s Suffix) String() string {
	switch s {
	case NoSuffix:
		return ""
	case Star:
		return "*"
	case Plus:
		return "+"
	case Question:
		return "?"
	}
	return fmt.Sprintf("Suffix(%d)", int(s))
}

// Element is a node optionally followed by a suffix operator.
type Element struct {
	Pos    Pos
	Node   Node
	Suffix Suffix
	// NonGreedy is set for the "*?", "+?" and "??" forms.
	NonGreedy bool
}

// Node is implemented by every element node type in this package.
// The set is closed.
type Node interface {
	node()
}

// Labeled is a labeled atom or group: "x=atom", "x+=(a|b)".
type Labeled struct {
	Label string
	// Append is set for the "+=" list-label form.
	Append bool
	// Node is an atom or a *Group.
	Node Node
}

// Group is a parenthesized block.
type Group struct {
	Block *Block
}

// Action is an embedded action block or semantic predicate.
type Action struct {
	Text      string
	Predicate bool
}

// Literal is a quoted string literal. Text holds the source text
// including its quotes.
type Literal struct {
	Text string
}

// TokenRef is a reference to a lexer rule or token.
type TokenRef struct {
	Name string
}

// RuleRef is a reference to a parser rule.
type RuleRef struct {
	Name string
	// Args holds the argument block text, if any.
	Args string
}

// CharRange is a 'a'..'z' style range. Lo and Hi hold the quoted
// source text of each bound.
type CharRange struct {
	Lo, Hi string
}

// CharSet is a lexer character set such as [a-zA-Z_].
type CharSet struct {
	Text string
}

// NotSet is a negated set: ~X or ~(X|Y).
type NotSet struct {
	Elements []Node
}

// Wildcard is the "." atom.
type Wildcard struct{}

func (*Labeled) node()   {}
func (*Group) node()     {}
func (*Action) node()    {}
func (*Literal) node()   {}
func (*TokenRef) node()  {}
func (*RuleRef) node()   {}
func (*CharRange) node() {}
func (*CharSet) node()   {}
func (*NotSet) node()    {}
func (*Wildcard) node()  {}

// Unquote strips the delimiting quotes from a literal's source text.
// Escape sequences inside the literal are left alone.
func Unquote(s string) string {
	if len(s) >= 2 {
		if q := s[0]; (q == '\'' || q == '"') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// Quote returns s as a single-quoted literal, escaping characters
// that cannot appear bare.
func Quote(s string) string {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '\'')
	for _, r := range s {
		switch r {
		case '\'':
			buf = append(buf, `\'`...)
		case '\\':
			buf = append(buf, `\\`...)
		case '\n':
			buf = append(buf, `\n`...)
		case '\r':
			buf = append(buf, `\r`...)
		case '\t':
			buf = append(buf, `\t`...)
		default:
			if r < ' ' {
				buf = append(buf, fmt.Sprintf(`\u%04X`, r)...)
				continue
			}
			buf = append(buf, string(r)...)
		}
	}
	return string(append(buf, '\''))
}
