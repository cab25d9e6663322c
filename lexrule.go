package antlr2sitter

import (
	"strings"
	"unicode/utf8"

	"github.com/rogpeppe/misc/antlr2sitter/antlr"
)

// Lexer rules are translated into plain text rather than Expr trees:
// alternatives are joined with "|" and elements are concatenated.
// Character sets and wildcards have no text form and are left as
// empty placeholders to be filled in by hand.

const (
	lexerAltSep       = "|"
	lexerActionMarker = "/*action-block*/"
)

func (t *translator) lexerRule() string {
	if t.rule.Body == nil {
		fatalf("lexer rule has no body")
	}
	return t.lexerBlock(t.rule.Pos, t.rule.Body)
}

func (t *translator) lexerBlock(pos antlr.Pos, b *antlr.Block) string {
	if b == nil {
		fatalf("lexer block with no alternatives list")
	}
	if len(b.Alts) == 0 {
		return t.mark(pos, Empty(), "no alternatives").String()
	}
	alts := make([]string, len(b.Alts))
	for i, a := range b.Alts {
		alts[i] = t.lexerAlt(a)
	}
	return strings.Join(alts, lexerAltSep)
}

func (t *translator) lexerAlt(a *antlr.Alt) string {
	if len(a.Elements) == 0 {
		return t.mark(a.Pos, Empty(), "empty alternative").String()
	}
	var b strings.Builder
	for _, el := range a.Elements {
		b.WriteString(t.lexerElement(el))
	}
	return b.String()
}

// lexerElement translates one element. Suffix operators are appended
// in regular expression style; a base longer than a single atom is
// parenthesized first.
func (t *translator) lexerElement(el *antlr.Element) string {
	if el == nil || el.Node == nil {
		fatalf("lexer element with no content")
	}
	var s string
	switch n := el.Node.(type) {
	case *antlr.Action:
		t.report(el.Pos, DiagUnsupported, "action block %s", n.Text)
		return lexerActionMarker
	case *antlr.Group:
		s = "(" + t.lexerBlock(el.Pos, n.Block) + ")"
	case *antlr.Labeled:
		s = t.lexerElement(&antlr.Element{
			Pos:  el.Pos,
			Node: n.Node,
		})
	default:
		s = t.lexerAtom(el.Pos, n)
	}
	if s == "" || el.Suffix == antlr.NoSuffix {
		return s
	}
	if !isLexerAtom(s) {
		s = "(" + s + ")"
	}
	s += el.Suffix.String()
	if el.NonGreedy {
		s += "?"
	}
	return s
}

func (t *translator) lexerAtom(pos antlr.Pos, n antlr.Node) string {
	switch n := n.(type) {
	case *antlr.Literal:
		return Literal(n.Text).String()
	case *antlr.TokenRef:
		return TokenRef(n.Name).String()
	case *antlr.RuleRef:
		return RuleRef(n.Name).String()
	case *antlr.CharRange:
		lo, hi := rangeBounds(n)
		return "[" + lo + "-" + hi + "]"
	case *antlr.CharSet:
		t.report(pos, DiagUnsupported, "character set %s", n.Text)
		return ""
	case *antlr.Wildcard:
		t.report(pos, DiagUnsupported, "wildcard")
		return ""
	case *antlr.NotSet:
		t.report(pos, DiagUnsupported, "negated set")
		return ""
	default:
		fatalf("unknown lexer atom %#v", n)
	}
	panic("unreachable")
}

// isLexerAtom reports whether s reads as a single unit, so that a
// suffix appended to it applies to all of it.
func isLexerAtom(s string) bool {
	if utf8.RuneCountInString(s) == 1 {
		return true
	}
	switch s[0] {
	case '\'':
		return closingQuote(s, 0) == len(s)-1
	case '[':
		return strings.IndexByte(s, ']') == len(s)-1
	case '(':
		return matchingParen(s) == len(s)-1
	case '$':
		return !strings.ContainsAny(s[1:], "$'[(|")
	}
	return false
}

// matchingParen returns the index of the parenthesis closing the one
// at s[0], or -1. Parentheses inside quoted literals are not counted.
func matchingParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			i = closingQuote(s, i)
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// closingQuote returns the index of the quote ending the literal that
// starts at s[i], or len(s) if it is unterminated.
func closingQuote(s string, i int) int {
	for i++; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '\'':
			return i
		}
	}
	return len(s)
}
