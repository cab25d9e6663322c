package antlr2sitter

import (
	"github.com/rogpeppe/misc/antlr2sitter/antlr"
)

// parserRule returns the body of a parser rule. A rule without a body
// translates to an empty expression.
func (t *translator) parserRule() string {
	if t.rule.Body == nil {
		return ""
	}
	return t.block(t.rule.Pos, t.rule.Body).String()
}

// block translates a list of alternatives. A single alternative is
// used as is; otherwise the alternatives become a choice in their
// declared order.
func (t *translator) block(pos antlr.Pos, b *antlr.Block) *Expr {
	if b == nil {
		fatalf("block with no alternatives list")
	}
	if len(b.Alts) == 0 {
		return t.mark(pos, Empty(), "no alternatives")
	}
	alts := make([]*Expr, len(b.Alts))
	for i, a := range b.Alts {
		alts[i] = t.alt(a)
	}
	return Choice(alts...)
}

// alt translates an alternative into the sequence of its elements.
// A label applies to the whole alternative.
func (t *translator) alt(a *antlr.Alt) *Expr {
	var e *Expr
	if len(a.Elements) == 0 {
		e = t.mark(a.Pos, Empty(), "empty alternative")
	} else {
		es := make([]*Expr, len(a.Elements))
		for i, el := range a.Elements {
			es[i] = t.element(el)
		}
		e = Seq(es...)
	}
	if a.Label != "" {
		e = Field(a.Label, e)
	}
	return e
}

// element translates an element, then applies its suffix operator to
// the result, including any field label.
func (t *translator) element(el *antlr.Element) *Expr {
	if el == nil || el.Node == nil {
		fatalf("element with no content")
	}
	var e *Expr
	switch n := el.Node.(type) {
	case *antlr.Action:
		m := Unsupported("!!action-block not supported!!")
		if n.Predicate {
			return t.mark(el.Pos, m, "semantic predicate %s", n.Text)
		}
		return t.mark(el.Pos, m, "action block %s", n.Text)
	case *antlr.Labeled:
		e = Field(n.Label, t.labeled(el.Pos, n.Node))
	case *antlr.Group:
		e = t.block(el.Pos, n.Block)
	default:
		e = t.atom(el.Pos, n)
	}
	return Suffix(e, el.Suffix)
}

// labeled translates the target of a label, which is an atom or a group.
func (t *translator) labeled(pos antlr.Pos, n antlr.Node) *Expr {
	switch n := n.(type) {
	case nil:
		fatalf("label with no target")
	case *antlr.Group:
		return t.block(pos, n.Block)
	case *antlr.Labeled, *antlr.Action:
		fatalf("unexpected %T as label target", n)
	}
	return t.atom(pos, n)
}

func (t *translator) atom(pos antlr.Pos, n antlr.Node) *Expr {
	switch n := n.(type) {
	case *antlr.Literal:
		return Literal(n.Text)
	case *antlr.TokenRef:
		return TokenRef(n.Name)
	case *antlr.RuleRef:
		return RuleRef(n.Name)
	case *antlr.CharRange:
		lo, hi := rangeBounds(n)
		return CharRange(lo, hi)
	case *antlr.NotSet:
		return t.mark(pos, Unsupported("!!not-set not supported!!"), "negated set")
	case *antlr.CharSet:
		return t.mark(pos, Unsupported("!!char-set not supported!!"), "character set %s", n.Text)
	case *antlr.Wildcard:
		return t.mark(pos, Unsupported("!!wildcard not supported!!"), "wildcard")
	default:
		fatalf("unknown atom %#v", n)
	}
	panic("unreachable")
}

// rangeBounds returns the unquoted bounds of r.
func rangeBounds(r *antlr.CharRange) (lo, hi string) {
	if r.Lo == "" || r.Hi == "" {
		fatalf("character range without two bounds")
	}
	return antlr.Unquote(r.Lo), antlr.Unquote(r.Hi)
}
