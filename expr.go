package antlr2sitter

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/rogpeppe/misc/antlr2sitter/antlr"
)

// Op is the kind of a combinator expression.
type Op uint8

const (
	OpLiteral     Op = 1 + iota // literal string
	OpToken                     // reference to a token ($.NAME)
	OpRule                      // reference to a rule ($.name)
	OpSeq                       // seq(Sub...)
	OpChoice                    // choice(Sub...)
	OpRepeat                    // repeat(Sub[0])
	OpRepeat1                   // repeat1(Sub[0])
	OpOptional                  // optional(Sub[0])
	OpField                     // field(Name, Sub[0])
	OpCharRange                 // /[Lo-Hi]/
	OpUnsupported               // marker needing manual follow-up
)

// Expr is a combinator expression in the target grammar notation.
// Like regexp/syntax.Regexp, a single struct represents every kind of
// term and Op says which fields are meaningful.
type Expr struct {
	Op Op
	// Name holds the literal text, reference name, field label or
	// marker text, depending on Op.
	Name string
	Lo   string
	Hi   string
	Sub  []*Expr
	// Kind records why an OpUnsupported marker was substituted. It is
	// the kind of the diagnostic reported alongside the marker.
	Kind DiagKind
}

const emptyMarker = "!!error!!"

// Literal returns a literal expression. Delimiting quotes are stripped.
func Literal(text string) *Expr {
	return &Expr{
		Op:   OpLiteral,
		Name: antlr.Unquote(text),
	}
}

// TokenRef returns a reference to the named token.
func TokenRef(name string) *Expr {
	return &Expr{
		Op:   OpToken,
		Name: name,
	}
}

// RuleRef returns a reference to the named rule.
func RuleRef(name string) *Expr {
	return &Expr{
		Op:   OpRule,
		Name: name,
	}
}

// Seq returns the sequence of es. No sequence is built for a single
// element, and an empty sequence yields the structural-empty marker.
func Seq(es ...*Expr) *Expr {
	return collapse(OpSeq, es)
}

// Choice returns the ordered choice between es, collapsing like Seq.
func Choice(es ...*Expr) *Expr {
	return collapse(OpChoice, es)
}

func collapse(op Op, es []*Expr) *Expr {
	switch len(es) {
	case 0:
		return Empty()
	case 1:
		return es[0]
	}
	return &Expr{
		Op:  op,
		Sub: es,
	}
}

// Field labels e.
func Field(label string, e *Expr) *Expr {
	return &Expr{
		Op:   OpField,
		Name: label,
		Sub:  []*Expr{e},
	}
}

func suffixOp(e *Expr, op Op) *Expr {
	return &Expr{
		Op:  op,
		Sub: []*Expr{e},
	}
}

// Repeat matches e zero or more times.
func Repeat(e *Expr) *Expr {
	return suffixOp(e, OpRepeat)
}

// Repeat1 matches e one or more times.
func Repeat1(e *Expr) *Expr {
	return suffixOp(e, OpRepeat1)
}

// Optional matches e zero or one time.
func Optional(e *Expr) *Expr {
	return suffixOp(e, OpOptional)
}

// Suffix wraps e according to sfx. The wrapper always applies to e as
// a whole.
func Suffix(e *Expr, sfx antlr.Suffix) *Expr {
	switch sfx {
	case antlr.Star:
		return Repeat(e)
	case antlr.Plus:
		return Repeat1(e)
	case antlr.Question:
		return Optional(e)
	}
	return e
}

// CharRange returns a character range. The bounds are not checked.
func CharRange(lo, hi string) *Expr {
	return &Expr{
		Op: OpCharRange,
		Lo: lo,
		Hi: hi,
	}
}

// Unsupported returns a marker standing in for a construct that has no
// translation.
func Unsupported(marker string) *Expr {
	return &Expr{
		Op:   OpUnsupported,
		Name: marker,
		Kind: DiagUnsupported,
	}
}

// Empty returns the marker used when a sequence or choice has nothing
// in it.
func Empty() *Expr {
	return &Expr{
		Op:   OpUnsupported,
		Name: emptyMarker,
		Kind: DiagEmpty,
	}
}

// String returns e in the target grammar's JavaScript notation.
func (e *Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e *Expr) write(b *strings.Builder) {
	switch e.Op {
	case OpLiteral:
		b.WriteByte('\'')
		b.WriteString(e.Name)
		b.WriteByte('\'')
	case OpToken, OpRule:
		b.WriteString("$.")
		b.WriteString(e.Name)
	case OpSeq:
		writeCall(b, "seq", e.Sub)
	case OpChoice:
		writeCall(b, "choice", e.Sub)
	case OpRepeat:
		writeCall(b, "repeat", e.Sub)
	case OpRepeat1:
		writeCall(b, "repeat1", e.Sub)
	case OpOptional:
		writeCall(b, "optional", e.Sub)
	case OpField:
		b.WriteString("field('")
		b.WriteString(e.Name)
		b.WriteString("', ")
		e.Sub[0].write(b)
		b.WriteByte(')')
	case OpCharRange:
		b.WriteString("/[")
		b.WriteString(e.Lo)
		b.WriteByte('-')
		b.WriteString(e.Hi)
		b.WriteString("]/")
	case OpUnsupported:
		b.WriteString(e.Name)
	default:
		panic(errors.AssertionFailedf("unknown expression op %d", e.Op))
	}
}

func writeCall(b *strings.Builder, fn string, args []*Expr) {
	b.WriteString(fn)
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.write(b)
	}
	b.WriteByte(')')
}
