// Package filter parses terse row filter expressions such as
// "Age>30 and City=Boston" into an expression tree, renders them in a
// canonical quoted form, and evaluates them against table rows.
package filter

// Op is a comparison operator.
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

func (o Op) String() string {
	switch o {
	case Ne:
		return "!="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Gt:
		return ">"
	case Ge:
		return ">="
	default:
		return "=="
	}
}

// Ordering reports whether the operator only makes sense on numbers.
func (o Op) Ordering() bool { return o == Lt || o == Le || o == Gt || o == Ge }

// Expr is a node of a parsed filter.
type Expr interface {
	String() string
}

// Comparison tests one column against a literal.
type Comparison struct {
	Column string
	Op     Op
	Value  string
	// Quoted is set when the literal was written in quotes; quoted
	// literals are always text.
	Quoted bool
	// Pos is the byte offset of the comparison in the source expression.
	Pos int
}

// And matches when both sides match.
type And struct{ Left, Right Expr }

// Or matches when either side matches.
type Or struct{ Left, Right Expr }
