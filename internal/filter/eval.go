package filter

import (
	"github.com/KaramelBytes/tabmap-cli/internal/infer"
	"github.com/KaramelBytes/tabmap-cli/internal/table"
)

// Column describes one addressable column for compilation. Names resolve to
// the first column carrying them.
type Column struct {
	Name string
	Type infer.FieldType
}

// Filter is a compiled expression bound to column positions.
type Filter struct {
	src  string
	root node
}

type node interface {
	match(row []table.Value) bool
}

type andNode struct{ l, r node }

func (n andNode) match(row []table.Value) bool { return n.l.match(row) && n.r.match(row) }

type orNode struct{ l, r node }

func (n orNode) match(row []table.Value) bool { return n.l.match(row) || n.r.match(row) }

// numCmp compares a column coerced to numbers. Cells that do not parse
// never match, whatever the operator.
type numCmp struct {
	col int
	op  Op
	lit float64
}

func (c numCmp) match(row []table.Value) bool {
	if c.col >= len(row) {
		return false
	}
	v, ok := row[c.col].Number()
	if !ok {
		return false
	}
	switch c.op {
	case Eq:
		return v == c.lit
	case Ne:
		return v != c.lit
	case Lt:
		return v < c.lit
	case Le:
		return v <= c.lit
	case Gt:
		return v > c.lit
	default:
		return v >= c.lit
	}
}

// textCmp compares the verbatim cell text.
type textCmp struct {
	col int
	eq  bool
	lit string
}

func (c textCmp) match(row []table.Value) bool {
	if c.col >= len(row) {
		return false
	}
	return (row[c.col].String() == c.lit) == c.eq
}

// Compile parses expr and binds it to cols. A column is compared as a number
// when its type is numeric, when the literal is an unquoted number, or when
// the operator is an ordering operator. Ordering against a non-numeric
// literal is an error; equality against one falls back to text.
func Compile(expr string, cols []Column) (*Filter, error) {
	e, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	f := &Filter{src: expr}
	if e == nil {
		return f, nil
	}
	index := make(map[string]int, len(cols))
	for i := len(cols) - 1; i >= 0; i-- {
		index[cols[i].Name] = i
	}
	f.root, err = bind(expr, e, cols, index)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func bind(src string, e Expr, cols []Column, index map[string]int) (node, error) {
	switch e := e.(type) {
	case *And:
		l, err := bind(src, e.Left, cols, index)
		if err != nil {
			return nil, err
		}
		r, err := bind(src, e.Right, cols, index)
		if err != nil {
			return nil, err
		}
		return andNode{l, r}, nil
	case *Or:
		l, err := bind(src, e.Left, cols, index)
		if err != nil {
			return nil, err
		}
		r, err := bind(src, e.Right, cols, index)
		if err != nil {
			return nil, err
		}
		return orNode{l, r}, nil
	case *Comparison:
		col, ok := index[e.Column]
		if !ok {
			return nil, errorf(src, e.Pos, "unknown column %q", e.Column)
		}
		numeric := cols[col].Type.Numeric() || e.Op.Ordering() ||
			(!e.Quoted && IsNumericLiteral(e.Value))
		if numeric {
			if lit, ok := table.ParseNumber(e.Value); ok {
				return numCmp{col: col, op: e.Op, lit: lit}, nil
			}
			if e.Op.Ordering() {
				return nil, errorf(src, e.Pos, "operator %s needs a numeric value, got %q", e.Op, e.Value)
			}
		}
		return textCmp{col: col, eq: e.Op == Eq, lit: e.Value}, nil
	}
	return nil, errorf(src, 0, "unsupported expression")
}

// Empty reports whether the filter passes every row.
func (f *Filter) Empty() bool { return f == nil || f.root == nil }

// Match reports whether row satisfies the filter.
func (f *Filter) Match(row []table.Value) bool {
	if f.Empty() {
		return true
	}
	return f.root.match(row)
}

// Apply returns the indexes of matching rows in order.
func (f *Filter) Apply(rows [][]table.Value) []int {
	out := make([]int, 0, len(rows))
	for i, row := range rows {
		if f.Match(row) {
			out = append(out, i)
		}
	}
	return out
}

func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.src
}
