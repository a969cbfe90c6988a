package filter

import (
	"regexp"
	"strings"
)

var (
	identRe   = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)
	numericRe = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// Translate parses expr and renders it in canonical form: back-quoted
// column names where needed, == for equality, bare numeric literals and
// double-quoted text. A blank expression translates to "".
func Translate(expr string) (string, error) {
	e, err := Parse(expr)
	if err != nil || e == nil {
		return "", err
	}
	return e.String(), nil
}

func (c *Comparison) String() string {
	col := c.Column
	if !identRe.MatchString(col) {
		col = "`" + col + "`"
	}
	val := c.Value
	if c.Quoted || !numericRe.MatchString(val) {
		val = `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(val) + `"`
	}
	return col + " " + c.Op.String() + " " + val
}

func (a *And) String() string {
	return group(a.Left) + " and " + group(a.Right)
}

func (o *Or) String() string {
	return o.Left.String() + " or " + o.Right.String()
}

// group parenthesizes an or-expression nested under and.
func group(e Expr) string {
	if _, ok := e.(*Or); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// IsNumericLiteral reports whether s is a plain signed integer or decimal.
func IsNumericLiteral(s string) bool { return numericRe.MatchString(s) }
