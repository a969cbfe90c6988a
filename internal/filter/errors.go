package filter

import "fmt"

// SyntaxError reports a malformed or unresolvable filter expression.
type SyntaxError struct {
	Expr string
	Pos  int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("filter: %s at position %d", e.Msg, e.Pos+1)
}

func errorf(expr string, pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Expr: expr, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}
