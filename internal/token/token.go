// Package token holds the minimal source-location type threaded through
// the AST, the side tables and the diagnostics breadcrumb trail.
package token

import "fmt"

// Pos is a source location. It is optional on every AST node: the reader
// that produces the AST may omit it for synthesized nodes.
type Pos struct {
	File   string
	Line   int
	Column int
}

// String renders "file:line:col", or "?" when the position is the zero value.
func (p Pos) String() string {
	if p == (Pos{}) {
		return "?"
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether no location information is available.
func (p Pos) IsZero() bool {
	return p == (Pos{})
}
