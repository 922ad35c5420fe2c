package ast

import "github.com/lispcore/c0i/internal/token"

// FunctionDef is a named or anonymous function. A top-level occurrence
// must carry Name; a Lambda expression wraps one that may not.
type FunctionDef struct {
	Identity

	Name   *string // nil for an anonymous lambda
	Params []string
	Rest   *string // rest-parameter name, nil if the function is fixed-arity
	Body   []TopLevel
}

func NewFunctionDef(pos token.Pos, name *string, params []string, rest *string, body []TopLevel) *FunctionDef {
	return &FunctionDef{Identity: newIdentity(pos), Name: name, Params: params, Rest: rest, Body: body}
}

func (f *FunctionDef) topLevel() {}

// Bind is a top-level or function-body name binding: `(define name expr)`-shaped.
type Bind struct {
	Identity

	Name string
	Init Expr
}

func NewBind(pos token.Pos, name string, init Expr) *Bind {
	return &Bind{Identity: newIdentity(pos), Name: name, Init: init}
}

func (b *Bind) topLevel() {}

// ExprStmt is a bare expression used as a top-level (function-body)
// statement; its value is the enclosing block's value if it is last.
type ExprStmt struct {
	Identity

	X Expr
}

func NewExprStmt(pos token.Pos, x Expr) *ExprStmt {
	return &ExprStmt{Identity: newIdentity(pos), X: x}
}

func (e *ExprStmt) topLevel() {}
