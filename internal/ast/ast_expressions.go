package ast

import "github.com/lispcore/c0i/internal/token"

// LitKind tags the variant held by a Literal.
type LitKind int

const (
	LitNil LitKind = iota
	LitBool
	LitChar
	LitInt
	LitUint
	LitFloat
	LitStr
	LitPair
	// LitUnsupported marks a symbol/dict/vector literal reaching source
	// value position; the analyzer rejects it with an "unsupported
	// literal" error carrying UnsupportedKind.
	LitUnsupported
)

// Literal is an atom, or a Pair whose Car/Cdr are themselves literals.
// Only atoms and pairs are handled by the compiler; vectors, dicts and
// bare symbols are parsed into a Literal with Kind == LitUnsupported so
// the analyzer can report a precise "unsupported literal" error instead
// of panicking deeper in the pipeline.
type Literal struct {
	Identity

	Kind LitKind

	Bool  bool
	Char  rune
	Int   int64
	Uint  uint64
	Float float64
	Str   string

	Car, Cdr *Literal // valid when Kind == LitPair

	UnsupportedKind string // e.g. "vector", "dict", "symbol"; valid when Kind == LitUnsupported
}

func NewAtomLiteral(pos token.Pos, kind LitKind) *Literal {
	return &Literal{Identity: newIdentity(pos), Kind: kind}
}

func NewBoolLiteral(pos token.Pos, v bool) *Literal {
	l := NewAtomLiteral(pos, LitBool)
	l.Bool = v
	return l
}

func NewIntLiteral(pos token.Pos, v int64) *Literal {
	l := NewAtomLiteral(pos, LitInt)
	l.Int = v
	return l
}

func NewStrLiteral(pos token.Pos, v string) *Literal {
	l := NewAtomLiteral(pos, LitStr)
	l.Str = v
	return l
}

func NewPairLiteral(pos token.Pos, car, cdr *Literal) *Literal {
	l := NewAtomLiteral(pos, LitPair)
	l.Car, l.Cdr = car, cdr
	return l
}

func NewUnsupportedLiteral(pos token.Pos, kind string) *Literal {
	l := NewAtomLiteral(pos, LitUnsupported)
	l.UnsupportedKind = kind
	return l
}

func (l *Literal) expr() {}

// Variable is a bare name reference. Whether it resolves to a local, a
// capture, a named function, or an FFI is entirely the analyzer's
// business (see analyzer.Ref); the AST node carries only the source name.
type Variable struct {
	Identity

	Name string
}

func NewVariable(pos token.Pos, name string) *Variable {
	return &Variable{Identity: newIdentity(pos), Name: name}
}

func (v *Variable) expr() {}

// Lambda wraps an anonymous FunctionDef as an expression.
type Lambda struct {
	Identity

	Fn *FunctionDef
}

func NewLambda(pos token.Pos, fn *FunctionDef) *Lambda {
	return &Lambda{Identity: newIdentity(pos), Fn: fn}
}

func (l *Lambda) expr() {}

// LetBind is one (name expr) pair of a LetExpr, evaluated strictly
// left-to-right with each initializer analyzed in the enclosing scope.
type LetBind struct {
	Name string
	Init Expr
}

// LetExpr is `(let ((n1 e1) (n2 e2) ...) body...)`.
type LetExpr struct {
	Identity

	Binds []LetBind
	Body  []TopLevel
}

func NewLetExpr(pos token.Pos, binds []LetBind, body []TopLevel) *LetExpr {
	return &LetExpr{Identity: newIdentity(pos), Binds: binds, Body: body}
}

func (l *LetExpr) expr() {}

// Assign is `(set! name expr)`. The analyzer rejects assignment to a
// capture, a named function, or an FFI name.
type Assign struct {
	Identity

	Name  string
	Value Expr
}

func NewAssign(pos token.Pos, name string, value Expr) *Assign {
	return &Assign{Identity: newIdentity(pos), Name: name, Value: value}
}

func (a *Assign) expr() {}

// CondArm is one (test consequent) pair of a Cond.
type CondArm struct {
	Test       Expr
	Consequent Expr
}

// Cond is a multi-arm conditional with an optional trailing else.
type Cond struct {
	Identity

	Arms []CondArm
	Else Expr // nil when no else arm is present
}

func NewCond(pos token.Pos, arms []CondArm, elseExpr Expr) *Cond {
	return &Cond{Identity: newIdentity(pos), Arms: arms, Else: elseExpr}
}

func (c *Cond) expr() {}

// Call is a function application; Callee may be a Variable naming a
// builtin operator, a user function, an FFI, or any other expression
// producing a callable value.
type Call struct {
	Identity

	Callee Expr
	Args   []Expr
}

func NewCall(pos token.Pos, callee Expr, args []Expr) *Call {
	return &Call{Identity: newIdentity(pos), Callee: callee, Args: args}
}

func (c *Call) expr() {}
