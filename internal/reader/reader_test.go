package reader_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/reader"
)

func TestParseNamedFunction(t *testing.T) {
	program, err := reader.Parse("t.c0i", "(define (add a b) (+ a b))")
	require.NoError(t, err)
	require.Len(t, program, 1)

	fd, ok := program[0].(*ast.FunctionDef)
	require.True(t, ok)
	require.NotNil(t, fd.Name)
	require.Equal(t, "add", *fd.Name)
	require.Equal(t, []string{"a", "b"}, fd.Params)
	require.Nil(t, fd.Rest)
	require.Len(t, fd.Body, 1)

	stmt, ok := fd.Body[0].(*ast.ExprStmt)
	require.True(t, ok)
	call, ok := stmt.X.(*ast.Call)
	require.True(t, ok)
	callee, ok := call.Callee.(*ast.Variable)
	require.True(t, ok)
	require.Equal(t, "+", callee.Name)
	require.Len(t, call.Args, 2)
}

func TestParseRestParameter(t *testing.T) {
	program, err := reader.Parse("t.c0i", "(define (f a . rest) a)")
	require.NoError(t, err)
	fd := program[0].(*ast.FunctionDef)
	require.Equal(t, []string{"a"}, fd.Params)
	require.NotNil(t, fd.Rest)
	require.Equal(t, "rest", *fd.Rest)
}

func TestParseLambdaAndBind(t *testing.T) {
	src := `
(define (use)
  (define addone (lambda (x) (+ x 1)))
  (addone 1))
`
	program, err := reader.Parse("t.c0i", src)
	require.NoError(t, err)
	fd := program[0].(*ast.FunctionDef)
	require.Len(t, fd.Body, 2)

	bind, ok := fd.Body[0].(*ast.Bind)
	require.True(t, ok)
	require.Equal(t, "addone", bind.Name)

	lam, ok := bind.Init.(*ast.Lambda)
	require.True(t, ok)
	require.Nil(t, lam.Fn.Name)
	require.Equal(t, []string{"x"}, lam.Fn.Params)
}

func TestParseLetAndSet(t *testing.T) {
	src := `(define (f) (let ((x 1) (y 2)) (set! x 3) x))`
	program, err := reader.Parse("t.c0i", src)
	require.NoError(t, err)
	fd := program[0].(*ast.FunctionDef)
	stmt := fd.Body[0].(*ast.ExprStmt)
	let, ok := stmt.X.(*ast.LetExpr)
	require.True(t, ok)
	require.Len(t, let.Binds, 2)
	require.Equal(t, "x", let.Binds[0].Name)
	require.Equal(t, "y", let.Binds[1].Name)
	require.Len(t, let.Body, 2)

	assignStmt := let.Body[0].(*ast.ExprStmt)
	assign, ok := assignStmt.X.(*ast.Assign)
	require.True(t, ok)
	require.Equal(t, "x", assign.Name)
}

func TestParseCondWithElse(t *testing.T) {
	src := `(define (f x) (cond ((= x 1) 1) ((= x 2) 2) (else 0)))`
	program, err := reader.Parse("t.c0i", src)
	require.NoError(t, err)
	fd := program[0].(*ast.FunctionDef)
	stmt := fd.Body[0].(*ast.ExprStmt)
	cond, ok := stmt.X.(*ast.Cond)
	require.True(t, ok)
	require.Len(t, cond.Arms, 2)
	require.NotNil(t, cond.Else)
}

func TestParseLiterals(t *testing.T) {
	src := `(define (f) (begin 1 2.5 "hi" #t #f))`
	program, err := reader.Parse("t.c0i", src)
	require.NoError(t, err)
	fd := program[0].(*ast.FunctionDef)
	stmt := fd.Body[0].(*ast.ExprStmt)
	call := stmt.X.(*ast.Call)
	require.Len(t, call.Args, 5)

	intLit := call.Args[0].(*ast.Literal)
	require.Equal(t, ast.LitInt, intLit.Kind)
	require.Equal(t, int64(1), intLit.Int)

	floatLit := call.Args[1].(*ast.Literal)
	require.Equal(t, ast.LitFloat, floatLit.Kind)
	require.InDelta(t, 2.5, floatLit.Float, 1e-9)

	strLit := call.Args[2].(*ast.Literal)
	require.Equal(t, ast.LitStr, strLit.Kind)
	require.Equal(t, "hi", strLit.Str)

	boolLit := call.Args[3].(*ast.Literal)
	require.Equal(t, ast.LitBool, boolLit.Kind)
	require.True(t, boolLit.Bool)

	falseLit := call.Args[4].(*ast.Literal)
	require.False(t, falseLit.Bool)
}

func TestParseQuotedPairAndSymbol(t *testing.T) {
	src := `(define (f) '(1 . 2))`
	program, err := reader.Parse("t.c0i", src)
	require.NoError(t, err)
	fd := program[0].(*ast.FunctionDef)
	stmt := fd.Body[0].(*ast.ExprStmt)
	lit := stmt.X.(*ast.Literal)
	require.Equal(t, ast.LitPair, lit.Kind)
	require.Equal(t, ast.LitInt, lit.Car.Kind)
	require.Equal(t, int64(1), lit.Car.Int)
	require.Equal(t, ast.LitInt, lit.Cdr.Kind)
	require.Equal(t, int64(2), lit.Cdr.Int)
}

func TestParseQuotedSymbolIsUnsupported(t *testing.T) {
	program, err := reader.Parse("t.c0i", "(define (f) 'foo)")
	require.NoError(t, err)
	fd := program[0].(*ast.FunctionDef)
	stmt := fd.Body[0].(*ast.ExprStmt)
	lit := stmt.X.(*ast.Literal)
	require.Equal(t, ast.LitUnsupported, lit.Kind)
	require.Equal(t, "symbol", lit.UnsupportedKind)
}

func TestParseErrorOnUnterminatedString(t *testing.T) {
	_, err := reader.Parse("t.c0i", `(define (f) "unterminated)`)
	require.Error(t, err)
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	_, err := reader.Parse("t.c0i", `(define (f) )x)`)
	require.Error(t, err)
}
