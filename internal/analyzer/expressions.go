package analyzer

import (
	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/diagnostics"
	"github.com/lispcore/c0i/internal/sidetables"
)

// fixedArity gives the exact argument count a builtin operator requires,
// for the ones where the toolchain's calling convention admits no
// variadic form. Operators absent from this table (and, or, if, loop,
// spawn, begin, vector, object) are not arity-checked here; of these,
// the compiler checks only if (2 or 3 arguments) and spawn (at least a
// function argument) against their own structural shape.
var fixedArity = map[string]int{
	"+": 2, "-": 2, "*": 2, "/": 2, "%": 2,
	"=": 2, "<": 2, ">": 2, "<=": 2, ">=": 2, "!=": 2,
	"not": 1, "~": 1,
	"vector-ref": 2, "vector-set!": 3, "vector-push!": 2, "vector-length": 1,
	"object-get": 2, "object-set!": 3,
	"string-length": 1, "string-equals?": 2, "string-concat": 2,
	"raise": 1, "break": 0, "continue": 0, "pass": 0,
}

func (a *Analyzer) analyzeExpr(s *scope, nameChain []string, e ast.Expr) {
	switch n := e.(type) {
	case *ast.Literal:
		a.analyzeLiteral(n)

	case *ast.Variable:
		ref, ok := s.lookup(n.Name, a.ffi)
		if !ok {
			a.fail(n.Pos(), diagnostics.ErrNameResolution, "undefined name: %s", n.Name)
		}
		a.nodes.Set(n, sidetables.AttrRef, ref)

	case *ast.Lambda:
		funcID := a.allocFuncID()
		a.analyzeFunction(s, n.Fn, funcID, nameChain)
		a.nodes.Set(n, sidetables.AttrFunctionID, funcID)

	case *ast.LetExpr:
		a.analyzeLet(s, nameChain, n)

	case *ast.Assign:
		a.analyzeAssign(s, nameChain, n)

	case *ast.Cond:
		for _, arm := range n.Arms {
			a.analyzeExpr(s, nameChain, arm.Test)
			a.analyzeExpr(s, nameChain, arm.Consequent)
		}
		if n.Else != nil {
			a.analyzeExpr(s, nameChain, n.Else)
		}

	case *ast.Call:
		a.analyzeCall(s, nameChain, n)

	default:
		a.fail(e.Pos(), diagnostics.ErrStructural, "unrecognized expression form")
	}
}

func (a *Analyzer) analyzeLiteral(l *ast.Literal) {
	switch l.Kind {
	case ast.LitStr:
		constID := a.consts.AddString(l.Str)
		a.nodes.Set(l, sidetables.AttrConstID, constID)
	case ast.LitPair:
		a.analyzeLiteral(l.Car)
		a.analyzeLiteral(l.Cdr)
	case ast.LitUnsupported:
		a.fail(l.Pos(), diagnostics.ErrUnsupportedLiteral, "unsupported literal: %s", l.UnsupportedKind)
	}
}

func (a *Analyzer) analyzeLet(s *scope, nameChain []string, le *ast.LetExpr) {
	ls := newBlockScope(s)

	// Every initializer sees the enclosing scope, never a sibling binding
	// from the same let: `(let ((x 1) (y x)) ...)` fails to resolve `x`
	// in y's initializer rather than silently shadowing.
	for _, b := range le.Binds {
		a.analyzeExpr(s, nameChain, b.Init)
	}

	varIDs := make([]int, len(le.Binds))
	for i, b := range le.Binds {
		a.checkReserved(b.Name, le.Pos())
		varIDs[i] = ls.addVar(b.Name)
	}
	a.nodes.Set(le, sidetables.AttrLetVarIDs, varIDs)

	a.analyzeStatementList(ls, le.Body, nameChain)
}

func (a *Analyzer) analyzeAssign(s *scope, nameChain []string, asn *ast.Assign) {
	ref, ok := s.lookup(asn.Name, a.ffi)
	if !ok {
		a.fail(asn.Pos(), diagnostics.ErrNameResolution, "undefined name: %s", asn.Name)
	}
	if ref.Kind != RefVariable || ref.IsCapture {
		a.fail(asn.Pos(), diagnostics.ErrNameResolution,
			"cannot assign to %s: only a local binding in the current function can be reassigned", asn.Name)
	}
	a.analyzeExpr(s, nameChain, asn.Value)
	a.nodes.Set(asn, sidetables.AttrRef, ref)
}

func (a *Analyzer) analyzeCall(s *scope, nameChain []string, c *ast.Call) {
	if callee, ok := c.Callee.(*ast.Variable); ok && isBuiltinOperator(callee.Name) {
		if want, checked := fixedArity[callee.Name]; checked && len(c.Args) != want {
			a.fail(c.Pos(), diagnostics.ErrArity,
				"%s expects %d argument(s), got %d", callee.Name, want, len(c.Args))
		}
		for _, arg := range c.Args {
			a.analyzeExpr(s, nameChain, arg)
		}
		return
	}

	a.analyzeExpr(s, nameChain, c.Callee)
	for _, arg := range c.Args {
		a.analyzeExpr(s, nameChain, arg)
	}
}
