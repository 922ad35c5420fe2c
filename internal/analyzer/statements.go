package analyzer

import (
	"strings"

	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/diagnostics"
	"github.com/lispcore/c0i/internal/sidetables"
)

// analyzeFunction enters a fresh function-frame scope, binds each fixed
// parameter (and the rest parameter, if any) to a local slot, analyzes
// the body as a statement list, then records the facts the compiler
// needs — ParamVarIDs, BaseFrameSize, Captures — both on the function's
// own AST node and under its function id, so later code can reach them
// either way (a Lambda expression has the node in hand; a call through a
// named function or a capture only has the id).
func (a *Analyzer) analyzeFunction(parent *scope, fn *ast.FunctionDef, funcID int, nameChain []string) {
	displayName := "<lambda>"
	if fn.Name != nil {
		displayName = *fn.Name
	}
	resolved := strings.Join(append(append([]string{}, nameChain...), displayName), ".")

	a.trail.Push("analyze function " + resolved)
	defer a.trail.Pop()

	a.nodes.Set(fn, sidetables.AttrFunctionID, funcID)
	a.nodes.Set(fn, sidetables.AttrFunctionName, displayName)
	a.funcs.Set(funcID, sidetables.AttrFunctionName, displayName)
	a.funcs.Set(funcID, sidetables.AttrResolvedFunctionName, resolved)

	fnScope := newFunctionScope(parent)

	paramIDs := make([]int, 0, len(fn.Params))
	for _, p := range fn.Params {
		a.checkReserved(p, fn.Pos())
		paramIDs = append(paramIDs, fnScope.addVar(p))
	}
	if fn.Rest != nil {
		a.checkReserved(*fn.Rest, fn.Pos())
		restID := fnScope.addVar(*fn.Rest)
		a.funcs.Set(funcID, sidetables.AttrRestVarID, restID)
		a.nodes.Set(fn, sidetables.AttrRestVarID, restID)
	}

	childChain := append(append([]string{}, nameChain...), displayName)
	a.analyzeStatementList(fnScope, fn.Body, childChain)

	a.funcs.Set(funcID, sidetables.AttrParamVarIDs, paramIDs)
	a.funcs.Set(funcID, sidetables.AttrBaseFrameSize, fnScope.frame.regAlloc)
	a.funcs.Set(funcID, sidetables.AttrCaptures, fnScope.frame.captureEntries)
	a.nodes.Set(fn, sidetables.AttrParamVarIDs, paramIDs)
	a.nodes.Set(fn, sidetables.AttrBaseFrameSize, fnScope.frame.regAlloc)
	a.nodes.Set(fn, sidetables.AttrCaptures, fnScope.frame.captureEntries)
}

// analyzeStatementList pushes a fresh block scope, pre-declares every
// named function appearing directly in stmts (so mutual recursion among
// sibling functions resolves regardless of textual order), then analyzes
// each statement left to right.
func (a *Analyzer) analyzeStatementList(parent *scope, stmts []ast.TopLevel, nameChain []string) {
	bs := newBlockScope(parent)

	type pendingFn struct {
		fn *ast.FunctionDef
		id int
	}
	pendings := make([]pendingFn, 0, len(stmts))

	for _, st := range stmts {
		fd, ok := st.(*ast.FunctionDef)
		if !ok {
			continue
		}
		if fd.Name == nil {
			a.fail(fd.Pos(), diagnostics.ErrStructural,
				"a function literal cannot appear directly as a statement; bind it to a name or use it as an expression")
		}
		a.checkReserved(*fd.Name, fd.Pos())
		id := a.allocFuncID()
		bs.addFunc(*fd.Name, id)
		pendings = append(pendings, pendingFn{fd, id})
	}

	pi := 0
	for _, st := range stmts {
		switch n := st.(type) {
		case *ast.FunctionDef:
			p := pendings[pi]
			pi++
			a.analyzeFunction(bs, p.fn, p.id, nameChain)
		case *ast.Bind:
			a.analyzeExpr(bs, nameChain, n.Init)
			a.checkReserved(n.Name, n.Pos())
			slot := bs.addVar(n.Name)
			a.nodes.Set(n, sidetables.AttrVarID, slot)
		case *ast.ExprStmt:
			a.analyzeExpr(bs, nameChain, n.X)
		default:
			a.fail(n.Pos(), diagnostics.ErrStructural, "unrecognized statement form")
		}
	}
}
