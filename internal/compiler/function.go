package compiler

import (
	"strings"

	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/bytecode"
	"github.com/lispcore/c0i/internal/diagnostics"
	"github.com/lispcore/c0i/internal/sidetables"
)

// compileFunction dequeues and compiles exactly one function's body,
// emitting its code contiguously into the shared code buffer. Register
// allocation starts at captureCount + BaseFrameSize: captures and
// params/locals already occupy [0, captureCount+BaseFrameSize), so the
// first temporary the body allocates is the next free register, with no
// further translation needed for temporaries (only analyzer-assigned
// slot ids — params, let binds, assignment targets — go through
// frame.translate).
func (c *Compiler) compileFunction(item pendingFunc) {
	funcID, fn := item.funcID, item.fn
	resolvedName := c.funcs.GetString(funcID, sidetables.AttrResolvedFunctionName)

	c.trail.Push("compile function " + resolvedName)
	defer c.trail.Pop()

	if c.trace != nil {
		c.trace(len(c.loopStack), strings.Split(resolvedName, "."))
	}

	captures := c.funcs.GetCaptures(funcID, sidetables.AttrCaptures)
	baseFrameSize := c.funcs.MustGet(funcID, sidetables.AttrBaseFrameSize).(int)
	paramIDs := c.funcs.GetIntSlice(funcID, sidetables.AttrParamVarIDs)

	fr := &frame{
		funcID:       funcID,
		entryAddr:    c.here(),
		captureCount: len(captures),
		argCount:     len(paramIDs),
		localCount:   len(captures) + baseFrameSize,
	}
	prev := c.cur
	c.cur = fr
	defer func() { c.cur = prev }()

	resultReg := c.compileStatementListValue(fn.Body, noTarget)
	c.emit(bytecode.Insc{Op: bytecode.ReturnOne, Src: resultReg})

	c.compiled[funcID] = bytecode.CompiledFunction{
		StartAddr: fr.entryAddr,
		ArgCount:  fr.argCount,
		RetCount:  1,
		StackSize: fr.localCount,
	}
	c.labels = append(c.labels, bytecode.FunctionLabel{
		FuncID: funcID,
		Name:   resolvedName,
		Pos:    fn.Pos().String(),
	})
}

// compileStatementListValue compiles an ordered top-level sequence
// (a function body or a let body) and yields the value of its last
// statement into target (or a fresh register if target == noTarget),
// matching the boundary behaviors "empty function body" and "let with
// empty body yields false".
func (c *Compiler) compileStatementListValue(stmts []ast.TopLevel, target int) int {
	t := c.target(target)
	if len(stmts) == 0 {
		c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
		return t
	}

	for i, st := range stmts {
		last := i == len(stmts)-1
		switch n := st.(type) {
		case *ast.FunctionDef:
			funcID := c.nodes.GetInt(n, sidetables.AttrFunctionID)
			c.enqueue(n, funcID)
			if last {
				c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
			}
		case *ast.Bind:
			reg := c.cur.translate(c.nodes.GetInt(n, sidetables.AttrVarID))
			c.compileExpr(n.Init, reg)
			if last {
				c.emit(bytecode.Insc{Op: bytecode.Move, Src: reg, Dst: t})
			}
		case *ast.ExprStmt:
			if last {
				c.compileExpr(n.X, t)
			} else {
				c.compileExpr(n.X, noTarget)
			}
		default:
			c.fail(st.Pos(), diagnostics.ErrStructural, "unrecognized statement form")
		}
	}
	return t
}
