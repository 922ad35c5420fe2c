package compiler

import (
	"github.com/lispcore/c0i/internal/analyzer"
	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/bytecode"
	"github.com/lispcore/c0i/internal/diagnostics"
	"github.com/lispcore/c0i/internal/sidetables"
)

// compileIf lowers a 2- or 3-argument `if` call.
func (c *Compiler) compileIf(call *ast.Call, target int) int {
	if len(call.Args) < 2 || len(call.Args) > 3 {
		c.fail(call.Pos(), diagnostics.ErrStructural, "if expects 2 or 3 arguments, got %d", len(call.Args))
	}
	t := c.target(target)
	testReg := c.compileExpr(call.Args[0], noTarget)
	elseSite := c.emitJump(bytecode.JumpIfFalse, testReg)
	c.compileExpr(call.Args[1], t)
	doneSite := c.emitJump(bytecode.Jump, 0)
	c.patch(elseSite)
	if len(call.Args) == 3 {
		c.compileExpr(call.Args[2], t)
	} else {
		c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
	}
	c.patch(doneSite)
	return t
}

// compileAnd lowers `and`: short-circuit to false on the first
// falsy operand, else yield true. Neither form returns an operand value.
func (c *Compiler) compileAnd(call *ast.Call, target int) int {
	t := c.target(target)
	failSites := make([]int, 0, len(call.Args))
	for _, a := range call.Args {
		v := c.compileExpr(a, noTarget)
		failSites = append(failSites, c.emitJump(bytecode.JumpIfFalse, v))
	}
	c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: true, Dst: t})
	endSite := c.emitJump(bytecode.Jump, 0)
	for _, s := range failSites {
		c.patch(s)
	}
	c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
	c.patch(endSite)
	return t
}

// compileOr is and's dual, using JumpIfTrue.
func (c *Compiler) compileOr(call *ast.Call, target int) int {
	t := c.target(target)
	okSites := make([]int, 0, len(call.Args))
	for _, a := range call.Args {
		v := c.compileExpr(a, noTarget)
		okSites = append(okSites, c.emitJump(bytecode.JumpIfTrue, v))
	}
	c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
	endSite := c.emitJump(bytecode.Jump, 0)
	for _, s := range okSites {
		c.patch(s)
	}
	c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: true, Dst: t})
	c.patch(endSite)
	return t
}

// compileLoop lowers `loop`: an unconditional backward jump to the body
// start, with every `break` inside patched to jump past it.
func (c *Compiler) compileLoop(call *ast.Call, target int) int {
	lc := &loopContext{start: c.here()}
	c.loopStack = append(c.loopStack, lc)
	for _, a := range call.Args {
		c.compileExpr(a, noTarget)
	}
	c.emit(bytecode.Insc{Op: bytecode.Jump, Dest: lc.start})
	c.loopStack = c.loopStack[:len(c.loopStack)-1]

	end := c.here()
	for _, site := range lc.breakSites {
		c.code[site].Op = bytecode.Jump
		c.code[site].Dest = end
	}

	t := c.target(target)
	c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
	return t
}

// compileBreak records a pending-break site, emitting a placeholder that
// compileLoop rewrites to a Jump once the loop's end address is known.
func (c *Compiler) compileBreak(call *ast.Call, target int) int {
	if len(c.loopStack) == 0 {
		c.fail(call.Pos(), diagnostics.ErrStructural, "break used outside of a loop")
	}
	if len(call.Args) != 0 {
		c.fail(call.Pos(), diagnostics.ErrArity, "break expects 0 arguments, got %d", len(call.Args))
	}
	lc := c.loopStack[len(c.loopStack)-1]
	t := c.target(target)
	site := c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
	lc.breakSites = append(lc.breakSites, site)
	return t
}

// compileContinue jumps straight back to the innermost loop's start.
func (c *Compiler) compileContinue(call *ast.Call, target int) int {
	if len(c.loopStack) == 0 {
		c.fail(call.Pos(), diagnostics.ErrStructural, "continue used outside of a loop")
	}
	if len(call.Args) != 0 {
		c.fail(call.Pos(), diagnostics.ErrArity, "continue expects 0 arguments, got %d", len(call.Args))
	}
	lc := c.loopStack[len(c.loopStack)-1]
	c.emit(bytecode.Insc{Op: bytecode.Jump, Dest: lc.start})
	return c.target(target)
}

// compileSpawn lowers `spawn`: its first argument must resolve as a
// direct function id, never a closure or FFI.
func (c *Compiler) compileSpawn(call *ast.Call, target int) int {
	if len(call.Args) < 1 {
		c.fail(call.Pos(), diagnostics.ErrStructural, "spawn requires at least a function argument")
	}
	v, ok := call.Args[0].(*ast.Variable)
	if !ok {
		c.fail(call.Args[0].Pos(), diagnostics.ErrStructural, "spawn's first argument must be a direct function reference")
	}
	ref := c.nodes.MustGet(v, sidetables.AttrRef).(analyzer.Ref)
	if ref.Kind != analyzer.RefFunction {
		c.fail(v.Pos(), diagnostics.ErrStructural, "spawn's first argument must resolve to a named function, not a closure or FFI")
	}

	rest := call.Args[1:]
	args := make([]int, len(rest))
	for i, a := range rest {
		args[i] = c.compileExpr(a, noTarget)
	}
	t := c.target(target)
	c.emit(bytecode.Insc{Op: bytecode.Spawn, FuncID: ref.FuncID, Args: c.arena.Put(args), Dst: t})
	c.emit(bytecode.Insc{Op: bytecode.Await, Src: t, Dst: t})
	return t
}
