package compiler

import (
	"github.com/lispcore/c0i/internal/analyzer"
	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/bytecode"
	"github.com/lispcore/c0i/internal/diagnostics"
	"github.com/lispcore/c0i/internal/sidetables"
	"github.com/lispcore/c0i/internal/token"
)

// compileExpr lowers e, writing its value into target (allocating a
// fresh temporary when target == noTarget) and returning the register
// that ends up holding the value.
func (c *Compiler) compileExpr(e ast.Expr, target int) int {
	switch n := e.(type) {
	case *ast.Literal:
		return c.compileLiteral(n, target)
	case *ast.Variable:
		return c.compileVariable(n, target)
	case *ast.Lambda:
		return c.compileLambda(n, target)
	case *ast.LetExpr:
		return c.compileLet(n, target)
	case *ast.Assign:
		return c.compileAssign(n, target)
	case *ast.Cond:
		return c.compileCond(n, target)
	case *ast.Call:
		return c.compileCall(n, target)
	default:
		c.fail(e.Pos(), diagnostics.ErrStructural, "unrecognized expression form")
		panic("unreachable")
	}
}

// compileLiteral lowers an atom via MakeK, or a pair literal via a call
// to the compiled `cons` function.
func (c *Compiler) compileLiteral(l *ast.Literal, target int) int {
	switch l.Kind {
	case ast.LitNil:
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
		return t
	case ast.LitBool:
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: l.Bool, Dst: t})
		return t
	case ast.LitChar:
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.MakeIntConst, IntVal: int64(l.Char), Dst: t})
		return t
	case ast.LitInt:
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.MakeIntConst, IntVal: l.Int, Dst: t})
		return t
	case ast.LitUint:
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.MakeIntConst, IntVal: int64(l.Uint), Dst: t})
		return t
	case ast.LitFloat:
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.MakeFloatConst, FloatVal: l.Float, Dst: t})
		return t
	case ast.LitStr:
		constID := c.nodes.GetInt(l, sidetables.AttrConstID)
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.LoadConst, ConstID: constID, Dst: t})
		return t
	case ast.LitPair:
		carReg := c.compileLiteral(l.Car, noTarget)
		cdrReg := c.compileLiteral(l.Cdr, noTarget)
		consID := c.globs.GetInt(sidetables.PropBuiltinConsFuncID)
		return c.callFunctionID(consID, []int{carReg, cdrReg}, target, l.Pos())
	default:
		// The analyzer rejects LitUnsupported during analysis; a
		// compiler ever seeing one means the analyzer/compiler contract
		// was violated, not a user-facing error.
		panic("compiler: unexpected literal kind reaching lowering")
	}
}

// compileVariable resolves the Ref the analyzer attached to n.
func (c *Compiler) compileVariable(v *ast.Variable, target int) int {
	c.trail.Push("compile variable " + v.Name)
	defer c.trail.Pop()

	ref := c.nodes.MustGet(v, sidetables.AttrRef).(analyzer.Ref)
	switch ref.Kind {
	case analyzer.RefVariable:
		reg := ref.Slot
		if !ref.IsCapture {
			reg = c.cur.translate(reg)
		}
		if target == noTarget {
			return reg
		}
		if reg == target {
			return target
		}
		c.emit(bytecode.Insc{Op: bytecode.Move, Src: reg, Dst: target})
		return target
	case analyzer.RefFunction:
		// A function used as a first-class value always wraps into a
		// closure, even with zero captures: the direct-function-id
		// shortcut is a call-site-only optimization.
		return c.materializeClosure(ref.FuncID, target, v.Pos())
	case analyzer.RefFFI:
		c.fail(v.Pos(), diagnostics.ErrStructural, "foreign function %q is not a first-class value", v.Name)
		panic("unreachable")
	default:
		panic("compiler: invalid Ref kind")
	}
}

// compileLambda enqueues the lambda's function for later compilation and
// immediately wraps it as a closure value.
func (c *Compiler) compileLambda(l *ast.Lambda, target int) int {
	funcID := c.nodes.GetInt(l, sidetables.AttrFunctionID)
	c.enqueue(l.Fn, funcID)
	return c.materializeClosure(funcID, target, l.Pos())
}

// materializeClosure builds a CreateClosure instruction from funcID's
// recorded Captures list, translating each non-capture referent slot
// through the *currently compiling* function's capture count.
func (c *Compiler) materializeClosure(funcID int, target int, pos token.Pos) int {
	captures := c.funcs.GetCaptures(funcID, sidetables.AttrCaptures)
	capRegs := make([]int, len(captures))
	for i, ent := range captures {
		if ent.ReferentIsCapture {
			capRegs[i] = ent.ReferentSlot
		} else {
			capRegs[i] = c.cur.translate(ent.ReferentSlot)
		}
	}
	arity := len(c.funcs.GetIntSlice(funcID, sidetables.AttrParamVarIDs))
	t := c.target(target)
	c.emit(bytecode.Insc{
		Op:       bytecode.CreateClosure,
		FuncID:   funcID,
		Captures: c.arena.Put(capRegs),
		VT:       c.closureVT(arity),
		Dst:      t,
	})
	return t
}

// compileLet lowers each bind's initializer into its assigned register
// in binding order, then the body as a statement list.
func (c *Compiler) compileLet(le *ast.LetExpr, target int) int {
	varIDs := c.nodes.GetIntSlice(le, sidetables.AttrLetVarIDs)
	for i, b := range le.Binds {
		reg := c.cur.translate(varIDs[i])
		c.compileExpr(b.Init, reg)
	}
	return c.compileStatementListValue(le.Body, target)
}

// compileAssign lowers the RHS directly into the target variable's
// register. The analyzer guarantees the referent is a local,
// non-captured variable.
func (c *Compiler) compileAssign(a *ast.Assign, target int) int {
	ref := c.nodes.MustGet(a, sidetables.AttrRef).(analyzer.Ref)
	reg := c.cur.translate(ref.Slot)
	c.compileExpr(a.Value, reg)
	if target == noTarget || target == reg {
		return reg
	}
	c.emit(bytecode.Insc{Op: bytecode.Move, Src: reg, Dst: target})
	return target
}

// compileCond lowers a multi-arm conditional, raising a fresh exception
// when no arm matches and no else is present.
func (c *Compiler) compileCond(cond *ast.Cond, target int) int {
	t := c.target(target)
	var doneSites []int
	for _, arm := range cond.Arms {
		testReg := c.compileExpr(arm.Test, noTarget)
		elseSite := c.emitJump(bytecode.JumpIfFalse, testReg)
		c.compileExpr(arm.Consequent, t)
		doneSites = append(doneSites, c.emitJump(bytecode.Jump, 0))
		c.patch(elseSite)
	}
	if cond.Else != nil {
		c.compileExpr(cond.Else, t)
	} else {
		excReg := c.cur.allocReg()
		c.emit(bytecode.Insc{Op: bytecode.CreateObject, Dst: excReg})
		c.emit(bytecode.Insc{Op: bytecode.Raise, Src: excReg})
	}
	for _, s := range doneSites {
		c.patch(s)
	}
	return t
}
