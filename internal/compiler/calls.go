package compiler

import (
	"github.com/lispcore/c0i/internal/analyzer"
	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/bytecode"
	"github.com/lispcore/c0i/internal/diagnostics"
	"github.com/lispcore/c0i/internal/ffi"
	"github.com/lispcore/c0i/internal/sidetables"
	"github.com/lispcore/c0i/internal/token"
)

// compileCall dispatches a call expression to the short-circuit/loop
// control builtins, a primitive instruction, or an ordinary call
// lowering.
func (c *Compiler) compileCall(call *ast.Call, target int) int {
	c.trail.Push("compile call at " + call.Pos().String())
	defer c.trail.Pop()

	if callee, ok := call.Callee.(*ast.Variable); ok && analyzer.IsBuiltinOperator(callee.Name) {
		switch callee.Name {
		case "if":
			return c.compileIf(call, target)
		case "and":
			return c.compileAnd(call, target)
		case "or":
			return c.compileOr(call, target)
		case "loop":
			return c.compileLoop(call, target)
		case "break":
			return c.compileBreak(call, target)
		case "continue":
			return c.compileContinue(call, target)
		case "spawn":
			return c.compileSpawn(call, target)
		default:
			return c.compilePrimitive(callee.Name, call, target)
		}
	}
	return c.compileOrdinaryCall(call, target)
}

type binPrim struct {
	op   bytecode.Op
	swap bool // `>`/`>=` have no dedicated opcode; lower via swapped `<`/`<=`
}

var binPrims = map[string]binPrim{
	"+": {op: bytecode.AddAny}, "-": {op: bytecode.SubAny}, "*": {op: bytecode.MulAny},
	"/": {op: bytecode.DivAny}, "%": {op: bytecode.ModAny},
	"=": {op: bytecode.EqAny}, "!=": {op: bytecode.NeAny},
	"<": {op: bytecode.LtAny}, ">": {op: bytecode.LtAny, swap: true},
	"<=": {op: bytecode.LeAny}, ">=": {op: bytecode.LeAny, swap: true},
	"string-equals?": {op: bytecode.StrEquals},
	"string-concat":  {op: bytecode.StrConcat},
}

var unaryPrims = map[string]bytecode.Op{
	"not": bytecode.NotAny, "~": bytecode.NotAny,
	"string-length": bytecode.StrLen, "vector-length": bytecode.VecLen,
}

// compilePrimitive lowers a builtin operator call head directly to its
// primitive instruction, compiling all arguments into
// fresh temporaries left to right first.
func (c *Compiler) compilePrimitive(name string, call *ast.Call, target int) int {
	args := make([]int, len(call.Args))
	for i, a := range call.Args {
		args[i] = c.compileExpr(a, noTarget)
	}

	switch name {
	case "vector":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.CreateContainer, Container: bytecode.VectorContainer, Args: c.arena.Put(args), Dst: t})
		return t
	case "object":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.CreateContainer, Container: bytecode.ObjectContainer, Args: c.arena.Put(args), Dst: t})
		return t
	case "vector-ref":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.VecIndex, Lhs: args[0], Rhs: args[1], Dst: t})
		return t
	case "vector-set!":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.VecIndexPut, Lhs: args[0], Rhs: args[1], Src: args[2], Dst: t})
		return t
	case "vector-push!":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.VecPush, Lhs: args[0], Rhs: args[1], Dst: t})
		return t
	case "object-get":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.ObjectGetDyn, Lhs: args[0], Rhs: args[1], Dst: t})
		return t
	case "object-set!":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.ObjectPutDyn, Lhs: args[0], Rhs: args[1], Src: args[2], Dst: t})
		return t
	case "raise":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.Raise, Src: args[0]})
		return t
	case "pass":
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.MakeNull, Dst: t})
		return t
	case "begin":
		t := c.target(target)
		if len(args) == 0 {
			c.emit(bytecode.Insc{Op: bytecode.MakeBoolConst, BoolVal: false, Dst: t})
			return t
		}
		c.emit(bytecode.Insc{Op: bytecode.Move, Src: args[len(args)-1], Dst: t})
		return t
	}

	if bp, ok := binPrims[name]; ok {
		lhs, rhs := args[0], args[1]
		if bp.swap {
			lhs, rhs = rhs, lhs
		}
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bp.op, Lhs: lhs, Rhs: rhs, Dst: t})
		return t
	}
	if op, ok := unaryPrims[name]; ok {
		t := c.target(target)
		c.emit(bytecode.Insc{Op: op, Src: args[0], Dst: t})
		return t
	}

	c.fail(call.Pos(), diagnostics.ErrStructural, "unhandled builtin operator: %s", name)
	panic("unreachable")
}

// compileOrdinaryCall lowers a call whose callee is not a control
// builtin.
func (c *Compiler) compileOrdinaryCall(call *ast.Call, target int) int {
	args := make([]int, len(call.Args))
	for i, a := range call.Args {
		args[i] = c.compileExpr(a, noTarget)
	}

	if v, ok := call.Callee.(*ast.Variable); ok {
		ref := c.nodes.MustGet(v, sidetables.AttrRef).(analyzer.Ref)
		switch ref.Kind {
		case analyzer.RefFunction:
			return c.callFunctionID(ref.FuncID, args, target, call.Pos())
		case analyzer.RefFFI:
			return c.callFFI(ref, args, target, call.Pos())
		case analyzer.RefVariable:
			reg := ref.Slot
			if !ref.IsCapture {
				reg = c.cur.translate(reg)
			}
			return c.callClosureReg(reg, args, target, call.Pos())
		}
	}

	calleeReg := c.compileExpr(call.Callee, noTarget)
	return c.callClosureReg(calleeReg, args, target, call.Pos())
}

// callFunctionID lowers a call to a named function known at compile
// time: a direct Call when it has no captures, otherwise materialize it
// into a closure first and fall into the closure-call path. Variadic
// callees are not supported at this stage — the arity check below does
// not distinguish a rest parameter from a fixed one. TODO: support
// spreading extra arguments into the rest slot.
func (c *Compiler) callFunctionID(funcID int, args []int, target int, pos token.Pos) int {
	paramIDs := c.funcs.GetIntSlice(funcID, sidetables.AttrParamVarIDs)
	if len(args) != len(paramIDs) {
		c.fail(pos, diagnostics.ErrArity, "call expects %d argument(s), got %d", len(paramIDs), len(args))
	}
	captures := c.funcs.GetCaptures(funcID, sidetables.AttrCaptures)
	if len(captures) == 0 {
		t := c.target(target)
		c.emit(bytecode.Insc{Op: bytecode.Call, FuncID: funcID, Args: c.arena.Put(args), Rets: c.arena.Put([]int{t})})
		return t
	}
	closureReg := c.materializeClosure(funcID, noTarget, pos)
	return c.callClosureReg(closureReg, args, target, pos)
}

// callClosureReg lowers a call through a register holding a closure
// value: a TypeCheck against the arity's closure descriptor, then
// CallPtr.
func (c *Compiler) callClosureReg(reg int, args []int, target int, pos token.Pos) int {
	vt := c.closureVT(len(args))
	c.emit(bytecode.Insc{Op: bytecode.TypeCheck, Src: reg, VT: vt})
	t := c.target(target)
	c.emit(bytecode.Insc{Op: bytecode.CallPtr, Src: reg, Args: c.arena.Put(args), Rets: c.arena.Put([]int{t})})
	return t
}

// paramTypeHandle asks the (opaque, runtime-owned) FuncType handle for
// one parameter's type handle, without inspecting FuncType beyond that.
func paramTypeHandle(sig ffi.Signature, i int) ffi.TypeHandle {
	if h, ok := sig.FuncType.(ffi.ParamTypeHandler); ok {
		return h.ParamTypeHandle(i)
	}
	return sig.FuncType
}

// callFFI lowers a call to a sync or async foreign function: one
// TypeCheck per argument against the signature, then FFICallRtlc (sync)
// or FFICallAsync followed by Await (async).
func (c *Compiler) callFFI(ref analyzer.Ref, args []int, target int, pos token.Pos) int {
	var sig ffi.Signature
	if ref.FFIAsync {
		sig = c.asyncSigs[ref.FFIIndex]
	} else {
		sig = c.syncSigs[ref.FFIIndex]
	}
	if sig.ParamCount() != len(args) {
		c.fail(pos, diagnostics.ErrArity, "foreign call expects %d argument(s), got %d", sig.ParamCount(), len(args))
	}
	for i, a := range args {
		c.emit(bytecode.Insc{Op: bytecode.TypeCheck, Src: a, TypeInfo: paramTypeHandle(sig, i)})
	}

	t := c.target(target)
	op := bytecode.FFICallRtlc
	if ref.FFIAsync {
		op = bytecode.FFICallAsync
	}
	c.emit(bytecode.Insc{
		Op: op, FFIIndex: ref.FFIIndex, FFIAsync: ref.FFIAsync,
		Args: c.arena.Put(args), Rets: c.arena.Put([]int{t}),
	})
	if ref.FFIAsync {
		c.emit(bytecode.Insc{Op: bytecode.Await, Src: t, Dst: t})
	}
	return t
}
