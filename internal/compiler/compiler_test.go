package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lispcore/c0i/internal/analyzer"
	"github.com/lispcore/c0i/internal/bytecode"
	"github.com/lispcore/c0i/internal/compiler"
	"github.com/lispcore/c0i/internal/ffi"
	"github.com/lispcore/c0i/internal/reader"
)

func compileSource(t *testing.T, src string) (*bytecode.CompiledProgram, []bytecode.FunctionLabel) {
	t.Helper()
	program, err := reader.Parse("test.c0i", src)
	require.NoError(t, err)

	res, err := analyzer.Analyze(ffi.NewRegistry(), program)
	require.NoError(t, err)

	prog, labels, err := compiler.Compile(program, res, compiler.Options{})
	require.NoError(t, err)
	return prog, labels
}

func opSeq(prog *bytecode.CompiledProgram) []bytecode.Op {
	ops := make([]bytecode.Op, len(prog.Code))
	for i, insc := range prog.Code {
		ops[i] = insc.Op
	}
	return ops
}

// TestIdentityFunction covers `(define (id x) x)`: it compiles to a
// function that moves the parameter's register into the body's result
// register and returns that.
func TestIdentityFunction(t *testing.T) {
	prog, _ := compileSource(t, "(define (id x) x)")
	require.Len(t, prog.Functions, 1)
	require.Equal(t, 1, prog.Functions[0].ArgCount)
	require.Equal(t, []bytecode.Op{bytecode.Move, bytecode.ReturnOne}, opSeq(prog))
}

// TestArithmeticPrimitive covers `(define (application-start) (+ 1 2))`:
// two constants then a primitive AddAny, never an ordinary Call, and the
// function becomes the program's InitProc.
func TestArithmeticPrimitive(t *testing.T) {
	prog, _ := compileSource(t, "(define (application-start) (+ 1 2))")
	ops := opSeq(prog)
	require.Equal(t, []bytecode.Op{
		bytecode.MakeIntConst, bytecode.MakeIntConst, bytecode.AddAny, bytecode.ReturnOne,
	}, ops)
	require.Equal(t, 0, prog.InitProc)
}

// TestClosureCapture covers the closure scenario: a lambda referencing
// an enclosing parameter must capture it and materialize via
// CreateClosure, and calling the produced closure goes through
// TypeCheck + CallPtr rather than a direct Call.
func TestClosureCapture(t *testing.T) {
	src := `
(define (make-adder n)
  (lambda (x) (+ x n)))

(define (use-adder)
  (define add5 (make-adder 5))
  (add5 1))
`
	prog, labels := compileSource(t, src)
	require.Len(t, prog.Functions, 3) // make-adder, its lambda, use-adder

	lambdaID := -1
	for _, l := range labels {
		if l.Name == "make-adder.<lambda>" {
			lambdaID = l.FuncID
		}
	}
	require.NotEqual(t, -1, lambdaID, "expected a label for the lambda nested in make-adder")
	require.Equal(t, 1, prog.Functions[lambdaID].ArgCount)

	var sawCreateClosure, sawCallPtr, sawDirectCall bool
	for _, insc := range prog.Code {
		switch insc.Op {
		case bytecode.CreateClosure:
			sawCreateClosure = true
		case bytecode.CallPtr:
			sawCallPtr = true
		case bytecode.Call:
			sawDirectCall = true
		}
	}
	require.True(t, sawCreateClosure, "the lambda captures n, so materializing it must emit CreateClosure")
	require.True(t, sawCallPtr, "calling the closure bound to add5 must go through TypeCheck+CallPtr")
	require.True(t, sawDirectCall, "calling make-adder itself (zero captures, statically known id) stays a direct Call")
}

// TestIfElse covers the `if` short-circuit lowering: a JumpIfFalse over
// the then-branch, an unconditional Jump over the else-branch.
func TestIfElse(t *testing.T) {
	prog, _ := compileSource(t, "(define (f x) (if (= x 0) 1 2))")
	ops := opSeq(prog)
	require.Contains(t, ops, bytecode.JumpIfFalse)
	require.Contains(t, ops, bytecode.Jump)
	require.Contains(t, ops, bytecode.EqAny)
}

// TestLoopBreak covers the rewrite of `loop`/`break` into a backward
// Jump to the loop's start with every break site patched to the address
// right after it.
func TestLoopBreak(t *testing.T) {
	prog, _ := compileSource(t, `
(define (find-positive n)
  (loop
    (if (> n 0) (break) (pass))))
`)
	ops := opSeq(prog)

	var jumps int
	for _, insc := range prog.Code {
		if insc.Op == bytecode.Jump {
			jumps++
		}
	}
	require.GreaterOrEqual(t, jumps, 2, "expect both the break-site jump and the loop-back jump")
	require.Contains(t, ops, bytecode.JumpIfFalse)
}

// TestFFIDisplayCall covers a sync FFI call: one TypeCheck per argument,
// then FFICallRtlc, never FFICallAsync/Await.
func TestFFIDisplayCall(t *testing.T) {
	program, err := reader.Parse("ffi.c0i", "(define (f) (display 42))")
	require.NoError(t, err)

	registry := ffi.NewRegistry()
	registry.Sync["display"] = ffi.SyncFunction{
		Signature: ffi.Signature{ParamOptions: []ffi.DataOption{ffi.Share}},
	}

	res, err := analyzer.Analyze(registry, program)
	require.NoError(t, err)

	prog, _, err := compiler.Compile(program, res, compiler.Options{})
	require.NoError(t, err)

	ops := opSeq(prog)
	require.Contains(t, ops, bytecode.TypeCheck)
	require.Contains(t, ops, bytecode.FFICallRtlc)
	require.NotContains(t, ops, bytecode.FFICallAsync)
	require.NotContains(t, ops, bytecode.Await)
	require.Len(t, prog.FFIFuncs, 1)
}

// TestAsyncFFICall covers a call to an async FFI import: one TypeCheck
// per argument, then FFICallAsync immediately followed by Await on the
// same register, never FFICallRtlc.
func TestAsyncFFICall(t *testing.T) {
	program, err := reader.Parse("ffi.c0i", "(define (f) (fetch-url \"http://example.com\"))")
	require.NoError(t, err)

	registry := ffi.NewRegistry()
	registry.Async["fetch-url"] = ffi.AsyncFunction{
		Signature: ffi.Signature{ParamOptions: []ffi.DataOption{ffi.Share}},
	}

	res, err := analyzer.Analyze(registry, program)
	require.NoError(t, err)

	prog, _, err := compiler.Compile(program, res, compiler.Options{})
	require.NoError(t, err)

	ops := opSeq(prog)
	require.Contains(t, ops, bytecode.TypeCheck)
	require.Contains(t, ops, bytecode.FFICallAsync)
	require.NotContains(t, ops, bytecode.FFICallRtlc)
	require.Len(t, prog.AsyncFFIFuncs, 1)

	var asyncIdx = -1
	for i, op := range ops {
		if op == bytecode.FFICallAsync {
			asyncIdx = i
		}
	}
	require.NotEqual(t, -1, asyncIdx)
	require.Equal(t, bytecode.Await, ops[asyncIdx+1])
}

// TestSpawnAwait covers spawning a direct function reference: Spawn
// immediately followed by Await on the same register.
func TestSpawnAwait(t *testing.T) {
	src := `
(define (worker x) x)
(define (main) (spawn worker 1))
`
	prog, _ := compileSource(t, src)
	ops := opSeq(prog)

	var spawnIdx = -1
	for i, op := range ops {
		if op == bytecode.Spawn {
			spawnIdx = i
		}
	}
	require.NotEqual(t, -1, spawnIdx)
	require.Equal(t, bytecode.Await, ops[spawnIdx+1])
}

// TestPairLiteralLowersThroughCons covers the literal-pair lowering: a
// quoted dotted pair compiles to a call into the compiled `cons`
// function, never a dedicated pair opcode.
func TestPairLiteralLowersThroughCons(t *testing.T) {
	src := `
(define (cons a b) (vector a b))
(define (application-start) '(1 . 2))
`
	prog, _ := compileSource(t, src)
	ops := opSeq(prog)
	require.Contains(t, ops, bytecode.Call)
	require.Contains(t, ops, bytecode.CreateContainer)
}

// TestEmptyFunctionBodyYieldsFalse covers the boundary behavior for a
// function whose body is empty.
func TestEmptyFunctionBodyYieldsFalse(t *testing.T) {
	prog, _ := compileSource(t, "(define (noop))")
	ops := opSeq(prog)
	require.Equal(t, []bytecode.Op{bytecode.MakeBoolConst, bytecode.ReturnOne}, ops)
}

// TestCondWithoutElseRaises covers the boundary behavior where a Cond
// with no matching arm and no else raises rather than falling through.
func TestCondWithoutElseRaises(t *testing.T) {
	prog, _ := compileSource(t, `(define (f x) (cond ((= x 1) 1)))`)
	ops := opSeq(prog)
	require.Contains(t, ops, bytecode.CreateObject)
	require.Contains(t, ops, bytecode.Raise)
}
