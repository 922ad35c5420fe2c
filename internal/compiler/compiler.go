// Package compiler lowers an analyzed AST into a register-based
// CompiledProgram. It consumes the analyzer's side tables as an
// oracle — every fact it needs (function ids, slot ids, captures, FFI
// indices) was already computed by a prior analyzer.Analyze pass — and
// never re-derives scope or capture information itself.
//
// A function queue drives compilation in flat, breadth-first order
// (emit/emitJump/patch, a loop context stack for break/continue)
// rather than compiling nested functions inline via recursive descent:
// a nested function enqueues and returns immediately, and the outer
// Compile loop drains the queue until empty.
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

// noTarget tells an expression lowering function to allocate its own
// fresh temporary register instead of writing into a caller-supplied one.
const noTarget = -1

// Options mirrors this toolchain's three top-level configuration
// toggles. This package consults none of them directly: SkipBuiltins,
// DumpBytecode and OnlyAnalyse are glue-layer decisions (whether to
// prepend a builtin preamble before parsing, whether to print the
// disassembly, and whether to invoke this package at all) made by the
// caller, carried here so cmd/c0ic can load all three from one
// flag/config struct.
type Options struct {
	SkipBuiltins bool
	DumpBytecode bool
	OnlyAnalyse  bool

	// Trace, when non-nil, is installed as the Compiler's trace callback
	// before compilation starts (see Compiler.trace / SetTrace). Lets a
	// caller like cmd/c0ic wire -verbose through without reaching past
	// the package's exported surface.
	Trace func(depth int, chain []string)
}

// pendingFunc is one item of the function queue: a function AST node
// paired with the id the analyzer already assigned it. Nested function
// definitions and lambdas enqueue themselves instead of compiling
// inline, so a function's code is always emitted contiguously.
type pendingFunc struct {
	funcID int
	fn     *ast.FunctionDef
}

// frame is the compiler-owned "compiling-function record": the
// register bookkeeping for the function currently being emitted. Because
// the function queue guarantees only one function is ever mid-compile at
// a time (a nested function always enqueues and returns immediately
// rather than recursing), a single field — not a stack — suffices; see
// compileFunction's push/pop of Compiler.cur.
type frame struct {
	funcID       int
	entryAddr    int
	captureCount int
	argCount     int
	localCount   int // next free register; final value becomes StackSize
}

// allocReg returns a fresh, already-final register and reserves it.
func (f *frame) allocReg() int {
	r := f.localCount
	f.localCount++
	return r
}

// translate rewrites an analyzer-emitted local slot id to its actual
// register: captures occupy [0, captureCount) and are never translated
// (see compileVariable/compileOrdinaryCall, which use ref.Slot directly when
// ref.IsCapture); every non-capture slot is translated by adding
// captureCount.
func (f *frame) translate(slot int) int {
	return slot + f.captureCount
}

// loopContext is pushed on entry to a `loop` form and popped on exit.
type loopContext struct {
	start      int
	breakSites []int
}

// Compiler runs one compilation pass against one analyzer.Result.
type Compiler struct {
	opts  Options
	trail *diagnostics.Trail

	nodes *sidetables.NodeAnnotations
	funcs *sidetables.FunctionAnnotations
	globs *sidetables.GlobalProps

	code  []bytecode.Insc
	arena *bytecode.Arena

	syncSigs  []ffi.Signature
	asyncSigs []ffi.Signature

	cur       *frame
	loopStack []*loopContext
	queue     []pendingFunc
	queued    map[int]bool

	compiled map[int]bytecode.CompiledFunction
	labels   []bytecode.FunctionLabel
	closures map[int]*bytecode.ClosureVT

	// trace, when non-nil, is invoked once per function as it starts
	// compiling, carrying the resolved dotted name chain split on ".".
	// Off by default; the CLI wires it under -verbose to a line printed
	// on stderr.
	trace func(depth int, chain []string)
}

func newCompiler(res *analyzer.Result, opts Options) *Compiler {
	syncFuncs := res.Sync.Funcs()
	syncSigs := make([]ffi.Signature, len(syncFuncs))
	for i, f := range syncFuncs {
		syncSigs[i] = f.Signature
	}
	asyncFuncs := res.Async.Funcs()
	asyncSigs := make([]ffi.Signature, len(asyncFuncs))
	for i, f := range asyncFuncs {
		asyncSigs[i] = f.Signature
	}

	return &Compiler{
		opts:      opts,
		trail:     diagnostics.NewTrail(),
		nodes:     res.Nodes,
		funcs:     res.Functions,
		globs:     res.Globals,
		arena:     bytecode.NewArena(),
		syncSigs:  syncSigs,
		asyncSigs: asyncSigs,
		queued:    map[int]bool{},
		compiled:  map[int]bytecode.CompiledFunction{},
		closures:  map[int]*bytecode.ClosureVT{},
	}
}

// SetTrace installs a structured-tracing callback, off by default.
func (c *Compiler) SetTrace(fn func(depth int, chain []string)) { c.trace = fn }

func (c *Compiler) fail(pos token.Pos, code diagnostics.Code, format string, args ...any) {
	panic(c.trail.Raise(code, pos, format, args...))
}

func (c *Compiler) here() int { return len(c.code) }

func (c *Compiler) emit(insc bytecode.Insc) int {
	c.code = append(c.code, insc)
	return len(c.code) - 1
}

// emitJump emits a placeholder jump (Dest == 0) and returns its code
// index so the caller can patch it once the real target is known. cond
// is ignored for an unconditional Jump.
func (c *Compiler) emitJump(op bytecode.Op, cond int) int {
	return c.emit(bytecode.Insc{Op: op, Cond: cond, Dest: 0})
}

// patch rewrites the jump at site to target the current code position.
func (c *Compiler) patch(site int) {
	c.code[site].Dest = c.here()
}

// target returns target if the caller supplied one, else allocates a
// fresh temporary from the function currently being compiled.
func (c *Compiler) target(target int) int {
	if target == noTarget {
		return c.cur.allocReg()
	}
	return target
}

// closureVT returns the cached per-arity closure type descriptor,
// creating it on first use and caching it in a pool keyed by arity.
func (c *Compiler) closureVT(arity int) *bytecode.ClosureVT {
	if vt, ok := c.closures[arity]; ok {
		return vt
	}
	vt := &bytecode.ClosureVT{Arity: arity}
	c.closures[arity] = vt
	return vt
}

// enqueue adds fn to the function queue unless it (by id) is already
// queued or compiled — a function is enqueued exactly once even if it
// is referenced as a first-class value from multiple call sites.
func (c *Compiler) enqueue(fn *ast.FunctionDef, funcID int) {
	if c.queued[funcID] {
		return
	}
	c.queued[funcID] = true
	c.queue = append(c.queue, pendingFunc{funcID: funcID, fn: fn})
}

// Compile runs the compiler to completion: it seeds the function queue
// with every top-level function (already validated by the analyzer to
// be exactly that), then drains the queue, compiling one function's code
// contiguously per iteration until no function remains pending.
func Compile(program []ast.TopLevel, res *analyzer.Result, opts Options) (prog *bytecode.CompiledProgram, labels []bytecode.FunctionLabel, err error) {
	c := newCompiler(res, opts)
	c.trace = opts.Trace
	defer func() {
		if r := recover(); r != nil {
			if diagErr, ok := r.(*diagnostics.Error); ok {
				err = diagErr
				return
			}
			panic(r)
		}
	}()

	c.trail.Push("compile program")
	defer c.trail.Pop()

	for _, tl := range program {
		fd := tl.(*ast.FunctionDef) // guaranteed by analyzer phase A (invariant, not a user-facing error)
		funcID := c.nodes.GetInt(fd, sidetables.AttrFunctionID)
		c.enqueue(fd, funcID)
	}

	for len(c.queue) > 0 {
		item := c.queue[0]
		c.queue = c.queue[1:]
		c.compileFunction(item)
	}

	maxID := 0
	for id := range c.compiled {
		if id+1 > maxID {
			maxID = id + 1
		}
	}
	functions := make([]bytecode.CompiledFunction, maxID)
	for id, fn := range c.compiled {
		functions[id] = fn
	}

	initProc := c.globs.GetInt(sidetables.PropEntryFuncID)

	out := &bytecode.CompiledProgram{
		SliceArena:    c.arena,
		Code:          c.code,
		ConstPool:     res.Consts.Entries(),
		InitProc:      initProc,
		Functions:     functions,
		FFIFuncs:      res.Sync.Funcs(),
		AsyncFFIFuncs: res.Async.Funcs(),
	}
	return out, c.labels, nil
}
