// Package analyzer implements scope and capture analysis: it assigns
// every binding a numeric slot, classifies every name reference as a
// local, a capture, a named function or an FFI import, and records the
// per-function capture list the compiler needs to materialize closures.
//
// The scope chain is shaped like an upvalue resolver, and errors are
// raised through the diagnostics breadcrumb trail rather than returned
// value by value up the call stack.
package analyzer

import (
	"github.com/lispcore/c0i/internal/ast"
	"github.com/lispcore/c0i/internal/diagnostics"
	"github.com/lispcore/c0i/internal/ffi"
	"github.com/lispcore/c0i/internal/sidetables"
	"github.com/lispcore/c0i/internal/token"
)

// Analyzer runs one analysis pass. It owns the single, per-analysis
// function-id counter (never process-global, so two analyses run in the
// same process never collide) plus the output side tables it fills in.
type Analyzer struct {
	ffi         *ffiLookup
	funcCounter int
	trail       *diagnostics.Trail
	reserved    map[string]bool

	nodes   *sidetables.NodeAnnotations
	funcs   *sidetables.FunctionAnnotations
	globals *sidetables.GlobalProps
	consts  *sidetables.ConstPool
	sync    *sidetables.SyncRegistry
	async   *sidetables.AsyncRegistry
}

// Result is everything the compiler needs, handed over by value (as
// pointers to immutable-from-here-on tables) once analysis succeeds.
type Result struct {
	Nodes     *sidetables.NodeAnnotations
	Functions *sidetables.FunctionAnnotations
	Globals   *sidetables.GlobalProps
	Consts    *sidetables.ConstPool
	Sync      *sidetables.SyncRegistry
	Async     *sidetables.AsyncRegistry
}

// New returns a fresh Analyzer against the given pre-registered FFI
// table and a set of toolchain-reserved names (config.Config's
// ReservedOperators, typically), which may not be bound as a variable,
// parameter, or function name anywhere in the program. A new Analyzer
// must be created for every Analyze call; none of its state is meant to
// be reused across programs.
func New(registry *ffi.Registry, reserved ...string) *Analyzer {
	sync := sidetables.NewFFIInUse[ffi.SyncFunction]()
	async := sidetables.NewFFIInUse[ffi.AsyncFunction]()
	reservedSet := make(map[string]bool, len(reserved))
	for _, name := range reserved {
		reservedSet[name] = true
	}
	return &Analyzer{
		ffi:      newFFILookup(registry, sync, async),
		trail:    diagnostics.NewTrail(),
		reserved: reservedSet,
		nodes:    sidetables.NewNodeAnnotations(),
		funcs:    sidetables.NewFunctionAnnotations(),
		globals:  sidetables.NewGlobalProps(),
		consts:   sidetables.NewConstPool(),
		sync:     sync,
		async:    async,
	}
}

func (a *Analyzer) allocFuncID() int {
	id := a.funcCounter
	a.funcCounter++
	return id
}

// checkReserved raises a diagnostic if name is a builtin operator or one
// of the toolchain's reserved operator names, which a program is never
// allowed to bind as a variable, parameter, or function name regardless
// of scope.
func (a *Analyzer) checkReserved(name string, pos token.Pos) {
	if isBuiltinOperator(name) {
		a.fail(pos, diagnostics.ErrNameResolution, "%q is a builtin operator and cannot be rebound", name)
	}
	if a.reserved[name] {
		a.fail(pos, diagnostics.ErrStructural, "%q is a reserved operator name and cannot be bound", name)
	}
}

// fail raises a fatal diagnostic carrying the current breadcrumb trail.
// Every analyzer entry point propagates it back to Analyze via panic;
// per the error-handling design, no analyzer error is recoverable within
// a single pass, so there is nothing useful to do with it closer to the
// call site than the top of the pass.
func (a *Analyzer) fail(pos token.Pos, code diagnostics.Code, format string, args ...any) {
	panic(a.trail.Raise(code, pos, format, args...))
}

// Analyze runs scope and capture analysis over a whole program in two
// phases: phase A requires every top-level form to be a named function
// definition; phase B then analyzes each one against the shared root
// scope, which lets top-level functions call each other regardless of
// textual order without a synthetic wrapping function muddying their
// resolved names or function ids. reserved names the toolchain forbids
// binding anywhere in the program (see config.Config.ReservedOperators).
func Analyze(registry *ffi.Registry, program []ast.TopLevel, reserved ...string) (res *Result, err error) {
	a := New(registry, reserved...)
	defer func() {
		if r := recover(); r != nil {
			if diagErr, ok := r.(*diagnostics.Error); ok {
				err = diagErr
				return
			}
			panic(r)
		}
	}()

	a.trail.Push("analyze program")
	defer a.trail.Pop()

	root := newBlockScope(nil)

	// Phase A: allocate every top-level function's id up front, in
	// source order, so mutual recursion among top-level functions
	// resolves regardless of declaration order.
	fns := make([]*ast.FunctionDef, len(program))
	ids := make([]int, len(program))
	for i, tl := range program {
		fd, ok := tl.(*ast.FunctionDef)
		if !ok {
			a.fail(tl.Pos(), diagnostics.ErrStructural,
				"top-level form must be a function definition")
		}
		if fd.Name == nil {
			a.fail(fd.Pos(), diagnostics.ErrStructural,
				"a top-level function definition must be named")
		}
		a.checkReserved(*fd.Name, fd.Pos())
		id := a.allocFuncID()
		root.addFunc(*fd.Name, id)
		if *fd.Name == sidetables.PropEntryFuncID {
			a.globals.Set(sidetables.PropEntryFuncID, id)
		}
		if *fd.Name == "cons" {
			a.globals.Set(sidetables.PropBuiltinConsFuncID, id)
		}
		fns[i], ids[i] = fd, id
	}

	// Phase B: analyze each top-level function's body.
	for i, fd := range fns {
		a.analyzeFunction(root, fd, ids[i], nil)
	}

	// No function named "application-start" is not an error at this
	// layer; the entry-point convention is the caller's to enforce. Fall
	// back to the first declared top-level function so the artifact
	// always has a usable InitProc.
	if _, ok := a.globals.Get(sidetables.PropEntryFuncID); !ok && len(ids) > 0 {
		a.globals.Set(sidetables.PropEntryFuncID, ids[0])
	}

	return &Result{
		Nodes:     a.nodes,
		Functions: a.funcs,
		Globals:   a.globals,
		Consts:    a.consts,
		Sync:      a.sync,
		Async:     a.async,
	}, nil
}
