package bytecode

import "github.com/lispcore/c0i/internal/ffi"

// ConstKind tags a constant-pool entry. The runtime value representation
// itself is out of scope; the core only needs to serialize the atoms a
// string literal (or other source constant) can carry into the artifact.
type ConstKind int

const (
	ConstNil ConstKind = iota
	ConstBool
	ConstInt
	ConstUint
	ConstFloat
	ConstChar
	ConstStr
)

// Const is one constant-pool entry.
type Const struct {
	Kind  ConstKind
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Char  rune
	Str   string
}

// CompiledFunction is the per-function metadata the compiler builds for
// every function id, independent of where its code lives.
type CompiledFunction struct {
	StartAddr     int
	ArgCount      int
	RetCount      int // always 1 at this stage
	StackSize     int
	ParamTyckInfo []ffi.TypeHandle // may be empty at this stage
	ExcHandlers   []any            // none at this stage
}

// CompiledProgram is the compiler's output artifact.
type CompiledProgram struct {
	SliceArena     *Arena
	Code           []Insc
	ConstPool      []Const
	InitProc       int
	Functions      []CompiledFunction // indexed by func_id
	FFIFuncs       []ffi.SyncFunction
	AsyncFFIFuncs  []ffi.AsyncFunction
}
