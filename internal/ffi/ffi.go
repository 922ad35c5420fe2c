// Package ffi defines the foreign-function ABI contracts that the
// analyzer and compiler forward to the (external) VM runtime without
// interpreting. Signature is deliberately treated as near-opaque: the
// core only clones its flag slices and counts parameters; it never
// inspects FuncType beyond asking the runtime for parameter type handles.
package ffi

// DataOption is the per-slot ownership/typing flag the runtime attaches
// to each FFI parameter and return value. The exact runtime semantics of
// each flag belong to the VM; the core only threads the value through.
type DataOption int

const (
	Raw DataOption = iota
	RawUntyped
	Share
	Copy
	Move
)

// TypeHandle is an opaque handle into the runtime's type-check info pool.
// The core never looks inside it.
type TypeHandle any

// ParamTypeHandler is optionally implemented by a Signature's FuncType
// handle: a way to ask the runtime for one parameter's type handle
// without the core interpreting FuncType itself. A FuncType that
// doesn't implement it is used as-is wherever a per-parameter handle is
// needed.
type ParamTypeHandler interface {
	ParamTypeHandle(i int) TypeHandle
}

// Signature describes a foreign function's calling convention: the
// runtime-owned function-type handle plus per-parameter and per-return
// ownership flags. The compiler emits one TypeCheck per parameter against
// these handles and otherwise treats the struct as opaque data to copy.
type Signature struct {
	FuncType     TypeHandle
	ParamOptions []DataOption
	RetOption    []DataOption
}

// Clone copies a Signature's flag slices without inspecting FuncType
// beyond asking the runtime for its parameter type handles.
func (s Signature) Clone() Signature {
	out := Signature{FuncType: s.FuncType}
	if s.ParamOptions != nil {
		out.ParamOptions = append([]DataOption(nil), s.ParamOptions...)
	}
	if s.RetOption != nil {
		out.RetOption = append([]DataOption(nil), s.RetOption...)
	}
	return out
}

// ParamCount is the arity the compiler checks call sites against.
func (s Signature) ParamCount() int { return len(s.ParamOptions) }

// SyncFunction is a bound synchronous foreign function: an opaque runtime
// value plus the signature the compiler type-checks call sites against.
type SyncFunction struct {
	Bound     any
	Signature Signature
}

// AsyncFunction is the async counterpart, targeted by FFICallAsync +
// Await.
type AsyncFunction struct {
	Bound     any
	Signature Signature
}

// Registry is the pre-registered `name -> (bound function, signature)`
// table the analyzer's lookup consults.
type Registry struct {
	Sync  map[string]SyncFunction
	Async map[string]AsyncFunction
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{Sync: map[string]SyncFunction{}, Async: map[string]AsyncFunction{}}
}
