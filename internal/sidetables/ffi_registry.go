package sidetables

import "github.com/lispcore/c0i/internal/ffi"

// FFIInUse tracks, for one ABI (sync or async), which registered FFI
// names were actually looked up during analysis, and the dense index
// each was assigned, in first-lookup order.
type FFIInUse[F any] struct {
	order []string
	funcs []F
	index map[string]int
}

// NewFFIInUse returns an empty in-use registry.
func NewFFIInUse[F any]() *FFIInUse[F] {
	return &FFIInUse[F]{index: make(map[string]int)}
}

// Use returns the dense index assigned to name, registering it (and
// copying its bound function/signature) on first use.
func (r *FFIInUse[F]) Use(name string, bound F) int {
	if idx, ok := r.index[name]; ok {
		return idx
	}
	idx := len(r.order)
	r.order = append(r.order, name)
	r.funcs = append(r.funcs, bound)
	r.index[name] = idx
	return idx
}

// Len is the number of distinct FFI names actually used.
func (r *FFIInUse[F]) Len() int { return len(r.order) }

// Funcs returns the in-use functions ordered by dense index, ready to
// become CompiledProgram.FFIFuncs / AsyncFFIFuncs.
func (r *FFIInUse[F]) Funcs() []F { return r.funcs }

// SyncRegistry / AsyncRegistry are the two FFI-in-use tables the
// analysis result carries, one per calling convention.
type SyncRegistry = FFIInUse[ffi.SyncFunction]
type AsyncRegistry = FFIInUse[ffi.AsyncFunction]
