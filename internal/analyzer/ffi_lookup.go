package analyzer

import (
	"github.com/lispcore/c0i/internal/ffi"
	"github.com/lispcore/c0i/internal/sidetables"
)

// ffiLookup adapts the pre-registered FFI registry to the scope chain's
// lookup path: a name found here on first occurrence is assigned a dense
// in-use index, in first-lookup order, and every later occurrence of the
// same name reuses it. Sync names are tried before async; registering a
// name in both tables is a caller error the registry itself does not
// defend against.
type ffiLookup struct {
	registry *ffi.Registry
	sync     *sidetables.SyncRegistry
	async    *sidetables.AsyncRegistry
}

func newFFILookup(registry *ffi.Registry, sync *sidetables.SyncRegistry, async *sidetables.AsyncRegistry) *ffiLookup {
	return &ffiLookup{registry: registry, sync: sync, async: async}
}

func (f *ffiLookup) lookup(name string) (Ref, bool) {
	if bound, ok := f.registry.Sync[name]; ok {
		idx := f.sync.Use(name, bound)
		return Ref{Kind: RefFFI, FFIAsync: false, FFIIndex: idx}, true
	}
	if bound, ok := f.registry.Async[name]; ok {
		idx := f.async.Use(name, bound)
		return Ref{Kind: RefFFI, FFIAsync: true, FFIIndex: idx}, true
	}
	return Ref{}, false
}
