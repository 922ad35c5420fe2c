package analyzer

import "github.com/lispcore/c0i/internal/sidetables"

// varBinding is one name's entry in a scope's variable table: either a
// true local (IsCapture == false, Slot is a pre-translation register id
// allocated by the owning function frame) or a capture relayed down from
// an enclosing function (IsCapture == true, Slot is this frame's capture
// index).
type varBinding struct {
	isCapture bool
	slot      int
}

// functionFrame is the per-function half of a function-frame scope: the
// register counter local variables and params draw from, and the ordered
// list of captures this function pulls from its enclosing scopes.
type functionFrame struct {
	regAlloc       int
	captureOrder   []string
	captureEntries []sidetables.CaptureEntry
}

func (f *functionFrame) allocateReg() int {
	id := f.regAlloc
	f.regAlloc++
	return id
}

// addCapture records name as a newly observed capture of this frame and
// returns the capture index assigned to it. Called at most once per name
// per frame; repeat lookups hit the scope's vars map instead.
func (f *functionFrame) addCapture(name string, referent Ref) int {
	id := len(f.captureOrder)
	f.captureOrder = append(f.captureOrder, name)
	f.captureEntries = append(f.captureEntries, sidetables.CaptureEntry{
		ReferentIsCapture: referent.IsCapture,
		ReferentSlot:      referent.Slot,
	})
	return id
}

// scope is one link in the lexical scope chain. A scope with frame == nil
// is a block scope: it forwards register allocation to its nearest
// enclosing function frame and never records a capture of its own; only
// a function-frame scope (frame != nil) owns registers and captures.
//
// Reshaped as a parent-linked chain in the style of an upvalue resolver
// (resolveUpvalue/addUpvalue), rather than a single global symbol table.
type scope struct {
	parent *scope
	frame  *functionFrame // non-nil only at a function boundary

	vars  map[string]varBinding
	funcs map[string]int // nested named function declarations visible here
}

func newBlockScope(parent *scope) *scope {
	return &scope{parent: parent, vars: map[string]varBinding{}, funcs: map[string]int{}}
}

func newFunctionScope(parent *scope) *scope {
	s := newBlockScope(parent)
	s.frame = &functionFrame{}
	return s
}

// ownFrame returns the function frame that owns register allocation for
// this scope: its own if present, else its nearest ancestor's.
func (s *scope) ownFrame() *functionFrame {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.frame != nil {
			return cur.frame
		}
	}
	panic("analyzer: scope chain has no enclosing function frame")
}

// addVar declares name as a fresh local in this scope, allocating a
// register from the nearest enclosing function frame, and returns its
// pre-translation slot id.
func (s *scope) addVar(name string) int {
	slot := s.ownFrame().allocateReg()
	s.vars[name] = varBinding{isCapture: false, slot: slot}
	return slot
}

// addFunc registers name as a nested named function declared in this
// scope, under the function id the caller has already allocated.
func (s *scope) addFunc(name string, funcID int) {
	s.funcs[name] = funcID
}

// lookup resolves name starting at this scope, checking in order: this
// scope's locals, the FFI registry (sync before async), this scope's
// named functions, then recursing to the parent. The FFI registry is
// consulted at every scope, before that scope's functions, so a
// registered FFI name always wins over a same-named function declared
// anywhere in the lexical chain; only a local variable can shadow it.
// A capture is threaded through every intermediate function frame
// between the scope that owns the binding and the scope doing the
// lookup, per the capture relaying invariant.
func (s *scope) lookup(name string, ffiReg *ffiLookup) (Ref, bool) {
	if v, ok := s.vars[name]; ok {
		return Ref{Kind: RefVariable, IsCapture: v.isCapture, Slot: v.slot}, true
	}
	if ref, ok := ffiReg.lookup(name); ok {
		return ref, true
	}
	if id, ok := s.funcs[name]; ok {
		return Ref{Kind: RefFunction, FuncID: id}, true
	}
	if s.parent == nil {
		return Ref{}, false
	}
	ref, ok := s.parent.lookup(name, ffiReg)
	if !ok {
		return Ref{}, false
	}
	if ref.Kind != RefVariable {
		// Functions and FFI bindings are looked up by name afresh at every
		// call site; they never consume a capture slot.
		return ref, true
	}
	if s.frame == nil {
		// Block scopes forward the reference untouched; only the function
		// frame that actually crosses the boundary pays for a capture.
		return ref, true
	}
	capID := s.frame.addCapture(name, ref)
	s.vars[name] = varBinding{isCapture: true, slot: capID}
	return Ref{Kind: RefVariable, IsCapture: true, Slot: capID}, true
}
