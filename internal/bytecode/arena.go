package bytecode

// SliceRef is a reference into an Arena: a short run of register
// indices, as used by call-style instructions for argument and return
// lists. It is a value type so Insc can embed it directly.
type SliceRef struct {
	Start int
	Len   int
}

// Arena is a bump-allocated store of immutable integer slices, owned by
// the CompiledProgram. Every call-style instruction's Args/Rets/Captures
// point into it instead of carrying their own backing slice, so the
// artifact has one contiguous allocation for all of them.
type Arena struct {
	data []int
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{data: make([]int, 0, 64)}
}

// Put copies xs into the arena and returns a reference to the copy.
// The input is never aliased, so later Put calls cannot corrupt an
// earlier SliceRef's contents even if the backing array grows.
func (a *Arena) Put(xs []int) SliceRef {
	start := len(a.data)
	a.data = append(a.data, xs...)
	return SliceRef{Start: start, Len: len(xs)}
}

// Get resolves a SliceRef back to its backing slice.
func (a *Arena) Get(ref SliceRef) []int {
	return a.data[ref.Start : ref.Start+ref.Len]
}

// Len reports how many ints the arena currently holds.
func (a *Arena) Len() int { return len(a.data) }
