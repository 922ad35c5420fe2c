package analyzer

// RefKind tags the variant held by a Ref. Analysis dumps serialize this
// to an untyped ["Variable", bool, int] | ["Function", int] | ["FFI",
// bool, int] sequence; internally we use a proper sum type instead.
type RefKind int

const (
	RefVariable RefKind = iota
	RefFunction
	RefFFI
)

// Ref is the analyzer's classification of a variable occurrence, stored
// under the "Ref" node annotation on the *ast.Variable that produced it.
type Ref struct {
	Kind RefKind

	// Valid when Kind == RefVariable.
	IsCapture bool // true: Slot is a capture index, used as-is
	Slot      int  // local slot id (pre-translation) or capture index

	// Valid when Kind == RefFunction.
	FuncID int

	// Valid when Kind == RefFFI.
	FFIAsync bool
	FFIIndex int
}

// Dump renders the tagged-union shape used by serialized analysis
// dumps (`-only-analyse`).
func (r Ref) Dump() []any {
	switch r.Kind {
	case RefVariable:
		return []any{"Variable", r.IsCapture, r.Slot}
	case RefFunction:
		return []any{"Function", r.FuncID}
	case RefFFI:
		return []any{"FFI", r.FFIAsync, r.FFIIndex}
	default:
		panic("analyzer: invalid Ref kind")
	}
}
