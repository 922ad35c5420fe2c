// Package sidetables implements the keyed annotation maps that sit
// between the analyzer and the compiler: a node-identity-keyed table, a
// function-id-keyed table, the global property bag, the ordered
// constant pool, and the two FFI-in-use registries.
package sidetables

// Attr is a dynamically typed annotation value. The shapes that appear
// in practice are nil, bool, int, float64, string, []Attr (sequence), or
// map[string]Attr (sub-map).
type Attr = any

// Well-known attribute names used by the analyzer and read by the
// compiler. Keeping them as constants avoids typos splitting an
// attribute across two different string literals.
const (
	AttrFunctionID             = "FunctionID"
	AttrFunctionName           = "FunctionName"
	AttrResolvedFunctionName   = "ResolvedFunctionName"
	AttrParamVarIDs            = "ParamVarIDs"
	AttrBaseFrameSize          = "BaseFrameSize"
	AttrCaptures               = "Captures"
	AttrVarID                  = "VarID"
	AttrConstID                = "ConstID"
	AttrRef                    = "Ref"
	AttrRestVarID              = "RestVarID"
	// AttrLetVarIDs keys the slot ids a LetExpr's own bindings were
	// assigned, in binding order. Shared between the analyzer (writer)
	// and the compiler (reader), unlike attributes the analyzer both
	// writes and consumes internally.
	AttrLetVarIDs = "LetVarIDs"
)

// CaptureEntry is one entry of a function's Captures list: the capture
// slot's position is implicit (its index in the slice).
type CaptureEntry struct {
	ReferentIsCapture bool
	ReferentSlot      int
}
