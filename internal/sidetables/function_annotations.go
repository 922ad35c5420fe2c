package sidetables

// FunctionAnnotations is keyed by (function id, attribute name). Once a
// function has been analyzed, the compiler looks up its ParamVarIDs,
// BaseFrameSize, Captures and ResolvedFunctionName here by id alone —
// it no longer needs the AST node handle, which matters once a function
// is referenced from a scope other than the one it was declared in
// (captures, forward references via mutual recursion).
type FunctionAnnotations struct {
	data map[int]map[string]Attr
}

// NewFunctionAnnotations returns an empty table.
func NewFunctionAnnotations() *FunctionAnnotations {
	return &FunctionAnnotations{data: make(map[int]map[string]Attr)}
}

func (t *FunctionAnnotations) Set(funcID int, key string, value Attr) {
	bucket, ok := t.data[funcID]
	if !ok {
		bucket = make(map[string]Attr)
		t.data[funcID] = bucket
	}
	bucket[key] = value
}

func (t *FunctionAnnotations) Get(funcID int, key string) (Attr, bool) {
	bucket, ok := t.data[funcID]
	if !ok {
		return nil, false
	}
	v, ok := bucket[key]
	return v, ok
}

func (t *FunctionAnnotations) MustGet(funcID int, key string) Attr {
	v, ok := t.Get(funcID, key)
	if !ok {
		panic("sidetables: missing required function annotation " + key)
	}
	return v
}

func (t *FunctionAnnotations) GetString(funcID int, key string) string {
	return t.MustGet(funcID, key).(string)
}

func (t *FunctionAnnotations) GetIntSlice(funcID int, key string) []int {
	return t.MustGet(funcID, key).([]int)
}

func (t *FunctionAnnotations) GetCaptures(funcID int, key string) []CaptureEntry {
	return t.MustGet(funcID, key).([]CaptureEntry)
}
