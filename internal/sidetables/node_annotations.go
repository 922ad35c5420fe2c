package sidetables

import "github.com/lispcore/c0i/internal/ast"

// NodeAnnotations is keyed by (AST node identity, attribute name). It is
// the analyzer's primary output channel for anything that isn't a
// function-level fact: FunctionID/FunctionName/ParamVarIDs/Captures on a
// function node, VarID on a bind, ConstID on a string literal, Ref on a
// variable reference.
type NodeAnnotations struct {
	data map[ast.NodeID]map[string]Attr
}

// NewNodeAnnotations returns an empty table.
func NewNodeAnnotations() *NodeAnnotations {
	return &NodeAnnotations{data: make(map[ast.NodeID]map[string]Attr)}
}

// Set records value under (node, key), creating the per-node map on
// first use.
func (t *NodeAnnotations) Set(node ast.Node, key string, value Attr) {
	bucket, ok := t.data[node.ID()]
	if !ok {
		bucket = make(map[string]Attr)
		t.data[node.ID()] = bucket
	}
	bucket[key] = value
}

// Get returns the value stored under (node, key) and whether it existed.
func (t *NodeAnnotations) Get(node ast.Node, key string) (Attr, bool) {
	bucket, ok := t.data[node.ID()]
	if !ok {
		return nil, false
	}
	v, ok := bucket[key]
	return v, ok
}

// MustGet panics if the annotation is missing. Every call site in the
// compiler that uses it is reached only after the analyzer guarantees
// the attribute exists; a panic here means the analyzer/compiler
// contract itself was violated, which is a programming error, not a
// user-facing compile error.
func (t *NodeAnnotations) MustGet(node ast.Node, key string) Attr {
	v, ok := t.Get(node, key)
	if !ok {
		panic("sidetables: missing required node annotation " + key)
	}
	return v
}

func (t *NodeAnnotations) GetInt(node ast.Node, key string) int {
	return t.MustGet(node, key).(int)
}

func (t *NodeAnnotations) GetIntOr(node ast.Node, key string, fallback int) int {
	if v, ok := t.Get(node, key); ok {
		return v.(int)
	}
	return fallback
}

func (t *NodeAnnotations) GetString(node ast.Node, key string) string {
	return t.MustGet(node, key).(string)
}

func (t *NodeAnnotations) GetStringOr(node ast.Node, key, fallback string) string {
	if v, ok := t.Get(node, key); ok {
		return v.(string)
	}
	return fallback
}

func (t *NodeAnnotations) GetIntSlice(node ast.Node, key string) []int {
	return t.MustGet(node, key).([]int)
}

func (t *NodeAnnotations) GetCaptures(node ast.Node, key string) []CaptureEntry {
	return t.MustGet(node, key).([]CaptureEntry)
}
