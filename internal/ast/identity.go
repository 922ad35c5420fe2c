package ast

import "github.com/google/uuid"

// newNodeID mints a fresh node-identity handle.
//
// Using a uuid rather than a pointer address is the concrete resolution of
// the analyzer's "identity is a stable handle, not a raw pointer" design
// note: the side tables key off this value, so annotations survive an AST
// clone or deep-copy that keeps each node's Identity.
func newNodeID() NodeID {
	return NodeID(uuid.New())
}
