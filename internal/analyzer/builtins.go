package analyzer

// builtinOperators is the set of names a Call's callee position resolves
// to a primitive instruction instead of an ordinary lookup, provided the
// callee is a bare *ast.Variable in head position. A name in this set is
// never looked up, shadowed, or passed as a first-class value:
// `(define + my-plus)` is rejected as a rebinding (Analyzer.checkReserved),
// and `+` used anywhere but the head of a call, as in `(apply-to + 1 2)`,
// falls through to ordinary name resolution and fails with a
// name-resolution error, since none of these names are ever bound in
// any scope.
//
// `display` and `cons` are deliberately excluded: both route through
// ordinary name lookup (display as an FFI import, cons as the compiled
// function registered under sidetables.PropBuiltinConsFuncID).
var builtinOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"=": true, "<": true, ">": true, "<=": true, ">=": true, "!=": true,
	"not": true, "and": true, "or": true, "~": true,
	"if": true, "loop": true, "break": true, "continue": true, "spawn": true,
	"raise": true, "begin": true, "pass": true,
	"vector": true, "vector-ref": true, "vector-push!": true,
	"vector-set!": true, "vector-length": true,
	"object": true, "object-get": true, "object-set!": true,
	"string-length": true, "string-equals?": true, "string-concat": true,
}

func isBuiltinOperator(name string) bool {
	return builtinOperators[name]
}

// IsBuiltinOperator reports whether name bypasses ordinary scope lookup
// as a call head. Exported for the compiler, which must recognize the
// same set when choosing between a primitive instruction and an
// ordinary call lowering.
func IsBuiltinOperator(name string) bool {
	return isBuiltinOperator(name)
}
