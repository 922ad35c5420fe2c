// Package bytecode defines the register-based instruction set the
// compiler emits and the artifact shape (CompiledProgram) it produces.
// Execution semantics belong to the external VM runtime; this package
// only defines the wire shape.
package bytecode

import "github.com/lispcore/c0i/internal/ffi"

// Op names one of the instruction set's variants.
type Op int

const (
	MakeBoolConst Op = iota
	MakeIntConst
	MakeFloatConst
	MakeNull
	LoadConst
	Move
	Jump
	JumpIfTrue
	JumpIfFalse
	Call
	CallPtr
	FFICallRtlc
	FFICallAsync
	Await
	Spawn
	ReturnOne
	Raise
	CreateObject
	CreateClosure
	CreateContainer
	TypeCheck
	OwnershipInfoCheck
	EqAny
	NeAny
	LtAny
	LeAny
	AddAny
	SubAny
	MulAny
	DivAny
	ModAny
	NotAny
	StrConcat
	StrLen
	StrEquals
	VecPush
	VecIndex
	VecIndexPut
	VecLen
	ObjectGetDyn
	ObjectPutDyn
)

var opNames = map[Op]string{
	MakeBoolConst:      "MakeBoolConst",
	MakeIntConst:       "MakeIntConst",
	MakeFloatConst:     "MakeFloatConst",
	MakeNull:           "MakeNull",
	LoadConst:          "LoadConst",
	Move:               "Move",
	Jump:               "Jump",
	JumpIfTrue:         "JumpIfTrue",
	JumpIfFalse:        "JumpIfFalse",
	Call:               "Call",
	CallPtr:            "CallPtr",
	FFICallRtlc:        "FFICallRtlc",
	FFICallAsync:       "FFICallAsync",
	Await:              "Await",
	Spawn:              "Spawn",
	ReturnOne:          "ReturnOne",
	Raise:              "Raise",
	CreateObject:       "CreateObject",
	CreateClosure:      "CreateClosure",
	CreateContainer:    "CreateContainer",
	TypeCheck:          "TypeCheck",
	OwnershipInfoCheck: "OwnershipInfoCheck",
	EqAny:              "EqAny",
	NeAny:              "NeAny",
	LtAny:              "LtAny",
	LeAny:              "LeAny",
	AddAny:             "AddAny",
	SubAny:             "SubAny",
	MulAny:             "MulAny",
	DivAny:             "DivAny",
	ModAny:             "ModAny",
	NotAny:             "NotAny",
	StrConcat:          "StrConcat",
	StrLen:             "StrLen",
	StrEquals:          "StrEquals",
	VecPush:            "VecPush",
	VecIndex:           "VecIndex",
	VecIndexPut:        "VecIndexPut",
	VecLen:             "VecLen",
	ObjectGetDyn:       "ObjectGetDyn",
	ObjectPutDyn:       "ObjectPutDyn",
}

func (o Op) String() string {
	if n, ok := opNames[o]; ok {
		return n
	}
	return "Op(?)"
}

// ContainerKind distinguishes CreateContainer's target shape.
type ContainerKind int

const (
	VectorContainer ContainerKind = iota
	ObjectContainer
)

// ClosureVT is the per-arity closure type descriptor cached by the
// compiler and referenced (not owned) by CreateClosure/TypeCheck.
type ClosureVT struct {
	Arity int
}

// Insc is one emitted instruction. Operand fields are a superset across
// variants; which ones are meaningful is determined by Op (documented
// inline at each emission site in the compiler). A single flat struct,
// rather than one type per variant, keeps jump back-patching
// (code[site].Dest = target) a plain field assignment.
type Insc struct {
	Op Op

	Dst int // primary output register, when the op produces one
	Src int // single source register (Move, unary ops, TypeCheck subject)
	Lhs int // left operand register (binary AnyOps)
	Rhs int // right operand register (binary AnyOps)

	BoolVal  bool    // MakeBoolConst
	IntVal   int64   // MakeIntConst
	FloatVal float64 // MakeFloatConst
	ConstID  int     // LoadConst: index into the constant pool

	Dest int // Jump/JumpIfTrue/JumpIfFalse: target instruction index (back-patched)
	Cond int // JumpIfTrue/JumpIfFalse: register holding the test value

	FuncID   int // Call/CreateClosure/Spawn: target function id
	Args     SliceRef
	Rets     SliceRef
	Captures SliceRef      // CreateClosure: captured-slot addresses
	VT       *ClosureVT    // CreateClosure/TypeCheck: closure arity descriptor
	TypeInfo ffi.TypeHandle // TypeCheck: the runtime type handle to check Src against

	FFIIndex int  // FFICallRtlc/FFICallAsync: dense FFI index
	FFIAsync bool // true for FFICallAsync

	Container ContainerKind // CreateContainer
}
