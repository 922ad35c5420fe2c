package bytecode

import (
	"fmt"
	"strings"
)

// FunctionLabel supplies the resolved name and source location a
// CompiledFunction was compiled from, for the `-dump-bytecode` listing.
type FunctionLabel struct {
	FuncID int
	Name   string
	Pos    string
}

// Disassemble renders a human-readable listing of every function in
// prog, each annotated with its resolved name and source location, for
// the `dump-bytecode` configuration option.
func Disassemble(prog *CompiledProgram, labels []FunctionLabel) string {
	var sb strings.Builder
	byID := make(map[int]FunctionLabel, len(labels))
	for _, l := range labels {
		byID[l.FuncID] = l
	}

	for id, fn := range prog.Functions {
		label := byID[id]
		name := label.Name
		if name == "" {
			name = "(anonymous)"
		}
		fmt.Fprintf(&sb, "== function %d: %s", id, name)
		if label.Pos != "" {
			fmt.Fprintf(&sb, " [%s]", label.Pos)
		}
		sb.WriteString(" ==\n")
		fmt.Fprintf(&sb, "  args=%d stack=%d\n", fn.ArgCount, fn.StackSize)

		// Code is emitted in function-queue order, not id order, so a
		// function ends where the nearest later-starting function begins.
		end := len(prog.Code)
		for _, other := range prog.Functions {
			if other.StartAddr > fn.StartAddr && other.StartAddr < end {
				end = other.StartAddr
			}
		}
		for pc := fn.StartAddr; pc < end; pc++ {
			sb.WriteString("    ")
			sb.WriteString(disassembleOne(prog, pc))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func disassembleOne(prog *CompiledProgram, pc int) string {
	insc := prog.Code[pc]
	switch insc.Op {
	case MakeBoolConst:
		return fmt.Sprintf("%04d MakeBoolConst %v -> r%d", pc, insc.BoolVal, insc.Dst)
	case MakeIntConst:
		return fmt.Sprintf("%04d MakeIntConst %d -> r%d", pc, insc.IntVal, insc.Dst)
	case MakeFloatConst:
		return fmt.Sprintf("%04d MakeFloatConst %v -> r%d", pc, insc.FloatVal, insc.Dst)
	case MakeNull:
		return fmt.Sprintf("%04d MakeNull -> r%d", pc, insc.Dst)
	case LoadConst:
		return fmt.Sprintf("%04d LoadConst k%d -> r%d", pc, insc.ConstID, insc.Dst)
	case Move:
		return fmt.Sprintf("%04d Move r%d -> r%d", pc, insc.Src, insc.Dst)
	case Jump:
		return fmt.Sprintf("%04d Jump %d", pc, insc.Dest)
	case JumpIfTrue:
		return fmt.Sprintf("%04d JumpIfTrue r%d %d", pc, insc.Cond, insc.Dest)
	case JumpIfFalse:
		return fmt.Sprintf("%04d JumpIfFalse r%d %d", pc, insc.Cond, insc.Dest)
	case Call:
		return fmt.Sprintf("%04d Call f%d args=%v rets=%v", pc, insc.FuncID, prog.SliceArena.Get(insc.Args), prog.SliceArena.Get(insc.Rets))
	case CallPtr:
		return fmt.Sprintf("%04d CallPtr r%d args=%v rets=%v", pc, insc.Src, prog.SliceArena.Get(insc.Args), prog.SliceArena.Get(insc.Rets))
	case FFICallRtlc:
		return fmt.Sprintf("%04d FFICallRtlc ffi%d args=%v rets=%v", pc, insc.FFIIndex, prog.SliceArena.Get(insc.Args), prog.SliceArena.Get(insc.Rets))
	case FFICallAsync:
		return fmt.Sprintf("%04d FFICallAsync ffi%d args=%v rets=%v", pc, insc.FFIIndex, prog.SliceArena.Get(insc.Args), prog.SliceArena.Get(insc.Rets))
	case Await:
		return fmt.Sprintf("%04d Await r%d -> r%d", pc, insc.Src, insc.Dst)
	case Spawn:
		return fmt.Sprintf("%04d Spawn f%d args=%v -> r%d", pc, insc.FuncID, prog.SliceArena.Get(insc.Args), insc.Dst)
	case ReturnOne:
		return fmt.Sprintf("%04d ReturnOne r%d", pc, insc.Src)
	case Raise:
		return fmt.Sprintf("%04d Raise r%d", pc, insc.Src)
	case CreateObject:
		return fmt.Sprintf("%04d CreateObject -> r%d", pc, insc.Dst)
	case CreateClosure:
		return fmt.Sprintf("%04d CreateClosure f%d captures=%v -> r%d", pc, insc.FuncID, prog.SliceArena.Get(insc.Captures), insc.Dst)
	case CreateContainer:
		return fmt.Sprintf("%04d CreateContainer kind=%d args=%v -> r%d", pc, insc.Container, prog.SliceArena.Get(insc.Args), insc.Dst)
	case TypeCheck:
		return fmt.Sprintf("%04d TypeCheck r%d", pc, insc.Src)
	case OwnershipInfoCheck:
		return fmt.Sprintf("%04d OwnershipInfoCheck r%d", pc, insc.Src)
	case EqAny, NeAny, LtAny, LeAny, AddAny, SubAny, MulAny, DivAny, ModAny:
		return fmt.Sprintf("%04d %s r%d r%d -> r%d", pc, insc.Op, insc.Lhs, insc.Rhs, insc.Dst)
	case NotAny:
		return fmt.Sprintf("%04d NotAny r%d -> r%d", pc, insc.Src, insc.Dst)
	case StrConcat, StrEquals:
		return fmt.Sprintf("%04d %s r%d r%d -> r%d", pc, insc.Op, insc.Lhs, insc.Rhs, insc.Dst)
	case StrLen, VecLen:
		return fmt.Sprintf("%04d %s r%d -> r%d", pc, insc.Op, insc.Src, insc.Dst)
	case VecPush:
		return fmt.Sprintf("%04d VecPush r%d r%d -> r%d", pc, insc.Lhs, insc.Rhs, insc.Dst)
	case VecIndex:
		return fmt.Sprintf("%04d VecIndex r%d r%d -> r%d", pc, insc.Lhs, insc.Rhs, insc.Dst)
	case VecIndexPut:
		return fmt.Sprintf("%04d VecIndexPut r%d r%d r%d -> r%d", pc, insc.Lhs, insc.Rhs, insc.Src, insc.Dst)
	case ObjectGetDyn:
		return fmt.Sprintf("%04d ObjectGetDyn r%d r%d -> r%d", pc, insc.Lhs, insc.Rhs, insc.Dst)
	case ObjectPutDyn:
		return fmt.Sprintf("%04d ObjectPutDyn r%d r%d r%d -> r%d", pc, insc.Lhs, insc.Rhs, insc.Src, insc.Dst)
	default:
		return fmt.Sprintf("%04d <unknown op %d>", pc, insc.Op)
	}
}
