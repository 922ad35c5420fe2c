package sidetables

import "github.com/lispcore/c0i/internal/bytecode"

// ConstPool is the ordered string (and future atom) constant pool built
// up during analysis, in string-literal encounter order.
type ConstPool struct {
	entries []bytecode.Const
}

// NewConstPool returns an empty pool.
func NewConstPool() *ConstPool {
	return &ConstPool{}
}

// AddString appends a string constant and returns its index.
func (p *ConstPool) AddString(s string) int {
	p.entries = append(p.entries, bytecode.Const{Kind: bytecode.ConstStr, Str: s})
	return len(p.entries) - 1
}

// Entries returns the pool in index order, ready to become
// CompiledProgram.ConstPool.
func (p *ConstPool) Entries() []bytecode.Const {
	return p.entries
}

// GlobalProps is the analyzer's global property bag: ad hoc facts that
// don't belong to any single node or function, such as the function id
// of the program's entry point or the id of the built-in `cons`.
type GlobalProps struct {
	data map[string]Attr
}

// NewGlobalProps returns an empty property bag.
func NewGlobalProps() *GlobalProps {
	return &GlobalProps{data: make(map[string]Attr)}
}

func (g *GlobalProps) Set(key string, value Attr) { g.data[key] = value }

func (g *GlobalProps) Get(key string) (Attr, bool) {
	v, ok := g.data[key]
	return v, ok
}

func (g *GlobalProps) GetInt(key string) int {
	v, ok := g.data[key]
	if !ok {
		panic("sidetables: missing required global property " + key)
	}
	return v.(int)
}

const (
	// PropEntryFuncID names the program's entry-point function id.
	PropEntryFuncID = "application-start"
	// PropBuiltinConsFuncID names the built-in `cons` function's id,
	// consulted when lowering a pair literal.
	PropBuiltinConsFuncID = "BuiltinConsFuncID"
)
