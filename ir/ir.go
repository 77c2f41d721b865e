// Package ir defines the procedure data model the analyzer core consumes: a
// control-flow graph of basic blocks over a three-address intermediate
// representation.
//
// Producing values of these types from real source is explicitly out of
// scope here (see the package doc in the root boundscheck package) — a
// separate front end is expected to build an *ir.Procedure and hand it to
// Analyze. This package only describes the shape that front end must
// produce.
package ir

import "fmt"

// Opcode identifies the operation an Instruction performs. This is the
// closed set the abstract transfer (package transfer) knows how to handle;
// anything outside of it is still representable as an Instruction (see
// Other below) and is handled soundly by treating its result as top.
type Opcode int

const (
	OpInvalid Opcode = iota

	OpAllocScalar // stack allocation of a scalar int
	OpAllocArray  // stack allocation of an array of int
	OpLoad        // load from a variable
	OpStore       // store a value to a variable
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpCmp        // integer comparison, feeds a subsequent If
	OpIf         // conditional branch on a prior OpCmp
	OpJump       // unconditional branch
	OpIndexAddr  // array index computation
	OpCall       // call, returns top
	OpConvert    // bitcast / integer-integer conversion
	OpReturn     // no effect
	OpOther      // anything else; sound as a no-op over the environment
)

func (op Opcode) String() string {
	switch op {
	case OpAllocScalar:
		return "alloc_scalar"
	case OpAllocArray:
		return "alloc_array"
	case OpLoad:
		return "load"
	case OpStore:
		return "store"
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	case OpDiv:
		return "div"
	case OpCmp:
		return "cmp"
	case OpIf:
		return "if"
	case OpJump:
		return "jump"
	case OpIndexAddr:
		return "index_addr"
	case OpCall:
		return "call"
	case OpConvert:
		return "convert"
	case OpReturn:
		return "return"
	case OpOther:
		return "other"
	default:
		return "invalid"
	}
}

// Predicate identifies the relation an OpCmp instruction computes. Only
// meaningful when Instruction.Opcode() == OpCmp.
type Predicate int

const (
	PredInvalid Predicate = iota
	PredEQ
	PredNE
	PredLT
	PredLE
	PredGT
	PredGE
)

func (p Predicate) String() string {
	switch p {
	case PredEQ:
		return "=="
	case PredNE:
		return "!="
	case PredLT:
		return "<"
	case PredLE:
		return "<="
	case PredGT:
		return ">"
	case PredGE:
		return ">="
	default:
		return "?"
	}
}

// Negate returns the predicate for "not p", e.g. Negate(LT) == GE.
func (p Predicate) Negate() Predicate {
	switch p {
	case PredEQ:
		return PredNE
	case PredNE:
		return PredEQ
	case PredLT:
		return PredGE
	case PredLE:
		return PredGT
	case PredGT:
		return PredLE
	case PredGE:
		return PredLT
	default:
		return PredInvalid
	}
}

// Flip returns the predicate for "y p x" given "x p y", e.g. Flip(LT) == GT.
func (p Predicate) Flip() Predicate {
	switch p {
	case PredLT:
		return PredGT
	case PredGT:
		return PredLT
	case PredLE:
		return PredGE
	case PredGE:
		return PredLE
	default:
		return p
	}
}

// SourceLocation is the optional (file, line, column) triple an Instruction
// may carry. Retrieving it from the original source is out of scope (see
// the root package doc); the front end populates it, or leaves it zero.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

// IsZero reports whether no location was supplied.
func (s SourceLocation) IsZero() bool {
	return s == SourceLocation{}
}

func (s SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Value is anything an Instruction can produce and another Instruction can
// reference as an operand. Identity is Go pointer identity of the
// concrete value, matching the "variable is the IR value it originates
// from" rule.
type Value interface {
	Instruction
	// Name is a human-readable identifier used only in diagnostics text
	// and debug output; it plays no role in analysis.
	Name() string
}

// Instruction is one operation inside a BasicBlock.
type Instruction interface {
	Opcode() Opcode
	Block() *BasicBlock
	Pos() SourceLocation
	String() string

	setBlock(*BasicBlock)
}

type instr struct {
	block *BasicBlock
	pos   SourceLocation
}

func (i *instr) Block() *BasicBlock     { return i.block }
func (i *instr) Pos() SourceLocation    { return i.pos }
func (i *instr) setBlock(b *BasicBlock) { i.block = b }

// Const is an integer constant operand or instruction result.
type Const struct {
	instr
	Value int32
}

func NewConst(v int32) *Const { return &Const{Value: v} }

func (c *Const) Opcode() Opcode { return OpOther }
func (c *Const) Name() string   { return fmt.Sprintf("%d", c.Value) }
func (c *Const) String() string { return fmt.Sprintf("%d", c.Value) }

// Alloc is a stack allocation. Scalar allocations are tracked Values (the
// slot itself gets an interval); array allocations are Values too, so an
// IndexAddr can name one as its Base, but are never given an interval
// (see transfer's handling of OpAllocArray).
type Alloc struct {
	instr
	name     string
	IsArray  bool
	ArrayLen int32 // element count, meaningful iff IsArray
}

func NewScalarAlloc(name string) *Alloc { return &Alloc{name: name} }
func NewArrayAlloc(name string, length int32) *Alloc {
	return &Alloc{name: name, IsArray: true, ArrayLen: length}
}

func (a *Alloc) Opcode() Opcode {
	if a.IsArray {
		return OpAllocArray
	}
	return OpAllocScalar
}
func (a *Alloc) Name() string { return a.name }
func (a *Alloc) String() string {
	if a.IsArray {
		return fmt.Sprintf("alloc_array %s[%d]", a.name, a.ArrayLen)
	}
	return fmt.Sprintf("alloc_scalar %s", a.name)
}

// Load reads the current interval of a variable (typically an *Alloc slot,
// but any Value can be "loaded" — e.g. re-reading a prior instruction's
// result through a pointer-free rename).
type Load struct {
	instr
	name string
	Src  Value
}

func NewLoad(name string, src Value) *Load { return &Load{name: name, Src: src} }

func (l *Load) Opcode() Opcode { return OpLoad }
func (l *Load) Name() string   { return l.name }
func (l *Load) String() string { return fmt.Sprintf("%s = load %s", l.name, l.Src.Name()) }

// Store writes Val into Dst, a strong update (no aliasing, per spec.md §3).
type Store struct {
	instr
	Dst Value
	Val Value
}

func NewStore(dst, val Value) *Store { return &Store{Dst: dst, Val: val} }

func (s *Store) Opcode() Opcode { return OpStore }
func (s *Store) String() string { return fmt.Sprintf("store %s, %s", s.Val.Name(), s.Dst.Name()) }

// BinOp is +, -, *, / or a comparison. For comparisons (Op == OpCmp), Pred
// identifies the relation and the instruction has no effect on the
// environment by itself (see transfer's handling of OpCmp); refinement
// happens at the subsequent If.
type BinOp struct {
	instr
	name string
	Op   Opcode
	Pred Predicate
	X, Y Value
}

func NewBinOp(name string, op Opcode, x, y Value) *BinOp {
	return &BinOp{name: name, Op: op, X: x, Y: y}
}

func NewCmp(name string, pred Predicate, x, y Value) *BinOp {
	return &BinOp{name: name, Op: OpCmp, Pred: pred, X: x, Y: y}
}

func (b *BinOp) Opcode() Opcode { return b.Op }
func (b *BinOp) Name() string   { return b.name }
func (b *BinOp) String() string {
	if b.Op == OpCmp {
		return fmt.Sprintf("%s = %s %s %s", b.name, b.X.Name(), b.Pred, b.Y.Name())
	}
	return fmt.Sprintf("%s = %s %s %s", b.name, b.X.Name(), b.Op, b.Y.Name())
}

// IndexAddr computes the address of Base[Index]. The bounds verifier
// (package verifier) inspects exactly these instructions; the abstract
// transfer gives its result value top (spec.md §4.D).
type IndexAddr struct {
	instr
	name  string
	Base  Value
	Index Value
}

func NewIndexAddr(name string, base, index Value) *IndexAddr {
	return &IndexAddr{name: name, Base: base, Index: index}
}

func (x *IndexAddr) Opcode() Opcode { return OpIndexAddr }
func (x *IndexAddr) Name() string   { return x.name }
func (x *IndexAddr) String() string {
	return fmt.Sprintf("%s = index_addr %s[%s]", x.name, x.Base.Name(), x.Index.Name())
}

// Call produces top for its return value; its arguments and callee are
// recorded only for String().
type Call struct {
	instr
	name   string
	Callee string
	Args   []Value
}

func NewCall(name, callee string, args ...Value) *Call {
	return &Call{name: name, Callee: callee, Args: args}
}

func (c *Call) Opcode() Opcode { return OpCall }
func (c *Call) Name() string   { return c.name }
func (c *Call) String() string { return fmt.Sprintf("%s = call %s(...)", c.name, c.Callee) }

// Convert passes its operand's interval through unchanged (bitcast /
// integer-integer conversion).
type Convert struct {
	instr
	name string
	X    Value
}

func NewConvert(name string, x Value) *Convert { return &Convert{name: name, X: x} }

func (c *Convert) Opcode() Opcode { return OpConvert }
func (c *Convert) Name() string   { return c.name }
func (c *Convert) String() string { return fmt.Sprintf("%s = convert %s", c.name, c.X.Name()) }

// If is the conditional-branch terminator described in spec.md §4.D.1. Cond
// must be an *BinOp with Op == OpCmp.
type If struct {
	instr
	Cond *BinOp
	Then *BasicBlock
	Else *BasicBlock
}

func (i *If) Opcode() Opcode { return OpIf }
func (i *If) String() string {
	return fmt.Sprintf("if %s goto %s else %s", i.Cond.Name(), i.Then.Name, i.Else.Name)
}

// Jump is the unconditional-branch terminator.
type Jump struct {
	instr
	Target *BasicBlock
}

func (j *Jump) Opcode() Opcode { return OpJump }
func (j *Jump) String() string { return fmt.Sprintf("goto %s", j.Target.Name) }

// Return is the terminator of a block with no successors.
type Return struct {
	instr
	Val Value // nil for a void return
}

func (r *Return) Opcode() Opcode { return OpReturn }
func (r *Return) String() string {
	if r.Val == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Val.Name())
}

// Other represents an instruction whose opcode transfer has no specific
// rule for (spec.md §4.D's "Other" row): its result, if any, is left
// untracked. Kept distinct from silently dropping the instruction so the
// verifier and debug tooling can still see it in the block.
type Other struct {
	instr
	name string
	Text string
}

func NewOther(name, text string) *Other { return &Other{name: name, Text: text} }

func (o *Other) Opcode() Opcode { return OpOther }
func (o *Other) Name() string   { return o.name }
func (o *Other) String() string { return o.Text }
