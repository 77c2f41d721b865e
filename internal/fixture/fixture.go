// Package fixture builds *ir.Procedure values from a small YAML
// description, standing in for the real front end (parsing/lowering from
// source) that spec.md explicitly puts out of scope. It exists only for
// tests and the cmd/boundscheck-inspect demo CLI — nothing in the
// analyzer itself depends on it.
package fixture

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/valuerange/boundscheck/ir"
)

// Procedure is the YAML shape of one procedure.
type Procedure struct {
	Name   string  `yaml:"name"`
	Blocks []Block `yaml:"blocks"`
}

// Block is one basic block: a name, a straight-line instruction list, and
// a terminator.
type Block struct {
	Name   string       `yaml:"name"`
	Instrs []Instr      `yaml:"instrs"`
	Term   Terminator   `yaml:"term"`
}

// Instr is a tagged union over the instruction kinds fixture can build,
// discriminated by Op. Only the fields relevant to Op need be set.
type Instr struct {
	Op     string   `yaml:"op"`
	Name   string   `yaml:"name"`
	Length int32    `yaml:"length"`
	Src    string   `yaml:"src"`
	Dst    string   `yaml:"dst"`
	Val    string   `yaml:"val"`
	X      string   `yaml:"x"`
	Y      string   `yaml:"y"`
	Pred   string   `yaml:"pred"`
	Base   string   `yaml:"base"`
	Index  string   `yaml:"index"`
	Callee string   `yaml:"callee"`
	Args   []string `yaml:"args"`
	Text   string   `yaml:"text"`
}

// Terminator is one of if/jump/return, discriminated by Kind.
type Terminator struct {
	Kind string `yaml:"kind"`
	Cond string `yaml:"cond"` // if: name of the cmp instruction
	Then string `yaml:"then"`
	Else string `yaml:"else"`
	Target string `yaml:"target"` // jump
	Val    string `yaml:"val"`    // return, optional
}

// Load reads and builds the procedure described by the YAML file at path.
func Load(path string) (*ir.Procedure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse builds the procedure described by YAML-encoded data.
func Parse(data []byte) (*ir.Procedure, error) {
	var p Procedure
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return build(p)
}

type builder struct {
	blocks map[string]*ir.BasicBlock
	values map[string]ir.Value
}

func build(p Procedure) (*ir.Procedure, error) {
	b := &builder{
		blocks: make(map[string]*ir.BasicBlock, len(p.Blocks)),
		values: make(map[string]ir.Value),
	}
	if len(p.Blocks) == 0 {
		return nil, fmt.Errorf("fixture: procedure %q has no blocks", p.Name)
	}
	for _, bl := range p.Blocks {
		b.blocks[bl.Name] = &ir.BasicBlock{Name: bl.Name}
	}
	for _, bl := range p.Blocks {
		if err := b.fillBlock(bl); err != nil {
			return nil, fmt.Errorf("fixture: block %q: %w", bl.Name, err)
		}
	}
	proc := &ir.Procedure{
		Name:  p.Name,
		Entry: b.blocks[p.Blocks[0].Name],
	}
	for _, bl := range p.Blocks {
		proc.Blocks = append(proc.Blocks, b.blocks[bl.Name])
	}
	return proc, nil
}

func (b *builder) fillBlock(bl Block) error {
	blk := b.blocks[bl.Name]
	for _, in := range bl.Instrs {
		v, err := b.buildInstr(in)
		if err != nil {
			return err
		}
		blk.Instrs = append(blk.Instrs, v)
		if in.Name != "" {
			if val, ok := v.(ir.Value); ok {
				b.values[in.Name] = val
			}
		}
	}
	term, err := b.buildTerminator(bl.Term)
	if err != nil {
		return err
	}
	blk.Instrs = append(blk.Instrs, term)
	return nil
}

func (b *builder) buildInstr(in Instr) (ir.Instruction, error) {
	switch in.Op {
	case "alloc_scalar":
		v := ir.NewScalarAlloc(in.Name)
		return v, nil
	case "alloc_array":
		v := ir.NewArrayAlloc(in.Name, in.Length)
		return v, nil
	case "load":
		src, err := b.operand(in.Src)
		if err != nil {
			return nil, err
		}
		return ir.NewLoad(in.Name, src), nil
	case "store":
		dst, err := b.operand(in.Dst)
		if err != nil {
			return nil, err
		}
		val, err := b.operand(in.Val)
		if err != nil {
			return nil, err
		}
		return ir.NewStore(dst, val), nil
	case "add", "sub", "mul", "div":
		x, y, err := b.operandPair(in.X, in.Y)
		if err != nil {
			return nil, err
		}
		return ir.NewBinOp(in.Name, opFor(in.Op), x, y), nil
	case "cmp":
		x, y, err := b.operandPair(in.X, in.Y)
		if err != nil {
			return nil, err
		}
		pred, err := predFor(in.Pred)
		if err != nil {
			return nil, err
		}
		return ir.NewCmp(in.Name, pred, x, y), nil
	case "index_addr":
		base, index, err := b.operandPair(in.Base, in.Index)
		if err != nil {
			return nil, err
		}
		return ir.NewIndexAddr(in.Name, base, index), nil
	case "call":
		args := make([]ir.Value, 0, len(in.Args))
		for _, a := range in.Args {
			v, err := b.operand(a)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return ir.NewCall(in.Name, in.Callee, args...), nil
	case "convert":
		x, err := b.operand(in.X)
		if err != nil {
			return nil, err
		}
		return ir.NewConvert(in.Name, x), nil
	case "other":
		return ir.NewOther(in.Name, in.Text), nil
	default:
		return nil, fmt.Errorf("unknown instruction op %q", in.Op)
	}
}

func (b *builder) buildTerminator(t Terminator) (ir.Instruction, error) {
	switch t.Kind {
	case "if":
		cond, ok := b.values[t.Cond]
		if !ok {
			return nil, fmt.Errorf("if: unknown cond %q", t.Cond)
		}
		cmp, ok := cond.(*ir.BinOp)
		if !ok || cmp.Opcode() != ir.OpCmp {
			return nil, fmt.Errorf("if: cond %q is not a comparison", t.Cond)
		}
		then, ok := b.blocks[t.Then]
		if !ok {
			return nil, fmt.Errorf("if: unknown then block %q", t.Then)
		}
		els, ok := b.blocks[t.Else]
		if !ok {
			return nil, fmt.Errorf("if: unknown else block %q", t.Else)
		}
		return &ir.If{Cond: cmp, Then: then, Else: els}, nil
	case "jump":
		target, ok := b.blocks[t.Target]
		if !ok {
			return nil, fmt.Errorf("jump: unknown target block %q", t.Target)
		}
		return &ir.Jump{Target: target}, nil
	case "return":
		if t.Val == "" {
			return &ir.Return{}, nil
		}
		v, err := b.operand(t.Val)
		if err != nil {
			return nil, err
		}
		return &ir.Return{Val: v}, nil
	default:
		return nil, fmt.Errorf("unknown terminator kind %q", t.Kind)
	}
}

// operand resolves s to a Value: an integer literal becomes a fresh
// *ir.Const, anything else must name a previously built instruction or
// allocation.
func (b *builder) operand(s string) (ir.Value, error) {
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return ir.NewConst(int32(n)), nil
	}
	v, ok := b.values[s]
	if !ok {
		return nil, fmt.Errorf("unknown operand %q", s)
	}
	return v, nil
}

func (b *builder) operandPair(xs, ys string) (ir.Value, ir.Value, error) {
	x, err := b.operand(xs)
	if err != nil {
		return nil, nil, err
	}
	y, err := b.operand(ys)
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

func opFor(s string) ir.Opcode {
	switch s {
	case "add":
		return ir.OpAdd
	case "sub":
		return ir.OpSub
	case "mul":
		return ir.OpMul
	case "div":
		return ir.OpDiv
	default:
		return ir.OpInvalid
	}
}

func predFor(s string) (ir.Predicate, error) {
	switch s {
	case "==":
		return ir.PredEQ, nil
	case "!=":
		return ir.PredNE, nil
	case "<":
		return ir.PredLT, nil
	case "<=":
		return ir.PredLE, nil
	case ">":
		return ir.PredGT, nil
	case ">=":
		return ir.PredGE, nil
	default:
		return ir.PredInvalid, fmt.Errorf("unknown predicate %q", s)
	}
}
