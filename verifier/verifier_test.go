package verifier

import (
	"testing"

	"github.com/valuerange/boundscheck/cfg"
	"github.com/valuerange/boundscheck/fixpoint"
	"github.com/valuerange/boundscheck/ir"
)

func runToFixpoint(t *testing.T, proc *ir.Procedure) *fixpoint.Result {
	t.Helper()
	if err := proc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	g := cfg.Build(proc)
	f := &fixpoint.Framework{}
	result, err := f.Start(g).Forward()
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}
	return result
}

func TestVerifyFlagsOutOfBoundsConstant(t *testing.T) {
	arr := ir.NewArrayAlloc("a", 10)
	idx := ir.NewConst(10)
	access := ir.NewIndexAddr("p", arr, idx)
	ret := &ir.Return{}
	entry := &ir.BasicBlock{Name: "entry", Instrs: []ir.Instruction{arr, access, ret}}
	proc := &ir.Procedure{Name: "p", Entry: entry, Blocks: []*ir.BasicBlock{entry}}

	result := runToFixpoint(t, proc)
	diags := Verify(proc, result)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %d: %v", len(diags), diags)
	}
	if diags[0].Instr != access {
		t.Fatalf("diagnostic's Instr = %v, want the IndexAddr itself", diags[0].Instr)
	}
	if diags[0].Message != "Array out of bounds access" {
		t.Fatalf("message = %q, want the fixed external-interface text", diags[0].Message)
	}
	// access carries no source location, so Format must use the
	// no-location form: "WARNING: ... at <instr>" plus the advisory line.
	want := "WARNING: Array out of bounds access at " + access.String() +
		"\nrecompile with debug information to get a source location for this warning."
	if got := diags[0].Format(); got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestVerifyAllowsInBoundsConstant(t *testing.T) {
	arr := ir.NewArrayAlloc("a", 10)
	idx := ir.NewConst(9)
	access := ir.NewIndexAddr("p", arr, idx)
	ret := &ir.Return{}
	entry := &ir.BasicBlock{Name: "entry", Instrs: []ir.Instruction{arr, access, ret}}
	proc := &ir.Procedure{Name: "p", Entry: entry, Blocks: []*ir.BasicBlock{entry}}

	result := runToFixpoint(t, proc)
	diags := Verify(proc, result)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics for an in-bounds constant index, got %v", diags)
	}
}

func TestVerifyIgnoresIndexAddrOnUntrackedBase(t *testing.T) {
	notAnArray := ir.NewScalarAlloc("p")
	idx := ir.NewConst(0)
	access := ir.NewIndexAddr("addr", notAnArray, idx)
	ret := &ir.Return{}
	entry := &ir.BasicBlock{Name: "entry", Instrs: []ir.Instruction{notAnArray, access, ret}}
	proc := &ir.Procedure{Name: "p", Entry: entry, Blocks: []*ir.BasicBlock{entry}}

	result := runToFixpoint(t, proc)
	diags := Verify(proc, result)
	if len(diags) != 0 {
		t.Fatalf("IndexAddr on a non-array base should never be checked, got %v", diags)
	}
}

func TestVerifyChecksFirstInstructionAgainstBlockEntry(t *testing.T) {
	arr := ir.NewArrayAlloc("a", 5)
	access := ir.NewIndexAddr("p", arr, ir.NewConst(5)) // index equals array size: out of bounds
	ret := &ir.Return{}
	// access is the block's first instruction, so the environment before
	// it is the block entry environment; the array-size table is built
	// from every alloc in the procedure regardless of position.
	entry := &ir.BasicBlock{Name: "entry", Instrs: []ir.Instruction{access, arr, ret}}
	proc := &ir.Procedure{Name: "p", Entry: entry, Blocks: []*ir.BasicBlock{entry}}

	result := runToFixpoint(t, proc)
	diags := Verify(proc, result)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic for an out-of-bounds constant 5 against size 5, got %d", len(diags))
	}
}
