package fixture

import (
	"testing"

	"github.com/valuerange/boundscheck/ir"
)

func TestParseBuildsLinearProcedure(t *testing.T) {
	yamlSrc := `
name: linear
blocks:
  - name: entry
    instrs:
      - {op: alloc_array, name: a, length: 10}
      - {op: alloc_scalar, name: i}
      - {op: store, dst: i, val: "3"}
      - {op: load, name: iv, src: i}
      - {op: index_addr, name: p, base: a, index: iv}
    term: {kind: return}
`
	proc, err := Parse([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if proc.Name != "linear" {
		t.Fatalf("Name = %q, want %q", proc.Name, "linear")
	}
	if len(proc.Blocks) != 1 {
		t.Fatalf("len(Blocks) = %d, want 1", len(proc.Blocks))
	}
	if err := proc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	entry := proc.Blocks[0]
	if len(entry.Instrs) != 6 { // 5 instrs + the return terminator
		t.Fatalf("entry has %d instructions, want 6", len(entry.Instrs))
	}
	if _, ok := entry.Instrs[len(entry.Instrs)-1].(*ir.Return); !ok {
		t.Fatalf("last instruction is %T, want *ir.Return", entry.Instrs[len(entry.Instrs)-1])
	}

	access, ok := entry.Instrs[4].(*ir.IndexAddr)
	if !ok {
		t.Fatalf("instrs[4] = %T, want *ir.IndexAddr", entry.Instrs[4])
	}
	size, known := proc.ArrayLength(access.Base)
	if !known || size != 10 {
		t.Fatalf("ArrayLength(access.Base) = (%d, %v), want (10, true)", size, known)
	}
}

func TestParseBuildsBranchingProcedure(t *testing.T) {
	yamlSrc := `
name: branch
blocks:
  - name: entry
    instrs:
      - {op: alloc_scalar, name: x}
      - {op: load, name: xv, src: x}
      - {op: cmp, name: c, x: xv, y: "10", pred: "<"}
    term: {kind: if, cond: c, then: t, else: e}
  - name: t
    instrs: []
    term: {kind: return}
  - name: e
    instrs: []
    term: {kind: return}
`
	proc, err := Parse([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := proc.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(proc.Blocks) != 3 {
		t.Fatalf("len(Blocks) = %d, want 3", len(proc.Blocks))
	}
	entry := proc.Blocks[0]
	if len(entry.Succs) != 2 {
		t.Fatalf("entry.Succs has %d blocks, want 2", len(entry.Succs))
	}
}

func TestParseRejectsUnknownOperand(t *testing.T) {
	yamlSrc := `
name: bad
blocks:
  - name: entry
    instrs:
      - {op: load, name: v, src: nonexistent}
    term: {kind: return}
`
	_, err := Parse([]byte(yamlSrc))
	if err == nil {
		t.Fatal("expected an error for a load referencing an unknown operand")
	}
}

func TestParseRejectsEmptyProcedure(t *testing.T) {
	_, err := Parse([]byte("name: empty\nblocks: []\n"))
	if err == nil {
		t.Fatal("expected an error for a procedure with no blocks")
	}
}

func TestParseIntegerOperandBecomesConst(t *testing.T) {
	yamlSrc := `
name: constop
blocks:
  - name: entry
    instrs:
      - {op: add, name: r, x: "1", y: "2"}
    term: {kind: return}
`
	proc, err := Parse([]byte(yamlSrc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	add, ok := proc.Blocks[0].Instrs[0].(*ir.BinOp)
	if !ok {
		t.Fatalf("instrs[0] = %T, want *ir.BinOp", proc.Blocks[0].Instrs[0])
	}
	x, ok := add.X.(*ir.Const)
	if !ok || x.Value != 1 {
		t.Fatalf("add.X = %v, want *ir.Const{Value: 1}", add.X)
	}
}
