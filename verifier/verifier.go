// Package verifier implements the post-fixpoint bounds check: for every
// *ir.IndexAddr in the procedure, look up its index operand's interval at
// that instruction and the array's static size, and emit a diagnostic
// when the interval lies provably entirely outside [0, size).
package verifier

import (
	"github.com/valuerange/boundscheck/diag"
	"github.com/valuerange/boundscheck/env"
	"github.com/valuerange/boundscheck/fixpoint"
	"github.com/valuerange/boundscheck/ir"
	"github.com/valuerange/boundscheck/transfer"
)

// Verify walks every instruction in proc's blocks and checks each
// *ir.IndexAddr against result's recorded environments and proc's
// array-size table, per spec.md §4.F's algorithm.
func Verify(proc *ir.Procedure, result *fixpoint.Result) []diag.Diagnostic {
	var diags []diag.Diagnostic
	for _, b := range proc.Blocks {
		for _, instr := range b.Instrs {
			x, ok := instr.(*ir.IndexAddr)
			if !ok {
				continue
			}
			if d, flag := check(proc, result, x); flag {
				diags = append(diags, d)
			}
		}
	}
	diag.Sort(diags)
	return diags
}

func check(proc *ir.Procedure, result *fixpoint.Result, x *ir.IndexAddr) (diag.Diagnostic, bool) {
	size, known := proc.ArrayLength(x.Base)
	if !known {
		// not indexing a statically sized array this analyzer tracks;
		// nothing to check.
		return diag.Diagnostic{}, false
	}

	e, ok := envBefore(result, x)
	if !ok {
		// block unreachable in the fixpoint's traversal; no environment
		// was ever recorded for it, so there is nothing unsound to flag.
		return diag.Diagnostic{}, false
	}

	idx := transfer.ValueOf(e, x.Index)
	if !idx.IsOutOfRange(size) {
		return diag.Diagnostic{}, false
	}

	return diag.Diagnostic{
		Category: diag.CategoryOutOfBounds,
		Message:  "Array out of bounds access",
		Pos:      x.Pos(),
		Instr:    x,
	}, true
}

// envBefore returns the environment in effect immediately before x ran:
// the "after" environment of the instruction preceding x in its block,
// or the block's entry environment if x is first.
func envBefore(result *fixpoint.Result, x *ir.IndexAddr) (env.Env, bool) {
	b := x.Block()
	var prev ir.Instruction
	for _, instr := range b.Instrs {
		if instr == x {
			break
		}
		prev = instr
	}
	if prev == nil {
		e, ok := result.BlockEntry[b]
		return e, ok
	}
	e, ok := result.InstrEnv[prev]
	return e, ok
}
