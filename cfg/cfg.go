// Package cfg wraps an *ir.Procedure with the one precomputed index the
// core analysis needs: each block's successor set, keyed by block index
// rather than pointer so it can be stored in a sparse bitset instead of a
// map[*ir.BasicBlock][]*ir.BasicBlock.
package cfg

import (
	"golang.org/x/tools/container/intsets"

	"github.com/valuerange/boundscheck/ir"
)

// Graph is a read-only view over a finished *ir.Procedure.
type Graph struct {
	proc *ir.Procedure
	succ []intsets.Sparse // indexed by block index
}

// Build computes the successor index for proc, which must already have
// had Finish called on it (Preds/Succs populated).
func Build(proc *ir.Procedure) *Graph {
	g := &Graph{
		proc: proc,
		succ: make([]intsets.Sparse, len(proc.Blocks)),
	}
	for _, b := range proc.Blocks {
		for _, s := range b.Succs {
			g.succ[b.Index].Insert(s.Index)
		}
	}
	return g
}

// Procedure returns the underlying procedure.
func (g *Graph) Procedure() *ir.Procedure { return g.proc }

// Entry returns the procedure's entry block.
func (g *Graph) Entry() *ir.BasicBlock { return g.proc.Entry }

// Successors returns b's successor blocks, per the precomputed index.
func (g *Graph) Successors(b *ir.BasicBlock) []*ir.BasicBlock {
	var out []*ir.BasicBlock
	var s intsets.Sparse
	s.Copy(&g.succ[b.Index])
	for i := 0; s.TakeMin(&i); {
		out = append(out, g.proc.Blocks[i])
	}
	return out
}

// NumBlocks returns the number of blocks in the procedure, for callers
// sizing their own block-indexed tables.
func (g *Graph) NumBlocks() int { return len(g.proc.Blocks) }
