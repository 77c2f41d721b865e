// Package fixpoint runs the abstract interpretation to a fixpoint over a
// single procedure's control-flow graph: a BFS worklist from the entry
// block, merging environments at block entries, applying package
// transfer's per-instruction rules, and widening at the point each
// per-instruction or per-edge environment is recorded — not only at loop
// headers — so termination does not depend on detecting loops at all.
package fixpoint

import (
	"fmt"

	"github.com/valuerange/boundscheck/cfg"
	"github.com/valuerange/boundscheck/env"
	"github.com/valuerange/boundscheck/ir"
	"github.com/valuerange/boundscheck/transfer"
)

// Edge identifies one directed control-flow edge by its endpoints.
type Edge struct {
	From, To *ir.BasicBlock
}

// Result is the complete output of running a Framework to a fixpoint:
// every recorded environment, keyed the way the verifier and any debug
// tooling need to look them up.
type Result struct {
	Procedure  *ir.Procedure
	BlockEntry map[*ir.BasicBlock]env.Env
	InstrEnv   map[ir.Instruction]env.Env
	EdgeEnv    map[Edge]env.Env
}

// LimitExceededError is returned when the engine's defensive iteration
// cap is hit. It is not part of the analysis semantics (the one-sided
// widening argument already guarantees termination); it exists only so a
// misconfigured or regressed widening rule fails loudly instead of
// hanging the host.
type LimitExceededError struct {
	Procedure  string
	Iterations int
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("fixpoint: procedure %q did not converge within %d iterations", e.Procedure, e.Iterations)
}

// Framework bundles the fixpoint engine's one configuration knob.
type Framework struct {
	// MaxIterations caps the number of block visits before aborting with
	// a LimitExceededError. Zero means "use a generous default."
	MaxIterations int
}

const defaultMaxIterations = 100000

// Start prepares an Instance to run the framework's algorithm over proc.
func (f *Framework) Start(g *cfg.Graph) *Instance {
	limit := f.MaxIterations
	if limit <= 0 {
		limit = defaultMaxIterations
	}
	return &Instance{
		graph: g,
		limit: limit,
		blockEntry: make(map[*ir.BasicBlock]env.Env),
		instrEnv:   make(map[ir.Instruction]env.Env),
		edgeEnv:    make(map[Edge]env.Env),
	}
}

// Instance owns one fixpoint run's mutable state.
type Instance struct {
	graph *cfg.Graph
	limit int

	blockEntry map[*ir.BasicBlock]env.Env
	instrEnv   map[ir.Instruction]env.Env
	edgeEnv    map[Edge]env.Env
}

// Forward runs the BFS worklist to a fixpoint and returns the result.
func (in *Instance) Forward() (*Result, error) {
	proc := in.graph.Procedure()
	queue := []*ir.BasicBlock{in.graph.Entry()}
	queued := map[*ir.BasicBlock]bool{in.graph.Entry(): true}

	visits := 0
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		queued[b] = false

		visits++
		if visits > in.limit {
			return nil, &LimitExceededError{Procedure: proc.Name, Iterations: in.limit}
		}

		newlyReachable := in.processBlock(b)
		for _, next := range newlyReachable {
			if !queued[next] {
				queued[next] = true
				queue = append(queue, next)
			}
		}
	}

	return &Result{
		Procedure:  proc,
		BlockEntry: in.blockEntry,
		InstrEnv:   in.instrEnv,
		EdgeEnv:    in.edgeEnv,
	}, nil
}

// processBlock recomputes b's entry environment from its currently
// reachable incoming edges, walks its instructions, and records the
// environment flowing along each outgoing edge. It returns the
// successor blocks whose incoming environment changed as a result, i.e.
// the blocks that need to be (re)visited.
func (in *Instance) processBlock(b *ir.BasicBlock) []*ir.BasicBlock {
	entry, ok := in.mergeIncoming(b)
	if !ok {
		// has predecessors but none of their edges are reachable yet.
		return nil
	}
	in.blockEntry[b] = entry

	cur := entry
	var term ir.Instruction
	for _, instr := range b.Instrs {
		if isTerminator(instr) {
			term = instr
			break
		}
		next := transfer.Step(cur, instr)
		cur = in.recordInstr(instr, next)
	}

	var changed []*ir.BasicBlock
	switch t := term.(type) {
	case *ir.If:
		in.instrEnv[t] = cur
		thenEnv, thenOK, elseEnv, elseOK := transfer.Branch(cur, t)
		if thenOK {
			if in.recordEdge(Edge{b, t.Then}, thenEnv) {
				changed = append(changed, t.Then)
			}
		}
		if elseOK {
			if in.recordEdge(Edge{b, t.Else}, elseEnv) {
				changed = append(changed, t.Else)
			}
		}
	case *ir.Jump:
		in.instrEnv[t] = cur
		if in.recordEdge(Edge{b, t.Target}, cur) {
			changed = append(changed, t.Target)
		}
	case *ir.Return:
		in.instrEnv[t] = cur
	}
	return changed
}

// mergeIncoming computes b's entry environment as the merge of every
// currently-recorded incoming edge environment. The entry block always
// starts from the empty environment, even when a back edge leads into
// it. ok is false when b has predecessors but none of their edges have
// produced an environment yet, the "skip" case spec.md §4.E calls out
// explicitly.
func (in *Instance) mergeIncoming(b *ir.BasicBlock) (env.Env, bool) {
	if b == in.graph.Entry() || len(b.Preds) == 0 {
		return env.New(), true
	}
	var merged env.Env
	found := false
	for _, p := range b.Preds {
		e, ok := in.edgeEnv[Edge{p, b}]
		if !ok {
			continue
		}
		if !found {
			merged = e
			found = true
			continue
		}
		merged = env.Merge(merged, e)
	}
	return merged, found
}

// recordInstr stores next as instr's "after" environment, widening
// against whatever was previously recorded there rather than overwriting
// outright, per spec.md §4.E/§9: widening happens at the recording site
// itself, on every instruction, not only at loop headers.
func (in *Instance) recordInstr(instr ir.Instruction, next env.Env) env.Env {
	prev, existed := in.instrEnv[instr]
	result := next
	if existed {
		result = env.Widen(prev, next)
	}
	in.instrEnv[instr] = result
	return result
}

// recordEdge stores next as the environment flowing along e, same
// widen-at-record-site rule as recordInstr. It reports whether the
// recorded value changed, which drives re-enqueuing the edge's target.
func (in *Instance) recordEdge(e Edge, next env.Env) bool {
	prev, existed := in.edgeEnv[e]
	result := next
	if existed {
		result = env.Widen(prev, next)
	}
	in.edgeEnv[e] = result
	return !existed || !env.Equal(prev, result)
}

func isTerminator(instr ir.Instruction) bool {
	switch instr.(type) {
	case *ir.If, *ir.Jump, *ir.Return:
		return true
	default:
		return false
	}
}
