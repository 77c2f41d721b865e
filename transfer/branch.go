package transfer

import (
	"fmt"

	"github.com/valuerange/boundscheck/env"
	"github.com/valuerange/boundscheck/interval"
	"github.com/valuerange/boundscheck/ir"
)

// refineFunc narrows x under an assumed relation to y; ok is false when
// the assumption admits no value, meaning the edge carrying it is
// unreachable.
type refineFunc func(x, y interval.Interval) (interval.Interval, bool)

// refineTable maps each predicate to the rule that narrows its left-hand
// operand. Keeping this as a table, not a switch, is the shape spec.md
// §4.D.1 asks for: the predicate-to-refinement mapping is data, and
// Branch below is the only place that walks it.
var refineTable = map[ir.Predicate]refineFunc{
	ir.PredLT: interval.RefineLT,
	ir.PredLE: interval.RefineLE,
	ir.PredGT: interval.RefineGT,
	ir.PredGE: interval.RefineGE,
	ir.PredEQ: interval.RefineEQ,
	ir.PredNE: interval.RefineNE,
}

// Branch computes the two environments flowing out of an *ir.If along its
// Then and Else edges, each paired with whether that edge is reachable at
// all given e. Both of the comparison's operands are refined: X under the
// branch's own predicate against Y, and Y under the flipped predicate
// against X (x < y also tells you y > x).
func Branch(e env.Env, br *ir.If) (thenEnv env.Env, thenReachable bool, elseEnv env.Env, elseReachable bool) {
	cmp := br.Cond
	thenEnv, thenReachable = refineEdge(e, cmp.Pred, cmp.X, cmp.Y)
	elseEnv, elseReachable = refineEdge(e, cmp.Pred.Negate(), cmp.X, cmp.Y)
	return thenEnv, thenReachable, elseEnv, elseReachable
}

func refineEdge(e env.Env, pred ir.Predicate, x, y ir.Value) (env.Env, bool) {
	refineX, ok := refineTable[pred]
	if !ok {
		panic(fmt.Sprintf("transfer: no refinement rule for predicate %s", pred))
	}
	refineY := refineTable[pred.Flip()]

	xv, yv := ValueOf(e, x), ValueOf(e, y)
	nx, okX := refineX(xv, yv)
	ny, okY := refineY(yv, xv)
	if !okX || !okY {
		return e, false
	}

	out := e.Clone()
	if trackable(x) {
		out.Put(x, nx)
	}
	if trackable(y) {
		out.Put(y, ny)
	}
	return out, true
}
