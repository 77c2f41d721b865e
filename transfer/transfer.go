// Package transfer implements the abstract transfer function: the effect
// each IR instruction has on an env.Env. Step dispatches on the
// instruction's Go type to one function per instruction kind, rather than
// to one helper keyed on an operator tag byte; adding a new instruction's
// rule means adding a function and a case in Step.
package transfer

import (
	"github.com/valuerange/boundscheck/env"
	"github.com/valuerange/boundscheck/interval"
	"github.com/valuerange/boundscheck/ir"
)

// ValueOf returns the interval transfer should use for v when evaluating
// an instruction that reads it: the constant interval if v is an
// *ir.Const, otherwise whatever e currently has recorded, or Top if
// nothing is recorded (spec.md's "absence is not top" rule governs what
// is stored in e; a fresh read of an untracked value still has to
// proceed soundly, so the read side defaults to Top on a miss).
func ValueOf(e env.Env, v ir.Value) interval.Interval {
	if c, ok := v.(*ir.Const); ok {
		return interval.Constant(c.Value)
	}
	iv, ok := e.Get(v)
	if !ok {
		return interval.Top()
	}
	return iv
}

// trackable reports whether v is the kind of Value transfer ever stores
// an interval for. Constants are never stored — ValueOf synthesizes their
// interval on every read instead.
func trackable(v ir.Value) bool {
	_, isConst := v.(*ir.Const)
	return v != nil && !isConst
}

// Step applies instr's transfer rule to e and returns the resulting
// environment. e is not mutated; the caller gets a fresh Env back.
//
// OpIf is deliberately not handled here: conditional-branch refinement
// produces two environments (one per successor edge) plus a reachability
// flag each, which does not fit this function's one-env-in-one-env-out
// shape. See Branch in branch.go.
func Step(e env.Env, instr ir.Instruction) env.Env {
	switch inst := instr.(type) {
	case *ir.Alloc:
		return stepAlloc(e, inst)
	case *ir.Load:
		return stepLoad(e, inst)
	case *ir.Store:
		return stepStore(e, inst)
	case *ir.BinOp:
		return stepBinOp(e, inst)
	case *ir.IndexAddr:
		return stepIndexAddr(e, inst)
	case *ir.Call:
		return stepCall(e, inst)
	case *ir.Convert:
		return stepConvert(e, inst)
	case *ir.Const, *ir.Jump, *ir.Return, *ir.Other:
		return e // no effect
	default:
		return e // Other: no effect (spec.md §4.D's closing rule)
	}
}

func stepAlloc(e env.Env, a *ir.Alloc) env.Env {
	if a.IsArray {
		return e // the array itself is never scalar-tracked
	}
	out := e.Clone()
	out.Put(a, interval.Top()) // uninitialized scalar: no constraint yet
	return out
}

func stepLoad(e env.Env, l *ir.Load) env.Env {
	out := e.Clone()
	out.Put(l, ValueOf(e, l.Src))
	return out
}

func stepStore(e env.Env, s *ir.Store) env.Env {
	if !trackable(s.Dst) {
		return e
	}
	out := e.Clone()
	out.Put(s.Dst, ValueOf(e, s.Val))
	return out
}

func stepBinOp(e env.Env, b *ir.BinOp) env.Env {
	if b.Op == ir.OpCmp {
		return e // comparisons have no effect by themselves; see Branch
	}
	x, y := ValueOf(e, b.X), ValueOf(e, b.Y)
	var result interval.Interval
	switch b.Op {
	case ir.OpAdd:
		result = interval.Add(x, y)
	case ir.OpSub:
		result = interval.Sub(x, y)
	case ir.OpMul:
		result = interval.Mul(x, y)
	case ir.OpDiv:
		result = interval.Div(x, y)
	default:
		result = interval.Top()
	}
	out := e.Clone()
	out.Put(b, result)
	return out
}

func stepIndexAddr(e env.Env, x *ir.IndexAddr) env.Env {
	out := e.Clone()
	out.Put(x, interval.Top()) // the address itself carries no range info
	return out
}

func stepCall(e env.Env, c *ir.Call) env.Env {
	out := e.Clone()
	out.Put(c, interval.Top())
	return out
}

func stepConvert(e env.Env, c *ir.Convert) env.Env {
	out := e.Clone()
	out.Put(c, ValueOf(e, c.X))
	return out
}
