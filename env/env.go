// Package env implements the analyzer's abstract environment: a map from
// tracked variables to their current interval, where absence of a key
// means "no information", not "top" and not "unreachable".
package env

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/valuerange/boundscheck/interval"
	"github.com/valuerange/boundscheck/ir"
)

// Env maps a variable to its current interval. A nil or zero Env is valid
// and represents the empty environment (every variable absent).
type Env map[ir.Value]interval.Interval

// New returns an empty environment.
func New() Env { return Env{} }

// Get returns the interval recorded for v and whether it was present.
// Absence is not the same as Top: callers that need "no constraint" as a
// default must ask for Top explicitly on a miss.
func (e Env) Get(v ir.Value) (interval.Interval, bool) {
	iv, ok := e[v]
	return iv, ok
}

// Put records iv for v, overwriting any prior interval (a strong update).
func (e Env) Put(v ir.Value, iv interval.Interval) {
	e[v] = iv
}

// Clone returns an independent copy of e.
func (e Env) Clone() Env {
	out := make(Env, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Equal reports whether a and b record exactly the same key set with
// pairwise-equal intervals. Used by the fixpoint engine's convergence
// check; key order never matters here.
func Equal(a, b Env) bool {
	if len(a) != len(b) {
		return false
	}
	for k, iv := range a {
		other, ok := b[k]
		if !ok || !iv.Equal(other) {
			return false
		}
	}
	return true
}

// Merge combines two environments reaching the same program point along
// different edges. Per the data model this is deliberately NOT an outer
// join: the result's key set is the INTERSECTION of a's and b's keys (a
// variable unconstrained along either incoming edge is unconstrained at
// the merge point, which absence already expresses, so it is dropped
// rather than defaulted to Top), and each surviving key's interval is the
// UNION of the two intervals. Do not "fix" this into a union-of-keys
// merge; the asymmetry is intentional.
func Merge(a, b Env) Env {
	out := make(Env, len(a))
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			continue
		}
		out[k] = interval.Union(av, bv)
	}
	return out
}

// Widen applies one-sided Cousot-Cousot widening of next against prev:
// for each key present in both, if next's interval is not contained in
// prev's, the corresponding bound is snapped open (to Min or Max) rather
// than left to grow by whatever amount this iteration produced. Keys
// present only in next are kept as-is; keys present only in prev are
// dropped, matching Merge's intersect-keys rule upstream of this call.
func Widen(prev, next Env) Env {
	out := make(Env, len(next))
	for k, nv := range next {
		pv, ok := prev[k]
		if !ok {
			out[k] = nv
			continue
		}
		lo, hi := nv.Lo, nv.Hi
		if lo < pv.Lo {
			lo = interval.Min
		}
		if hi > pv.Hi {
			hi = interval.Max
		}
		out[k] = interval.Interval{Lo: lo, Hi: hi}
	}
	return out
}

// Keys returns e's keys in a deterministic order (by Name, then by
// pointer address as a tiebreaker for values sharing a name), so that
// diagnostics, debug dumps, and test comparisons never depend on Go's
// randomized map iteration order.
func Keys(e Env) []ir.Value {
	keys := make([]ir.Value, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b ir.Value) bool {
		if a.Name() != b.Name() {
			return a.Name() < b.Name()
		}
		return fmt.Sprintf("%p", a) < fmt.Sprintf("%p", b)
	})
	return keys
}
