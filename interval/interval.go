// Package interval implements the non-relational interval lattice the
// analyzer tracks one variable's possible values in: a closed range
// [Lo, Hi] of 32-bit integers, saturating at the representable extremes
// instead of modeling true infinity.
//
// The empty interval is never a value of this type — per the data model,
// "no possible values" is represented by an edge or block becoming
// unreachable, not by a materialized Interval. Operations that could
// produce it (comparison refinement) signal the fact through a second
// bool return instead.
package interval

import "fmt"

const (
	Min int32 = -1 << 31
	Max int32 = 1<<31 - 1
)

// Interval is [Lo, Hi], inclusive on both ends. The zero value ({0,0}) is
// the constant interval for 0, not an empty or unset interval — callers
// that need "no information yet" use Top, and callers that need "this key
// is absent" omit the key from an Env rather than storing a sentinel here.
type Interval struct {
	Lo, Hi int32
}

// Top is the universal interval: no information constrains the variable.
func Top() Interval { return Interval{Min, Max} }

// Constant is the singleton interval {c}.
func Constant(c int32) Interval { return Interval{c, c} }

func (iv Interval) String() string {
	lo, hi := "", ""
	if iv.Lo == Min {
		lo = "-inf"
	} else {
		lo = fmt.Sprintf("%d", iv.Lo)
	}
	if iv.Hi == Max {
		hi = "+inf"
	} else {
		hi = fmt.Sprintf("%d", iv.Hi)
	}
	return fmt.Sprintf("[%s, %s]", lo, hi)
}

// IsTop reports whether iv carries no information at all.
func (iv Interval) IsTop() bool { return iv.Lo == Min && iv.Hi == Max }

// Equal reports exact endpoint equality.
func (iv Interval) Equal(other Interval) bool { return iv == other }

// Contains reports whether v is a possible value of iv.
func (iv Interval) Contains(v int32) bool { return v >= iv.Lo && v <= iv.Hi }

// IsOutOfRange reports whether iv is provably outside the valid array
// index range [0, size) for every value it admits, i.e. whether an access
// using iv as the index and size as the array's element count can be
// proven unsafe. An iv that merely isn't provably safe (e.g. Top) is not
// flagged; only an iv entirely below 0 or entirely at/above size is.
func (iv Interval) IsOutOfRange(size int32) bool {
	return iv.Hi < 0 || iv.Lo >= size
}

// Union is the smallest interval containing both operands' possible values.
func Union(a, b Interval) Interval {
	return Interval{min32(a.Lo, b.Lo), max32(a.Hi, b.Hi)}
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// satAdd adds in 64 bits and clamps to [Min, Max] so overflow degrades to
// the correct saturating bound instead of wrapping.
func satAdd(a, b int32) int32 {
	return clamp(int64(a) + int64(b))
}

func satSub(a, b int32) int32 {
	return clamp(int64(a) - int64(b))
}

func satMul(a, b int32) int32 {
	return clamp(int64(a) * int64(b))
}

func clamp(v int64) int32 {
	if v <= int64(Min) {
		return Min
	}
	if v >= int64(Max) {
		return Max
	}
	return int32(v)
}

// combine4 applies op to all four endpoint combinations of a and b and
// returns the interval spanning the results, the general rule spec.md
// §4.A specifies for arithmetic over interval operands (sound for any op
// that is monotonic, or not, in each argument — addition and subtraction
// only need two of the four, but running all four is harmless and keeps
// one code path for every operator).
func combine4(a, b Interval, op func(x, y int32) int32) Interval {
	c1 := op(a.Lo, b.Lo)
	c2 := op(a.Lo, b.Hi)
	c3 := op(a.Hi, b.Lo)
	c4 := op(a.Hi, b.Hi)
	lo := min32(min32(c1, c2), min32(c3, c4))
	hi := max32(max32(c1, c2), max32(c3, c4))
	return Interval{lo, hi}
}

// Add is saturating interval addition.
func Add(a, b Interval) Interval { return combine4(a, b, satAdd) }

// Sub is saturating interval subtraction.
func Sub(a, b Interval) Interval { return combine4(a, b, satSub) }

// Mul is saturating interval multiplication over all four endpoint
// combinations, per spec.md §4.A.
func Mul(a, b Interval) Interval { return combine4(a, b, satMul) }

// Div is saturating interval division. A divisor interval that straddles
// or touches zero is refined to the nearest nonzero candidates (±1) on
// each side before dividing, following the divisor-refinement trick in
// the original implementation this analyzer's division rule is grounded
// on: division by exactly zero is undefined, so the result for that
// single point is omitted from the union rather than poisoning the whole
// result to Top.
func Div(a, b Interval) Interval {
	negLo, negHi, hasNeg := b.Lo, min32(b.Hi, -1), b.Lo <= -1
	posLo, posHi, hasPos := max32(b.Lo, 1), b.Hi, b.Hi >= 1

	if !hasNeg && !hasPos {
		// divisor is exactly {0}: every value is undefined.
		return Top()
	}

	var result Interval
	first := true
	if hasNeg {
		result = combine4(a, Interval{negLo, negHi}, satDiv)
		first = false
	}
	if hasPos {
		part := combine4(a, Interval{posLo, posHi}, satDiv)
		if first {
			result = part
		} else {
			result = Union(result, part)
		}
	}
	return result
}

func satDiv(a, b int32) int32 {
	if b == 0 {
		return 0
	}
	return clamp(int64(a) / int64(b))
}

// refineLT narrows x under the assumption "x < y". ok is false if no
// value of x satisfies the assumption given y, meaning the edge this
// refinement feeds is unreachable.
func refineLT(x, y Interval) (Interval, bool) {
	hi := y.Hi
	if hi != Min {
		hi = satSub(hi, 1)
	}
	r := Interval{x.Lo, min32(x.Hi, hi)}
	return r, r.Lo <= r.Hi
}

// refineLE narrows x under "x <= y".
func refineLE(x, y Interval) (Interval, bool) {
	r := Interval{x.Lo, min32(x.Hi, y.Hi)}
	return r, r.Lo <= r.Hi
}

// refineGT narrows x under "x > y". Uses max(), not min(), on the lower
// bound — the original source this analyzer's comparison refinement is
// grounded on has min()/max() swapped here, a confirmed bug; this
// implementation uses the corrected form.
func refineGT(x, y Interval) (Interval, bool) {
	lo := y.Lo
	if lo != Max {
		lo = satAdd(lo, 1)
	}
	r := Interval{max32(x.Lo, lo), x.Hi}
	return r, r.Lo <= r.Hi
}

// refineGE narrows x under "x >= y". Same corrected-max note as refineGT.
func refineGE(x, y Interval) (Interval, bool) {
	r := Interval{max32(x.Lo, y.Lo), x.Hi}
	return r, r.Lo <= r.Hi
}

// refineEQ narrows x under "x == y": x must lie in both x's and y's range.
func refineEQ(x, y Interval) (Interval, bool) {
	r := Interval{max32(x.Lo, y.Lo), min32(x.Hi, y.Hi)}
	return r, r.Lo <= r.Hi
}

// refineNE narrows x under "x != y". A non-relational interval lattice
// cannot punch a hole at a single point in general, so this is sound but
// imprecise: x is returned unchanged and the edge stays reachable even
// when x and y are both the same singleton. This is intentional, not a
// gap to close.
func refineNE(x, _ Interval) (Interval, bool) {
	return x, true
}

// RefineLT, RefineLE, RefineGT, RefineGE, RefineEQ, RefineNE are exported
// wrappers over the comparison-refinement rules used by package transfer's
// conditional-branch handling (spec.md §4.D.1); kept as a predicate-keyed
// function table there rather than a switch, so that table lives next to
// where it is shaped that way, not here.
var (
	RefineLT = refineLT
	RefineLE = refineLE
	RefineGT = refineGT
	RefineGE = refineGE
	RefineEQ = refineEQ
	RefineNE = refineNE
)
