package env

import (
	"testing"

	"github.com/valuerange/boundscheck/interval"
	"github.com/valuerange/boundscheck/ir"
)

func TestMergeIntersectsKeysUnionsValues(t *testing.T) {
	a, b := ir.NewScalarAlloc("a"), ir.NewScalarAlloc("b")

	e1 := New()
	e1.Put(a, interval.Interval{Lo: 0, Hi: 5})
	e1.Put(b, interval.Interval{Lo: 10, Hi: 10})

	e2 := New()
	e2.Put(a, interval.Interval{Lo: 3, Hi: 8})
	// b absent from e2 on purpose.

	merged := Merge(e1, e2)

	if _, ok := merged.Get(b); ok {
		t.Fatal("Merge kept key b, which was absent from one side; merge must intersect keys")
	}
	got, ok := merged.Get(a)
	if !ok {
		t.Fatal("Merge dropped key a, which was present on both sides")
	}
	if got != (interval.Interval{Lo: 0, Hi: 8}) {
		t.Fatalf("Merge(a) = %v, want union [0,8]", got)
	}
}

func TestWidenSnapsChangedBoundToInfinity(t *testing.T) {
	v := ir.NewScalarAlloc("i")

	prev := New()
	prev.Put(v, interval.Interval{Lo: 0, Hi: 0})

	next := New()
	next.Put(v, interval.Interval{Lo: 0, Hi: 1})

	widened := Widen(prev, next)
	got, _ := widened.Get(v)
	if got.Lo != 0 {
		t.Fatalf("Widen changed an unchanged lower bound: Lo = %d, want 0", got.Lo)
	}
	if got.Hi != interval.Max {
		t.Fatalf("Widen did not snap a growing upper bound to +inf: Hi = %d, want %d", got.Hi, interval.Max)
	}
}

func TestWidenStableKeepsValue(t *testing.T) {
	v := ir.NewScalarAlloc("i")
	e := New()
	e.Put(v, interval.Interval{Lo: 0, Hi: 5})

	widened := Widen(e, e.Clone())
	got, _ := widened.Get(v)
	if got != (interval.Interval{Lo: 0, Hi: 5}) {
		t.Fatalf("Widen on a stable value changed it: got %v", got)
	}
}

func TestEqual(t *testing.T) {
	v := ir.NewScalarAlloc("i")
	e1 := New()
	e1.Put(v, interval.Constant(3))
	e2 := e1.Clone()

	if !Equal(e1, e2) {
		t.Fatal("Equal(e, e.Clone()) = false, want true")
	}

	e2.Put(v, interval.Constant(4))
	if Equal(e1, e2) {
		t.Fatal("Equal after diverging = true, want false")
	}
}

func TestKeysDeterministicOrder(t *testing.T) {
	a, b, c := ir.NewScalarAlloc("a"), ir.NewScalarAlloc("b"), ir.NewScalarAlloc("c")
	e := New()
	e.Put(c, interval.Top())
	e.Put(a, interval.Top())
	e.Put(b, interval.Top())

	k1 := Keys(e)
	k2 := Keys(e)
	if len(k1) != 3 {
		t.Fatalf("Keys returned %d keys, want 3", len(k1))
	}
	for i := range k1 {
		if k1[i] != k2[i] {
			t.Fatalf("Keys is not deterministic across calls: %v vs %v", k1, k2)
		}
	}
	if k1[0].Name() != "a" || k1[1].Name() != "b" || k1[2].Name() != "c" {
		t.Fatalf("Keys not sorted by name: %v", k1)
	}
}
