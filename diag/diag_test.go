package diag

import (
	"testing"

	"github.com/valuerange/boundscheck/ir"
)

func TestFormatWithoutLocation(t *testing.T) {
	arr := ir.NewArrayAlloc("a", 10)
	idx := ir.NewScalarAlloc("i")
	access := ir.NewIndexAddr("p", arr, idx)

	d := Diagnostic{Category: CategoryOutOfBounds, Message: "Array out of bounds access", Instr: access}
	got := d.Format()
	want := "WARNING: Array out of bounds access at " + access.String() +
		"\nrecompile with debug information to get a source location for this warning."
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestFormatWithLocation(t *testing.T) {
	d := Diagnostic{
		Category: CategoryOutOfBounds,
		Message:  "Array out of bounds access",
		Pos:      ir.SourceLocation{File: "main.go", Line: 10, Column: 4},
	}
	got := d.Format()
	want := "main.go:10:4: warning: Array out of bounds access."
	if got != want {
		t.Fatalf("Format() = %q, want %q", got, want)
	}
}

func TestSortPutsLocationlessLast(t *testing.T) {
	withLoc := Diagnostic{Message: "b", Pos: ir.SourceLocation{File: "a.go", Line: 1}}
	withoutLoc := Diagnostic{Message: "a"}

	diags := []Diagnostic{withoutLoc, withLoc}
	Sort(diags)

	if diags[0] != withLoc || diags[1] != withoutLoc {
		t.Fatalf("Sort did not put the locationless diagnostic last: %+v", diags)
	}
}

func TestSortOrdersByFileLineColumnThenMessage(t *testing.T) {
	d1 := Diagnostic{Message: "z", Pos: ir.SourceLocation{File: "a.go", Line: 5, Column: 1}}
	d2 := Diagnostic{Message: "y", Pos: ir.SourceLocation{File: "a.go", Line: 2, Column: 9}}
	d3 := Diagnostic{Message: "x", Pos: ir.SourceLocation{File: "b.go", Line: 1, Column: 1}}
	d4 := Diagnostic{Message: "a", Pos: ir.SourceLocation{File: "a.go", Line: 5, Column: 0}}

	diags := []Diagnostic{d1, d2, d3, d4}
	Sort(diags)

	want := []Diagnostic{d2, d4, d1, d3}
	for i := range want {
		if diags[i] != want[i] {
			t.Fatalf("Sort order[%d] = %+v, want %+v (full: %+v)", i, diags[i], want[i], diags)
		}
	}
}

func TestSeverityString(t *testing.T) {
	if SeverityWarning.String() != "warning" {
		t.Fatalf("SeverityWarning.String() = %q, want %q", SeverityWarning.String(), "warning")
	}
}
