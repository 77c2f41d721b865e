// Package diag defines the diagnostic type the analyzer emits and its two
// textual rendering forms.
package diag

import (
	"fmt"
	"sort"

	"github.com/valuerange/boundscheck/ir"
)

// Severity distinguishes the one diagnostic category this analyzer
// currently emits from room for others a host might add (config can gate
// categories independently of what the core analysis itself produces).
type Severity int

const (
	SeverityWarning Severity = iota
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Category identifies what kind of finding a Diagnostic is. Out-of-bounds
// array access is the only one the core verifier produces; it is still
// named explicitly so config.Config can enable/disable by category
// without the set being implicitly "whatever exists today".
type Category string

const CategoryOutOfBounds Category = "out-of-bounds-index"

// Diagnostic reports that an *ir.IndexAddr's index interval is provably
// outside its array's valid bounds. Message is always the fixed phrase
// "Array out of bounds access" (no trailing period; Format adds one or
// not depending on which of the two textual forms it is rendering).
type Diagnostic struct {
	Category Category
	Message  string
	Pos      ir.SourceLocation // zero value means no location available
	Instr    ir.Instruction    // the offending IndexAddr, for tooling
}

// Format renders d using the two textual forms spec.md §6 specifies: with
// a source location when available, and without one otherwise. The
// no-location form spans two lines: the warning itself, naming the
// offending instruction in place of a location, and an advisory line
// recommending a debug build for a precise one.
func (d Diagnostic) Format() string {
	if !d.Pos.IsZero() {
		return fmt.Sprintf("%s: %s: %s.", d.Pos, SeverityWarning, d.Message)
	}
	instr := "<unknown>"
	if d.Instr != nil {
		instr = d.Instr.String()
	}
	return fmt.Sprintf("WARNING: %s at %s\nrecompile with debug information to get a source location for this warning.", d.Message, instr)
}

// Sort orders diags deterministically: by file, then line, then column,
// then message, with diagnostics carrying no location sorted after every
// diagnostic that has one. Used before rendering and before any test
// compares a diagnostic slice, so output never depends on fixpoint
// iteration order.
func Sort(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Pos.IsZero() != b.Pos.IsZero() {
			return b.Pos.IsZero()
		}
		if a.Pos.File != b.Pos.File {
			return a.Pos.File < b.Pos.File
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.Message < b.Message
	})
}
