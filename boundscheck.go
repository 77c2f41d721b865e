// Package boundscheck detects accesses to statically sized arrays whose
// index cannot be proven to lie within bounds, using interval-based
// value-range analysis over a CFG/three-address IR (package ir).
//
// Producing that IR from real source — parsing, lowering, SSA
// construction, pass registration, source-location retrieval — is out of
// scope for this package; a front end is expected to build an
// *ir.Procedure and hand it to Analyze, which calls Finish on it. This
// package, and the ir/interval/env/cfg/transfer/fixpoint/verifier
// packages underneath it, describe everything from there on: the
// abstract domain, the fixpoint computation, and the bounds check itself.
//
// The analysis is intentionally non-relational, intraprocedural, and
// integer-only: no aliasing, no floating point, no pointer or heap
// modeling, and no cross-procedure propagation. It favors soundness over
// precision — a diagnostic means the index interval is provably entirely
// outside the array's bounds, not merely that safety couldn't be proven.
// An index whose interval straddles both safe and unsafe values, or
// carries no information at all (top), is never flagged: the analyzer
// only reports what it can prove unsafe, never what it merely failed to
// prove safe.
package boundscheck

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/valuerange/boundscheck/cfg"
	"github.com/valuerange/boundscheck/config"
	"github.com/valuerange/boundscheck/diag"
	"github.com/valuerange/boundscheck/fixpoint"
	"github.com/valuerange/boundscheck/ir"
	"github.com/valuerange/boundscheck/verifier"
)

// AnalysisError represents the Structural-assumption error class: an
// internal invariant the analyzer relies on (a malformed CFG, an If whose
// Cond is not a comparison, the fixpoint engine's iteration backstop)
// was violated. It is returned, never panicked, and aborts analysis of
// the one procedure that triggered it without corrupting any shared
// state — package batch relies on that to keep analyzing the rest of a
// batch after one procedure's AnalysisError.
type AnalysisError struct {
	Procedure string
	Instr     ir.Instruction // nil if the violation isn't instruction-local
	Err       error
}

func (e *AnalysisError) Error() string {
	if e.Instr == nil {
		return fmt.Sprintf("boundscheck: %s: %v", e.Procedure, e.Err)
	}
	return fmt.Sprintf("boundscheck: %s: %s: %v", e.Procedure, e.Instr, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Analyze runs the full pipeline — CFG construction, fixpoint, bounds
// verification — over a single procedure and returns its diagnostics.
// A non-nil error is always an *AnalysisError (a Structural-assumption
// abort); when it is non-nil the returned diagnostic slice is nil. The
// analysis signals success (nil error) even when diagnostics were
// emitted: diagnostics are the analyzer's normal output, not a failure
// mode (spec.md §6).
func Analyze(proc *ir.Procedure, conf config.Config) ([]diag.Diagnostic, error) {
	// runID correlates every log line a single Analyze call produces,
	// independent of which goroutine in package batch's pool ran it.
	log := logrus.WithFields(logrus.Fields{
		"procedure": proc.Name,
		"run_id":    uuid.New().String(),
	})

	if err := proc.Finish(); err != nil {
		log.WithError(err).Error("malformed procedure")
		return nil, &AnalysisError{Procedure: proc.Name, Err: err}
	}

	graph := cfg.Build(proc)

	framework := &fixpoint.Framework{MaxIterations: conf.Engine.MaxIterations}
	result, err := framework.Start(graph).Forward()
	if err != nil {
		log.WithError(err).Error("fixpoint did not converge")
		return nil, &AnalysisError{Procedure: proc.Name, Err: err}
	}

	diags := verifier.Verify(proc, result)
	diags = filterByCategory(diags, conf.Diagnostics)

	log.WithField("diagnostics", len(diags)).Debug("analysis complete")
	return diags, nil
}

func filterByCategory(diags []diag.Diagnostic, cfg config.DiagnosticsConfig) []diag.Diagnostic {
	if len(cfg.EnabledCategories) == 0 {
		return diags
	}
	out := make([]diag.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if cfg.Enabled(d.Category) {
			out = append(out, d)
		}
	}
	return out
}
