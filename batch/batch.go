// Package batch fans single-procedure analysis out across a fixed-size
// goroutine pool, the host-parallelism half of spec.md §5 ("procedure
// analyses share no state... the host may parallelize across procedures
// if desired"). It is grounded on the channel-plus-sync.WaitGroup worker
// pool shape used elsewhere in this retrieval pack's analysis tooling,
// kept deliberately simpler: no stats, no backpressure tuning, just a
// bounded number of workers draining a job queue.
package batch

import (
	"sort"
	"sync"

	"github.com/valuerange/boundscheck/diag"
	"github.com/valuerange/boundscheck/ir"
)

// AnalyzeFunc is the single-procedure entry point batch drives. It is a
// parameter, not an import of the root package, so this package never
// depends on boundscheck and boundscheck can depend on it instead.
type AnalyzeFunc func(*ir.Procedure) ([]diag.Diagnostic, error)

// ProcedureResult is one procedure's outcome.
type ProcedureResult struct {
	Procedure   *ir.Procedure
	Diagnostics []diag.Diagnostic
	Err         error
}

// Run analyzes every procedure in procs using up to workers goroutines,
// each calling analyze with no shared mutable state, and returns one
// ProcedureResult per input procedure sorted by procedure name so the
// aggregate output is deterministic regardless of which worker finished
// which job first. An individual procedure's error (a §7
// Structural-assumption abort) is carried in its own ProcedureResult and
// never aborts the rest of the batch.
func Run(procs []*ir.Procedure, workers int, analyze AnalyzeFunc) []ProcedureResult {
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan *ir.Procedure)
	results := make(chan ProcedureResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				diags, err := analyze(p)
				results <- ProcedureResult{Procedure: p, Diagnostics: diags, Err: err}
			}
		}()
	}

	go func() {
		for _, p := range procs {
			jobs <- p
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]ProcedureResult, 0, len(procs))
	for r := range results {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Procedure.Name < out[j].Procedure.Name
	})
	return out
}
