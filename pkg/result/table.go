// Package result collects and sorts per-program run summaries: a
// mutex-guarded slice with a sorted accessor, safe for concurrent
// writers.
package result

import (
	"sort"
	"sync"
)

// RunResult summarizes one completed simulation.
type RunResult struct {
	Program     string
	Cycles      int
	FinalPC     uint16
	FinalSREG   uint8
	TouchedRegs int
	Errors      int
}

// Table stores RunResults from concurrently running simulations.
type Table struct {
	mu      sync.Mutex
	results []RunResult
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a result into the table.
func (t *Table) Add(r RunResult) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results = append(t.results, r)
}

// Results returns a copy of all results, sorted by error count then
// cycle count, both descending, so the most problematic programs
// surface first.
func (t *Table) Results() []RunResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]RunResult, len(t.results))
	copy(out, t.results)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Errors != out[j].Errors {
			return out[i].Errors > out[j].Errors
		}
		return out[i].Cycles > out[j].Cycles
	})
	return out
}

// Len returns the number of results.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.results)
}
