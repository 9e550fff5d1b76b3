package fuzz

import (
	"github.com/oisee/pipesim/pkg/cpu"
	"github.com/oisee/pipesim/pkg/pipeline"
)

// Violations scores one run of p through a fresh pipeline.Engine by
// how badly pipeline invariants broke: 10 for every cycle that ends
// with PC past instruction memory, 10 for every cycle that ends with
// SREG's reserved bits set, 10 for each latch still occupied after
// the program's N+2 cycle budget, and 1 per engine diagnostic. A
// program that breaks nothing and logs nothing scores 0. Mirrors pkg/verify's
// checks but against an in-memory Program instead of assembled
// source, since the mutator works on encoded operands directly and
// does not round-trip through text.
func Violations(p Program) int {
	words := p.Words()
	if len(words) == 0 {
		return 0
	}

	s := cpu.New()
	s.Load(words)
	e := pipeline.NewEngine(s)

	const invariantWeight = 10

	count := 0
	for range e.Run(s.InstrCount) {
		if int(s.PC) > len(s.InstrMem) {
			count += invariantWeight
		}
		if s.SREG&0xE0 != 0 {
			count += invariantWeight
		}
	}
	if e.IFID.Valid {
		count += invariantWeight
	}
	if e.IDEX.Valid {
		count += invariantWeight
	}
	// Decode/execute diagnostics are recoverable, not invariant
	// violations, but they're a useful weak signal: programs near a
	// malformed encoding are also near the boundary conditions that
	// do break an invariant.
	count += len(e.Diagnostics)
	return count
}
