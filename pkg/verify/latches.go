package verify

import (
	"bytes"
	"fmt"

	"github.com/oisee/pipesim/pkg/asm"
	"github.com/oisee/pipesim/pkg/cpu"
	"github.com/oisee/pipesim/pkg/pipeline"
)

// LatchExclusivity runs each assembled program through a fresh
// pipeline.Engine and asserts the pipeline invariants: PC stays
// within instruction memory bounds, SREG's reserved bits stay zero
// every cycle, and both latches are empty after the program's N+2
// cycles complete. It does not check whether two stages write the
// same latch within one cycle.
func LatchExclusivity(programs [][]byte) []Failure {
	var failures []Failure

	for i, src := range programs {
		words, _, err := asm.Assemble(bytes.NewReader(src))
		if err != nil {
			failures = append(failures, Failure{fmt.Sprintf(
				"program %d: assembly I/O error: %v", i, err)})
			continue
		}
		if len(words) == 0 {
			continue
		}

		s := cpu.New()
		s.Load(words)
		e := pipeline.NewEngine(s)

		for _, cycle := range e.Run(s.InstrCount) {
			if int(s.PC) > len(s.InstrMem) {
				failures = append(failures, Failure{fmt.Sprintf(
					"program %d cycle %d: PC=%d exceeds instruction memory size %d",
					i, cycle.Cycle, s.PC, len(s.InstrMem))})
			}
			if s.SREG&0xE0 != 0 {
				failures = append(failures, Failure{fmt.Sprintf(
					"program %d cycle %d: SREG reserved bits set: 0x%02X",
					i, cycle.Cycle, s.SREG)})
			}
		}

		if e.IFID.Valid {
			failures = append(failures, Failure{fmt.Sprintf(
				"program %d: IF/ID still occupied after N+2 cycles", i)})
		}
		if e.IDEX.Valid {
			failures = append(failures, Failure{fmt.Sprintf(
				"program %d: ID/EX still occupied after N+2 cycles", i)})
		}
	}

	return failures
}
