// Package trace formats per-cycle and final simulator state into a
// human-readable log: cycle banners, active-stage lines, and
// non-zero-only dumps of registers and memory.
package trace

import (
	"fmt"
	"io"

	"github.com/oisee/pipesim/pkg/cpu"
	"github.com/oisee/pipesim/pkg/pipeline"
)

// EmitCycle writes one cycle's trace: banner, active-stage lines,
// non-zero register/data dumps, end marker.
func EmitCycle(w io.Writer, t pipeline.CycleTrace, s *cpu.State) {
	fmt.Fprintf(w, "### START OF CYCLE %d DATA ###\n", t.Cycle)

	if t.Fetch.Active {
		fmt.Fprintf(w, "FETCH  inst %d: word=0x%04X\n", t.Fetch.Number, t.Fetch.Word)
	}
	if t.Decode.Active {
		d := t.Decode.Decoded
		fmt.Fprintf(w, "DECODE inst %d: op=%s rd=%d rs=%d imm=%d\n",
			t.Decode.Number, d.Op, d.Rd, d.Rs, d.Imm)
	}
	if t.Execute.Active {
		flushText := ""
		if t.Execute.Flush {
			flushText = " (flush)"
		}
		fmt.Fprintf(w, "EXECUTE inst %d: op=%s%s\n", t.Execute.Number, t.Execute.Op, flushText)
	}

	emitNonZeroRegisters(w, s)
	fmt.Fprintf(w, "PC=0x%04X SREG=0x%02X\n", s.PC, s.SREG)
	emitNonZeroDataMem(w, s)

	fmt.Fprintf(w, "### END OF CYCLE %d DATA ###\n", t.Cycle)
}

// EmitFinalReport writes the post-simulation summary: final PC,
// bit-tabular SREG (reserved bits shown as X), non-zero registers,
// non-zero instruction words, non-zero data memory.
func EmitFinalReport(w io.Writer, s *cpu.State) {
	fmt.Fprintf(w, "\nFinal CPU State:\n")
	fmt.Fprintf(w, "PC: %d\n", s.PC)

	fmt.Fprintf(w, "Status Register (SREG):\n")
	fmt.Fprintf(w, "7 | 6 | 5 | C | V | N | S | Z\n")
	fmt.Fprintf(w, "-------------------------------\n")
	for bit := 7; bit >= 0; bit-- {
		if bit >= 5 {
			fmt.Fprintf(w, " X |")
		} else {
			fmt.Fprintf(w, " %d |", (s.SREG>>uint(bit))&0x01)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\nRegisters:\n")
	for i, v := range s.Registers {
		if v != 0 {
			fmt.Fprintf(w, "R%d: %d\n", i, v)
		}
	}

	fmt.Fprintf(w, "\nInstruction Memory:\n")
	for i, word := range s.InstrMem {
		if word.Word != 0 {
			fmt.Fprintf(w, "Instruction %d: 0x%04X\n", i, word.Word)
		}
	}

	fmt.Fprintf(w, "\nData Memory:\n")
	emitNonZeroDataMem(w, s)

	fmt.Fprintf(w, "\nEnd of Program Execution.\n")
}

func emitNonZeroRegisters(w io.Writer, s *cpu.State) {
	for i, v := range s.Registers {
		if v != 0 {
			fmt.Fprintf(w, "R%d=%d ", i, v)
		}
	}
	fmt.Fprintln(w)
}

func emitNonZeroDataMem(w io.Writer, s *cpu.State) {
	for i, v := range s.DataMem {
		if v != 0 {
			fmt.Fprintf(w, "Memory[%d]: %d\n", i, v)
		}
	}
}
