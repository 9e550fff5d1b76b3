// Package pipeline implements the three-stage Fetch/Decode/Execute
// engine: the cycle-by-cycle orchestration and stall/flush control at
// the heart of the simulator. Stages do not own state; the Engine
// holds the *cpu.State and both inter-stage latches, and the per-stage
// methods mutate them through it.
package pipeline

import (
	"fmt"

	"github.com/oisee/pipesim/pkg/cpu"
	"github.com/oisee/pipesim/pkg/inst"
)

// Engine orchestrates one simulation run: architectural state plus
// the two inter-stage latches and the stall signal.
type Engine struct {
	CPU   *cpu.State
	IFID  IFID
	IDEX  IDEX
	Stall bool

	Diagnostics []Diagnostic
}

// NewEngine creates an Engine over an already-loaded CPU state.
func NewEngine(s *cpu.State) *Engine {
	return &Engine{CPU: s}
}

// Run executes exactly instructionCount+2 cycles and returns the full
// per-cycle trace. The budget is fixed: flushes discard work but do
// not extend the loop.
func (e *Engine) Run(instructionCount int) []CycleTrace {
	traces := make([]CycleTrace, 0, instructionCount+2)
	for cycle := 1; cycle <= instructionCount+2; cycle++ {
		traces = append(traces, e.Step(cycle))
	}
	return traces
}

// Step runs one cycle: Execute, then Decode, then Fetch. Reverse
// program order, so each stage reads the latch its predecessor filled
// in the previous cycle. Stall is cleared at the end of the cycle.
func (e *Engine) Step(cycle int) CycleTrace {
	t := CycleTrace{Cycle: cycle}
	t.Execute = e.execute(cycle)
	t.Decode = e.decode(cycle)
	t.Fetch = e.fetch()
	e.Stall = false
	return t
}

// fetch reads InstrMem[PC] into IF/ID and increments PC. Skipped
// while stalled, and skipped once PC has reached end-of-program.
func (e *Engine) fetch() FetchTrace {
	if e.Stall {
		return FetchTrace{}
	}
	if int(e.CPU.PC) >= e.CPU.InstrCount {
		return FetchTrace{}
	}
	slot := e.CPU.InstrMem[e.CPU.PC]
	e.IFID = IFID{Word: slot.Word, Number: slot.Number, Valid: true}
	e.CPU.PC++
	return FetchTrace{Active: true, Number: slot.Number, Word: slot.Word, PC: e.CPU.PC}
}

// decode extracts opcode and operand fields from IF/ID into ID/EX.
// A BR instruction asserts Stall so this cycle's fetch does not run:
// BR's target is unknown until execute. Decode errors are recorded as
// diagnostics and leave ID/EX empty; the pipeline keeps running.
func (e *Engine) decode(cycle int) DecodeTrace {
	if !e.IFID.Valid || e.IDEX.Valid {
		return DecodeTrace{}
	}

	d, err := inst.Decode(e.IFID.Word, e.IFID.Number)
	e.IFID.Clear()
	if err != nil {
		e.Diagnostics = append(e.Diagnostics, Diagnostic{
			Cycle:   cycle,
			Kind:    DiagDecodeError,
			Message: err.Error(),
		})
		e.IDEX.Clear()
		return DecodeTrace{}
	}

	e.IDEX = IDEX{Decoded: d, Valid: true}
	if d.Op.WritesRd() {
		e.CPU.Touched[d.Rd] = true
	}
	if d.Op == inst.BR {
		e.Stall = true
	}
	return DecodeTrace{Active: true, Number: d.Number, Decoded: d}
}

// execute dispatches ID/EX's instruction through the ALU/flag unit
// and flushes the pipeline when a branch is taken.
func (e *Engine) execute(cycle int) ExecuteTrace {
	if !e.IDEX.Valid || e.Stall {
		return ExecuteTrace{}
	}
	d := e.IDEX.Decoded
	e.IDEX.Clear()

	flush, err := cpu.Exec(e.CPU, d)
	if err != nil {
		e.Diagnostics = append(e.Diagnostics, Diagnostic{
			Cycle:   cycle,
			Kind:    DiagExecError,
			Message: err.Error(),
		})
		return ExecuteTrace{}
	}

	if flush {
		e.checkBranchBounds(cycle, d)
		e.flush()
	}

	return ExecuteTrace{Active: true, Number: d.Number, Op: d.Op, Flush: flush}
}

// flush invalidates both latches, discarding the in-flight
// instructions behind a taken branch.
func (e *Engine) flush() {
	e.IFID.Clear()
	e.IDEX.Clear()
}

// checkBranchBounds records a warning when a taken branch's target is
// at or past the end of the loaded program. PC keeps the new value;
// fetch halts naturally because PC is past end-of-program.
func (e *Engine) checkBranchBounds(cycle int, d inst.Decoded) {
	if int(e.CPU.PC) >= e.CPU.InstrCount {
		e.Diagnostics = append(e.Diagnostics, Diagnostic{
			Cycle: cycle,
			Kind:  DiagBranchOutOfBounds,
			Message: fmt.Sprintf("branch target %d >= instruction count %d",
				e.CPU.PC, e.CPU.InstrCount),
		})
	}
}
