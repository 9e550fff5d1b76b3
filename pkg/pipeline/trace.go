package pipeline

import "github.com/oisee/pipesim/pkg/inst"

// FetchTrace records what, if anything, the Fetch stage did this cycle.
type FetchTrace struct {
	Active bool
	Number int
	Word   uint16
	PC     uint16 // PC value after this fetch's increment
}

// DecodeTrace records what the Decode stage did this cycle.
type DecodeTrace struct {
	Active  bool
	Number  int
	Decoded inst.Decoded
}

// ExecuteTrace records what the Execute stage did this cycle.
type ExecuteTrace struct {
	Active bool
	Number int
	Op     inst.OpCode
	Flush  bool
}

// CycleTrace is one cycle's worth of stage activity, the unit the
// trace emitter (pkg/trace) formats into the per-cycle log. Stages
// that were inactive this cycle carry a zero-value, Active-false
// trace.
type CycleTrace struct {
	Cycle   int
	Fetch   FetchTrace
	Decode  DecodeTrace
	Execute ExecuteTrace
}
