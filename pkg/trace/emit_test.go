package trace

import (
	"strings"
	"testing"

	"github.com/oisee/pipesim/pkg/cpu"
	"github.com/oisee/pipesim/pkg/inst"
	"github.com/oisee/pipesim/pkg/pipeline"
)

func TestEmitCycle(t *testing.T) {
	s := cpu.New()
	s.Registers[1] = 8
	s.PC = 3
	s.DataMem[10] = 42

	ct := pipeline.CycleTrace{
		Cycle: 5,
		Decode: pipeline.DecodeTrace{
			Active:  true,
			Number:  2,
			Decoded: inst.Decoded{Op: inst.MOVI, Rd: 2, Imm: 3, Number: 2},
		},
		Execute: pipeline.ExecuteTrace{Active: true, Number: 1, Op: inst.ADD},
	}

	var b strings.Builder
	EmitCycle(&b, ct, s)
	out := b.String()

	for _, want := range []string{
		"### START OF CYCLE 5 DATA ###",
		"DECODE inst 2: op=MOVI rd=2 rs=0 imm=3",
		"EXECUTE inst 1: op=ADD",
		"R1=8",
		"PC=0x0003",
		"Memory[10]: 42",
		"### END OF CYCLE 5 DATA ###",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("cycle trace missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "FETCH") {
		t.Errorf("inactive fetch stage must not be printed:\n%s", out)
	}
}

func TestEmitCycleFlushMarker(t *testing.T) {
	s := cpu.New()
	ct := pipeline.CycleTrace{
		Cycle:   4,
		Execute: pipeline.ExecuteTrace{Active: true, Number: 2, Op: inst.BEQZ, Flush: true},
	}
	var b strings.Builder
	EmitCycle(&b, ct, s)
	if !strings.Contains(b.String(), "op=BEQZ (flush)") {
		t.Errorf("missing flush marker:\n%s", b.String())
	}
}

func TestEmitFinalReport(t *testing.T) {
	s := cpu.New()
	s.Load([]uint16{0x3045})
	s.Registers[1] = 5
	s.PC = 1
	s.SREG = cpu.FlagZ | cpu.FlagC

	var b strings.Builder
	EmitFinalReport(&b, s)
	out := b.String()

	for _, want := range []string{
		"PC: 1",
		"7 | 6 | 5 | C | V | N | S | Z",
		" X | X | X | 1 | 0 | 0 | 0 | 1",
		"R1: 5",
		"Instruction 0: 0x3045",
		"End of Program Execution.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("final report missing %q:\n%s", want, out)
		}
	}
}
