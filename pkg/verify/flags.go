package verify

import (
	"fmt"

	"github.com/oisee/pipesim/pkg/cpu"
)

// FlagInvariants exhaustively checks, for every (a, b) pair of 8-bit
// signed operands (65536 combinations), that ADD and SUB through
// cpu.DeriveFlags satisfy Z == (result == 0) and N == (result < 0 as
// signed 8-bit), with the reserved SREG bits clear.
func FlagInvariants() []Failure {
	var failures []Failure

	for a := -128; a <= 127; a++ {
		for b := -128; b <= 127; b++ {
			aa, bb := int8(a), int8(b)

			addResult := aa + bb
			addFlags := cpu.DeriveFlags(cpu.ALUAdd, aa, bb, addResult)
			failures = append(failures, checkZN(addFlags, addResult, "ADD", aa, bb)...)

			subResult := aa - bb
			subFlags := cpu.DeriveFlags(cpu.ALUSub, aa, bb, subResult)
			failures = append(failures, checkZN(subFlags, subResult, "SUB", aa, bb)...)

			if addFlags&0xE0 != 0 {
				failures = append(failures, Failure{fmt.Sprintf(
					"ADD(%d,%d): reserved SREG bits set: 0x%02X", aa, bb, addFlags)})
			}
			if subFlags&0xE0 != 0 {
				failures = append(failures, Failure{fmt.Sprintf(
					"SUB(%d,%d): reserved SREG bits set: 0x%02X", aa, bb, subFlags)})
			}
		}
	}

	return failures
}

func checkZN(flags uint8, result int8, op string, a, b int8) []Failure {
	var failures []Failure
	wantZ := result == 0
	gotZ := flags&cpu.FlagZ != 0
	if gotZ != wantZ {
		failures = append(failures, Failure{fmt.Sprintf(
			"%s(%d,%d): Z=%v, want %v (result=%d)", op, a, b, gotZ, wantZ, result)})
	}
	wantN := result < 0
	gotN := flags&cpu.FlagN != 0
	if gotN != wantN {
		failures = append(failures, Failure{fmt.Sprintf(
			"%s(%d,%d): N=%v, want %v (result=%d)", op, a, b, gotN, wantN, result)})
	}
	return failures
}
