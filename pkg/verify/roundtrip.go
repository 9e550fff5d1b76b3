// Package verify exhaustively checks the simulator's core properties:
// instruction round-trip, ALU flag invariants, and pipeline-latch
// occupancy. The instruction space (12 opcodes x 64 x 64 operand
// values, 65536 operand byte pairs) is small enough to enumerate
// fully instead of sampling.
package verify

import (
	"fmt"

	"github.com/oisee/pipesim/pkg/inst"
)

// Failure is one property violation found during an exhaustive check.
type Failure struct {
	Description string
}

func (f Failure) String() string { return f.Description }

// RoundTrip asserts that for every (OpCode, rd, rs, imm) Encode can
// produce, decoding the encoded word reproduces the original opcode
// and operand indices.
func RoundTrip() []Failure {
	var failures []Failure

	for _, op := range inst.AllOps() {
		if inst.Catalog[op].Format == inst.RType {
			for rd := uint8(0); rd < 64; rd++ {
				for rs := uint8(0); rs < 64; rs++ {
					word, err := inst.Encode(op, rd, rs, 0)
					if err != nil {
						failures = append(failures, Failure{fmt.Sprintf(
							"Encode(%s, R%d, R%d) failed: %v", op, rd, rs, err)})
						continue
					}
					d, err := inst.Decode(word, 1)
					if err != nil {
						failures = append(failures, Failure{fmt.Sprintf(
							"Decode(0x%04X) failed for %s R%d, R%d: %v", word, op, rd, rs, err)})
						continue
					}
					if d.Op != op || d.Rd != rd || d.Rs != rs {
						failures = append(failures, Failure{fmt.Sprintf(
							"round-trip mismatch: encoded %s R%d, R%d, decoded %s R%d, R%d",
							op, rd, rs, d.Op, d.Rd, d.Rs)})
					}
				}
			}
			continue
		}

		lo, hi := 0, 63
		if op.SignedImm() {
			lo, hi = -32, 31
		}
		for rd := uint8(0); rd < 64; rd++ {
			for imm := lo; imm <= hi; imm++ {
				word, err := inst.Encode(op, rd, 0, imm)
				if err != nil {
					failures = append(failures, Failure{fmt.Sprintf(
						"Encode(%s, R%d, %d) failed: %v", op, rd, imm, err)})
					continue
				}
				d, err := inst.Decode(word, 1)
				if err != nil {
					failures = append(failures, Failure{fmt.Sprintf(
						"Decode(0x%04X) failed for %s R%d, %d: %v", word, op, rd, imm, err)})
					continue
				}
				if d.Op != op || d.Rd != rd || int(d.Imm) != imm {
					failures = append(failures, Failure{fmt.Sprintf(
						"round-trip mismatch: encoded %s R%d, %d, decoded %s R%d, %d",
						op, rd, imm, d.Op, d.Rd, d.Imm)})
				}
			}
		}
	}

	return failures
}
