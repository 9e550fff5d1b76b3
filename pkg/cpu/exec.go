package cpu

import (
	"fmt"

	"github.com/oisee/pipesim/pkg/inst"
)

// Exec performs one decoded instruction's execute-stage semantics on
// s: it mutates registers, SREG, data memory and (for taken branches)
// PC, and reports whether the pipeline must flush.
func Exec(s *State, d inst.Decoded) (flush bool, err error) {
	rd := int(d.Rd)
	rs := int(d.Rs)

	switch d.Op {
	case inst.ADD:
		a, b := s.Registers[rd], s.Registers[rs]
		result := a + b
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUAdd, a, b, result)

	case inst.SUB:
		a, b := s.Registers[rd], s.Registers[rs]
		result := a - b
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUSub, a, b, result)

	case inst.MUL:
		a, b := s.Registers[rd], s.Registers[rs]
		result := int8(int32(a) * int32(b))
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUOther, a, b, result)

	case inst.MOVI:
		result := d.Imm
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUOther, 0, 0, result)

	case inst.BEQZ:
		if s.Registers[rd] == 0 {
			s.PC = uint16(int32(s.PC) + int32(d.Imm) - 1)
			flush = true
		}

	case inst.ANDI:
		a := s.Registers[rd]
		result := a & d.Imm
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUOther, a, d.Imm, result)

	case inst.EOR:
		a, b := s.Registers[rd], s.Registers[rs]
		result := a ^ b
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUOther, a, b, result)

	case inst.BR:
		concat := uint16(uint8(s.Registers[rd]))<<8 | uint16(uint8(s.Registers[rs]))
		s.PC = concat >> 6
		flush = true

	case inst.SAL:
		a := s.Registers[rd]
		result := int8(uint8(a) << uint(d.Imm))
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUOther, a, d.Imm, result)

	case inst.SAR:
		a := s.Registers[rd]
		result := a >> uint(d.Imm)
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUOther, a, d.Imm, result)

	case inst.LDR:
		result := int8(s.DataMem[int(d.Imm)&(DataMemSize-1)])
		s.Registers[rd] = result
		s.SREG = DeriveFlags(ALUOther, 0, d.Imm, result)

	case inst.STR:
		s.DataMem[int(d.Imm)&(DataMemSize-1)] = uint8(s.Registers[rd])

	default:
		return false, fmt.Errorf("exec: unhandled opcode %s", d.Op)
	}

	return flush, nil
}
