package asm

import (
	"fmt"

	"github.com/oisee/pipesim/pkg/inst"
)

// Disassemble renders a single encoded word back to assembly text,
// the inverse of assembleLine.
func Disassemble(word uint16) (string, error) {
	d, err := inst.Decode(word, 0)
	if err != nil {
		return "", err
	}
	if inst.Catalog[d.Op].Format == inst.RType {
		return fmt.Sprintf("%s R%d, R%d", d.Op, d.Rd, d.Rs), nil
	}
	return fmt.Sprintf("%s R%d, %d", d.Op, d.Rd, d.Imm), nil
}
