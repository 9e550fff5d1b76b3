package cpu

// SREG bit positions. Bits 7-5 are reserved and always read 0.
const (
	FlagC uint8 = 1 << 4 // Carry
	FlagV uint8 = 1 << 3 // Overflow
	FlagN uint8 = 1 << 2 // Negative
	FlagS uint8 = 1 << 1 // Sign (N xor V)
	FlagZ uint8 = 1 << 0 // Zero
)

// reservedMask covers SREG bits 7-5, which must always read 0.
const reservedMask uint8 = 0xE0

// ALUOp identifies which arithmetic rule DeriveFlags should apply for
// carry/overflow, since those two flags are only meaningful for ADD
// and SUB.
type ALUOp uint8

const (
	ALUAdd   ALUOp = iota // ADD: C/V defined
	ALUSub                // SUB: C/V defined
	ALUOther              // MUL, MOVI, ANDI, EOR, SAL, SAR, LDR: C=V=0
)

// DeriveFlags computes the five defined SREG bits from the operation
// kind, the two 8-bit operands as they were before the operation
// (needed only for ADD/SUB's carry and overflow rules) and the
// truncated 8-bit result. Pure: flag behavior can be checked in
// isolation from the pipeline.
func DeriveFlags(op ALUOp, a, b, result int8) uint8 {
	var sreg uint8

	if result == 0 {
		sreg |= FlagZ
	}
	if result < 0 {
		sreg |= FlagN
	}

	switch op {
	case ALUAdd:
		if carryAdd(a, b) {
			sreg |= FlagC
		}
		if overflowAdd(a, b, result) {
			sreg |= FlagV
		}
	case ALUSub:
		if carrySub(a, b) {
			sreg |= FlagC
		}
		if overflowSub(a, b, result) {
			sreg |= FlagV
		}
	case ALUOther:
		// C and V stay 0.
	}

	n := sreg&FlagN != 0
	v := sreg&FlagV != 0
	if n != v {
		sreg |= FlagS
	}

	return sreg &^ reservedMask
}

// carryAdd reports whether the unsigned 8-bit sum of a and b exceeds
// 255.
func carryAdd(a, b int8) bool {
	return int(uint8(a))+int(uint8(b)) > 255
}

// carrySub reports whether the unsigned 8-bit subtraction a-b
// underflows below 0.
func carrySub(a, b int8) bool {
	return int(uint8(a))-int(uint8(b)) < 0
}

// overflowAdd: signed overflow on ADD, operands of the same sign
// producing a result of the opposite sign.
func overflowAdd(a, b, result int8) bool {
	return (a >= 0) == (b >= 0) && (a >= 0) != (result >= 0)
}

// overflowSub: signed overflow on SUB, subtracting operands of
// opposite signs producing a result whose sign differs from the
// minuend.
func overflowSub(a, b, result int8) bool {
	return (a >= 0) != (b >= 0) && (a >= 0) != (result >= 0)
}
