package fuzz

import (
	"math/rand/v2"

	"github.com/oisee/pipesim/pkg/inst"
)

// Mutator applies random mutations to Programs: five mutation kinds
// picked by weighted dispatch.
type Mutator struct {
	rng    *rand.Rand
	allOps []inst.OpCode
	maxLen int
}

// NewMutator creates a Mutator with a cached opcode list.
func NewMutator(rng *rand.Rand, maxLen int) *Mutator {
	return &Mutator{
		rng:    rng,
		allOps: inst.AllOps(),
		maxLen: maxLen,
	}
}

// Mutate applies a random mutation to p and returns the new program.
// p is left unmodified.
func (m *Mutator) Mutate(p Program) Program {
	r := m.rng.IntN(100)
	switch {
	case r < 40:
		return m.Replace(p)
	case r < 60:
		return m.Swap(p)
	case r < 80:
		return m.Delete(p)
	case r < 90:
		return m.Insert(p)
	default:
		return m.ChangeImmediate(p)
	}
}

// Replace swaps one instruction for a freshly random one.
func (m *Mutator) Replace(p Program) Program {
	out := p.clone()
	if len(out) == 0 {
		return out
	}
	pos := m.rng.IntN(len(out))
	out[pos] = m.random()
	return out
}

// Swap exchanges two adjacent instructions.
func (m *Mutator) Swap(p Program) Program {
	out := p.clone()
	if len(out) < 2 {
		return out
	}
	pos := m.rng.IntN(len(out) - 1)
	out[pos], out[pos+1] = out[pos+1], out[pos]
	return out
}

// Delete removes one instruction, if the program has more than one.
func (m *Mutator) Delete(p Program) Program {
	if len(p) <= 1 {
		return p.clone()
	}
	pos := m.rng.IntN(len(p))
	out := make(Program, 0, len(p)-1)
	out = append(out, p[:pos]...)
	out = append(out, p[pos+1:]...)
	return out
}

// Insert adds a random instruction at a random position, falling back
// to Replace once the program hits its length cap.
func (m *Mutator) Insert(p Program) Program {
	if len(p) >= m.maxLen {
		return m.Replace(p)
	}
	pos := m.rng.IntN(len(p) + 1)
	out := make(Program, 0, len(p)+1)
	out = append(out, p[:pos]...)
	out = append(out, m.random())
	out = append(out, p[pos:]...)
	return out
}

// ChangeImmediate randomizes one instruction's immediate (Rs for
// R-type instructions, since that's the field most likely to push
// BR's concatenated target or BEQZ's sign-extended offset out of
// bounds) and also picks a new random Rd for it.
func (m *Mutator) ChangeImmediate(p Program) Program {
	if len(p) == 0 {
		return p.clone()
	}
	out := p.clone()
	pos := m.rng.IntN(len(out))
	d := out[pos]
	if inst.Catalog[d.Op].Format == inst.IType {
		lo, hi := 0, 63
		if d.Op.SignedImm() {
			lo, hi = -32, 31
		}
		d.Imm = int8(lo + m.rng.IntN(hi-lo+1))
	} else {
		d.Rs = uint8(m.rng.IntN(64))
	}
	d.Rd = uint8(m.rng.IntN(64))
	out[pos] = d
	return out
}

func (m *Mutator) random() inst.Decoded {
	op := m.allOps[m.rng.IntN(len(m.allOps))]
	d := inst.Decoded{Op: op, Rd: uint8(m.rng.IntN(64))}
	if inst.Catalog[op].Format == inst.RType {
		d.Rs = uint8(m.rng.IntN(64))
		return d
	}
	lo, hi := 0, 63
	if op.SignedImm() {
		lo, hi = -32, 31
	}
	d.Imm = int8(lo + m.rng.IntN(hi-lo+1))
	return d
}

// Seed returns a minimal valid starting Program for a chain to mutate
// from: a single MOVI that zeroes R0.
func Seed() Program {
	return Program{{Op: inst.MOVI, Rd: 0, Imm: 0}}
}
