// Package fuzz randomly mutates programs in search of one that trips
// a pipeline invariant: MCMC chains with simulated annealing, scored
// by how many invariant violations a run of the mutated program
// produces.
package fuzz

import "github.com/oisee/pipesim/pkg/inst"

// Program is a sequence of decoded instructions, this package's unit
// of mutation.
type Program []inst.Decoded

// Words encodes p into a word stream, skipping instructions whose
// operands fell out of range after mutation. A mutated program is
// allowed to be malformed; that's exactly what the search is for.
func (p Program) Words() []uint16 {
	words := make([]uint16, 0, len(p))
	for _, d := range p {
		w, err := inst.Encode(d.Op, d.Rd, d.Rs, int(d.Imm))
		if err != nil {
			continue
		}
		words = append(words, w)
	}
	return words
}

func (p Program) clone() Program {
	out := make(Program, len(p))
	copy(out, p)
	return out
}
