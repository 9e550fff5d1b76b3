package fuzz

import (
	"math/rand/v2"
	"testing"

	"github.com/oisee/pipesim/pkg/inst"
)

func TestViolationsOnWellBehavedProgramIsZero(t *testing.T) {
	p := Program{
		{Op: inst.MOVI, Rd: 1, Imm: 5},
		{Op: inst.MOVI, Rd: 2, Imm: 3},
		{Op: inst.ADD, Rd: 1, Rs: 2},
	}
	if v := Violations(p); v != 0 {
		t.Fatalf("Violations() = %d, want 0", v)
	}
}

func TestMutatorProducesValidProgram(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	m := NewMutator(rng, 16)
	p := Seed()
	for i := 0; i < 200; i++ {
		p = m.Mutate(p)
		if len(p) > 16 {
			t.Fatalf("program grew past maxLen: %d", len(p))
		}
	}
}

func TestChainNeverDecreasesBest(t *testing.T) {
	c := NewChain(Seed(), 1.5, 42)
	_, prevBest := c.Best()
	for i := 0; i < 500; i++ {
		c.Step(0.995)
		_, best := c.Best()
		if best < prevBest {
			t.Fatalf("best violation count decreased: %d -> %d", prevBest, best)
		}
		prevBest = best
	}
}

func TestSearchReturnsOneResultPerChain(t *testing.T) {
	cfg := Config{Chains: 4, Steps: 50, Temperature: 1.0, Decay: 0.99, Seed: 7}
	results := Search(cfg)
	if len(results) != cfg.Chains {
		t.Fatalf("got %d results, want %d", len(results), cfg.Chains)
	}
	if _, ok := BestOf(results); !ok {
		t.Fatal("BestOf found nothing")
	}
}
