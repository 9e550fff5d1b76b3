package fuzz

import (
	"math"
	"math/rand/v2"
)

// Chain is a single Metropolis-Hastings MCMC chain with simulated
// annealing. Cost is the negative of Violations, so minimizing cost
// means maximizing how badly a program breaks a pipeline invariant.
type Chain struct {
	current     Program
	best        Program
	cost        int
	bestCost    int
	temperature float64
	rng         *rand.Rand
	mutator     *Mutator

	Accepted int64
	Rejected int64
}

// NewChain creates a chain starting from seed.
func NewChain(seed Program, temperature float64, rngSeed uint64) *Chain {
	rng := rand.New(rand.NewPCG(rngSeed, rngSeed^0xDEADBEEF))
	maxLen := len(seed) + 32
	current := seed.clone()
	cost := -Violations(current)

	return &Chain{
		current:     current,
		best:        current.clone(),
		cost:        cost,
		bestCost:    cost,
		temperature: temperature,
		rng:         rng,
		mutator:     NewMutator(rng, maxLen),
	}
}

// Step performs one MCMC iteration: mutate, evaluate, accept/reject,
// anneal the temperature by decay. Returns true if accepted.
func (c *Chain) Step(decay float64) bool {
	candidate := c.mutator.Mutate(c.current)
	newCost := -Violations(candidate)
	delta := newCost - c.cost

	accepted := false
	if delta <= 0 {
		accepted = true
	} else if c.temperature > 0 {
		prob := math.Exp(-float64(delta) / c.temperature)
		if c.rng.Float64() < prob {
			accepted = true
		}
	}

	if accepted {
		c.current = candidate
		c.cost = newCost
		c.Accepted++
		if newCost < c.bestCost {
			c.best = candidate.clone()
			c.bestCost = newCost
		}
	} else {
		c.Rejected++
	}

	c.temperature *= decay
	return accepted
}

// Best returns the worst-behaving program found so far and its
// violation count.
func (c *Chain) Best() (Program, int) {
	return c.best, -c.bestCost
}
