package fuzz

import (
	"sync"
)

// Config tunes a fuzzing search run.
type Config struct {
	Chains      int     // number of independent MCMC chains
	Steps       int     // steps per chain
	Temperature float64 // initial annealing temperature
	Decay       float64 // per-step temperature multiplier
	Seed        uint64  // base RNG seed, offset per chain
}

// DefaultConfig returns defaults tuned for a typical machine: enough
// chains to use most cores, and a temperature that starts permissive
// and anneals toward greedy hill-climbing.
func DefaultConfig() Config {
	return Config{
		Chains:      8,
		Steps:       2000,
		Temperature: 2.0,
		Decay:       0.999,
		Seed:        1,
	}
}

// Result is one chain's outcome.
type Result struct {
	ChainIndex int
	Program    Program
	Violations int
}

// Search runs cfg.Chains independent MCMC chains concurrently, each
// starting from Seed() and mutating toward higher Violations, then
// returns every chain's best finding. Chains are independent, so each
// runs on its own goroutine with no shared mutable state.
func Search(cfg Config) []Result {
	results := make([]Result, cfg.Chains)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Chains; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			chain := NewChain(Seed(), cfg.Temperature, cfg.Seed+uint64(idx))
			for s := 0; s < cfg.Steps; s++ {
				chain.Step(cfg.Decay)
			}
			prog, v := chain.Best()
			results[idx] = Result{ChainIndex: idx, Program: prog, Violations: v}
		}(i)
	}

	wg.Wait()
	return results
}

// BestOf picks the highest-violation-count result across a Search run.
func BestOf(results []Result) (Result, bool) {
	var best Result
	found := false
	for _, r := range results {
		if !found || r.Violations > best.Violations {
			best = r
			found = true
		}
	}
	return best, found
}
