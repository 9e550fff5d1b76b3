// Package batch runs many independent simulation programs
// concurrently and collects their outcomes into a result.Table: a
// channel of tasks drained by a fixed goroutine pool, with atomic
// counters and a periodic progress ticker. Concurrency is strictly
// across independent pipeline.Engine instances; the pipeline core
// itself stays single-threaded.
package batch

import (
	"bytes"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oisee/pipesim/pkg/asm"
	"github.com/oisee/pipesim/pkg/cpu"
	"github.com/oisee/pipesim/pkg/pipeline"
	"github.com/oisee/pipesim/pkg/result"
)

// Task is one program to assemble and simulate.
type Task struct {
	Name   string
	Source []byte
}

// WorkerPool runs Tasks across a fixed number of goroutines.
type WorkerPool struct {
	NumWorkers int
	Results    *result.Table

	completed atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers (0
// means runtime.NumCPU()).
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Results:    result.NewTable(),
	}
}

// Run distributes tasks across workers and blocks until all complete.
// When verbose, a progress line is printed every 2 seconds.
func (wp *WorkerPool) Run(tasks []Task, verbose bool) {
	total := int64(len(tasks))
	ch := make(chan Task, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	done := make(chan struct{})
	if verbose {
		go wp.reportProgress(total, done)
	}

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				wp.Results.Add(runOne(task))
				wp.completed.Add(1)
			}
		}()
	}
	wg.Wait()
	close(done)
}

func (wp *WorkerPool) reportProgress(total int64, done <-chan struct{}) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			comp := wp.completed.Load()
			fmt.Printf("  %d/%d programs simulated\n", comp, total)
		}
	}
}

// runOne assembles and simulates a single program, producing its
// result.RunResult.
func runOne(task Task) result.RunResult {
	words, diags, err := asm.Assemble(bytes.NewReader(task.Source))
	errCount := len(diags)
	if err != nil {
		return result.RunResult{Program: task.Name, Errors: errCount + 1}
	}

	s := cpu.New()
	s.Load(words)
	e := pipeline.NewEngine(s)
	traces := e.Run(s.InstrCount)
	errCount += len(e.Diagnostics)

	return result.RunResult{
		Program:     task.Name,
		Cycles:      len(traces),
		FinalPC:     s.PC,
		FinalSREG:   s.SREG,
		TouchedRegs: s.TouchedCount(),
		Errors:      errCount,
	}
}
