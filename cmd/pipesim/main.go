// Command pipesim is the CLI front end for the pipeline simulator:
// a cobra root command with one subcommand per mode of use.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oisee/pipesim/pkg/asm"
	"github.com/oisee/pipesim/pkg/batch"
	"github.com/oisee/pipesim/pkg/cpu"
	"github.com/oisee/pipesim/pkg/fuzz"
	"github.com/oisee/pipesim/pkg/pipeline"
	"github.com/oisee/pipesim/pkg/result"
	"github.com/oisee/pipesim/pkg/trace"
	"github.com/oisee/pipesim/pkg/verify"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pipesim",
		Short: "Cycle-accurate simulator for the 8-bit 3-stage pipeline ISA",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newAssembleCmd(),
		newDisassembleCmd(),
		newVerifyCmd(),
		newFuzzCmd(),
		newBatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRunCmd is the primary entry point: assemble --input, run it to
// completion, write --output/--errors.
func newRunCmd() *cobra.Command {
	var input, output, errorsPath, snapshot, compare string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Assemble and simulate a program, writing cycle trace and error log",
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("opening input: %w", err)
			}
			defer in.Close()

			words, diags, err := asm.Assemble(in)
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}

			errFile, err := os.Create(errorsPath)
			if err != nil {
				return fmt.Errorf("creating error log: %w", err)
			}
			defer errFile.Close()
			for _, d := range diags {
				fmt.Fprintln(errFile, d.String())
			}

			s := cpu.New()
			s.Load(words)
			e := pipeline.NewEngine(s)

			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating cycle-data output: %w", err)
			}
			defer out.Close()

			for cycle := 1; cycle <= s.InstrCount+2; cycle++ {
				t := e.Step(cycle)
				trace.EmitCycle(out, t, s)
			}
			for _, d := range e.Diagnostics {
				fmt.Fprintln(errFile, d.String())
			}
			trace.EmitFinalReport(out, s)

			if snapshot != "" {
				snapFile, err := os.Create(snapshot)
				if err != nil {
					return fmt.Errorf("creating snapshot: %w", err)
				}
				defer snapFile.Close()
				if err := cpu.Snapshot(snapFile, s); err != nil {
					return fmt.Errorf("writing snapshot: %w", err)
				}
			}

			if compare != "" {
				goldenFile, err := os.Open(compare)
				if err != nil {
					return fmt.Errorf("opening golden snapshot: %w", err)
				}
				defer goldenFile.Close()
				golden, err := cpu.Restore(goldenFile)
				if err != nil {
					return fmt.Errorf("reading golden snapshot: %w", err)
				}
				if !s.Equal(golden) {
					return fmt.Errorf("final state differs from golden snapshot %s", compare)
				}
				fmt.Printf("Final state matches golden snapshot %s\n", compare)
			}

			fmt.Printf("Simulated %d instructions over %d cycles\n", s.InstrCount, s.InstrCount+2)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", envOr("PIPESIM_INPUT", "program.txt"), "Source program path")
	cmd.Flags().StringVar(&output, "output", envOr("PIPESIM_OUTPUT", "cycledata.txt"), "Cycle-trace output path")
	cmd.Flags().StringVar(&errorsPath, "errors", envOr("PIPESIM_ERRORS", "errorlog.txt"), "Error log path")
	cmd.Flags().StringVar(&snapshot, "snapshot", "", "Optional gob-encoded final-state snapshot path")
	cmd.Flags().StringVar(&compare, "compare", "", "Golden snapshot to compare the final state against")
	return cmd
}

func newAssembleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assemble [file]",
		Short: "Assemble a source program and print its word stream and diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			words, diags, err := asm.Assemble(f)
			if err != nil {
				return err
			}
			for i, w := range words {
				fmt.Printf("%4d: 0x%04X\n", i, w)
			}
			for _, d := range diags {
				fmt.Println(d.String())
			}
			return nil
		},
	}
}

func newDisassembleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disassemble [file]",
		Short: "Disassemble a file of whitespace-separated hex or decimal words back to assembly text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := readWordFile(args[0])
			if err != nil {
				return err
			}
			for _, w := range words {
				text, err := asm.Disassemble(w)
				if err != nil {
					fmt.Printf("0x%04X: %v\n", w, err)
					continue
				}
				fmt.Println(text)
			}
			return nil
		},
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Run the exhaustive property suite (round-trip, flags, latch exclusivity)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var failures []verify.Failure
			failures = append(failures, verify.RoundTrip()...)
			failures = append(failures, verify.FlagInvariants()...)
			failures = append(failures, verify.LatchExclusivity([][]byte{
				[]byte("MOVI R1, 5\nMOVI R2, 3\nADD R1, R2\n"),
				[]byte("MOVI R1, 0\nBEQZ R1, 2\nMOVI R2, 99\nMOVI R3, 7\n"),
			})...)

			if len(failures) == 0 {
				fmt.Println("All properties held.")
				return nil
			}
			for _, f := range failures {
				fmt.Println(f.String())
			}
			return fmt.Errorf("%d property violations found", len(failures))
		},
	}
}

func newFuzzCmd() *cobra.Command {
	cfg := fuzz.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Search for a program that breaks a pipeline invariant",
		RunE: func(cmd *cobra.Command, args []string) error {
			results := fuzz.Search(cfg)
			best, ok := fuzz.BestOf(results)
			if !ok {
				fmt.Println("no chains ran")
				return nil
			}
			fmt.Printf("Best of %d chains: %d violations over %d instructions\n",
				len(results), best.Violations, len(best.Program))
			for _, d := range best.Program {
				fmt.Printf("  %s rd=%d rs=%d imm=%d\n", d.Op, d.Rd, d.Rs, d.Imm)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Chains, "chains", cfg.Chains, "Number of independent MCMC chains")
	cmd.Flags().IntVar(&cfg.Steps, "steps", cfg.Steps, "Steps per chain")
	cmd.Flags().Float64Var(&cfg.Temperature, "temperature", cfg.Temperature, "Initial annealing temperature")
	cmd.Flags().Float64Var(&cfg.Decay, "decay", cfg.Decay, "Per-step temperature decay")
	return cmd
}

func newBatchCmd() *cobra.Command {
	var numWorkers int
	var verbose bool
	var jsonPath, baseline string

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Simulate every *.asm/*.txt program in a directory concurrently",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := batch.LoadDir(args[0])
			if err != nil {
				return err
			}
			pool := batch.NewWorkerPool(numWorkers)
			pool.Run(tasks, verbose)

			results := pool.Results.Results()
			for _, r := range results {
				fmt.Printf("%-24s cycles=%-6d pc=0x%04X sreg=0x%02X regs=%-3d errors=%d\n",
					r.Program, r.Cycles, r.FinalPC, r.FinalSREG, r.TouchedRegs, r.Errors)
			}

			if jsonPath != "" {
				f, err := os.Create(jsonPath)
				if err != nil {
					return fmt.Errorf("creating summary: %w", err)
				}
				defer f.Close()
				if err := result.WriteJSON(f, results); err != nil {
					return fmt.Errorf("writing summary: %w", err)
				}
			}

			if baseline != "" {
				regressions, err := compareBaseline(baseline, results)
				if err != nil {
					return err
				}
				for _, line := range regressions {
					fmt.Println(line)
				}
				if len(regressions) > 0 {
					return fmt.Errorf("%d programs differ from baseline", len(regressions))
				}
				fmt.Println("All programs match baseline.")
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress while running")
	cmd.Flags().StringVar(&jsonPath, "json", "", "Write a JSON summary of all runs")
	cmd.Flags().StringVar(&baseline, "baseline", "", "Compare runs against a prior JSON summary")
	return cmd
}

// compareBaseline reads a prior batch summary and reports every
// program whose outcome changed since it was written.
func compareBaseline(path string, results []result.RunResult) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening baseline: %w", err)
	}
	defer f.Close()

	prior, err := result.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("reading baseline: %w", err)
	}

	byName := make(map[string]result.RunResult, len(prior))
	for _, r := range prior {
		byName[r.Program] = r
	}

	var regressions []string
	for _, r := range results {
		p, ok := byName[r.Program]
		if !ok {
			continue
		}
		if p != r {
			regressions = append(regressions, fmt.Sprintf(
				"%s: pc 0x%04X->0x%04X sreg 0x%02X->0x%02X errors %d->%d",
				r.Program, p.FinalPC, r.FinalPC, p.FinalSREG, r.FinalSREG, p.Errors, r.Errors))
		}
	}
	return regressions, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// readWordFile reads a whitespace-separated list of hex (0x-prefixed)
// or decimal 16-bit words.
func readWordFile(path string) ([]uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words []uint16
	for _, field := range strings.Fields(string(data)) {
		base := 10
		trimmed := field
		if strings.HasPrefix(strings.ToLower(field), "0x") {
			base = 16
			trimmed = field[2:]
		}
		v, err := strconv.ParseUint(trimmed, base, 16)
		if err != nil {
			continue
		}
		words = append(words, uint16(v))
	}
	return words, nil
}
