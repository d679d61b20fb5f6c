package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/malloc"
)

var (
	benchAllocs      int
	benchMaxSize     int
	benchReallocRate float64
	benchFreeRate    float64
	benchChurn       int
	benchSeed        int64
	benchCheck       bool
)

func init() {
	cmd := newBenchCmd()
	cmd.Flags().IntVar(&benchAllocs, "allocs", 10000, "Number of slots in the working set")
	cmd.Flags().IntVar(&benchMaxSize, "max-size", 4096, "Maximum payload size in bytes")
	cmd.Flags().
		Float64Var(&benchReallocRate, "realloc-rate", 0.25, "Fraction of slots resized in phase 2")
	cmd.Flags().
		Float64Var(&benchFreeRate, "free-rate", 0.5, "Fraction of slots freed in phase 3 (0 skips the phase, 1 frees every slot)")
	cmd.Flags().IntVar(&benchChurn, "churn", 100000, "Number of churn rounds in phase 4")
	cmd.Flags().Int64Var(&benchSeed, "seed", 42, "Seed for the workload generator")
	cmd.Flags().BoolVar(&benchCheck, "check", false, "Run the integrity checker between phases")
	rootCmd.AddCommand(cmd)
}

func newBenchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run the four-phase stress workload",
		Long: `The bench command stresses the allocator with a reproducible
randomized workload in four phases: a bulk allocation sweep, random
resizes, a partial free pass, and a sustained churn loop that reuses the
freed slots. Every payload carries a byte pattern that is verified before
it is released, so the run doubles as a correctness probe.

Example:
  memctl bench
  memctl bench --allocs 50000 --max-size 16384 --churn 1000000
  memctl bench --seed 7 --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench()
		},
	}
}

// freeStride maps a free rate to the slot stride used by the partial
// free phase. A rate at or above 1 frees every slot, a rate at or below
// 0 disables the phase entirely.
func freeStride(rate float64) int {
	switch {
	case rate <= 0:
		return 0
	case rate >= 1:
		return 1
	default:
		return int(1 / rate)
	}
}

type benchSlot struct {
	p     []byte
	stamp byte
}

// fill stamps the payload and plants edge markers at both ends.
func (s *benchSlot) fill(stamp byte) {
	for i := range s.p {
		s.p[i] = stamp
	}
	s.p[0] = 0xAB
	s.p[len(s.p)-1] = 0xCD
	s.stamp = stamp
}

// verify checks the first n bytes of the payload against the pattern laid
// down when the slot last had orig bytes.
func (s *benchSlot) verify(n, orig int) error {
	if s.p[0] != 0xAB {
		return fmt.Errorf("first marker lost at %p", &s.p[0])
	}
	for i := 1; i < n; i++ {
		want := s.stamp
		if i == orig-1 {
			want = byte(0xCD)
		}
		if s.p[i] != want {
			return fmt.Errorf("payload byte %d changed: got %#x want %#x", i, s.p[i], want)
		}
	}
	return nil
}

type benchReport struct {
	Slots      int
	ChurnRound int
	Elapsed    time.Duration
	Stats      malloc.Stats
}

func runBench() error {
	h := malloc.New()
	rng := rand.New(rand.NewSource(benchSeed))
	slots := make([]benchSlot, benchAllocs)
	start := time.Now()

	phaseCheck := func(phase string) error {
		if !benchCheck {
			return nil
		}
		if err := h.Check(); err != nil {
			return fmt.Errorf("after %s: %w", phase, err)
		}
		printVerbose("integrity check passed after %s\n", phase)
		return nil
	}

	// Phase 1: bulk allocation.
	for i := range slots {
		p := h.Alloc(1 + rng.Intn(benchMaxSize))
		if p == nil {
			return fmt.Errorf("phase 1: alloc %d failed", i)
		}
		slots[i].p = p
		slots[i].fill(byte(rng.Intn(256)))
	}
	report(h, "bulk-alloc")
	if err := phaseCheck("bulk allocation"); err != nil {
		return err
	}

	// Phase 2: random resizes.
	resizes := int(float64(benchAllocs) * benchReallocRate)
	for n := 0; n < resizes; n++ {
		idx := rng.Intn(benchAllocs)
		s := &slots[idx]
		old := len(s.p)
		q := h.Realloc(s.p, 1+rng.Intn(benchMaxSize))
		if q == nil {
			return fmt.Errorf("phase 2: realloc of %d bytes failed", old)
		}
		s.p = q
		if err := s.verify(min(old, len(q)), old); err != nil {
			return fmt.Errorf("phase 2: %w", err)
		}
		s.fill(byte(rng.Intn(256)))
	}
	report(h, "resized")
	if err := phaseCheck("resize phase"); err != nil {
		return err
	}

	// Phase 3: partial free.
	stride := freeStride(benchFreeRate)
	for i := 0; stride > 0 && i < benchAllocs; i += stride {
		s := &slots[i]
		if err := s.verify(len(s.p), len(s.p)); err != nil {
			return fmt.Errorf("phase 3: %w", err)
		}
		h.Free(s.p)
		s.p = nil
	}
	report(h, "partial-free")
	if err := phaseCheck("partial free"); err != nil {
		return err
	}

	// Phase 4: churn over the working set.
	for round := 0; round < benchChurn; round++ {
		idx := rng.Intn(benchAllocs)
		s := &slots[idx]
		if s.p != nil {
			if err := s.verify(len(s.p), len(s.p)); err != nil {
				return fmt.Errorf("phase 4 round %d: %w", round, err)
			}
			h.Free(s.p)
			s.p = nil
		} else {
			p := h.Alloc(1 + rng.Intn(benchMaxSize))
			if p == nil {
				return fmt.Errorf("phase 4 round %d: alloc failed", round)
			}
			s.p = p
			s.fill(byte(rng.Intn(256)))
		}
	}
	report(h, "churn")
	if err := phaseCheck("churn"); err != nil {
		return err
	}

	// Drain whatever is still live.
	remaining := 0
	for i := range slots {
		if slots[i].p != nil {
			h.Free(slots[i].p)
			remaining++
		}
	}
	report(h, "drained")
	if err := phaseCheck("drain"); err != nil {
		return err
	}

	elapsed := time.Since(start)
	if jsonOut {
		return printJSON(benchReport{
			Slots:      benchAllocs,
			ChurnRound: benchChurn,
			Elapsed:    elapsed,
			Stats:      h.Stats(),
		})
	}
	printBenchSummary(h.Stats(), remaining, elapsed)
	return nil
}

// printBenchSummary renders the final counters with grouped digits so the
// large churn numbers stay readable.
func printBenchSummary(s malloc.Stats, drained int, elapsed time.Duration) {
	if quiet {
		return
	}
	p := message.NewPrinter(language.English)
	p.Printf("\nworkload: %d slots, %d churn rounds, %v elapsed\n",
		benchAllocs, benchChurn, elapsed.Round(time.Millisecond))
	p.Printf("heap:     %d bytes in %d arenas, %d blocks (%d free)\n",
		s.HeapBytes, s.Arenas, s.Blocks, s.FreeBlocks)
	p.Printf("calls:    %d alloc, %d free, %d realloc, %d grow\n",
		s.AllocCalls, s.FreeCalls, s.ReallocCalls, s.GrowCalls)
	p.Printf("events:   %d splits, %d merges forward, %d merges backward\n",
		s.Splits, s.MergeNext, s.MergePrev)
	p.Printf("resizes:  %d in-place shrinks, %d in-place grows, %d copies\n",
		s.InPlaceShrinks, s.InPlaceGrows, s.Copies)
	p.Printf("drained:  %d live payloads released at the end\n", drained)
	if secs := elapsed.Seconds(); secs > 0 {
		ops := s.AllocCalls + s.FreeCalls + s.ReallocCalls
		p.Printf("rate:     %.0f operations/second\n", float64(ops)/secs)
	}
}
