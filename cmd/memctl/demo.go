package main

import (
	"encoding/binary"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/malloc"
)

func init() {
	rootCmd.AddCommand(newDemoCmd())
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted allocator walkthrough",
		Long: `The demo command walks the allocator through three scripted
scenarios and prints the heap accounting after each step:

  1. a string buffer grown by repeated doubling
  2. a vector of integers backed by a resized payload
  3. three neighboring blocks freed and merged back together

Example:
  memctl demo
  memctl demo --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo()
		},
	}
}

// report prints one accounting line in the fixed demo format.
func report(h *malloc.Heap, tag string) {
	printInfo("[%s] heap=%dB free=%dB\n", tag, h.HeapBytes(), h.FreeBytes())
}

func runDemo() error {
	h := malloc.New()
	report(h, "start")

	if err := demoStringGrowth(h); err != nil {
		return err
	}
	if err := demoVector(h); err != nil {
		return err
	}
	if err := demoCoalesce(h); err != nil {
		return err
	}

	report(h, "end")
	return h.Check()
}

// demoStringGrowth builds up a text buffer by doubling its backing
// payload whenever an append would overflow it.
func demoStringGrowth(h *malloc.Heap) error {
	buf := h.Alloc(16)
	if buf == nil {
		return fmt.Errorf("alloc failed")
	}
	used := 0

	chunk := []byte("the quick brown fox jumps over the lazy dog. ")
	for n := 0; n < 32; n++ {
		for used+len(chunk) > len(buf) {
			grown := h.Realloc(buf, 2*len(buf))
			if grown == nil {
				return fmt.Errorf("realloc to %d failed", 2*len(buf))
			}
			printVerbose("string buffer grew %d -> %d bytes\n", len(buf), len(grown))
			buf = grown
		}
		copy(buf[used:], chunk)
		used += len(chunk)
	}
	report(h, "string-grown")

	h.Free(buf)
	report(h, "string-freed")
	return nil
}

// demoVector emulates an integer vector on top of a resized payload,
// pushing values and growing the backing storage on demand.
func demoVector(h *malloc.Heap) error {
	const elem = 8

	vec := h.Alloc(4 * elem)
	if vec == nil {
		return fmt.Errorf("alloc failed")
	}
	n := 0

	for i := 0; i < 1000; i++ {
		if (n+1)*elem > len(vec) {
			grown := h.Realloc(vec, 2*len(vec))
			if grown == nil {
				return fmt.Errorf("realloc to %d failed", 2*len(vec))
			}
			printVerbose("vector grew %d -> %d bytes\n", len(vec), len(grown))
			vec = grown
		}
		binary.LittleEndian.PutUint64(vec[n*elem:], uint64(i*i))
		n++
	}

	// Spot check before releasing.
	if got := binary.LittleEndian.Uint64(vec[999*elem:]); got != 999*999 {
		return fmt.Errorf("vector element corrupted: got %d", got)
	}
	report(h, "vector-filled")

	h.Free(vec)
	report(h, "vector-freed")
	return nil
}

// demoCoalesce frees three neighboring blocks and shows the merged
// region being handed back out as a single larger block.
func demoCoalesce(h *malloc.Heap) error {
	var trio [3][]byte
	for i := range trio {
		trio[i] = h.Alloc(128)
		if trio[i] == nil {
			return fmt.Errorf("alloc failed")
		}
	}
	guard := h.Alloc(16)
	report(h, "trio-allocated")

	h.Free(trio[0])
	h.Free(trio[2])
	h.Free(trio[1])
	report(h, "trio-freed")

	// The three payloads and the two headers between them now form one
	// free block, large enough for a request none of them could serve.
	big := h.Realloc(nil, 3*128)
	if big == nil {
		return fmt.Errorf("merged region not reusable")
	}
	report(h, "trio-reused")

	h.Free(big)
	h.Free(guard)
	report(h, "trio-done")
	return nil
}
