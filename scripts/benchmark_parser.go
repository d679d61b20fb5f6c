// Command benchmark_parser converts `go test -bench` output from the
// allocator benchmarks into a markdown report.
//
// Usage:
//
//	go test -bench=Benchmark_Heap -benchmem ./malloc | go run scripts/benchmark_parser.go
//	go run scripts/benchmark_parser.go -input bench.txt -output BENCHMARKS.md
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// BenchmarkResult represents a parsed benchmark result.
type BenchmarkResult struct {
	Name        string
	Workload    string
	Iterations  int
	NsPerOp     float64
	BytesPerOp  int64
	AllocsPerOp int64
}

var (
	inputFile = flag.String(
		"input",
		"",
		"Input file with benchmark output (stdin if not specified)",
	)
	outputFile = flag.String("output", "", "Output markdown file (stdout if not specified)")
	quiet      = flag.Bool("quiet", false, "Suppress progress output")
)

func main() {
	flag.Parse()

	// Read benchmark output
	var scanner *bufio.Scanner
	var inputF *os.File
	if *inputFile != "" {
		f, err := os.Open(*inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening input file: %v\n", err)
			os.Exit(1)
		}
		inputF = f
		scanner = bufio.NewScanner(f)
	} else {
		scanner = bufio.NewScanner(os.Stdin)
	}

	results := parseBenchmarks(scanner)

	if !*quiet {
		fmt.Fprintf(os.Stderr, "Parsed %d benchmark results\n", len(results))
	}

	report := generateMarkdownReport(results)

	// Write output
	if *outputFile != "" {
		err := os.WriteFile(*outputFile, []byte(report), 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			if inputF != nil {
				inputF.Close()
			}
			os.Exit(1)
		}
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Report written to %s\n", *outputFile)
		}
	} else {
		fmt.Fprint(os.Stdout, report)
	}

	if inputF != nil {
		inputF.Close()
	}
}

func parseBenchmarks(scanner *bufio.Scanner) []BenchmarkResult {
	var results []BenchmarkResult

	// Regex to parse benchmark output lines
	// Benchmark_Heap_AllocSmall-8    10000    124.5 ns/op    0 B/op    0 allocs/op
	benchmarkRegex := regexp.MustCompile(
		`^(Benchmark\S+)\s+(\d+)\s+([\d.]+)\s+ns/op(?:\s+([\d.]+)\s+B/op)?(?:\s+([\d.]+)\s+allocs/op)?`,
	)

	for scanner.Scan() {
		line := scanner.Text()

		// Unwrap JSON lines (from -json flag)
		var testEvent map[string]any
		if err := json.Unmarshal([]byte(line), &testEvent); err == nil {
			if output, ok := testEvent["Output"].(string); ok {
				line = output
			}
		}

		matches := benchmarkRegex.FindStringSubmatch(strings.TrimSpace(line))
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.Atoi(matches[2])
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)

		var bytesPerOp int64
		var allocsPerOp int64
		if matches[4] != "" {
			bytesPerOp, _ = strconv.ParseInt(matches[4], 10, 64)
		}
		if matches[5] != "" {
			allocsPerOp, _ = strconv.ParseInt(matches[5], 10, 64)
		}

		results = append(results, BenchmarkResult{
			Name:        name,
			Workload:    workloadName(name),
			Iterations:  iterations,
			NsPerOp:     nsPerOp,
			BytesPerOp:  bytesPerOp,
			AllocsPerOp: allocsPerOp,
		})
	}

	return results
}

// workloadName strips the Benchmark_Heap_ prefix and the -N procs suffix.
// Benchmark_Heap_AllocSmall-8 becomes AllocSmall.
func workloadName(name string) string {
	w := strings.TrimPrefix(name, "Benchmark_Heap_")
	w = strings.TrimPrefix(w, "Benchmark")
	if dashIdx := strings.LastIndex(w, "-"); dashIdx > 0 {
		w = w[:dashIdx]
	}
	return w
}

func generateMarkdownReport(results []BenchmarkResult) string {
	var sb strings.Builder

	sb.WriteString("# Allocator Benchmark Results\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.Now().Format(time.RFC1123)))

	if len(results) == 0 {
		sb.WriteString("No benchmark results found in the input.\n")
		return sb.String()
	}

	sorted := make([]BenchmarkResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Workload < sorted[j].Workload
	})

	sb.WriteString("| Workload | Iterations | ns/op | B/op | allocs/op |\n")
	sb.WriteString("|----------|-----------:|------:|-----:|----------:|\n")
	for _, r := range sorted {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %d | %d |\n",
			r.Workload, r.Iterations, formatNs(r.NsPerOp), r.BytesPerOp, r.AllocsPerOp))
	}
	sb.WriteString("\n")

	sb.WriteString("Notes:\n\n")
	sb.WriteString("- `B/op` and `allocs/op` count Go runtime allocations only. ")
	sb.WriteString("Payloads handed out by the allocator under test live in arena ")
	sb.WriteString("memory and never appear in these columns.\n")
	sb.WriteString("- Run with `-benchmem` to populate the memory columns.\n")

	return sb.String()
}

// formatNs renders a ns/op value with a unit that keeps it readable.
func formatNs(ns float64) string {
	switch {
	case ns >= 1e6:
		return fmt.Sprintf("%.2fms", ns/1e6)
	case ns >= 1e3:
		return fmt.Sprintf("%.2fµs", ns/1e3)
	default:
		return fmt.Sprintf("%.1fns", ns)
	}
}
