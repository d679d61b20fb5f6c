package main

import (
	"fmt"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	seed := int64(42)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("memexplorer %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built: %s\n", date)
			os.Exit(0)
		case "--seed", "-s":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: --seed requires a value")
				os.Exit(1)
			}
			i++
			v, err := strconv.ParseInt(args[i], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: invalid seed %q\n", args[i])
				os.Exit(1)
			}
			seed = v
		default:
			printUsage()
			os.Exit(1)
		}
	}

	m := NewModel(seed)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: memexplorer [options]\n")
	fmt.Fprintf(os.Stderr, "Try 'memexplorer --help' for more information.\n")
}

func printHelp() {
	fmt.Println("memexplorer - Interactive TUI for the memkit allocator")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  memexplorer [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Launches an interactive terminal UI that steps a seeded workload")
	fmt.Println("  through the allocator and visualizes arenas, blocks, and counters")
	fmt.Println("  as they evolve.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Split-pane layout (arena map + statistics)")
	fmt.Println("    - Single-step or burst through the workload")
	fmt.Println("    - Trigger allocs, frees, and resizes by hand")
	fmt.Println("    - On-demand integrity check of the whole heap")
	fmt.Println()
	fmt.Println("  Keys:")
	fmt.Println("    space/n     Step the workload one operation")
	fmt.Println("    b           Burst 100 operations")
	fmt.Println("    a/f/r       Manual alloc / free / realloc")
	fmt.Println("    ↑/k, ↓/j    Move the block cursor")
	fmt.Println("    c           Run the integrity checker")
	fmt.Println("    x           Reset the heap and workload")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -s, --seed N   Seed for the workload generator (default 42)")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  memexplorer")
	fmt.Println("  memexplorer --seed 7")
	fmt.Println()
	fmt.Println("For non-interactive operations, use the 'memctl' command instead.")
}
