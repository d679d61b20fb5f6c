package main

import (
	"fmt"
	"math/rand"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/memkit/malloc"
)

// Layout constants
const (
	statsPaneWidth  = 38 // Width reserved for the statistics pane
	workloadSlots   = 64 // Size of the random workload's working set
	workloadMaxSize = 4096
	burstSteps      = 100
)

// Model is the main application model
type Model struct {
	heap *malloc.Heap
	seed int64
	rng  *rand.Rand
	keys KeyMap

	// Workload working set; nil entries are empty slots.
	slots [][]byte
	steps int

	// Snapshot of the heap rendered by the view, refreshed after every
	// mutation.
	layout []malloc.ArenaInfo
	stats  malloc.Stats

	// Block cursor and scroll state for the arena map.
	cursor int
	scroll int

	width  int
	height int

	// Help overlay
	showHelp bool

	// Status message for temporary feedback
	statusMessage string

	err error
}

// NewModel creates a new TUI model
func NewModel(seed int64) Model {
	m := Model{
		heap:  malloc.New(),
		seed:  seed,
		rng:   rand.New(rand.NewSource(seed)),
		keys:  DefaultKeyMap(),
		slots: make([][]byte, workloadSlots),
	}
	m.refresh()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// refresh re-snapshots the heap for the view.
func (m *Model) refresh() {
	m.layout = m.heap.Layout()
	m.stats = m.heap.Stats()
	if n := m.blockCount(); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
}

// blockCount returns the number of rows the arena map can address.
func (m *Model) blockCount() int {
	n := 0
	for _, a := range m.layout {
		n += len(a.Blocks)
	}
	return n
}

// step advances the workload by one random operation and reports what it
// did in the status line.
func (m *Model) step() {
	m.steps++
	idx := m.rng.Intn(workloadSlots)

	switch {
	case m.slots[idx] == nil:
		size := 1 + m.rng.Intn(workloadMaxSize)
		p := m.heap.Alloc(size)
		if p == nil {
			m.statusMessage = fmt.Sprintf("step %d: alloc %d failed", m.steps, size)
			return
		}
		m.slots[idx] = p
		m.statusMessage = fmt.Sprintf("step %d: alloc %d -> slot %d", m.steps, size, idx)

	case m.rng.Intn(3) == 0:
		size := 1 + m.rng.Intn(workloadMaxSize)
		q := m.heap.Realloc(m.slots[idx], size)
		if q == nil {
			m.statusMessage = fmt.Sprintf("step %d: realloc %d failed", m.steps, size)
			return
		}
		m.slots[idx] = q
		m.statusMessage = fmt.Sprintf("step %d: realloc slot %d -> %d", m.steps, idx, size)

	default:
		m.heap.Free(m.slots[idx])
		m.slots[idx] = nil
		m.statusMessage = fmt.Sprintf("step %d: free slot %d", m.steps, idx)
	}
}

// manualAlloc fills the first empty slot with a random payload.
func (m *Model) manualAlloc() {
	for idx := range m.slots {
		if m.slots[idx] != nil {
			continue
		}
		size := 1 + m.rng.Intn(workloadMaxSize)
		p := m.heap.Alloc(size)
		if p == nil {
			m.statusMessage = fmt.Sprintf("alloc %d failed", size)
			return
		}
		m.slots[idx] = p
		m.statusMessage = fmt.Sprintf("alloc %d -> slot %d", size, idx)
		return
	}
	m.statusMessage = "all slots occupied"
}

// manualFree releases a random occupied slot.
func (m *Model) manualFree() {
	occupied := m.occupiedSlots()
	if len(occupied) == 0 {
		m.statusMessage = "nothing to free"
		return
	}
	idx := occupied[m.rng.Intn(len(occupied))]
	m.heap.Free(m.slots[idx])
	m.slots[idx] = nil
	m.statusMessage = fmt.Sprintf("freed slot %d", idx)
}

// manualRealloc resizes a random occupied slot.
func (m *Model) manualRealloc() {
	occupied := m.occupiedSlots()
	if len(occupied) == 0 {
		m.statusMessage = "nothing to resize"
		return
	}
	idx := occupied[m.rng.Intn(len(occupied))]
	size := 1 + m.rng.Intn(workloadMaxSize)
	q := m.heap.Realloc(m.slots[idx], size)
	if q == nil {
		m.statusMessage = fmt.Sprintf("realloc %d failed", size)
		return
	}
	old := len(m.slots[idx])
	m.slots[idx] = q
	m.statusMessage = fmt.Sprintf("resized slot %d: %d -> %d", idx, old, len(q))
}

// occupiedSlots lists the indices currently holding a payload.
func (m *Model) occupiedSlots() []int {
	var out []int
	for i, p := range m.slots {
		if p != nil {
			out = append(out, i)
		}
	}
	return out
}

// reset discards the heap and starts the workload over with the same seed.
func (m *Model) reset() {
	m.heap = malloc.New()
	m.rng = rand.New(rand.NewSource(m.seed))
	m.slots = make([][]byte, workloadSlots)
	m.steps = 0
	m.cursor = 0
	m.scroll = 0
	m.err = nil
	m.statusMessage = "heap reset"
}
