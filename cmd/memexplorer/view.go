package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// mapRow is one rendered line of the arena map. Arena header rows carry
// arena == true and are not selectable.
type mapRow struct {
	text  string
	arena bool
	free  bool
	index int // block index for selectable rows
}

// View renders the entire UI
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	content := m.renderContent()
	status := m.renderStatus()

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		status,
	)
}

// mapHeight returns the row count of the arena map viewport.
func (m Model) mapHeight() int {
	return max(m.height-8, 5)
}

// renderHeader renders the title line
func (m Model) renderHeader() string {
	title := "Allocator Explorer"
	run := fmt.Sprintf("seed %d, step %d", m.seed, m.steps)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render(title),
		lipgloss.NewStyle().Render("  "),
		paneTitleStyle.Render(run),
	)
}

// renderContent renders the split-pane content
func (m Model) renderContent() string {
	mapWidth := max(m.width-statsPaneWidth, 30)
	paneHeight := m.mapHeight()

	arenaPane := paneStyle.
		Width(mapWidth - 4).
		Height(paneHeight).
		Render(m.renderArenaMap(mapWidth-6, paneHeight))

	statsPane := paneStyle.
		Width(statsPaneWidth - 4).
		Height(paneHeight).
		Render(m.renderStats())

	return lipgloss.JoinHorizontal(lipgloss.Top, arenaPane, statsPane)
}

// renderArenaMap renders the scrollable block listing, one row per block
// with a proportional size bar.
func (m Model) renderArenaMap(width, height int) string {
	rows := m.buildMapRows(width)

	// Window the selectable rows around the cursor; arena header rows
	// scroll together with the block below them.
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Arenas") + "\n")

	shown := 0
	skipped := 0
	for _, r := range rows {
		if !r.arena && skipped < m.scroll {
			skipped++
			continue
		}
		if shown >= height-1 {
			break
		}
		switch {
		case r.arena:
			b.WriteString(arenaHeaderStyle.Render(r.text))
		case r.index == m.cursor:
			b.WriteString(selectedBlockStyle.Render(r.text))
		case r.free:
			b.WriteString(freeBlockStyle.Render(r.text))
		default:
			b.WriteString(usedBlockStyle.Render(r.text))
		}
		b.WriteString("\n")
		shown++
	}
	if m.blockCount() == 0 {
		b.WriteString(usedBlockStyle.Render("  (heap is empty, press space to step)"))
	}
	return b.String()
}

// buildMapRows flattens the layout snapshot into renderable rows.
func (m Model) buildMapRows(width int) []mapRow {
	var rows []mapRow
	idx := 0
	for ai, a := range m.layout {
		rows = append(rows, mapRow{
			text:  fmt.Sprintf("arena %d  %s", ai, formatBytes(a.Size)),
			arena: true,
		})
		for _, blk := range a.Blocks {
			state := "used"
			if blk.Free {
				state = "free"
			}
			bar := sizeBar(blk.Size, a.Size, max(width-34, 4))
			text := fmt.Sprintf("  %08x  %9s  %s %s",
				blk.Offset, formatBytes(blk.Size), state, bar)
			rows = append(rows, mapRow{
				text:  truncate(text, width),
				free:  blk.Free,
				index: idx,
			})
			idx++
		}
	}
	return rows
}

// sizeBar renders a proportional bar for a block within its arena.
func sizeBar(size, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	n := size * width / total
	if n < 1 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// renderStats renders the statistics pane
func (m Model) renderStats() string {
	s := m.stats

	row := func(label string, value any) string {
		return statLabelStyle.Render(label) + statValueStyle.Render(fmt.Sprintf("%v", value)) + "\n"
	}

	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Statistics") + "\n")
	b.WriteString(row("heap", formatBytes(s.HeapBytes)))
	b.WriteString(row("free", formatBytes(s.FreeEstimate)))
	b.WriteString(row("arenas", s.Arenas))
	b.WriteString(row("blocks", s.Blocks))
	b.WriteString(row("free blocks", s.FreeBlocks))
	b.WriteString("\n")
	b.WriteString(row("allocs", s.AllocCalls))
	b.WriteString(row("frees", s.FreeCalls))
	b.WriteString(row("reallocs", s.ReallocCalls))
	b.WriteString(row("arena grows", s.GrowCalls))
	b.WriteString("\n")
	b.WriteString(row("splits", s.Splits))
	b.WriteString(row("merges fwd", s.MergeNext))
	b.WriteString(row("merges back", s.MergePrev))
	b.WriteString(row("shrinks", s.InPlaceShrinks))
	b.WriteString(row("grows", s.InPlaceGrows))
	b.WriteString(row("copies", s.Copies))

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(truncate(m.err.Error(), statsPaneWidth-6)))
	}
	return b.String()
}

// renderStatus renders the bottom status bar
func (m Model) renderStatus() string {
	live := len(m.occupiedSlots())
	counts := fmt.Sprintf("%s live / %s blocks",
		statusCountStyle.Render(fmt.Sprintf("%d", live)),
		statusCountStyle.Render(fmt.Sprintf("%d", m.blockCount())))

	msg := m.statusMessage
	if msg == "" {
		msg = "space: step  b: burst  a/f/r: ops  c: check  ?: help  q: quit"
	}

	return statusStyle.Width(max(m.width, 20)).Render(counts + "  |  " + msg)
}

// renderHelpOverlay renders the full-screen help
func (m Model) renderHelpOverlay() string {
	type entry struct{ key, desc string }
	sections := []struct {
		title   string
		entries []entry
	}{
		{"Workload", []entry{
			{"space/n", "step one random operation"},
			{"b", "burst 100 operations"},
			{"x", "reset heap and workload"},
		}},
		{"Manual operations", []entry{
			{"a", "alloc into the first empty slot"},
			{"f", "free a random occupied slot"},
			{"r", "resize a random occupied slot"},
			{"c", "run the integrity checker"},
		}},
		{"Navigation", []entry{
			{"↑/k, ↓/j", "move the block cursor"},
			{"pgup/pgdn", "page through blocks"},
			{"home/g, end/G", "jump to first/last block"},
		}},
		{"General", []entry{
			{"?", "close this help"},
			{"q", "quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("memexplorer help") + "\n\n")
	for _, sec := range sections {
		b.WriteString(paneTitleStyle.Render(sec.title) + "\n")
		for _, e := range sec.entries {
			b.WriteString(helpKeyStyle.Render(e.key) + helpDescStyle.Render(e.desc) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// formatBytes renders a byte count in a compact human unit.
func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1fMiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1fKiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%dB", n)
	}
}
