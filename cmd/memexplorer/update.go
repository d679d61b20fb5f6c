package main

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all incoming messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay swallows everything except its own toggle and quit
	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Quit):
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < m.blockCount()-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.PageUp):
		m.cursor = max(0, m.cursor-m.mapHeight())

	case key.Matches(msg, m.keys.PageDown):
		m.cursor = min(m.blockCount()-1, m.cursor+m.mapHeight())

	case key.Matches(msg, m.keys.Home):
		m.cursor = 0

	case key.Matches(msg, m.keys.End):
		if n := m.blockCount(); n > 0 {
			m.cursor = n - 1
		}

	case key.Matches(msg, m.keys.Step):
		m.step()
		m.refresh()

	case key.Matches(msg, m.keys.Burst):
		for s := 0; s < burstSteps; s++ {
			m.step()
		}
		m.refresh()

	case key.Matches(msg, m.keys.Alloc):
		m.manualAlloc()
		m.refresh()

	case key.Matches(msg, m.keys.Free):
		m.manualFree()
		m.refresh()

	case key.Matches(msg, m.keys.Realloc):
		m.manualRealloc()
		m.refresh()

	case key.Matches(msg, m.keys.Check):
		if err := m.heap.Check(); err != nil {
			m.err = err
			m.statusMessage = "integrity check FAILED"
		} else {
			m.err = nil
			m.statusMessage = "integrity check passed"
		}

	case key.Matches(msg, m.keys.Reset):
		m.reset()
		m.refresh()
	}

	m.clampScroll()
	return m, nil
}

// clampScroll keeps the cursor visible inside the arena map viewport.
func (m *Model) clampScroll() {
	h := m.mapHeight()
	if h <= 0 {
		return
	}
	if m.cursor < m.scroll {
		m.scroll = m.cursor
	}
	if m.cursor >= m.scroll+h {
		m.scroll = m.cursor - h + 1
	}
}
