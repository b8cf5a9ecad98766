package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/cheesegates/engine/circuit"
	"github.com/nathoo/cheesegates/types"
)

// levelDisplayName is the short level label used in the status bar.
// Level 3 "Light Touch" -> "L3 Light Touch".
func levelDisplayName(lvl *types.LevelSpec) string {
	name := fmt.Sprintf("L%d", lvl.ID)
	if lvl.Fallback {
		return name + " (fallback)"
	}
	if lvl.Name != "" {
		name += " " + lvl.Name
	}
	return name
}

// formatRemaining renders a countdown as m:ss, never negative.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// renderStatusBar produces a full-width inverted status line showing the
// level, the signal readouts, the gate, the circuit and the time left.
func (m Model) renderStatusBar() string {
	lvl := m.engine.Level
	if lvl == nil || m.engine.Session == nil {
		return styleStatusBar.Width(m.width).Render(" No level loaded")
	}

	disp := m.engine.Session.Display()
	readouts := make([]string, len(disp.Signals))
	for i, r := range disp.Signals {
		readouts[i] = r.String()
	}

	left := fmt.Sprintf(" %s | In: %s | Gate: %s", levelDisplayName(lvl), strings.Join(readouts, " "), disp.Result)
	right := formatRemaining(m.remaining()) + " "

	// Show the circuit if it fits.
	candidate := fmt.Sprintf("%s | %s", circuit.Format(lvl.Root), right)
	if lipgloss.Width(left)+lipgloss.Width(candidate)+2 < m.width {
		right = candidate
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	if result, _, tested := m.engine.CachedResult(); tested && result {
		return styleStatusOpen.Width(m.width).Render(bar)
	}
	return styleStatusBar.Width(m.width).Render(bar)
}
