package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleStatusOpen = lipgloss.NewStyle().
			Background(lipgloss.Color("28")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleCircuit = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleStones = lipgloss.NewStyle().
			Bold(true)

	styleReadout = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")).
			Bold(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindTitle
	kindCircuit
	kindTray
	kindReadout
	kindReward
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Level "):
		return kindTitle
	case strings.HasPrefix(line, "Circuit:"):
		return kindCircuit
	case strings.HasPrefix(line, "Tray:"):
		return kindTray
	case strings.HasPrefix(line, "Signals:"),
		strings.HasPrefix(line, "Gate:"):
		return kindReadout
	case strings.HasPrefix(line, "The gate opens"):
		return kindReward
	case strings.HasPrefix(line, "No such"),
		strings.HasPrefix(line, "Slot is full"),
		strings.HasPrefix(line, "Stone is"),
		strings.HasPrefix(line, "There is no level"),
		strings.HasPrefix(line, "I don't understand"),
		strings.HasPrefix(line, "The circuit sparks"):
		return kindError
	default:
		return kindText
	}
}

// styledTray renders "Tray: 1(4) 2(2)." with the stones bold.
func styledTray(line string) string {
	const prefix = "Tray: "
	if !strings.HasPrefix(line, prefix) {
		return styleText.Render(line)
	}
	return styleText.Render(prefix) + styleStones.Render(line[len(prefix):])
}

// styledPlayerInput renders the echoed player input with a "> " prefix.
func styledPlayerInput(input string) string {
	return stylePlayerInput.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
