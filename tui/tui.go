// Package tui provides a Bubble Tea terminal UI for the Cheese Gates
// playground, with a live status bar and the level's countdown.
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/cheesegates/engine"
	"github.com/nathoo/cheesegates/engine/report"
	"github.com/nathoo/cheesegates/engine/session"
	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/types"
)

// rawLine stores an unstyled output line with its classification,
// so we can re-wrap and re-style when the terminal is resized.
type rawLine struct {
	text     string
	kind     lineKind
	isInput  bool // true for echoed player input
	isSystem bool // true for system messages
}

// Model is the Bubble Tea model for the Cheese Gates TUI.
type Model struct {
	engine *engine.Engine
	defs   *state.Defs

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine // accumulated output lines (unstyled, for re-wrapping)

	// Countdown for the active session. The clock restarts whenever the
	// engine switches to a new session.
	now      func() time.Time
	deadline time.Time
	timed    *session.Session

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	saveDir  string
}

// gameOutputMsg carries output from the engine into the Update loop.
type gameOutputMsg struct {
	input    string   // echoed player input (empty for intro)
	lines    []string // output lines
	isSystem bool     // true for meta-command output
}

// tickMsg drives the countdown once per second.
type tickMsg time.Time

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine, defs *state.Defs) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	m := Model{
		engine:  eng,
		defs:    defs,
		input:   ti,
		history: NewHistory(100),
		now:     time.Now,
		saveDir: filepath.Join(home, ".cheesegates", "reports"),
	}
	m.syncClock()
	return m
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine, defs *state.Defs) error {
	m := New(eng, defs)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init returns the initial commands: title, first look and the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		var lines []string

		title := m.defs.Game.Title
		if m.defs.Game.Version != "" {
			title += " v" + m.defs.Game.Version
		}
		if m.defs.Game.Author != "" {
			title += " by " + m.defs.Game.Author
		}
		lines = append(lines, title, "")

		result := m.engine.Step("look")
		lines = append(lines, result.Output...)

		return gameOutputMsg{lines: lines}
	}
}

// syncClock restarts the countdown if the engine moved to a new session.
func (m *Model) syncClock() {
	s := m.engine.Session
	if s == nil || s == m.timed {
		return
	}
	m.timed = s
	m.deadline = m.now().Add(m.timeLimit())
}

func (m Model) timeLimit() time.Duration {
	if m.engine.Level == nil || m.engine.Level.TimeLimit <= 0 {
		return state.DefaultTimeLimit
	}
	return m.engine.Level.TimeLimit
}

// padPrompt marks the input line while the player stands on the test pad.
func (m Model) padPrompt() string {
	if m.engine.Session != nil && m.engine.Session.OnPad() {
		return "[pad] > "
	}
	return "> "
}

// remaining is the time left on the active level.
func (m Model) remaining() time.Duration {
	if m.timed == nil {
		return 0
	}
	return m.deadline.Sub(m.now())
}

// Update handles messages (key presses, window resize, game output, ticks).
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // 1 status bar + 1 input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tickMsg:
		m = m.checkTimeout()
		return m, tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "tab":
			if full, ok := m.history.Complete(m.input.Value()); ok {
				m.input.SetValue(full)
				m.input.CursorEnd()
			}
			return m, nil

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// checkTimeout restarts the level when its countdown runs out. An open gate
// stops the clock.
func (m Model) checkTimeout() Model {
	if m.timed == nil || m.remaining() > 0 {
		return m
	}
	if result, _, _ := m.engine.CachedResult(); result {
		return m
	}
	result := m.engine.Step(fmt.Sprintf("level %d", m.engine.Level.ID))
	lines := append([]string{"Time is up! The level starts over."}, result.Output...)
	m.syncClock()
	m.input.Prompt = m.padPrompt()
	return m.appendOutput(gameOutputMsg{lines: lines})
}

// handleEnter processes the submitted input line.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	m.history.Push(input)
	m.history.ResetCursor()

	// Handle "again" / "g".
	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	// Meta-commands.
	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{input: input, lines: output, isSystem: true})
		m.input.Prompt = m.padPrompt()
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil
	}

	// Playground command.
	result := m.engine.Step(input)
	m.syncClock()
	output := result.Output
	if m.trace {
		output = append(output, m.formatTrace(result)...)
	}
	m = m.appendOutput(gameOutputMsg{input: input, lines: output})
	m.input.Prompt = m.padPrompt()
	return m, nil
}

// appendOutput adds lines to the transcript and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: msg.input, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	// Blank line separator between commands.
	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-wraps and re-styles all raw lines at the current width
// and updates the viewport content.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		wrapped := wordWrap(rl.text, width)

		switch {
		case rl.isInput:
			styled = append(styled, styledPlayerInput(wrapped))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wrapped))
		default:
			styled = append(styled, renderLineKind(wrapped, rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

// renderLineKind applies the style for a given lineKind.
func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindTitle:
		return styleTitle.Render(line)
	case kindCircuit:
		return styleCircuit.Render(line)
	case kindTray:
		return styledTray(line)
	case kindReadout:
		return styleReadout.Render(line)
	case kindReward:
		return styleReward.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleText.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Leading indentation of the line is kept.
func wordWrap(text string, width int) string {
	if width <= 0 || len(text) <= width {
		return text
	}

	indent := text[:len(text)-len(strings.TrimLeft(text, " "))]
	var result strings.Builder
	result.WriteString(indent)
	lineLen := len(indent)

	for i, word := range strings.Fields(text) {
		wLen := len(word)
		switch {
		case i == 0:
			result.WriteString(word)
			lineLen += wLen
		case lineLen+1+wLen > width:
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		default:
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View renders the full TUI layout: viewport + status bar + input.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta dispatches meta-commands. Returns output lines and quit flag.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/help":
		return m.cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/frames":
		result, err := m.engine.Frames(strings.Join(parts[1:], ""))
		if err != nil {
			return []string{fmt.Sprintf("Frames failed: %v", err)}, false
		}
		m.syncClock()
		return result.Output, false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) reportJSON() ([]byte, error) {
	if m.engine.Session == nil {
		return nil, fmt.Errorf("no level loaded")
	}
	return report.Marshal(report.Build(m.engine.Session, m.engine.Board.Weights()))
}

func (m *Model) cmdSave(name string) []string {
	if name == "" && m.engine.Level != nil {
		name = fmt.Sprintf("level-%d", m.engine.Level.ID)
	}

	data, err := m.reportJSON()
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Report saved to %s.", name)}
}

func (m *Model) cmdHelp() []string {
	lines := []string{
		"System:",
		"  /frames <0110> — Feed pad frames, 1 on the pad and 0 off it",
		"  /save [name]  — Save a test report (default: level-<id>)",
		"  /quit         — Exit",
		"  /help         — Show this help",
		"  /state        — Debug: dump the test state as JSON",
		"  /trace        — Toggle event trace output",
		"",
	}
	lines = append(lines, m.engine.Step("help").Output...)
	return append(lines,
		"  again (g)              repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for history, Tab to complete",
	)
}

func (m *Model) cmdState() []string {
	data, err := m.reportJSON()
	if err != nil {
		return []string{err.Error()}
	}
	return strings.Split(string(data), "\n")
}

func (m *Model) formatTrace(result types.Result) []string {
	var lines []string
	if len(result.Events) > 0 {
		lines = append(lines, fmt.Sprintf("[trace] Events: %d", len(result.Events)))
		for _, e := range result.Events {
			lines = append(lines, fmt.Sprintf("[trace]   %s %v", e.Type, e.Data))
		}
	}
	return lines
}

// viewportKeyMap returns a viewport keymap with Up/Down disabled
// (we use those for input history).
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
