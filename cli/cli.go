// Package cli provides the plain line playground for Cheese Gates: one
// command per line, used for piped input, scripts and dumb terminals.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/cheesegates/engine"
	"github.com/nathoo/cheesegates/engine/report"
	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/types"
)

// CLI runs the playground over an input and an output stream.
type CLI struct {
	Engine    *engine.Engine
	Defs      *state.Defs
	In        io.Reader
	Out       io.Writer
	SaveDir   string // where /save writes reports
	Trace     bool
	EchoInput bool // echo each command after the prompt, for scripts

	lastCmd string
}

// metaCommand is a playground-level command starting with '/'. run returns
// true when the playground should stop.
type metaCommand struct {
	usage string
	help  string
	run   func(c *CLI, arg string) bool
}

var metaCommands map[string]metaCommand

func init() {
	metaCommands = map[string]metaCommand{
		"/frames": {"/frames <0110>", "feed pad frames, 1 on the pad and 0 off it", (*CLI).cmdFrames},
		"/save":   {"/save [name]", "save a test report (default: level-<id>)", (*CLI).cmdSave},
		"/state":  {"/state", "print the test report as JSON", (*CLI).cmdState},
		"/trace":  {"/trace", "toggle event output", (*CLI).cmdTrace},
		"/help":   {"/help", "show this help", (*CLI).cmdHelp},
		"/quit":   {"/quit", "leave the playground", (*CLI).cmdQuit},
		"/exit":   {"", "", (*CLI).cmdQuit},
	}
}

// New creates a CLI on stdin and stdout.
func New(eng *engine.Engine, defs *state.Defs) *CLI {
	home, _ := os.UserHomeDir()
	return &CLI{
		Engine:  eng,
		Defs:    defs,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: filepath.Join(home, ".cheesegates", "reports"),
	}
}

// Run shows the title and the active level, then reads commands until the
// input ends or the player quits.
func (c *CLI) Run() {
	if title := c.Defs.Game.Title; title != "" {
		if v := c.Defs.Game.Version; v != "" {
			title += " v" + v
		}
		c.printf("%s\n\n", title)
	}
	if c.Engine.Level != nil {
		c.printResult(c.Engine.Step("look"))
	}

	scanner := bufio.NewScanner(c.In)
	for {
		c.printf("%s", c.prompt())
		if !scanner.Scan() {
			c.printf("\n")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" || strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printf("%s\n", input)
		}
		if c.dispatch(input) {
			return
		}
	}
}

// prompt shows the active level and whether the player is on the test pad,
// e.g. "L2> " or "L2 [pad]> ".
func (c *CLI) prompt() string {
	if c.Engine.Level == nil {
		return "> "
	}
	if c.Engine.Session.OnPad() {
		return fmt.Sprintf("L%d [pad]> ", c.Engine.Level.ID)
	}
	return fmt.Sprintf("L%d> ", c.Engine.Level.ID)
}

// dispatch runs one input line. It returns true when the playground stops.
func (c *CLI) dispatch(input string) bool {
	if strings.HasPrefix(input, "/") {
		name, arg, _ := strings.Cut(input, " ")
		cmd, ok := metaCommands[name]
		if !ok {
			c.system("Unknown command: %s. Type /help for available commands.", name)
			return false
		}
		return cmd.run(c, strings.TrimSpace(arg))
	}

	if lower := strings.ToLower(input); lower == "again" || lower == "g" {
		if c.lastCmd == "" {
			c.printf("Nothing to repeat.\n")
			return false
		}
		input = c.lastCmd
	}
	c.lastCmd = input

	c.printResult(c.Engine.Step(input))
	return false
}

func (c *CLI) cmdFrames(arg string) bool {
	result, err := c.Engine.Frames(strings.ReplaceAll(arg, " ", ""))
	if err != nil {
		c.system("Frames failed: %v", err)
		return false
	}
	c.printResult(result)
	return false
}

// cmdSave writes the current test report as JSON.
func (c *CLI) cmdSave(name string) bool {
	data, ok := c.currentReport()
	if !ok {
		return false
	}
	if name == "" {
		name = fmt.Sprintf("level-%d", c.Engine.Level.ID)
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.system("Save failed: %v", err)
		return false
	}
	if err := os.WriteFile(filepath.Join(c.SaveDir, name+".json"), data, 0o644); err != nil {
		c.system("Save failed: %v", err)
		return false
	}
	c.system("Report saved to %s.", name)
	return false
}

func (c *CLI) cmdState(string) bool {
	if data, ok := c.currentReport(); ok {
		c.printf("%s\n", data)
	}
	return false
}

func (c *CLI) cmdTrace(string) bool {
	c.Trace = !c.Trace
	if c.Trace {
		c.system("Trace output enabled.")
	} else {
		c.system("Trace output disabled.")
	}
	return false
}

func (c *CLI) cmdHelp(string) bool {
	names := make([]string, 0, len(metaCommands))
	for name, cmd := range metaCommands {
		if cmd.usage != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	c.printf("Playground:\n")
	for _, name := range names {
		cmd := metaCommands[name]
		c.printf("  %-16s %s\n", cmd.usage, cmd.help)
	}
	c.printf("\n")
	c.printResult(c.Engine.Step("help"))
	c.printf("  again (g)              repeat your last command\n")
	return false
}

func (c *CLI) cmdQuit(string) bool {
	c.system("Goodbye.")
	return true
}

func (c *CLI) currentReport() ([]byte, bool) {
	if c.Engine.Session == nil {
		c.system("No level loaded.")
		return nil, false
	}
	data, err := report.Marshal(report.Build(c.Engine.Session, c.Engine.Board.Weights()))
	if err != nil {
		c.system("Report failed: %v", err)
		return nil, false
	}
	return data, true
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printf("%s\n", line)
	}
	if c.Trace {
		for _, e := range result.Events {
			c.system("trace %s %v", e.Type, e.Data)
		}
	}
}

func (c *CLI) printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

// system prints a playground message in brackets, apart from level output.
func (c *CLI) system(format string, args ...any) {
	c.printf("[%s]\n", fmt.Sprintf(format, args...))
}
