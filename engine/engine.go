// Package engine provides the orchestrator that ties a loaded level, its
// board of stones and its test session together behind LoadLevel, Frame
// and the playground's Step.
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/nathoo/cheesegates/engine/board"
	"github.com/nathoo/cheesegates/engine/circuit"
	"github.com/nathoo/cheesegates/engine/events"
	"github.com/nathoo/cheesegates/engine/parser"
	"github.com/nathoo/cheesegates/engine/session"
	"github.com/nathoo/cheesegates/engine/solver"
	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/types"
)

// ErrUnknownLevel is returned by LoadLevel for an ID missing from the defs.
var ErrUnknownLevel = fmt.Errorf("%w: unknown level", circuit.ErrConfiguration)

// Engine holds the level definitions and the state of the active level.
type Engine struct {
	Defs    *state.Defs
	Level   *types.LevelSpec
	Session *session.Session
	Board   *board.Board
	Bus     *events.Bus

	// Permissive substitutes the fallback level for missing or broken
	// levels instead of failing.
	Permissive bool
}

// New creates an engine with the default event handlers. No level is
// active until LoadLevel succeeds.
func New(defs *state.Defs) *Engine {
	e := &Engine{Defs: defs, Bus: events.NewBus()}
	e.registerDefaults()
	return e
}

// LoadLevel makes level id active with a fresh board and an untested session.
func (e *Engine) LoadLevel(id int) (*types.LevelSpec, error) {
	lvl, err := e.lookup(id)
	if err != nil {
		if !e.Permissive {
			return nil, err
		}
		log.Warn().Err(err).Int("level", id).Bool("fallback", true).Msg("substituting fallback level")
		fb := state.Fallback(id)
		lvl = &fb
	}

	// The board, the solver and the tray listing all read this catalog.
	if len(lvl.Stones) == 0 {
		lvl.Stones = state.StoneWeights(e.Defs, lvl.ID)
	}

	e.Level = lvl
	e.Session = session.New(lvl)
	e.Board = board.New(lvl.Stones, len(lvl.Signals))
	log.Debug().Int("level", lvl.ID).Bool("fallback", lvl.Fallback).Str("session", e.Session.ID).Str("circuit", circuit.Format(lvl.Root)).Msg("level loaded")
	return lvl, nil
}

func (e *Engine) lookup(id int) (*types.LevelSpec, error) {
	lvl, ok := state.GetLevel(e.Defs, id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLevel, id)
	}
	if len(lvl.Signals) == 0 {
		return nil, fmt.Errorf("%w: level %d has no signals", circuit.ErrConfiguration, id)
	}
	if err := circuit.Validate(lvl.Root, len(lvl.Signals)); err != nil {
		return nil, fmt.Errorf("level %d: %w", id, err)
	}

	// A missing mask means no signal is flipped for display.
	n := len(lvl.Signals)
	switch m := len(lvl.DisplayInvert); {
	case m == n:
	case m == 0:
		lvl.DisplayInvert = make([]bool, n)
	case !e.Permissive:
		return nil, fmt.Errorf("%w: level %d: display_invert has %d entries for %d signals",
			circuit.ErrConfiguration, id, m, n)
	default:
		log.Warn().Int("level", id).Int("mask", m).Int("signals", n).Msg("normalizing display_invert")
		mask := make([]bool, n)
		copy(mask, lvl.DisplayInvert)
		lvl.DisplayInvert = mask
	}
	return lvl, nil
}

// Evaluate tests level against weights. The active session caches the
// outcome when level is the active level; any other level is run without
// state. No events are emitted.
func (e *Engine) Evaluate(level *types.LevelSpec, weights []int) (bool, []int, error) {
	if level == nil {
		return false, nil, fmt.Errorf("%w: nil level", circuit.ErrConfiguration)
	}
	if e.Session != nil && level == e.Level {
		return e.Session.Evaluate(weights)
	}
	return session.Run(level, weights)
}

// CachedResult returns the result and bits of the last test of the active
// level and whether it has been tested.
func (e *Engine) CachedResult() (bool, []int, bool) {
	if e.Session == nil {
		return false, nil, false
	}
	snap := e.Session.Cached()
	return snap.Result, snap.Bits, snap.Tested
}

// Frame advances the test pad by one simulation step. The circuit is tested
// against the board only on the step the player enters the pad.
func (e *Engine) Frame(inside bool) types.Result {
	var result types.Result
	if e.Session == nil {
		return result
	}

	prev := e.Session.Cached()
	weights := e.Board.Weights()
	fired, err := e.Session.Frame(inside, weights)
	if err != nil {
		log.Error().Err(err).Int("level", e.Level.ID).Bool("fallback", e.Level.Fallback).Msg("circuit test failed")
		result.Output = append(result.Output, "The circuit sparks and fails: "+err.Error())
		return result
	}
	if !fired {
		return result
	}

	snap := e.Session.Cached()
	evts := []types.Event{{
		Type: events.CircuitTested,
		Data: map[string]any{
			"level":   e.Level.ID,
			"weights": weights,
			"bits":    snap.Bits,
			"result":  snap.Result,
		},
	}}
	wasOpen := prev.Tested && prev.Result
	switch {
	case snap.Result && !wasOpen:
		evts = append(evts, types.Event{Type: events.RewardUnlocked, Data: map[string]any{"level": e.Level.ID}})
	case !snap.Result && wasOpen:
		evts = append(evts, types.Event{Type: events.RewardLocked, Data: map[string]any{"level": e.Level.ID}})
	}
	log.Debug().Int("level", e.Level.ID).Bool("fallback", e.Level.Fallback).Ints("bits", snap.Bits).Bool("result", snap.Result).Msg("circuit tested")

	result.Events = evts
	result.Output = e.Bus.Dispatch(evts)
	return result
}

// Frames feeds a pad pattern to Frame, one character per simulation step:
// '1' or '#' is a frame on the pad, '0' or '.' a frame off it. Every frame
// that fires is announced with its 1-based number before its output.
func (e *Engine) Frames(pattern string) (types.Result, error) {
	var result types.Result
	if e.Session == nil {
		return result, errors.New("no level loaded")
	}

	steps := make([]bool, 0, len(pattern))
	for i, ch := range pattern {
		switch ch {
		case '1', '#':
			steps = append(steps, true)
		case '0', '.':
			steps = append(steps, false)
		default:
			return result, fmt.Errorf("frame %d: %q is not 0 or 1", i+1, ch)
		}
	}
	if len(steps) == 0 {
		return result, errors.New("empty frame pattern")
	}

	for i, inside := range steps {
		r := e.Frame(inside)
		if len(r.Events) == 0 && len(r.Output) == 0 {
			continue
		}
		result.Output = append(result.Output, fmt.Sprintf("Frame %d: the pad fires.", i+1))
		result.Output = append(result.Output, r.Output...)
		result.Events = append(result.Events, r.Events...)
	}
	if len(result.Output) == 0 {
		result.Output = []string{"The pad never fired."}
	}
	return result, nil
}

// Step processes one playground command and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	intent := parser.Parse(input)
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	// Commands that work without an active level.
	switch intent.Verb {
	case "help":
		result.Output = helpText()
		return result
	case "levels":
		result.Output = e.listLevels()
		return result
	case "level":
		return e.cmdLevel(intent.Args)
	}

	if e.Session == nil {
		result.Output = append(result.Output, "No level loaded. Try \"level <id>\".")
		return result
	}

	switch intent.Verb {
	case "place":
		result.Output = e.cmdPlace(intent.Args)
	case "remove":
		result.Output = e.cmdRemove(intent.Args)
	case "clear":
		e.Board.Clear()
		result.Output = []string{"All stones are back in the tray."}
	case "test":
		if e.Session.OnPad() {
			result.Output = []string{"You are already on the test pad. Step off first."}
			return result
		}
		result.Output = append(result.Output, "You step onto the test pad.")
		frame := e.Frame(true)
		result.Events = frame.Events
		result.Output = append(result.Output, frame.Output...)
	case "leave":
		if !e.Session.OnPad() {
			result.Output = []string{"You are not on the test pad."}
			return result
		}
		e.Frame(false)
		result.Output = []string{"You step off the test pad."}
	case "look":
		result.Output = e.describe()
	case "next":
		next, ok := state.NextLevel(e.Defs, e.Level.ID)
		if !ok {
			result.Output = []string{"That was the last level."}
			return result
		}
		return e.cmdLevel([]string{strconv.Itoa(next)})
	case "solve":
		result.Output = e.cmdSolve()
	default:
		result.Output = append(result.Output, "I don't understand that. Type \"help\" for commands.")
	}
	return result
}

func (e *Engine) cmdLevel(args []string) types.Result {
	var result types.Result
	if len(args) == 0 {
		result.Output = []string{"Which level?"}
		return result
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		result.Output = []string{fmt.Sprintf("%q is not a level number.", args[0])}
		return result
	}
	lvl, err := e.LoadLevel(id)
	if err != nil {
		if errors.Is(err, ErrUnknownLevel) {
			result.Output = []string{fmt.Sprintf("There is no level %d.", id)}
		} else {
			result.Output = []string{err.Error()}
		}
		return result
	}

	evts := []types.Event{{
		Type: events.LevelLoaded,
		Data: map[string]any{"level": lvl.ID, "fallback": lvl.Fallback},
	}}
	result.Events = evts
	result.Output = append(result.Output, e.Bus.Dispatch(evts)...)
	result.Output = append(result.Output, e.describe()...)
	return result
}

func (e *Engine) cmdPlace(args []string) []string {
	if len(args) < 2 {
		return []string{"Place which stone in which slot? (place <stone> <slot>)"}
	}
	stoneID, err1 := strconv.Atoi(args[0])
	slot, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return []string{"Stones and slots are numbers, e.g. \"place 3 0\"."}
	}
	if err := e.Board.Place(stoneID, slot); err != nil {
		return []string{capitalize(err.Error()) + "."}
	}
	return []string{fmt.Sprintf("Stone %d (weight %d) is now in slot %d.", stoneID, e.stoneWeight(stoneID), slot)}
}

func (e *Engine) cmdRemove(args []string) []string {
	if len(args) < 1 {
		return []string{"Remove which stone?"}
	}
	stoneID, err := strconv.Atoi(args[0])
	if err != nil {
		return []string{fmt.Sprintf("%q is not a stone number.", args[0])}
	}
	if err := e.Board.Remove(stoneID); err != nil {
		return []string{capitalize(err.Error()) + "."}
	}
	return []string{fmt.Sprintf("Stone %d is back in the tray.", stoneID)}
}

func (e *Engine) cmdSolve() []string {
	p, ok := solver.Solve(e.Level)
	if !ok {
		return []string{"No placement of these stones opens the gate."}
	}
	out := []string{"One way to open the gate:"}
	for slot, ids := range p.Slots {
		if len(ids) == 0 {
			out = append(out, fmt.Sprintf("  slot %d: empty", slot))
			continue
		}
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = fmt.Sprintf("%d (weight %d)", id, e.stoneWeight(id))
		}
		out = append(out, fmt.Sprintf("  slot %d: stone %s", slot, strings.Join(names, " + ")))
	}
	return out
}

func (e *Engine) stoneWeight(id int) int {
	for _, st := range e.Board.Stones() {
		if st.ID == id {
			return st.Weight
		}
	}
	return 0
}

// describe produces the standard level description output.
func (e *Engine) describe() []string {
	lvl := e.Level
	title := fmt.Sprintf("Level %d", lvl.ID)
	if lvl.Name != "" {
		title += ": " + lvl.Name
	}
	if lvl.Fallback {
		title += " (fallback)"
	}

	out := []string{title, "Circuit: " + circuit.Format(lvl.Root)}
	disp := e.Session.Display()
	weights := e.Board.Weights()
	for slot := 0; slot < e.Board.Slots(); slot++ {
		var ids []string
		for _, st := range e.Board.InSlot(slot) {
			ids = append(ids, strconv.Itoa(st.ID))
		}
		held := "empty"
		if len(ids) > 0 {
			held = "stones " + strings.Join(ids, ", ")
		}
		out = append(out, fmt.Sprintf("  slot %d [%s]: %s (weight %d)", slot, disp.Signals[slot], held, weights[slot]))
	}
	out = append(out, "Gate: "+disp.Result.String())

	tray := e.Board.TrayStones()
	if len(tray) == 0 {
		out = append(out, "Tray: empty.")
	} else {
		parts := make([]string, len(tray))
		for i, st := range tray {
			parts[i] = fmt.Sprintf("%d(%d)", st.ID, st.Weight)
		}
		out = append(out, "Tray: "+strings.Join(parts, " ")+".")
	}
	return out
}

func (e *Engine) listLevels() []string {
	ids := state.LevelIDs(e.Defs)
	if len(ids) == 0 {
		return []string{"No levels loaded."}
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		lvl := e.Defs.Levels[id]
		marker := " "
		if e.Level != nil && e.Level.ID == id {
			marker = "*"
		}
		out = append(out, fmt.Sprintf("%s %d  %s", marker, id, lvl.Name))
	}
	return out
}

// registerDefaults installs the handlers that turn test outcomes into text.
func (e *Engine) registerDefaults() {
	e.Bus.On(events.LevelLoaded, func(ev types.Event) []string {
		if fb, _ := ev.Data["fallback"].(bool); fb {
			return []string{"This level could not be loaded; a practice circuit stands in for it."}
		}
		return nil
	})
	e.Bus.On(events.CircuitTested, func(ev types.Event) []string {
		if e.Session == nil {
			return nil
		}
		disp := e.Session.Display()
		parts := make([]string, len(disp.Signals))
		for i, r := range disp.Signals {
			parts[i] = r.String()
		}
		return []string{fmt.Sprintf("Signals: %s  Gate: %s", strings.Join(parts, " "), disp.Result)}
	})
	e.Bus.On(events.RewardUnlocked, func(types.Event) []string {
		return []string{"The gate opens. The cheese is yours to take."}
	})
	e.Bus.On(events.RewardLocked, func(types.Event) []string {
		return []string{"The gate slams shut over the cheese."}
	})
}

func helpText() []string {
	return []string{
		"Commands:",
		"  place <stone> <slot>   put a stone from the tray into a slot (p, put)",
		"  remove <stone>         return a stone to the tray (r, take)",
		"  clear                  return every stone to the tray",
		"  test                   step onto the test pad (t, step on)",
		"  leave                  step off the test pad (step off)",
		"  look                   show the level, slots and tray (l)",
		"  levels                 list levels (ls)",
		"  level <id>             switch level (goto)",
		"  next                   go to the next level",
		"  solve                  show one placement that opens the gate",
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
