// Package session owns the test state of one level instance: whether the
// circuit has been tested, the bits and result of the last test, and the
// edge trigger deciding when a new test happens.
package session

import (
	"github.com/google/uuid"

	"github.com/nathoo/cheesegates/engine/circuit"
	"github.com/nathoo/cheesegates/engine/signal"
	"github.com/nathoo/cheesegates/types"
)

// Session is the test state machine for one level. It moves from untested
// to tested on the first successful Evaluate and stays there; every later
// Evaluate replaces the cached data. A Session is not safe for concurrent
// use; it belongs to the controller running the level.
type Session struct {
	ID string

	level      *types.LevelSpec
	lastBits   []int
	lastResult bool
	tested     bool
	trigger    Trigger
}

// Snapshot is a copy of the cached test state.
type Snapshot struct {
	Result bool
	Bits   []int
	Tested bool
}

// New creates an untested session for level. level must not be nil.
func New(level *types.LevelSpec) *Session {
	return &Session{
		ID:       uuid.NewString(),
		level:    level,
		lastBits: make([]int, len(level.Signals)),
	}
}

// Level returns the level this session tests.
func (s *Session) Level() *types.LevelSpec {
	return s.level
}

// Run converts weights to bits and evaluates the level circuit without
// touching any session state.
func Run(level *types.LevelSpec, weights []int) (bool, []int, error) {
	bits := signal.Bits(weights, level.Signals)
	result, err := circuit.Evaluate(level.Root, bits)
	if err != nil {
		return false, bits, err
	}
	return result, bits, nil
}

// Evaluate tests the circuit against weights and caches the outcome.
// On error the cached state is left as it was.
func (s *Session) Evaluate(weights []int) (bool, []int, error) {
	result, bits, err := Run(s.level, weights)
	if err != nil {
		return false, nil, err
	}
	s.lastBits = bits
	s.lastResult = result
	s.tested = true
	return result, copyBits(bits), nil
}

// Frame feeds one simulation step of the test pad. The circuit is evaluated
// only when the player has just stepped onto the pad.
func (s *Session) Frame(inside bool, weights []int) (bool, error) {
	if !s.trigger.Enter(inside) {
		return false, nil
	}
	if _, _, err := s.Evaluate(weights); err != nil {
		return true, err
	}
	return true, nil
}

// OnPad reports whether the last frame had the player on the test pad.
func (s *Session) OnPad() bool {
	return s.trigger.Inside()
}

// Cached returns the last test result, its bits and whether any test has
// happened yet.
func (s *Session) Cached() Snapshot {
	return Snapshot{
		Result: s.lastResult,
		Bits:   copyBits(s.lastBits),
		Tested: s.tested,
	}
}

// Tested reports whether the circuit has been evaluated at least once.
func (s *Session) Tested() bool {
	return s.tested
}

// Reset returns the session to the untested state with a fresh trigger.
func (s *Session) Reset() {
	s.lastBits = make([]int, len(s.level.Signals))
	s.lastResult = false
	s.tested = false
	s.trigger = Trigger{}
}

func copyBits(bits []int) []int {
	out := make([]int, len(bits))
	copy(out, bits)
	return out
}
