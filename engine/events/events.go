// Package events implements single-pass event dispatch to the collaborators
// that react to test outcomes (reward unlock, front-end notices).
// Handlers receive events but cannot emit new ones.
package events

import "github.com/nathoo/cheesegates/types"

// Event types emitted by the engine.
const (
	LevelLoaded    = "level_loaded"
	CircuitTested  = "circuit_tested"
	RewardUnlocked = "reward_unlocked"
	RewardLocked   = "reward_locked"
)

// Handler reacts to one event. Returned lines are appended to the step output.
type Handler func(ev types.Event) []string

// Bus maps event types to handlers in registration order.
type Bus struct {
	handlers map[string][]Handler
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// On registers h for eventType.
func (b *Bus) On(eventType string, h Handler) {
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Dispatch runs matching handlers for each event. Single pass: handlers
// cannot trigger further dispatch. Returns the collected output lines.
func (b *Bus) Dispatch(evts []types.Event) []string {
	var output []string
	for _, ev := range evts {
		for _, h := range b.handlers[ev.Type] {
			output = append(output, h(ev)...)
		}
	}
	return output
}
