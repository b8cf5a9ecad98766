// Package solver answers level-design questions about a circuit: can it be
// solved with the level's stone catalog, and how often does a random
// placement solve it.
package solver

import (
	"sort"

	"github.com/nathoo/cheesegates/engine/board"
	"github.com/nathoo/cheesegates/engine/circuit"
	"github.com/nathoo/cheesegates/engine/session"
	"github.com/nathoo/cheesegates/engine/signal"
	"github.com/nathoo/cheesegates/types"
)

// MaxSignals bounds the target enumeration in Solve.
const MaxSignals = 16

// Placement is a winning assignment of stones to slots.
type Placement struct {
	Slots   [][]int // stone IDs per slot, IDs as assigned by board.New
	Weights []int   // aggregate weight per slot
	Bits    []int
}

// Solve searches for a placement of the level's stones, at most
// board.MaxStonesPerSlot per slot and each stone used once, that makes the
// circuit true. It reports false when no such placement exists or the
// level has more than MaxSignals signals.
func Solve(level *types.LevelSpec) (Placement, bool) {
	n := len(level.Signals)
	if n == 0 || n > MaxSignals {
		return Placement{}, false
	}

	stones := sortedStones(level.Stones)

	for mask := 0; mask < 1<<n; mask++ {
		target := make([]int, n)
		for i := range target {
			target[i] = (mask >> i) & 1
		}
		ok, err := circuit.Evaluate(level.Root, target)
		if err != nil || !ok {
			continue
		}
		slots, found := assign(level.Signals, target, stones)
		if !found {
			continue
		}
		p := Placement{Slots: slots, Weights: make([]int, n)}
		for i, ids := range slots {
			for _, id := range ids {
				p.Weights[i] += level.Stones[id-1]
			}
		}
		p.Bits = signal.Bits(p.Weights, level.Signals)
		return p, true
	}
	return Placement{}, false
}

type stone struct {
	id     int
	weight int
}

// sortedStones returns catalog stones heaviest first, keeping board IDs.
func sortedStones(weights []int) []stone {
	out := make([]stone, len(weights))
	for i, w := range weights {
		out[i] = stone{id: i + 1, weight: w}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].weight > out[b].weight })
	return out
}

// need describes what one slot requires to read its target bit.
type need struct {
	slot int
	// minSum > 0 means the slot needs stones summing to at least minSum.
	minSum int
}

// assign finds stones that make every slot read its target bit.
func assign(rules []types.SignalRule, target []int, stones []stone) ([][]int, bool) {
	var needs []need
	for i, rule := range rules {
		switch {
		case rule.Invert && target[i] == 1:
			// empty slot
		case rule.Invert:
			needs = append(needs, need{slot: i, minSum: 1})
		case target[i] == 1:
			if rule.Threshold > 0 {
				needs = append(needs, need{slot: i, minSum: rule.Threshold})
			}
		default:
			// An empty slot reads 0 only when the threshold is positive.
			if rule.Threshold <= 0 {
				return nil, false
			}
		}
	}
	// Hardest slots first.
	sort.SliceStable(needs, func(a, b int) bool { return needs[a].minSum > needs[b].minSum })

	slots := make([][]int, len(rules))
	used := make([]bool, len(stones))
	if !fill(needs, stones, used, slots) {
		return nil, false
	}
	return slots, true
}

func fill(needs []need, stones []stone, used []bool, slots [][]int) bool {
	if len(needs) == 0 {
		return true
	}
	nd := needs[0]

	// Single stones.
	for i, st := range stones {
		if used[i] || st.weight < nd.minSum {
			continue
		}
		used[i] = true
		slots[nd.slot] = []int{st.id}
		if fill(needs[1:], stones, used, slots) {
			return true
		}
		used[i] = false
	}

	// Pairs.
	for i := range stones {
		if used[i] {
			continue
		}
		for j := i + 1; j < len(stones); j++ {
			if used[j] || stones[i].weight+stones[j].weight < nd.minSum {
				continue
			}
			used[i], used[j] = true, true
			slots[nd.slot] = []int{stones[i].id, stones[j].id}
			if fill(needs[1:], stones, used, slots) {
				return true
			}
			used[i], used[j] = false, false
		}
	}

	slots[nd.slot] = nil
	return false
}

// Stats summarises a random sampling run.
type Stats struct {
	Trials   int
	Solved   int
	Seed     int64
	Position int64
}

// Rate returns the fraction of trials that solved the level.
func (s Stats) Rate() float64 {
	if s.Trials == 0 {
		return 0
	}
	return float64(s.Solved) / float64(s.Trials)
}

// Sample places the level's stones at random n times and counts how many
// placements solve the circuit. Each stone stays in the tray with the same
// odds as landing in any slot; full slots send it back to the tray.
func Sample(level *types.LevelSpec, rng *RNG, n int) Stats {
	stats := Stats{Trials: n, Seed: rng.Seed()}
	slots := len(level.Signals)
	if slots == 0 {
		stats.Position = rng.Position()
		return stats
	}

	weights := make([]int, slots+1)
	weights[0] = slots
	for i := 1; i <= slots; i++ {
		weights[i] = 1
	}

	for trial := 0; trial < n; trial++ {
		b := board.New(level.Stones, slots)
		for _, st := range b.Stones() {
			if pick := rng.WeightedSelect(weights); pick > 0 {
				// A full slot rejects the stone, which then stays in the tray.
				_ = b.Place(st.ID, pick-1)
			}
		}
		ok, _, err := session.Run(level, b.Weights())
		if err == nil && ok {
			stats.Solved++
		}
	}
	stats.Position = rng.Position()
	return stats
}
