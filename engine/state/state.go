// Package state holds the immutable level definitions produced by the
// loader and the lookups the engine runs against them.
package state

import (
	"sort"
	"time"

	"github.com/nathoo/cheesegates/types"
)

// DefaultStones is the stone catalog used by levels that do not name one.
var DefaultStones = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

// DefaultTimeLimit is the time budget used by levels that do not name one.
const DefaultTimeLimit = 60 * time.Second

// Defs holds the immutable content loaded from level files.
type Defs struct {
	Game   types.GameDef
	Levels map[int]types.LevelSpec
}

// GetLevel returns a copy of the level with the given ID.
func GetLevel(defs *Defs, id int) (*types.LevelSpec, bool) {
	lvl, ok := defs.Levels[id]
	if !ok {
		return nil, false
	}
	return &lvl, true
}

// LevelIDs returns all level IDs in ascending order.
func LevelIDs(defs *Defs) []int {
	ids := make([]int, 0, len(defs.Levels))
	for id := range defs.Levels {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// StartLevel returns the level a fresh game begins on: the configured start
// if it exists, otherwise the lowest ID. Returns false if there are no levels.
func StartLevel(defs *Defs) (int, bool) {
	if _, ok := defs.Levels[defs.Game.Start]; ok {
		return defs.Game.Start, true
	}
	ids := LevelIDs(defs)
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// NextLevel returns the ID following id in ascending order.
func NextLevel(defs *Defs, id int) (int, bool) {
	for _, next := range LevelIDs(defs) {
		if next > id {
			return next, true
		}
	}
	return 0, false
}

// StoneWeights returns the stone catalog of a level, falling back to
// DefaultStones for unknown levels or empty catalogs.
func StoneWeights(defs *Defs, id int) []int {
	var src []int
	if lvl, ok := defs.Levels[id]; ok && len(lvl.Stones) > 0 {
		src = lvl.Stones
	} else {
		src = DefaultStones
	}
	out := make([]int, len(src))
	copy(out, src)
	return out
}

// Fallback returns the stand-in level used in permissive mode: two
// presence signals joined by OR, so any stone in either slot solves it.
func Fallback(id int) types.LevelSpec {
	return types.LevelSpec{
		ID:   id,
		Name: "fallback",
		Signals: []types.SignalRule{
			{Threshold: 1},
			{Threshold: 1},
		},
		Root:          types.Or(types.Ref(0), types.Ref(1)),
		DisplayInvert: []bool{false, false},
		Stones:        append([]int(nil), DefaultStones...),
		TimeLimit:     DefaultTimeLimit,
		Fallback:      true,
	}
}
