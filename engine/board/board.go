// Package board tracks which stones sit in which input slot. It stands in
// for the placement layer of the full game so the engine can be driven from
// the text front ends.
package board

import (
	"errors"
	"fmt"
)

// MaxStonesPerSlot is how many stones one input slot holds.
const MaxStonesPerSlot = 2

// Tray is the Slot value of a stone that is not placed.
const Tray = -1

var (
	ErrNoSuchStone = errors.New("no such stone")
	ErrNoSuchSlot  = errors.New("no such slot")
	ErrSlotFull    = errors.New("slot is full")
	ErrPlaced      = errors.New("stone is already placed")
	ErrNotPlaced   = errors.New("stone is not placed")
)

// Stone is one weighted token.
type Stone struct {
	ID     int
	Weight int
	Slot   int
}

// Board is the set of stones of a level and the slots they can occupy.
type Board struct {
	stones []Stone
	slots  int
}

// New creates a board with every stone in the tray. IDs follow the order
// of weights, starting at 1.
func New(weights []int, slots int) *Board {
	b := &Board{slots: slots}
	for i, w := range weights {
		b.stones = append(b.stones, Stone{ID: i + 1, Weight: w, Slot: Tray})
	}
	return b
}

// Slots returns the number of input slots.
func (b *Board) Slots() int {
	return b.slots
}

// Stones returns a copy of all stones.
func (b *Board) Stones() []Stone {
	return append([]Stone(nil), b.stones...)
}

// Place moves a stone from the tray into slot.
func (b *Board) Place(stoneID, slot int) error {
	st, err := b.stone(stoneID)
	if err != nil {
		return err
	}
	if slot < 0 || slot >= b.slots {
		return fmt.Errorf("%w: %d", ErrNoSuchSlot, slot)
	}
	if st.Slot != Tray {
		return fmt.Errorf("%w: stone %d in slot %d", ErrPlaced, stoneID, st.Slot)
	}
	if len(b.InSlot(slot)) >= MaxStonesPerSlot {
		return fmt.Errorf("%w: slot %d", ErrSlotFull, slot)
	}
	st.Slot = slot
	return nil
}

// Remove returns a placed stone to the tray.
func (b *Board) Remove(stoneID int) error {
	st, err := b.stone(stoneID)
	if err != nil {
		return err
	}
	if st.Slot == Tray {
		return fmt.Errorf("%w: stone %d", ErrNotPlaced, stoneID)
	}
	st.Slot = Tray
	return nil
}

// Clear returns every stone to the tray.
func (b *Board) Clear() {
	for i := range b.stones {
		b.stones[i].Slot = Tray
	}
}

// InSlot returns the stones in slot, in placement order of their IDs.
func (b *Board) InSlot(slot int) []Stone {
	var out []Stone
	for _, st := range b.stones {
		if st.Slot == slot {
			out = append(out, st)
		}
	}
	return out
}

// TrayStones returns the stones not placed in any slot.
func (b *Board) TrayStones() []Stone {
	return b.InSlot(Tray)
}

// Weights returns the aggregate weight of each slot.
func (b *Board) Weights() []int {
	weights := make([]int, b.slots)
	for _, st := range b.stones {
		if st.Slot != Tray {
			weights[st.Slot] += st.Weight
		}
	}
	return weights
}

func (b *Board) stone(id int) (*Stone, error) {
	for i := range b.stones {
		if b.stones[i].ID == id {
			return &b.stones[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNoSuchStone, id)
}
