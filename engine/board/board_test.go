package board

import (
	"errors"
	"testing"
)

func TestNew_AllInTray(t *testing.T) {
	b := New([]int{1, 4, 2}, 2)
	if got := len(b.TrayStones()); got != 3 {
		t.Errorf("tray size = %d, want 3", got)
	}
	w := b.Weights()
	if len(w) != 2 || w[0] != 0 || w[1] != 0 {
		t.Errorf("Weights() = %v, want [0 0]", w)
	}
}

func TestPlace_AggregatesWeight(t *testing.T) {
	b := New([]int{1, 4, 2}, 2)
	if err := b.Place(1, 0); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := b.Place(2, 0); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := b.Place(3, 1); err != nil {
		t.Fatalf("Place: %v", err)
	}

	w := b.Weights()
	if w[0] != 5 || w[1] != 2 {
		t.Errorf("Weights() = %v, want [5 2]", w)
	}
	if len(b.TrayStones()) != 0 {
		t.Error("tray should be empty")
	}
}

func TestPlace_SlotCapacity(t *testing.T) {
	b := New([]int{1, 1, 1}, 1)
	_ = b.Place(1, 0)
	_ = b.Place(2, 0)
	err := b.Place(3, 0)
	if !errors.Is(err, ErrSlotFull) {
		t.Errorf("third stone error = %v, want ErrSlotFull", err)
	}
}

func TestPlace_Errors(t *testing.T) {
	b := New([]int{3}, 1)
	tests := []struct {
		name  string
		stone int
		slot  int
		want  error
	}{
		{"unknown stone", 9, 0, ErrNoSuchStone},
		{"slot too high", 1, 1, ErrNoSuchSlot},
		{"negative slot", 1, -1, ErrNoSuchSlot},
	}
	for _, tt := range tests {
		if err := b.Place(tt.stone, tt.slot); !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}

	_ = b.Place(1, 0)
	if err := b.Place(1, 0); !errors.Is(err, ErrPlaced) {
		t.Errorf("re-place error = %v, want ErrPlaced", err)
	}
}

func TestRemove(t *testing.T) {
	b := New([]int{3, 5}, 2)
	_ = b.Place(2, 1)

	if err := b.Remove(2); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if w := b.Weights(); w[1] != 0 {
		t.Errorf("slot 1 weight = %d after remove, want 0", w[1])
	}
	if err := b.Remove(2); !errors.Is(err, ErrNotPlaced) {
		t.Errorf("second remove error = %v, want ErrNotPlaced", err)
	}
}

func TestClear(t *testing.T) {
	b := New([]int{3, 5}, 2)
	_ = b.Place(1, 0)
	_ = b.Place(2, 1)
	b.Clear()
	if len(b.TrayStones()) != 2 {
		t.Error("Clear should return all stones to the tray")
	}
}
