package signal

import (
	"testing"

	"github.com/nathoo/cheesegates/types"
)

func TestBit_ThresholdMonotonic(t *testing.T) {
	for _, threshold := range []int{0, 1, 3, 6, 12} {
		rule := types.SignalRule{Threshold: threshold}
		for w := 0; w <= 20; w++ {
			want := 0
			if w >= threshold {
				want = 1
			}
			if got := Bit(w, rule); got != want {
				t.Errorf("Bit(%d, threshold %d) = %d, want %d", w, threshold, got, want)
			}
		}
	}
}

func TestBit_InvertedReadsOnlyEmpty(t *testing.T) {
	// Threshold must not matter once the rule is inverted.
	for _, threshold := range []int{0, 2, 3, 100} {
		rule := types.SignalRule{Threshold: threshold, Invert: true}
		if got := Bit(0, rule); got != 1 {
			t.Errorf("Bit(0, inverted threshold %d) = %d, want 1", threshold, got)
		}
		for w := 1; w <= 20; w++ {
			if got := Bit(w, rule); got != 0 {
				t.Errorf("Bit(%d, inverted threshold %d) = %d, want 0", w, threshold, got)
			}
		}
	}
}

func TestBits(t *testing.T) {
	a := types.SignalRule{Threshold: 6}
	b := types.SignalRule{Threshold: 2, Invert: true}

	tests := []struct {
		name    string
		weights []int
		rules   []types.SignalRule
		want    []int
	}{
		{"pairwise", []int{4, 3}, []types.SignalRule{a, {Threshold: 3}}, []int{0, 1}},
		{"empty weights pad with zero", nil, []types.SignalRule{a, b}, []int{Bit(0, a), Bit(0, b)}},
		{"short weights pad with zero", []int{7}, []types.SignalRule{a, b}, []int{1, 1}},
		{"extra weights ignored", []int{6, 1, 99, 99}, []types.SignalRule{a, b}, []int{1, 0}},
		{"no rules", []int{1, 2}, nil, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bits(tt.weights, tt.rules)
			if len(got) != len(tt.want) {
				t.Fatalf("Bits() len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Bits()[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
