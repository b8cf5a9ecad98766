// Package signal converts aggregate slot weights into circuit input bits.
package signal

import "github.com/nathoo/cheesegates/types"

// Bit converts the aggregate weight of one slot to 0 or 1 according to rule.
// Weights are sums of placed stones and therefore never negative.
func Bit(weight int, rule types.SignalRule) int {
	if rule.Invert {
		if weight == 0 {
			return 1
		}
		return 0
	}
	if weight >= rule.Threshold {
		return 1
	}
	return 0
}

// Bits applies Bit pairwise. Missing weights count as empty slots and extra
// weights are ignored, so the result always has len(rules) entries.
func Bits(weights []int, rules []types.SignalRule) []int {
	bits := make([]int, len(rules))
	for i, rule := range rules {
		w := 0
		if i < len(weights) {
			w = weights[i]
		}
		bits[i] = Bit(w, rule)
	}
	return bits
}
