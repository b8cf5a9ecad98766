package session

// Readout is what the UI shows for one signal or for the circuit result.
type Readout int

const (
	Neutral Readout = iota // not tested yet
	Low
	High
)

// String returns the glyph used by the text front ends.
func (r Readout) String() string {
	switch r {
	case Low:
		return "0"
	case High:
		return "1"
	default:
		return "?"
	}
}

// Display is the player-facing view of a session.
type Display struct {
	Signals []Readout
	Result  Readout
}

// Display applies the display policy. Before the first test every readout
// is Neutral so the zeroed cache never shows as a failed attempt. After it,
// each signal is flipped by the level's display mask; the result is never
// flipped.
func (s *Session) Display() Display {
	d := Display{Signals: make([]Readout, len(s.lastBits))}
	if !s.tested {
		return d
	}
	for i, bit := range s.lastBits {
		if i < len(s.level.DisplayInvert) && s.level.DisplayInvert[i] {
			bit = 1 - bit
		}
		d.Signals[i] = readout(bit == 1)
	}
	d.Result = readout(s.lastResult)
	return d
}

func readout(v bool) Readout {
	if v {
		return High
	}
	return Low
}
