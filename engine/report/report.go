// Package report implements the JSON form of a level's test state, used by
// the eval command and the /state meta-command.
package report

import (
	"encoding/json"

	"github.com/nathoo/cheesegates/engine/circuit"
	"github.com/nathoo/cheesegates/engine/session"
)

// Report is the JSON-serializable view of one session.
type Report struct {
	Level     int      `json:"level"`
	Name      string   `json:"name,omitempty"`
	Circuit   string   `json:"circuit"`
	Session   string   `json:"session"`
	Weights   []int    `json:"weights"`
	Bits      []int    `json:"bits"`
	Displayed []string `json:"displayed"`
	Result    bool     `json:"result"`
	Tested    bool     `json:"tested"`
	Fallback  bool     `json:"fallback,omitempty"`
}

// Build captures the current state of s. weights are the slot weights the
// caller last fed in; they are reported as given.
func Build(s *session.Session, weights []int) Report {
	lvl := s.Level()
	snap := s.Cached()
	disp := s.Display()

	r := Report{
		Level:     lvl.ID,
		Name:      lvl.Name,
		Circuit:   circuit.Format(lvl.Root),
		Session:   s.ID,
		Weights:   weights,
		Bits:      snap.Bits,
		Displayed: make([]string, len(disp.Signals)),
		Result:    snap.Result,
		Tested:    snap.Tested,
		Fallback:  lvl.Fallback,
	}
	if r.Weights == nil {
		r.Weights = []int{}
	}
	for i, d := range disp.Signals {
		r.Displayed[i] = d.String()
	}
	return r
}

// Marshal serializes a report to indented JSON.
func Marshal(r Report) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Report.
func Unmarshal(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	// Ensure slices are never nil after load.
	if r.Weights == nil {
		r.Weights = []int{}
	}
	if r.Bits == nil {
		r.Bits = []int{}
	}
	if r.Displayed == nil {
		r.Displayed = []string{}
	}
	return &r, nil
}
