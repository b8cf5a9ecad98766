package tui

import "strings"

// History keeps the most recent playground commands, newest last, for
// Up/Down recall and Tab completion. A repeated command moves to the end
// instead of being stored twice.
type History struct {
	entries []string
	limit   int
	pos     int // len(entries) when not browsing
}

// NewHistory creates a history that keeps at most limit commands.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Push records cmd as the newest entry and stops browsing.
func (h *History) Push(cmd string) {
	for i, e := range h.entries {
		if e == cmd {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)
			break
		}
	}
	h.entries = append(h.entries, cmd)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = h.entries[over:]
	}
	h.pos = len(h.entries)
}

// Prev steps to the next older entry, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next steps to the next newer entry. Stepping past the newest ends
// browsing and reports false so the caller can clear the input.
func (h *History) Next() (string, bool) {
	if h.pos >= len(h.entries) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.entries) {
		return "", false
	}
	return h.entries[h.pos], true
}

// ResetCursor ends browsing.
func (h *History) ResetCursor() {
	h.pos = len(h.entries)
}

// Complete returns the newest entry that extends prefix.
func (h *History) Complete(prefix string) (string, bool) {
	if prefix == "" {
		return "", false
	}
	for i := len(h.entries) - 1; i >= 0; i-- {
		if e := h.entries[i]; len(e) > len(prefix) && strings.HasPrefix(e, prefix) {
			return e, true
		}
	}
	return "", false
}
