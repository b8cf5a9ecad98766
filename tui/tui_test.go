package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nathoo/cheesegates/engine"
	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/types"
)

func TestLevelDisplayName(t *testing.T) {
	tests := []struct {
		lvl  types.LevelSpec
		want string
	}{
		{types.LevelSpec{ID: 3, Name: "Light Touch"}, "L3 Light Touch"},
		{types.LevelSpec{ID: 7}, "L7"},
		{types.LevelSpec{ID: 2, Name: "ignored", Fallback: true}, "L2 (fallback)"},
	}
	for _, tt := range tests {
		got := levelDisplayName(&tt.lvl)
		if got != tt.want {
			t.Errorf("levelDisplayName(%d) = %q, want %q", tt.lvl.ID, got, tt.want)
		}
	}
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{60 * time.Second, "1:00"},
		{59*time.Second + 600*time.Millisecond, "1:00"},
		{9 * time.Second, "0:09"},
		{125 * time.Second, "2:05"},
		{0, "0:00"},
		{-5 * time.Second, "0:00"},
	}
	for _, tt := range tests {
		got := formatRemaining(tt.d)
		if got != tt.want {
			t.Errorf("formatRemaining(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line string
		want lineKind
	}{
		{"Level 1: First Light", kindTitle},
		{"Circuit: OR(0, 1)", kindCircuit},
		{"Tray: 1(1) 2(4).", kindTray},
		{"Signals: 0 1  Gate: 1", kindReadout},
		{"Gate: ?", kindReadout},
		{"The gate opens. The cheese is yours to take.", kindReward},
		{"[Report saved to level-1.]", kindSystem},
		{"[trace] Events: 2", kindTrace},
		{"No such stone: 9.", kindError},
		{"Slot is full: slot 0.", kindError},
		{"There is no level 9.", kindError},
		{"I don't understand that. Type \"help\" for commands.", kindError},
		{"You step onto the test pad.", kindText},
		{"", kindText},
	}
	for _, tt := range tests {
		got := classifyLine(tt.line)
		if got != tt.want {
			t.Errorf("classifyLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short", 80, "short"},
		{"hello world", 5, "hello\nworld"},
		{"The gate slams shut over the cheese and stays shut.", 30,
			"The gate slams shut over the\ncheese and stays shut."},
		{"", 80, ""},
		{"one", 80, "one"},
		{"a b c d e", 3, "a b\nc d\ne"},
		{"  slot 0 [1]: 1 (weight 1)", 12, "  slot 0\n[1]: 1\n(weight 1)"},
	}
	for _, tt := range tests {
		got := wordWrap(tt.text, tt.width)
		if got != tt.want {
			t.Errorf("wordWrap(%q, %d) =\n  %q\nwant:\n  %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestHistory_PushAndPrev(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("place 1 0")
	h.Push("test")

	for _, want := range []string{"test", "place 1 0", "look", "look"} {
		prev, ok := h.Prev()
		if !ok || prev != want {
			t.Errorf("expected %q, got %q (ok=%v)", want, prev, ok)
		}
	}
}

func TestHistory_Next(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("test")

	h.Prev() // "test"
	h.Prev() // "look"

	next, ok := h.Next()
	if !ok || next != "test" {
		t.Errorf("expected 'test', got %q (ok=%v)", next, ok)
	}

	_, ok = h.Next()
	if ok {
		t.Error("expected false when past newest entry")
	}
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory(5)
	if _, ok := h.Prev(); ok {
		t.Error("expected false on empty history")
	}
	if _, ok := h.Next(); ok {
		t.Error("expected false on empty history")
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c") // "a" evicted

	for _, want := range []string{"c", "b", "b"} {
		prev, _ := h.Prev()
		if prev != want {
			t.Errorf("expected %q, got %q", want, prev)
		}
	}
}

func TestHistory_DuplicateMovesToEnd(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("test")
	h.Push("look")

	if len(h.entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(h.entries))
	}
	prev, _ := h.Prev()
	if prev != "look" {
		t.Errorf("expected 'look' as newest, got %q", prev)
	}
}

func TestHistory_ResetCursor(t *testing.T) {
	h := NewHistory(5)
	h.Push("look")
	h.Push("test")

	h.Prev() // "test"
	h.Prev() // "look"
	h.ResetCursor()

	prev, ok := h.Prev()
	if !ok || prev != "test" {
		t.Errorf("expected 'test' after reset, got %q", prev)
	}
}

func TestHistory_Complete(t *testing.T) {
	h := NewHistory(5)
	h.Push("place 1 0")
	h.Push("place 2 1")
	h.Push("look")

	got, ok := h.Complete("pla")
	if !ok || got != "place 2 1" {
		t.Errorf("Complete(pla) = %q, %v", got, ok)
	}
	if _, ok := h.Complete("look"); ok {
		t.Error("an exact match is not a completion")
	}
	if _, ok := h.Complete(""); ok {
		t.Error("empty prefix should not complete")
	}
	if _, ok := h.Complete("zzz"); ok {
		t.Error("unexpected completion")
	}
}

// testDefs returns a single OR level for TUI testing.
func testDefs() *state.Defs {
	return &state.Defs{
		Game: types.GameDef{Title: "Test Gates", Version: "1.0", Start: 1},
		Levels: map[int]types.LevelSpec{
			1: {
				ID:            1,
				Name:          "first",
				Signals:       []types.SignalRule{{Threshold: 6}, {Threshold: 3}},
				Root:          types.Or(types.Ref(0), types.Ref(1)),
				DisplayInvert: []bool{false, false},
				Stones:        []int{1, 4, 2, 1},
				TimeLimit:     time.Minute,
			},
		},
	}
}

// testModel builds a model on level 1 with a clock the test controls.
func testModel(t *testing.T) (*Model, *time.Time) {
	t.Helper()
	defs := testDefs()
	eng := engine.New(defs)
	if _, err := eng.LoadLevel(1); err != nil {
		t.Fatalf("LoadLevel: %v", err)
	}
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := New(eng, defs)
	m.now = func() time.Time { return clock }
	m.timed = nil
	m.syncClock()
	return &m, &clock
}

func TestRemaining_CountsDown(t *testing.T) {
	m, clock := testModel(t)
	if got := formatRemaining(m.remaining()); got != "1:00" {
		t.Errorf("remaining = %s, want 1:00", got)
	}
	*clock = clock.Add(15 * time.Second)
	if got := formatRemaining(m.remaining()); got != "0:45" {
		t.Errorf("remaining = %s, want 0:45", got)
	}
}

func TestRemaining_NoLevel(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)
	if m.remaining() != 0 {
		t.Errorf("expected no countdown without a level, got %v", m.remaining())
	}
}

func TestStatusBar(t *testing.T) {
	m, _ := testModel(t)
	m.width = 120

	bar := m.renderStatusBar()
	for _, want := range []string{"L1 first", "In: ? ?", "Gate: ?", "OR(0, 1)", "1:00"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q: %s", want, bar)
		}
	}

	m.engine.Step("place 2 1")
	m.engine.Step("test")
	bar = m.renderStatusBar()
	if !strings.Contains(bar, "In: 0 1") || !strings.Contains(bar, "Gate: 1") {
		t.Errorf("expected tested readouts, got %s", bar)
	}
}

func TestStatusBar_NoLevel(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)
	m.width = 40
	if bar := m.renderStatusBar(); !strings.Contains(bar, "No level loaded") {
		t.Errorf("unexpected status bar: %s", bar)
	}
}

func TestCheckTimeout_ResetsLevel(t *testing.T) {
	m, clock := testModel(t)
	m.engine.Step("place 1 0")
	before := m.engine.Session

	*clock = clock.Add(30 * time.Second)
	after := m.checkTimeout()
	if after.engine.Session != before {
		t.Fatal("level reset before the time ran out")
	}

	*clock = clock.Add(31 * time.Second)
	after = m.checkTimeout()
	if after.engine.Session == before {
		t.Fatal("expected a fresh session after the timeout")
	}
	if len(after.engine.Board.TrayStones()) != 4 {
		t.Errorf("expected every stone back in the tray, got %v", after.engine.Board.TrayStones())
	}
	if formatRemaining(after.remaining()) != "1:00" {
		t.Errorf("expected the clock to restart, got %v", after.remaining())
	}

	var found bool
	for _, rl := range after.rawLines {
		if strings.Contains(rl.text, "Time is up") {
			found = true
		}
	}
	if !found {
		t.Error("expected a timeout message")
	}
}

func TestCheckTimeout_OpenGateStopsClock(t *testing.T) {
	m, clock := testModel(t)
	m.engine.Step("place 2 1")
	m.engine.Step("test")
	before := m.engine.Session

	*clock = clock.Add(2 * time.Minute)
	after := m.checkTimeout()
	if after.engine.Session != before {
		t.Error("an open gate should not be reset")
	}
}

func TestHandleEnter_LevelSwitchRestartsClock(t *testing.T) {
	m, clock := testModel(t)
	*clock = clock.Add(20 * time.Second)

	m.input.SetValue("level 1")
	updated, _ := m.handleEnter()
	got := updated.(Model)
	if formatRemaining(got.remaining()) != "1:00" {
		t.Errorf("expected a fresh countdown, got %v", got.remaining())
	}
}

func TestHandleMeta_Quit(t *testing.T) {
	m, _ := testModel(t)

	if _, quit := m.handleMeta("/quit"); !quit {
		t.Error("expected quit=true for /quit")
	}
	if _, quit := m.handleMeta("/exit"); !quit {
		t.Error("expected quit=true for /exit")
	}
}

func TestHandleMeta_Save(t *testing.T) {
	m, _ := testModel(t)
	m.saveDir = t.TempDir()

	output, quit := m.handleMeta("/save")
	if quit {
		t.Error("save should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Report saved to level-1") {
		t.Fatalf("expected save confirmation, got %v", output)
	}

	data, err := os.ReadFile(filepath.Join(m.saveDir, "level-1.json"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if decoded["level"] != float64(1) {
		t.Errorf("level = %v, want 1", decoded["level"])
	}
}

func TestHandleMeta_SaveWithoutLevel(t *testing.T) {
	defs := testDefs()
	m := New(engine.New(defs), defs)
	m.saveDir = t.TempDir()

	output, _ := m.handleMeta("/save x")
	if len(output) == 0 || !strings.Contains(output[0], "Save failed") {
		t.Errorf("expected save failure, got %v", output)
	}
}

func TestHandleMeta_Help(t *testing.T) {
	m, _ := testModel(t)

	output, quit := m.handleMeta("/help")
	if quit {
		t.Error("help should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, expected := range []string{"/frames", "/save", "/state", "/quit", "place", "test", "again"} {
		if !strings.Contains(joined, expected) {
			t.Errorf("expected %q in help output", expected)
		}
	}
}

func TestHandleMeta_Trace(t *testing.T) {
	m, _ := testModel(t)

	output, _ := m.handleMeta("/trace")
	if !m.trace {
		t.Error("expected trace to be enabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "enabled") {
		t.Errorf("expected enabled message, got %v", output)
	}

	output, _ = m.handleMeta("/trace")
	if m.trace {
		t.Error("expected trace to be disabled")
	}
	if len(output) == 0 || !strings.Contains(output[0], "disabled") {
		t.Errorf("expected disabled message, got %v", output)
	}
}

func TestHandleMeta_Unknown(t *testing.T) {
	m, _ := testModel(t)

	output, quit := m.handleMeta("/bogus")
	if quit {
		t.Error("unknown command should not quit")
	}
	if len(output) == 0 || !strings.Contains(output[0], "Unknown command") {
		t.Errorf("expected unknown command message, got %v", output)
	}
}

func TestHandleMeta_State(t *testing.T) {
	m, _ := testModel(t)

	output, quit := m.handleMeta("/state")
	if quit {
		t.Error("state should not quit")
	}

	joined := strings.Join(output, "\n")
	for _, want := range []string{`"level": 1`, `"tested": false`, `"circuit": "OR(0, 1)"`} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %s in state output:\n%s", want, joined)
		}
	}
}

func TestFormatTrace(t *testing.T) {
	m, _ := testModel(t)
	m.engine.Step("place 2 1")
	result := m.engine.Step("test")

	lines := m.formatTrace(result)
	if len(lines) == 0 || lines[0] != "[trace] Events: 2" {
		t.Fatalf("unexpected trace: %v", lines)
	}
	if !strings.Contains(strings.Join(lines, "\n"), "reward_unlocked") {
		t.Errorf("expected reward event in trace: %v", lines)
	}
}

func TestHandleMeta_Frames(t *testing.T) {
	m, _ := testModel(t)

	output, quit := m.handleMeta("/frames 0110")
	if quit {
		t.Error("/frames should not quit")
	}
	joined := strings.Join(output, "\n")
	if !strings.Contains(joined, "Frame 2: the pad fires.") {
		t.Errorf("expected the pad to fire on frame 2, got:\n%s", joined)
	}

	output, _ = m.handleMeta("/frames 01x")
	if len(output) != 1 || !strings.HasPrefix(output[0], "Frames failed:") {
		t.Errorf("expected a frames error, got %v", output)
	}
}

func TestHandleEnter_PromptShowsPad(t *testing.T) {
	m, _ := testModel(t)
	if m.input.Prompt != "> " {
		t.Fatalf("initial prompt = %q", m.input.Prompt)
	}

	m.input.SetValue("test")
	updated, _ := m.handleEnter()
	got := updated.(Model)
	if got.input.Prompt != "[pad] > " {
		t.Errorf("prompt on the pad = %q, want [pad] > ", got.input.Prompt)
	}

	got.input.SetValue("leave")
	updated, _ = got.handleEnter()
	got = updated.(Model)
	if got.input.Prompt != "> " {
		t.Errorf("prompt off the pad = %q, want > ", got.input.Prompt)
	}

	got.input.SetValue("/frames 1")
	updated, _ = got.handleEnter()
	got = updated.(Model)
	if got.input.Prompt != "[pad] > " {
		t.Errorf("prompt after /frames 1 = %q, want [pad] > ", got.input.Prompt)
	}
}
