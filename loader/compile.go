// Package loader turns level content (Lua DSL, YAML or JSON files) into
// validated level definitions. The Lua VM is discarded after loading.
package loader

import (
	"fmt"
	"math"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/cheesegates/engine/circuit"
	"github.com/nathoo/cheesegates/engine/state"
	"github.com/nathoo/cheesegates/types"
)

// DefaultTitle names content that has no Game block.
const DefaultTitle = "Cheese Gates"

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

func luaInt(v lua.LValue) (int, bool) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, false
	}
	f := float64(n)
	if f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// thresholdField reads the threshold of a signal table. A missing field is 0.
func thresholdField(tbl *lua.LTable) (int, bool) {
	v := tbl.RawGetString("threshold")
	if v == lua.LNil {
		return 0, true
	}
	return luaInt(v)
}

// compileLevelTable converts the table passed to Level(id) into a record.
func compileLevelTable(id int, tbl *lua.LTable) (record, error) {
	r := record{
		ID:         id,
		Name:       getString(tbl, "name"),
		Background: getString(tbl, "background"),
	}

	if sigs := getTable(tbl, "signals"); sigs != nil {
		for i := 1; i <= sigs.MaxN(); i++ {
			switch v := sigs.RawGetInt(i).(type) {
			case lua.LNumber:
				n, ok := luaInt(v)
				if !ok {
					return r, fmt.Errorf("signal %d: threshold must be a whole number", i-1)
				}
				r.Signals = append(r.Signals, signalRecord{Threshold: n})
			case *lua.LTable:
				n, ok := thresholdField(v)
				if !ok {
					return r, fmt.Errorf("signal %d: threshold must be a whole number", i-1)
				}
				r.Signals = append(r.Signals, signalRecord{
					Threshold: n,
					Invert:    getBool(v, "invert", false),
				})
			default:
				return r, fmt.Errorf("signal %d: expected Threshold(n) or Empty()", i-1)
			}
		}
	}

	if v := tbl.RawGetString("circuit"); v != lua.LNil {
		node, err := luaNode(v, 0)
		if err != nil {
			return r, fmt.Errorf("circuit: %w", err)
		}
		r.Circuit = node
	}

	if mask := getTable(tbl, "display_invert"); mask != nil {
		for i := 1; i <= mask.MaxN(); i++ {
			b, ok := mask.RawGetInt(i).(lua.LBool)
			if !ok {
				return r, fmt.Errorf("display_invert[%d]: expected true or false", i-1)
			}
			r.DisplayInvert = append(r.DisplayInvert, bool(b))
		}
	}

	if stones := getTable(tbl, "stones"); stones != nil {
		for i := 1; i <= stones.MaxN(); i++ {
			w, ok := luaInt(stones.RawGetInt(i))
			if !ok {
				return r, fmt.Errorf("stones[%d]: expected a whole number", i-1)
			}
			r.Stones = append(r.Stones, w)
		}
	}

	if n, ok := tbl.RawGetString("time_limit").(lua.LNumber); ok {
		secs := float64(n)
		r.TimeLimit = &secs
	}
	return r, nil
}

// luaNode converts a gate table or a bare signal index.
func luaNode(v lua.LValue, depth int) (*nodeRecord, error) {
	if depth > circuit.MaxDepth {
		return nil, circuit.ErrTooDeep
	}
	switch val := v.(type) {
	case lua.LNumber:
		i, ok := luaInt(val)
		if !ok {
			return nil, fmt.Errorf("signal index %v is not a whole number", val)
		}
		return &nodeRecord{Ref: &i}, nil
	case *lua.LTable:
		n := &nodeRecord{Op: getString(val, "op")}
		if args := getTable(val, "args"); args != nil {
			for i := 1; i <= args.MaxN(); i++ {
				child, err := luaNode(args.RawGetInt(i), depth+1)
				if err != nil {
					return nil, err
				}
				n.Args = append(n.Args, *child)
			}
		}
		return n, nil
	default:
		return nil, fmt.Errorf("expected a signal index or a gate, got %s", v.Type())
	}
}

// toNode converts a parsed circuit into an expression tree. Operator names
// are checked here; arity and index ranges are left to circuit.Validate.
func toNode(n nodeRecord, depth int) (types.Node, error) {
	if depth > circuit.MaxDepth {
		return types.Node{}, circuit.ErrTooDeep
	}
	if n.Ref != nil {
		return types.Ref(*n.Ref), nil
	}
	op, ok := circuit.ParseOp(n.Op)
	if !ok {
		return types.Node{}, fmt.Errorf("unknown gate %q", n.Op)
	}
	out := types.Node{Op: op}
	for _, a := range n.Args {
		child, err := toNode(a, depth+1)
		if err != nil {
			return types.Node{}, err
		}
		out.Args = append(out.Args, child)
	}
	return out, nil
}

// compileGame applies defaults to the content metadata.
func compileGame(g *gameRecord) types.GameDef {
	def := types.GameDef{Title: DefaultTitle}
	if g == nil {
		return def
	}
	if g.Title != "" {
		def.Title = g.Title
	}
	def.Author = g.Author
	def.Version = g.Version
	def.Start = g.Start
	return def
}

// compileLevel applies defaults to a checked record. mask must already have
// one entry per signal.
func compileLevel(r record, root types.Node, mask []bool) types.LevelSpec {
	lvl := types.LevelSpec{
		ID:            r.ID,
		Name:          r.Name,
		Root:          root,
		DisplayInvert: mask,
		TimeLimit:     state.DefaultTimeLimit,
		Background:    r.Background,
	}
	for _, s := range r.Signals {
		lvl.Signals = append(lvl.Signals, types.SignalRule{Threshold: s.Threshold, Invert: s.Invert})
	}
	if len(r.Stones) > 0 {
		lvl.Stones = append([]int(nil), r.Stones...)
	} else {
		lvl.Stones = append([]int(nil), state.DefaultStones...)
	}
	if r.TimeLimit != nil {
		lvl.TimeLimit = time.Duration(*r.TimeLimit * float64(time.Second))
	}
	return lvl
}
