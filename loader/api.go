package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerSignalHelpers(L)
	registerGateHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		if coll.game != nil {
			L.RaiseError("Game defined more than once")
		}
		coll.game = &gameRecord{
			Title:   getString(tbl, "title"),
			Author:  getString(tbl, "author"),
			Version: getString(tbl, "version"),
			Start:   getInt(tbl, "start"),
		}
		return 0
	}))

	// Level(1) { ... } is curried: Level(id) returns a function that takes a table.
	L.SetGlobal("Level", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			r, err := compileLevelTable(id, tbl)
			if err != nil {
				L.RaiseError("Level(%d): %s", id, err.Error())
			}
			coll.add(r)
			return 0
		}))
		return 1
	}))
}

func registerSignalHelpers(L *lua.LState) {
	// Threshold(n): reads 1 when the slot weighs at least n.
	L.SetGlobal("Threshold", L.NewFunction(func(L *lua.LState) int {
		n, ok := luaInt(L.CheckNumber(1))
		if !ok {
			L.ArgError(1, "threshold must be a whole number")
		}
		tbl := L.NewTable()
		tbl.RawSetString("threshold", lua.LNumber(n))
		L.Push(tbl)
		return 1
	}))

	// Empty() or Empty(n): reads 1 only when the slot is empty. The optional
	// threshold is kept for display but never used.
	L.SetGlobal("Empty", L.NewFunction(func(L *lua.LState) int {
		n, ok := luaInt(L.OptNumber(1, 0))
		if !ok {
			L.ArgError(1, "threshold must be a whole number")
		}
		tbl := L.NewTable()
		tbl.RawSetString("threshold", lua.LNumber(n))
		tbl.RawSetString("invert", lua.LTrue)
		L.Push(tbl)
		return 1
	}))
}

func registerGateHelpers(L *lua.LState) {
	for _, op := range []string{"AND", "OR", "NOT"} {
		name := op
		// AND(a, b, ...) builds { op = "AND", args = { a, b, ... } }.
		L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
			args := L.NewTable()
			for i := 1; i <= L.GetTop(); i++ {
				v := L.Get(i)
				switch v.(type) {
				case lua.LNumber, *lua.LTable:
				default:
					L.ArgError(i, "gate input must be a signal index or a gate")
				}
				args.Append(v)
			}
			tbl := L.NewTable()
			tbl.RawSetString("op", lua.LString(name))
			tbl.RawSetString("args", args)
			L.Push(tbl)
			return 1
		}))
	}
}
