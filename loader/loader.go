package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/cheesegates/content"
	"github.com/nathoo/cheesegates/engine/state"
)

// Options controls how strictly level content is checked.
type Options struct {
	// Permissive replaces broken levels with the fallback level and
	// normalizes display masks of the wrong length, reporting both as
	// warnings instead of errors.
	Permissive bool
}

// ErrNoContent is returned when a directory holds no level files.
var ErrNoContent = errors.New("no level files found")

// Load reads every .lua, .yaml, .yml and .json file in dir, compiles the
// levels into definitions and validates them. Warnings are logged and
// returned alongside the definitions.
func Load(dir string, opts Options) (*state.Defs, []string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("reading level directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("reading level directory %s: not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), opts)
}

// LoadBuiltin loads the levels shipped with the binary.
func LoadBuiltin(opts Options) (*state.Defs, []string, error) {
	return LoadFS(content.FS, opts)
}

// LoadFS is Load over an arbitrary file system rooted at the level directory.
func LoadFS(fsys fs.FS, opts Options) (*state.Defs, []string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, nil, fmt.Errorf("listing level files: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && isLevelFile(e.Name()) {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, nil, ErrNoContent
	}
	files = sortedFiles(files)

	coll := &collector{}
	var luaFiles []string
	for _, f := range files {
		if path.Ext(f) == ".lua" {
			luaFiles = append(luaFiles, f)
			continue
		}
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", f, err)
		}
		if err := decodeRecords(coll, f, data); err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", f, err)
		}
	}
	if len(luaFiles) > 0 {
		if err := runLua(coll, fsys, luaFiles); err != nil {
			return nil, nil, err
		}
	}

	defs, warnings, err := build(coll, opts)
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	if err != nil {
		return nil, warnings, err
	}
	log.Debug().Int("levels", len(defs.Levels)).Str("title", defs.Game.Title).Msg("levels loaded")
	return defs, warnings, nil
}

// runLua executes the Lua files in one sandboxed VM, which is discarded
// afterwards.
func runLua(coll *collector, fsys fs.FS, files []string) error {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)
	registerAPI(L, coll)

	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("reading %s: %w", f, err)
		}
		coll.source = f
		fn, err := L.Load(strings.NewReader(string(data)), f)
		if err != nil {
			return fmt.Errorf("executing %s: %w", f, err)
		}
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return fmt.Errorf("executing %s: %w", f, err)
		}
	}
	return nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

func isLevelFile(name string) bool {
	switch path.Ext(name) {
	case ".lua", ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// sortedFiles returns files with game.lua first, then alphabetical.
func sortedFiles(files []string) []string {
	var result []string
	var rest []string
	for _, f := range files {
		if f == "game.lua" {
			result = append(result, f)
		} else {
			rest = append(rest, f)
		}
	}
	sort.Strings(rest)
	return append(result, rest...)
}
