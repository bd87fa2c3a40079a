// Package scripting bridges actor steering decisions out to Lua so behavior
// can be tuned without recompiling. The Go side packs a context table, the
// script returns a command table, and every failure path falls back to a
// safe default.
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM. Single-goroutine access only
// (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file from the given
// directory. A missing directory is not an error; the engine then answers
// every call with its fallback.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// SteerContext holds pre-packed data for one actor's steering decision.
type SteerContext struct {
	Archetype string
	Tick      int
	X, Y      float64
	VX, VY    float64
	Speed     float64 // archetype speed cap, units/second
	Neighbors int     // perceived entity count from the last visibility scan
}

// SteerCommand is the velocity the script wants, before the speed clamp.
type SteerCommand struct {
	VX float64
	VY float64
}

// Steer calls the Lua steer(ctx) function. The second return is false when
// no script decision applies (function missing, call error, bad shape) and
// the caller should keep the actor's current velocity.
func (e *Engine) Steer(ctx SteerContext) (SteerCommand, bool) {
	fn := e.vm.GetGlobal("steer")
	if fn == lua.LNil {
		return SteerCommand{}, false
	}

	t := e.vm.NewTable()
	t.RawSetString("archetype", lua.LString(ctx.Archetype))
	t.RawSetString("tick", lua.LNumber(ctx.Tick))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("vx", lua.LNumber(ctx.VX))
	t.RawSetString("vy", lua.LNumber(ctx.VY))
	t.RawSetString("speed", lua.LNumber(ctx.Speed))
	t.RawSetString("neighbors", lua.LNumber(ctx.Neighbors))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua steer error", zap.Error(err), zap.String("archetype", ctx.Archetype))
		return SteerCommand{}, false
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		return SteerCommand{}, false
	}

	return SteerCommand{
		VX: lNum(rt, "vx"),
		VY: lNum(rt, "vy"),
	}, true
}

// lNum reads a float field from a Lua table.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
