// Package script provides the optional Lua-scripted Component: a
// component whose handlers are registered dynamically when a script
// loads, the closest this module comes to the original circuits
// framework's dynamic attribute introspection (see the design notes on
// that in SPEC_FULL.md). It adapts the teacher's
// internal/plugin/lua state/bridge pair to this module's domain: instead
// of exposing an editor plugin API, the Lua global table exposes
// listener/filter registration against an eventcore.Component.
package script

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout is the timeout NewState records when given a
// non-positive one. The State stores it but does not apply it: neither
// DoString nor a script handler's call is bounded or interrupted by it.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps a gopher-lua VM restricted to a safe standard-library
// subset. It is not goroutine-safe; every call must come from the
// component's own dispatch path, matching the core's single-dispatch-
// thread concurrency model.
type State struct {
	L       *lua.LState
	timeout time.Duration
	closed  bool
}

// NewState opens a sandboxed Lua VM: base, table, string and math
// libraries only. File, os and package access are omitted outright rather
// than patched after the fact, since a scripted component never needs
// them.
func NewState(timeout time.Duration) *State {
	if timeout <= 0 {
		timeout = DefaultExecutionTimeout
	}
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	// dofile/loadfile/load would let a script escape the restricted
	// library set by reading arbitrary files or compiling new chunks.
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return &State{L: L, timeout: timeout}
}

// Close releases the underlying VM. Safe to call more than once.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.L.Close()
}

// DoString compiles and runs code, recovering from any panic gopher-lua
// itself raises (stack overflow, internal assertion) and turning it into
// an error instead of crashing the host process.
func (s *State) DoString(code string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script: lua runtime panic: %v", r)
		}
	}()
	return s.L.DoString(code)
}

// RegisterFunc installs fn as a global callable under name.
func (s *State) RegisterFunc(name string, fn lua.LGFunction) {
	s.L.SetGlobal(name, s.L.NewFunction(fn))
}

// RegisterTable installs a pre-built table as a global under name, the
// shape the "eventcore" API namespace uses (eventcore.listener(...), etc).
func (s *State) RegisterTable(name string, fields map[string]lua.LGFunction) *lua.LTable {
	t := s.L.NewTable()
	for field, fn := range fields {
		s.L.SetField(t, field, s.L.NewFunction(fn))
	}
	s.L.SetGlobal(name, t)
	return t
}
