package script

import (
	"context"

	"github.com/dshills/eventcore/internal/eventcore"
	lua "github.com/yuin/gopher-lua"
)

// Component is an eventcore.Component whose handlers were registered by a
// Lua script at load time instead of being built in Go. A script calls the
// global eventcore.listener(channel, fn) / eventcore.filter(channel, fn)
// during load; each call captures a handler descriptor the component is
// then constructed with, reproducing the spirit of the original
// framework's class-time handler discovery without Go reflection.
type Component struct {
	*eventcore.Component
	state *State
}

// Load compiles source, collects every handler it registers, and returns a
// ready-to-attach Component. The script itself never sees the parent
// Manager; it only sees the channel-addressed listener/filter surface.
func Load(name, source string, opts ...eventcore.ComponentOption) (*Component, error) {
	st := NewState(0)

	var bindings []*eventcore.Handler
	st.RegisterTable("eventcore", map[string]lua.LGFunction{
		"listener": registerFn(st, &bindings, eventcore.KindListener),
		"filter":   registerFn(st, &bindings, eventcore.KindFilter),
	})

	if err := st.DoString(source); err != nil {
		st.Close()
		return nil, err
	}

	comp := eventcore.NewComponent(name, nil, bindings, opts...)
	return &Component{Component: comp, state: st}, nil
}

// Close releases the script's Lua VM. Call after Unregister.
func (c *Component) Close() {
	c.state.Close()
}

func registerFn(st *State, bindings *[]*eventcore.Handler, kind eventcore.Kind) lua.LGFunction {
	return func(L *lua.LState) int {
		channel := L.CheckString(1)
		fn := L.CheckFunction(2)

		body := func(_ context.Context, args []any, _ map[string]any) (any, error) {
			luaArgs := argsToLua(st.L, args)
			if err := st.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, luaArgs...); err != nil {
				return nil, err
			}
			ret := st.L.Get(-1)
			st.L.Pop(1)
			return ToGo(ret), nil
		}

		opts := []eventcore.Option{eventcore.OnChannels(channel), eventcore.Named("lua:" + channel)}
		var h *eventcore.Handler
		if kind == eventcore.KindFilter {
			h = eventcore.Filter(body, opts...)
		} else {
			h = eventcore.Listener(body, opts...)
		}
		*bindings = append(*bindings, h)
		return 0
	}
}
