package script

import lua "github.com/yuin/gopher-lua"

// ToGo converts a Lua value into a plain Go value (nil, bool, float64,
// string, []any or map[string]any), adapted from the teacher's
// Bridge.ToGoValue with the editor-specific struct reflection dropped:
// scripted components only ever exchange event args/kwargs, which are
// already the Go any/map[string]any shapes eventcore.Event uses.
func ToGo(lv lua.LValue) any {
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		return float64(v)
	case lua.LString:
		return string(v)
	case *lua.LTable:
		return tableToGo(v)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable) any {
	maxN := t.MaxN()
	if maxN > 0 {
		isArray := true
		t.ForEach(func(k, _ lua.LValue) {
			if _, ok := k.(lua.LNumber); !ok {
				isArray = false
			}
		})
		if isArray {
			out := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				out = append(out, ToGo(t.RawGetInt(i)))
			}
			return out
		}
	}
	out := make(map[string]any)
	t.ForEach(func(k, v lua.LValue) {
		out[k.String()] = ToGo(v)
	})
	return out
}

// ToLua converts a Go value produced by event-core code into a Lua value
// for a script-bound handler's return value or argument list.
func ToLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(x)
	case string:
		return lua.LString(x)
	case int:
		return lua.LNumber(x)
	case int64:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case []any:
		t := L.NewTable()
		for i, item := range x {
			t.RawSetInt(i+1, ToLua(L, item))
		}
		return t
	case map[string]any:
		t := L.NewTable()
		for k, item := range x {
			L.SetField(t, k, ToLua(L, item))
		}
		return t
	default:
		return lua.LNil
	}
}

// argsToLua converts an event's positional argument slice into Lua values
// for a CallByParam invocation.
func argsToLua(L *lua.LState, args []any) []lua.LValue {
	out := make([]lua.LValue, len(args))
	for i, a := range args {
		out[i] = ToLua(L, a)
	}
	return out
}
