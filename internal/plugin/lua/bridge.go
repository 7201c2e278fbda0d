package lua

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/renato0307/snip/internal/args"
)

// argsToLua converts callback arguments into Lua call parameters: Integer
// becomes a number, IntegerSet an array table and String a string.
func argsToLua(L *lua.LState, list args.List) []lua.LValue {
	out := make([]lua.LValue, len(list))
	for i, v := range list {
		switch v := v.(type) {
		case args.Integer:
			out[i] = lua.LNumber(v)
		case args.IntegerSet:
			t := L.CreateTable(len(v), 0)
			for _, n := range v {
				t.Append(lua.LNumber(n))
			}
			out[i] = t
		default:
			out[i] = lua.LString(v.Text())
		}
	}
	return out
}

// toGo converts a Lua value into plain Go values. Tables with keys 1..n
// become []any, any other table becomes map[string]any. Functions and
// cyclic references convert to nil.
func toGo(lv lua.LValue) any {
	return toGoVisited(lv, make(map[*lua.LTable]bool))
}

func toGoVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
			return int(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGoVisited(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		default:
			key = kv.String()
		}
		m[key] = toGoVisited(v, visited)
	})
	return m
}

// toLua converts a Go value into a Lua value. Types without a Lua
// counterpart are wrapped in userdata.
func toLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []int:
		t := L.CreateTable(len(val), 0)
		for _, n := range val {
			t.Append(lua.LNumber(n))
		}
		return t
	case []string:
		t := L.CreateTable(len(val), 0)
		for _, s := range val {
			t.Append(lua.LString(s))
		}
		return t
	case []any:
		t := L.CreateTable(len(val), 0)
		for _, item := range val {
			t.Append(toLua(L, item))
		}
		return t
	case map[string]any:
		t := L.CreateTable(0, len(val))
		for k, item := range val {
			t.RawSetString(k, toLua(L, item))
		}
		return t
	default:
		ud := L.NewUserData()
		ud.Value = val
		return ud
	}
}
