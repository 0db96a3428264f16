package lua

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/ustr"
)

// Bridge converts values between Go and Lua.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a new Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value to a Go value. ustr strings convert to
// ustr.String; tables become slices or maps.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return b.toGoValueWithVisited(lv, make(map[*lua.LTable]bool))
}

func (b *Bridge) toGoValueWithVisited(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil // circular
		}
		visited[v] = true
		return b.tableToGoWithVisited(v, visited)
	case *lua.LUserData:
		if s, ok := v.Value.(*ustr.String); ok {
			return *s
		}
		return v.Value
	default:
		return nil
	}
}

// tableToGoWithVisited converts a sequence to a slice and anything else
// to a map.
func (b *Bridge) tableToGoWithVisited(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) {
		count++
	})

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = b.toGoValueWithVisited(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprintf("%v", float64(kv))
		default:
			key = k.String()
		}
		m[key] = b.toGoValueWithVisited(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case uint16:
		return lua.LNumber(val)
	case rune:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case ustr.String:
		return newStringValue(b.L, val)
	case []any:
		t := b.L.NewTable()
		for _, item := range val {
			t.Append(b.ToLuaValue(item))
		}
		return t
	case []string:
		t := b.L.NewTable()
		for _, item := range val {
			t.Append(lua.LString(item))
		}
		return t
	case []rune:
		t := b.L.NewTable()
		for _, item := range val {
			t.Append(lua.LNumber(item))
		}
		return t
	case []uint16:
		t := b.L.NewTable()
		for _, item := range val {
			t.Append(lua.LNumber(item))
		}
		return t
	case map[string]any:
		t := b.L.NewTable()
		for k, item := range val {
			t.RawSetString(k, b.ToLuaValue(item))
		}
		return t
	case lua.LValue:
		return val
	default:
		return lua.LString(fmt.Sprint(v))
	}
}

// ToUnits converts a sequence of numbers to UTF-16 code units.
func (b *Bridge) ToUnits(t *lua.LTable) ([]uint16, error) {
	n := t.Len()
	units := make([]uint16, n)
	for i := 1; i <= n; i++ {
		num, ok := t.RawGetInt(i).(lua.LNumber)
		if !ok || num < 0 || num > 0xFFFF || float64(num) != math.Trunc(float64(num)) {
			return nil, fmt.Errorf("element %d is not a UTF-16 code unit", i)
		}
		units[i-1] = uint16(num)
	}
	return units, nil
}
