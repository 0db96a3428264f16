package lua

import (
	"reflect"
	"testing"

	glua "github.com/yuin/gopher-lua"

	"github.com/dshills/ustr"
)

func TestBridgeToGoValue(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	tests := []struct {
		name     string
		input    glua.LValue
		expected any
	}{
		{"nil", glua.LNil, nil},
		{"true", glua.LTrue, true},
		{"false", glua.LFalse, false},
		{"integer", glua.LNumber(42), int64(42)},
		{"negative", glua.LNumber(-7), int64(-7)},
		{"float", glua.LNumber(3.14), 3.14},
		{"string", glua.LString("h\u00e9llo"), "h\u00e9llo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := bridge.ToGoValue(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ToGoValue() = %v (%T), want %v", got, got, tt.expected)
			}
		})
	}
}

func TestBridgeToGoValueTable(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	arr := L.NewTable()
	arr.Append(glua.LNumber(1))
	arr.Append(glua.LString("two"))
	if got, want := bridge.ToGoValue(arr), []any{int64(1), "two"}; !reflect.DeepEqual(got, want) {
		t.Errorf("array = %v, want %v", got, want)
	}

	m := L.NewTable()
	m.RawSetString("a", glua.LNumber(1))
	m.RawSetString("b", glua.LTrue)
	if got, want := bridge.ToGoValue(m), map[string]any{"a": int64(1), "b": true}; !reflect.DeepEqual(got, want) {
		t.Errorf("map = %v, want %v", got, want)
	}

	cyclic := L.NewTable()
	cyclic.RawSetString("self", cyclic)
	got := bridge.ToGoValue(cyclic).(map[string]any)
	if got["self"] != nil {
		t.Errorf("cycle not broken: %v", got)
	}
}

func TestBridgeStrings(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	s := ustr.New("caf\u00e9")
	lv := bridge.ToLuaValue(s)
	if _, ok := lv.(*glua.LUserData); !ok {
		t.Fatalf("ToLuaValue(ustr.String) = %T, want userdata", lv)
	}
	back, ok := bridge.ToGoValue(lv).(ustr.String)
	if !ok || !back.Equal(s) {
		t.Errorf("round trip = %v", bridge.ToGoValue(lv))
	}
}

func TestBridgeToLuaValue(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	tests := []struct {
		name  string
		input any
		want  glua.LValue
	}{
		{"nil", nil, glua.LNil},
		{"bool", true, glua.LTrue},
		{"int", 5, glua.LNumber(5)},
		{"int64", int64(6), glua.LNumber(6)},
		{"unit", uint16(0xD800), glua.LNumber(0xD800)},
		{"rune", rune(0x1F600), glua.LNumber(0x1F600)},
		{"float", 1.5, glua.LNumber(1.5)},
		{"string", "x", glua.LString("x")},
		{"other", struct{ A int }{1}, glua.LString("{1}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bridge.ToLuaValue(tt.input); got != tt.want {
				t.Errorf("ToLuaValue(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	units := bridge.ToLuaValue([]uint16{0x61, 0xD83D, 0xDE00}).(*glua.LTable)
	if units.Len() != 3 || units.RawGetInt(2) != glua.LNumber(0xD83D) {
		t.Errorf("[]uint16 table = %v", bridge.ToGoValue(units))
	}

	nested := bridge.ToLuaValue(map[string]any{"list": []string{"a", "b"}}).(*glua.LTable)
	list, ok := nested.RawGetString("list").(*glua.LTable)
	if !ok || list.Len() != 2 {
		t.Errorf("nested table = %v", bridge.ToGoValue(nested))
	}
}

func TestBridgeToUnits(t *testing.T) {
	L := glua.NewState()
	defer L.Close()
	bridge := NewBridge(L)

	tbl := L.NewTable()
	tbl.Append(glua.LNumber(0x61))
	tbl.Append(glua.LNumber(0xD83D))
	units, err := bridge.ToUnits(tbl)
	if err != nil {
		t.Fatalf("ToUnits() error = %v", err)
	}
	if !reflect.DeepEqual(units, []uint16{0x61, 0xD83D}) {
		t.Errorf("ToUnits() = %v", units)
	}

	for _, bad := range []glua.LValue{glua.LNumber(-1), glua.LNumber(0x10000), glua.LNumber(1.5), glua.LString("a")} {
		tbl := L.NewTable()
		tbl.Append(bad)
		if _, err := bridge.ToUnits(tbl); err == nil {
			t.Errorf("ToUnits(%v) should fail", bad)
		}
	}
}
