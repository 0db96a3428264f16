package lua

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/ustr"
)

// lq quotes s as a Lua string literal. Lua 5.1 has no \u escapes, so
// non-ASCII bytes are written as decimal escapes.
func lq(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"' || c == '\\':
			b.WriteByte('\\')
			b.WriteByte(c)
		case c < 0x20 || c >= 0x7F:
			fmt.Fprintf(&b, "\\%03d", c)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// eval runs code that assigns the global result and returns it.
func eval(t *testing.T, code string) any {
	t.Helper()
	state := NewState()
	t.Cleanup(func() { state.Close() })
	require.NoError(t, state.DoString(context.Background(), code))
	return NewBridge(state.L).ToGoValue(state.L.GetGlobal("result"))
}

func TestModuleCounts(t *testing.T) {
	tests := []struct {
		name string
		code string
		want any
	}{
		{"characters", `result = ustr.new(` + lq("e\u0301t\u00e9") + `):count()`, int64(3)},
		{"len", `result = #ustr.new(` + lq("\U0001F1FA\U0001F1F8!") + `)`, int64(2)},
		{"utf8", `result = ustr.new(` + lq("\u00e9") + `):utf8count()`, int64(2)},
		{"utf16", `result = ustr.new(` + lq("\U0001F600") + `):utf16count()`, int64(2)},
		{"ascii", `result = ustr.new("abc"):is_ascii()`, true},
		{"nfc", `result = ustr.new(` + lq("e\u0301") + `):is_nfc()`, false},
		{"kind", `result = ustr.new(string.rep("x", 40)):kind()`, "native"},
		{"empty", `result = ustr.new():count()`, int64(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, tt.code))
		})
	}
}

func TestModuleViews(t *testing.T) {
	got := eval(t, `result = ustr.new(`+lq("a\U0001F600")+`):scalars()`)
	assert.Equal(t, []any{int64('a'), int64(0x1F600)}, got)

	got = eval(t, `result = ustr.new(`+lq("a\U0001F600")+`):utf16()`)
	assert.Equal(t, []any{int64('a'), int64(0xD83D), int64(0xDE00)}, got)

	got = eval(t, `result = ustr.new(`+lq("e\u0301x\r\n")+`):characters()`)
	assert.Equal(t, []any{"e\u0301", "x", "\r\n"}, got)
}

func TestModuleTransforms(t *testing.T) {
	assert.Equal(t, "STRASSE", eval(t, `result = tostring(ustr.new(`+lq("stra\u00dfe")+`):upper())`))
	assert.Equal(t, "\u00e9t\u00e9", eval(t, `result = tostring(ustr.new(`+lq("\u00c9T\u00c9")+`):lower())`))
	assert.Equal(t, "\u00e9", eval(t, `result = tostring(ustr.new(`+lq("e\u0301")+`):nfc())`))
}

func TestModuleComparison(t *testing.T) {
	tests := []struct {
		name string
		code string
		want any
	}{
		{"equals", `result = ustr.new(` + lq("\u00e9") + `):equals(` + lq("e\u0301") + `)`, true},
		{"eq metamethod", `result = ustr.new(` + lq("\u00e9") + `) == ustr.new(` + lq("e\u0301") + `)`, true},
		{"raw strings differ", `result = ` + lq("\u00e9") + ` == ` + lq("e\u0301"), false},
		{"compare", `result = ustr.new("a"):compare("b")`, int64(-1)},
		{"compare equal", `result = ustr.new(` + lq("\u00c5") + `):compare(` + lq("A\u030a") + `)`, int64(0)},
		{"lt", `result = ustr.new("apple") < ustr.new("pear")`, true},
		{"le", `result = ustr.new(` + lq("\u00e9") + `) <= ustr.new(` + lq("e\u0301") + `)`, true},
		{"hash", `result = ustr.new(` + lq("\u00e9") + `):hash() == ustr.new(` + lq("e\u0301") + `):hash()`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, eval(t, tt.code))
		})
	}

	want := fmt.Sprintf("%016x", ustr.New("x").Hash())
	assert.Equal(t, want, eval(t, `result = ustr.new("x"):hash()`))
}

func TestModuleConcatAndAppend(t *testing.T) {
	assert.Equal(t, "abc", eval(t, `result = tostring(ustr.concat("a", ustr.new("b"), "c"))`))
	assert.Equal(t, "ab", eval(t, `result = tostring(ustr.new("a") .. "b")`))
	assert.Equal(t, "ab", eval(t, `result = tostring("a" .. ustr.new("b"))`))

	got := eval(t, `
		local s = ustr.new("x")
		local t = s
		s:append("y", ustr.new("z"))
		result = {tostring(s), tostring(t), s:append("!") == s}
	`)
	// Userdata is shared by reference in Lua.
	assert.Equal(t, []any{"xyz", "xyz", true}, got)

	got = eval(t, `
		local a = ustr.new("base")
		local b = a .. ""
		b:append("!")
		result = {tostring(a), tostring(b)}
	`)
	assert.Equal(t, []any{"base", "base!"}, got)
}

func TestModuleFromUTF16(t *testing.T) {
	assert.Equal(t, "a\U0001F600", eval(t, `result = tostring(ustr.from_utf16({0x61, 0xD83D, 0xDE00}))`))

	got := eval(t, `
		local s, err = ustr.from_utf16({0x61, 0xD800})
		result = {s == nil, err}
	`).([]any)
	assert.Equal(t, true, got[0])
	assert.Contains(t, got[1], "surrogate")

	got = eval(t, `
		local s, err = ustr.from_utf16({-1})
		result = {s == nil, err}
	`).([]any)
	assert.Equal(t, true, got[0])
	assert.Contains(t, got[1], "not a UTF-16 code unit")
}

func TestModuleForeign(t *testing.T) {
	got := eval(t, `
		local s = ustr.foreign({0x61, 0xD800, 0x62})
		result = {s:kind(), tostring(s), s:utf16count(), s:utf8count(), s == ustr.new("a" .. `+lq("\ufffd")+` .. "b"), s:hash() == ustr.new("a" .. `+lq("\ufffd")+` .. "b"):hash()}
	`).([]any)
	assert.Equal(t, []any{"foreign", "a\ufffdb", int64(3), int64(5), true, true}, got)

	got = eval(t, `
		local s = ustr.foreign(`+lq("e\u0301")+`)
		result = {s:kind(), s:count(), s == ustr.new(`+lq("\u00e9")+`)}
	`).([]any)
	assert.Equal(t, []any{"foreign", int64(1), true}, got)

	state := NewState()
	defer state.Close()
	assert.Error(t, state.DoString(context.Background(), `ustr.foreign({"x"})`))
}

func TestModuleRequire(t *testing.T) {
	assert.Equal(t, true, eval(t, `result = require("ustr") == ustr`))
}

func TestModuleArgumentErrors(t *testing.T) {
	state := NewState()
	defer state.Close()

	err := state.DoString(context.Background(), `ustr.new({})`)
	assert.Error(t, err)
	err = state.DoString(context.Background(), `ustr.new("a").count({})`)
	assert.Error(t, err)
}
