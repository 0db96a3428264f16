package lua

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/ustr"
)

// ModuleName is the name scripts require.
const ModuleName = "ustr"

// stringTypeName names the metatable of ustr strings.
const stringTypeName = "ustr.String"

// OpenModule preloads the ustr module, sets it as a global and registers
// the string metatable. Every bridged function is guarded by the sandbox.
func OpenModule(L *lua.LState, sb *Sandbox) {
	guard := func(fns map[string]lua.LGFunction) map[string]lua.LGFunction {
		out := make(map[string]lua.LGFunction, len(fns))
		for name, fn := range fns {
			out[name] = sb.Guard(fn)
		}
		return out
	}

	mt := L.NewTypeMetatable(stringTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), guard(stringMethods)))
	L.SetFuncs(mt, guard(stringMetamethods))

	mod := L.SetFuncs(L.NewTable(), guard(moduleFuncs))
	L.PreloadModule(ModuleName, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	L.SetGlobal(ModuleName, mod)
}

var moduleFuncs = map[string]lua.LGFunction{
	"new":        moduleNew,
	"from_utf16": moduleFromUTF16,
	"foreign":    moduleForeign,
	"concat":     moduleConcat,
}

var stringMethods = map[string]lua.LGFunction{
	"append":     strAppend,
	"count":      strCount,
	"utf8count":  strUTF8Count,
	"utf16count": strUTF16Count,
	"scalars":    strScalars,
	"utf16":      strUTF16,
	"characters": strCharacters,
	"lower":      strLower,
	"upper":      strUpper,
	"nfc":        strNFC,
	"hash":       strHash,
	"compare":    strCompare,
	"equals":     strEquals,
	"is_ascii":   strIsASCII,
	"is_nfc":     strIsNFC,
	"kind":       strKind,
}

var stringMetamethods = map[string]lua.LGFunction{
	"__tostring": strToString,
	"__eq":       strEquals,
	"__lt":       strLess,
	"__le":       strLessEqual,
	"__concat":   strConcat,
	"__len":      strCount,
}

func newStringValue(L *lua.LState, s ustr.String) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = &s
	L.SetMetatable(ud, L.GetTypeMetatable(stringTypeName))
	return ud
}

func pushString(L *lua.LState, s ustr.String) int {
	L.Push(newStringValue(L, s))
	return 1
}

// checkString returns the ustr string receiver at n.
func checkString(L *lua.LState, n int) *ustr.String {
	ud := L.CheckUserData(n)
	if s, ok := ud.Value.(*ustr.String); ok {
		return s
	}
	L.ArgError(n, "ustr string expected")
	return nil
}

// checkText accepts a ustr string or a Lua string, which is repaired.
func checkText(L *lua.LState, n int) ustr.String {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return ustr.New(string(v))
	case lua.LNumber:
		return ustr.New(v.String())
	case *lua.LUserData:
		if s, ok := v.Value.(*ustr.String); ok {
			return *s
		}
	}
	L.ArgError(n, "string expected")
	return ustr.String{}
}

func moduleNew(L *lua.LState) int {
	if L.GetTop() == 0 {
		return pushString(L, ustr.String{})
	}
	return pushString(L, checkText(L, 1))
}

// moduleFromUTF16 returns nil and a message for malformed input.
func moduleFromUTF16(L *lua.LState) int {
	units, err := NewBridge(L).ToUnits(L.CheckTable(1))
	if err == nil {
		var s ustr.String
		if s, err = ustr.FromUTF16(units); err == nil {
			return pushString(L, s)
		}
	}
	L.Push(lua.LNil)
	L.Push(lua.LString(err.Error()))
	return 2
}

// moduleForeign wraps UTF-16 units, given as a table or taken from a
// string, in foreign storage. Unpaired surrogates are kept and read as
// U+FFFD.
func moduleForeign(L *lua.LState) int {
	var units []uint16
	if tbl, ok := L.Get(1).(*lua.LTable); ok {
		var err error
		if units, err = NewBridge(L).ToUnits(tbl); err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
	} else {
		units = checkText(L, 1).UTF16Units()
	}
	return pushString(L, ustr.FromForeign(ustr.NewUTF16Buffer(units)))
}

func moduleConcat(L *lua.LState) int {
	var b ustr.String
	for i := 1; i <= L.GetTop(); i++ {
		b.Append(checkText(L, i))
	}
	return pushString(L, b)
}

// strAppend appends to the receiver in place and returns it.
func strAppend(L *lua.LState) int {
	s := checkString(L, 1)
	for i := 2; i <= L.GetTop(); i++ {
		s.Append(checkText(L, i))
	}
	L.Push(L.Get(1))
	return 1
}

func strCount(L *lua.LState) int {
	L.Push(lua.LNumber(checkString(L, 1).Count()))
	return 1
}

func strUTF8Count(L *lua.LState) int {
	L.Push(lua.LNumber(checkString(L, 1).UTF8Count()))
	return 1
}

func strUTF16Count(L *lua.LState) int {
	L.Push(lua.LNumber(checkString(L, 1).UTF16Count()))
	return 1
}

func strScalars(L *lua.LState) int {
	t := L.NewTable()
	for _, r := range checkString(L, 1).Scalars().All() {
		t.Append(lua.LNumber(r))
	}
	L.Push(t)
	return 1
}

func strUTF16(L *lua.LState) int {
	L.Push(NewBridge(L).ToLuaValue(checkString(L, 1).UTF16Units()))
	return 1
}

func strCharacters(L *lua.LState) int {
	t := L.NewTable()
	for _, c := range checkString(L, 1).Characters() {
		t.Append(lua.LString(c.String()))
	}
	L.Push(t)
	return 1
}

func strLower(L *lua.LState) int {
	return pushString(L, checkString(L, 1).Lowercased())
}

func strUpper(L *lua.LState) int {
	return pushString(L, checkString(L, 1).Uppercased())
}

func strNFC(L *lua.LState) int {
	return pushString(L, checkString(L, 1).NFC())
}

// strHash returns the hash as 16 hex digits; Lua numbers cannot hold 64
// bits exactly.
func strHash(L *lua.LState) int {
	L.Push(lua.LString(fmt.Sprintf("%016x", checkString(L, 1).Hash())))
	return 1
}

func strCompare(L *lua.LState) int {
	L.Push(lua.LNumber(checkString(L, 1).Compare(checkText(L, 2))))
	return 1
}

func strEquals(L *lua.LState) int {
	L.Push(lua.LBool(checkText(L, 1).Equal(checkText(L, 2))))
	return 1
}

func strLess(L *lua.LState) int {
	L.Push(lua.LBool(checkText(L, 1).Compare(checkText(L, 2)) < 0))
	return 1
}

func strLessEqual(L *lua.LState) int {
	L.Push(lua.LBool(checkText(L, 1).Compare(checkText(L, 2)) <= 0))
	return 1
}

func strIsASCII(L *lua.LState) int {
	L.Push(lua.LBool(checkString(L, 1).IsASCII()))
	return 1
}

func strIsNFC(L *lua.LState) int {
	L.Push(lua.LBool(checkString(L, 1).IsNFC()))
	return 1
}

func strKind(L *lua.LState) int {
	L.Push(lua.LString(checkString(L, 1).Kind().String()))
	return 1
}

func strToString(L *lua.LState) int {
	L.Push(lua.LString(checkString(L, 1).String()))
	return 1
}

// strConcat serves both "a" .. s and s .. "a".
func strConcat(L *lua.LState) int {
	return pushString(L, ustr.Concat(checkText(L, 1), checkText(L, 2)))
}
