// Package lua runs Lua scripts against ustr strings.
//
// Scripts see a global module ustr, also available through require:
//
//	local s = ustr.new("e\204\129t\195\169")
//	print(s:count(), s:utf8count(), s:utf16count())  --> 3  6  4
//	print(s == ustr.new("\195\169t\195\169"))        --> true
//
// Module functions are new, from_utf16, foreign and concat; foreign keeps
// its UTF-16 units in foreign storage, as text owned by another runtime
// would be. String values carry
// the methods append, count, utf8count, utf16count, scalars, utf16,
// characters, lower, upper, nfc, hash, compare, equals, is_ascii, is_nfc
// and kind, and the metamethods __tostring, __eq, __lt, __le, __concat
// and __len. Comparison is canonical: strings that differ only in
// normalization are equal. Lua strings passed where a ustr string is
// expected are converted, repairing malformed UTF-8.
//
// # Sandbox
//
// The state opens only the base, package, table, string and math
// libraries, removes dofile, loadfile, load and loadstring, and restricts
// require to those libraries and ustr. print writes to the configured
// output.
//
// # Limits
//
// Each run is bounded by a timeout, enforced through the state's
// context, and by an instruction limit counting calls into Go. Exceeding
// either returns ErrExecutionTimeout or ErrInstructionLimit; the state
// stays usable.
package lua
