package guts

import "unsafe"

// unsafeString views immortal bytes as a string without copying.
func unsafeString(b []byte) string {
	return unsafe.String(unsafe.SliceData(b), len(b))
}

// unsafeBytes views immortal string data as bytes. The result must not be
// written.
func unsafeBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
