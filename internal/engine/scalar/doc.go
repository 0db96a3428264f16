// Package scalar provides the Unicode primitives the string engine is built
// on: UTF-8 and UTF-16 scalar decoding and encoding, surrogate handling,
// strict validation with structured errors, replacement-character repair,
// and content summaries.
//
// Decoding functions whose names do not mention validation assume their
// input is well-formed; they are used on storage that was validated when it
// was created.
package scalar
