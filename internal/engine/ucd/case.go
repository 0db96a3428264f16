package ucd

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ToLower returns the full lowercase mapping of b using root-locale rules.
// The result never aliases b.
func ToLower(b []byte) []byte {
	// A Caser keeps state between calls, so each call builds its own.
	return cases.Lower(language.Und).Bytes(b)
}

// ToUpper returns the full uppercase mapping of b using root-locale rules.
// The result never aliases b.
func ToUpper(b []byte) []byte {
	return cases.Upper(language.Und).Bytes(b)
}
