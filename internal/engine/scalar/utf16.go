package scalar

// Surrogate ranges.
const (
	surrogateMin      = 0xD800
	leadSurrogateMax  = 0xDBFF
	trailSurrogateMin = 0xDC00
	surrogateMax      = 0xDFFF
	supplementaryMin  = 0x10000
)

// IsSurrogate reports whether u is a UTF-16 surrogate code unit.
func IsSurrogate(u uint16) bool {
	return u >= surrogateMin && u <= surrogateMax
}

// IsLeadSurrogate reports whether u is a high (leading) surrogate.
func IsLeadSurrogate(u uint16) bool {
	return u >= surrogateMin && u <= leadSurrogateMax
}

// IsTrailSurrogate reports whether u is a low (trailing) surrogate.
func IsTrailSurrogate(u uint16) bool {
	return u >= trailSurrogateMin && u <= surrogateMax
}

// CombineSurrogates joins a surrogate pair into a supplementary scalar.
func CombineSurrogates(lead, trail uint16) rune {
	return (rune(lead)-surrogateMin)<<10 | (rune(trail) - trailSurrogateMin) + supplementaryMin
}

// SplitSurrogates returns the surrogate pair encoding a supplementary scalar.
func SplitSurrogates(r rune) (lead, trail uint16) {
	r -= supplementaryMin
	return uint16(surrogateMin + (r>>10)&0x3FF), uint16(trailSurrogateMin + r&0x3FF)
}

// UTF16Len returns the number of UTF-16 code units needed to encode r.
func UTF16Len(r rune) int {
	if r >= supplementaryMin {
		return 2
	}
	return 1
}

// UTF16Unit returns code unit k (0 or 1) of the UTF-16 encoding of r.
func UTF16Unit(r rune, k int) uint16 {
	if r < supplementaryMin {
		return uint16(r)
	}
	lead, trail := SplitSurrogates(r)
	if k == 0 {
		return lead
	}
	return trail
}

// AppendUTF16 appends the UTF-16 encoding of r.
func AppendUTF16(dst []uint16, r rune) []uint16 {
	if r < supplementaryMin {
		return append(dst, uint16(r))
	}
	lead, trail := SplitSurrogates(r)
	return append(dst, lead, trail)
}

// DecodeUTF16 decodes the scalar starting at u[i]. ok is false for an
// unpaired surrogate, in which case r is U+FFFD and n is 1.
func DecodeUTF16(u []uint16, i int) (r rune, n int, ok bool) {
	c := u[i]
	if !IsSurrogate(c) {
		return rune(c), 1, true
	}
	if IsLeadSurrogate(c) && i+1 < len(u) && IsTrailSurrogate(u[i+1]) {
		return CombineSurrogates(c, u[i+1]), 2, true
	}
	return ReplacementCharacter, 1, false
}

// DecodeLastUTF16 decodes the scalar ending at u[end-1].
func DecodeLastUTF16(u []uint16, end int) (r rune, n int, ok bool) {
	c := u[end-1]
	if !IsSurrogate(c) {
		return rune(c), 1, true
	}
	if IsTrailSurrogate(c) && end-2 >= 0 && IsLeadSurrogate(u[end-2]) {
		return CombineSurrogates(u[end-2], c), 2, true
	}
	return ReplacementCharacter, 1, false
}

// ValidateUTF16 checks u for unpaired surrogates. The summary describes the
// content as it would be stored in UTF-8.
func ValidateUTF16(u []uint16) (Summary, error) {
	sum := Summary{Flags: FlagASCII}
	for i := 0; i < len(u); {
		r, n, ok := DecodeUTF16(u, i)
		if !ok {
			return sum, &DecodeError{Kind: KindUnpairedSurrogate, Offset: i, Length: 1, UTF16: true}
		}
		sum.add(r)
		i += n
	}
	return sum, nil
}

// AppendUTF16AsUTF8 transcodes u to UTF-8, replacing unpaired surrogates
// with U+FFFD.
func AppendUTF16AsUTF8(dst []byte, u []uint16) ([]byte, Summary) {
	sum := Summary{Flags: FlagASCII}
	for i := 0; i < len(u); {
		r, n, _ := DecodeUTF16(u, i)
		sum.add(r)
		dst = AppendUTF8(dst, r)
		i += n
	}
	return dst, sum
}
