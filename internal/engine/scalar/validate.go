package scalar

// decodeChecked decodes the sequence starting at b[i]. On success it returns
// the scalar, its length and KindNone. On failure it returns the error kind
// and the length of the maximal ill-formed subpart, which is always at least
// one byte.
func decodeChecked(b []byte, i int) (rune, int, ErrorKind) {
	c0 := b[i]
	if c0 < 0x80 {
		return rune(c0), 1, KindNone
	}

	n := LeadLength(c0)
	if n == 0 {
		if IsContinuation(c0) {
			return ReplacementCharacter, 1, KindUnexpectedContinuationByte
		}
		return ReplacementCharacter, 1, KindInvalidStarterByte
	}

	// The second byte carries the lead-specific range restrictions.
	lo, hi := byte(0x80), byte(0xBF)
	switch c0 {
	case 0xE0:
		lo = 0xA0
	case 0xED:
		hi = 0x9F
	case 0xF0:
		lo = 0x90
	case 0xF4:
		hi = 0x8F
	}

	if i+1 >= len(b) {
		return ReplacementCharacter, 1, KindUnexpectedEndOfInput
	}
	c1 := b[i+1]
	if !IsContinuation(c1) {
		return ReplacementCharacter, 1, KindTruncatedScalar
	}
	if c1 < lo {
		return ReplacementCharacter, 1, KindOverlongEncoding
	}
	if c1 > hi {
		return ReplacementCharacter, 1, KindInvalidCodePoint
	}

	if n == 2 {
		return rune(c0&0x1F)<<6 | rune(c1&0x3F), 2, KindNone
	}

	if i+2 >= len(b) {
		return ReplacementCharacter, 2, KindUnexpectedEndOfInput
	}
	c2 := b[i+2]
	if !IsContinuation(c2) {
		return ReplacementCharacter, 2, KindTruncatedScalar
	}

	if n == 3 {
		return rune(c0&0x0F)<<12 | rune(c1&0x3F)<<6 | rune(c2&0x3F), 3, KindNone
	}

	if i+3 >= len(b) {
		return ReplacementCharacter, 3, KindUnexpectedEndOfInput
	}
	c3 := b[i+3]
	if !IsContinuation(c3) {
		return ReplacementCharacter, 3, KindTruncatedScalar
	}
	return rune(c0&0x07)<<18 | rune(c1&0x3F)<<12 | rune(c2&0x3F)<<6 | rune(c3&0x3F), 4, KindNone
}

// DecodeUTF8Checked decodes the scalar starting at b[i] without assuming the
// input is valid. On malformed input it returns a *DecodeError whose Length is
// the maximal ill-formed subpart.
func DecodeUTF8Checked(b []byte, i int) (rune, int, error) {
	r, n, kind := decodeChecked(b, i)
	if kind != KindNone {
		return r, n, &DecodeError{Kind: kind, Offset: i, Length: n}
	}
	return r, n, nil
}

// Validate checks that b is well-formed UTF-8 and summarizes its content.
// The error, if any, is a *DecodeError describing the first malformed
// sequence.
func Validate(b []byte) (Summary, error) {
	sum := Summary{Flags: FlagASCII}
	i := 0
	for i < len(b) {
		// ASCII runs are the common case.
		if b[i] < 0x80 {
			i++
			sum.Bytes++
			sum.UTF16Units++
			sum.Scalars++
			continue
		}
		r, n, kind := decodeChecked(b, i)
		if kind != KindNone {
			return sum, &DecodeError{Kind: kind, Offset: i, Length: n}
		}
		sum.Flags &^= FlagASCII
		sum.Bytes += n
		sum.UTF16Units += UTF16Len(r)
		sum.Scalars++
		i += n
	}
	return sum, nil
}

// AppendRepaired appends src to dst, replacing every maximal ill-formed
// subpart with U+FFFD. It returns the extended slice, the summary of what was
// appended and whether any repair happened.
func AppendRepaired(dst, src []byte) ([]byte, Summary, bool) {
	sum := Summary{Flags: FlagASCII}
	repaired := false
	start := 0
	i := 0
	for i < len(src) {
		if src[i] < 0x80 {
			i++
			sum.Bytes++
			sum.UTF16Units++
			sum.Scalars++
			continue
		}
		r, n, kind := decodeChecked(src, i)
		if kind == KindNone {
			sum.Flags &^= FlagASCII
			sum.Bytes += n
			sum.UTF16Units += UTF16Len(r)
			sum.Scalars++
			i += n
			continue
		}
		repaired = true
		dst = append(dst, src[start:i]...)
		dst = AppendUTF8(dst, ReplacementCharacter)
		sum.Flags &^= FlagASCII
		sum.Bytes += 3
		sum.UTF16Units++
		sum.Scalars++
		i += n
		start = i
	}
	dst = append(dst, src[start:]...)
	return dst, sum, repaired
}
