package nmea

// Decoders for the two numeric formats NMEA uses. Both are permissive:
// malformed text yields a best-effort value, never an error, so bad data
// cannot wedge the state machine.

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func fromHex(c byte) byte {
	switch {
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - '0'
	}
}

// parseDecimal parses a possibly negative number with up to two fractional
// digits ("-xxxx.yy") into an integer scaled by 100. Fractional digits past
// the second are ignored.
func parseDecimal(term []byte) int32 {
	negative := len(term) > 0 && term[0] == '-'
	if negative {
		term = term[1:]
	}

	var ret int32
	i := 0
	for ; i < len(term) && isDigit(term[i]); i++ {
		ret = ret*10 + int32(term[i]-'0')
	}
	ret *= 100

	if i+1 < len(term) && term[i] == '.' && isDigit(term[i+1]) {
		ret += 10 * int32(term[i+1]-'0')
		if i+2 < len(term) && isDigit(term[i+2]) {
			ret += int32(term[i+2] - '0')
		}
	}

	if negative {
		return -ret
	}
	return ret
}

// parseUint parses leading decimal digits, ignoring anything after them.
func parseUint(term []byte) uint32 {
	var ret uint32
	for i := 0; i < len(term) && isDigit(term[i]); i++ {
		ret = ret*10 + uint32(term[i]-'0')
	}
	return ret
}

// parseDegrees parses NMEA "DDDMM.MMMM" into degrees plus billionths of a
// degree. Fractional-minute digits are accumulated with a shrinking
// power-of-ten multiplier, so arbitrarily many digits are accepted but each
// contributes less until the multiplier underflows to zero. Minutes convert
// to degree-billionths by the exact factor 5/3 with a +1 rounding bias.
//
// The sign is left positive; hemisphere letters arrive as a separate field
// and flip it there.
func parseDegrees(term []byte, deg *RawDegrees) {
	var left uint32
	i := 0
	for ; i < len(term) && isDigit(term[i]); i++ {
		left = left*10 + uint32(term[i]-'0')
	}

	multiplier := uint32(10000000)
	tenMillionthsOfMinutes := (left % 100) * multiplier

	deg.Deg = uint16(left / 100)

	if i < len(term) && term[i] == '.' {
		for i++; i < len(term) && isDigit(term[i]); i++ {
			multiplier /= 10
			tenMillionthsOfMinutes += uint32(term[i]-'0') * multiplier
		}
	}

	deg.Billionths = (5*tenMillionthsOfMinutes + 1) / 3
	deg.Negative = false
}
