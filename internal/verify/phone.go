package verify

import (
	"strings"
)

const defaultCountryCode = "1"

// Normalize converts a raw phone input into the canonical E.164-style key
// used for both sending and checking codes. Ten digits are treated as a
// domestic US number; eleven digits starting with 1 are treated as already
// qualified. Anything else is assumed to carry its own country code.
// The heuristic is lossy for non-US numbers; known limitation.
func Normalize(raw string) string {
	digits := stripNonDigits(raw)

	switch {
	case len(digits) == 10:
		return "+" + defaultCountryCode + digits
	case len(digits) == 11 && strings.HasPrefix(digits, defaultCountryCode):
		return "+" + digits
	default:
		return "+" + digits
	}
}

// DigitCount reports how many digits remain after stripping formatting,
// used for pre-flight validation before any gateway call.
func DigitCount(raw string) int {
	return len(stripNonDigits(raw))
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
