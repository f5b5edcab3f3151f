package utils

import (
	"strings"
)

// MinPhoneKeyLen is the minimum number of digits a normalized phone must have
// before it is treated as a reliable lookup key. Shorter keys (partial entry
// while typing, extensions) are inconclusive and must not trigger duplicate
// matching.
const MinPhoneKeyLen = 5

// NormalizePhone canonicalizes a raw phone string into a comparison key by
// keeping only ASCII digits. Non-ASCII decimal digits are stripped like any
// other rune, so the key length is always the digit count. It never fails and
// is idempotent; callers decide what to do with keys shorter than
// MinPhoneKeyLen.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// ValidPhoneKey reports whether a normalized phone is long enough to serve as
// an ownership lookup key.
func ValidPhoneKey(key string) bool {
	return len(key) >= MinPhoneKeyLen
}
