// Package validate provides the field rules applied to user records at write time.
package validate

import (
	"strings"
	"time"
	"unicode"
)

// MinDeleteAge is how long a record must exist before it may be deleted.
const MinDeleteAge = 60 * time.Second

// ContainsKoreanScript reports whether text has any rune in the Hangul script
// (Jamo, Compatibility Jamo, syllables and their extended/halfwidth blocks).
func ContainsKoreanScript(text string) bool {
	for _, r := range text {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}

// IsValidEmailShape reports whether value is a string containing "@".
// This is a shape check only, not an address grammar check.
func IsValidEmailShape(value any) bool {
	s, ok := value.(string)
	if !ok {
		return false
	}
	return strings.Contains(s, "@")
}

// IsAtLeastOneMinuteOld reports whether createdAt lies at least MinDeleteAge
// before now. A zero createdAt is treated as missing and never qualifies.
func IsAtLeastOneMinuteOld(createdAt, now time.Time) bool {
	if createdAt.IsZero() {
		return false
	}
	return now.Sub(createdAt) >= MinDeleteAge
}
