package textutil

import (
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// DefaultChars is the alphabet of RandomString.
const DefaultChars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// DefaultIDLength is the length RandomString uses when given zero.
const DefaultIDLength = 8

// RandomString returns length characters drawn uniformly from chars.
// Zero values select DefaultIDLength and DefaultChars. Not suitable for
// secrets.
func RandomString(length int, chars string) string {
	if length <= 0 {
		length = DefaultIDLength
	}
	if chars == "" {
		chars = DefaultChars
	}
	alphabet := []rune(chars)

	var b strings.Builder
	for i := 0; i < length; i++ {
		b.WriteRune(alphabet[rand.IntN(len(alphabet))])
	}
	return b.String()
}

// RandomInt returns a random integer in [lo, hi]. It returns 0 when hi is
// not positive or hi < lo.
func RandomInt(lo, hi int) int {
	if hi <= 0 || hi < lo {
		return 0
	}
	return lo + rand.IntN(hi-lo+1)
}

// UUID returns a random RFC 4122 version 4 UUID.
func UUID() string {
	return uuid.NewString()
}
