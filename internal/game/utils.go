package game

import (
	crand "crypto/rand"
	"math/big"
	"math/rand"
	"strings"
)

// GenerateJoinCode creates a random join code
func GenerateJoinCode() string {
	code := make([]byte, JoinCodeLength)
	for i := range JoinCodeLength {
		n, err := crand.Int(crand.Reader, big.NewInt(int64(len(JoinCodeChars))))
		if err != nil {
			// fallback to math/rand if crypto fails
			code[i] = JoinCodeChars[rand.Intn(len(JoinCodeChars))]
			continue
		}
		code[i] = JoinCodeChars[n.Int64()]
	}
	return string(code)
}

// NormalizeJoinCode upper-cases and trims a code typed by a player.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidJoinCode reports whether code (already normalized) could have been
// produced by GenerateJoinCode.
func ValidJoinCode(code string) bool {
	if len(code) != JoinCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(JoinCodeChars, rune(code[i])) {
			return false
		}
	}
	return true
}
