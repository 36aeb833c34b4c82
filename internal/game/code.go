package game

import "math/rand"

// codeAlphabet omits visually ambiguous characters (O/0, I/1/L).
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 6

// NewCode produces a short human-typeable game code. Uniqueness among live
// games is the registry's job; it retries on collision.
func NewCode() string {
	code := make([]byte, codeLength)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}
