// Package shareid generates the short opaque tokens used as public share
// identifiers in deep links.
package shareid

import (
	"crypto/rand"
	"math/big"
)

// Length is the fixed token length. 36^8 combinations keep collisions rare,
// but not impossible: the store's insert path still has to detect duplicates
// and ask for a fresh token.
const Length = 8

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var alphabetLen = big.NewInt(int64(len(alphabet)))

// New returns a random token of Length characters drawn uniformly from
// lowercase letters and digits. It keeps no memory of previous tokens.
func New() string {
	buf := make([]byte, Length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// nothing sensible to do but stop.
			panic(err)
		}
		buf[i] = alphabet[n.Int64()]
	}
	return string(buf)
}

// Valid reports whether s has the exact shape of a generated token. Deep-link
// arguments are user-controlled, so garbage is rejected before hitting the
// store.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
