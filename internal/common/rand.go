package common

import (
	"crypto/rand"
	"math/big"
)

// tokenAlphabet covers printable ASCII (0x21..0x7E). Space is excluded so a
// token always survives an HTTP header round-trip intact.
const tokenAlphabet = "!\"#$%&'()*+,-./0123456789:;<=>?@" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`" +
	"abcdefghijklmnopqrstuvwxyz{|}~"

// MakeRandASCIIString generates a random printable-ASCII string of length n
// using crypto/rand. Each character is drawn uniformly from the alphabet, so
// the result is suitable as an unguessable bearer token.
//
// It returns an error if the random number generator fails.
func MakeRandASCIIString(n int) (string, error) {
	b := make([]byte, n)
	max := big.NewInt(int64(len(tokenAlphabet)))
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = tokenAlphabet[idx.Int64()]
	}
	return string(b), nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// This is useful for removing sensitive data such as passwords from memory
// after use.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
