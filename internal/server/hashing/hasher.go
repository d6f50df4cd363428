// Package hashing provides the one-way password hashing capability used by
// the auth service. The hasher is injected as an explicit dependency, never
// reached through ambient state.
package hashing

// Hasher hashes plaintext passwords with an adaptive, salted algorithm and
// verifies candidates against stored hashes. The salt is embedded in the
// hash output, so no separate salt storage is required. Verify must run in
// time independent of where a mismatch occurs.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
