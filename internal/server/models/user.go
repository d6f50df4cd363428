// Package models contains the persistent domain entities of the user service.
package models

import "time"

// User is an identity record. PasswordHash is the output of the password
// hasher; the plaintext is never stored. Roles is a set of named
// authorization labels with no duplicates.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Roles        []string
	CreatedAt    time.Time
}
