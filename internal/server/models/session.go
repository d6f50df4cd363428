package models

import "time"

// SessionStatus is the lifecycle state of a session.
//
// The only persisted transition is ACTIVE -> LOGGED_OUT; it never reverts.
// INVALID is a synthetic status reported to callers when no matching session
// exists and is never written to storage.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusLoggedOut SessionStatus = "LOGGED_OUT"
	SessionStatusInvalid   SessionStatus = "INVALID"
)

// Session records a single authenticated login. Sessions are never deleted;
// logged-out rows remain as an audit trail of login activity.
type Session struct {
	ID        string
	Token     string
	UserID    string
	Status    SessionStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
