// Package services contains server-side business logic. This file implements
// AuthService, which handles sign-up, login, logout, and validation of the
// opaque session tokens issued at login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/stunningdev/userservice/internal/common"
	"github.com/stunningdev/userservice/internal/dbx"
	"github.com/stunningdev/userservice/internal/server/hashing"
	"github.com/stunningdev/userservice/internal/server/models"
	"github.com/stunningdev/userservice/internal/server/repositories/repomanager"
)

// tokenInsertAttempts bounds retries when a freshly generated token collides
// with an existing one. With a 20-character printable-ASCII token the odds
// are negligible, so one extra attempt is almost never used.
const tokenInsertAttempts = 3

// AuthService provides the authentication operations:
//   - SignUp: create users
//   - Login: verify credentials and mint a session token
//   - Logout: close an active session
//   - Validate: resolve a token back to its user
//
// The service is stateless between calls; all durable state lives in the
// credential and session stores.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      hashing.Hasher
}

// NewAuthService constructs an AuthService. The hasher is an explicit
// dependency so tests can swap in a cheap one.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, h hashing.Hasher) *AuthService {
	return &AuthService{db: db, repomanager: m, hasher: h}
}

// SignUp creates a user with the given email and an empty role set. It fails
// with common.ErrUserAlreadyExists when the email is taken, whether detected
// by the pre-check or by the store's unique index during a concurrent race.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrUserAlreadyExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Email: email, PasswordHash: hash, Roles: []string{}}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var saveErr error
		user, saveErr = s.repomanager.Users(tx).Save(ctx, user)
		return saveErr
	}); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrUserAlreadyExists
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login verifies the credentials and, on success, creates an ACTIVE session
// and returns its token together with the user.
//
// An unknown email yields common.ErrUserDoesNotExist; a wrong password
// yields common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrUserDoesNotExist
		}
		return "", nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, common.ErrInvalidCredentials
	}

	token, err := s.createSession(ctx, user.ID)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// Logout transitions the session matching (token, userID) to LOGGED_OUT.
// A miss is a defined no-op, reported as found=false with a nil error.
// Logging out an already-logged-out session re-persists the same terminal
// status, so the operation is idempotent.
func (s *AuthService) Logout(ctx context.Context, token, userID string) (bool, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.FindByTokenAndUserID(ctx, token, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return false, nil
		}
		return false, common.ErrorInternal
	}

	session.Status = models.SessionStatusLoggedOut
	if _, err := repo.Save(ctx, session); err != nil {
		return false, common.ErrorInternal
	}

	return true, nil
}

// Validate resolves (token, userID) to the owning user. It returns (nil, nil)
// when no matching session exists or the session is not ACTIVE; that outcome
// is a judgment, not an error. On a hit the user is re-fetched from the
// credential store by id rather than trusted from the session row.
func (s *AuthService) Validate(ctx context.Context, token, userID string) (*models.User, error) {
	session, err := s.repomanager.Sessions(s.db).FindByTokenAndUserID(ctx, token, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, common.ErrorInternal
	}

	if session.Status != models.SessionStatusActive {
		return nil, nil
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// createSession mints a fresh token and persists an ACTIVE session. The
// store's unique index on token is the collision arbiter: a duplicate
// insert is retried with a new token, never silently accepted.
func (s *AuthService) createSession(ctx context.Context, userID string) (string, error) {
	repo := s.repomanager.Sessions(s.db)

	var token string
	backoff := retry.WithMaxRetries(tokenInsertAttempts, retry.NewConstant(time.Millisecond))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		t, err := common.MakeRandASCIIString(common.TokenLength)
		if err != nil {
			return err
		}

		session := &models.Session{Token: t, UserID: userID, Status: models.SessionStatusActive}
		if _, err := repo.Save(ctx, session); err != nil {
			if errors.Is(err, common.ErrorAlreadyExists) {
				return retry.RetryableError(err)
			}
			return err
		}

		token = t
		return nil
	})
	if err != nil {
		return "", err
	}

	return token, nil
}
