// Package sessions provides the session store: persistence of login sessions
// keyed by id and looked up by (token, user id).
package sessions

import (
	"context"

	"github.com/stunningdev/userservice/internal/server/models"
)

type Repository interface {
	// FindByTokenAndUserID returns the session matching both the token and
	// the owning user's id. A token alone is never sufficient.
	FindByTokenAndUserID(ctx context.Context, token, userID string) (*models.Session, error)
	// Save inserts the session when its id is empty (assigning one) and
	// updates the existing row otherwise.
	Save(ctx context.Context, session *models.Session) (*models.Session, error)
}
