// Package users provides the credential store: persistence of identity
// records keyed by id and looked up by email.
package users

import (
	"context"

	"github.com/stunningdev/userservice/internal/server/models"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	// Save inserts the user when its id is empty (assigning one) and
	// updates the existing row otherwise.
	Save(ctx context.Context, user *models.User) (*models.User, error)
}
