package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stunningdev/userservice/internal/common"
	"github.com/stunningdev/userservice/internal/dbx"
	"github.com/stunningdev/userservice/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindByTokenAndUserID(ctx context.Context, token, userID string) (*models.Session, error) {
	query :=
		`SELECT id, token, user_id, status, created_at, updated_at FROM sessions
		 WHERE token = $1 AND user_id = $2
		 `

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, token, userID).
		Scan(&session.ID, &session.Token, &session.UserID, &session.Status,
			&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

// Save upserts the session row by id. Token uniqueness is enforced by the
// store; a colliding token surfaces as common.ErrorAlreadyExists so the
// caller can retry with a fresh one. Rows are never deleted, so re-saving a
// logged-out session just rewrites the same terminal status.
func (r *PostgresRepository) Save(ctx context.Context, session *models.Session) (*models.Session, error) {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO sessions (id, token, user_id, status)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE
		 SET status = EXCLUDED.status, updated_at = now()
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		session.ID, session.Token, session.UserID, session.Status).
		Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}
