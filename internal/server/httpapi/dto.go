package httpapi

import "github.com/stunningdev/userservice/internal/server/models"

type signUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type logoutRequest struct {
	Token  string `json:"token" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

type validateRequest struct {
	Token  string `json:"token" binding:"required"`
	UserID string `json:"userId" binding:"required"`
}

// userResponse is the public view of a user. The password hash never
// crosses the transport boundary.
type userResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

type validateResponse struct {
	SessionStatus models.SessionStatus `json:"sessionStatus"`
	User          *userResponse        `json:"user,omitempty"`
}

func toUserResponse(u *models.User) *userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return &userResponse{ID: u.ID, Email: u.Email, Roles: roles}
}
