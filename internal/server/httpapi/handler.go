package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stunningdev/userservice/internal/common"
	"github.com/stunningdev/userservice/internal/server/models"
)

func (s *Server) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (s *Server) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	s.logger.Info(c.Request.Context(), "Sign-up request")

	user, err := s.auth.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrUserAlreadyExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		s.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	s.logger.Info(c.Request.Context(), "Signed up", "user_id", user.ID)
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	token, user, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrUserDoesNotExist):
			c.JSON(http.StatusNotFound, gin.H{"error": "user does not exist"})
		case errors.Is(err, common.ErrInvalidCredentials):
			c.Status(http.StatusNotFound)
		default:
			s.logger.Error(c.Request.Context(), err.Error())
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	s.logger.Info(c.Request.Context(), "Logged in", "user_id", user.ID)
	c.Header(common.AuthTokenHeaderName, token)
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (s *Server) Logout(c *gin.Context) {
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and userId are required"})
		return
	}

	// A miss is a defined no-op: the boundary reports success either way.
	if _, err := s.auth.Logout(c.Request.Context(), req.Token, req.UserID); err != nil {
		s.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Status(http.StatusOK)
}

func (s *Server) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token and userId are required"})
		return
	}

	user, err := s.auth.Validate(c.Request.Context(), req.Token, req.UserID)
	if err != nil {
		s.logger.Error(c.Request.Context(), err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if user == nil {
		c.JSON(http.StatusOK, validateResponse{SessionStatus: models.SessionStatusInvalid})
		return
	}

	c.JSON(http.StatusOK, validateResponse{
		SessionStatus: models.SessionStatusActive,
		User:          toUserResponse(user),
	})
}
