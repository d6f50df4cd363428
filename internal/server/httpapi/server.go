// Package httpapi exposes the auth operations over HTTP. It maps service
// outcomes to transport statuses: conflicts on duplicate sign-up, not-found
// on failed logins, and a plain 200 envelope for validation where the
// ACTIVE/INVALID distinction travels in the payload.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stunningdev/userservice/internal/logging"
	"github.com/stunningdev/userservice/internal/server/models"
)

const shutdownTimeout = 5 * time.Second

// AuthService is the subset of the auth engine the transport needs.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Logout(ctx context.Context, token, userID string) (bool, error)
	Validate(ctx context.Context, token, userID string) (*models.User, error)
}

type Server struct {
	address string
	auth    AuthService
	logger  logging.Logger
}

func NewServer(address, mode string, l logging.Logger, auth AuthService) *Server {
	gin.SetMode(mode)
	return &Server{
		address: address,
		auth:    auth,
		logger:  l.With("module", "http_server"),
	}
}

// Routes builds the gin engine with all handlers registered.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ping", s.Ping)

	auth := r.Group("/auth")
	{
		auth.POST("/signup", s.SignUp)
		auth.POST("/login", s.Login)
		auth.POST("/logout", s.Logout)
		auth.POST("/validate", s.Validate)
	}

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
