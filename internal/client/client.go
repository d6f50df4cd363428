// Package client provides a small typed HTTP client for the user service,
// used by the command-line tool for smoke checks against a running server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stunningdev/userservice/internal/common"
)

// User is the public view of a user returned by the service.
type User struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// ValidateResult carries the outcome of a token validation. SessionStatus is
// ACTIVE with the user attached, or INVALID with no user.
type ValidateResult struct {
	SessionStatus string `json:"sessionStatus"`
	User          *User  `json:"user"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(body); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.http.Do(req)
}

// SignUp registers a new user.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	resp, err := c.post(ctx, "/auth/signup", map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusConflict:
		return nil, common.ErrUserAlreadyExists
	default:
		return nil, fmt.Errorf("sign-up failed: status %d", resp.StatusCode)
	}

	user := &User{}
	if err := json.NewDecoder(resp.Body).Decode(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the session token delivered in the
// AUTH_TOKEN response header along with the user. A 404 from the server
// covers both an unknown email and a wrong password.
func (c *Client) Login(ctx context.Context, email, password string) (string, *User, error) {
	resp, err := c.post(ctx, "/auth/login", map[string]string{"email": email, "password": password})
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", nil, common.ErrInvalidCredentials
	default:
		return "", nil, fmt.Errorf("login failed: status %d", resp.StatusCode)
	}

	token := resp.Header.Get(common.AuthTokenHeaderName)
	if token == "" {
		return "", nil, fmt.Errorf("login response missing %s header", common.AuthTokenHeaderName)
	}

	user := &User{}
	if err := json.NewDecoder(resp.Body).Decode(user); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout closes the session matching the token and user id. The server
// treats a miss as success, so Logout only fails on transport errors.
func (c *Client) Logout(ctx context.Context, token, userID string) error {
	resp, err := c.post(ctx, "/auth/logout", map[string]string{"token": token, "userId": userID})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("logout failed: status %d", resp.StatusCode)
	}
	return nil
}

// Validate resolves the token to its owning user, or an INVALID status.
func (c *Client) Validate(ctx context.Context, token, userID string) (*ValidateResult, error) {
	resp, err := c.post(ctx, "/auth/validate", map[string]string{"token": token, "userId": userID})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("validate failed: status %d", resp.StatusCode)
	}

	result := &ValidateResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, err
	}
	return result, nil
}

// Ping checks server liveness.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ping failed: status %d", resp.StatusCode)
	}
	return nil
}
