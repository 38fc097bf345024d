// AngelaMos | 2026
// auth.go

package gateway

import (
	"context"
	"fmt"
)

// User is the authenticated backend principal.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	IsStaff   bool   `json:"is_staff"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SignupData struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type userEnvelope struct {
	User User `json:"user"`
}

type csrfEnvelope struct {
	CSRFToken string `json:"csrfToken"`
}

// CSRFToken fetches a fresh anti-forgery token for the session.
func (c *Client) CSRFToken(
	ctx context.Context,
	sess *Session,
) (string, error) {
	var env csrfEnvelope
	if err := c.Get(ctx, sess, "/auth/csrf/", nil, &env); err != nil {
		return "", fmt.Errorf("fetch csrf token: %w", err)
	}
	return env.CSRFToken, nil
}

func (c *Client) Login(
	ctx context.Context,
	sess *Session,
	creds Credentials,
) (*User, error) {
	var env userEnvelope
	if err := c.Post(ctx, sess, "/auth/login/", creds, &env); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &env.User, nil
}

func (c *Client) Signup(
	ctx context.Context,
	sess *Session,
	data SignupData,
) (*User, error) {
	var env userEnvelope
	if err := c.Post(ctx, sess, "/auth/signup/", data, &env); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	return &env.User, nil
}

func (c *Client) Logout(ctx context.Context, sess *Session) error {
	if err := c.Post(ctx, sess, "/auth/logout/", nil, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Ping probes backend reachability with a throwaway session. The
// csrf endpoint is the cheapest unauthenticated route the backend
// exposes.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.CSRFToken(ctx, NewSession()); err != nil {
		return err
	}
	return nil
}

// CurrentUser probes the backend for an existing session.
func (c *Client) CurrentUser(
	ctx context.Context,
	sess *Session,
) (*User, error) {
	var env userEnvelope
	if err := c.Get(ctx, sess, "/auth/user/", nil, &env); err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return &env.User, nil
}
