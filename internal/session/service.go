// AngelaMos | 2026
// service.go

package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

// StateStore persists session state under an opaque id.
type StateStore interface {
	Save(ctx context.Context, id string, state *State) error
	Get(ctx context.Context, id string) (*State, error)
	Delete(ctx context.Context, id string) error
}

// Service owns the console session lifecycle: exchanging credentials
// for a backend cookie jar, persisting that jar in redis under an
// opaque id, and handing the client a signed cookie that references it.
type Service struct {
	gw         *gateway.Client
	store      StateStore
	tokens     *TokenManager
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewService(
	gw *gateway.Client,
	store StateStore,
	tokens *TokenManager,
	cfg config.SessionConfig,
	secure bool,
) *Service {
	return &Service{
		gw:         gw,
		store:      store,
		tokens:     tokens,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL,
		secure:     secure,
	}
}

// Result carries the authenticated user plus the signed console token
// the handler turns into a cookie.
type Result struct {
	User  *gateway.User
	Token string
}

func (s *Service) Login(
	ctx context.Context,
	creds gateway.Credentials,
) (*Result, error) {
	sess := gateway.NewSession()

	user, err := s.gw.Login(ctx, sess, creds)
	if err != nil {
		return nil, loginError(err)
	}

	return s.establish(ctx, sess, user)
}

func (s *Service) Signup(
	ctx context.Context,
	data gateway.SignupData,
) (*Result, error) {
	sess := gateway.NewSession()

	user, err := s.gw.Signup(ctx, sess, data)
	if err != nil {
		return nil, signupError(err)
	}

	return s.establish(ctx, sess, user)
}

func (s *Service) establish(
	ctx context.Context,
	sess *gateway.Session,
	user *gateway.User,
) (*Result, error) {
	id, err := core.GenerateSessionID()
	if err != nil {
		return nil, err
	}

	state := &State{User: *user, Cookies: sess.Cookies}
	if err := s.store.Save(ctx, id, state); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(id)
	if err != nil {
		return nil, err
	}

	return &Result{User: user, Token: token}, nil
}

// Logout is best-effort on the backend side: a failed backend call is
// logged and swallowed, the local session is always cleared.
func (s *Service) Logout(
	ctx context.Context,
	sd *middleware.SessionData,
) {
	sess := gateway.SessionFromCookies(sd.Cookies)
	if err := s.gw.Logout(ctx, sess); err != nil {
		slog.Warn("backend logout failed, clearing session anyway",
			"session_id", sd.ID,
			"error", err,
		)
	}

	if err := s.store.Delete(ctx, sd.ID); err != nil {
		slog.Error("failed to delete session state",
			"session_id", sd.ID,
			"error", err,
		)
	}
}

// Probe resolves the bootstrapping state: given the raw cookie value
// (possibly empty), it either re-validates the session against the
// backend or reports anonymous. It never returns an error to the
// client path; a nil user means anonymous.
func (s *Service) Probe(ctx context.Context, token string) *gateway.User {
	if token == "" {
		return nil
	}

	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil
	}

	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil
	}

	sess := gateway.SessionFromCookies(state.Cookies)
	user, err := s.gw.CurrentUser(ctx, sess)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			if delErr := s.store.Delete(ctx, id); delErr != nil {
				slog.Error("failed to delete stale session",
					"session_id", id,
					"error", delErr,
				)
			}
		}
		return nil
	}

	state.User = *user
	state.Cookies = sess.Cookies
	if err := s.store.Save(ctx, id, state); err != nil {
		slog.Error("failed to refresh session state",
			"session_id", id,
			"error", err,
		)
	}

	return user
}

// Current returns the locally stored profile for an active session.
func (s *Service) Current(
	ctx context.Context,
	sd *middleware.SessionData,
) (*gateway.User, error) {
	state, err := s.store.Get(ctx, sd.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.SessionExpiredError()
		}
		return nil, err
	}
	return &state.User, nil
}

// UpdateProfile merges the edited fields into the locally stored
// profile. The backend exposes no profile endpoint, so the edit lives
// for the lifetime of the session only.
func (s *Service) UpdateProfile(
	ctx context.Context,
	sd *middleware.SessionData,
	req ProfileUpdateRequest,
) (*gateway.User, error) {
	state, err := s.store.Get(ctx, sd.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.SessionExpiredError()
		}
		return nil, err
	}

	if req.FirstName != nil {
		state.User.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		state.User.LastName = *req.LastName
	}
	if req.Email != nil {
		state.User.Email = *req.Email
	}

	if err := s.store.Save(ctx, sd.ID, state); err != nil {
		return nil, err
	}

	return &state.User, nil
}

// Resolve implements middleware.SessionResolver.
func (s *Service) Resolve(
	ctx context.Context,
	token string,
) (*middleware.SessionData, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	state, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return &middleware.SessionData{
		ID:       id,
		Username: state.User.Username,
		IsStaff:  state.User.IsStaff,
		Cookies:  state.Cookies,
	}, nil
}

func (s *Service) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Service) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Service) CookieName() string {
	return s.cookieName
}

// loginError turns a backend login rejection into the message the
// client displays: the first non-field error when present, a generic
// fallback otherwise. Unreachable backends keep their own shape.
func loginError(err error) error {
	var be *gateway.BackendError
	if errors.As(err, &be) && be.Status < http.StatusInternalServerError {
		msg := be.FirstNonField()
		if msg == "" {
			msg = "Erreur de connexion"
		}
		return core.UnauthorizedError(msg)
	}
	if errors.Is(err, core.ErrUnavailable) {
		return core.BackendUnavailableError(err)
	}
	return err
}

// signupError joins every field error into a single displayable
// message, sorted by field name.
func signupError(err error) error {
	var be *gateway.BackendError
	if errors.As(err, &be) && be.Status < http.StatusInternalServerError {
		msg := be.Summary()
		if msg == "" {
			msg = "Erreur lors de l'inscription"
		}
		return core.ValidationError(msg, be.Fields)
	}
	if errors.Is(err, core.ErrUnavailable) {
		return core.BackendUnavailableError(err)
	}
	return err
}
