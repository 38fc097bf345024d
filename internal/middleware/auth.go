// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/modep/console/internal/core"
)

const SessionKey contextKey = "console_session"

// SessionData is the authenticated console session planted in the
// request context by Authenticator. Cookies hold the backend cookies
// needed to act on the user's behalf.
type SessionData struct {
	ID       string
	Username string
	IsStaff  bool
	Cookies  map[string]string
}

// SessionResolver turns a console session cookie into session state.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*SessionData, error)
}

// Authenticator is the route guard: requests without a live console
// session are answered with a login redirect, never rendered inline.
func Authenticator(
	resolver SessionResolver,
	cookieName string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				core.JSONError(w, core.SessionExpiredError())
				return
			}

			data, err := resolver.Resolve(r.Context(), cookie.Value)
			if err != nil {
				handleSessionError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, data)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireStaff gates operational endpoints on the backend staff flag.
func RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data := GetSession(r.Context())
		if data == nil {
			core.JSONError(w, core.SessionExpiredError())
			return
		}

		if !data.IsStaff {
			core.Forbidden(w, "réservé au personnel")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handleSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTokenExpired),
		errors.Is(err, core.ErrTokenInvalid),
		errors.Is(err, core.ErrNotFound):
		core.JSONError(w, core.SessionExpiredError())
	default:
		core.InternalServerError(w, err)
	}
}

func GetSession(ctx context.Context) *SessionData {
	if data, ok := ctx.Value(SessionKey).(*SessionData); ok {
		return data
	}
	return nil
}

// MustSession is the fail-fast accessor for handlers mounted behind
// Authenticator: a missing session there is a routing bug, not a
// runtime condition.
func MustSession(ctx context.Context) *SessionData {
	data := GetSession(ctx)
	if data == nil {
		panic("middleware: no session in context; handler mounted outside Authenticator")
	}
	return data
}
