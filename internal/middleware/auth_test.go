// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/modep/console/internal/core"
)

type fakeResolver struct {
	data *SessionData
	err  error
}

func (f *fakeResolver) Resolve(context.Context, string) (*SessionData, error) {
	return f.data, f.err
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticatorMissingCookieRedirects(t *testing.T) {
	mw := Authenticator(&fakeResolver{}, "modep_session")

	handler := mw(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without a session")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/members", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "/login", decodeEnvelope(t, rec)["redirect"])
}

func TestAuthenticatorExpiredTokenRedirects(t *testing.T) {
	mw := Authenticator(
		&fakeResolver{err: core.ErrTokenExpired}, "modep_session")

	handler := mw(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run with an expired session")
		}))

	req := httptest.NewRequest(http.MethodGet, "/v1/members", nil)
	req.AddCookie(&http.Cookie{Name: "modep_session", Value: "stale"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "/login", decodeEnvelope(t, rec)["redirect"])
}

func TestAuthenticatorInjectsSession(t *testing.T) {
	want := &SessionData{ID: "s1", Username: "agent", IsStaff: true}
	mw := Authenticator(&fakeResolver{data: want}, "modep_session")

	var got *SessionData
	handler := mw(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			got = MustSession(r.Context())
		}))

	req := httptest.NewRequest(http.MethodGet, "/v1/members", nil)
	req.AddCookie(&http.Cookie{Name: "modep_session", Value: "tok"})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, want, got)
}

func TestRequireStaffBlocksRegularUsers(t *testing.T) {
	handler := RequireStaff(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run for non-staff users")
		}))

	sd := &SessionData{ID: "s1", Username: "agent", IsStaff: false}
	req := httptest.NewRequest(http.MethodGet, "/v1/admin/stats", nil)
	req = req.WithContext(
		context.WithValue(req.Context(), SessionKey, sd))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMustSessionPanicsOutsideAuthenticator(t *testing.T) {
	require.Panics(t, func() {
		MustSession(context.Background())
	})
}
