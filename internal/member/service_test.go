// AngelaMos | 2026
// service_test.go

package member

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

type noopActivity struct{}

func (noopActivity) Record(context.Context, string, string, string) {}

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gw := gateway.New(
		config.BackendConfig{BaseURL: srv.URL},
		noop.NewTracerProvider().Tracer("test"),
	)
	return NewService(gw, noopActivity{})
}

func testSession() *middleware.SessionData {
	return &middleware.SessionData{
		ID:       "sess-1",
		Username: "agent",
		Cookies:  map[string]string{"sessionid": "sid"},
	}
}

func TestCreateReturnsCardURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"csrfToken":"t"}`))
	})
	mux.HandleFunc("POST /adherents/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":17,"nom":"Bennis","prenom":"Sara","nax":"111111"}`))
	})

	svc := newTestService(t, mux)

	result, err := svc.Create(context.Background(), testSession(), Form{
		Nom: "Bennis", Prenom: "Sara", CIN: "AB1234",
	})
	require.NoError(t, err)
	require.Equal(t, int64(17), result.Member.ID)
	require.Equal(t, "/v1/members/17/card", result.CardURL)
}

func TestCreateJoinsFieldErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"csrfToken":"t"}`))
	})
	mux.HandleFunc("POST /adherents/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"cin":["déjà utilisé"],"nax":["invalide"]}`))
	})

	svc := newTestService(t, mux)

	_, err := svc.Create(context.Background(), testSession(), Form{
		Nom: "Bennis", Prenom: "Sara", CIN: "AB1234",
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "cin: déjà utilisé | nax: invalide", appErr.Message)
}

func TestSearchForwardsEntitlementFilter(t *testing.T) {
	mux := http.NewServeMux()
	var got string
	mux.HandleFunc("GET /adherents/", func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query().Get("a_droit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	svc := newTestService(t, mux)

	_, err := svc.Search(context.Background(), testSession(),
		SearchFilters{ADroit: "ayant_droit"})

	require.NoError(t, err)
	require.Equal(t, "ayant_droit", got)
}

func TestUpdateJoinsFieldErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"csrfToken":"t"}`))
	})
	mux.HandleFunc("PUT /adherents/17/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"cin":["déjà utilisé"]}`))
	})

	svc := newTestService(t, mux)

	_, err := svc.Update(context.Background(), testSession(), 17, Form{
		Nom: "Bennis", Prenom: "Sara", CIN: "AB1234",
	})

	// Same summary formatting as create.
	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "cin: déjà utilisé", appErr.Message)
	require.Equal(t,
		map[string][]string{"cin": {"déjà utilisé"}}, appErr.Fields)
}

func TestUpdateFailureWithoutDetailStaysGeneric(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"csrfToken":"t"}`))
	})
	mux.HandleFunc("PUT /adherents/17/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	svc := newTestService(t, mux)

	_, err := svc.Update(context.Background(), testSession(), 17, Form{
		Nom: "Bennis", Prenom: "Sara", CIN: "AB1234",
	})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t,
		"Erreur lors de la mise à jour de l'adhérent", appErr.Message)
}

func TestSearchMapsExpiredBackendSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /adherents/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	svc := newTestService(t, mux)

	_, err := svc.Search(context.Background(), testSession(), SearchFilters{})

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusUnauthorized, appErr.Status)
	require.Equal(t, "/login", appErr.Redirect)
}
