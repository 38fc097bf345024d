// AngelaMos | 2026
// service_test.go

package claim

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

type fakeRoster struct {
	roster []gateway.Adherent
}

func (f *fakeRoster) Get(context.Context, string) ([]gateway.Adherent, error) {
	return f.roster, nil
}

func (f *fakeRoster) Put(context.Context, string, []gateway.Adherent) error {
	return nil
}

func (f *fakeRoster) Invalidate(context.Context, string) error {
	return nil
}

type noopActivity struct{}

func (noopActivity) Record(context.Context, string, string, string) {}

func testSession() *middleware.SessionData {
	return &middleware.SessionData{
		ID:       "sess-1",
		Username: "agent",
		Cookies:  map[string]string{"sessionid": "sid"},
	}
}

func newService(t *testing.T, handler http.Handler, roster []gateway.Adherent) (*Service, *atomic.Int64) {
	t.Helper()

	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			handler.ServeHTTP(w, r)
		}))
	t.Cleanup(srv.Close)

	gw := gateway.New(
		config.BackendConfig{BaseURL: srv.URL},
		noop.NewTracerProvider().Tracer("test"),
	)

	svc := NewService(gw, &fakeRoster{roster: roster}, noopActivity{})
	return svc, &hits
}

func validForm(nax string) Form {
	return Form{
		NAX:            nax,
		NumRecu:        "R-100",
		DateSoin:       "2026-03-01",
		MontantDossier: "1200.00",
		StatutDossier:  gateway.DossierRecu,
	}
}

func TestCreateRejectsUnknownNAX(t *testing.T) {
	roster := []gateway.Adherent{
		{ID: 1, NAX: "111111", ADroit: gateway.DroitAyant},
	}
	svc, hits := newService(t, http.NotFoundHandler(), roster)

	_, err := svc.Create(context.Background(), testSession(), validForm("000000"))

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "Aucun adhérent trouvé avec ce NAX", appErr.Message)
	require.Zero(t, hits.Load(), "rejection must happen before any backend call")
}

func TestCreateRejectsUnentitledMember(t *testing.T) {
	roster := []gateway.Adherent{
		{ID: 1, NAX: "111111", ADroit: gateway.DroitSans},
	}
	svc, hits := newService(t, http.NotFoundHandler(), roster)

	_, err := svc.Create(context.Background(), testSession(), validForm("111111"))

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t,
		"L'adhérent n'a pas le droit de créer un dossier de soin.",
		appErr.Message,
	)
	require.Zero(t, hits.Load())
}

func TestCreateSubstitutesMemberID(t *testing.T) {
	var payload map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"csrfToken":"t"}`))
	})
	mux.HandleFunc("POST /soins/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"num_recu":"R-100","adherent":{"id":42,"nax":"111111"}}`))
	})

	roster := []gateway.Adherent{
		{ID: 42, NAX: "111111", ADroit: gateway.DroitAyant},
	}
	svc, _ := newService(t, mux, roster)

	result, err := svc.Create(
		context.Background(), testSession(), validForm("111111"))
	require.NoError(t, err)

	require.Equal(t, float64(42), payload["adherent_id"])
	require.NotContains(t, payload, "nax")
	require.Equal(t, "/v1/claims/9/receipt", result.ReceiptURL)
}

func TestUpdateReusesKnownMemberWithoutRevalidation(t *testing.T) {
	var payload map[string]any

	mux := http.NewServeMux()
	mux.HandleFunc("GET /soins/9/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"adherent":{"id":42,"nax":"111111","a_droit":"sans_droit"}}`))
	})
	mux.HandleFunc("GET /auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"csrfToken":"t"}`))
	})
	mux.HandleFunc("PUT /soins/9/", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":9,"num_recu":"R-101","adherent":{"id":42,"nax":"111111"}}`))
	})

	// Empty roster: update must not consult it at all.
	svc, _ := newService(t, mux, nil)

	form := validForm("")
	form.NumRecu = "R-101"

	result, err := svc.Update(context.Background(), testSession(), 9, form)
	require.NoError(t, err)
	require.Equal(t, float64(42), payload["adherent_id"])
	require.Equal(t, "/v1/claims/9/receipt", result.ReceiptURL)
}

func TestLookupExactMatch(t *testing.T) {
	roster := []gateway.Adherent{
		{ID: 1, NAX: "111111", Nom: "Bennis", ADroit: gateway.DroitAyant},
		{ID: 2, NAX: "222222", Nom: "Tazi", ADroit: gateway.DroitSans},
	}
	svc, hits := newService(t, http.NotFoundHandler(), roster)

	found, err := svc.Lookup(context.Background(), testSession(), "222222")
	require.NoError(t, err)
	require.True(t, found.Found)
	require.Equal(t, int64(2), found.Member.ID)
	require.False(t, found.Entitled)

	miss, err := svc.Lookup(context.Background(), testSession(), "111112")
	require.NoError(t, err)
	require.False(t, miss.Found)
	require.Nil(t, miss.Member)

	require.Zero(t, hits.Load(), "lookup must never hit the backend")
}

func TestSearchFiltersQualifyMemberFields(t *testing.T) {
	filters := SearchFilters{
		NumRecu:       "R-1",
		Nom:           "Bennis",
		NAX:           "111111",
		StatutDossier: "rejet",
		Prenom:        "  ",
	}

	q := filters.Query()

	require.Equal(t, "R-1", q.Get("num_recu"))
	require.Equal(t, "Bennis", q.Get("adherent__nom"))
	require.Equal(t, "111111", q.Get("adherent__nax"))
	require.Equal(t, "rejet", q.Get("statut_dossier"))
	require.False(t, q.Has("adherent__prenom"))
}

func TestCreateGenericFailureMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/csrf/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"csrfToken":"t"}`))
	})
	mux.HandleFunc("POST /soins/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"num_recu":["déjà utilisé"]}`))
	})

	roster := []gateway.Adherent{
		{ID: 42, NAX: "111111", ADroit: gateway.DroitAyant},
	}
	svc, _ := newService(t, mux, roster)

	_, err := svc.Create(context.Background(), testSession(), validForm("111111"))

	var appErr *core.AppError
	require.True(t, errors.As(err, &appErr))
	require.Equal(t, "Erreur lors de l'ajout du dossier", appErr.Message)
	require.Equal(t, []string{"déjà utilisé"}, appErr.Fields["num_recu"])
}
