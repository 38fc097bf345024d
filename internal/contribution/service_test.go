// AngelaMos | 2026
// service_test.go

package contribution

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

func fixedService(now string) *Service {
	fixed, _ := time.Parse("2006-01-02", now)
	return &Service{now: func() time.Time { return fixed }}
}

func strPtr(s string) *string { return &s }

func TestCanModifyMissingStartDate(t *testing.T) {
	svc := fixedService("2026-08-31")

	require.True(t, svc.CanModify(nil))
	require.True(t, svc.CanModify(strPtr("")))
}

func TestCanModifyWindowBoundaries(t *testing.T) {
	svc := fixedService("2026-08-31")

	// Same day, exactly 30 days, and 31 days elapsed. The rule is
	// strictly greater than 30.
	require.False(t, svc.CanModify(strPtr("2026-08-31")))
	require.False(t, svc.CanModify(strPtr("2026-08-01")))
	require.True(t, svc.CanModify(strPtr("2026-07-31")))
}

func TestCanModifyUnparseableDate(t *testing.T) {
	svc := fixedService("2026-08-31")

	require.False(t, svc.CanModify(strPtr("not-a-date")))
}

func TestBuildPatchStatusYes(t *testing.T) {
	svc := fixedService("2026-08-31")

	patch := svc.buildPatch(StatusUpdate{Cotisation: "oui"})

	require.Equal(t, "oui", patch.Cotisation)
	require.Equal(t, gateway.DroitAyant, patch.ADroit)
	require.NotNil(t, patch.DateDebut)
	require.Equal(t, "2026-08-31", *patch.DateDebut)
	require.Nil(t, patch.DateFin)
}

func TestBuildPatchStatusNo(t *testing.T) {
	svc := fixedService("2026-08-31")

	patch := svc.buildPatch(StatusUpdate{Cotisation: "non"})

	require.Equal(t, "non", patch.Cotisation)
	require.Equal(t, gateway.DroitSans, patch.ADroit)
	require.Nil(t, patch.DateDebut)
	require.Nil(t, patch.DateFin)
}

func TestSearchDecoratesRowsWithEditWindow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /cotisations/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"cotisation":"oui","date_debut":"2026-08-15"},
			{"id":2,"cotisation":"oui","date_debut":"2026-06-01"},
			{"id":3,"cotisation":"non","date_debut":null}
		]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc := fixedService("2026-08-31")
	svc.gw = gateway.New(
		config.BackendConfig{BaseURL: srv.URL},
		noop.NewTracerProvider().Tracer("test"),
	)

	rows, err := svc.Search(context.Background(), &middleware.SessionData{
		ID:      "sess-1",
		Cookies: map[string]string{"sessionid": "sid"},
	}, SearchFilters{})

	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.False(t, rows[0].CanModify) // 16 days elapsed
	require.True(t, rows[1].CanModify)  // 91 days elapsed
	require.True(t, rows[2].CanModify)  // never started
}

func TestSearchFiltersQualifyMemberNames(t *testing.T) {
	filters := SearchFilters{
		Nom:        "Bennis",
		Prenom:     " Sara ",
		CIN:        "AB1234",
		Cotisation: "oui",
	}

	q := filters.Query()

	require.Equal(t, "Bennis", q.Get("adherent__nom"))
	require.Equal(t, "Sara", q.Get("adherent__prenom"))
	require.Equal(t, "AB1234", q.Get("cin"))
	require.Equal(t, "oui", q.Get("cotisation"))
}

func TestSearchFiltersStripEmptyValues(t *testing.T) {
	filters := SearchFilters{Nom: "   ", Cotisation: ""}

	require.Equal(t, url.Values{}, filters.Query())
}
