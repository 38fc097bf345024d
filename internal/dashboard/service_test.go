// AngelaMos | 2026
// service_test.go

package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

func TestMonthlyHistogramOnlyPresentMonths(t *testing.T) {
	soins := []gateway.Soin{
		{DateSoin: "2026-03-10"},
		{DateSoin: "2026-03-22"},
		{DateSoin: "2026-06-01"},
	}

	buckets := monthlyHistogram(soins)

	// Two distinct months produce exactly two buckets, not a
	// pre-seeded calendar.
	require.Len(t, buckets, 2)
	require.Equal(t, MonthBucket{Month: "mars", Soins: 2}, buckets[0])
	require.Equal(t, MonthBucket{Month: "juin", Soins: 1}, buckets[1])
}

func TestMonthlyHistogramFirstSeenOrder(t *testing.T) {
	soins := []gateway.Soin{
		{DateSoin: "2026-12-05"},
		{DateSoin: "2026-01-17"},
		{DateSoin: "2026-12-20"},
	}

	buckets := monthlyHistogram(soins)

	require.Equal(t, "déc.", buckets[0].Month)
	require.Equal(t, "janv.", buckets[1].Month)
}

func TestMonthlyHistogramSkipsUnparseableDates(t *testing.T) {
	soins := []gateway.Soin{
		{DateSoin: "2026-05-01"},
		{DateSoin: ""},
		{DateSoin: "garbage"},
	}

	buckets := monthlyHistogram(soins)

	require.Len(t, buckets, 1)
	require.Equal(t, "mai", buckets[0].Month)
}

func TestDerivePartitionsByStatus(t *testing.T) {
	stats := derive(
		make([]gateway.Adherent, 5),
		make([]gateway.Cotisation, 3),
		[]gateway.Soin{
			{StatutDossier: gateway.DossierRecu, DateSoin: "2026-02-01"},
			{StatutDossier: gateway.DossierRecu, DateSoin: "2026-02-02"},
			{StatutDossier: gateway.DossierRejet, DateSoin: "2026-02-03"},
		},
	)

	require.Equal(t, 5, stats.TotalAdherents)
	require.Equal(t, 3, stats.TotalCotisations)
	require.Equal(t, 3, stats.TotalSoins)
	require.Equal(t, 2, stats.SoinsRecu)
	require.Equal(t, 1, stats.SoinsRejet)
	require.Equal(t, 2, stats.ByStatus[0].Value)
	require.Equal(t, 1, stats.ByStatus[1].Value)
}

func TestLoadZeroesEverythingOnPartialFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /adherents/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	})
	mux.HandleFunc("GET /soins/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	})
	mux.HandleFunc("GET /cotisations/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc := NewService(gateway.New(
		config.BackendConfig{BaseURL: srv.URL},
		noop.NewTracerProvider().Tracer("test"),
	))

	stats := svc.Load(context.Background(), &middleware.SessionData{
		ID:      "sess-1",
		Cookies: map[string]string{},
	})

	// One failed collection discards the other two.
	require.Zero(t, stats.TotalAdherents)
	require.Zero(t, stats.TotalSoins)
	require.Empty(t, stats.Monthly)
}

func TestLoadDerivesFromAllThreeCollections(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /adherents/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	})
	mux.HandleFunc("GET /cotisations/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	})
	mux.HandleFunc("GET /soins/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":1,"statut_dossier":"recu","date_soin":"2026-04-02"},
			{"id":2,"statut_dossier":"rejet","date_soin":"2026-04-20"}
		]`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	svc := NewService(gateway.New(
		config.BackendConfig{BaseURL: srv.URL},
		noop.NewTracerProvider().Tracer("test"),
	))

	stats := svc.Load(context.Background(), &middleware.SessionData{
		ID:      "sess-1",
		Cookies: map[string]string{},
	})

	require.Equal(t, 2, stats.TotalAdherents)
	require.Equal(t, 1, stats.TotalCotisations)
	require.Equal(t, 2, stats.TotalSoins)
	require.Equal(t, 1, stats.SoinsRecu)
	require.Equal(t, 1, stats.SoinsRejet)
	require.Equal(t, []MonthBucket{{Month: "avr.", Soins: 2}}, stats.Monthly)
}
