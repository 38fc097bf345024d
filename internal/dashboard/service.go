// AngelaMos | 2026
// service.go

package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

// frMonthsShort matches the fr-FR short month labels the charts key
// on (time zero-indexes differently, hence the explicit table).
var frMonthsShort = [12]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

// MonthBucket is one histogram bar: a localized month label and the
// claim count for care periods starting in that month. Only months
// present in the data appear; zero months produce no bucket.
type MonthBucket struct {
	Month string `json:"month"`
	Soins int    `json:"soins"`
}

type StatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Stats is the full dashboard payload derived from the three
// collections.
type Stats struct {
	TotalAdherents   int           `json:"total_adherents"`
	TotalCotisations int           `json:"total_cotisations"`
	TotalSoins       int           `json:"total_soins"`
	SoinsRecu        int           `json:"soins_recu"`
	SoinsRejet       int           `json:"soins_rejet"`
	Monthly          []MonthBucket `json:"monthly"`
	ByStatus         []StatusSlice `json:"by_status"`
}

type Service struct {
	gw *gateway.Client
}

func NewService(gw *gateway.Client) *Service {
	return &Service{gw: gw}
}

// Load fetches the three full collections concurrently and derives
// the summary figures. Any fetch failing degrades the whole load to
// zeroed stats rather than surfacing a partial result.
func (s *Service) Load(
	ctx context.Context,
	sd *middleware.SessionData,
) *Stats {
	sess := gateway.SessionFromCookies(sd.Cookies)

	var (
		wg          sync.WaitGroup
		adherents   []gateway.Adherent
		cotisations []gateway.Cotisation
		soins       []gateway.Soin

		adherentsErr   error
		cotisationsErr error
		soinsErr       error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		adherents, adherentsErr = s.gw.ListAdherents(ctx, sess, nil)
	}()
	go func() {
		defer wg.Done()
		cotisations, cotisationsErr = s.gw.ListCotisations(ctx, sess, nil)
	}()
	go func() {
		defer wg.Done()
		soins, soinsErr = s.gw.ListSoins(ctx, sess, nil)
	}()
	wg.Wait()

	for _, err := range []error{adherentsErr, cotisationsErr, soinsErr} {
		if err != nil {
			slog.Error("dashboard load failed, serving zeroed stats",
				"error", err,
			)
			return emptyStats()
		}
	}

	return derive(adherents, cotisations, soins)
}

func emptyStats() *Stats {
	return &Stats{
		Monthly: []MonthBucket{},
		ByStatus: []StatusSlice{
			{Name: "Dossiers Reçus", Value: 0},
			{Name: "Dossiers Rejetés", Value: 0},
		},
	}
}

func derive(
	adherents []gateway.Adherent,
	cotisations []gateway.Cotisation,
	soins []gateway.Soin,
) *Stats {
	recu, rejet := 0, 0
	for _, soin := range soins {
		switch soin.StatutDossier {
		case gateway.DossierRecu:
			recu++
		case gateway.DossierRejet:
			rejet++
		}
	}

	return &Stats{
		TotalAdherents:   len(adherents),
		TotalCotisations: len(cotisations),
		TotalSoins:       len(soins),
		SoinsRecu:        recu,
		SoinsRejet:       rejet,
		Monthly:          monthlyHistogram(soins),
		ByStatus: []StatusSlice{
			{Name: "Dossiers Reçus", Value: recu},
			{Name: "Dossiers Rejetés", Value: rejet},
		},
	}
}

// monthlyHistogram buckets claims by the localized month of their
// care-start date, in first-seen order. Claims with unparseable dates
// are skipped.
func monthlyHistogram(soins []gateway.Soin) []MonthBucket {
	counts := map[string]int{}
	order := []string{}

	for _, soin := range soins {
		start, err := time.Parse("2006-01-02", soin.DateSoin)
		if err != nil {
			continue
		}

		label := frMonthsShort[start.Month()-1]
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	buckets := make([]MonthBucket, 0, len(order))
	for _, label := range order {
		buckets = append(buckets, MonthBucket{
			Month: label,
			Soins: counts[label],
		})
	}

	return buckets
}
