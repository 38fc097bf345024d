// AngelaMos | 2026
// service.go

package contribution

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

const editWindowDays = 30

const editWindowMessage = "Modification possible uniquement après 1 mois de la date de début."

type ActivityRecorder interface {
	Record(ctx context.Context, actor, action, detail string)
}

type Service struct {
	gw       *gateway.Client
	activity ActivityRecorder
	now      func() time.Time
}

func NewService(gw *gateway.Client, activity ActivityRecorder) *Service {
	return &Service{gw: gw, activity: activity, now: time.Now}
}

// CanModify reports whether a contribution's status may be edited: a
// missing start date always may, otherwise strictly more than 30 days
// must have elapsed since it. An unparseable date denies the edit.
func (s *Service) CanModify(dateDebut *string) bool {
	if dateDebut == nil || *dateDebut == "" {
		return true
	}

	start, err := time.Parse("2006-01-02", *dateDebut)
	if err != nil {
		return false
	}

	elapsed := s.now().Sub(start).Hours() / 24
	return elapsed > editWindowDays
}

func (s *Service) Search(
	ctx context.Context,
	sd *middleware.SessionData,
	filters SearchFilters,
) ([]Row, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	cotisations, err := s.gw.ListCotisations(ctx, sess, filters.Query())
	if err != nil {
		return nil, core.ProxyError(err)
	}

	rows := make([]Row, 0, len(cotisations))
	for _, c := range cotisations {
		rows = append(rows, Row{
			Cotisation: c,
			CanModify:  s.CanModify(c.DateDebut),
		})
	}
	return rows, nil
}

func (s *Service) Get(
	ctx context.Context,
	sd *middleware.SessionData,
	id int64,
) (*gateway.Cotisation, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	cotisation, err := s.gw.GetCotisation(ctx, sess, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("cotisation")
		}
		return nil, core.ProxyError(err)
	}
	return cotisation, nil
}

// SaveStatus applies the status toggle. The edit-window rule is
// re-checked against a fresh read of the record, then the patch is
// derived entirely from the new status: "oui" opens entitlement today
// with no end date, anything else closes it and clears both dates.
func (s *Service) SaveStatus(
	ctx context.Context,
	sd *middleware.SessionData,
	id int64,
	update StatusUpdate,
) (*gateway.Cotisation, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	current, err := s.gw.GetCotisation(ctx, sess, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("cotisation")
		}
		return nil, core.ProxyError(err)
	}

	if !s.CanModify(current.DateDebut) {
		return nil, core.BusinessRuleError(editWindowMessage)
	}

	patched, err := s.gw.PatchCotisation(ctx, sess, id, s.buildPatch(update))
	if err != nil {
		var be *gateway.BackendError
		if errors.As(err, &be) &&
			be.Status < http.StatusInternalServerError {
			return nil, core.ValidationError(
				"Erreur lors de la mise à jour de la cotisation", nil)
		}
		return nil, core.ProxyError(err)
	}

	s.activity.Record(ctx, sd.Username, "contribution.updated",
		fmt.Sprintf("%s %s (NAX %s) -> %s",
			patched.Nom, patched.Prenom, patched.NAX, update.Cotisation))

	return patched, nil
}

func (s *Service) buildPatch(update StatusUpdate) *gateway.CotisationPatch {
	patch := &gateway.CotisationPatch{
		Cotisation: update.Cotisation,
		ADroit:     gateway.DroitSans,
	}

	if update.Cotisation == gateway.CotisationOui {
		today := s.now().Format("2006-01-02")
		patch.ADroit = gateway.DroitAyant
		patch.DateDebut = &today
	}

	// date_fin stays null on both branches; only the backend closes
	// an entitlement period.
	return patch
}
