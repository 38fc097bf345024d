// AngelaMos | 2026
// service.go

package member

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

// ActivityRecorder is the slice of the activity feed this screen
// needs. Recording is best-effort and never fails the operation.
type ActivityRecorder interface {
	Record(ctx context.Context, actor, action, detail string)
}

type Service struct {
	gw       *gateway.Client
	activity ActivityRecorder
}

func NewService(gw *gateway.Client, activity ActivityRecorder) *Service {
	return &Service{gw: gw, activity: activity}
}

// Search replaces the whole result set; it never merges with a
// previous page.
func (s *Service) Search(
	ctx context.Context,
	sd *middleware.SessionData,
	filters SearchFilters,
) ([]gateway.Adherent, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	adherents, err := s.gw.ListAdherents(ctx, sess, filters.Query())
	if err != nil {
		return nil, core.ProxyError(err)
	}

	if adherents == nil {
		adherents = []gateway.Adherent{}
	}
	return adherents, nil
}

func (s *Service) Get(
	ctx context.Context,
	sd *middleware.SessionData,
	id int64,
) (*gateway.Adherent, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	adherent, err := s.gw.GetAdherent(ctx, sess, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("adhérent")
		}
		return nil, core.ProxyError(err)
	}
	return adherent, nil
}

// Create submits the form and, on success, hands back the console
// route for the newly generated membership card.
func (s *Service) Create(
	ctx context.Context,
	sd *middleware.SessionData,
	form Form,
) (*CreateResponse, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	created, err := s.gw.CreateAdherent(ctx, sess, form.record())
	if err != nil {
		var be *gateway.BackendError
		if errors.As(err, &be) &&
			be.Status < http.StatusInternalServerError {
			msg := be.Summary()
			if msg == "" {
				msg = "Erreur lors de la création de l'adhérent"
			}
			return nil, core.ValidationError(msg, be.Fields)
		}
		return nil, core.ProxyError(err)
	}

	s.activity.Record(ctx, sd.Username, "member.created",
		fmt.Sprintf("%s %s (NAX %s)", created.Nom, created.Prenom, created.NAX))

	return &CreateResponse{
		Member:  created,
		CardURL: fmt.Sprintf("/v1/members/%d/card", created.ID),
	}, nil
}

// Update submits the full record. Failures surface the same joined
// field summary as Create.
func (s *Service) Update(
	ctx context.Context,
	sd *middleware.SessionData,
	id int64,
	form Form,
) (*gateway.Adherent, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	updated, err := s.gw.UpdateAdherent(ctx, sess, id, form.record())
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("adhérent")
		}
		var be *gateway.BackendError
		if errors.As(err, &be) &&
			be.Status < http.StatusInternalServerError {
			msg := be.Summary()
			if msg == "" {
				msg = "Erreur lors de la mise à jour de l'adhérent"
			}
			return nil, core.ValidationError(msg, be.Fields)
		}
		return nil, core.ProxyError(err)
	}

	s.activity.Record(ctx, sd.Username, "member.updated",
		fmt.Sprintf("%s %s (NAX %s)", updated.Nom, updated.Prenom, updated.NAX))

	return updated, nil
}

// DownloadCard streams the backend-generated card through the console.
func (s *Service) DownloadCard(
	ctx context.Context,
	sd *middleware.SessionData,
	id int64,
) (*gateway.Document, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	doc, err := s.gw.DownloadCarte(ctx, sess, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("carte")
		}
		return nil, core.ProxyError(err)
	}
	return doc, nil
}
