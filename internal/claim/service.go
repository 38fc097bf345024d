// AngelaMos | 2026
// service.go

package claim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modep/console/internal/core"
	"github.com/modep/console/internal/gateway"
	"github.com/modep/console/internal/middleware"
)

const (
	msgMemberNotFound = "Aucun adhérent trouvé avec ce NAX"
	msgMemberNoRight  = "L'adhérent n'a pas le droit de créer un dossier de soin."
	msgCreateFailed   = "Erreur lors de l'ajout du dossier"
	msgUpdateFailed   = "Erreur lors de la mise à jour"
)

type ActivityRecorder interface {
	Record(ctx context.Context, actor, action, detail string)
}

type Service struct {
	gw       *gateway.Client
	roster   RosterStore
	activity ActivityRecorder
}

func NewService(
	gw *gateway.Client,
	roster RosterStore,
	activity ActivityRecorder,
) *Service {
	return &Service{gw: gw, roster: roster, activity: activity}
}

func (s *Service) Search(
	ctx context.Context,
	sd *middleware.SessionData,
	filters SearchFilters,
) ([]gateway.Soin, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	soins, err := s.gw.ListSoins(ctx, sess, filters.Query())
	if err != nil {
		return nil, core.ProxyError(err)
	}

	if soins == nil {
		soins = []gateway.Soin{}
	}
	return soins, nil
}

func (s *Service) Get(
	ctx context.Context,
	sd *middleware.SessionData,
	id int64,
) (*gateway.Soin, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	soin, err := s.gw.GetSoin(ctx, sess, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("dossier")
		}
		return nil, core.ProxyError(err)
	}
	return soin, nil
}

// Lookup scans the cached roster for an exact NAX match. It is the
// live feedback behind the member-number input; a miss is a normal
// answer, not an error.
func (s *Service) Lookup(
	ctx context.Context,
	sd *middleware.SessionData,
	nax string,
) (*LookupResponse, error) {
	roster, err := s.rosterFor(ctx, sd)
	if err != nil {
		return nil, err
	}

	for i := range roster {
		if roster[i].NAX == nax {
			return &LookupResponse{
				Found: true,
				Member: &gateway.AdherentRef{
					ID:     roster[i].ID,
					NAX:    roster[i].NAX,
					Nom:    roster[i].Nom,
					Prenom: roster[i].Prenom,
					ADroit: roster[i].ADroit,
				},
				Entitled: roster[i].Entitled(),
			}, nil
		}
	}

	return &LookupResponse{Found: false}, nil
}

// Create gates the submission on the roster before any network call:
// an unknown NAX and an unentitled member are rejected locally, in
// that order. Only a passing member's backend id goes into the
// payload; the NAX never reaches the backend.
func (s *Service) Create(
	ctx context.Context,
	sd *middleware.SessionData,
	form Form,
) (*MutationResponse, error) {
	roster, err := s.rosterFor(ctx, sd)
	if err != nil {
		return nil, err
	}

	var member *gateway.Adherent
	for i := range roster {
		if roster[i].NAX == form.NAX {
			member = &roster[i]
			break
		}
	}

	if member == nil {
		return nil, core.BusinessRuleError(msgMemberNotFound)
	}
	if !member.Entitled() {
		return nil, core.BusinessRuleError(msgMemberNoRight)
	}

	sess := gateway.SessionFromCookies(sd.Cookies)

	created, err := s.gw.CreateSoin(ctx, sess, form.payload(member.ID))
	if err != nil {
		var be *gateway.BackendError
		if errors.As(err, &be) &&
			be.Status < http.StatusInternalServerError {
			return nil, core.ValidationError(msgCreateFailed, be.Fields)
		}
		return nil, core.ProxyError(err)
	}

	s.activity.Record(ctx, sd.Username, "claim.created",
		fmt.Sprintf("reçu %s (NAX %s)", created.NumRecu, member.NAX))

	return &MutationResponse{
		Claim:      created,
		ReceiptURL: fmt.Sprintf("/v1/claims/%d/receipt", created.ID),
	}, nil
}

// Update reuses the dossier's already-known member id; eligibility is
// not re-validated on edit.
func (s *Service) Update(
	ctx context.Context,
	sd *middleware.SessionData,
	id int64,
	form Form,
) (*MutationResponse, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	current, err := s.gw.GetSoin(ctx, sess, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("dossier")
		}
		return nil, core.ProxyError(err)
	}

	updated, err := s.gw.UpdateSoin(
		ctx, sess, id, form.payload(current.Adherent.ID))
	if err != nil {
		var be *gateway.BackendError
		if errors.As(err, &be) &&
			be.Status < http.StatusInternalServerError {
			return nil, core.ValidationError(msgUpdateFailed, nil)
		}
		return nil, core.ProxyError(err)
	}

	s.activity.Record(ctx, sd.Username, "claim.updated",
		fmt.Sprintf("reçu %s (NAX %s)",
			updated.NumRecu, updated.Adherent.NAX))

	return &MutationResponse{
		Claim:      updated,
		ReceiptURL: fmt.Sprintf("/v1/claims/%d/receipt", updated.ID),
	}, nil
}

// DownloadReceipt streams the generated receipt for a dossier.
func (s *Service) DownloadReceipt(
	ctx context.Context,
	sd *middleware.SessionData,
	id int64,
) (*gateway.Document, error) {
	sess := gateway.SessionFromCookies(sd.Cookies)

	doc, err := s.gw.DownloadRecu(ctx, sess, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("reçu")
		}
		return nil, core.ProxyError(err)
	}
	return doc, nil
}

// RefreshRoster forces a roster refetch, bypassing the cache.
func (s *Service) RefreshRoster(
	ctx context.Context,
	sd *middleware.SessionData,
) error {
	if err := s.roster.Invalidate(ctx, sd.ID); err != nil {
		slog.Warn("roster invalidation failed",
			"session_id", sd.ID,
			"error", err,
		)
	}

	_, err := s.rosterFor(ctx, sd)
	return err
}

// rosterFor returns the cached roster, fetching the full unfiltered
// member collection on a miss.
func (s *Service) rosterFor(
	ctx context.Context,
	sd *middleware.SessionData,
) ([]gateway.Adherent, error) {
	roster, err := s.roster.Get(ctx, sd.ID)
	if err == nil {
		return roster, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		slog.Warn("roster cache read failed, refetching",
			"session_id", sd.ID,
			"error", err,
		)
	}

	sess := gateway.SessionFromCookies(sd.Cookies)

	roster, err = s.gw.ListAdherents(ctx, sess, nil)
	if err != nil {
		return nil, core.ProxyError(err)
	}

	if putErr := s.roster.Put(ctx, sd.ID, roster); putErr != nil {
		slog.Warn("roster cache write failed",
			"session_id", sd.ID,
			"error", putErr,
		)
	}

	return roster, nil
}
