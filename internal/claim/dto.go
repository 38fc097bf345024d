// AngelaMos | 2026
// dto.go

package claim

import (
	"net/url"
	"strings"

	"github.com/modep/console/internal/gateway"
)

// SearchFilters are the claim list filters. Member identity fields
// traverse the owning relation; dossier-local fields stay flat.
type SearchFilters struct {
	NumRecu       string `json:"num_recu"`
	Nom           string `json:"nom"`
	Prenom        string `json:"prenom"`
	NAX           string `json:"nax"`
	StatutDossier string `json:"statut_dossier"`
}

func (f SearchFilters) Query() url.Values {
	q := url.Values{}
	for name, value := range map[string]string{
		"num_recu":         f.NumRecu,
		"adherent__nom":    f.Nom,
		"adherent__prenom": f.Prenom,
		"adherent__nax":    f.NAX,
		"statut_dossier":   f.StatutDossier,
	} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			q.Set(name, trimmed)
		}
	}
	return q
}

// Form is the claim create/edit payload. On create the member is
// addressed by NAX and resolved against the roster before anything is
// sent; on update the NAX is ignored and the dossier's known member
// id is reused.
type Form struct {
	NAX            string `json:"nax"`
	NumRecu        string `json:"num_recu"        validate:"required"`
	DateSoin       string `json:"date_soin"       validate:"required"`
	DateFinSoin    string `json:"date_fin_soin"`
	MontantDossier string `json:"montant_dossier" validate:"required"`
	StatutDossier  string `json:"statut_dossier"  validate:"required,oneof=recu rejet"`
	TypeBeneficier string `json:"type_beneficier"`
}

func (f Form) payload(adherentID int64) *gateway.SoinPayload {
	typeBeneficier := f.TypeBeneficier
	if typeBeneficier == "" {
		typeBeneficier = "Adherent"
	}

	return &gateway.SoinPayload{
		AdherentID:     adherentID,
		NumRecu:        f.NumRecu,
		DateSoin:       f.DateSoin,
		DateFinSoin:    f.DateFinSoin,
		MontantDossier: f.MontantDossier,
		StatutDossier:  f.StatutDossier,
		TypeBeneficier: typeBeneficier,
	}
}

// LookupResponse is the live NAX feedback: whether an exact roster
// match exists and, when it does, enough of the member to render the
// eligibility badge.
type LookupResponse struct {
	Found    bool                 `json:"found"`
	Member   *gateway.AdherentRef `json:"member,omitempty"`
	Entitled bool                 `json:"entitled"`
}

// MutationResponse points the client at the generated receipt.
type MutationResponse struct {
	Claim      *gateway.Soin `json:"claim"`
	ReceiptURL string        `json:"receipt_url"`
}
