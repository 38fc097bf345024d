// AngelaMos | 2026
// dto.go

package member

import (
	"net/url"
	"strings"

	"github.com/modep/console/internal/gateway"
)

// SearchFilters are the member list filters. Empty and
// whitespace-only values are stripped before hitting the backend.
type SearchFilters struct {
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	CIN    string `json:"cin"`
	NAX    string `json:"nax"`
	Statut string `json:"statut"`
	ADroit string `json:"a_droit"`
}

func (f SearchFilters) Query() url.Values {
	q := url.Values{}
	for name, value := range map[string]string{
		"nom":     f.Nom,
		"prenom":  f.Prenom,
		"cin":     f.CIN,
		"nax":     f.NAX,
		"statut":  f.Statut,
		"a_droit": f.ADroit,
	} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			q.Set(name, trimmed)
		}
	}
	return q
}

// Form is the member create/edit payload. Validation mirrors what the
// backend enforces on required identity fields.
type Form struct {
	Nom                string `json:"nom"                 validate:"required"`
	Prenom             string `json:"prenom"              validate:"required"`
	CIN                string `json:"cin"                 validate:"required"`
	NAX                string `json:"nax"`
	NumeroTel          string `json:"numero_tel"`
	RIB                string `json:"rib"`
	Ville              string `json:"ville"`
	Adresse            string `json:"adresse"`
	DateNaissance      string `json:"date_naissance"`
	Sexe               string `json:"sexe"                validate:"omitempty,oneof=M F"`
	OrganismeEmployeur string `json:"organisme_employeur"`
	SectionCotisation  string `json:"section_cotisation"`
	DateRecrutement    string `json:"date_recrutement"`
	Salaire            string `json:"salaire"`
	Statut             string `json:"statut"              validate:"omitempty,oneof=actif retraite"`
	ADroit             string `json:"a_droit"             validate:"omitempty,oneof=ayant_droit sans_droit"`
}

// Apply sets one field by name and returns whether the name was
// recognized. Changing the employer organization also overwrites the
// contribution section with the same value; the coupling is one-way,
// so a later direct edit of section_cotisation sticks.
func (f *Form) Apply(field, value string) bool {
	switch field {
	case "nom":
		f.Nom = value
	case "prenom":
		f.Prenom = value
	case "cin":
		f.CIN = value
	case "nax":
		f.NAX = value
	case "numero_tel":
		f.NumeroTel = value
	case "rib":
		f.RIB = value
	case "ville":
		f.Ville = value
	case "adresse":
		f.Adresse = value
	case "date_naissance":
		f.DateNaissance = value
	case "sexe":
		f.Sexe = value
	case "organisme_employeur":
		f.OrganismeEmployeur = value
		f.SectionCotisation = value
	case "section_cotisation":
		f.SectionCotisation = value
	case "date_recrutement":
		f.DateRecrutement = value
	case "salaire":
		f.Salaire = value
	case "statut":
		f.Statut = value
	case "a_droit":
		f.ADroit = value
	default:
		return false
	}
	return true
}

// FormFromRecord pre-populates an edit form from a fetched record.
func FormFromRecord(a *gateway.Adherent) Form {
	return Form{
		Nom:                a.Nom,
		Prenom:             a.Prenom,
		CIN:                a.CIN,
		NAX:                a.NAX,
		NumeroTel:          a.NumeroTel,
		RIB:                a.RIB,
		Ville:              a.Ville,
		Adresse:            a.Adresse,
		DateNaissance:      a.DateNaissance,
		Sexe:               a.Sexe,
		OrganismeEmployeur: a.OrganismeEmployeur,
		SectionCotisation:  a.SectionCotisation,
		DateRecrutement:    a.DateRecrutement,
		Salaire:            a.Salaire,
		Statut:             a.Statut,
		ADroit:             a.ADroit,
	}
}

func (f Form) record() *gateway.Adherent {
	return &gateway.Adherent{
		Nom:                f.Nom,
		Prenom:             f.Prenom,
		CIN:                f.CIN,
		NAX:                f.NAX,
		NumeroTel:          f.NumeroTel,
		RIB:                f.RIB,
		Ville:              f.Ville,
		Adresse:            f.Adresse,
		DateNaissance:      f.DateNaissance,
		Sexe:               f.Sexe,
		OrganismeEmployeur: f.OrganismeEmployeur,
		SectionCotisation:  f.SectionCotisation,
		DateRecrutement:    f.DateRecrutement,
		Salaire:            f.Salaire,
		Statut:             f.Statut,
		ADroit:             f.ADroit,
	}
}

// CreateResponse points the client at the freshly generated card.
type CreateResponse struct {
	Member  *gateway.Adherent `json:"member"`
	CardURL string            `json:"card_url"`
}
