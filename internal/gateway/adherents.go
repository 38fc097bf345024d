// AngelaMos | 2026
// adherents.go

package gateway

import (
	"context"
	"fmt"
	"net/url"
)

const (
	StatutActif    = "actif"
	StatutRetraite = "retraite"

	DroitAyant = "ayant_droit"
	DroitSans  = "sans_droit"
)

// Adherent mirrors the backend member record. Identifiers (cin, nax)
// are assigned and guaranteed unique by the backend; dates travel as
// ISO date-only strings.
type Adherent struct {
	ID                 int64  `json:"id,omitempty"`
	Nom                string `json:"nom"`
	Prenom             string `json:"prenom"`
	CIN                string `json:"cin"`
	NAX                string `json:"nax"`
	NumeroTel          string `json:"numero_tel"`
	RIB                string `json:"rib"`
	Ville              string `json:"ville"`
	Adresse            string `json:"adresse"`
	DateNaissance      string `json:"date_naissance"`
	Sexe               string `json:"sexe"`
	OrganismeEmployeur string `json:"organisme_employeur"`
	SectionCotisation  string `json:"section_cotisation"`
	DateRecrutement    string `json:"date_recrutement"`
	Salaire            string `json:"salaire"`
	Statut             string `json:"statut"`
	ADroit             string `json:"a_droit"`
}

func (a *Adherent) Entitled() bool {
	return a.ADroit == DroitAyant
}

func (c *Client) ListAdherents(
	ctx context.Context,
	sess *Session,
	filters url.Values,
) ([]Adherent, error) {
	var adherents []Adherent
	if err := c.Get(ctx, sess, "/adherents/", filters, &adherents); err != nil {
		return nil, fmt.Errorf("list adherents: %w", err)
	}
	return adherents, nil
}

func (c *Client) GetAdherent(
	ctx context.Context,
	sess *Session,
	id int64,
) (*Adherent, error) {
	var adherent Adherent
	path := fmt.Sprintf("/adherents/%d/", id)
	if err := c.Get(ctx, sess, path, nil, &adherent); err != nil {
		return nil, fmt.Errorf("get adherent: %w", err)
	}
	return &adherent, nil
}

func (c *Client) CreateAdherent(
	ctx context.Context,
	sess *Session,
	record *Adherent,
) (*Adherent, error) {
	var created Adherent
	if err := c.Post(ctx, sess, "/adherents/", record, &created); err != nil {
		return nil, fmt.Errorf("create adherent: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateAdherent(
	ctx context.Context,
	sess *Session,
	id int64,
	record *Adherent,
) (*Adherent, error) {
	var updated Adherent
	path := fmt.Sprintf("/adherents/%d/", id)
	if err := c.Put(ctx, sess, path, record, &updated); err != nil {
		return nil, fmt.Errorf("update adherent: %w", err)
	}
	return &updated, nil
}

// DeleteAdherent exists for contract completeness; no console screen
// calls it.
func (c *Client) DeleteAdherent(
	ctx context.Context,
	sess *Session,
	id int64,
) error {
	path := fmt.Sprintf("/adherents/%d/", id)
	if err := c.Delete(ctx, sess, path); err != nil {
		return fmt.Errorf("delete adherent: %w", err)
	}
	return nil
}

// DownloadCarte streams the backend-generated membership card.
func (c *Client) DownloadCarte(
	ctx context.Context,
	sess *Session,
	id int64,
) (*Document, error) {
	path := fmt.Sprintf("/adherents/%d/carte/download/", id)
	doc, err := c.Download(ctx, sess, path)
	if err != nil {
		return nil, fmt.Errorf("download carte: %w", err)
	}
	return doc, nil
}
