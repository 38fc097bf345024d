// AngelaMos | 2026
// soins.go

package gateway

import (
	"context"
	"fmt"
	"net/url"
)

const (
	DossierRecu  = "recu"
	DossierRejet = "rejet"
)

// AdherentRef is the nested member summary the backend embeds in a
// care dossier.
type AdherentRef struct {
	ID     int64  `json:"id"`
	NAX    string `json:"nax"`
	Nom    string `json:"nom"`
	Prenom string `json:"prenom"`
	ADroit string `json:"a_droit"`
}

// Soin is a medical-care claim dossier.
type Soin struct {
	ID             int64       `json:"id"`
	Adherent       AdherentRef `json:"adherent"`
	NumRecu        string      `json:"num_recu"`
	DateSoin       string      `json:"date_soin"`
	DateFinSoin    string      `json:"date_fin_soin"`
	MontantDossier string      `json:"montant_dossier"`
	StatutDossier  string      `json:"statut_dossier"`
	TypeBeneficier string      `json:"type_beneficier"`
}

// SoinPayload is what create/update actually send: the member is
// referenced by backend id, never by nax (nax is a lookup key only).
type SoinPayload struct {
	AdherentID     int64  `json:"adherent_id"`
	NumRecu        string `json:"num_recu"`
	DateSoin       string `json:"date_soin"`
	DateFinSoin    string `json:"date_fin_soin"`
	MontantDossier string `json:"montant_dossier"`
	StatutDossier  string `json:"statut_dossier"`
	TypeBeneficier string `json:"type_beneficier"`
}

func (c *Client) ListSoins(
	ctx context.Context,
	sess *Session,
	filters url.Values,
) ([]Soin, error) {
	var soins []Soin
	if err := c.Get(ctx, sess, "/soins/", filters, &soins); err != nil {
		return nil, fmt.Errorf("list soins: %w", err)
	}
	return soins, nil
}

func (c *Client) GetSoin(
	ctx context.Context,
	sess *Session,
	id int64,
) (*Soin, error) {
	var soin Soin
	path := fmt.Sprintf("/soins/%d/", id)
	if err := c.Get(ctx, sess, path, nil, &soin); err != nil {
		return nil, fmt.Errorf("get soin: %w", err)
	}
	return &soin, nil
}

func (c *Client) CreateSoin(
	ctx context.Context,
	sess *Session,
	payload *SoinPayload,
) (*Soin, error) {
	var created Soin
	if err := c.Post(ctx, sess, "/soins/", payload, &created); err != nil {
		return nil, fmt.Errorf("create soin: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateSoin(
	ctx context.Context,
	sess *Session,
	id int64,
	payload *SoinPayload,
) (*Soin, error) {
	var updated Soin
	path := fmt.Sprintf("/soins/%d/", id)
	if err := c.Put(ctx, sess, path, payload, &updated); err != nil {
		return nil, fmt.Errorf("update soin: %w", err)
	}
	return &updated, nil
}

// DeleteSoin exists for contract completeness; no console screen
// calls it.
func (c *Client) DeleteSoin(
	ctx context.Context,
	sess *Session,
	id int64,
) error {
	path := fmt.Sprintf("/soins/%d/", id)
	if err := c.Delete(ctx, sess, path); err != nil {
		return fmt.Errorf("delete soin: %w", err)
	}
	return nil
}

// DownloadRecu streams the generated receipt for a dossier. The
// receipt lives at a fixed path keyed by claim id.
func (c *Client) DownloadRecu(
	ctx context.Context,
	sess *Session,
	id int64,
) (*Document, error) {
	path := fmt.Sprintf("/recu/%d/", id)
	doc, err := c.Download(ctx, sess, path)
	if err != nil {
		return nil, fmt.Errorf("download recu: %w", err)
	}
	return doc, nil
}
