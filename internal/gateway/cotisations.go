// AngelaMos | 2026
// cotisations.go

package gateway

import (
	"context"
	"fmt"
	"net/url"
)

const (
	CotisationOui = "oui"
	CotisationNon = "non"
)

// Cotisation is a member's contribution record. The backend serializer
// flattens the owning member's identity fields onto the row.
type Cotisation struct {
	ID              int64   `json:"id"`
	Nom             string  `json:"nom"`
	Prenom          string  `json:"prenom"`
	CIN             string  `json:"cin"`
	NAX             string  `json:"nax"`
	DateRecrutement string  `json:"date_recrutement"`
	Cotisation      string  `json:"cotisation"`
	ADroit          string  `json:"a_droit"`
	DateDebut       *string `json:"date_debut"`
	DateFin         *string `json:"date_fin"`
}

// CotisationPatch is the partial update sent by the status-toggle flow.
// Pointer fields marshal to explicit nulls, which the backend expects
// when a date is cleared.
type CotisationPatch struct {
	Cotisation string  `json:"cotisation"`
	ADroit     string  `json:"a_droit"`
	DateDebut  *string `json:"date_debut"`
	DateFin    *string `json:"date_fin"`
}

func (c *Client) ListCotisations(
	ctx context.Context,
	sess *Session,
	filters url.Values,
) ([]Cotisation, error) {
	var cotisations []Cotisation
	if err := c.Get(ctx, sess, "/cotisations/", filters, &cotisations); err != nil {
		return nil, fmt.Errorf("list cotisations: %w", err)
	}
	return cotisations, nil
}

func (c *Client) GetCotisation(
	ctx context.Context,
	sess *Session,
	id int64,
) (*Cotisation, error) {
	var cotisation Cotisation
	path := fmt.Sprintf("/cotisations/%d/", id)
	if err := c.Get(ctx, sess, path, nil, &cotisation); err != nil {
		return nil, fmt.Errorf("get cotisation: %w", err)
	}
	return &cotisation, nil
}

func (c *Client) CreateCotisation(
	ctx context.Context,
	sess *Session,
	record *Cotisation,
) (*Cotisation, error) {
	var created Cotisation
	if err := c.Post(ctx, sess, "/cotisations/", record, &created); err != nil {
		return nil, fmt.Errorf("create cotisation: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateCotisation(
	ctx context.Context,
	sess *Session,
	id int64,
	record *Cotisation,
) (*Cotisation, error) {
	var updated Cotisation
	path := fmt.Sprintf("/cotisations/%d/", id)
	if err := c.Put(ctx, sess, path, record, &updated); err != nil {
		return nil, fmt.Errorf("update cotisation: %w", err)
	}
	return &updated, nil
}

func (c *Client) PatchCotisation(
	ctx context.Context,
	sess *Session,
	id int64,
	patch *CotisationPatch,
) (*Cotisation, error) {
	var patched Cotisation
	path := fmt.Sprintf("/cotisations/%d/", id)
	if err := c.Patch(ctx, sess, path, patch, &patched); err != nil {
		return nil, fmt.Errorf("patch cotisation: %w", err)
	}
	return &patched, nil
}

// DeleteCotisation exists for contract completeness; no console screen
// calls it.
func (c *Client) DeleteCotisation(
	ctx context.Context,
	sess *Session,
	id int64,
) error {
	path := fmt.Sprintf("/cotisations/%d/", id)
	if err := c.Delete(ctx, sess, path); err != nil {
		return fmt.Errorf("delete cotisation: %w", err)
	}
	return nil
}
