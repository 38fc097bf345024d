// AngelaMos | 2026
// dto.go

package contribution

import (
	"net/url"
	"strings"

	"github.com/modep/console/internal/gateway"
)

// SearchFilters are the contribution list filters. Member-name
// lookups traverse the owning relation, so they map to
// relation-qualified backend parameter names; contribution-local
// fields stay flat.
type SearchFilters struct {
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	CIN        string `json:"cin"`
	Cotisation string `json:"cotisation"`
}

func (f SearchFilters) Query() url.Values {
	q := url.Values{}
	for name, value := range map[string]string{
		"adherent__nom":    f.Nom,
		"adherent__prenom": f.Prenom,
		"cin":              f.CIN,
		"cotisation":       f.Cotisation,
	} {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			q.Set(name, trimmed)
		}
	}
	return q
}

// Row is one contribution list entry, decorated with the computed
// edit-window flag so clients render the edit action without
// re-deriving the rule.
type Row struct {
	gateway.Cotisation
	CanModify bool `json:"can_modify"`
}

// StatusUpdate is the single mutable field of the edit flow.
type StatusUpdate struct {
	Cotisation string `json:"cotisation" validate:"required,oneof=oui non"`
}
