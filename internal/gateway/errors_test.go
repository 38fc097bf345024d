// AngelaMos | 2026
// errors_test.go

package gateway

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/modep/console/internal/core"
)

func TestSummaryJoinsFieldsSorted(t *testing.T) {
	be := &BackendError{
		Status: http.StatusBadRequest,
		Fields: map[string][]string{
			"username": {"déjà pris"},
			"email":    {"invalide", "trop long"},
		},
	}

	require.Equal(t,
		"email: invalide, trop long | username: déjà pris",
		be.Summary(),
	)
}

func TestSummaryFallsBackToDetail(t *testing.T) {
	be := &BackendError{
		Status: http.StatusBadRequest,
		Detail: "requête invalide",
	}

	require.Equal(t, "requête invalide", be.Summary())
}

func TestFirstNonField(t *testing.T) {
	be := &BackendError{
		Status: http.StatusBadRequest,
		Fields: map[string][]string{
			"non_field_errors": {"Identifiants incorrects", "autre"},
		},
	}
	require.Equal(t, "Identifiants incorrects", be.FirstNonField())

	empty := &BackendError{Status: http.StatusBadRequest}
	require.Equal(t, "", empty.FirstNonField())
}

func TestUnwrapMapsStatusToSentinels(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, core.ErrUnauthorized},
		{http.StatusForbidden, core.ErrForbidden},
		{http.StatusNotFound, core.ErrNotFound},
	}

	for _, tc := range cases {
		be := &BackendError{Status: tc.status}
		require.ErrorIs(t, be, tc.want)
	}

	require.NoError(t, (&BackendError{Status: http.StatusBadRequest}).Unwrap())
}

func TestParseErrorBodyDuckTypes(t *testing.T) {
	be := &BackendError{Fields: map[string][]string{}}

	parseErrorBody([]byte(`{
		"detail": "objet introuvable",
		"nom": ["obligatoire"],
		"cin": "déjà utilisé"
	}`), be)

	require.Equal(t, "objet introuvable", be.Detail)
	require.Equal(t, []string{"obligatoire"}, be.Fields["nom"])
	require.Equal(t, []string{"déjà utilisé"}, be.Fields["cin"])
}

func TestParseErrorBodyIgnoresGarbage(t *testing.T) {
	be := &BackendError{Fields: map[string][]string{}}

	parseErrorBody([]byte(`<html>gateway timeout</html>`), be)

	require.Empty(t, be.Detail)
	require.Empty(t, be.Fields)
}
