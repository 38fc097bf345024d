// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyBySessionUsesSessionID(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/members/", nil)
	req = req.WithContext(context.WithValue(
		req.Context(), SessionKey, &SessionData{ID: "sess-1"}))

	require.Equal(t, "ratelimit:session:sess-1", KeyBySession(req))
}

func TestKeyBySessionFallsBackToIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/v1/members/", nil)

	require.Equal(t, KeyByIP(req), KeyBySession(req))
}
