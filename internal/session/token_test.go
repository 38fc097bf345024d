// AngelaMos | 2026
// token_test.go

package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/modep/console/internal/config"
	"github.com/modep/console/internal/core"
)

func testTokenConfig(secret string) config.SessionConfig {
	return config.SessionConfig{
		Secret: secret,
		Issuer: "modep-console",
		TTL:    time.Hour,
	}
}

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenRoundTrip(t *testing.T) {
	mgr, err := NewTokenManager(testTokenConfig(testSecret))
	require.NoError(t, err)

	token, err := mgr.Issue("sess-42")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := mgr.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "sess-42", id)
}

func TestTokenRejectsForeignKey(t *testing.T) {
	mgr, err := NewTokenManager(testTokenConfig(testSecret))
	require.NoError(t, err)

	other, err := NewTokenManager(
		testTokenConfig("ffffffffffffffffffffffffffffffff"))
	require.NoError(t, err)

	token, err := mgr.Issue("sess-42")
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenRejectsExpired(t *testing.T) {
	cfg := testTokenConfig(testSecret)
	cfg.TTL = -time.Hour

	mgr, err := NewTokenManager(cfg)
	require.NoError(t, err)

	token, err := mgr.Issue("sess-42")
	require.NoError(t, err)

	_, err = mgr.Verify(token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestTokenRejectsGarbage(t *testing.T) {
	mgr, err := NewTokenManager(testTokenConfig(testSecret))
	require.NoError(t, err)

	_, err = mgr.Verify("not-a-jwt")
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}
