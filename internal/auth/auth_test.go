package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "wavecoach.identity"
)

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":    "coach-1",
		"iss":    testIssuer,
		"coach":  true,
		"scopes": []string{"athletes:write", "activities:read"},
		"exp":    time.Now().Add(time.Hour).Unix(),
	}
}

func TestParseValidToken(t *testing.T) {
	cfg := Config{Secret: testSecret, Issuer: testIssuer}
	token := signToken(t, validClaims(), testSecret)

	claims, err := Parse(token, cfg)
	require.NoError(t, err)
	require.Equal(t, "coach-1", claims.Subject)
	require.True(t, claims.Coach)
	require.True(t, claims.HasScope(ScopeAthletesWrite))
	require.True(t, claims.HasScope(ScopeActivitiesRead))
	require.False(t, claims.HasScope(ScopeActivitiesWrite))
}

func TestParseRejectsBadTokens(t *testing.T) {
	cfg := Config{Secret: testSecret, Issuer: testIssuer}

	_, err := Parse("", cfg)
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = Parse("not-a-jwt", cfg)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = Parse(signToken(t, validClaims(), "wrong-secret"), cfg)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := validClaims()
	wrongIssuer["iss"] = "someone-else"
	_, err = Parse(signToken(t, wrongIssuer, testSecret), cfg)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired := validClaims()
	expired["exp"] = time.Now().Add(-time.Hour).Unix()
	_, err = Parse(signToken(t, expired, testSecret), cfg)
	require.ErrorIs(t, err, ErrInvalidToken)

	noSubject := validClaims()
	delete(noSubject, "sub")
	_, err = Parse(signToken(t, noSubject, testSecret), cfg)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNormalizeScopesAcceptsSpaceSeparatedString(t *testing.T) {
	cfg := Config{Secret: testSecret, Issuer: testIssuer}

	claims := validClaims()
	claims["scopes"] = "activities:read activities:write"
	parsed, err := Parse(signToken(t, claims, testSecret), cfg)
	require.NoError(t, err)
	require.True(t, parsed.HasScope(ScopeActivitiesRead))
	require.True(t, parsed.HasScope(ScopeActivitiesWrite))
}

func TestMiddlewareWrap(t *testing.T) {
	cfg := Config{Secret: testSecret, Issuer: testIssuer}
	mw := NewMiddleware(cfg, func(r *http.Request) bool {
		return r.URL.Path == "/healthz"
	})

	var captured *Claims
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// Authorized request carries claims into the context.
	req := httptest.NewRequest(http.MethodGet, "/v1/athletes", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(), testSecret))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	require.Equal(t, "coach-1", captured.Subject)

	// Missing header is rejected.
	captured = nil
	req = httptest.NewRequest(http.MethodGet, "/v1/athletes", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The skipper lets health checks through without a token.
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, captured)
}
