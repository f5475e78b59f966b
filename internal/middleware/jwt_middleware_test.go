package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	token, err := GenerateToken("u-1", "buyer@example.com", "user", 1)
	require.NoError(t, err)

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		claims := GetClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, "buyer@example.com", claims.Email)
		assert.Equal(t, "user", claims.Role)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRejectsBadTokens(t *testing.T) {
	t.Parallel()

	e := echo.New()
	handler := JWTMiddleware()(func(c echo.Context) error {
		t.Error("handler must not run")
		return nil
	})

	for _, header := range []string{"", "Bearer not-a-token", "Basic dXNlcjpwdw==", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()

	e := echo.New()
	handler := AdminOnly(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(claimsKey, &Claims{UserID: "u-1", Role: "user"})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.Set(claimsKey, &Claims{UserID: "u-1", Role: "admin"})
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}
