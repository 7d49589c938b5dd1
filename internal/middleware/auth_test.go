package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func newTestAuth() *Authenticator {
	return NewAuthenticator(testSecret, "scholarsync", "scholarsync-api")
}

func mustIssue(t *testing.T, a *Authenticator, s Session, ttl time.Duration) string {
	t.Helper()
	tok, err := a.Issue(s, ttl)
	require.NoError(t, err)
	return tok
}

func TestAuthenticator_Required(t *testing.T) {
	auth := newTestAuth()
	app := fiber.New()
	app.Get("/test", auth.Required(), func(c *fiber.Ctx) error {
		s, ok := SessionFrom(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{"userID": c.Locals("userID"), "name": s.Name})
	})

	otherIssuer := NewAuthenticator(testSecret, "someone-else", "scholarsync-api")
	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID string
	}{
		{"happy path", "Bearer " + mustIssue(t, auth, Session{UserID: "user-1", Name: "Ada"}, time.Hour), http.StatusOK, "user-1"},
		{"lowercase scheme", "bearer " + mustIssue(t, auth, Session{UserID: "user-2"}, time.Hour), http.StatusOK, "user-2"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"invalid format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ""},
		{"expired token", "Bearer " + mustIssue(t, auth, Session{UserID: "user-1"}, -time.Hour), http.StatusUnauthorized, ""},
		{"wrong issuer", "Bearer " + mustIssue(t, otherIssuer, Session{UserID: "user-1"}, time.Hour), http.StatusUnauthorized, ""},
		{"empty subject", "Bearer " + mustIssue(t, auth, Session{}, time.Hour), http.StatusUnauthorized, ""},
		{"alg none", "Bearer " + noneToken, http.StatusUnauthorized, ""},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]interface{}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedUserID, body["userID"])
			}
		})
	}
}

func TestAuthenticator_Optional(t *testing.T) {
	auth := newTestAuth()
	app := fiber.New()
	app.Get("/test", auth.Optional(), func(c *fiber.Ctx) error {
		uid, _ := c.Locals("userID").(string)
		return c.SendString(uid)
	})

	t.Run("anonymous passes", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("valid token attaches session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+mustIssue(t, auth, Session{UserID: "user-9"}, time.Hour))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bad token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer nope")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestAuthenticator_WebSocketQueryToken(t *testing.T) {
	auth := newTestAuth()
	app := fiber.New()
	app.Get("/ws", auth.WebSocket(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("userID").(string))
	})

	tok := mustIssue(t, auth, Session{UserID: "socket-user"}, time.Hour)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws?token="+tok, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticator_ParseClaims(t *testing.T) {
	auth := newTestAuth()
	tok := mustIssue(t, auth, Session{UserID: "u", Name: "Grace", Image: "https://img/x.png", Email: "g@uni.edu"}, time.Minute)

	s, err := auth.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, &Session{UserID: "u", Name: "Grace", Image: "https://img/x.png", Email: "g@uni.edu"}, s)

	wrongSecret := NewAuthenticator("another-secret-another-secret-another", "scholarsync", "scholarsync-api")
	_, err = wrongSecret.Parse(tok)
	assert.Error(t, err)
}
