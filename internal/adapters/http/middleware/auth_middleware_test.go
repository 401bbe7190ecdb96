package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"peerpay/internal/config"
	"peerpay/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/whoami", AuthMiddleware(cfg), func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return fiber.ErrUnauthorized
		}
		return c.SendString(identity.Username + ":" + identity.UserID.String())
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpiryHours: 1}}
	app := newAuthApp(cfg)

	userID := uuid.New()
	token, err := jwt.GenerateAccessToken(userID, "alice@example.com", "alice", cfg.JWT.Secret, 1)
	require.NoError(t, err)
	otherToken, err := jwt.GenerateAccessToken(userID, "alice@example.com", "alice", "other-secret", 1)
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: token}) }, http.StatusOK},
		{"not bearer", func(r *http.Request) { r.Header.Set("Authorization", "Basic "+token) }, http.StatusUnauthorized},
		{"wrong secret", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+otherToken) }, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			tt.setup(req)

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestNoCacheHeaders(t *testing.T) {
	app := fiber.New()
	app.Get("/", NoCacheHeaders(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/cached", PrivateCacheHeaders(5*time.Minute), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/cached", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, "private, max-age=300", resp.Header.Get("Cache-Control"))
}
