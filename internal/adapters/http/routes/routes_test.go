package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"peerpay/internal/adapters/cache"
	"peerpay/internal/adapters/http/middleware"
	"peerpay/internal/adapters/messaging"
	"peerpay/internal/config"
	"peerpay/internal/pkg/logger"
	"peerpay/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type authData struct {
	User struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"user"`
	Token string `json:"token"`
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode:  "dev",
		Services: []string{config.ServiceAuth, config.ServiceUsers, config.ServiceTransactions},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := testutil.NewDB(t)
	svc := NewServices(db, cfg, cache.NoopUsernameCache{}, messaging.NoopPublisher{}, logger.Discard())

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, svc, cfg)
	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}, headers ...string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func register(t *testing.T, app *fiber.App, username string) authData {
	t.Helper()

	status, env := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"displayname": username,
		"username":    username,
		"email":       username + "@example.com",
		"phone":       "+10000000001",
		"password":    "secret123",
	})
	require.Equal(t, http.StatusCreated, status, env.Error)

	var data authData
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data
}

func TestRoutes_RequireToken(t *testing.T) {
	app, _ := newTestApp(t, testConfig())

	for _, path := range []string{"/api/auth/me", "/api/feed", "/api/transactions"} {
		status, env := doJSON(t, app, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
		assert.False(t, env.Success)
	}

	status, _ := doJSON(t, app, http.MethodGet, "/api/feed", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoutes_RegisterLoginMe(t *testing.T) {
	app, _ := newTestApp(t, testConfig())

	alice := register(t, app, "alice")
	assert.NotEmpty(t, alice.Token)

	status, env := doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, env = doJSON(t, app, http.MethodGet, "/api/auth/me", alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"username":"alice"`)

	// same username again
	status, _ = doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"displayname": "Other",
		"username":    "alice",
		"email":       "other@example.com",
		"phone":       "+10000000002",
		"password":    "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestRoutes_DepositAndSend(t *testing.T) {
	app, db := newTestApp(t, testConfig())
	alice := register(t, app, "alice")
	bob := register(t, app, "bob")

	status, env := doJSON(t, app, http.MethodPost, "/api/transactions/deposit", alice.Token,
		map[string]interface{}{"amount": 100}, "Idempotency-Key", "dep-1")
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), `"newBalance":"100"`)

	// replay leaves the balance alone
	status, env = doJSON(t, app, http.MethodPost, "/api/transactions/deposit", alice.Token,
		map[string]interface{}{"amount": 100}, "Idempotency-Key", "dep-1")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"replayed":true`)

	status, env = doJSON(t, app, http.MethodPost, "/api/transactions/send", alice.Token,
		map[string]interface{}{"recipient": "bob", "amount": 40, "note": "lunch", "isPublic": true})
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.Contains(t, string(env.Data), `"newBalance":"60"`)

	status, env = doJSON(t, app, http.MethodPost, "/api/transactions/withdraw", alice.Token,
		map[string]interface{}{"amount": 1000})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "insufficient balance", env.Error)

	bobUser := testutil.UserByName(t, db, "bob")
	assert.Equal(t, "40", testutil.Balance(t, db, bobUser.ID).String())

	status, env = doJSON(t, app, http.MethodGet, "/api/transactions?page=1&limit=10", bob.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"total":1`)
}

func TestRoutes_UserIDMismatch(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	alice := register(t, app, "alice")
	bob := register(t, app, "bob")

	status, env := doJSON(t, app, http.MethodGet, "/api/users/"+bob.User.ID, alice.Token, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Forbidden", env.Error)

	status, _ = doJSON(t, app, http.MethodGet, "/api/users/"+alice.User.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/transactions/deposit", alice.Token,
		map[string]interface{}{"userId": bob.User.ID, "amount": 10})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/users/add-friend", alice.Token,
		map[string]string{"userId": bob.User.ID, "friendUsername": "carol"})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRoutes_FriendsAndFeed(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	alice := register(t, app, "alice")
	bob := register(t, app, "bob")

	status, env := doJSON(t, app, http.MethodPost, "/api/users/add-friend", alice.Token,
		map[string]string{"friendUsername": "bob"})
	require.Equal(t, http.StatusOK, status, env.Error)

	status, env = doJSON(t, app, http.MethodPost, "/api/users/add-friend", alice.Token,
		map[string]string{"friendUsername": "bob"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "friend request already sent", env.Error)

	status, _ = doJSON(t, app, http.MethodPost, "/api/users/accept-friend-request", bob.Token,
		map[string]string{"friendUsername": "alice"})
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/transactions/deposit", bob.Token,
		map[string]interface{}{"amount": 50})
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, app, http.MethodPost, "/api/transactions/send", bob.Token,
		map[string]interface{}{"recipient": "alice", "amount": 5, "note": "coffee", "isPublic": true})
	require.Equal(t, http.StatusOK, status)

	status, env = doJSON(t, app, http.MethodGet, "/api/feed", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"note":"coffee"`)

	status, env = doJSON(t, app, http.MethodGet, "/api/users/username/"+bob.User.ID, alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"username":"bob"`)
}

func TestRoutes_ServiceGroups(t *testing.T) {
	cfg := testConfig()
	cfg.Services = []string{config.ServiceAuth}
	app, _ := newTestApp(t, cfg)

	alice := register(t, app, "alice")

	status, _ := doJSON(t, app, http.MethodGet, "/api/transactions", alice.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRoutes_Health(t *testing.T) {
	app, _ := newTestApp(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body.Checks["database"])
}
