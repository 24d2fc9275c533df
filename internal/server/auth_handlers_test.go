package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"listhub/internal/config"
	"listhub/internal/models"
	"listhub/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestServer wires a Server against an in-memory database with no Redis.
// Routes only; the middleware chain is exercised separately.
func setupTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Listing{}, &models.Vote{}))

	srv := &Server{
		config: &config.Config{
			JWTSecret: "test-secret-key",
			Port:      "5001",
			PageSize:  10,
		},
		db:          db,
		userRepo:    repository.NewUserRepository(db),
		listingRepo: repository.NewListingRepository(db),
	}

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func jsonRequest(t *testing.T, app *fiber.App, method, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, app *fiber.App, n int) (string, uint) {
	t.Helper()

	resp, body := jsonRequest(t, app, "POST", "/api/auth/register", map[string]string{
		"username": fmt.Sprintf("testuser%d", n),
		"email":    fmt.Sprintf("test%d@example.com", n),
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	user := body["user"].(map[string]any)
	return token, uint(user["id"].(float64))
}

func TestRegister(t *testing.T) {
	_, app := setupTestServer(t)

	resp, body := jsonRequest(t, app, "POST", "/api/auth/register", map[string]string{
		"username": "newuser",
		"email":    "new@example.com",
		"password": "password123",
	}, "")

	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "newuser", user["username"])
	assert.Equal(t, "new@example.com", user["email"])
}

func TestRegister_ValidationErrors(t *testing.T) {
	_, app := setupTestServer(t)

	resp, body := jsonRequest(t, app, "POST", "/api/auth/register", map[string]string{
		"username": "x",
		"email":    "not-an-email",
		"password": "abc",
	}, "")

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, body["code"])

	fields := body["fields"].(map[string]any)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	_, app := setupTestServer(t)
	registerUser(t, app, 1)

	resp, body := jsonRequest(t, app, "POST", "/api/auth/register", map[string]string{
		"username": "otheruser",
		"email":    "test1@example.com",
		"password": "password123",
	}, "")

	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Email already in use", body["error"])
}

func TestRegister_DuplicateUsername(t *testing.T) {
	_, app := setupTestServer(t)
	registerUser(t, app, 1)

	resp, body := jsonRequest(t, app, "POST", "/api/auth/register", map[string]string{
		"username": "testuser1",
		"email":    "different@example.com",
		"password": "password123",
	}, "")

	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "Username already taken", body["error"])
}

func TestLogin(t *testing.T) {
	_, app := setupTestServer(t)
	registerUser(t, app, 1)

	resp, body := jsonRequest(t, app, "POST", "/api/auth/login", map[string]string{
		"email":    "test1@example.com",
		"password": "password123",
	}, "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "testuser1", user["username"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, app := setupTestServer(t)
	registerUser(t, app, 1)

	// Wrong password and unknown account produce the same response.
	resp, body := jsonRequest(t, app, "POST", "/api/auth/login", map[string]string{
		"email":    "test1@example.com",
		"password": "wrongpassword",
	}, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["error"])

	resp, body = jsonRequest(t, app, "POST", "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "password123",
	}, "")
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid email or password", body["error"])
}

func TestGetMe(t *testing.T) {
	_, app := setupTestServer(t)
	token, userID := registerUser(t, app, 1)

	resp, body := jsonRequest(t, app, "GET", "/api/auth/me", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	user := body["user"].(map[string]any)
	assert.EqualValues(t, userID, user["id"])
	assert.Equal(t, "testuser1", user["username"])
	assert.Equal(t, "test1@example.com", user["email"])
}

func TestGetMe_RequiresToken(t *testing.T) {
	_, app := setupTestServer(t)

	resp, _ := jsonRequest(t, app, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = jsonRequest(t, app, "GET", "/api/auth/me", nil, "garbage-token")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	srv, app := setupTestServer(t)
	registerUser(t, app, 1)

	other := &Server{config: &config.Config{JWTSecret: "some-other-secret"}}
	token, err := other.generateToken(1)
	require.NoError(t, err)

	resp, _ := jsonRequest(t, app, "GET", "/api/auth/me", nil, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	_, ok := srv.parseToken(token)
	assert.False(t, ok)
}
