package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "github.com/artemv/authcore/api/http"
	"github.com/artemv/authcore/api/http/handlers"
	"github.com/artemv/authcore/pkg/auth"
	"github.com/artemv/authcore/pkg/health"
	"github.com/artemv/authcore/pkg/repository/memory"
	"github.com/artemv/authcore/pkg/session"
)

const cookieName = "session_id"

func newTestApp(t *testing.T) (*fiber.App, *memory.UserRepository) {
	t.Helper()

	repo := memory.NewUserRepository()
	sessions := session.NewMemoryManager(time.Hour)
	useCase := auth.NewAuthService(repo, auth.NewBcryptHasher())

	app := fiber.New()
	authHandler := handlers.NewAuthHandler(useCase, sessions, cookieName, false, time.Hour)
	healthHandler := handlers.NewHealthHandler(health.NewService())
	apihttp.Register(app, authHandler, healthHandler, session.NewRequireSession(sessions, cookieName))
	return app, repo
}

// brokenRepo simulates a store outage on every call.
type brokenRepo struct{}

func (brokenRepo) Create(context.Context, string, string, string) (auth.User, error) {
	return auth.User{}, errors.New("connection refused")
}
func (brokenRepo) GetByEmail(context.Context, string) (auth.User, error) {
	return auth.User{}, errors.New("connection refused")
}
func (brokenRepo) GetByID(context.Context, uuid.UUID) (auth.User, error) {
	return auth.User{}, errors.New("connection refused")
}

func newBrokenStoreApp(t *testing.T) *fiber.App {
	t.Helper()

	sessions := session.NewMemoryManager(time.Hour)
	useCase := auth.NewAuthService(brokenRepo{}, auth.NewBcryptHasher())

	app := fiber.New()
	authHandler := handlers.NewAuthHandler(useCase, sessions, cookieName, false, time.Hour)
	healthHandler := handlers.NewHealthHandler(health.NewService())
	apihttp.Register(app, authHandler, healthHandler, session.NewRequireSession(sessions, cookieName))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cookieName)
	return nil
}

func register(t *testing.T, app *fiber.App, name, email, password string) map[string]any {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/register", fiber.Map{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody(t, resp)
}

func TestRegister_Success(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/register", fiber.Map{
		"name": "Ann", "email": "ann@x.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "hash")

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, "ann@x.com", body["email"])
	assert.NotEmpty(t, body["id"])
}

func TestRegister_MissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	tests := []fiber.Map{
		{"email": "ann@x.com", "password": "secret123"},
		{"name": "Ann", "password": "secret123"},
		{"name": "Ann", "email": "ann@x.com"},
		{},
	}
	for _, payload := range tests {
		resp := doJSON(t, app, fiber.MethodPost, "/register", payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
}

func TestRegister_ValidationMessages(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/register", fiber.Map{
		"name": "Ann", "email": "not-an-address", "password": "abc",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	fields, ok := body["errors"].(map[string]any)
	require.True(t, ok, "expected per-field errors, got %v", body)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "Ann", "ann@x.com", "secret123")

	resp := doJSON(t, app, fiber.MethodPost, "/register", fiber.Map{
		"name": "Another Ann", "email": "ann@x.com", "password": "other-secret",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	app, _ := newTestApp(t)
	registered := register(t, app, "Ann", "ann@x.com", "secret123")

	resp := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{
		"email": "ann@x.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cookie := sessionCookie(t, resp)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	body := decodeBody(t, resp)
	assert.Equal(t, registered["id"], body["id"])
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, "ann@x.com", body["email"])
}

func TestLogin_MissingFields(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{"email": "ann@x.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{"password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogin_UniformInvalidCredentials(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "Ann", "ann@x.com", "secret123")

	wrongPassword := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{
		"email": "ann@x.com", "password": "wrong-password",
	})
	unknownEmail := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{
		"email": "nobody@x.com", "password": "secret123",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)

	// The two failure modes must be byte-identical.
	first, err := io.ReadAll(wrongPassword.Body)
	require.NoError(t, err)
	second, err := io.ReadAll(unknownEmail.Body)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLogin_StoreFailureIs500(t *testing.T) {
	app := newBrokenStoreApp(t)

	resp := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{
		"email": "ann@x.com", "password": "secret123",
	})
	// A store outage must not masquerade as bad credentials.
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestProfile_RequiresSession(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "unauthorized, please login", body["message"])

	resp = doJSON(t, app, fiber.MethodGet, "/profile", nil, &http.Cookie{Name: cookieName, Value: "bogus"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "unauthorized, please login", body["message"])
}

func TestProfile_ReturnsStoredUser(t *testing.T) {
	app, _ := newTestApp(t)
	registered := register(t, app, "Ann", "ann@x.com", "secret123")

	login := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{
		"email": "ann@x.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, login.StatusCode)
	cookie := sessionCookie(t, login)

	resp := doJSON(t, app, fiber.MethodGet, "/profile", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, registered["id"], body["id"])
	assert.Equal(t, "Ann", body["name"])
	assert.Equal(t, "ann@x.com", body["email"])
	assert.NotEmpty(t, body["createdAt"])
	assert.NotEmpty(t, body["updatedAt"])
	assert.NotContains(t, body, "password")
}

func TestProfile_UserDeletedAfterLogin(t *testing.T) {
	app, repo := newTestApp(t)
	registered := register(t, app, "Ann", "ann@x.com", "secret123")

	login := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{
		"email": "ann@x.com", "password": "secret123",
	})
	cookie := sessionCookie(t, login)

	id, err := uuid.Parse(registered["id"].(string))
	require.NoError(t, err)
	repo.Delete(context.Background(), id)

	resp := doJSON(t, app, fiber.MethodGet, "/profile", nil, cookie)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLogout_IsIdempotent(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "Ann", "ann@x.com", "secret123")

	login := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{
		"email": "ann@x.com", "password": "secret123",
	})
	cookie := sessionCookie(t, login)

	first := doJSON(t, app, fiber.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	// Same cookie again, and no cookie at all: both still 200.
	second := doJSON(t, app, fiber.MethodPost, "/logout", nil, cookie)
	assert.Equal(t, http.StatusOK, second.StatusCode)
	third := doJSON(t, app, fiber.MethodPost, "/logout", nil)
	assert.Equal(t, http.StatusOK, third.StatusCode)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	app, _ := newTestApp(t)
	register(t, app, "Ann", "ann@x.com", "secret123")

	login := doJSON(t, app, fiber.MethodPost, "/login", fiber.Map{
		"email": "ann@x.com", "password": "secret123",
	})
	cookie := sessionCookie(t, login)

	logout := doJSON(t, app, fiber.MethodPost, "/logout", nil, cookie)
	require.Equal(t, http.StatusOK, logout.StatusCode)

	cleared := sessionCookie(t, logout)
	assert.Empty(t, cleared.Value)

	resp := doJSON(t, app, fiber.MethodGet, "/profile", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
