package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestApp() *fiber.App {
	app := fiber.New()
	auth := app.Group("/api/auth")
	auth.Post("/register", HandleRegister)
	auth.Post("/login", HandleLogin)
	auth.Post("/logout", HandleLogout)
	auth.Get("/status", AuthMiddleware(models.RoleViewer), HandleAuthStatus)
	return app
}

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	setupTestDB(t)
	app := authTestApp()

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleAdmin, user.Role)

	// Registration logs the user in
	var names []string
	for _, cookie := range resp.Cookies() {
		names = append(names, cookie.Name)
	}
	assert.Contains(t, names, "access_token")
	assert.Contains(t, names, "refresh_token")
}

func TestRegisterSecondUserRequiresInvite(t *testing.T) {
	setupTestDB(t)
	app := authTestApp()

	_, err := models.CreateUser("alice", "password123", models.RoleAdmin)
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/register", map[string]string{
		"username": "bob",
		"password": "password123",
	}))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	invite, err := models.CreateInvite(models.RoleEditor, "alice")
	require.NoError(t, err)

	resp, err = app.Test(jsonRequest(t, "POST", "/api/auth/register", map[string]string{
		"username":     "bob",
		"password":     "password123",
		"invite_token": invite.Token,
	}))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)
	assert.Equal(t, models.RoleEditor, user.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	setupTestDB(t)
	app := authTestApp()

	_, err := models.CreateUser("alice", "password123", models.RoleAdmin)
	require.NoError(t, err)

	resp, err := app.Test(jsonRequest(t, "POST", "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "nope",
	}))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLoginAndStatus(t *testing.T) {
	setupTestDB(t)
	app := authTestApp()

	_, err := models.CreateUser("alice", "password123", models.RoleAdmin)
	require.NoError(t, err)

	cookies := authCookies(t, app, "alice", "password123")

	req := httptest.NewRequest("GET", "/api/auth/status", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var user models.User
	decodeBody(t, resp, &user)
	assert.Equal(t, "alice", user.Username)
}

func TestLogoutInvalidatesRefreshToken(t *testing.T) {
	setupTestDB(t)
	app := authTestApp()

	_, err := models.CreateUser("alice", "password123", models.RoleAdmin)
	require.NoError(t, err)

	cookies := authCookies(t, app, "alice", "password123")

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// Token version moved on, so the old refresh token no longer works
	user, err := models.FindUserByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, uint(1), user.TokenVersion)
}
