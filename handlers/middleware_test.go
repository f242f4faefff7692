package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

// fakeUsers overrides the user lookup so middleware tests don't need a
// database
func fakeUsers(t *testing.T, users map[string]*models.User) {
	t.Helper()
	original := models.FindUserByUsername
	models.FindUserByUsername = func(username string) (*models.User, error) {
		return users[username], nil
	}
	t.Cleanup(func() { models.FindUserByUsername = original })
}

func protectedApp(requiredRole string) *fiber.App {
	app := fiber.New()
	app.Get("/protected", AuthMiddleware(requiredRole), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"username": currentUsername(c)})
	})
	return app
}

func TestAuthMiddlewareNoCookies(t *testing.T) {
	utils.SetJWTKey("test-signing-key")
	app := protectedApp(models.RoleViewer)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthMiddlewareValidAccessToken(t *testing.T) {
	utils.SetJWTKey("test-signing-key")
	fakeUsers(t, map[string]*models.User{
		"alice": {Username: "alice", Role: models.RoleViewer},
	})

	token, err := utils.GenerateToken("alice", "access", 0, time.Now().Add(time.Minute))
	assert.NoError(t, err)

	app := protectedApp(models.RoleViewer)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "alice", body["username"])
}

func TestAuthMiddlewareInsufficientRole(t *testing.T) {
	utils.SetJWTKey("test-signing-key")
	fakeUsers(t, map[string]*models.User{
		"alice": {Username: "alice", Role: models.RoleViewer},
	})

	token, err := utils.GenerateToken("alice", "access", 0, time.Now().Add(time.Minute))
	assert.NoError(t, err)

	app := protectedApp(models.RoleAdmin)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestAuthMiddlewareBannedUser(t *testing.T) {
	utils.SetJWTKey("test-signing-key")
	fakeUsers(t, map[string]*models.User{
		"mallory": {Username: "mallory", Role: models.RoleAdmin, Banned: true},
	})

	token, err := utils.GenerateToken("mallory", "access", 0, time.Now().Add(time.Minute))
	assert.NoError(t, err)

	app := protectedApp(models.RoleViewer)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestAuthMiddlewareStaleTokenVersion(t *testing.T) {
	utils.SetJWTKey("test-signing-key")
	fakeUsers(t, map[string]*models.User{
		"alice": {Username: "alice", Role: models.RoleViewer, TokenVersion: 2},
	})

	// Token minted before the version bump
	token, err := utils.GenerateToken("alice", "access", 1, time.Now().Add(time.Minute))
	assert.NoError(t, err)

	app := protectedApp(models.RoleViewer)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthMiddlewareRefreshFlow(t *testing.T) {
	utils.SetJWTKey("test-signing-key")
	fakeUsers(t, map[string]*models.User{
		"alice": {Username: "alice", Role: models.RoleViewer},
	})

	refreshToken, err := utils.GenerateToken("alice", "refresh", 0, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	app := protectedApp(models.RoleViewer)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refreshToken})

	resp, err := app.Test(req)
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	// The middleware rotated both tokens
	var names []string
	for _, cookie := range resp.Cookies() {
		if cookie.Value != "" {
			names = append(names, cookie.Name)
		}
	}
	assert.Contains(t, names, "access_token")
	assert.Contains(t, names, "refresh_token")
}

func TestRoleHierarchy(t *testing.T) {
	assert.Greater(t, roleHierarchy[models.RoleAdmin], roleHierarchy[models.RoleEditor])
	assert.Greater(t, roleHierarchy[models.RoleEditor], roleHierarchy[models.RoleViewer])
	assert.Zero(t, roleHierarchy["unknown"])
}
