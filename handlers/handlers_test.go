package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// setupTestDB points the models package at a throwaway database
func setupTestDB(t *testing.T) {
	t.Helper()
	utils.SetJWTKey("test-signing-key")
	require.NoError(t, models.Initialize(t.TempDir()))
	t.Cleanup(func() { models.Close() })
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, target))
}

// authCookies logs a user in through the login handler and returns the
// session cookies for follow-up requests
func authCookies(t *testing.T, app *fiber.App, username, password string) []*http.Cookie {
	t.Helper()

	req := jsonRequest(t, "POST", "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	return resp.Cookies()
}
