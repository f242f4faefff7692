package handlers

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func albumTestApp() *fiber.App {
	app := fiber.New()
	albums := app.Group("/api/albums")
	albums.Get("", HandleGetAlbums)
	albums.Post("", HandleCreateAlbum)
	albums.Get("/:id", HandleGetAlbum)
	albums.Put("/:id", HandleUpdateAlbum)
	albums.Delete("/:id", HandleDeleteAlbum)
	albums.Put("/:id/files/:fileId", HandleAddFileToAlbum)
	albums.Delete("/:id/files/:fileId", HandleRemoveFileFromAlbum)
	return app
}

func TestCreateAndGetAlbum(t *testing.T) {
	setupTestDB(t)
	app := albumTestApp()

	resp, err := app.Test(jsonRequest(t, "POST", "/api/albums", map[string]string{
		"name": "Summer 2024",
	}))
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var album models.Album
	decodeBody(t, resp, &album)
	assert.Equal(t, "Summer 2024", album.Name)
	assert.NotZero(t, album.ID)

	resp, err = app.Test(httptest.NewRequest("GET", fmt.Sprintf("/api/albums/%d", album.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCreateAlbumEmptyName(t *testing.T) {
	setupTestDB(t)
	app := albumTestApp()

	resp, err := app.Test(jsonRequest(t, "POST", "/api/albums", map[string]string{
		"name": "",
	}))
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestGetAlbumNotFound(t *testing.T) {
	setupTestDB(t)
	app := albumTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/albums/999", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestAddFileToAlbumMissingFile(t *testing.T) {
	setupTestDB(t)
	app := albumTestApp()

	album, err := models.CreateAlbum(models.Album{Name: "Trips"})
	require.NoError(t, err)

	req := httptest.NewRequest("PUT", fmt.Sprintf("/api/albums/%d/files/2024-01-01_10-00-00_0000", album.ID), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDeleteAlbum(t *testing.T) {
	setupTestDB(t)
	app := albumTestApp()

	album, err := models.CreateAlbum(models.Album{Name: "To remove"})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("DELETE", fmt.Sprintf("/api/albums/%d", album.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)

	gone, err := models.GetAlbum(album.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}
