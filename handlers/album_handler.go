package handlers

import (
	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
)

// HandleGetAlbums lists albums underneath a parent, top-level by default
func HandleGetAlbums(c *fiber.Ctx) error {
	albums, err := models.GetAlbums(int64(c.QueryInt("parent_id")))
	if err != nil {
		return sendInternalServerError(c, "failed to list albums", err)
	}
	return c.JSON(albums)
}

// HandleGetAlbum returns an album with its file count
func HandleGetAlbum(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid album id")
	}

	album, err := models.GetAlbum(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load album", err)
	}
	if album == nil {
		return sendNotFoundError(c, "album not found")
	}

	count, err := models.GetAlbumFileCount(id)
	if err != nil {
		return sendInternalServerError(c, "failed to count album files", err)
	}

	return c.JSON(fiber.Map{
		"album":      album,
		"file_count": count,
	})
}

// HandleCreateAlbum creates a new album
func HandleCreateAlbum(c *fiber.Ctx) error {
	var album models.Album
	if err := c.BodyParser(&album); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	created, err := models.CreateAlbum(album)
	if err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateAlbum renames or reparents an album
func HandleUpdateAlbum(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid album id")
	}

	album, err := models.GetAlbum(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load album", err)
	}
	if album == nil {
		return sendNotFoundError(c, "album not found")
	}

	var body models.Album
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	album.Name = body.Name
	album.ParentID = body.ParentID
	if err := models.UpdateAlbum(album); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.JSON(album)
}

// HandleDeleteAlbum removes an album and its child albums
func HandleDeleteAlbum(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid album id")
	}

	if err := models.DeleteAlbum(id); err != nil {
		return sendInternalServerError(c, "failed to delete album", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleAddFileToAlbum links a file into an album. The file leaves any
// ancestor album it was in so a picture lives in one branch only.
func HandleAddFileToAlbum(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid album id")
	}
	fileID := c.Params("fileId")

	exists, err := models.FileExists(fileID)
	if err != nil {
		return sendInternalServerError(c, "failed to load file", err)
	}
	if !exists {
		return sendNotFoundError(c, "file not found")
	}

	if err := models.AddFileToAlbum(id, fileID); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.SendStatus(fiber.StatusCreated)
}

// HandleRemoveFileFromAlbum unlinks a file from an album
func HandleRemoveFileFromAlbum(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid album id")
	}

	if err := models.RemoveFileFromAlbum(id, c.Params("fileId")); err != nil {
		return sendInternalServerError(c, "failed to remove file from album", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
