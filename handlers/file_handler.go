package handlers

import (
	"encoding/json"

	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// HandleGetFiles lists files filtered by query parameters
func HandleGetFiles(c *fiber.Ctx) error {
	filter := models.FileFilter{
		FolderID:          int64(c.QueryInt("folder_id")),
		IncludeSubfolders: c.QueryBool("recursive"),
		AlbumID:           int64(c.QueryInt("album_id")),
		PersonID:          int64(c.QueryInt("person_id")),
		Starred:           c.QueryBool("starred"),
		Deleted:           c.QueryBool("deleted"),
		Type:              c.Query("type"),
		Limit:             c.QueryInt("limit"),
		Offset:            c.QueryInt("offset"),
	}

	files, err := models.GetFiles(filter)
	if err != nil {
		return sendInternalServerError(c, "failed to list files", err)
	}
	return c.JSON(files)
}

// HandleGetFile returns a single file record
func HandleGetFile(c *fiber.Ctx) error {
	file, err := models.GetFile(c.Params("id"))
	if err != nil {
		return sendInternalServerError(c, "failed to load file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "file not found")
	}
	return c.JSON(file)
}

// FilePatchData carries partial file updates. Only fields present in the
// request body are applied.
type FilePatchData struct {
	Starred     *bool           `json:"starred"`
	Deleted     *bool           `json:"deleted"`
	Notes       *string         `json:"notes"`
	Orientation *int            `json:"orientation"`
	FolderID    *int64          `json:"folder_id"`
	GeoTag      json.RawMessage `json:"geotag"`
}

type geoTagPatch struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// HandlePatchFile applies partial updates to a file: star, soft-delete,
// notes, display orientation and folder moves
func HandlePatchFile(c *fiber.Ctx) error {
	id := c.Params("id")

	file, err := models.GetFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "file not found")
	}

	var patch FilePatchData
	if err := c.BodyParser(&patch); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	if patch.Starred != nil {
		if err := models.SetFileStarred(id, *patch.Starred); err != nil {
			return sendInternalServerError(c, "failed to update file", err)
		}
	}
	if patch.Deleted != nil {
		if err := models.SetFileDeleted(id, *patch.Deleted); err != nil {
			return sendInternalServerError(c, "failed to update file", err)
		}
	}
	if patch.Notes != nil {
		if err := models.SetFileNotes(id, *patch.Notes); err != nil {
			return sendInternalServerError(c, "failed to update file", err)
		}
	}
	if patch.Orientation != nil {
		if *patch.Orientation < 1 || *patch.Orientation > 8 {
			return sendValidationError(c, "orientation must be 1-8")
		}
		if err := models.SetFileOrientation(id, *patch.Orientation); err != nil {
			return sendInternalServerError(c, "failed to update file", err)
		}
		// Cached renditions were rendered with the old orientation
		if thumbStore != nil {
			if err := thumbStore.InvalidateFile(id); err != nil {
				log.Warnf("Failed to invalidate thumbnails for %s: %v", id, err)
			}
		}
	}
	if len(patch.GeoTag) > 0 {
		// An explicit null clears the tag, an object replaces it
		if string(patch.GeoTag) == "null" {
			if err := models.SetFileGeoTag(id, nil); err != nil {
				return sendInternalServerError(c, "failed to update file", err)
			}
		} else {
			var coords geoTagPatch
			if err := json.Unmarshal(patch.GeoTag, &coords); err != nil {
				return sendValidationError(c, "geotag must be an object with latitude and longitude")
			}
			tag, err := models.CreateGeoTag(coords.Latitude, coords.Longitude)
			if err != nil {
				return sendInternalServerError(c, "failed to create geotag", err)
			}
			if err := models.SetFileGeoTag(id, &tag.ID); err != nil {
				return sendInternalServerError(c, "failed to update file", err)
			}
		}
	}
	if patch.FolderID != nil {
		exists, err := models.FolderExists(*patch.FolderID)
		if err != nil {
			return sendInternalServerError(c, "failed to load folder", err)
		}
		if !exists {
			return sendValidationError(c, "target folder does not exist")
		}
		if err := models.MoveFile(id, *patch.FolderID); err != nil {
			return sendInternalServerError(c, "failed to move file", err)
		}
	}

	updated, err := models.GetFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load file", err)
	}
	return c.JSON(updated)
}

// HandleDeleteFile permanently removes a file record and its cached
// renditions. The file on disk is left for the next scan to prune.
func HandleDeleteFile(c *fiber.Ctx) error {
	id := c.Params("id")

	exists, err := models.FileExists(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load file", err)
	}
	if !exists {
		return sendNotFoundError(c, "file not found")
	}

	if err := models.DeleteFile(id); err != nil {
		return sendInternalServerError(c, "failed to delete file", err)
	}
	if thumbStore != nil {
		if err := thumbStore.InvalidateFile(id); err != nil {
			log.Warnf("Failed to invalidate thumbnails for %s: %v", id, err)
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetFileAlbums lists the albums a file is part of
func HandleGetFileAlbums(c *fiber.Ctx) error {
	id := c.Params("id")

	exists, err := models.FileExists(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load file", err)
	}
	if !exists {
		return sendNotFoundError(c, "file not found")
	}

	albums, err := models.GetAlbumsForFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to list albums", err)
	}
	return c.JSON(albums)
}

// HandleGetFileFaces lists the detected faces on a file
func HandleGetFileFaces(c *fiber.Ctx) error {
	id := c.Params("id")

	exists, err := models.FileExists(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load file", err)
	}
	if !exists {
		return sendNotFoundError(c, "file not found")
	}

	faces, err := models.GetFacesByFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to list faces", err)
	}
	return c.JSON(faces)
}
