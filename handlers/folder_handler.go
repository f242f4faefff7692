package handlers

import (
	"strconv"

	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
)

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

// HandleGetFolders lists top-level folders, one per root folder
func HandleGetFolders(c *fiber.Ctx) error {
	folders, err := models.GetRootLevelFolders()
	if err != nil {
		return sendInternalServerError(c, "failed to list folders", err)
	}
	return c.JSON(folders)
}

// HandleGetFolder returns a folder with its child folders
func HandleGetFolder(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid folder id")
	}

	folder, err := models.GetFolder(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load folder", err)
	}
	if folder == nil {
		return sendNotFoundError(c, "folder not found")
	}

	children, err := models.GetChildFolders(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load child folders", err)
	}

	return c.JSON(fiber.Map{
		"folder":   folder,
		"children": children,
	})
}

// HandleGetFolderFiles lists the files directly inside a folder, or the
// whole subtree with ?recursive=true
func HandleGetFolderFiles(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid folder id")
	}

	exists, err := models.FolderExists(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load folder", err)
	}
	if !exists {
		return sendNotFoundError(c, "folder not found")
	}

	files, err := models.GetFiles(models.FileFilter{
		FolderID:          id,
		IncludeSubfolders: c.QueryBool("recursive"),
		Type:              c.Query("type"),
	})
	if err != nil {
		return sendInternalServerError(c, "failed to list files", err)
	}
	return c.JSON(files)
}
