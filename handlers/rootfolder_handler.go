package handlers

import (
	"github.com/arkdale/photon/indexer"
	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
)

// HandleGetRootFolders lists all registered root folders
func HandleGetRootFolders(c *fiber.Ctx) error {
	rootFolders, err := models.GetRootFolders()
	if err != nil {
		return sendInternalServerError(c, "failed to list root folders", err)
	}
	return c.JSON(rootFolders)
}

// HandleGetRootFolder returns a single root folder by slug
func HandleGetRootFolder(c *fiber.Ctx) error {
	rootFolder, err := models.GetRootFolder(c.Params("slug"))
	if err != nil {
		return sendInternalServerError(c, "failed to load root folder", err)
	}
	if rootFolder == nil {
		return sendNotFoundError(c, "root folder not found")
	}
	return c.JSON(rootFolder)
}

// HandleCreateRootFolder registers a new filesystem location for scanning
func HandleCreateRootFolder(c *fiber.Ctx) error {
	var rootFolder models.RootFolder
	if err := c.BodyParser(&rootFolder); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	created, err := models.CreateRootFolder(rootFolder)
	if err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateRootFolder modifies an existing root folder
func HandleUpdateRootFolder(c *fiber.Ctx) error {
	existing, err := models.GetRootFolder(c.Params("slug"))
	if err != nil {
		return sendInternalServerError(c, "failed to load root folder", err)
	}
	if existing == nil {
		return sendNotFoundError(c, "root folder not found")
	}

	var body models.RootFolder
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	existing.Name = body.Name
	existing.Path = body.Path
	existing.Cron = body.Cron
	if err := models.UpdateRootFolder(existing); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.JSON(existing)
}

// HandleDeleteRootFolder removes a root folder and its indexed tree
func HandleDeleteRootFolder(c *fiber.Ctx) error {
	if err := models.DeleteRootFolder(c.Params("slug")); err != nil {
		return sendInternalServerError(c, "failed to delete root folder", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleScanRootFolder triggers an out-of-schedule scan of a root folder
func HandleScanRootFolder(c *fiber.Ctx) error {
	slug := c.Params("slug")

	rootFolder, err := models.GetRootFolder(slug)
	if err != nil {
		return sendInternalServerError(c, "failed to load root folder", err)
	}
	if rootFolder == nil {
		return sendNotFoundError(c, "root folder not found")
	}

	if !indexer.TriggerScan(slug) {
		return sendConflictError(c, "a scan is already running for this root folder")
	}
	return c.JSON(fiber.Map{"status": "scan started"})
}

// HandleRootFolderScanStatus reports whether a scan is running
func HandleRootFolderScanStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"running": indexer.ScanRunning(c.Params("slug"))})
}
