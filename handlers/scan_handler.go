package handlers

import (
	"encoding/json"
	"path/filepath"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/scancrop"
	fiber "github.com/gofiber/fiber/v2"
)

// scanJPEGQuality is the quality used when writing extracted prints; set
// from configuration during Initialize.
var scanJPEGQuality = 95

// HandleGetScanRoots lists the registered scanner inbox directories
func HandleGetScanRoots(c *fiber.Ctx) error {
	roots, err := models.GetScanRootFolders()
	if err != nil {
		return sendInternalServerError(c, "failed to list scan roots", err)
	}
	return c.JSON(roots)
}

// HandleCreateScanRoot registers a scanner inbox directory
func HandleCreateScanRoot(c *fiber.Ctx) error {
	var root models.ScanRootFolder
	if err := c.BodyParser(&root); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	created, err := models.CreateScanRootFolder(root)
	if err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleDeleteScanRoot removes a scan root and its mirrored entries
func HandleDeleteScanRoot(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan root id")
	}

	if err := models.DeleteScanRootFolder(id); err != nil {
		return sendInternalServerError(c, "failed to delete scan root", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleSyncScanRoots re-reads all scan root directories from disk
func HandleSyncScanRoots(c *fiber.Ctx) error {
	if err := scancrop.SyncScanRoots(); err != nil {
		return sendInternalServerError(c, "failed to sync scan roots", err)
	}
	return c.JSON(fiber.Map{"status": "synced"})
}

// HandleGetScanFolders lists directories under a scan root
func HandleGetScanFolders(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan root id")
	}

	var parentID *int64
	if c.Query("parent_id") != "" {
		pid := int64(c.QueryInt("parent_id"))
		parentID = &pid
	}

	folders, err := models.GetScanFolders(id, parentID)
	if err != nil {
		return sendInternalServerError(c, "failed to list scan folders", err)
	}
	return c.JSON(folders)
}

// HandleGetScanFiles lists the sheets in a scan folder, pending first
func HandleGetScanFiles(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan folder id")
	}

	files, err := models.GetScanFiles(id)
	if err != nil {
		return sendInternalServerError(c, "failed to list scan files", err)
	}
	return c.JSON(files)
}

// HandleGetScanFile returns a single sheet with its crop options
func HandleGetScanFile(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan file id")
	}

	file, err := models.GetScanFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load scan file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "scan file not found")
	}
	return c.JSON(file)
}

// HandleGetScanSheetImage serves the raw scanner sheet
func HandleGetScanSheetImage(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan file id")
	}

	file, err := models.GetScanFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load scan file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "scan file not found")
	}

	folder, err := models.GetScanFolder(file.FolderID)
	if err != nil || folder == nil {
		return sendInternalServerError(c, "failed to load scan folder", err)
	}

	return c.SendFile(filepath.Join(folder.Path, file.Name))
}

// HandleSetScanOptions stores the rough crop regions drawn by the user
func HandleSetScanOptions(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan file id")
	}

	file, err := models.GetScanFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load scan file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "scan file not found")
	}

	var options scancrop.Options
	if err := c.BodyParser(&options); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	raw, err := json.Marshal(options)
	if err != nil {
		return sendInternalServerError(c, "failed to encode options", err)
	}
	file.Options = string(raw)
	if err := models.UpdateScanFile(file); err != nil {
		return sendInternalServerError(c, "failed to update scan file", err)
	}
	return c.JSON(file)
}

// HandleDetectScanFile refines the rough crop regions into print outlines
func HandleDetectScanFile(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan file id")
	}

	file, err := models.GetScanFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load scan file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "scan file not found")
	}

	if err := scancrop.DetectSheet(file); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.JSON(file)
}

// HandleConfirmScanFile extracts the confirmed print outlines into the
// target folder and feeds them to the indexer
func HandleConfirmScanFile(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan file id")
	}

	file, err := models.GetScanFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load scan file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "scan file not found")
	}

	var body struct {
		FolderID int64 `json:"folder_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	folder, err := models.GetFolder(body.FolderID)
	if err != nil {
		return sendInternalServerError(c, "failed to load folder", err)
	}
	if folder == nil {
		return sendValidationError(c, "target folder does not exist")
	}

	if err := scancrop.ConfirmCrop(file, folder.Path, folder.ID, scanJPEGQuality); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.JSON(file)
}

// HandleSkipScanFile marks a sheet as reviewed without extracting prints
func HandleSkipScanFile(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid scan file id")
	}

	file, err := models.GetScanFile(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load scan file", err)
	}
	if file == nil {
		return sendNotFoundError(c, "scan file not found")
	}

	file.Status = models.ScanFileStatusSkipped
	if err := models.UpdateScanFile(file); err != nil {
		return sendInternalServerError(c, "failed to update scan file", err)
	}
	return c.JSON(file)
}
