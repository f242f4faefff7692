package handlers

import (
	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
)

// HandleGetGeoTagAreas lists all named map areas
func HandleGetGeoTagAreas(c *fiber.Ctx) error {
	areas, err := models.GetGeoTagAreas()
	if err != nil {
		return sendInternalServerError(c, "failed to list geotag areas", err)
	}
	return c.JSON(areas)
}

// HandleGetGeoTagArea returns a single area
func HandleGetGeoTagArea(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid area id")
	}

	area, err := models.GetGeoTagArea(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load geotag area", err)
	}
	if area == nil {
		return sendNotFoundError(c, "geotag area not found")
	}
	return c.JSON(area)
}

// HandleCreateGeoTagArea creates a named circular map area
func HandleCreateGeoTagArea(c *fiber.Ctx) error {
	var area models.GeoTagArea
	if err := c.BodyParser(&area); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	created, err := models.CreateGeoTagArea(area)
	if err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateGeoTagArea modifies a map area
func HandleUpdateGeoTagArea(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid area id")
	}

	existing, err := models.GetGeoTagArea(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load geotag area", err)
	}
	if existing == nil {
		return sendNotFoundError(c, "geotag area not found")
	}

	var body models.GeoTagArea
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}
	body.ID = id

	if err := models.UpdateGeoTagArea(&body); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.JSON(body)
}

// HandleDeleteGeoTagArea removes a map area
func HandleDeleteGeoTagArea(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid area id")
	}

	if err := models.DeleteGeoTagArea(id); err != nil {
		return sendInternalServerError(c, "failed to delete geotag area", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetGeoTagAreaFiles lists the files whose coordinates fall inside
// an area
func HandleGetGeoTagAreaFiles(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid area id")
	}

	area, err := models.GetGeoTagArea(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load geotag area", err)
	}
	if area == nil {
		return sendNotFoundError(c, "geotag area not found")
	}

	fileIDs, err := models.GetFileIDsInArea(area)
	if err != nil {
		return sendInternalServerError(c, "failed to list files in area", err)
	}

	files := make([]models.File, 0, len(fileIDs))
	for _, fileID := range fileIDs {
		file, err := models.GetFile(fileID)
		if err != nil {
			return sendInternalServerError(c, "failed to load file", err)
		}
		if file != nil {
			files = append(files, *file)
		}
	}
	return c.JSON(files)
}
