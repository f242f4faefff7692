package handlers

import (
	"strings"

	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
)

// HandleSearch matches files by name, notes, folder, album and person
// names, ranked by how many sources agree
func HandleSearch(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return sendBadRequestError(c, "search query cannot be empty")
	}

	files, err := models.SearchFiles(query)
	if err != nil {
		return sendInternalServerError(c, "search failed", err)
	}
	return c.JSON(files)
}
