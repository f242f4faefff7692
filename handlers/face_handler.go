package handlers

import (
	"github.com/arkdale/photon/faces"
	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// HandleGetFacesByStatus lists faces in one workflow state, e.g. the
// unassigned or predicted queue
func HandleGetFacesByStatus(c *fiber.Ctx) error {
	status := c.QueryInt("status", models.FaceStatusUnassigned)
	if status < models.FaceStatusConfirmedRoot || status > models.FaceStatusRemoved {
		return sendBadRequestError(c, "invalid face status")
	}

	result, err := models.GetFacesByStatus(status)
	if err != nil {
		return sendInternalServerError(c, "failed to list faces", err)
	}
	return c.JSON(result)
}

// HandleGetFace returns a single face record
func HandleGetFace(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid face id")
	}

	face, err := models.GetFace(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load face", err)
	}
	if face == nil {
		return sendNotFoundError(c, "face not found")
	}
	return c.JSON(face)
}

// HandleAssignFace confirms a face as belonging to a person
func HandleAssignFace(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid face id")
	}

	var body struct {
		PersonID int64 `json:"person_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	exists, err := models.FaceExists(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load face", err)
	}
	if !exists {
		return sendNotFoundError(c, "face not found")
	}

	personExists, err := models.PersonExists(body.PersonID)
	if err != nil {
		return sendInternalServerError(c, "failed to load person", err)
	}
	if !personExists {
		return sendValidationError(c, "person does not exist")
	}

	if err := models.AssignFaceToPerson(id, body.PersonID); err != nil {
		return sendInternalServerError(c, "failed to assign face", err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleSetFaceStatus moves a face through the review workflow. Setting a
// detached status also clears the person link.
func HandleSetFaceStatus(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid face id")
	}

	var body struct {
		Status int `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	exists, err := models.FaceExists(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load face", err)
	}
	if !exists {
		return sendNotFoundError(c, "face not found")
	}

	if err := models.SetFaceStatus(id, body.Status); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleDeleteFace removes a face record
func HandleDeleteFace(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid face id")
	}

	if err := models.DeleteFace(id); err != nil {
		return sendInternalServerError(c, "failed to delete face", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRunPredictions recomputes person predictions for all unassigned
// faces from the currently confirmed ones
func HandleRunPredictions(c *fiber.Ctx) error {
	if !faces.Enabled() {
		return sendConflictError(c, "face recognition is not enabled")
	}

	if err := faces.PredictAll(); err != nil {
		return sendInternalServerError(c, "failed to run predictions", err)
	}
	return c.JSON(fiber.Map{"status": "predictions updated"})
}

// HandleGetFaceCrop serves the stored face crop as a JPEG. Crops read
// from the database are written through to the rendition cache so
// repeated requests skip the blob column.
func HandleGetFaceCrop(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid face id")
	}

	if thumbStore != nil {
		data, err := thumbStore.GetFaceCrop(id)
		if err != nil {
			log.Warnf("Face crop cache read failed for %d: %v", id, err)
		} else if data != nil {
			return sendFaceCrop(c, data)
		}
	}

	face, err := models.GetFace(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load face", err)
	}
	if face == nil || len(face.Thumbnail) == 0 {
		return sendNotFoundError(c, "face crop not found")
	}

	if thumbStore != nil {
		if err := thumbStore.PutFaceCrop(id, face.Thumbnail); err != nil {
			log.Warnf("Face crop cache write failed for %d: %v", id, err)
		}
	}
	return sendFaceCrop(c, face.Thumbnail)
}

func sendFaceCrop(c *fiber.Ctx, data []byte) error {
	c.Set("Content-Type", "image/jpeg")
	c.Set("Cache-Control", "public, max-age=86400")
	return c.Send(data)
}

// HandleGetPersonThumbnail serves the representative face crop of a person
func HandleGetPersonThumbnail(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid person id")
	}

	face, err := models.GetPersonThumbnailFace(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load person thumbnail", err)
	}
	if face == nil || len(face.Thumbnail) == 0 {
		return sendNotFoundError(c, "person has no confirmed face")
	}

	c.Set("Content-Type", "image/jpeg")
	c.Set("Cache-Control", "public, max-age=86400")
	return c.Send(face.Thumbnail)
}
