package handlers

import (
	"github.com/arkdale/photon/models"
	fiber "github.com/gofiber/fiber/v2"
)

// HandleGetPeople lists all people with their face counts
func HandleGetPeople(c *fiber.Ctx) error {
	people, err := models.GetPeople()
	if err != nil {
		return sendInternalServerError(c, "failed to list people", err)
	}
	return c.JSON(people)
}

// HandleGetPerson returns a single person
func HandleGetPerson(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid person id")
	}

	person, err := models.GetPerson(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load person", err)
	}
	if person == nil {
		return sendNotFoundError(c, "person not found")
	}
	return c.JSON(person)
}

// HandleCreatePerson creates a new person
func HandleCreatePerson(c *fiber.Ctx) error {
	var person models.Person
	if err := c.BodyParser(&person); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	created, err := models.CreatePerson(person)
	if err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdatePerson renames a person or moves them between groups
func HandleUpdatePerson(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid person id")
	}

	person, err := models.GetPerson(id)
	if err != nil {
		return sendInternalServerError(c, "failed to load person", err)
	}
	if person == nil {
		return sendNotFoundError(c, "person not found")
	}

	var body models.Person
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	person.Name = body.Name
	person.GroupID = body.GroupID
	if err := models.UpdatePerson(person); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.JSON(person)
}

// HandleDeletePerson deletes a person; their faces go back to unassigned
func HandleDeletePerson(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid person id")
	}

	if err := models.DeletePerson(id); err != nil {
		return sendInternalServerError(c, "failed to delete person", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetPersonFaces lists the confirmed and predicted faces of a person
func HandleGetPersonFaces(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid person id")
	}

	faces, err := models.GetFacesByPerson(id)
	if err != nil {
		return sendInternalServerError(c, "failed to list faces", err)
	}
	return c.JSON(faces)
}

// HandleGetPersonGroups lists all person groups
func HandleGetPersonGroups(c *fiber.Ctx) error {
	groups, err := models.GetPersonGroups()
	if err != nil {
		return sendInternalServerError(c, "failed to list person groups", err)
	}
	return c.JSON(groups)
}

// HandleCreatePersonGroup creates a new person group
func HandleCreatePersonGroup(c *fiber.Ctx) error {
	var group models.PersonGroup
	if err := c.BodyParser(&group); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	created, err := models.CreatePersonGroup(group)
	if err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdatePersonGroup renames a person group
func HandleUpdatePersonGroup(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid group id")
	}

	var group models.PersonGroup
	if err := c.BodyParser(&group); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}
	group.ID = id

	if err := models.UpdatePersonGroup(&group); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.JSON(group)
}

// HandleDeletePersonGroup removes a group; its members become ungrouped
func HandleDeletePersonGroup(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return sendBadRequestError(c, "invalid group id")
	}

	if err := models.DeletePersonGroup(id); err != nil {
		return sendInternalServerError(c, "failed to delete person group", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
