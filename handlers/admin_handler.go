package handlers

import (
	"time"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
	fiber "github.com/gofiber/fiber/v2"
	websocket "github.com/gofiber/websocket/v2"
)

// HandleGetUsers lists all accounts
func HandleGetUsers(c *fiber.Ctx) error {
	users, err := models.GetUsers()
	if err != nil {
		return sendInternalServerError(c, "failed to list users", err)
	}
	return c.JSON(users)
}

// HandleSetUserRole changes the role of an account
func HandleSetUserRole(c *fiber.Ctx) error {
	username := c.Params("username")

	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}
	if !models.ValidRole(body.Role) {
		return sendValidationError(c, "invalid role")
	}

	if username == currentUsername(c) {
		return sendConflictError(c, "cannot change your own role")
	}

	exists, err := models.UserExists(username)
	if err != nil {
		return sendInternalServerError(c, "failed to load user", err)
	}
	if !exists {
		return sendNotFoundError(c, "user not found")
	}

	if err := models.UpdateUserRole(username, body.Role); err != nil {
		return sendInternalServerError(c, "failed to update role", err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleSetUserPassword resets an account password; outstanding sessions
// are invalidated
func HandleSetUserPassword(c *fiber.Ctx) error {
	username := c.Params("username")

	var body struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	exists, err := models.UserExists(username)
	if err != nil {
		return sendInternalServerError(c, "failed to load user", err)
	}
	if !exists {
		return sendNotFoundError(c, "user not found")
	}

	if err := models.UpdateUserPassword(username, body.Password); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleSetUserBanned bans or unbans an account
func HandleSetUserBanned(c *fiber.Ctx) error {
	username := c.Params("username")

	var body struct {
		Banned bool `json:"banned"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	if username == currentUsername(c) {
		return sendConflictError(c, "cannot ban yourself")
	}

	exists, err := models.UserExists(username)
	if err != nil {
		return sendInternalServerError(c, "failed to load user", err)
	}
	if !exists {
		return sendNotFoundError(c, "user not found")
	}

	if err := models.SetUserBanned(username, body.Banned); err != nil {
		return sendInternalServerError(c, "failed to update user", err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleDeleteUser removes an account and its settings
func HandleDeleteUser(c *fiber.Ctx) error {
	username := c.Params("username")

	if username == currentUsername(c) {
		return sendConflictError(c, "cannot delete yourself")
	}

	if err := models.DeleteUser(username); err != nil {
		return sendInternalServerError(c, "failed to delete user", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetInvites lists outstanding and redeemed invite tokens
func HandleGetInvites(c *fiber.Ctx) error {
	invites, err := models.GetInvites()
	if err != nil {
		return sendInternalServerError(c, "failed to list invites", err)
	}
	return c.JSON(invites)
}

// HandleCreateInvite issues a new single-use registration token
func HandleCreateInvite(c *fiber.Ctx) error {
	var body struct {
		Role string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	invite, err := models.CreateInvite(body.Role, currentUsername(c))
	if err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.Status(fiber.StatusCreated).JSON(invite)
}

// HandleDeleteInvite revokes an unused invite token
func HandleDeleteInvite(c *fiber.Ctx) error {
	if err := models.DeleteInvite(c.Params("token")); err != nil {
		return sendInternalServerError(c, "failed to delete invite", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetLogs returns buffered server log lines newer than the given
// unix timestamp
func HandleGetLogs(c *fiber.Ctx) error {
	since := time.Unix(int64(c.QueryInt("since")), 0)
	return c.JSON(utils.LogEntriesSince(since))
}

// HandleConsoleLogsWebSocketUpgrade streams server logs over a WebSocket
func HandleConsoleLogsWebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			utils.HandleConsoleLogsWebSocket(conn)
		})(c)
	}
	return c.Status(fiber.StatusUpgradeRequired).SendString("WebSocket upgrade required")
}
