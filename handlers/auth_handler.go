package handlers

import (
	"encoding/json"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
	"github.com/dchest/captcha"
	fiber "github.com/gofiber/fiber/v2"
)

// RegisterFormData represents registration form data
type RegisterFormData struct {
	Username      string `json:"username"`
	Password      string `json:"password"`
	InviteToken   string `json:"invite_token"`
	CaptchaID     string `json:"captcha_id"`
	CaptchaAnswer string `json:"captcha_answer"`
}

// LoginFormData represents login form data
type LoginFormData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleRegister processes a registration submission. The very first account
// registers freely and becomes the admin; everyone after that needs an
// invite token.
func HandleRegister(c *fiber.Ctx) error {
	var formData RegisterFormData
	if err := c.BodyParser(&formData); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	if captchaEnabled && !captcha.VerifyString(formData.CaptchaID, formData.CaptchaAnswer) {
		return sendValidationError(c, "invalid captcha")
	}

	count, err := models.CountRecords(`SELECT COUNT(*) FROM users`)
	if err != nil {
		return sendInternalServerError(c, "failed to check existing users", err)
	}

	role := models.RoleViewer
	if count > 0 {
		if formData.InviteToken == "" {
			return sendForbiddenError(c, "registration requires an invite token")
		}
		role, err = models.RedeemInvite(formData.InviteToken, formData.Username)
		if err != nil {
			return sendForbiddenError(c, err.Error())
		}
	}

	user, err := models.CreateUser(formData.Username, formData.Password, role)
	if err != nil {
		return sendValidationError(c, err.Error())
	}

	accessToken, refreshToken, err := utils.GenerateTokenPair(user.Username, user.TokenVersion)
	if err != nil {
		return sendInternalServerError(c, "could not create session", err)
	}

	setAuthCookies(c, accessToken, refreshToken)
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogin validates credentials and issues access and refresh tokens
func HandleLogin(c *fiber.Ctx) error {
	var formData LoginFormData
	if err := c.BodyParser(&formData); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	user, err := models.AuthenticateUser(formData.Username, formData.Password)
	if err != nil {
		return sendUnauthorizedError(c, err.Error())
	}

	accessToken, refreshToken, err := utils.GenerateTokenPair(user.Username, user.TokenVersion)
	if err != nil {
		return sendInternalServerError(c, "could not create session", err)
	}

	setAuthCookies(c, accessToken, refreshToken)
	return c.JSON(user)
}

// HandleLogout invalidates all outstanding tokens for the user and clears
// the auth cookies
func HandleLogout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")

	if claims, err := utils.ValidateToken(refreshToken); err == nil && claims != nil {
		if err := models.BumpTokenVersion(claims.Username); err != nil {
			return sendInternalServerError(c, "failed to revoke session", err)
		}
	}

	clearAuthCookies(c)
	return c.SendStatus(fiber.StatusOK)
}

// HandleAuthStatus returns the authenticated user
func HandleAuthStatus(c *fiber.Ctx) error {
	user, err := models.FindUserByUsername(currentUsername(c))
	if err != nil {
		return sendInternalServerError(c, "failed to load user", err)
	}
	if user == nil {
		return sendUnauthorizedError(c, "authentication required")
	}
	return c.JSON(user)
}

// HandleGetUserConfig returns the per-device client settings of the user
func HandleGetUserConfig(c *fiber.Ctx) error {
	cfg, err := models.GetUserConfig(currentUsername(c))
	if err != nil {
		return sendInternalServerError(c, "failed to load user settings", err)
	}
	return c.JSON(cfg)
}

// HandleSetUserConfig stores client settings for one device class
func HandleSetUserConfig(c *fiber.Ctx) error {
	var body struct {
		Device   string          `json:"device"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := c.BodyParser(&body); err != nil {
		return sendBadRequestError(c, "invalid request body")
	}

	if err := models.SetUserConfig(currentUsername(c), body.Device, body.Settings); err != nil {
		return sendValidationError(c, err.Error())
	}
	return c.SendStatus(fiber.StatusOK)
}
