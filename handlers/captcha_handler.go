package handlers

import (
	"github.com/dchest/captcha"
	fiber "github.com/gofiber/fiber/v2"
)

// captchaEnabled gates captcha verification on registration; set from
// configuration during Initialize.
var captchaEnabled bool

// HandleCaptchaNew generates a new captcha ID
func HandleCaptchaNew(c *fiber.Ctx) error {
	id := captcha.NewLen(6)
	return c.JSON(fiber.Map{"captcha_id": id})
}

// HandleCaptchaImage serves captcha images
func HandleCaptchaImage(c *fiber.Ctx) error {
	c.Type("png")
	captcha.WriteImage(c.Response().BodyWriter(), c.Params("id"), 240, 80)
	return nil
}
