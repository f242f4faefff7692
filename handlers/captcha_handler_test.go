package handlers

import (
	"net/http/httptest"
	"testing"

	fiber "github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestHandleCaptchaNew(t *testing.T) {
	app := fiber.New()
	app.Get("/captcha/new", HandleCaptchaNew)

	resp, err := app.Test(httptest.NewRequest("GET", "/captcha/new", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body["captcha_id"])
}

func TestHandleCaptchaImage(t *testing.T) {
	app := fiber.New()
	app.Get("/captcha/new", HandleCaptchaNew)
	app.Get("/captcha/:id.png", HandleCaptchaImage)

	resp, err := app.Test(httptest.NewRequest("GET", "/captcha/new", nil))
	assert.NoError(t, err)

	var body map[string]string
	decodeBody(t, resp, &body)

	resp, err = app.Test(httptest.NewRequest("GET", "/captcha/"+body["captcha_id"]+".png", nil))
	assert.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}
