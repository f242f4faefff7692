package handlers

import (
	"time"

	"github.com/arkdale/photon/models"
	"github.com/arkdale/photon/utils"
	fiber "github.com/gofiber/fiber/v2"
)

var roleHierarchy = map[string]int{
	models.RoleViewer: 1,
	models.RoleEditor: 2,
	models.RoleAdmin:  3,
}

// AuthMiddleware handles token validation and refreshing
func AuthMiddleware(requiredRole string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := c.Cookies("access_token")
		refreshToken := c.Cookies("refresh_token")

		if accessToken != "" {
			if err := validateAccessToken(c, accessToken, requiredRole); err == nil {
				return c.Next()
			} else if err == fiber.ErrForbidden {
				return sendForbiddenError(c, "insufficient permissions")
			}
		}

		if refreshToken != "" {
			if err := refreshAndValidateTokens(c, refreshToken, requiredRole); err == nil {
				return c.Next()
			} else if err == fiber.ErrForbidden {
				return sendForbiddenError(c, "insufficient permissions")
			}
		}

		clearAuthCookies(c)
		return sendUnauthorizedError(c, "authentication required")
	}
}

func validateAccessToken(c *fiber.Ctx, accessToken, requiredRole string) error {
	claims, err := utils.ValidateToken(accessToken)
	if err != nil || claims == nil {
		return fiber.ErrUnauthorized
	}
	if claims.TokenType != "access" {
		return fiber.ErrUnauthorized
	}

	return validateUserRole(c, claims.Username, claims.TokenVersion, requiredRole)
}

func refreshAndValidateTokens(c *fiber.Ctx, refreshToken, requiredRole string) error {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil || claims == nil || claims.TokenType != "refresh" {
		return fiber.ErrUnauthorized
	}

	user, err := models.FindUserByUsername(claims.Username)
	if err != nil || user == nil {
		return fiber.ErrUnauthorized
	}

	newAccessToken, newRefreshToken, err := utils.RefreshToken(refreshToken, user.TokenVersion)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	setAuthCookies(c, newAccessToken, newRefreshToken)

	return validateUserRole(c, user.Username, user.TokenVersion, requiredRole)
}

func validateUserRole(c *fiber.Ctx, username string, tokenVersion uint, requiredRole string) error {
	user, err := models.FindUserByUsername(username)
	if err != nil || user == nil {
		return fiber.ErrUnauthorized
	}

	// Tokens minted before a password change or ban carry a stale version
	if user.TokenVersion != tokenVersion {
		return fiber.ErrUnauthorized
	}

	if user.Banned {
		return fiber.ErrForbidden
	}

	if roleHierarchy[user.Role] < roleHierarchy[requiredRole] {
		return fiber.ErrForbidden
	}

	c.Locals("username", user.Username)
	c.Locals("role", user.Role)
	return nil
}

func setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	// Secure requires HTTPS; we detect TLS or X-Forwarded-Proto to set it.
	// Using Lax so top-level navigations send cookies.
	secure := isSecureRequest(c)
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Expires:  time.Now().Add(utils.AccessTokenTTL()),
		MaxAge:   int(utils.AccessTokenTTL().Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Expires:  time.Now().Add(utils.RefreshTokenTTL()),
		MaxAge:   int(utils.RefreshTokenTTL().Seconds()),
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expiredTime := time.Now().Add(-time.Hour)
	secure := isSecureRequest(c)
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    "",
		Expires:  expiredTime,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    "",
		Expires:  expiredTime,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// isSecureRequest returns true if the request is using HTTPS or forwarded as HTTPS.
func isSecureRequest(c *fiber.Ctx) bool {
	if c.Secure() || c.Protocol() == "https" {
		return true
	}
	if proto := c.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}
	if https := c.Get("X-Forwarded-SSL"); https == "on" || https == "1" {
		return true
	}
	return false
}

// currentUsername returns the authenticated username set by AuthMiddleware
func currentUsername(c *fiber.Ctx) string {
	if name, ok := c.Locals("username").(string); ok {
		return name
	}
	return ""
}
