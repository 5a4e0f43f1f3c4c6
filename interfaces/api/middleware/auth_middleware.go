package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cold-17/smart-todo-app-sub000/pkg/logger"
	"github.com/cold-17/smart-todo-app-sub000/pkg/utils"
)

// Protected validates the bearer token and stores the principal in locals.
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization header")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Invalid authorization header format")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, jwtSecret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			switch err {
			case utils.ErrExpiredToken:
				return utils.UnauthorizedResponse(c, "Token has expired")
			case utils.ErrInvalidToken:
				return utils.UnauthorizedResponse(c, "Invalid token")
			case utils.ErrMissingToken:
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Token validation failed")
			}
		}

		c.Locals("user", userCtx)

		return c.Next()
	}
}

// RequireRole rejects authenticated users without the given role.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}

		if user.Role != role {
			return utils.ForbiddenResponse(c, "Insufficient permissions")
		}

		return c.Next()
	}
}

// AdminOnly guards operational endpoints like the manual backfill trigger.
func AdminOnly() fiber.Handler {
	return RequireRole("admin")
}

// Optional sets the principal when a valid token is present but lets
// anonymous requests through. Used for the websocket upgrade.
func Optional(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := utils.ExtractTokenFromHeader(c.Get("Authorization"))
		if token == "" {
			// Browsers cannot set headers on websocket upgrades.
			token = c.Query("token")
		}
		if token == "" {
			return c.Next()
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, jwtSecret)
		if err != nil {
			return c.Next()
		}

		c.Locals("user", userCtx)
		return c.Next()
	}
}
