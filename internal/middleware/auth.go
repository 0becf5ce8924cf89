package middleware

import (
	"context"
	"strings"

	"fixcycle/auth"
	"fixcycle/pkg/httperror"

	"github.com/gofiber/fiber/v2"
)

// NewAuthMiddleware verifies the bearer session token and resolves the
// requester into the request context. Every mutating handler reads the
// requester from there; nothing is held in ambient global state.
func NewAuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return unauthorized(c)
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.ValidateToken(jwtSecret, tokenStr)
		if err != nil {
			return unauthorized(c)
		}

		userCtx := c.UserContext()
		if userCtx == nil {
			userCtx = context.Background()
		}

		userCtx = context.WithValue(userCtx, "UserID", claims.UserID)
		userCtx = context.WithValue(userCtx, "UserEmail", claims.Email)
		userCtx = context.WithValue(userCtx, "UserType", claims.UserType)

		c.SetUserContext(userCtx)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	err := httperror.Unauthorized(
		"auth.middleware.unauthorized",
		"Missing or invalid bearer token",
		nil,
	)

	return c.Status(err.Status).JSON(fiber.Map{
		"code":    err.Code,
		"message": err.Message,
	})
}
