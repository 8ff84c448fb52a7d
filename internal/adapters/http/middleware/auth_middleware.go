package middleware

import (
	"strings"

	"maha-evoting/internal/config"
	"maha-evoting/internal/core/domain"
	"maha-evoting/internal/pkg/identity"
	"maha-evoting/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// callerKey is the fiber.Locals key the verified caller is stored under
const callerKey = "caller"

// AuthMiddleware verifies the identity provider's bearer session token
// and stores the resulting Caller in request locals. Everything below
// the handler layer receives the Caller explicitly.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sessionToken string

		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			sessionToken = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if sessionToken == "" {
			return response.Unauthorized(c, "Session token required")
		}

		claims, err := identity.VerifySessionToken(sessionToken, cfg.Identity.SessionSecret)
		if err != nil {
			if err == identity.ErrTokenExpired {
				return response.Unauthorized(c, "Session token expired")
			}
			return response.Unauthorized(c, "Invalid session token")
		}

		role := domain.Role(claims.Role)
		if !role.Valid() {
			role = domain.RoleVoter
		}

		c.Locals(callerKey, domain.Caller{
			SubjectID: claims.Subject,
			Role:      role,
			Name:      claims.Name,
			Email:     claims.Email,
			ImageURL:  claims.ImageURL,
		})

		return c.Next()
	}
}

// CallerFromCtx returns the verified caller set by AuthMiddleware
func CallerFromCtx(c *fiber.Ctx) (domain.Caller, bool) {
	caller, ok := c.Locals(callerKey).(domain.Caller)
	return caller, ok
}

// RoleMiddleware creates role-based authorization middleware
func RoleMiddleware(allowedRoles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, ok := CallerFromCtx(c)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowedRole := range allowedRoles {
			if caller.Role == allowedRole {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly middleware allows only the admin role
func AdminOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleAdmin)
}

// VoterOnly middleware allows only the voter role
func VoterOnly() fiber.Handler {
	return RoleMiddleware(domain.RoleVoter)
}
