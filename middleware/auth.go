package middleware

import (
	"repair-booking/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Role helper functions to work with the JWT middleware

// RequireRoles creates a middleware that only admits the given roles
func RequireRoles(roles ...string) fiber.Handler {
	return IsAuthenticated(roles)
}

// RequireAuthentication only requires a valid token, any role
func RequireAuthentication() fiber.Handler {
	return IsAuthenticated([]string{constants.RoleAny})
}

// ClaimsFromContext returns the decoded JWT claims attached by IsAuthenticated
func ClaimsFromContext(c *fiber.Ctx) (jwt.MapClaims, bool) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	return claims, ok
}

// RoleFromContext extracts the actor role claim
func RoleFromContext(c *fiber.Ctx) string {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// ActorFromContext extracts the actor uuid claim
func ActorFromContext(c *fiber.Ctx) string {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return ""
	}
	uuid, _ := claims["uuid"].(string)
	return uuid
}

// NameFromContext extracts the legal name claim, falling back to username
func NameFromContext(c *fiber.Ctx) string {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return ""
	}
	if name, _ := claims["legal_name"].(string); name != "" {
		return name
	}
	name, _ := claims["username"].(string)
	return name
}
