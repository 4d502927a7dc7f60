package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/auth"
	"github.com/whale-spotting/whale_spotting/internal/domain"
)

const claimsLocalKey = "auth_claims"

// ClaimsFrom extracts the validated token claims attached by the auth
// middleware. The second return is false on anonymous requests.
func ClaimsFrom(c *fiber.Ctx) (auth.Claims, bool) {
	claims, ok := c.Locals(claimsLocalKey).(auth.Claims)
	return claims, ok
}

// RequireAuth validates the bearer token and attaches its claims to the
// request. Requests without a valid token are rejected with 401.
func RequireAuth(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := authenticate(c, tokens)
		if err != nil {
			return err
		}
		c.Locals(claimsLocalKey, claims)
		return c.Next()
	}
}

// RequireRole validates the bearer token and additionally enforces that the
// claims carry one of the given roles. A valid token with the wrong role is
// rejected with 403, never 401.
func RequireRole(tokens *auth.TokenService, roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := authenticate(c, tokens)
		if err != nil {
			return err
		}
		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			return fmt.Errorf("%w: requires %s role", domain.ErrForbidden, rolesList(roles))
		}
		c.Locals(claimsLocalKey, claims)
		return c.Next()
	}
}

// OptionalAuth parses a bearer token when one is presented so public routes
// can personalize their responses, but never rejects the request.
func OptionalAuth(tokens *auth.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, ok := bearerToken(c); ok {
			if claims, err := tokens.Validate(token); err == nil {
				c.Locals(claimsLocalKey, claims)
			}
		}
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, tokens *auth.TokenService) (auth.Claims, error) {
	token, ok := bearerToken(c)
	if !ok {
		return auth.Claims{}, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthenticated)
	}
	return tokens.Validate(token)
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authz := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return "", false
	}
	token := strings.TrimSpace(authz[len("Bearer "):])
	return token, token != ""
}

func rolesList(roles []domain.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, string(role))
	}
	return strings.Join(names, " or ")
}
