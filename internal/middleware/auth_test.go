package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/whale-spotting/whale_spotting/internal/auth"
	"github.com/whale-spotting/whale_spotting/internal/config"
	"github.com/whale-spotting/whale_spotting/internal/domain"
	"github.com/whale-spotting/whale_spotting/internal/identity"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	return auth.NewTokenService(config.Config{
		JWTSecret:   "test-secret-do-not-use",
		JWTIssuer:   "whale-spotting",
		JWTAudience: "whale-spotting-frontend",
		TokenTTL:    time.Hour,
	})
}

func issueToken(t *testing.T, tokens *auth.TokenService, role domain.Role) string {
	t.Helper()
	token, _, err := tokens.Issue(identity.User{
		ID:       "5ad3e1cd-73a9-4f4e-b4f6-3b4d9b6f2f10",
		Username: "alice",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return token
}

// newTestApp installs the same status mapping the server's error handler
// applies, so middleware rejections surface as transport statuses.
func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			switch {
			case errors.Is(err, domain.ErrUnauthenticated):
				return c.SendStatus(http.StatusUnauthorized)
			case errors.Is(err, domain.ErrForbidden):
				return c.SendStatus(http.StatusForbidden)
			default:
				return c.SendStatus(http.StatusInternalServerError)
			}
		},
	})
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	tokens := newTokens(t)
	app := newTestApp()
	app.Get("/protected", RequireAuth(tokens), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	tokens := newTokens(t)
	app := newTestApp()
	app.Get("/protected", RequireAuth(tokens), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequireAuthAttachesClaims(t *testing.T) {
	tokens := newTokens(t)
	app := newTestApp()
	app.Get("/protected", RequireAuth(tokens), func(c *fiber.Ctx) error {
		claims, ok := ClaimsFrom(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(claims.Subject)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issueToken(t, tokens, domain.RoleMember))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRequireRoleForbidsMember(t *testing.T) {
	tokens := newTokens(t)
	app := newTestApp()
	app.Get("/admin", RequireRole(tokens, domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issueToken(t, tokens, domain.RoleMember))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for member role, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issueToken(t, tokens, domain.RoleAdmin))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", resp.StatusCode)
	}
}

func TestRequireRoleWithoutTokenIs401(t *testing.T) {
	tokens := newTokens(t)
	app := newTestApp()
	app.Get("/admin", RequireRole(tokens, domain.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestOptionalAuthNeverBlocks(t *testing.T) {
	tokens := newTokens(t)
	app := newTestApp()
	app.Get("/public", OptionalAuth(tokens), func(c *fiber.Ctx) error {
		if claims, ok := ClaimsFrom(c); ok {
			return c.SendString("hello " + claims.Username)
		}
		return c.SendString("hello anonymous")
	})

	// No token.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/public", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	// Garbage token still passes, just without claims.
	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer garbage")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with bad token, got %d", resp.StatusCode)
	}

	// A valid token personalizes the response.
	req = httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+issueToken(t, tokens, domain.RoleMember))
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", resp.StatusCode)
	}
}
