package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/estatehub/estate-service/internal/domain"
	apperrors "github.com/estatehub/estate-service/pkg/util"
)

func newGateApp(t *testing.T, tm *TokenManager, extra ...fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"code": de.Code})
		},
	})
	gate := NewGate(tm, nil)
	handlers := append([]fiber.Handler{gate.Authenticate}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(identity.UserID)
	})
	app.Get("/protected", handlers...)
	return app
}

func doGet(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp.StatusCode
}

func TestGate_StatusMapping(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	app := newGateApp(t, tm)

	valid, _, err := tm.Issue("user-1", "a@test.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	stale, _, err := NewTokenManager("secret", time.Hour).
		WithClock(fixedClock(time.Now().Add(-48*time.Hour))).
		Issue("user-1", "a@test.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	forged, _, err := NewTokenManager("forger", time.Hour).Issue("user-1", "a@test.com", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bearer without token", "Bearer", http.StatusUnauthorized},
		{"single word", "xyz", http.StatusUnauthorized},
		{"token without scheme", valid, http.StatusUnauthorized},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusForbidden},
		{"garbage token", "Bearer not-a-token", http.StatusForbidden},
		{"expired token", "Bearer " + stale, http.StatusForbidden},
		{"forged signature", "Bearer " + forged, http.StatusForbidden},
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := doGet(t, app, tc.header); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRequireRoles(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)
	app := newGateApp(t, tm, RequireAgent())

	cases := []struct {
		role domain.Role
		want int
	}{
		{domain.RoleUser, http.StatusForbidden},
		{domain.RoleAgent, http.StatusOK},
		{domain.RoleAdmin, http.StatusOK},
	}
	for _, tc := range cases {
		token, _, err := tm.Issue("user-1", "a@test.com", tc.role)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if got := doGet(t, app, "Bearer "+token); got != tc.want {
			t.Fatalf("role %s: expected %d, got %d", tc.role, tc.want, got)
		}
	}
}

func TestRequireRoles_WithoutGateIsUnauthenticated(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/protected", RequireAgent(), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestGate_CheckErrorCodes(t *testing.T) {
	gate := NewGate(NewTokenManager("secret", time.Hour), nil)

	if _, err := gate.Check(""); !apperrors.HasCode(err, "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED, got %v", err)
	}
	if _, err := gate.Check("Bearer abc"); !apperrors.HasCode(err, "FORBIDDEN") {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}
