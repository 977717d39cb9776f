package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/foxxcyber/holiday-menu/internal/config"
	"github.com/foxxcyber/holiday-menu/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}
}

func testApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthRequired(cfg), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": GetUserID(c), "role": GetUserRole(c)})
	})
	app.Get("/admin", AuthRequired(cfg), AdminRequired(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestAuthRequired(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	valid, err := GenerateToken(cfg, &models.User{ID: 7, Email: "host@example.com", Role: models.RoleUser})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-secret"
	forged, _ := GenerateToken(otherCfg, &models.User{ID: 7, Role: models.RoleUser})

	expiredCfg := testConfig()
	expiredCfg.JWTExpiry = -time.Minute
	expired, _ := GenerateToken(expiredCfg, &models.User{ID: 7, Role: models.RoleUser})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"wrong scheme", "Basic abc", fiber.StatusUnauthorized},
		{"bad signature", "Bearer " + forged, fiber.StatusUnauthorized},
		{"expired", "Bearer " + expired, fiber.StatusUnauthorized},
		{"valid", "Bearer " + valid, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAuthRequiredRejectsNoneAlgorithm(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, JWTClaims{UserID: 1, Role: models.RoleAdmin})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestAdminRequired(t *testing.T) {
	cfg := testConfig()
	app := testApp(cfg)

	tests := []struct {
		role models.Role
		want int
	}{
		{models.RoleUser, fiber.StatusForbidden},
		{models.RoleAdmin, fiber.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			token, err := GenerateToken(cfg, &models.User{ID: 1, Role: tt.role})
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}

			req := httptest.NewRequest("GET", "/admin", nil)
			req.Header.Set("Authorization", "Bearer "+token)

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}
