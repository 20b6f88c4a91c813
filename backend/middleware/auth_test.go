package middleware

import (
	"net/http/httptest"
	"testing"

	"learnhub/backend/config"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAuthAndSelfMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	app := fiber.New()
	app.Use(LoggingMiddleware(zap.NewNop()))
	app.Get("/users/:userId/things", AuthMiddleware(cfg), SelfMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUserID(c))
	})

	token, err := utils.GenerateJWTToken("u1", cfg)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		auth   string
		status int
	}{
		{name: "own resource", path: "/users/u1/things", auth: "Bearer " + token, status: fiber.StatusOK},
		{name: "other user", path: "/users/u2/things", auth: "Bearer " + token, status: fiber.StatusForbidden},
		{name: "no token", path: "/users/u1/things", status: fiber.StatusUnauthorized},
		{name: "garbage token", path: "/users/u1/things", auth: "Bearer nope", status: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
