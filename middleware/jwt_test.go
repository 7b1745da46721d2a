package middleware

import (
	"lms/config"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedApp(t *testing.T) *fiber.App {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-jwt-key"}

	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", fiber.Map{
			"userId": c.Locals("userId"),
		})
	})
	return app
}

func TestJWTMiddlewareRoundTrip(t *testing.T) {
	app := protectedApp(t)

	token, err := GenerateJWT(42, "buyer", "STUDENT", "buyer@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTMiddlewareRejectsBadCredentials(t *testing.T) {
	app := protectedApp(t)

	cases := map[string]string{
		"missing header":    "",
		"wrong scheme":      "Basic abc",
		"garbage token":     "Bearer not-a-jwt",
		"wrong signing key": "Bearer " + signedWithOtherKey(t),
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func signedWithOtherKey(t *testing.T) string {
	t.Helper()
	prev := config.AppConfig.JWTKey
	config.AppConfig.JWTKey = "some-other-key"
	token, err := GenerateJWT(42, "buyer", "STUDENT", "buyer@example.com")
	require.NoError(t, err)
	config.AppConfig.JWTKey = prev
	return token
}
