package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testApp(am *AuthMiddleware) *fiber.App {
	app := fiber.New()
	app.Use(am.RequireAuth)
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/v1/usage", func(c *fiber.Ctx) error { return c.SendString("usage") })
	return app
}

func TestAuth_NoSecretPassesThrough(t *testing.T) {
	app := testApp(NewAuthMiddleware(""))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/usage", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuth_HealthAlwaysOpen(t *testing.T) {
	app := testApp(NewAuthMiddleware("secret"))

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuth_MissingTokenRejected(t *testing.T) {
	app := testApp(NewAuthMiddleware("secret"))

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/usage", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuth_ValidBearerToken(t *testing.T) {
	am := NewAuthMiddleware("secret")
	app := testApp(am)

	token, err := am.GenerateToken(time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/v1/usage", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuth_TokenViaQueryParam(t *testing.T) {
	am := NewAuthMiddleware("secret")
	app := testApp(am)

	token, err := am.GenerateToken(time.Hour)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/v1/usage?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestAuth_ExpiredTokenRejected(t *testing.T) {
	am := NewAuthMiddleware("secret")

	token, err := am.GenerateToken(-time.Minute)
	require.NoError(t, err)

	_, err = am.ValidateToken(token)
	assert.ErrorContains(t, err, "expired")
}

func TestAuth_TamperedTokenRejected(t *testing.T) {
	am := NewAuthMiddleware("secret")

	token, err := am.GenerateToken(time.Hour)
	require.NoError(t, err)

	_, err = am.ValidateToken(token + "x")
	assert.Error(t, err)

	other := NewAuthMiddleware("different-secret")
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
