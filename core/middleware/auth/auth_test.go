package auth_test

import (
	"net/http/httptest"
	"testing"

	"bling-sync/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(cfg auth.Config) *fiber.App {
	app := fiber.New()
	app.Use(auth.New(cfg))
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/sync/cursors", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		cfg    auth.Config
		path   string
		header string
		status int
	}{
		{"Disabled", auth.Config{}, "/sync/cursors", "", 200},
		{"Missing Key", auth.Config{ApiKey: "secret"}, "/sync/cursors", "", 401},
		{"Wrong Key", auth.Config{ApiKey: "secret"}, "/sync/cursors", "nope", 401},
		{"Valid Key", auth.Config{ApiKey: "secret"}, "/sync/cursors", "secret", 200},
		{"Skipped Path", auth.Config{ApiKey: "secret", Skip: []string{"/health"}}, "/health", "", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(auth.HeaderName, tt.header)
			}
			resp, err := newApp(tt.cfg).Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAuth_QueryParam(t *testing.T) {
	req := httptest.NewRequest("GET", "/sync/cursors?api_key=secret", nil)
	resp, err := newApp(auth.Config{ApiKey: "secret"}).Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
