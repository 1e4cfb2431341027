package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoApp() *fiber.App {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Use(AcceptLanguageMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		lang, _ := c.Locals("lang").(string)
		reqID, _ := c.Locals("request_id").(string)
		return c.SendString(lang + " " + reqID)
	})
	return app
}

func TestRequestIDMiddleware(t *testing.T) {
	app := newEchoApp()

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	generated := resp.Header.Get(RequestIDHeader)
	assert.True(t, strings.HasPrefix(generated, requestIDPrefix), generated)

	req = httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-42.retry_1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "client-42.retry_1", resp.Header.Get(RequestIDHeader))

	for _, bad := range []string{strings.Repeat("a", 65), "id with spaces", "x\"<script>"} {
		req = httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, bad)
		resp, err = app.Test(req)
		require.NoError(t, err)
		got := resp.Header.Get(RequestIDHeader)
		assert.NotEqual(t, bad, got)
		assert.True(t, strings.HasPrefix(got, requestIDPrefix), got)
	}
}

func TestAcceptLanguageMiddleware(t *testing.T) {
	app := newEchoApp()

	cases := map[string]string{
		"":                        "en",
		"de-DE,de;q=0.9,en;q=0.8": "de",
		"en;q=0.1, de-AT;q=0.7":   "de",
		"es-ES":                   "en",
	}
	for header, want := range cases {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(fiber.HeaderAcceptLanguage, header)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(body), want+" "), header)
	}
}
