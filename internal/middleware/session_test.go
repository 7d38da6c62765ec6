package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionApp(t *testing.T) (*fiber.App, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	handler, rdb, err := Session(SessionConfig{RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})

	app := fiber.New()
	app.Use(handler)
	return app, rdb
}

func whoami(c *fiber.Ctx) error {
	u, _ := c.Locals("user").(map[string]interface{})
	if u == nil {
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	return c.JSON(u)
}

func TestSession_CookieVariants(t *testing.T) {
	app, rdb := sessionApp(t)
	app.Get("/whoami", whoami)

	b, _ := json.Marshal(map[string]interface{}{
		"user": map[string]interface{}{"user_id": "abc-123", "role": "member"},
	})
	require.NoError(t, rdb.Set(context.Background(), "session:sid-1", b, 0).Err())

	// "s:" prefix and signature suffix both resolve to the raw id.
	for _, value := range []string{"s:sid-1", "s:sid-1.signature"} {
		req := httptest.NewRequest("GET", "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: value})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, value)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "abc-123", body["user_id"])
	}
}

func TestSession_UnknownOrMissingCookie(t *testing.T) {
	app, _ := sessionApp(t)
	app.Get("/whoami", whoami)

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "s:nope"})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSession_PersistsAfterLogin(t *testing.T) {
	app, rdb := sessionApp(t)
	app.Post("/login", func(c *fiber.Ctx) error {
		sid := RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{UserID: "u-1", Username: "alice", Role: "member"})
		return c.JSON(fiber.Map{"sid": sid})
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["sid"])

	raw, err := rdb.Get(context.Background(), "session:"+body["sid"]).Bytes()
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &data))
	user, _ := data["user"].(map[string]interface{})
	require.NotNil(t, user)
	assert.Equal(t, "u-1", user["user_id"])
	assert.Equal(t, "alice", user["username"])
}
