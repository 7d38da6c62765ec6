package auth

import (
	"context"

	authsvc "barterzone-backend/internal/application/auth"
	"barterzone-backend/internal/middleware"
	"barterzone-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	Service *authsvc.Service
	Rdb     *redis.Client
	Config  middleware.SessionConfig
}

// Register POST /api/v1/auth/register — create account and log the user in.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var req authsvc.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	user, err := h.Service.Register(c.Context(), req)
	if err != nil {
		switch err {
		case authsvc.ErrUsernameTaken, authsvc.ErrEmailTaken:
			return response.Error(c, err.Error(), fiber.StatusConflict, nil)
		default:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+user.UserID.String(), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "Registration successful", fiber.Map{
		"user": fiber.Map{
			"user_id":  user.UserID.String(),
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	}, nil)
}

// Login POST /api/v1/auth/login — authenticate, create session, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.Error(c, "Email and password are required", fiber.StatusBadRequest, nil)
	}

	user, err := h.Service.Login(c.Context(), req)
	if err != nil {
		switch err {
		case authsvc.ErrCredentialsRequired:
			return response.Error(c, err.Error(), fiber.StatusBadRequest, nil)
		case authsvc.ErrInvalidEmail, authsvc.ErrIncorrectPassword:
			return response.Error(c, err.Error(), fiber.StatusUnauthorized, nil)
		case authsvc.ErrUserBanned:
			return response.Error(c, err.Error(), fiber.StatusForbidden, nil)
		default:
			return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   user.UserID.String(),
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	})
	if err := h.Rdb.SAdd(context.Background(), userSessionsPrefix+user.UserID.String(), sessionID).Err(); err != nil {
		return response.Error(c, "Internal Server Error", fiber.StatusInternalServerError, nil)
	}
	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user": fiber.Map{
			"user_id":  user.UserID.String(),
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
	}, nil)
}

// Me GET /api/v1/auth/me — return current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		return response.Error(c, "Not authenticated", fiber.StatusUnauthorized, nil)
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user}, nil)
}

// Logout DELETE /api/v1/auth/logout — remove session from Redis, clear cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	sessionUser := middleware.GetUser(c)
	ctx := context.Background()

	if sessionUser != nil && sessionID != "" {
		if m, ok := sessionUser.(map[string]interface{}); ok {
			if userID, _ := m["user_id"].(string); userID != "" {
				_ = h.Rdb.SRem(ctx, userSessionsPrefix+userID, sessionID).Err()
			}
		}
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
