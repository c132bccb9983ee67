// FILE: checkers/internal/server/http/auth.go
package http

import (
	"log"
	"strings"
	"time"

	"checkers/internal/server/core"
	"checkers/internal/server/service"

	"github.com/gofiber/fiber/v2"
)

// LoginHandler authenticates an operator and returns a JWT
func (h *HTTPHandler) LoginHandler(c *fiber.Ctx) error {
	var req core.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	req.Identifier = strings.ToLower(req.Identifier)

	user, err := h.svc.AuthenticateUser(req.Identifier, req.Password)
	if err != nil {
		// Same error for unknown user and wrong password
		return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
			Error: "invalid credentials",
			Code:  core.ErrUnauthorized,
		})
	}

	token, err := h.svc.GenerateUserToken(user.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to generate token",
			Code:  core.ErrInternalError,
		})
	}

	if err := h.svc.UpdateLastLogin(user.UserID); err != nil {
		log.Printf("Failed to record login for %s: %v", user.Username, err)
	}

	return c.JSON(core.AuthResponse{
		Token:     token,
		UserID:    user.UserID,
		Username:  user.Username,
		ExpiresAt: time.Now().Add(service.SessionTTL),
	})
}

// GetCurrentUserHandler returns the authenticated operator
func (h *HTTPHandler) GetCurrentUserHandler(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(core.ErrorResponse{
			Error: "unauthorized",
			Code:  core.ErrUnauthorized,
		})
	}

	user, err := h.svc.GetUserByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(core.ErrorResponse{
			Error: "user not found",
			Code:  core.ErrInvalidRequest,
		})
	}

	return c.JSON(core.UserResponse{
		UserID:      user.UserID,
		Username:    user.Username,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	})
}

// LogoutHandler revokes the operator's session
func (h *HTTPHandler) LogoutHandler(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)
	if err := h.svc.Logout(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(core.ErrorResponse{
			Error: "failed to end session",
			Code:  core.ErrInternalError,
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
