package handlers

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/circa-backend/internal/api/dto"
	"github.com/spec-kit/circa-backend/internal/auth"
	"github.com/spec-kit/circa-backend/internal/ratelimit"
	"github.com/spec-kit/circa-backend/internal/service"
	apperrors "github.com/spec-kit/circa-backend/pkg/util"
)

// AuthHandler exposes token issuance and the identity probe.
type AuthHandler struct {
	auth    *service.AuthService
	limiter *ratelimit.LoginLimiter
	logger  *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, limiter *ratelimit.LoginLimiter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: authService, limiter: limiter, logger: logger}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	key := strings.ToLower(req.Email) + "|" + c.IP()
	allowed, err := h.limiter.Allow(c.UserContext(), key)
	if err != nil {
		h.logger.Warn("login limiter unavailable", zap.Error(err))
	}
	if !allowed {
		return apperrors.NewRateLimited("too many login attempts")
	}

	_, token, _, err := h.auth.Login(c.UserContext(), req.Email)
	if err != nil {
		return err
	}

	return c.JSON(dto.TokenResponse{Token: token})
}

// Logout handles POST /auth/logout. Tokens are stateless; the endpoint
// exists so clients have a uniform sign-out call.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing claims")
	}
	if err := h.auth.Logout(c.UserContext(), claims); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing claims")
	}
	return c.JSON(fiber.Map{"message": fmt.Sprintf("Hello, %s!", claims.Subject)})
}
