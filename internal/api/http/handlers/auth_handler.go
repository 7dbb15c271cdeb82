package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quiktik/helpdesk/internal/api/dto"
	"github.com/quiktik/helpdesk/internal/auth"
	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/service"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// AuthHandler exposes registration, login, logout, and identity lookup.
type AuthHandler struct {
	auth   *service.AuthService
	users  *service.UserService
	engine *authz.Engine
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, userService *service.UserService, engine *authz.Engine) *AuthHandler {
	return &AuthHandler{auth: authService, users: userService, engine: engine}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, token, expiresAt, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	viewer := authz.Viewer{}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      dto.ProjectUser(user, nil, viewer),
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	user, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	viewer, err := h.engine.ViewerFor(c.UserContext(), user)
	if err != nil {
		return err
	}
	memberships, err := h.users.MembershipsOf(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			User:      dto.ProjectUser(user, memberships, viewer),
		},
	})
}

// Logout handles POST /auth/logout by revoking the presented token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	expiresAt := time.Now().Add(time.Hour)
	if principal.Claims != nil && principal.Claims.ExpiresAt != nil {
		expiresAt = principal.Claims.ExpiresAt.Time
	}
	if err := h.auth.Logout(c.UserContext(), principal.TokenID, expiresAt); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "logged_out"}})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	if actor == nil {
		return apperrors.NewUnauthenticated("authentication required")
	}

	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}
	memberships, err := h.users.MembershipsOf(c.UserContext(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectUser(actor, memberships, viewer)})
}
