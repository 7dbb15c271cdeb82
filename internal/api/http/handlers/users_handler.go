package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quiktik/helpdesk/internal/api/dto"
	"github.com/quiktik/helpdesk/internal/auth"
	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
	"github.com/quiktik/helpdesk/internal/service"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// UsersHandler exposes the account management endpoints.
type UsersHandler struct {
	users  *service.UserService
	engine *authz.Engine
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, engine *authz.Engine) *UsersHandler {
	return &UsersHandler{users: userService, engine: engine}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	users, err := h.users.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}
	memberships := make(map[string][]domain.TeamMembership)
	if viewer.IsAdmin || viewer.IsTeamLead {
		for i := range users {
			teams, err := h.users.MembershipsOf(c.UserContext(), users[i].ID)
			if err != nil {
				return err
			}
			memberships[users[i].ID] = teams
		}
	}
	return c.JSON(fiber.Map{"data": dto.ProjectUsers(users, memberships, viewer)})
}

// Create handles POST /users. Admin only.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.Create(c.UserContext(), actor, service.CreateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ProjectUser(user, nil, viewer)})
}

// Get handles GET /users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	user, err := h.users.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}
	teams, err := h.users.MembershipsOf(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectUser(user, teams, viewer)})
}

// Update handles PATCH /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.users.Update(c.UserContext(), actor, c.Params("id"), service.UserUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		IsActive:  req.IsActive,
	})
	if err != nil {
		return err
	}
	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}
	teams, err := h.users.MembershipsOf(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectUser(user, teams, viewer)})
}

// Deactivate handles POST /users/:id/deactivate. Admin only, never self.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	if err := h.users.Deactivate(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "deactivated"}})
}
