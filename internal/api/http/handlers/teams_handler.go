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

// TeamsHandler exposes team and membership endpoints.
type TeamsHandler struct {
	teams  *service.TeamService
	engine *authz.Engine
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService, engine *authz.Engine) *TeamsHandler {
	return &TeamsHandler{teams: teamService, engine: engine}
}

// Create handles POST /teams. Admin only.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	team, err := h.teams.Create(c.UserContext(), actor, service.TeamInput{
		Name:              req.Name,
		CanViewAllTickets: req.CanViewAllTickets,
		CanAssignTickets:  req.CanAssignTickets,
		CanCloseTickets:   req.CanCloseTickets,
		CanDeleteTickets:  req.CanDeleteTickets,
	})
	if err != nil {
		return err
	}
	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ProjectTeam(team, 0, viewer)})
}

// List handles GET /teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	teams, err := h.teams.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}

	out := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		members, err := h.teams.ListMembers(c.UserContext(), actor, teams[i].ID)
		if err != nil {
			return err
		}
		out = append(out, dto.ProjectTeam(&teams[i], len(members), viewer))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get handles GET /teams/:id with the member roster.
func (h *TeamsHandler) Get(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	team, err := h.teams.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	members, err := h.teams.ListMembers(c.UserContext(), actor, team.ID)
	if err != nil {
		return err
	}
	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectTeamDetail(team, members, viewer)})
}

// Update handles PATCH /teams/:id. Admin only.
func (h *TeamsHandler) Update(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.UpdateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	team, err := h.teams.Update(c.UserContext(), actor, c.Params("id"), service.TeamUpdateInput{
		Name:              req.Name,
		CanViewAllTickets: req.CanViewAllTickets,
		CanAssignTickets:  req.CanAssignTickets,
		CanCloseTickets:   req.CanCloseTickets,
		CanDeleteTickets:  req.CanDeleteTickets,
	})
	if err != nil {
		return err
	}
	members, err := h.teams.ListMembers(c.UserContext(), actor, team.ID)
	if err != nil {
		return err
	}
	viewer, err := h.engine.ViewerFor(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectTeam(team, len(members), viewer)})
}

// Delete handles DELETE /teams/:id. Admin only.
func (h *TeamsHandler) Delete(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	if err := h.teams.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListMembers handles GET /teams/:id/members.
func (h *TeamsHandler) ListMembers(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	members, err := h.teams.ListMembers(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	out := make([]dto.MembershipResponse, 0, len(members))
	for i := range members {
		out = append(out, dto.ProjectMembership(&members[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// AddMember handles POST /teams/:id/members. Admin or lead of the team.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" {
		return apperrors.NewValidationError("user_id required", nil)
	}
	role := req.Role
	if role == "" {
		role = domain.MembershipRoleMember
	}

	membership, err := h.teams.AddMember(c.UserContext(), actor, c.Params("id"), req.UserID, role)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ProjectMembership(membership)})
}

// UpdateMember handles PATCH /members/:id. Admin or lead of the team.
func (h *TeamsHandler) UpdateMember(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.UpdateMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	membership, err := h.teams.UpdateMemberRole(c.UserContext(), actor, c.Params("id"), req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectMembership(membership)})
}

// RemoveMember handles DELETE /members/:id. Admin or lead of the team.
func (h *TeamsHandler) RemoveMember(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	if err := h.teams.RemoveMember(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
