package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quiktik/helpdesk/internal/api/dto"
	"github.com/quiktik/helpdesk/internal/auth"
	"github.com/quiktik/helpdesk/internal/service"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// TicketsHandler exposes ticket, comment, and assignment endpoints.
type TicketsHandler struct {
	tickets     *service.TicketService
	assignments *service.AssignmentService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, assignmentService *service.AssignmentService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, assignments: assignmentService}
}

// Create handles POST /tickets.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Create(c.UserContext(), actor, service.TicketCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ProjectTicketDetail(ticket, nil)})
}

// List handles GET /tickets, newest first.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	tickets, err := h.tickets.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectTicketSummaries(tickets)})
}

// Get handles GET /tickets/:id with the comment thread.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	ticket, comments, err := h.tickets.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectTicketDetail(ticket, comments)})
}

// Update handles PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.tickets.Update(c.UserContext(), actor, c.Params("id"), service.TicketUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectTicketSummary(ticket)})
}

// Delete handles DELETE /tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	if err := h.tickets.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Assign handles POST /tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.assignments.Assign(c.UserContext(), actor, c.Params("id"), req.AssignedTo, req.AssignedToTeam)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectTicketSummary(ticket)})
}

// ListComments handles GET /tickets/:id/comments.
func (h *TicketsHandler) ListComments(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	comments, err := h.tickets.ListComments(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectComments(comments)})
}

// AddComment handles POST /tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.tickets.AddComment(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ProjectComment(comment)})
}

// UpdateComment handles PATCH /comments/:id. Author or admin only.
func (h *TicketsHandler) UpdateComment(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.UpdateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	comment, err := h.tickets.UpdateComment(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectComment(comment)})
}

// DeleteComment handles DELETE /comments/:id. Author or admin only.
func (h *TicketsHandler) DeleteComment(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	if err := h.tickets.DeleteComment(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
