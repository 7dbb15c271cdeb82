package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quiktik/helpdesk/internal/api/dto"
	"github.com/quiktik/helpdesk/internal/auth"
	"github.com/quiktik/helpdesk/internal/service"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// CategoriesHandler exposes category endpoints.
type CategoriesHandler struct {
	categories *service.CategoryService
}

// NewCategoriesHandler constructs handler.
func NewCategoriesHandler(categoryService *service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{categories: categoryService}
}

// Create handles POST /categories. Admin only.
func (h *CategoriesHandler) Create(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.categories.Create(c.UserContext(), actor, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.ProjectCategory(category)})
}

// List handles GET /categories.
func (h *CategoriesHandler) List(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	categories, err := h.categories.List(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectCategories(categories)})
}

// Get handles GET /categories/:id.
func (h *CategoriesHandler) Get(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	category, err := h.categories.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectCategory(category)})
}

// Update handles PATCH /categories/:id. Admin only.
func (h *CategoriesHandler) Update(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	category, err := h.categories.Update(c.UserContext(), actor, c.Params("id"), req.Name, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ProjectCategory(category)})
}

// Delete handles DELETE /categories/:id. Admin only.
func (h *CategoriesHandler) Delete(c *fiber.Ctx) error {
	actor := auth.ActorFromContext(c)
	if err := h.categories.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
