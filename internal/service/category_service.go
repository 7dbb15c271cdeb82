package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/quiktik/helpdesk/internal/authz"
	"github.com/quiktik/helpdesk/internal/domain"
	"github.com/quiktik/helpdesk/internal/repository"
	apperrors "github.com/quiktik/helpdesk/pkg/util"
)

// CategoryService manages ticket categories.
type CategoryService struct {
	categories repository.CategoryRepository
	engine     *authz.Engine
}

// NewCategoryService constructs the service.
func NewCategoryService(categories repository.CategoryRepository, engine *authz.Engine) *CategoryService {
	return &CategoryService{categories: categories, engine: engine}
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name        string
	Description string
}

// Create registers a category. Admin only.
func (s *CategoryService) Create(ctx context.Context, actor *domain.User, input CategoryInput) (*domain.Category, error) {
	if err := s.engine.Authorize(ctx, actor, authz.ActionCreate, authz.CreateCategory{}); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("category name required", nil)
	}

	category := &domain.Category{Name: name, Description: input.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicate("category", map[string]any{"name": name})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// List returns all categories; any authenticated user may view them.
func (s *CategoryService) List(ctx context.Context, actor *domain.User) ([]domain.Category, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthenticated("authentication required")
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// Get fetches one category.
func (s *CategoryService) Get(ctx context.Context, actor *domain.User, id string) (*domain.Category, error) {
	category, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionView, authz.CategoryTarget{Category: category}); err != nil {
		return nil, err
	}
	return category, nil
}

// Update applies a partial category update. Admin only.
func (s *CategoryService) Update(ctx context.Context, actor *domain.User, id string, name, description *string) (*domain.Category, error) {
	category, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionEdit, authz.CategoryTarget{Category: category}); err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.NewValidationError("category name required", nil)
		}
		category.Name = trimmed
	}
	if description != nil {
		category.Description = *description
	}

	if err := s.categories.Update(ctx, category); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewDuplicate("category", map[string]any{"name": category.Name})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}

// Delete removes a category; dependent tickets keep existing without one.
// Admin only.
func (s *CategoryService) Delete(ctx context.Context, actor *domain.User, id string) error {
	category, err := s.fetch(ctx, id)
	if err != nil {
		return err
	}
	if err := s.engine.Authorize(ctx, actor, authz.ActionDelete, authz.CategoryTarget{Category: category}); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *CategoryService) fetch(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("category", map[string]any{"category_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return category, nil
}
