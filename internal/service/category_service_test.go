package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiktik/helpdesk/internal/authz"
)

func newCategoryService() (*CategoryService, *fakeCategoryRepo) {
	categories := newFakeCategoryRepo()
	svc := NewCategoryService(categories, authz.NewEngine(newFakeMembershipRepo()))
	return svc, categories
}

func TestCategoryCreateAdminOnly(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	category, err := svc.Create(ctx, adminUser(), CategoryInput{Name: "Hardware", Description: "Physical kit"})
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)

	_, err = svc.Create(ctx, plainUser("u1"), CategoryInput{Name: "Software"})
	assert.Equal(t, "FORBIDDEN", code(t, err))
}

func TestCategoryDuplicateName(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	_, err := svc.Create(ctx, adminUser(), CategoryInput{Name: "Hardware"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminUser(), CategoryInput{Name: "Hardware"})
	assert.Equal(t, "DUPLICATE_ENTITY", code(t, err))
}

func TestCategoryVisibleToEveryone(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, adminUser(), CategoryInput{Name: "Hardware"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, plainUser("u1"), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hardware", got.Name)

	listed, err := svc.List(ctx, plainUser("u1"))
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestCategoryUpdateAndDelete(t *testing.T) {
	svc, _ := newCategoryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, adminUser(), CategoryInput{Name: "Hardware"})
	require.NoError(t, err)

	newName := "Peripherals"
	_, err = svc.Update(ctx, plainUser("u1"), created.ID, &newName, nil)
	assert.Equal(t, "FORBIDDEN", code(t, err))

	updated, err := svc.Update(ctx, adminUser(), created.ID, &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, "Peripherals", updated.Name)

	assert.Equal(t, "FORBIDDEN", code(t, svc.Delete(ctx, plainUser("u1"), created.ID)))
	require.NoError(t, svc.Delete(ctx, adminUser(), created.ID))
	assert.Equal(t, "NOT_FOUND", code(t, svc.Delete(ctx, adminUser(), created.ID)))
}

func TestCategoryRoundTripName(t *testing.T) {
	svc, categories := newCategoryService()
	ctx := context.Background()

	created, err := svc.Create(ctx, adminUser(), CategoryInput{Name: "  Hardware  "})
	require.NoError(t, err)
	assert.Equal(t, "Hardware", created.Name)

	stored, err := categories.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hardware", stored.Name)
}
