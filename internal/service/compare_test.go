package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
)

func TestParseRecipeIDs(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{" , ,", nil},
		{"rcp-1", []string{"rcp-1"}},
		{" rcp-1 ,rcp-2,, rcp-3", []string{"rcp-1", "rcp-2", "rcp-3"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRecipeIDs(tt.raw))
		})
	}
}

func TestCompareService_CompareRecipes(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	book := s.createBook(t, "user-1", "Baking")
	bread := s.createRecipe(t, testCaller, book.ID, "Bread")
	cake := s.createRecipe(t, testCaller, book.ID, "Cake")

	recipes, err := s.compare.CompareRecipes(ctx, "user-1", []string{cake.ID, "rcp-missing", bread.ID})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, cake.ID, recipes[0].ID)
	assert.Equal(t, bread.ID, recipes[1].ID)
}

func TestCompareService_CompareRecipes_Errors(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	book := s.createBook(t, "user-1", "Baking")
	bread := s.createRecipe(t, testCaller, book.ID, "Bread")

	_, err := s.compare.CompareRecipes(ctx, "user-1", nil)
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t, "No recipe IDs provided", err.Error())

	_, err = s.compare.CompareRecipes(ctx, "user-2", []string{bread.ID})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
	assert.Equal(t, "No valid recipes found", err.Error())

	tooMany := ParseRecipeIDs(strings.Repeat("rcp-x,", MaxCompareRecipes+1))
	_, err = s.compare.CompareRecipes(ctx, "user-1", tooMany)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	require.NoError(t, s.recipes.ArchiveRecipe(ctx, "user-1", bread.ID))
	_, err = s.compare.CompareRecipes(ctx, "user-1", []string{bread.ID})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}
