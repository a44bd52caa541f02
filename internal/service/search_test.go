package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/search"
)

func TestSearchService_FollowsRecipeChanges(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	book := s.createBook(t, "user-1", "Baking")
	recipe := s.createRecipe(t, testCaller, book.ID, "Banana Bread",
		domain.Structured(domain.Qty(3), "", "ripe bananas"),
	)
	s.createRecipe(t, &testIdentityOther, s.createBook(t, "user-2", "Theirs").ID, "Banana Split")

	result, err := s.search.SearchRecipes(ctx, "user-1", search.SearchParams{Query: "banana"})
	require.NoError(t, err)
	require.Len(t, result.Hits, 1)
	assert.Equal(t, recipe.ID, result.Hits[0].ID)

	byTag, err := s.search.SearchRecipes(ctx, "user-1", search.SearchParams{Tags: []string{"Ripe Bananas"}})
	require.NoError(t, err)
	assert.Len(t, byTag.Hits, 1)

	_, _, err = s.recipes.UpdateRecipe(ctx, testCaller, recipe.ID, UpdateRecipeInput{Name: ptr("Plantain Loaf")})
	require.NoError(t, err)
	renamed, err := s.search.SearchRecipes(ctx, "user-1", search.SearchParams{Query: "plantain"})
	require.NoError(t, err)
	assert.Len(t, renamed.Hits, 1)

	require.NoError(t, s.recipes.ArchiveRecipe(ctx, "user-1", recipe.ID))
	gone, err := s.search.SearchRecipes(ctx, "user-1", search.SearchParams{Query: "plantain"})
	require.NoError(t, err)
	assert.Empty(t, gone.Hits)
}

func TestSearchService_EnsureIndexed(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	book := s.createBook(t, "user-1", "Baking")
	s.createRecipe(t, testCaller, book.ID, "Bread")
	s.createRecipe(t, testCaller, book.ID, "Cake")

	count, err := s.search.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	n, err := s.search.ReindexAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.search.EnsureIndexed(ctx))
	count, err = s.search.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}
