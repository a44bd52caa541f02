package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
)

func TestBookService_CreateBook(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	book, err := s.books.CreateBook(ctx, "user-1", BookInput{Name: " Soups ", Description: "Warm things", Image: "🍲"})
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Soups", book.Name)
	assert.Equal(t, "🍲", book.Icon)
	assert.Equal(t, 0, book.RecipeCount)
	assert.NotNil(t, book.RecipeIDs)

	books, err := s.books.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, book.ID, books[0].ID)
}

func TestBookService_CreateBook_Validation(t *testing.T) {
	s := newTestServices(t)

	_, err := s.books.CreateBook(context.Background(), "user-1", BookInput{Name: "  ", Description: "desc"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t,
		"image is required and must be a non-empty string; name is required and must be a non-empty string",
		err.Error())
}

func TestBookService_UpdateBook(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	book := s.createBook(t, "user-1", "Soups")

	updated, err := s.books.UpdateBook(ctx, "user-1", book.ID, BookInput{Name: "Stews", Description: "Thick", Image: "🥘"})
	require.NoError(t, err)
	assert.Equal(t, "Stews", updated.Name)
	assert.Equal(t, "🥘", updated.Icon)

	_, err = s.books.UpdateBook(ctx, "user-2", book.ID, BookInput{Name: "x", Description: "y", Image: "z"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	_, err = s.books.UpdateBook(ctx, "user-1", "missing", BookInput{Name: "x", Description: "y", Image: "z"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestBookService_ArchiveBook(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	book := s.createBook(t, "user-1", "Soups")
	recipe := s.createRecipe(t, testCaller, book.ID, "Tomato soup")

	inBook, err := s.books.ListBookRecipes(ctx, "user-1", book.ID)
	require.NoError(t, err)
	require.Len(t, inBook, 1)

	_, err = s.books.ArchiveBook(ctx, "user-1", book.ID)
	require.NoError(t, err)

	books, err := s.books.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, books)

	got, err := s.recipes.GetRecipe(ctx, "user-1", recipe.ID)
	require.NoError(t, err)
	assert.Empty(t, got.BookID)

	inBook, err = s.books.ListBookRecipes(ctx, "user-1", book.ID)
	require.NoError(t, err)
	assert.Empty(t, inBook)
}

func TestBookService_ListBookRecipes_UnknownBook(t *testing.T) {
	s := newTestServices(t)

	recipes, err := s.books.ListBookRecipes(context.Background(), "user-1", "nope")
	require.NoError(t, err)
	assert.NotNil(t, recipes)
	assert.Empty(t, recipes)
}
