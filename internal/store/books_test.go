package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipehub-server/internal/domain"
	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
	"github.com/recipehub/recipehub-server/internal/sse"
)

func TestCreateBook_ListedForOwnerOnly(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestBook(t, s, "user-1", "book-b", "Weeknights")
	createTestBook(t, s, "user-1", "book-a", "baking")
	createTestBook(t, s, "user-2", "book-c", "Other")

	books, err := s.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "baking", books[0].Name)
	assert.Equal(t, "Weeknights", books[1].Name)

	_, err = s.GetBook(ctx, "user-2", "book-a")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCreateBook_Duplicate(t *testing.T) {
	s := setupTestStore(t)
	createTestBook(t, s, "user-1", "book-1", "Soups")

	err := s.CreateBook(context.Background(), &domain.RecipeBook{ID: "book-1", OwnerID: "user-1"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestUpdateBook(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestBook(t, s, "user-1", "book-1", "Soups")

	updated, err := s.UpdateBook(ctx, "user-1", "book-1", func(b *domain.RecipeBook) error {
		b.Name = "Stews"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Stews", updated.Name)

	got, err := s.GetBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Stews", got.Name)

	_, err = s.UpdateBook(ctx, "user-2", "book-1", func(*domain.RecipeBook) error { return nil })
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestArchiveBook_DetachesRecipesWithoutDeletingThem(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	createTestBook(t, s, "user-1", "book-1", "Soups")
	createTestRecipe(t, s, "user-1", "rcp-1", "book-1", "Tomato soup")
	createTestRecipe(t, s, "user-1", "rcp-2", "book-1", "Leek soup")

	book, err := s.GetBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, 2, book.RecipeCount)

	archived, err := s.ArchiveBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	assert.NotNil(t, archived.ArchivedAt)

	books, err := s.ListBooks(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, books)

	for _, id := range []string{"rcp-1", "rcp-2"} {
		recipe, err := s.GetRecipe(ctx, "user-1", id)
		require.NoError(t, err)
		assert.Empty(t, recipe.BookID)
		assert.False(t, recipe.Archived)
	}

	inBook, err := s.ListRecipesByBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Empty(t, inBook)

	_, err = s.ArchiveBook(ctx, "user-1", "book-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recordingEmitter) Emit(event any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.(sse.Event))
}

func (r *recordingEmitter) types() []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sse.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

func TestStore_EmitsEventsAfterCommit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	emitter := &recordingEmitter{}
	s.SetEventEmitter(emitter)

	createTestBook(t, s, "user-1", "book-1", "Breads")
	createTestRecipe(t, s, "user-1", "rcp-1", "book-1", "Focaccia")

	_, err := s.ArchiveBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	require.NoError(t, s.ArchiveRecipe(ctx, "user-1", "rcp-1"))

	_, err = s.ArchiveBook(ctx, "user-1", "book-1")
	require.ErrorIs(t, err, ErrBookNotFound)

	assert.Equal(t, []sse.EventType{
		sse.EventBookCreated,
		sse.EventRecipeCreated,
		sse.EventRecipeUpdated,
		sse.EventBookArchived,
		sse.EventRecipeArchived,
	}, emitter.types())

	for _, e := range emitter.events {
		assert.Equal(t, "user-1", e.UserID)
	}
}
