package store

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipehub-server/internal/domain"
	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
)

type recordingIndexer struct {
	mu      sync.Mutex
	indexed map[string]string
	deleted []string
}

func newRecordingIndexer() *recordingIndexer {
	return &recordingIndexer{indexed: make(map[string]string)}
}

func (r *recordingIndexer) IndexRecipe(_ context.Context, recipe *domain.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexed[recipe.ID] = recipe.Name
	return nil
}

func (r *recordingIndexer) DeleteRecipe(_ context.Context, recipeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.indexed, recipeID)
	r.deleted = append(r.deleted, recipeID)
	return nil
}

func TestCreateRecipe_WritesFirstVersion(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	indexer := newRecordingIndexer()
	s.SetSearchIndexer(indexer)

	createTestBook(t, s, "user-1", "book-1", "Soups")
	createTestRecipe(t, s, "user-1", "rcp-1", "book-1", "Tomato soup")

	recipe, err := s.GetRecipe(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, recipe.CurrentVersion)
	assert.Equal(t, "book-1", recipe.BookID)

	versions, err := s.ListVersions(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].Version)
	assert.Equal(t, domain.InitialVersionNotes, versions[0].Notes)
	assert.Equal(t, "Tomato soup", versions[0].Data.Name)

	book, err := s.GetBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"rcp-1"}, book.RecipeIDs)
	assert.Equal(t, 1, book.RecipeCount)

	assert.Equal(t, "Tomato soup", indexer.indexed["rcp-1"])
}

func TestCreateRecipe_MissingBook(t *testing.T) {
	s := setupTestStore(t)

	recipe := &domain.Recipe{ID: "rcp-1", OwnerID: "user-1", Name: "Soup", BookID: "nope", CurrentVersion: 1}
	first := &domain.Version{ID: "ver-1", RecipeID: "rcp-1", OwnerID: "user-1", Version: 1}

	err := s.CreateRecipe(context.Background(), recipe, first)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = s.GetRecipe(context.Background(), "user-1", "rcp-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestCreateRecipe_ForeignBook(t *testing.T) {
	s := setupTestStore(t)
	createTestBook(t, s, "user-2", "book-2", "Theirs")

	recipe := &domain.Recipe{ID: "rcp-1", OwnerID: "user-1", Name: "Soup", BookID: "book-2", CurrentVersion: 1}
	first := &domain.Version{ID: "ver-1", RecipeID: "rcp-1", OwnerID: "user-1", Version: 1}

	err := s.CreateRecipe(context.Background(), recipe, first)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateRecipe_AppendsVersionAndKeepsHistory(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "Soup")

	updated, version, err := s.UpdateRecipe(ctx, "user-1", "rcp-1", bumpVersion("Better soup"))
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentVersion)
	assert.Equal(t, 2, version.Version)
	assert.Equal(t, "Better soup", version.Data.Name)

	first, err := s.GetVersion(ctx, "user-1", "rcp-1", 1)
	require.NoError(t, err)
	assert.Equal(t, "Soup", first.Data.Name)

	byID, err := s.GetVersionByID(ctx, "user-1", version.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, byID.Version)

	_, err = s.GetVersion(ctx, "user-1", "rcp-1", 3)
	assert.ErrorIs(t, err, ErrVersionNotFound)
}

func TestUpdateRecipe_RejectsSkippedVersion(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "Soup")

	_, _, err := s.UpdateRecipe(ctx, "user-1", "rcp-1", func(r *domain.Recipe) (*domain.Version, error) {
		r.CurrentVersion += 2
		return &domain.Version{ID: "ver-x", RecipeID: r.ID, OwnerID: r.OwnerID, Version: r.CurrentVersion}, nil
	})
	require.Error(t, err)

	recipe, err := s.GetRecipe(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, recipe.CurrentVersion)
}

func TestUpdateRecipe_MutationErrorRollsBack(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "Soup")

	boom := domainerrors.Validation("name is required")
	_, _, err := s.UpdateRecipe(ctx, "user-1", "rcp-1", func(r *domain.Recipe) (*domain.Version, error) {
		r.Name = "changed"
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	recipe, err := s.GetRecipe(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	assert.Equal(t, "Soup", recipe.Name)
}

func TestUpdateRecipe_ConcurrentUpdatesGetDistinctVersions(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "Soup")

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.UpdateRecipe(ctx, "user-1", "rcp-1", bumpVersion(fmt.Sprintf("soup-%d", i)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	versions, err := s.ListVersions(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	require.Len(t, versions, writers+1)
	for i, v := range versions {
		assert.Equal(t, i+1, v.Version)
	}

	recipe, err := s.GetRecipe(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	assert.Equal(t, writers+1, recipe.CurrentVersion)
}

func TestUpdateRecipe_MovesBetweenBooks(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestBook(t, s, "user-1", "book-a", "A")
	createTestBook(t, s, "user-1", "book-b", "B")
	createTestRecipe(t, s, "user-1", "rcp-1", "book-a", "Soup")

	_, _, err := s.UpdateRecipe(ctx, "user-1", "rcp-1", func(r *domain.Recipe) (*domain.Version, error) {
		r.BookID = "book-b"
		return bumpVersion("Soup")(r)
	})
	require.NoError(t, err)

	a, err := s.GetBook(ctx, "user-1", "book-a")
	require.NoError(t, err)
	assert.Empty(t, a.RecipeIDs)
	assert.Equal(t, 0, a.RecipeCount)

	b, err := s.GetBook(ctx, "user-1", "book-b")
	require.NoError(t, err)
	assert.Equal(t, []string{"rcp-1"}, b.RecipeIDs)
	assert.Equal(t, 1, b.RecipeCount)

	inB, err := s.ListRecipesByBook(ctx, "user-1", "book-b")
	require.NoError(t, err)
	require.Len(t, inB, 1)
	assert.Equal(t, "rcp-1", inB[0].ID)
}

func TestUpdateRecipe_MoveToMissingBookFails(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "Soup")

	_, _, err := s.UpdateRecipe(ctx, "user-1", "rcp-1", func(r *domain.Recipe) (*domain.Version, error) {
		r.BookID = "missing"
		return bumpVersion("Soup")(r)
	})
	assert.ErrorIs(t, err, ErrBookNotFound)

	versions, err := s.ListVersions(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestIncrementViewCount_NoVersion(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "Soup")

	for range 3 {
		_, err := s.IncrementViewCount(ctx, "user-1", "rcp-1")
		require.NoError(t, err)
	}

	recipe, err := s.GetRecipe(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	assert.Equal(t, 3, recipe.ViewCount)
	assert.Equal(t, 1, recipe.CurrentVersion)
}

func TestArchiveRecipe(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	indexer := newRecordingIndexer()
	s.SetSearchIndexer(indexer)

	createTestBook(t, s, "user-1", "book-1", "Soups")
	createTestRecipe(t, s, "user-1", "rcp-1", "book-1", "Soup")

	require.NoError(t, s.ArchiveRecipe(ctx, "user-1", "rcp-1"))

	_, err := s.GetRecipe(ctx, "user-1", "rcp-1")
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	recipes, err := s.ListRecipes(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, recipes)

	book, err := s.GetBook(ctx, "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, 0, book.RecipeCount)

	versions, err := s.ListVersions(ctx, "user-1", "rcp-1")
	require.NoError(t, err)
	assert.Len(t, versions, 1)

	assert.Equal(t, []string{"rcp-1"}, indexer.deleted)

	_, _, err = s.UpdateRecipe(ctx, "user-1", "rcp-1", bumpVersion("x"))
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestRecipes_ForeignOwnerReadsAsMissing(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "Soup")

	_, err := s.GetRecipe(ctx, "user-2", "rcp-1")
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = s.ListVersions(ctx, "user-2", "rcp-1")
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = s.GetVersionByID(ctx, "user-2", "ver-rcp-1-1")
	assert.ErrorIs(t, err, ErrVersionNotFound)

	assert.ErrorIs(t, s.ArchiveRecipe(ctx, "user-2", "rcp-1"), ErrRecipeNotFound)

	recipes, err := s.ListRecipes(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, recipes)
}

func TestListRecipes_SortedByName(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "pancakes")
	createTestRecipe(t, s, "user-1", "rcp-2", "", "Apple pie")
	createTestRecipe(t, s, "user-1", "rcp-3", "", "Minestrone")

	recipes, err := s.ListRecipes(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, recipes, 3)
	assert.Equal(t, "Apple pie", recipes[0].Name)
	assert.Equal(t, "Minestrone", recipes[1].Name)
	assert.Equal(t, "pancakes", recipes[2].Name)

	byIDs, err := s.GetRecipesByIDs(ctx, "user-1", []string{"rcp-3", "missing", "rcp-1"})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, "rcp-3", byIDs[0].ID)
	assert.Equal(t, "rcp-1", byIDs[1].ID)
}

func TestAllLiveRecipes_SkipsArchived(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	createTestRecipe(t, s, "user-1", "rcp-1", "", "Soup")
	createTestRecipe(t, s, "user-2", "rcp-2", "", "Stew")
	require.NoError(t, s.ArchiveRecipe(ctx, "user-1", "rcp-1"))

	var ids []string
	for recipe, err := range s.AllLiveRecipes(ctx) {
		require.NoError(t, err)
		ids = append(ids, recipe.ID)
	}
	assert.Equal(t, []string{"rcp-2"}, ids)
}
