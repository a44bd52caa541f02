package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipehub-server/internal/auth"
	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/logger"
	"github.com/recipehub/recipehub-server/internal/search"
	"github.com/recipehub/recipehub-server/internal/store"
	"github.com/recipehub/recipehub-server/internal/validation"
)

type testServices struct {
	store    *store.Store
	books    *BookService
	recipes  *RecipeService
	versions *VersionService
	compare  *CompareService
	search   *SearchService
	profiles *ProfileService
}

var testCaller = &auth.Identity{UserID: "user-1", Email: "ada@example.com", Name: "Ada"}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	log := logger.Discard().Logger
	st, err := store.New("", log, store.Options{InMemory: true, MaxRetries: 50})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{InMemory: true, Logger: log})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	searchService := NewSearchService(index, st, log)
	st.SetSearchIndexer(searchService)

	v := validation.New()
	return &testServices{
		store:    st,
		books:    NewBookService(st, v, log),
		recipes:  NewRecipeService(st, v, log),
		versions: NewVersionService(st, log),
		compare:  NewCompareService(st, log),
		search:   searchService,
		profiles: NewProfileService(st, log),
	}
}

func (s *testServices) createBook(t *testing.T, ownerID, name string) *domain.RecipeBook {
	t.Helper()
	book, err := s.books.CreateBook(context.Background(), ownerID, BookInput{Name: name, Description: "desc", Image: "📖"})
	require.NoError(t, err)
	return book
}

func (s *testServices) createRecipe(t *testing.T, caller *auth.Identity, bookID, name string, ingredients ...domain.Ingredient) *domain.Recipe {
	t.Helper()
	if len(ingredients) == 0 {
		ingredients = []domain.Ingredient{domain.Structured(domain.Qty(1), "cup", "flour")}
	}
	recipe, err := s.recipes.CreateRecipe(context.Background(), caller, CreateRecipeInput{
		Name:         name,
		Servings:     4,
		Ingredients:  domain.Flat(ingredients...),
		Instructions: domain.Flat("Mix", "Bake"),
		BookID:       bookID,
	})
	require.NoError(t, err)
	return recipe
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
