package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/metrics"
	"github.com/recipehub/recipehub-server/internal/normalize"
	"github.com/recipehub/recipehub-server/internal/search"
	"github.com/recipehub/recipehub-server/internal/store"
)

// SearchService bridges the search index with the data store. It is the
// store's SearchIndexer, so committed recipe changes reach the index.
type SearchService struct {
	index  *search.SearchIndex
	store  *store.Store
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// SearchRecipes runs a query over the caller's recipes. Tags are normalized
// the same way recipe tags are.
func (s *SearchService) SearchRecipes(ctx context.Context, ownerID string, params search.SearchParams) (*search.SearchResult, error) {
	params.OwnerID = ownerID
	params.Query = strings.TrimSpace(params.Query)
	if len(params.Tags) > 0 {
		params.Tags = normalize.Tags(params.Tags)
	}

	result, err := s.index.Search(ctx, params)
	metrics.RecordSearch(err)
	if err != nil {
		return nil, fmt.Errorf("search recipes: %w", err)
	}
	return result, nil
}

// IndexRecipe indexes a single recipe.
// Called by the store after a recipe is created or updated.
func (s *SearchService) IndexRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if err := s.index.IndexRecipe(ctx, recipe); err != nil {
		metrics.RecordSearchIndexError()
		return fmt.Errorf("index recipe: %w", err)
	}

	s.logger.Debug("indexed recipe", "id", recipe.ID, "name", recipe.Name)
	return nil
}

// DeleteRecipe removes a recipe from the index.
func (s *SearchService) DeleteRecipe(ctx context.Context, recipeID string) error {
	if err := s.index.DeleteRecipe(ctx, recipeID); err != nil {
		metrics.RecordSearchIndexError()
		return fmt.Errorf("delete recipe from index: %w", err)
	}
	return nil
}

// DocumentCount returns the number of indexed recipes.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll drops the index and rebuilds it from the store.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	n, err := s.index.IndexAll(ctx, s.store.AllLiveRecipes(ctx))
	if err != nil {
		return n, fmt.Errorf("reindex recipes: %w", err)
	}

	s.logger.Info("search index rebuilt", "recipes", n)
	return n, nil
}

// EnsureIndexed rebuilds the index when it is empty, e.g. on first start or
// after a mapping change.
func (s *SearchService) EnsureIndexed(ctx context.Context) error {
	count, err := s.index.DocumentCount()
	if err != nil {
		return fmt.Errorf("count indexed documents: %w", err)
	}
	if count > 0 {
		return nil
	}

	if _, err := s.ReindexAll(ctx); err != nil {
		return err
	}
	return nil
}
