package service

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/recipehub/recipehub-server/internal/domain"
	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
	"github.com/recipehub/recipehub-server/internal/store"
)

// MaxCompareRecipes bounds how many recipes one comparison loads.
const MaxCompareRecipes = 10

// CompareService loads several recipes side by side.
type CompareService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewCompareService creates a new compare service.
func NewCompareService(store *store.Store, logger *slog.Logger) *CompareService {
	return &CompareService{
		store:  store,
		logger: logger,
	}
}

// ParseRecipeIDs splits a comma-separated ID list, trimming and dropping
// empty entries.
func ParseRecipeIDs(raw string) []string {
	var ids []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}

// CompareRecipes fetches the caller's live recipes among ids concurrently,
// keeping the order of ids. Unknown ids are skipped; NotFound is returned
// only when none match.
func (s *CompareService) CompareRecipes(ctx context.Context, ownerID string, ids []string) ([]*domain.Recipe, error) {
	if len(ids) == 0 {
		return nil, domainerrors.Validation("No recipe IDs provided")
	}
	if len(ids) > MaxCompareRecipes {
		return nil, domainerrors.Validationf("at most %d recipes can be compared", MaxCompareRecipes)
	}

	found := make([]*domain.Recipe, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, recipeID := range ids {
		g.Go(func() error {
			recipe, err := s.store.GetRecipe(gctx, ownerID, recipeID)
			if domainerrors.Is(err, domainerrors.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = recipe
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recipes := make([]*domain.Recipe, 0, len(ids))
	for _, r := range found {
		if r != nil {
			recipes = append(recipes, r)
		}
	}
	if len(recipes) == 0 {
		return nil, domainerrors.NotFound("No valid recipes found")
	}
	return recipes, nil
}
