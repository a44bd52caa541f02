package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/sse"
)

// RecipeMutation changes a freshly read recipe and returns the version to
// append for the change. It runs again on every conflict retry, so it must
// only touch the recipe it is given.
type RecipeMutation func(recipe *domain.Recipe) (*domain.Version, error)

// loadRecipe reads a recipe owned by ownerID. Foreign recipes read as
// missing; archived ones are returned only when includeArchived is set.
func loadRecipe(txn *badger.Txn, ownerID, recipeID string, includeArchived bool) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := getJSON(txn, recipeKey(recipeID), &recipe); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	if recipe.OwnerID != ownerID || (recipe.Archived && !includeArchived) {
		return nil, ErrRecipeNotFound
	}
	return &recipe, nil
}

// CreateRecipe stores a recipe together with its first version. When the
// recipe names a book, the book's recipe list is updated in the same
// transaction.
func (s *Store) CreateRecipe(ctx context.Context, recipe *domain.Recipe, first *domain.Version) error {
	if first.RecipeID != recipe.ID || first.Version != recipe.CurrentVersion {
		return fmt.Errorf("create recipe: version %d of %s does not match recipe %s at %d",
			first.Version, first.RecipeID, recipe.ID, recipe.CurrentVersion)
	}

	err := s.update(ctx, "recipe.create", func(txn *badger.Txn) error {
		key := recipeKey(recipe.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check recipe exists: %w", err)
		}

		if recipe.BookID != "" {
			if err := attachToBook(txn, recipe, recipe.BookID, s.now); err != nil {
				return err
			}
		}

		if err := setJSON(txn, key, recipe); err != nil {
			return fmt.Errorf("set recipe: %w", err)
		}
		if err := txn.Set(recipeOwnerKey(recipe.OwnerID, recipe.ID), []byte{}); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		return putVersion(txn, first)
	})
	if err != nil {
		return fmt.Errorf("create recipe: %w", err)
	}

	s.reindex(ctx, recipe)
	s.eventEmitter.Emit(sse.NewRecipeEvent(sse.EventRecipeCreated, recipe))

	if s.logger != nil {
		s.logger.Info("recipe created", "id", recipe.ID, "name", recipe.Name, "owner_id", recipe.OwnerID, "book_id", recipe.BookID)
	}
	return nil
}

// UpdateRecipe reads a live recipe, applies mutate, moves the recipe between
// books when its bookId changed, and appends the returned version. All of it
// commits atomically or not at all.
func (s *Store) UpdateRecipe(ctx context.Context, ownerID, recipeID string, mutate RecipeMutation) (*domain.Recipe, *domain.Version, error) {
	var (
		updated *domain.Recipe
		version *domain.Version
	)

	err := s.update(ctx, "recipe.update", func(txn *badger.Txn) error {
		recipe, err := loadRecipe(txn, ownerID, recipeID, false)
		if err != nil {
			return err
		}
		previousBookID := recipe.BookID
		previousVersion := recipe.CurrentVersion

		v, err := mutate(recipe)
		if err != nil {
			return err
		}
		if recipe.ID != recipeID || recipe.OwnerID != ownerID {
			return fmt.Errorf("update recipe %s: identity changed by mutation", recipeID)
		}
		if v.RecipeID != recipeID || v.Version != previousVersion+1 || recipe.CurrentVersion != v.Version {
			return fmt.Errorf("update recipe %s: expected version %d, got %d", recipeID, previousVersion+1, v.Version)
		}

		if recipe.BookID != previousBookID {
			if previousBookID != "" {
				if err := detachFromBook(txn, recipe, previousBookID, s.now); err != nil {
					return err
				}
			}
			if recipe.BookID != "" {
				if err := attachToBook(txn, recipe, recipe.BookID, s.now); err != nil {
					return err
				}
			}
		}

		if err := setJSON(txn, recipeKey(recipeID), recipe); err != nil {
			return fmt.Errorf("set recipe: %w", err)
		}
		if err := putVersion(txn, v); err != nil {
			return err
		}

		updated, version = recipe, v
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.reindex(ctx, updated)
	s.eventEmitter.Emit(sse.NewRecipeEvent(sse.EventRecipeUpdated, updated))

	if s.logger != nil {
		s.logger.Info("recipe updated", "id", recipeID, "version", version.Version, "owner_id", ownerID)
	}
	return updated, version, nil
}

// attachToBook adds the recipe to a live book of the same owner.
func attachToBook(txn *badger.Txn, recipe *domain.Recipe, bookID string, now func() time.Time) error {
	book, err := loadBook(txn, recipe.OwnerID, bookID)
	if err != nil {
		return err
	}
	if book.AddRecipe(recipe.ID, now()) {
		if err := setJSON(txn, bookKey(bookID), book); err != nil {
			return fmt.Errorf("set book: %w", err)
		}
	}
	if err := txn.Set(recipeBookKey(bookID, recipe.ID), []byte{}); err != nil {
		return fmt.Errorf("set book index: %w", err)
	}
	return nil
}

// detachFromBook removes the recipe from a book. A book that is gone or
// archived only loses its index entry.
func detachFromBook(txn *badger.Txn, recipe *domain.Recipe, bookID string, now func() time.Time) error {
	book, err := loadBook(txn, recipe.OwnerID, bookID)
	switch {
	case errors.Is(err, ErrBookNotFound):
	case err != nil:
		return err
	default:
		if book.RemoveRecipe(recipe.ID, now()) {
			if err := setJSON(txn, bookKey(bookID), book); err != nil {
				return fmt.Errorf("set book: %w", err)
			}
		}
	}

	if err := txn.Delete(recipeBookKey(bookID, recipe.ID)); err != nil {
		return fmt.Errorf("delete book index: %w", err)
	}
	return nil
}

// GetRecipe retrieves a live recipe owned by ownerID.
func (s *Store) GetRecipe(ctx context.Context, ownerID, recipeID string) (*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var recipe *domain.Recipe
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		recipe, err = loadRecipe(txn, ownerID, recipeID, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// IncrementViewCount bumps the view counter of a live recipe and returns the
// recipe as stored. No version is recorded.
func (s *Store) IncrementViewCount(ctx context.Context, ownerID, recipeID string) (*domain.Recipe, error) {
	var viewed *domain.Recipe
	err := s.update(ctx, "recipe.view", func(txn *badger.Txn) error {
		recipe, err := loadRecipe(txn, ownerID, recipeID, false)
		if err != nil {
			return err
		}
		recipe.ViewCount++
		if err := setJSON(txn, recipeKey(recipeID), recipe); err != nil {
			return fmt.Errorf("set recipe: %w", err)
		}
		viewed = recipe
		return nil
	})
	if err != nil {
		return nil, err
	}
	return viewed, nil
}

// ArchiveRecipe archives a live recipe and detaches it from its book. Its
// versions are kept.
func (s *Store) ArchiveRecipe(ctx context.Context, ownerID, recipeID string) error {
	var archived *domain.Recipe
	err := s.update(ctx, "recipe.archive", func(txn *badger.Txn) error {
		recipe, err := loadRecipe(txn, ownerID, recipeID, false)
		if err != nil {
			return err
		}

		if recipe.BookID != "" {
			if err := detachFromBook(txn, recipe, recipe.BookID, s.now); err != nil {
				return err
			}
			recipe.BookID = ""
		}

		recipe.MarkArchived(s.now())
		if err := setJSON(txn, recipeKey(recipeID), recipe); err != nil {
			return fmt.Errorf("set recipe: %w", err)
		}
		archived = recipe
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.searchIndexer.DeleteRecipe(ctx, recipeID); err != nil && s.logger != nil {
		s.logger.Warn("failed to remove recipe from search index", "recipe_id", recipeID, "error", err)
	}
	s.eventEmitter.Emit(sse.NewRecipeEvent(sse.EventRecipeArchived, archived))

	if s.logger != nil {
		s.logger.Info("recipe archived", "id", recipeID, "owner_id", ownerID)
	}
	return nil
}

// ListRecipes returns the owner's live recipes sorted by name.
func (s *Store) ListRecipes(ctx context.Context, ownerID string) ([]*domain.Recipe, error) {
	return s.listRecipesByIndex(ctx, ownerID, recipeOwnerScan(ownerID))
}

// ListRecipesByBook returns the owner's live recipes in a book, sorted by
// name. Unknown books yield an empty list.
func (s *Store) ListRecipesByBook(ctx context.Context, ownerID, bookID string) ([]*domain.Recipe, error) {
	return s.listRecipesByIndex(ctx, ownerID, recipeBookScan(bookID))
}

func (s *Store) listRecipesByIndex(ctx context.Context, ownerID string, prefix []byte) ([]*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipes := make([]*domain.Recipe, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		for _, recipeID := range scanIDs(txn, prefix) {
			recipe, err := loadRecipe(txn, ownerID, recipeID, false)
			if errors.Is(err, ErrRecipeNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			recipes = append(recipes, recipe)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	sortRecipesByName(recipes)
	return recipes, nil
}

// GetRecipesByIDs returns the owner's live recipes among ids, in the order
// given. Missing ids are skipped.
func (s *Store) GetRecipesByIDs(ctx context.Context, ownerID string, ids []string) ([]*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recipes := make([]*domain.Recipe, 0, len(ids))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			recipe, err := loadRecipe(txn, ownerID, id, false)
			if errors.Is(err, ErrRecipeNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			recipes = append(recipes, recipe)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get recipes: %w", err)
	}
	return recipes, nil
}

// AllLiveRecipes iterates every non-archived recipe of every owner. Used to
// rebuild the search index.
func (s *Store) AllLiveRecipes(ctx context.Context) iter.Seq2[*domain.Recipe, error] {
	return func(yield func(*domain.Recipe, error) bool) {
		var recipes []*domain.Recipe
		err := s.db.View(func(txn *badger.Txn) error {
			var err error
			recipes, err = scanJSON[domain.Recipe](txn, []byte(recipePrefix))
			return err
		})
		if err != nil {
			yield(nil, fmt.Errorf("scan recipes: %w", err))
			return
		}

		for _, recipe := range recipes {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}
			if recipe.Archived {
				continue
			}
			if !yield(recipe, nil) {
				return
			}
		}
	}
}

func sortRecipesByName(recipes []*domain.Recipe) {
	slices.SortFunc(recipes, func(a, b *domain.Recipe) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			strings.Compare(a.ID, b.ID),
		)
	})
}

// reindex pushes a committed recipe to the search index.
func (s *Store) reindex(ctx context.Context, recipe *domain.Recipe) {
	if err := s.searchIndexer.IndexRecipe(ctx, recipe); err != nil && s.logger != nil {
		s.logger.Warn("failed to index recipe", "recipe_id", recipe.ID, "error", err)
	}
}
