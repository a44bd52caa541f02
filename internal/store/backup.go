package store

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/dgraph-io/badger/v4"

	"github.com/recipehub/recipehub-server/internal/domain"
)

// scanAll streams every record under prefix, archived ones included.
func scanAll[T any](ctx context.Context, s *Store, prefix string) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		var records []*T
		err := s.db.View(func(txn *badger.Txn) error {
			var err error
			records, err = scanJSON[T](txn, []byte(prefix))
			return err
		})
		if err != nil {
			yield(nil, fmt.Errorf("scan %s: %w", prefix, err))
			return
		}

		for _, r := range records {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// AllBooks iterates every book of every owner, archived ones included.
func (s *Store) AllBooks(ctx context.Context) iter.Seq2[*domain.RecipeBook, error] {
	return scanAll[domain.RecipeBook](ctx, s, bookPrefix)
}

// AllRecipes iterates every recipe of every owner, archived ones included.
func (s *Store) AllRecipes(ctx context.Context) iter.Seq2[*domain.Recipe, error] {
	return scanAll[domain.Recipe](ctx, s, recipePrefix)
}

// AllVersions iterates every stored version, grouped by recipe in version
// order.
func (s *Store) AllVersions(ctx context.Context) iter.Seq2[*domain.Version, error] {
	return scanAll[domain.Version](ctx, s, versionPrefix)
}

// exists reports whether key is present within txn.
func exists(txn *badger.Txn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, badger.ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// RestoreBook writes a book as-is with its owner index. It reports false
// and writes nothing when the ID is already taken.
func (s *Store) RestoreBook(ctx context.Context, book *domain.RecipeBook) (bool, error) {
	created := false
	err := s.update(ctx, "book.restore", func(txn *badger.Txn) error {
		created = false
		found, err := exists(txn, bookKey(book.ID))
		if err != nil || found {
			return err
		}

		if err := setJSON(txn, bookKey(book.ID), book); err != nil {
			return fmt.Errorf("set book: %w", err)
		}
		if err := txn.Set(bookOwnerKey(book.OwnerID, book.ID), []byte{}); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("restore book %s: %w", book.ID, err)
	}
	return created, nil
}

// RestoreRecipe writes a recipe as-is with its owner and book indexes, then
// indexes it for search when it is live. It reports false and writes
// nothing when the ID is already taken.
func (s *Store) RestoreRecipe(ctx context.Context, recipe *domain.Recipe) (bool, error) {
	created := false
	err := s.update(ctx, "recipe.restore", func(txn *badger.Txn) error {
		created = false
		found, err := exists(txn, recipeKey(recipe.ID))
		if err != nil || found {
			return err
		}

		if err := setJSON(txn, recipeKey(recipe.ID), recipe); err != nil {
			return fmt.Errorf("set recipe: %w", err)
		}
		if err := txn.Set(recipeOwnerKey(recipe.OwnerID, recipe.ID), []byte{}); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		if recipe.BookID != "" {
			if err := txn.Set(recipeBookKey(recipe.BookID, recipe.ID), []byte{}); err != nil {
				return fmt.Errorf("set book index: %w", err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("restore recipe %s: %w", recipe.ID, err)
	}

	if created && !recipe.Archived {
		s.reindex(ctx, recipe)
	}
	return created, nil
}

// RestoreVersion writes a version as-is. It reports false when that version
// number of the recipe already exists.
func (s *Store) RestoreVersion(ctx context.Context, v *domain.Version) (bool, error) {
	created := false
	err := s.update(ctx, "version.restore", func(txn *badger.Txn) error {
		created = false
		found, err := exists(txn, versionKey(v.RecipeID, v.Version))
		if err != nil || found {
			return err
		}
		if err := putVersion(txn, v); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("restore version %s: %w", v.ID, err)
	}
	return created, nil
}

// RestoreUser writes a profile unless one with the same ID exists.
func (s *Store) RestoreUser(ctx context.Context, user *domain.UserProfile) (bool, error) {
	if _, err := s.Users.Get(ctx, user.ID); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	return s.Users.Put(ctx, user.ID, user)
}
