package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/recipehub/recipehub-server/internal/domain"
)

// putVersion writes a new version and its ID index. Versions are never
// overwritten.
func putVersion(txn *badger.Txn, v *domain.Version) error {
	key := versionKey(v.RecipeID, v.Version)
	if _, err := txn.Get(key); err == nil {
		return fmt.Errorf("version %d of recipe %s: %w", v.Version, v.RecipeID, ErrAlreadyExists)
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("check version exists: %w", err)
	}

	if err := setJSON(txn, key, v); err != nil {
		return fmt.Errorf("set version: %w", err)
	}
	if err := txn.Set(versionIDKey(v.ID), key); err != nil {
		return fmt.Errorf("set version index: %w", err)
	}
	return nil
}

// ListVersions returns every version of a recipe, oldest first. Versions of
// archived recipes stay readable.
func (s *Store) ListVersions(ctx context.Context, ownerID, recipeID string) ([]*domain.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var versions []*domain.Version
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := loadRecipe(txn, ownerID, recipeID, true); err != nil {
			return err
		}

		var err error
		versions, err = scanJSON[domain.Version](txn, versionScan(recipeID))
		return err
	})
	if err != nil {
		return nil, err
	}
	if versions == nil {
		versions = make([]*domain.Version, 0)
	}
	return versions, nil
}

// GetVersion returns version number n of a recipe.
func (s *Store) GetVersion(ctx context.Context, ownerID, recipeID string, n int) (*domain.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var version domain.Version
	err := s.db.View(func(txn *badger.Txn) error {
		if _, err := loadRecipe(txn, ownerID, recipeID, true); err != nil {
			return err
		}
		return getJSON(txn, versionKey(recipeID, n), &version)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// GetVersionByID returns a version by its own ID.
func (s *Store) GetVersionByID(ctx context.Context, ownerID, versionID string) (*domain.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var version domain.Version
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(versionIDKey(versionID))
		if err != nil {
			return err
		}
		key, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return getJSON(txn, key, &version)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}
	if version.OwnerID != ownerID {
		return nil, ErrVersionNotFound
	}
	return &version, nil
}
