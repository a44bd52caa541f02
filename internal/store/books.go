package store

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/sse"
)

// CreateBook stores a new book and its owner index.
func (s *Store) CreateBook(ctx context.Context, book *domain.RecipeBook) error {
	err := s.update(ctx, "book.create", func(txn *badger.Txn) error {
		key := bookKey(book.ID)
		if _, err := txn.Get(key); err == nil {
			return ErrAlreadyExists
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check book exists: %w", err)
		}

		if err := setJSON(txn, key, book); err != nil {
			return fmt.Errorf("set book: %w", err)
		}
		if err := txn.Set(bookOwnerKey(book.OwnerID, book.ID), []byte{}); err != nil {
			return fmt.Errorf("set owner index: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}

	s.eventEmitter.Emit(sse.NewBookEvent(sse.EventBookCreated, book))

	if s.logger != nil {
		s.logger.Info("book created", "id", book.ID, "name", book.Name, "owner_id", book.OwnerID)
	}
	return nil
}

// loadBook reads a live book owned by ownerID. Archived and foreign books
// read as missing.
func loadBook(txn *badger.Txn, ownerID, bookID string) (*domain.RecipeBook, error) {
	var book domain.RecipeBook
	if err := getJSON(txn, bookKey(bookID), &book); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	if book.OwnerID != ownerID || book.Archived {
		return nil, ErrBookNotFound
	}
	return &book, nil
}

// GetBook retrieves a live book owned by ownerID.
func (s *Store) GetBook(ctx context.Context, ownerID, bookID string) (*domain.RecipeBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var book *domain.RecipeBook
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		book, err = loadBook(txn, ownerID, bookID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBook applies mutate to a live book and saves it.
func (s *Store) UpdateBook(ctx context.Context, ownerID, bookID string, mutate func(*domain.RecipeBook) error) (*domain.RecipeBook, error) {
	var updated *domain.RecipeBook
	err := s.update(ctx, "book.update", func(txn *badger.Txn) error {
		book, err := loadBook(txn, ownerID, bookID)
		if err != nil {
			return err
		}
		if err := mutate(book); err != nil {
			return err
		}
		if err := setJSON(txn, bookKey(book.ID), book); err != nil {
			return fmt.Errorf("set book: %w", err)
		}
		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.eventEmitter.Emit(sse.NewBookEvent(sse.EventBookUpdated, updated))
	return updated, nil
}

// ArchiveBook archives a book and clears bookId on each of its recipes in
// one transaction. The book keeps its recipe list; the recipes themselves
// are not archived.
func (s *Store) ArchiveBook(ctx context.Context, ownerID, bookID string) (*domain.RecipeBook, error) {
	var (
		archived *domain.RecipeBook
		detached []*domain.Recipe
	)

	err := s.update(ctx, "book.archive", func(txn *badger.Txn) error {
		detached = detached[:0]

		book, err := loadBook(txn, ownerID, bookID)
		if err != nil {
			return err
		}

		now := s.now()
		for _, recipeID := range scanIDs(txn, recipeBookScan(bookID)) {
			var recipe domain.Recipe
			if err := getJSON(txn, recipeKey(recipeID), &recipe); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					continue
				}
				return fmt.Errorf("get recipe %s: %w", recipeID, err)
			}

			recipe.BookID = ""
			recipe.Touch(now)
			if err := setJSON(txn, recipeKey(recipeID), &recipe); err != nil {
				return fmt.Errorf("set recipe %s: %w", recipeID, err)
			}
			if err := txn.Delete(recipeBookKey(bookID, recipeID)); err != nil {
				return fmt.Errorf("delete book index: %w", err)
			}
			detached = append(detached, &recipe)
		}

		book.MarkArchived(now)
		if err := setJSON(txn, bookKey(bookID), book); err != nil {
			return fmt.Errorf("set book: %w", err)
		}
		archived = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, recipe := range detached {
		if !recipe.Archived {
			s.reindex(ctx, recipe)
			s.eventEmitter.Emit(sse.NewRecipeEvent(sse.EventRecipeUpdated, recipe))
		}
	}
	s.eventEmitter.Emit(sse.NewBookEvent(sse.EventBookArchived, archived))

	if s.logger != nil {
		s.logger.Info("book archived", "id", bookID, "owner_id", ownerID, "recipes_detached", len(detached))
	}
	return archived, nil
}

// ListBooks returns the owner's live books sorted by name.
func (s *Store) ListBooks(ctx context.Context, ownerID string) ([]*domain.RecipeBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	books := make([]*domain.RecipeBook, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		for _, bookID := range scanIDs(txn, bookOwnerScan(ownerID)) {
			book, err := loadBook(txn, ownerID, bookID)
			if errors.Is(err, ErrBookNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			books = append(books, book)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	slices.SortFunc(books, func(a, b *domain.RecipeBook) int {
		return cmp.Or(
			strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)),
			strings.Compare(a.ID, b.ID),
		)
	})
	return books, nil
}
