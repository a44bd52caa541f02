// Package service holds the business logic behind the REST surface: input
// validation, ID generation, versioning and diffing on top of the store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/id"
	"github.com/recipehub/recipehub-server/internal/store"
	"github.com/recipehub/recipehub-server/internal/validation"
)

// BookInput is the body of a book create or update.
type BookInput struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Image       string `json:"image" validate:"notblank"`
}

// BookService orchestrates recipe book operations.
type BookService struct {
	store     *store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store *store.Store, validator *validation.Validator, logger *slog.Logger) *BookService {
	return &BookService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateBook validates the input and stores a new, empty book.
func (s *BookService) CreateBook(ctx context.Context, ownerID string, in BookInput) (*domain.RecipeBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.RecipeBook{
		ID:          bookID,
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Image),
		RecipeIDs:   []string{},
	}
	book.InitTimestamps(s.store.Now())

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// UpdateBook replaces the name, description and icon of a live book.
func (s *BookService) UpdateBook(ctx context.Context, ownerID, bookID string, in BookInput) (*domain.RecipeBook, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	book, err := s.store.UpdateBook(ctx, ownerID, bookID, func(b *domain.RecipeBook) error {
		b.Name = strings.TrimSpace(in.Name)
		b.Description = strings.TrimSpace(in.Description)
		b.Icon = strings.TrimSpace(in.Image)
		b.Touch(s.store.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book updated", "book_id", bookID, "owner_id", ownerID)
	return book, nil
}

// GetBook returns a live book.
func (s *BookService) GetBook(ctx context.Context, ownerID, bookID string) (*domain.RecipeBook, error) {
	return s.store.GetBook(ctx, ownerID, bookID)
}

// ListBooks returns the caller's live books.
func (s *BookService) ListBooks(ctx context.Context, ownerID string) ([]*domain.RecipeBook, error) {
	return s.store.ListBooks(ctx, ownerID)
}

// ListBookRecipes returns the live recipes of a book. Unknown books yield
// an empty list rather than an error.
func (s *BookService) ListBookRecipes(ctx context.Context, ownerID, bookID string) ([]*domain.Recipe, error) {
	return s.store.ListRecipesByBook(ctx, ownerID, bookID)
}

// ArchiveBook archives a book and detaches its recipes.
func (s *BookService) ArchiveBook(ctx context.Context, ownerID, bookID string) (*domain.RecipeBook, error) {
	return s.store.ArchiveBook(ctx, ownerID, bookID)
}
