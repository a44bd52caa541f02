package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/books",
		Summary:     "List recipe books",
		Description: "Returns the caller's recipe books, sorted by name",
		Tags:        []string{"Books"},
		Security:    bearer,
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listBookRecipes",
		Method:      http.MethodGet,
		Path:        "/api/books/{bookId}",
		Summary:     "List recipes in a book",
		Description: "Returns the live recipes filed under a book. Unknown books give an empty list",
		Tags:        []string{"Books"},
		Security:    bearer,
	}, s.handleListBookRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/books",
		Summary:       "Create recipe book",
		Description:   "Creates a new, empty recipe book",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPut,
		Path:        "/api/books/{bookId}",
		Summary:     "Update recipe book",
		Description: "Replaces the name, description and image of a book",
		Tags:        []string{"Books"},
		Security:    bearer,
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "archiveBook",
		Method:      http.MethodDelete,
		Path:        "/api/books/{bookId}",
		Summary:     "Archive recipe book",
		Description: "Archives a book and detaches its recipes",
		Tags:        []string{"Books"},
		Security:    bearer,
	}, s.handleArchiveBook)
}

// === DTOs ===

// BookRequest is the request body for creating or updating a book.
type BookRequest struct {
	_           struct{} `json:"-" additionalProperties:"true"`
	Name        string   `json:"name,omitempty" doc:"Book name"`
	Description string   `json:"description,omitempty" doc:"Book description"`
	Image       string   `json:"image,omitempty" doc:"Icon or image reference"`
}

func (r BookRequest) toInput() service.BookInput {
	return service.BookInput{
		Name:        r.Name,
		Description: r.Description,
		Image:       r.Image,
	}
}

// BookPathInput identifies a book.
type BookPathInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookId" doc:"Book ID"`
}

// ListBooksInput contains parameters for listing books.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
}

// ListBooksOutput wraps the book list for Huma.
type ListBooksOutput struct {
	Body []*domain.RecipeBook
}

// RecipeListOutput wraps a recipe list for Huma.
type RecipeListOutput struct {
	Body []*domain.Recipe
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          BookRequest
}

// CreateBookResponse is returned when a book is created.
type CreateBookResponse struct {
	Message string             `json:"message" doc:"Confirmation message"`
	ID      string             `json:"id" doc:"New book ID"`
	Book    *domain.RecipeBook `json:"book" doc:"Created book"`
}

// CreateBookOutput wraps the create book response for Huma.
type CreateBookOutput struct {
	Body CreateBookResponse
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	BookID        string `path:"bookId" doc:"Book ID"`
	Body          BookRequest
}

// UpdateBookResponse is returned when a book is updated.
type UpdateBookResponse struct {
	Message string             `json:"message" doc:"Confirmation message"`
	Book    *domain.RecipeBook `json:"book" doc:"Updated book"`
}

// UpdateBookOutput wraps the update book response for Huma.
type UpdateBookOutput struct {
	Body UpdateBookResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *ListBooksInput) (*ListBooksOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	books, err := s.services.Book.ListBooks(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return &ListBooksOutput{Body: books}, nil
}

func (s *Server) handleListBookRecipes(ctx context.Context, input *BookPathInput) (*RecipeListOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Book.ListBookRecipes(ctx, caller.UserID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &RecipeListOutput{Body: recipes}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*CreateBookOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.CreateBook(ctx, caller.UserID, input.Body.toInput())
	if err != nil {
		return nil, err
	}

	return &CreateBookOutput{
		Body: CreateBookResponse{
			Message: fmt.Sprintf("Recipe book %q has been added successfully!", book.Name),
			ID:      book.ID,
			Book:    book,
		},
	}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*UpdateBookOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.UpdateBook(ctx, caller.UserID, input.BookID, input.Body.toInput())
	if err != nil {
		return nil, err
	}

	return &UpdateBookOutput{
		Body: UpdateBookResponse{
			Message: fmt.Sprintf("Recipe book %q has been updated successfully!", book.Name),
			Book:    book,
		},
	}, nil
}

func (s *Server) handleArchiveBook(ctx context.Context, input *BookPathInput) (*MessageOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	book, err := s.services.Book.ArchiveBook(ctx, caller.UserID, input.BookID)
	if err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: fmt.Sprintf("Recipe book %q has been deleted.", book.Name)},
	}, nil
}
