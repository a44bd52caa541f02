package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/service"
)

func (s *Server) registerRecipeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipes",
		Method:      http.MethodGet,
		Path:        "/api/recipes",
		Summary:     "List recipes",
		Description: "Returns the caller's live recipes",
		Tags:        []string{"Recipes"},
		Security:    bearer,
	}, s.handleListRecipes)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createRecipe",
		Method:        http.MethodPost,
		Path:          "/api/recipes",
		Summary:       "Create recipe",
		Description:   "Creates a recipe in a book and records version 1",
		Tags:          []string{"Recipes"},
		DefaultStatus: http.StatusCreated,
		Security:      bearer,
	}, s.handleCreateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "getRecipe",
		Method:      http.MethodGet,
		Path:        "/api/recipes/{recipeId}",
		Summary:     "Get recipe",
		Description: "Returns a recipe and counts the view",
		Tags:        []string{"Recipes"},
		Security:    bearer,
	}, s.handleGetRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "displayRecipe",
		Method:      http.MethodGet,
		Path:        "/api/recipes/{recipeId}/display",
		Summary:     "Display recipe",
		Description: "Returns a recipe with ingredient lines scaled and converted for reading",
		Tags:        []string{"Recipes"},
		Security:    bearer,
	}, s.handleDisplayRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateRecipe",
		Method:      http.MethodPut,
		Path:        "/api/recipes/{recipeId}",
		Summary:     "Update recipe",
		Description: "Applies a partial update and records a new version",
		Tags:        []string{"Recipes"},
		Security:    bearer,
	}, s.handleUpdateRecipe)

	huma.Register(s.api, huma.Operation{
		OperationID: "archiveRecipe",
		Method:      http.MethodDelete,
		Path:        "/api/recipes/{recipeId}",
		Summary:     "Archive recipe",
		Description: "Archives a recipe and detaches it from its book",
		Tags:        []string{"Recipes"},
		Security:    bearer,
	}, s.handleArchiveRecipe)
}

// === DTOs ===

// CreateRecipeRequest is the request body for creating a recipe.
type CreateRecipeRequest struct {
	_              struct{}                       `json:"-" additionalProperties:"true"`
	Name           string                         `json:"name,omitempty" doc:"Recipe name"`
	Description    string                         `json:"description,omitempty" doc:"Short description"`
	CookTime       string                         `json:"cookTime,omitempty" doc:"Free-form cook time"`
	Servings       int                            `json:"servings,omitempty" doc:"Number of servings"`
	Ingredients    domain.List[domain.Ingredient] `json:"ingredients,omitempty" doc:"Ingredients, flat or in sections"`
	Instructions   domain.List[string]            `json:"instructions,omitempty" doc:"Instructions, flat or in sections"`
	BookID         string                         `json:"bookId,omitempty" doc:"Book the recipe is filed under"`
	OriginalSource string                         `json:"originalSource,omitempty" doc:"Where the recipe came from"`
}

func (r CreateRecipeRequest) toInput() service.CreateRecipeInput {
	return service.CreateRecipeInput{
		Name:           r.Name,
		Description:    r.Description,
		CookTime:       r.CookTime,
		Servings:       r.Servings,
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
		BookID:         r.BookID,
		OriginalSource: r.OriginalSource,
	}
}

// UpdateRecipeRequest is a partial recipe update. Omitted fields are kept.
type UpdateRecipeRequest struct {
	_              struct{}                        `json:"-" additionalProperties:"true"`
	Name           *string                         `json:"name,omitempty" doc:"Recipe name"`
	Description    *string                         `json:"description,omitempty" doc:"Short description"`
	CookTime       *string                         `json:"cookTime,omitempty" doc:"Free-form cook time"`
	Servings       *int                            `json:"servings,omitempty" doc:"Number of servings"`
	Ingredients    *domain.List[domain.Ingredient] `json:"ingredients,omitempty" doc:"Ingredients, flat or in sections"`
	Instructions   *domain.List[string]            `json:"instructions,omitempty" doc:"Instructions, flat or in sections"`
	BookID         *string                         `json:"bookId,omitempty" doc:"Book the recipe is filed under"`
	OriginalSource *string                         `json:"originalSource,omitempty" doc:"Where the recipe came from"`
	VersionNotes   string                          `json:"versionNotes,omitempty" doc:"Notes stored on the new version"`
}

func (r UpdateRecipeRequest) toInput() service.UpdateRecipeInput {
	return service.UpdateRecipeInput{
		Name:           r.Name,
		Description:    r.Description,
		CookTime:       r.CookTime,
		Servings:       r.Servings,
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
		BookID:         r.BookID,
		OriginalSource: r.OriginalSource,
		VersionNotes:   r.VersionNotes,
	}
}

// ListRecipesInput contains parameters for listing recipes.
type ListRecipesInput struct {
	Authorization string `header:"Authorization"`
}

// RecipePathInput identifies a recipe.
type RecipePathInput struct {
	Authorization string `header:"Authorization"`
	RecipeID      string `path:"recipeId" doc:"Recipe ID"`
}

// RecipeOutput wraps a recipe for Huma.
type RecipeOutput struct {
	Body *domain.Recipe
}

// CreateRecipeInput wraps the create recipe request for Huma.
type CreateRecipeInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateRecipeRequest
}

// CreateRecipeResponse is returned when a recipe is created.
type CreateRecipeResponse struct {
	Message string         `json:"message" doc:"Confirmation message"`
	ID      string         `json:"id" doc:"New recipe ID"`
	Recipe  *domain.Recipe `json:"recipe" doc:"Created recipe"`
}

// CreateRecipeOutput wraps the create recipe response for Huma.
type CreateRecipeOutput struct {
	Body CreateRecipeResponse
}

// UpdateRecipeInput wraps the update recipe request for Huma.
type UpdateRecipeInput struct {
	Authorization string `header:"Authorization"`
	RecipeID      string `path:"recipeId" doc:"Recipe ID"`
	Body          UpdateRecipeRequest
}

// UpdateRecipeResponse is returned when a recipe is updated.
type UpdateRecipeResponse struct {
	Message string          `json:"message" doc:"Confirmation message"`
	Recipe  *domain.Recipe  `json:"recipe" doc:"Updated recipe"`
	Version *domain.Version `json:"version" doc:"Version recorded by this update"`
}

// UpdateRecipeOutput wraps the update recipe response for Huma.
type UpdateRecipeOutput struct {
	Body UpdateRecipeResponse
}

// DisplayRecipeInput contains parameters for displaying a recipe.
type DisplayRecipeInput struct {
	Authorization string  `header:"Authorization"`
	RecipeID      string  `path:"recipeId" doc:"Recipe ID"`
	System        string  `query:"system" doc:"Target measurement system: metric or imperial"`
	Scale         float64 `query:"scale" doc:"Serving multiplier, default 1"`
}

// DisplayRecipeOutput wraps the rendered recipe for Huma.
type DisplayRecipeOutput struct {
	Body *service.RecipeDisplay
}

// === Handlers ===

func (s *Server) handleListRecipes(ctx context.Context, _ *ListRecipesInput) (*RecipeListOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Recipe.ListRecipes(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return &RecipeListOutput{Body: recipes}, nil
}

func (s *Server) handleCreateRecipe(ctx context.Context, input *CreateRecipeInput) (*CreateRecipeOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.CreateRecipe(ctx, caller, input.Body.toInput())
	if err != nil {
		return nil, err
	}

	return &CreateRecipeOutput{
		Body: CreateRecipeResponse{
			Message: fmt.Sprintf("Recipe %q has been added successfully!", recipe.Name),
			ID:      recipe.ID,
			Recipe:  recipe,
		},
	}, nil
}

func (s *Server) handleGetRecipe(ctx context.Context, input *RecipePathInput) (*RecipeOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	recipe, err := s.services.Recipe.ViewRecipe(ctx, caller.UserID, input.RecipeID)
	if err != nil {
		return nil, err
	}
	return &RecipeOutput{Body: recipe}, nil
}

func (s *Server) handleDisplayRecipe(ctx context.Context, input *DisplayRecipeInput) (*DisplayRecipeOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	display, err := s.services.Recipe.DisplayRecipe(ctx, caller.UserID, input.RecipeID, input.System, input.Scale)
	if err != nil {
		return nil, err
	}
	return &DisplayRecipeOutput{Body: display}, nil
}

func (s *Server) handleUpdateRecipe(ctx context.Context, input *UpdateRecipeInput) (*UpdateRecipeOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	recipe, version, err := s.services.Recipe.UpdateRecipe(ctx, caller, input.RecipeID, input.Body.toInput())
	if err != nil {
		return nil, err
	}

	return &UpdateRecipeOutput{
		Body: UpdateRecipeResponse{
			Message: fmt.Sprintf("Recipe %q has been updated successfully!", recipe.Name),
			Recipe:  recipe,
			Version: version,
		},
	}, nil
}

func (s *Server) handleArchiveRecipe(ctx context.Context, input *RecipePathInput) (*MessageOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Recipe.ArchiveRecipe(ctx, caller.UserID, input.RecipeID); err != nil {
		return nil, err
	}

	return &MessageOutput{
		Body: MessageResponse{Message: "Recipe has been deleted."},
	}, nil
}
