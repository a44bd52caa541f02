package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recipehub/recipehub-server/internal/service"
)

func (s *Server) registerCompareRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "compareRecipes",
		Method:      http.MethodGet,
		Path:        "/api/compare",
		Summary:     "Compare recipes",
		Description: "Returns several recipes side by side, in the order requested",
		Tags:        []string{"Recipes"},
		Security:    bearer,
	}, s.handleCompareRecipes)
}

// CompareRecipesInput contains the recipes to compare.
type CompareRecipesInput struct {
	Authorization string `header:"Authorization"`
	Recipes       string `query:"recipes" doc:"Comma-separated recipe IDs"`
}

func (s *Server) handleCompareRecipes(ctx context.Context, input *CompareRecipesInput) (*RecipeListOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	recipes, err := s.services.Compare.CompareRecipes(ctx, caller.UserID, service.ParseRecipeIDs(input.Recipes))
	if err != nil {
		return nil, err
	}
	return &RecipeListOutput{Body: recipes}, nil
}
