package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recipehub/recipehub-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchRecipes",
		Method:      http.MethodGet,
		Path:        "/api/search/recipes",
		Summary:     "Search recipes",
		Description: "Full-text search over the caller's recipes with tag facets",
		Tags:        []string{"Search"},
		Security:    bearer,
	}, s.handleSearchRecipes)
}

// SearchRecipesInput contains search parameters.
type SearchRecipesInput struct {
	Authorization string   `header:"Authorization"`
	Query         string   `query:"q" doc:"Search query; empty matches every recipe"`
	Tags          []string `query:"tags" doc:"Comma-separated tags that must all match"`
	BookID        string   `query:"bookId" doc:"Restrict results to one book"`
	Limit         int      `query:"limit" minimum:"0" maximum:"100" doc:"Page size (default 20)"`
	Offset        int      `query:"offset" minimum:"0" doc:"Results to skip"`
	Sort          string   `query:"sort" enum:"relevance,recent,name" default:"relevance" doc:"Sort order"`
	Highlight     bool     `query:"highlight" default:"true" doc:"Highlight matches in names"`
}

// SearchRecipesOutput wraps search results for Huma.
type SearchRecipesOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearchRecipes(ctx context.Context, input *SearchRecipesInput) (*SearchRecipesOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.SearchRecipes(ctx, caller.UserID, search.SearchParams{
		Query:     input.Query,
		Tags:      input.Tags,
		BookID:    input.BookID,
		Limit:     input.Limit,
		Offset:    input.Offset,
		SortBy:    input.Sort,
		Highlight: input.Highlight,
	})
	if err != nil {
		return nil, err
	}
	return &SearchRecipesOutput{Body: result}, nil
}
