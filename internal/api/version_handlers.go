package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recipehub/recipehub-server/internal/diff"
	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/service"
)

func (s *Server) registerVersionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listRecipeVersions",
		Method:      http.MethodGet,
		Path:        "/api/versions/recipe/{recipeId}",
		Summary:     "List recipe versions",
		Description: "Returns every version of a recipe, newest first",
		Tags:        []string{"Versions"},
		Security:    bearer,
	}, s.handleListVersions)

	huma.Register(s.api, huma.Operation{
		OperationID: "getVersion",
		Method:      http.MethodGet,
		Path:        "/api/versions/{versionId}",
		Summary:     "Get version",
		Description: "Returns a single version by ID",
		Tags:        []string{"Versions"},
		Security:    bearer,
	}, s.handleGetVersion)

	huma.Register(s.api, huma.Operation{
		OperationID: "compareVersions",
		Method:      http.MethodGet,
		Path:        "/api/versions/compare/{recipeId}/{v1}/{v2}",
		Summary:     "Compare versions",
		Description: "Returns two versions of a recipe side by side",
		Tags:        []string{"Versions"},
		Security:    bearer,
	}, s.handleCompareVersions)

	huma.Register(s.api, huma.Operation{
		OperationID: "diffVersions",
		Method:      http.MethodGet,
		Path:        "/api/versions/diff/{recipeId}/{v1}/{v2}",
		Summary:     "Diff versions",
		Description: "Returns a line-by-line diff between two versions of a recipe",
		Tags:        []string{"Versions"},
		Security:    bearer,
	}, s.handleDiffVersions)
}

// === DTOs ===

// ListVersionsOutput wraps the version list for Huma.
type ListVersionsOutput struct {
	Body []*domain.Version
}

// GetVersionInput identifies a version.
type GetVersionInput struct {
	Authorization string `header:"Authorization"`
	VersionID     string `path:"versionId" doc:"Version ID"`
}

// VersionOutput wraps a version for Huma.
type VersionOutput struct {
	Body *domain.Version
}

// VersionPairInput identifies two versions of one recipe.
type VersionPairInput struct {
	Authorization string `header:"Authorization"`
	RecipeID      string `path:"recipeId" doc:"Recipe ID"`
	V1            int    `path:"v1" doc:"First version number"`
	V2            int    `path:"v2" doc:"Second version number"`
}

// CompareVersionsOutput wraps a version pair for Huma.
type CompareVersionsOutput struct {
	Body *service.VersionPair
}

// DiffVersionsOutput wraps a version diff for Huma.
type DiffVersionsOutput struct {
	Body *diff.Result
}

// === Handlers ===

func (s *Server) handleListVersions(ctx context.Context, input *RecipePathInput) (*ListVersionsOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	versions, err := s.services.Version.ListVersions(ctx, caller.UserID, input.RecipeID)
	if err != nil {
		return nil, err
	}
	return &ListVersionsOutput{Body: versions}, nil
}

func (s *Server) handleGetVersion(ctx context.Context, input *GetVersionInput) (*VersionOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	version, err := s.services.Version.GetVersion(ctx, caller.UserID, input.VersionID)
	if err != nil {
		return nil, err
	}
	return &VersionOutput{Body: version}, nil
}

func (s *Server) handleCompareVersions(ctx context.Context, input *VersionPairInput) (*CompareVersionsOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	pair, err := s.services.Version.CompareVersions(ctx, caller.UserID, input.RecipeID, input.V1, input.V2)
	if err != nil {
		return nil, err
	}
	return &CompareVersionsOutput{Body: pair}, nil
}

func (s *Server) handleDiffVersions(ctx context.Context, input *VersionPairInput) (*DiffVersionsOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Version.DiffVersions(ctx, caller.UserID, input.RecipeID, input.V1, input.V2)
	if err != nil {
		return nil, err
	}
	return &DiffVersionsOutput{Body: result}, nil
}
