package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/recipehub/recipehub-server/internal/domain"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/users/me",
		Summary:     "Get current user",
		Description: "Returns the caller's profile, refreshed from the access token",
		Tags:        []string{"Users"},
		Security:    bearer,
	}, s.handleGetCurrentUser)
}

// GetCurrentUserInput contains parameters for the current user.
type GetCurrentUserInput struct {
	Authorization string `header:"Authorization"`
}

// UserOutput wraps a user profile for Huma.
type UserOutput struct {
	Body *domain.UserProfile
}

func (s *Server) handleGetCurrentUser(ctx context.Context, _ *GetCurrentUserInput) (*UserOutput, error) {
	caller, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.SyncProfile(ctx, caller)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: profile}, nil
}
