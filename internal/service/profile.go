package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/recipehub/recipehub-server/internal/auth"
	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/store"
)

// ProfileService keeps a local profile for each user seen through a token.
type ProfileService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(store *store.Store, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:  store,
		logger: logger,
	}
}

// SyncProfile creates the caller's profile on first sight and refreshes its
// email and display name from the token afterwards.
func (s *ProfileService) SyncProfile(ctx context.Context, caller *auth.Identity) (*domain.UserProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.store.Now()
	profile, err := s.store.Users.Get(ctx, caller.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		profile = &domain.UserProfile{ID: caller.UserID, CreatedAt: now}
	case err != nil:
		return nil, fmt.Errorf("get profile: %w", err)
	}

	email := strings.TrimSpace(caller.Email)
	name := caller.DisplayName()
	if profile.Email == email && profile.DisplayName == name && !profile.UpdatedAt.IsZero() {
		return profile, nil
	}

	profile.Email = email
	profile.DisplayName = name
	profile.UpdatedAt = now

	created, err := s.store.Users.Put(ctx, profile.ID, profile)
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	if created {
		s.logger.Info("user profile created", "user_id", profile.ID)
	}
	return profile, nil
}

// GetProfile returns a stored profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.UserProfile, error) {
	return s.store.Users.Get(ctx, userID)
}
