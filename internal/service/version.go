package service

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/recipehub/recipehub-server/internal/diff"
	"github.com/recipehub/recipehub-server/internal/domain"
	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
	"github.com/recipehub/recipehub-server/internal/store"
)

// VersionPair holds two versions of the same recipe.
type VersionPair struct {
	Version1 *domain.Version `json:"version1"`
	Version2 *domain.Version `json:"version2"`
}

// VersionService reads recipe history and compares versions.
type VersionService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewVersionService creates a new version service.
func NewVersionService(store *store.Store, logger *slog.Logger) *VersionService {
	return &VersionService{
		store:  store,
		logger: logger,
	}
}

// ListVersions returns every version of a recipe, newest first.
func (s *VersionService) ListVersions(ctx context.Context, ownerID, recipeID string) ([]*domain.Version, error) {
	versions, err := s.store.ListVersions(ctx, ownerID, recipeID)
	if err != nil {
		return nil, err
	}
	slices.Reverse(versions)
	return versions, nil
}

// GetVersion returns a version by its ID.
func (s *VersionService) GetVersion(ctx context.Context, ownerID, versionID string) (*domain.Version, error) {
	return s.store.GetVersionByID(ctx, ownerID, versionID)
}

// CompareVersions loads versions v1 and v2 of a recipe concurrently.
func (s *VersionService) CompareVersions(ctx context.Context, ownerID, recipeID string, v1, v2 int) (*VersionPair, error) {
	if v1 < 1 || v2 < 1 {
		return nil, domainerrors.Validation("version numbers must be positive integers")
	}

	var pair VersionPair
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.store.GetVersion(gctx, ownerID, recipeID, v1)
		pair.Version1 = v
		return err
	})
	g.Go(func() error {
		v, err := s.store.GetVersion(gctx, ownerID, recipeID, v2)
		pair.Version2 = v
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &pair, nil
}

// DiffVersions compares versions v1 and v2 of a recipe line by line.
func (s *VersionService) DiffVersions(ctx context.Context, ownerID, recipeID string, v1, v2 int) (*diff.Result, error) {
	pair, err := s.CompareVersions(ctx, ownerID, recipeID, v1, v2)
	if err != nil {
		return nil, err
	}

	result := diff.Versions(pair.Version1, pair.Version2)
	s.logger.Debug("versions diffed",
		"recipe_id", recipeID,
		"from", v1,
		"to", v2,
		"additions", result.Stats.Additions,
		"deletions", result.Stats.Deletions,
		"changes", result.Stats.Changes,
	)
	return &result, nil
}
