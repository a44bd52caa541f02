package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipehub-server/internal/domain"
	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
)

func TestUsers_PutAndGetByEmail(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	profile := &domain.UserProfile{ID: "user-1", Email: "Cook@Example.com", DisplayName: "Cook", CreatedAt: time.Now()}
	created, err := s.Users.Put(ctx, profile.ID, profile)
	require.NoError(t, err)
	assert.True(t, created)

	got, err := s.Users.GetByIndex(ctx, "email", "  cook@example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)

	profile.DisplayName = "Chef"
	created, err = s.Users.Put(ctx, profile.ID, profile)
	require.NoError(t, err)
	assert.False(t, created)

	got, err = s.Users.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Chef", got.DisplayName)
}

func TestUsers_EmailChangeMovesIndex(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	profile := &domain.UserProfile{ID: "user-1", Email: "old@example.com"}
	_, err := s.Users.Put(ctx, profile.ID, profile)
	require.NoError(t, err)

	profile.Email = "new@example.com"
	_, err = s.Users.Put(ctx, profile.ID, profile)
	require.NoError(t, err)

	_, err = s.Users.GetByIndex(ctx, "email", "old@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Users.GetByIndex(ctx, "email", "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", got.ID)
}

func TestUsers_DuplicateEmailConflicts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Users.Put(ctx, "user-1", &domain.UserProfile{ID: "user-1", Email: "same@example.com"})
	require.NoError(t, err)

	_, err = s.Users.Put(ctx, "user-2", &domain.UserProfile{ID: "user-2", Email: "SAME@example.com"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestUsers_List(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"user-1", "user-2"} {
		_, err := s.Users.Put(ctx, id, &domain.UserProfile{ID: id, Email: id + "@example.com"})
		require.NoError(t, err)
	}

	var ids []string
	for u, err := range s.Users.List(ctx) {
		require.NoError(t, err)
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{"user-1", "user-2"}, ids)

	_, err := s.Users.Get(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}
