package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipehub-server/internal/auth"
	domainerrors "github.com/recipehub/recipehub-server/internal/errors"
)

var testIdentityOther = auth.Identity{UserID: "user-2", Email: "grace@example.com", Name: "Grace"}

func TestProfileService_SyncProfile(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.store.SetClock(fixedClock(first))

	profile, err := s.profiles.SyncProfile(ctx, testCaller)
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.ID)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "Ada", profile.DisplayName)
	assert.True(t, profile.CreatedAt.Equal(first))

	later := first.Add(time.Hour)
	s.store.SetClock(fixedClock(later))
	renamed := &auth.Identity{UserID: "user-1", Email: "ada@example.org", Name: "Ada L."}
	profile, err = s.profiles.SyncProfile(ctx, renamed)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.org", profile.Email)
	assert.True(t, profile.CreatedAt.Equal(first))
	assert.True(t, profile.UpdatedAt.Equal(later))

	stored, err := s.store.Users.GetByIndex(ctx, "email", "ADA@example.org")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", stored.DisplayName)
}

func TestProfileService_EmailClash(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.profiles.SyncProfile(ctx, testCaller)
	require.NoError(t, err)

	_, err = s.profiles.SyncProfile(ctx, &auth.Identity{UserID: "user-9", Email: "Ada@Example.com"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrConflict))
}

func TestProfileService_GetProfile(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	_, err := s.profiles.GetProfile(ctx, "user-1")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	_, err = s.profiles.SyncProfile(ctx, testCaller)
	require.NoError(t, err)
	profile, err := s.profiles.GetProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", profile.DisplayName)
}
