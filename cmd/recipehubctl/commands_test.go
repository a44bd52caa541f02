package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/recipehub-server/internal/auth"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	require.NoError(t, root.ExecuteContext(context.Background()), out.String())
	return out.String()
}

func TestTokenCommand_IssuesVerifiableToken(t *testing.T) {
	dataPath := t.TempDir()

	out := runCLI(t, "--data-path", dataPath, "token",
		"--user", "user-1", "--email", "ada@example.com", "--name", "Ada", "--duration", "5m")
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	key, err := auth.LoadKey(dataPath)
	require.NoError(t, err)
	verifier, err := auth.NewTokenService(key, time.Minute)
	require.NoError(t, err)

	identity, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "Ada", identity.Name)
}

func TestTokenCommand_RequiresUser(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--data-path", t.TempDir(), "token"})

	assert.Error(t, root.Execute())
}

func TestSeedThenInspect(t *testing.T) {
	dataPath := t.TempDir()

	out := runCLI(t, "--data-path", dataPath, "seed",
		"--user", "user-1", "--books", "2", "--recipes", "3", "--edits", "1", "--seed", "42")
	assert.Contains(t, out, "Seeding complete: 2 books, 6 recipes, 12 versions")

	out = runCLI(t, "--data-path", dataPath, "inspect")
	assert.Regexp(t, `search documents\s+6`, out)
	assert.Regexp(t, `recipe:\s+6`, out)
	assert.Regexp(t, `version:\s+12`, out)

	out = runCLI(t, "--data-path", dataPath, "reindex")
	assert.Contains(t, out, "Indexed 6 recipes")
}

func TestBackupCreateThenRestore(t *testing.T) {
	src := t.TempDir()
	runCLI(t, "--data-path", src, "seed",
		"--user", "user-1", "--books", "1", "--recipes", "2", "--edits", "1", "--seed", "7")

	archive := filepath.Join(t.TempDir(), "snapshot.zip")
	out := runCLI(t, "--data-path", src, "backup", "create", "--output", archive)
	assert.Contains(t, out, "1 books, 2 recipes, 4 versions")
	assert.FileExists(t, archive)

	out = runCLI(t, "--data-path", src, "backup", "validate", archive)
	assert.Contains(t, out, "Valid backup")

	dst := t.TempDir()
	out = runCLI(t, "--data-path", dst, "backup", "restore", archive)
	assert.Regexp(t, `recipes\s+2\s+0`, out)
	assert.Regexp(t, `versions\s+4\s+0`, out)

	out = runCLI(t, "--data-path", dst, "backup", "restore", archive)
	assert.Regexp(t, `recipes\s+0\s+2`, out)

	out = runCLI(t, "--data-path", dst, "inspect")
	assert.Regexp(t, `search documents\s+2`, out)
}
