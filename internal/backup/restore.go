package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/recipehub/recipehub-server/internal/domain"
)

// RestoreOptions configures a restore.
type RestoreOptions struct {
	DryRun bool // Read and count records without writing
}

// RestoreResult contains the outcome of a restore.
type RestoreResult struct {
	Imported map[string]int `json:"imported"`
	Skipped  map[string]int `json:"skipped"`
	Errors   []RestoreError `json:"errors,omitempty"`
	Duration time.Duration  `json:"duration"`
}

// RestoreError describes a record that could not be restored.
type RestoreError struct {
	EntityType string `json:"entityType"`
	EntityID   string `json:"entityId,omitempty"`
	Error      string `json:"error"`
}

// ValidationResult describes archive validity.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Manifest *Manifest `json:"manifest,omitempty"`
	Errors   []string  `json:"errors,omitempty"`
	Warnings []string  `json:"warnings,omitempty"`
}

// Restore merges an archive into the store. Records whose IDs exist are
// skipped, so restoring the same archive twice is harmless. Record types
// are restored in dependency order: users, books, recipes, versions.
func (s *Service) Restore(ctx context.Context, path string, opts RestoreOptions) (*RestoreResult, error) {
	start := time.Now()
	s.logger.Info("starting restore", "path", path, "dry_run", opts.DryRun)

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open backup: %w", err)
	}
	defer zr.Close()

	manifest, err := readManifest(&zr.Reader)
	if err != nil {
		return nil, err
	}
	if manifest.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got %s, want %s", ErrVersionMismatch, manifest.Version, FormatVersion)
	}

	result := &RestoreResult{
		Imported: make(map[string]int),
		Skipped:  make(map[string]int),
	}

	steps := []struct {
		name string
		fn   func(context.Context, *zip.Reader, bool) (imported, skipped int, errs []RestoreError)
	}{
		{"users", func(ctx context.Context, zr *zip.Reader, dry bool) (int, int, []RestoreError) {
			return restoreAll(ctx, zr, usersFile, "user", dry,
				func(u *domain.UserProfile) string { return u.ID }, s.store.RestoreUser)
		}},
		{"books", func(ctx context.Context, zr *zip.Reader, dry bool) (int, int, []RestoreError) {
			return restoreAll(ctx, zr, booksFile, "book", dry,
				func(b *domain.RecipeBook) string { return b.ID }, s.store.RestoreBook)
		}},
		{"recipes", func(ctx context.Context, zr *zip.Reader, dry bool) (int, int, []RestoreError) {
			return restoreAll(ctx, zr, recipesFile, "recipe", dry,
				func(r *domain.Recipe) string { return r.ID }, s.store.RestoreRecipe)
		}},
		{"versions", func(ctx context.Context, zr *zip.Reader, dry bool) (int, int, []RestoreError) {
			return restoreAll(ctx, zr, versionsFile, "version", dry,
				func(v *domain.Version) string { return v.ID }, s.store.RestoreVersion)
		}},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		imported, skipped, errs := step.fn(ctx, &zr.Reader, opts.DryRun)
		result.Imported[step.name] = imported
		result.Skipped[step.name] = skipped
		result.Errors = append(result.Errors, errs...)

		s.logger.Info("restored entities",
			"type", step.name,
			"imported", imported,
			"skipped", skipped,
			"errors", len(errs))
	}

	result.Duration = time.Since(start)
	s.logger.Info("restore complete",
		"imported", result.Imported,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"duration", result.Duration)

	return result, nil
}

func restoreAll[T any](
	ctx context.Context,
	zr *zip.Reader,
	path, entityType string,
	dryRun bool,
	idOf func(*T) string,
	restore func(context.Context, *T) (bool, error),
) (imported, skipped int, errs []RestoreError) {
	rc, err := openFile(zr, path)
	if err != nil {
		return 0, 0, []RestoreError{{EntityType: entityType, Error: fmt.Sprintf("open %s: %v", path, err)}}
	}

	for record, err := range readJSONL[T](rc) {
		if ctx.Err() != nil {
			errs = append(errs, RestoreError{EntityType: entityType, Error: ctx.Err().Error()})
			return imported, skipped, errs
		}
		if err != nil {
			errs = append(errs, RestoreError{EntityType: entityType, Error: err.Error()})
			continue
		}
		if dryRun {
			imported++
			continue
		}

		created, err := restore(ctx, record)
		switch {
		case err != nil:
			errs = append(errs, RestoreError{EntityType: entityType, EntityID: idOf(record), Error: err.Error()})
		case created:
			imported++
		default:
			skipped++
		}
	}
	return imported, skipped, errs
}

// Validate checks an archive without importing it.
func (s *Service) Validate(_ context.Context, path string) (*ValidationResult, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return &ValidationResult{
			Errors: []string{fmt.Sprintf("failed to open backup: %v", err)},
		}, nil
	}
	defer zr.Close()

	result := &ValidationResult{Valid: true}

	manifest, err := readManifest(&zr.Reader)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result, nil
	}
	result.Manifest = manifest

	if manifest.Version != FormatVersion {
		result.Valid = false
		result.Errors = append(result.Errors,
			fmt.Sprintf("unsupported version %s (want %s)", manifest.Version, FormatVersion))
	}

	for _, path := range []string{usersFile, booksFile, recipesFile, versionsFile} {
		rc, err := openFile(&zr.Reader, path)
		if err != nil {
			result.Warnings = append(result.Warnings, "missing file: "+path)
			continue
		}
		_ = rc.Close()
	}

	return result, nil
}

func readManifest(zr *zip.Reader) (*Manifest, error) {
	rc, err := openFile(zr, manifestFile)
	if err != nil {
		return nil, ErrInvalidManifest
	}
	defer rc.Close()

	var manifest Manifest
	if err := json.NewDecoder(rc).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	return &manifest, nil
}
