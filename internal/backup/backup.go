package backup

import (
	"archive/zip"
	"cmp"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/recipehub/recipehub-server/internal/store"
)

// Result contains the outcome of a backup.
type Result struct {
	Path     string        `json:"path"`
	Size     int64         `json:"size"`
	Counts   EntityCounts  `json:"counts"`
	Duration time.Duration `json:"duration"`
	Checksum string        `json:"checksum"`
}

// Info describes an existing backup.
type Info struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Service creates, lists and restores backups.
type Service struct {
	store     *store.Store
	backupDir string
	version   string
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a Service writing archives under backupDir.
func NewService(s *store.Store, backupDir, version string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		store:     s,
		backupDir: backupDir,
		version:   version,
		logger:    logger,
		now:       s.Now,
	}
}

// Create writes a backup archive. An empty outputPath picks a timestamped
// name in the backup directory. The archive is written to a temp file and
// renamed into place on success.
func (s *Service) Create(ctx context.Context, outputPath string) (*Result, error) {
	start := time.Now()

	if outputPath == "" {
		if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
			return nil, fmt.Errorf("create backup dir: %w", err)
		}
		outputPath = s.Path("backup-" + s.now().UTC().Format("2006-01-02-150405"))
	}

	s.logger.Info("creating backup", "output", outputPath)

	f, err := os.CreateTemp(filepath.Dir(outputPath), ".backup-*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}
	tmpPath := f.Name()
	defer os.Remove(tmpPath)
	defer f.Close()

	hash := sha256.New()
	zw := zip.NewWriter(io.MultiWriter(f, hash))

	manifest := &Manifest{
		Version:       FormatVersion,
		CreatedAt:     s.now().UTC(),
		ServerVersion: s.version,
	}
	counts := &manifest.Counts

	steps := []struct {
		name string
		fn   func(context.Context, *zip.Writer) (int, error)
		dest *int
	}{
		{"users", func(ctx context.Context, zw *zip.Writer) (int, error) {
			return exportAll(zw, usersFile, s.store.Users.List(ctx))
		}, &counts.Users},
		{"books", func(ctx context.Context, zw *zip.Writer) (int, error) {
			return exportAll(zw, booksFile, s.store.AllBooks(ctx))
		}, &counts.Books},
		{"recipes", func(ctx context.Context, zw *zip.Writer) (int, error) {
			return exportAll(zw, recipesFile, s.store.AllRecipes(ctx))
		}, &counts.Recipes},
		{"versions", func(ctx context.Context, zw *zip.Writer) (int, error) {
			return exportAll(zw, versionsFile, s.store.AllVersions(ctx))
		}, &counts.Versions},
	}

	for _, step := range steps {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		n, err := step.fn(ctx, zw)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", step.name, err)
		}
		*step.dest = n
	}

	// Written last so it carries the final counts.
	mw, err := zw.Create(manifestFile)
	if err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	if err := json.NewEncoder(mw).Encode(manifest); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return nil, fmt.Errorf("rename backup: %w", err)
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}

	result := &Result{
		Path:     outputPath,
		Size:     info.Size(),
		Counts:   *counts,
		Duration: time.Since(start),
		Checksum: hex.EncodeToString(hash.Sum(nil)),
	}

	s.logger.Info("backup complete",
		"path", result.Path,
		"size", result.Size,
		"duration", result.Duration,
		"checksum", result.Checksum)

	return result, nil
}

func exportAll[T any](zw *zip.Writer, path string, records iter.Seq2[*T, error]) (int, error) {
	w, err := newJSONLWriter(zw, path)
	if err != nil {
		return 0, err
	}
	for r, err := range records {
		if err != nil {
			return w.count, err
		}
		if err := w.Write(r); err != nil {
			return w.count, err
		}
	}
	return w.count, nil
}

// List returns the backups in the backup directory, newest first.
func (s *Service) List(ctx context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Info{}, nil
		}
		return nil, err
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), archiveSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, Info{
			ID:        strings.TrimSuffix(entry.Name(), archiveSuffix),
			Path:      filepath.Join(s.backupDir, entry.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	slices.SortFunc(backups, func(a, b Info) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), strings.Compare(b.ID, a.ID))
	})
	return backups, nil
}

// Delete removes a backup by ID.
func (s *Service) Delete(_ context.Context, id string) error {
	path := s.Path(id)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrBackupNotFound
		}
		return err
	}
	return os.Remove(path)
}

// Path returns the archive path for a backup ID.
func (s *Service) Path(id string) string {
	return filepath.Join(s.backupDir, id+archiveSuffix)
}
