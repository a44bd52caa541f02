// Package store persists books, recipes and versions in Badger.
//
// Every multi-record mutation runs inside one Badger transaction. Badger
// transactions are serializable: when two writers read and then write the
// same recipe, the second commit fails with badger.ErrConflict and the whole
// read-modify-write is replayed, so version numbers are never duplicated.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/recipehub/recipehub-server/internal/domain"
	"github.com/recipehub/recipehub-server/internal/metrics"
)

// DefaultMaxRetries bounds how often a conflicting transaction is replayed.
const DefaultMaxRetries = 5

// SearchIndexer keeps the search index in sync with committed changes.
// Store calls it after commit; failures are logged, never returned.
type SearchIndexer interface {
	IndexRecipe(ctx context.Context, recipe *domain.Recipe) error
	DeleteRecipe(ctx context.Context, recipeID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexRecipe is a no-op.
func (NoopSearchIndexer) IndexRecipe(context.Context, *domain.Recipe) error { return nil }

// DeleteRecipe is a no-op.
func (NoopSearchIndexer) DeleteRecipe(context.Context, string) error { return nil }

// EventEmitter receives change events after commit.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit is a no-op.
func (NoopEmitter) Emit(any) {}

// Options tune a Store.
type Options struct {
	// MaxRetries bounds conflict retries. Zero means DefaultMaxRetries.
	MaxRetries int
	// InMemory keeps the database in memory. Path is ignored.
	InMemory bool
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
	now    func() time.Time

	maxRetries int

	// Set via SetSearchIndexer after creation; the index is built on top of
	// the store during startup.
	searchIndexer SearchIndexer
	eventEmitter  EventEmitter

	// Profiles of users seen by the API.
	Users *Entity[domain.UserProfile]
}

// New opens (or creates) the database at path.
func New(path string, logger *slog.Logger, options Options) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup
	if options.InMemory {
		opts = opts.WithInMemory(true).WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	maxRetries := options.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	store := &Store{
		db:            db,
		logger:        logger,
		now:           time.Now,
		maxRetries:    maxRetries,
		searchIndexer: NoopSearchIndexer{},
		eventEmitter:  NoopEmitter{},
	}
	store.initUsers()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path, "in_memory", options.InMemory)
	}

	return store, nil
}

// Close gracefully closes the database connection. Closing twice is a no-op.
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// Now returns the store's clock reading. Services stamp records with it so
// tests can pin time in one place.
func (s *Store) Now() time.Time {
	return s.now()
}

// SetClock replaces the store's clock.
func (s *Store) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// SetSearchIndexer sets the indexer notified after recipe commits.
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	if indexer == nil {
		indexer = NoopSearchIndexer{}
	}
	s.searchIndexer = indexer
}

// SetEventEmitter sets the emitter notified after book and recipe commits.
func (s *Store) SetEventEmitter(emitter EventEmitter) {
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	s.eventEmitter = emitter
}

// initUsers initializes the Users entity on the store.
// Uses case-insensitive email indexing via normalizeEmail transformation.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.UserProfile](s, userPrefix).
		WithIndexTransform("email",
			func(u *domain.UserProfile) []string {
				if u.Email == "" {
					return nil
				}
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail, // Transform lookups to be case-insensitive
		)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// update runs fn in a read-write transaction, replaying it on conflict.
func (s *Store) update(ctx context.Context, op string, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		err = s.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}

		metrics.RecordStoreConflict(op)
		if s.logger != nil {
			s.logger.Debug("transaction conflict, retrying", "op", op, "attempt", attempt)
		}
	}

	return ErrTooManyConflicts.WithCause(err)
}

// getJSON reads and decodes key within txn.
func getJSON(txn *badger.Txn, key []byte, dest any) error {
	item, err := txn.Get(key)
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

// setJSON encodes value and writes it under key within txn.
func setJSON(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return txn.Set(key, data)
}

// scanIDs returns the key suffixes under prefix, in key order.
func scanIDs(txn *badger.Txn, prefix []byte) []string {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false // We only need keys.
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var ids []string
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		ids = append(ids, string(it.Item().Key()[len(prefix):]))
	}
	return ids
}

// scanJSON decodes every value under prefix, in key order.
func scanJSON[T any](txn *badger.Txn, prefix []byte) ([]*T, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix

	it := txn.NewIterator(opts)
	defer it.Close()

	var out []*T
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		out = append(out, &v)
	}
	return out, nil
}

// CountByPrefix counts keys for each of the given prefixes.
func (s *Store) CountByPrefix(ctx context.Context, prefixes []string) (map[string]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(prefixes))
	err := s.db.View(func(txn *badger.Txn) error {
		for _, p := range prefixes {
			counts[p] = len(scanIDs(txn, []byte(p)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("count keys: %w", err)
	}
	return counts, nil
}

// KnownPrefixes lists the top-level key prefixes the store writes.
func KnownPrefixes() []string {
	return []string{
		bookPrefix,
		booksByOwnerPrefix,
		recipePrefix,
		recipesByOwnerPrefix,
		recipesByBookPrefix,
		versionPrefix,
		versionsByIDPrefix,
		userPrefix,
	}
}

// Ping checks that the database answers a read transaction.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("database is closed")
	}
	return s.db.View(func(*badger.Txn) error { return nil })
}
