package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/recipehub/recipehub-server/internal/config"
	"github.com/recipehub/recipehub-server/internal/logger"
	"github.com/recipehub/recipehub-server/internal/sse"
	"github.com/recipehub/recipehub-server/internal/store"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable. Queued events are drained before
// the broadcast loop is cancelled.
func (h *SSEManagerHandle) Shutdown() error {
	defer h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.WithComponent("sse").Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	dbPath := cfg.Data.DBPath()
	db, err := store.New(dbPath, log.Logger, store.Options{MaxRetries: cfg.Store.MaxRetries})
	if err != nil {
		return nil, err
	}
	db.SetEventEmitter(sseHandle.Manager)

	log.Info("Database initialized", "path", dbPath, "max_retries", cfg.Store.MaxRetries)

	return &StoreHandle{Store: db}, nil
}
