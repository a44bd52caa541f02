package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/recipehub/recipehub-server/internal/backup"
	"github.com/recipehub/recipehub-server/internal/config"
	"github.com/recipehub/recipehub-server/internal/logger"
	"github.com/recipehub/recipehub-server/internal/search"
	"github.com/recipehub/recipehub-server/internal/service"
	"github.com/recipehub/recipehub-server/internal/store"
	"github.com/recipehub/recipehub-server/internal/validation"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	dataPath string
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "recipehubctl",
		Short:         "Manage a RecipeHub data directory",
		Long:          "recipehubctl issues access tokens, seeds sample data, inspects the database, rebuilds the search index, and backs up or restores recipes.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.dataPath, "data-path", "", "Data directory (default: DATA_PATH or ~/RecipeHub/data)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log store and index activity")

	root.AddCommand(
		newTokenCmd(opts),
		newSeedCmd(opts),
		newInspectCmd(opts),
		newReindexCmd(opts),
		newBackupCmd(opts),
	)

	return root
}

// loadConfig resolves configuration the same way the server does, with
// --data-path taking precedence.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var args []string
	if o.dataPath != "" {
		args = append(args, "-data-path", o.dataPath)
	}
	return config.Load(args)
}

func (o *globalOptions) logger(cmd *cobra.Command) *logger.Logger {
	if !o.verbose {
		return logger.Discard()
	}
	return logger.New(logger.Config{
		Writer: cmd.ErrOrStderr(),
		Format: "pretty",
		Level:  logger.ParseLevel("debug"),
	})
}

// commandContext returns the command's context, or Background when run
// without ExecuteContext.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// app is the subset of the server wired up for offline commands.
type app struct {
	cfg     *config.Config
	store   *store.Store
	index   *search.SearchIndex
	books   *service.BookService
	recipes *service.RecipeService
	search  *service.SearchService
	backups *backup.Service
}

func (a *app) Close() {
	if a.index != nil {
		_ = a.index.Close()
	}
	_ = a.store.Close()
}

// openApp opens the store and search index under the configured data path.
func (o *globalOptions) openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	log := o.logger(cmd).Logger

	st, err := store.New(cfg.Data.DBPath(), log, store.Options{MaxRetries: cfg.Store.MaxRetries})
	if err != nil {
		return nil, fmt.Errorf("open store (is the server still running?): %w", err)
	}

	index, err := search.NewSearchIndex(search.Options{DataPath: cfg.Data.BasePath, Logger: log})
	if err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("open search index: %w", err)
	}

	searchService := service.NewSearchService(index, st, log)
	st.SetSearchIndexer(searchService)

	v := validation.New()
	return &app{
		cfg:     cfg,
		store:   st,
		index:   index,
		books:   service.NewBookService(st, v, log),
		recipes: service.NewRecipeService(st, v, log),
		search:  searchService,
		backups: backup.NewService(st, cfg.Data.BackupPath(), version, log),
	}, nil
}
