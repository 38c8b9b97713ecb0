package server

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/Workspace/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/dispatch"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/kvstore"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/Workspace/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/Workspace/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/Workspace/backend/internal/providers/system"
	workspaceProvider "github.com/GriffinCanCode/Workspace/backend/internal/providers/workspace"
	"github.com/GriffinCanCode/Workspace/backend/internal/service"
	"github.com/GriffinCanCode/Workspace/backend/internal/shared/paths"
)

// Backend holds the wired engine shared by the HTTP server and the CLI
type Backend struct {
	Config    *config.Config
	Logger    *logging.Logger
	Metrics   *monitoring.Metrics
	Resolver  *paths.Resolver
	Store     *filesystem.Store
	Engine    *filesystem.Engine
	Session   *workspace.Session
	Bookmarks *workspace.Bookmarks
	Pool      *dispatch.Pool
	Registry  *service.Registry
}

// NewBackend wires every component from cfg
func NewBackend(cfg *config.Config, logger *logging.Logger, version string) (*Backend, error) {
	home := cfg.Workspace.Home
	if home == "" {
		detected, err := os.UserHomeDir()
		if err != nil {
			logger.Warn("Home directory unavailable; ~ paths and trash are disabled", zap.Error(err))
		}
		home = detected
	}

	policy := paths.CaseSensitive
	if !cfg.Workspace.CaseSensitive {
		policy = paths.CaseInsensitive
	}
	resolver := paths.NewResolver(paths.Context{Home: home}, policy)

	dataDir := cfg.Workspace.DataDir
	if dataDir == "" {
		if home == "" {
			return nil, fmt.Errorf("WORKSPACE_DATA_DIR is required when the home directory is unknown")
		}
		dataDir = resolver.AppDataDir(cfg.Workspace.AppName).String()
	}

	codec, err := kvstore.CodecFor(cfg.Store.Format)
	if err != nil {
		return nil, err
	}
	kv, err := kvstore.NewFileStore(dataDir, codec, logger)
	if err != nil {
		return nil, err
	}

	session, err := workspace.NewSession(resolver, workspace.NewRecentStore(kv, resolver, logger), cfg.Workspace.RecentCapacity, logger)
	if err != nil {
		return nil, err
	}
	bookmarks, err := workspace.NewBookmarks(workspace.NewBookmarkStore(kv, resolver, logger), logger)
	if err != nil {
		return nil, err
	}

	var trash filesystem.Trash
	if home != "" {
		trash = filesystem.NewTrash(home, runtime.GOOS)
	}

	metrics := monitoring.NewMetrics()
	store := filesystem.NewStore(resolver, trash, logger)
	engine := filesystem.NewEngine(resolver, filesystem.SearchDefaults{
		MaxResults:      cfg.Search.MaxResults,
		MaxContentBytes: cfg.Search.MaxContentBytes,
		Ignore:          cfg.Search.Ignore,
	}, metrics, logger)

	pool := dispatch.NewPool(cfg.Dispatch.EffectiveWorkers(), metrics, logger)
	registry := service.NewRegistry(pool, metrics, logger)

	b := &Backend{
		Config:    cfg,
		Logger:    logger,
		Metrics:   metrics,
		Resolver:  resolver,
		Store:     store,
		Engine:    engine,
		Session:   session,
		Bookmarks: bookmarks,
		Pool:      pool,
		Registry:  registry,
	}
	if err := b.registerProviders(version); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("Backend initialized",
		zap.String("home", home),
		zap.String("data_dir", dataDir),
		zap.String("store_format", codec.Name()),
		zap.String("case_policy", policy.String()),
		zap.Int("workers", pool.Size()),
	)
	return b, nil
}

func (b *Backend) registerProviders(version string) error {
	providers := []service.Provider{
		filesystem.NewProvider(&filesystem.FilesystemOps{
			Store:          b.Store,
			Engine:         b.Engine,
			Resolver:       b.Resolver,
			Scope:          b.Session,
			WalkMaxEntries: b.Config.Walk.MaxEntries,
		}),
		workspaceProvider.NewProvider(b.Session, b.Bookmarks, b.Resolver),
		system.NewProvider(b.Resolver, b.Config.Workspace.AppName, version),
	}

	for _, p := range providers {
		if err := b.Registry.Register(p); err != nil {
			return fmt.Errorf("failed to register %s provider: %w", p.Definition().ID, err)
		}
	}
	return nil
}

// Close waits for running commands and flushes the logger
func (b *Backend) Close() {
	b.Pool.Close()
	_ = b.Logger.Sync()
}
