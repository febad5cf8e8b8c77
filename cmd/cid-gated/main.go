package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/haukened/cid-gate/internal/gate/common/clock"
	"github.com/haukened/cid-gate/internal/gate/common/log"
	"github.com/haukened/cid-gate/internal/gate/config"
	"github.com/haukened/cid-gate/internal/gate/domain"
	"github.com/haukened/cid-gate/internal/gate/gateways/httpserver"
	"github.com/haukened/cid-gate/internal/gate/gateways/upstream"
	"github.com/haukened/cid-gate/internal/gate/repos/audit"
	"github.com/haukened/cid-gate/internal/gate/repos/decision"
	"github.com/haukened/cid-gate/internal/gate/repos/denylist"
	"github.com/haukened/cid-gate/internal/gate/repos/override"
	"github.com/haukened/cid-gate/internal/gate/services/dispatch"
	"github.com/haukened/cid-gate/internal/gate/services/jurisdiction"
	"github.com/haukened/cid-gate/internal/gate/services/notices"
	"github.com/haukened/cid-gate/internal/gate/services/sync"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "cid-gated"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the gateway.
type Application struct {
	config   *config.AppConfig
	server   *httpserver.Server
	syncer   *sync.Syncer
	auditDB  *audit.Store
	recorder *audit.Recorder
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":       version,
		"env":           cfg.Env,
		"log_level":     cfg.LogLevel,
		"port":          cfg.Port,
		"upstream":      cfg.UpstreamURL,
		"jurisdiction":  cfg.Jurisdiction,
		"cache_window":  cfg.CacheWindow.String(),
		"sync_interval": cfg.SyncInterval.String(),
	}, "Starting CID gateway")

	// Build application with all dependencies
	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "CID gateway stopped gracefully")
}

// repositories holds all repository implementations.
type repositories struct {
	overrides *override.Store
	denylist  *denylist.Store
	decisions *decision.Cache
	auditDB   *audit.Store
	recorder  *audit.Recorder
}

// buildRepositories creates and configures all repository implementations.
func buildRepositories(cfg *config.AppConfig, clk clock.Clock, logger log.Logger) (*repositories, error) {
	overrideStore := override.New(cfg.OverrideFile, logger)
	denylistStore := denylist.New(cfg.DenylistFile, logger)

	decisionCache := decision.New(decision.Options{
		Override: overrideStore,
		Denylist: denylistStore,
		Window:   cfg.CacheWindow,
		Clock:    clk,
		Logger:   logger,
	})

	auditDB, err := audit.Open(cfg.AuditDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit store: %w", err)
	}

	log.Info(map[string]any{
		"override_file": cfg.OverrideFile,
		"denylist_file": cfg.DenylistFile,
		"audit_db":      cfg.AuditDB,
		"cache_window":  cfg.CacheWindow.String(),
	}, "Blocklist repositories configured")

	return &repositories{
		overrides: overrideStore,
		denylist:  denylistStore,
		decisions: decisionCache,
		auditDB:   auditDB,
		recorder:  audit.NewRecorder(auditDB, clk, logger),
	}, nil
}

// buildApplication constructs all components and wires them together.
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	// Shared clock for consistent time across all components
	clk := clock.RealClock{}

	// Logger is already configured globally
	logger := log.GetLogger()

	repos, err := buildRepositories(cfg, clk, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build repositories: %w", err)
	}

	upstreamClient, err := upstream.NewClient(upstream.Options{
		BaseURL: cfg.UpstreamURL,
		Timeout: cfg.UpstreamTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream client: %w", err)
	}

	registry := jurisdiction.NewDefaultRegistry(logger)
	if !registry.SetActive(cfg.Jurisdiction) {
		return nil, fmt.Errorf("unknown jurisdiction %q", cfg.Jurisdiction)
	}

	syncer := sync.New(sync.Options{
		URL:      cfg.DenylistURL,
		Timeout:  cfg.DenylistTimeout,
		Interval: cfg.SyncInterval,
		Store:    repos.denylist,
		Cache:    repos.decisions,
		Audit:    repos.recorder,
		Clock:    clk,
		Logger:   logger,
	})

	dispatcher := dispatch.New(dispatch.Options{
		Decider:       repos.decisions,
		Streamer:      upstreamClient,
		Jurisdictions: registry,
		Audit:         repos.recorder,
		Logger:        logger,
	})

	noticeService, err := notices.New(notices.Options{
		Registry: registry,
		Audit:    repos.recorder,
		MemoSize: cfg.NoticeMemo,
		Clock:    clk,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create notice service: %w", err)
	}

	server := httpserver.New(httpserver.Options{
		Addr:          fmt.Sprintf(":%d", cfg.Port),
		MaxConns:      cfg.MaxConns,
		Content:       dispatcher,
		Decisions:     repos.decisions,
		Syncer:        syncer,
		Jurisdictions: registry,
		Notices:       noticeService,
		Audit:         repos.auditDB,
		Recorder:      repos.recorder,
		Prober:        upstreamClient,
		Logger:        logger,
	})

	return &Application{
		config:   cfg,
		server:   server,
		syncer:   syncer,
		auditDB:  repos.auditDB,
		recorder: repos.recorder,
	}, nil
}

// Run starts the gateway and blocks until the context is cancelled.
func (app *Application) Run(ctx context.Context) error {
	if err := app.server.Start(ctx); err != nil {
		return fmt.Errorf("failed to start HTTP transport: %w", err)
	}

	app.recorder.Record(domain.AuditEvent{
		Type:    domain.AuditStartup,
		Details: fmt.Sprintf("%s %s jurisdiction=%s", appName, version, app.config.Jurisdiction),
	})

	// One background loop owns all denylist snapshot writes.
	go app.syncer.Run(ctx)

	log.Info(map[string]any{
		"address":   app.server.Address(),
		"transport": "HTTP",
	}, "CID gateway started")

	<-ctx.Done()

	log.Info(nil, "Shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := app.server.Stop(shutdownCtx); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
	}

	if err := app.auditDB.Close(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error closing audit store")
	}

	log.Info(nil, "Graceful shutdown completed")
	return nil
}
