// Package app wires configuration, storage, the journal service and the
// HTTP surface together and runs them.
package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"tradevo/internal/config"
	"tradevo/internal/journal"
	"tradevo/internal/journal/service"
	"tradevo/internal/logger"
	"tradevo/internal/report"
	"tradevo/internal/store/gormstore"
	"tradevo/internal/symbols"
	apihttp "tradevo/internal/transport/http/api"
)

type App struct {
	cfg     *config.Config
	store   *gormstore.GormStore
	journal *service.Service
	symbols *symbols.Registry
	server  *apihttp.Server
}

// NewApp builds the application from config without starting anything.
func NewApp(cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)

	store, err := gormstore.NewGormStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("open store failed: %w", err)
	}

	svc, err := service.New(store, cfg.Account.InitialBalance, journal.GoalConfig{
		Daily:   cfg.Goals.Daily,
		Weekly:  cfg.Goals.Weekly,
		Monthly: cfg.Goals.Monthly,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build journal service failed: %w", err)
	}

	registry, err := symbols.NewRegistry(cfg.Symbols.Path)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load symbols catalog failed: %w", err)
	}

	server, err := apihttp.NewServer(apihttp.ServerConfig{
		Addr:    cfg.App.HTTPAddr,
		Journal: svc,
		Symbols: registry,
		Webhook: apihttp.WebhookOptions{
			Enabled:   cfg.Webhook.Enabled,
			KeyPrefix: cfg.Webhook.KeyPrefix,
		},
		Calendar: apihttp.CalendarOptions{
			UpstreamURL: cfg.Calendar.UpstreamURL,
			CacheTTL:    time.Duration(cfg.Calendar.CacheTTLSeconds) * time.Second,
			Timeout:     time.Duration(cfg.Calendar.TimeoutSeconds) * time.Second,
		},
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("build http server failed: %w", err)
	}

	return &App{
		cfg:     cfg,
		store:   store,
		journal: svc,
		symbols: registry,
		server:  server,
	}, nil
}

// Run serves until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.store.Close()

	logger.Infof("tradevo listening on %s (env=%s)", a.server.Addr(), a.cfg.App.Env)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	if a.cfg.Calendar.UpstreamURL != "" {
		group.Go(func() error {
			a.calendarPrefetchLoop(ctx)
			return nil
		})
	}
	return group.Wait()
}

// calendarPrefetchLoop keeps the economic-calendar cache warm so the
// dashboard never blocks on the upstream.
func (a *App) calendarPrefetchLoop(ctx context.Context) {
	refresh := func() {
		callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := a.server.RefreshCalendar(callCtx); err != nil {
			logger.Warnf("calendar prefetch failed: %v", err)
		}
	}
	refresh()

	ttl := time.Duration(a.cfg.Calendar.CacheTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	ticker := time.NewTicker(ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}

// WriteReport renders the performance report into the configured output
// directory and returns the file path.
func (a *App) WriteReport(ctx context.Context) (string, error) {
	if a == nil {
		return "", fmt.Errorf("app not initialized")
	}
	trades, err := a.journal.ListTrades(ctx, "")
	if err != nil {
		return "", fmt.Errorf("load trades failed: %w", err)
	}
	state, err := a.journal.Account(ctx)
	if err != nil {
		return "", fmt.Errorf("load account failed: %w", err)
	}
	return report.Write(a.cfg.Report.OutputDir, report.Input{
		Trades:         trades,
		InitialBalance: state.InitialBalance,
	})
}

// Close releases resources for callers that never Run.
func (a *App) Close() {
	if a == nil || a.store == nil {
		return
	}
	a.store.Close()
}
