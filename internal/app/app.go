package app

import (
	"context"
	"fmt"
	"log/slog"

	"newswatch/internal/config"
	"newswatch/internal/infrastructure/fetch"
	"newswatch/internal/infrastructure/render"
	"newswatch/internal/infrastructure/storage"
	"newswatch/internal/logging"
	"newswatch/internal/ports"
	"newswatch/internal/usecase"
)

// Application wires config to the scrape engine and schedule manager.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *storage.Store
	engine  *usecase.Engine
	manager *usecase.Manager
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	store, err := storage.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	var renderer ports.Renderer
	if cfg.Scraper.RenderEnabled {
		renderer = render.NewChromeRenderer()
	}

	fetcher := fetch.New(renderer,
		fetch.WithTimeout(cfg.Scraper.Timeout()),
		fetch.WithRenderTimeout(cfg.Scraper.RenderTimeout()),
		fetch.WithMaxRetries(cfg.Scraper.MaxRetries),
	)

	engine := usecase.NewEngine(usecase.EngineDeps{
		Fetcher: fetcher,
		Store:   store,
		Logs:    store,
		Logger:  baseLogger.With("component", "engine"),
	})

	manager := usecase.NewManager(usecase.ManagerDeps{
		Engine: engine,
		Store:  store,
		Logger: baseLogger.With("component", "scheduler"),
	})

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		store:   store,
		engine:  engine,
		manager: manager,
	}, nil
}

// Manager exposes the scheduling trigger surface for an embedding API layer.
func (a *Application) Manager() *usecase.Manager {
	return a.manager
}

// Run seeds configured sites, installs auto-scrape schedules, and blocks
// until the context is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if err := a.seedSites(ctx); err != nil {
		return err
	}

	if a.cfg.Scheduler.Enabled {
		if err := a.installSchedules(ctx); err != nil {
			return err
		}
	}

	<-ctx.Done()

	a.manager.Stop()
	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close failed", "error", err)
	}
	return nil
}

func (a *Application) seedSites(ctx context.Context) error {
	for _, sc := range a.cfg.Sites {
		site := sc.Site()
		id, err := a.store.SaveSite(ctx, site)
		if err != nil {
			return fmt.Errorf("seed site %s: %w", site.Name, err)
		}
		a.logger.Info("site registered", "site", site.Name, "id", id)
	}
	return nil
}

func (a *Application) installSchedules(ctx context.Context) error {
	sites, err := a.store.ListActiveSites(ctx)
	if err != nil {
		return fmt.Errorf("list active sites: %w", err)
	}

	for _, site := range sites {
		if !site.AutoScrape {
			continue
		}
		if err := a.manager.CreateSchedule(ctx, site.ID, site.ScrapeInterval); err != nil {
			return fmt.Errorf("schedule site %s: %w", site.Name, err)
		}
	}
	return nil
}
