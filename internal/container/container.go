package container

import (
	"context"
	"fmt"

	"macrolens/adapters/excel"
	"macrolens/adapters/kmeans"
	"macrolens/adapters/postgres"
	"macrolens/app"
	"macrolens/internal"
	"macrolens/internal/config"
	"macrolens/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Adapters
	Source   ports.ObservationSource
	Engine   ports.ClusteringEngine
	Exporter ports.ClusterExporter

	// Application
	Dashboard *app.DashboardService

	db *postgres.ObservationSource
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
		Engine: kmeans.NewEngine(kmeans.Config{
			NInit:     cfg.Cluster.NInit,
			MaxIter:   cfg.Cluster.MaxIter,
			Tolerance: cfg.Cluster.Tolerance,
		}),
		Exporter: excel.NewWorkbookExporter(),
	}
	internal.DefaultLogger = c.Logger
	return c, nil
}

// Init opens the observation source and loads the base dataset. A data file
// takes precedence over the database.
func (c *Container) Init(ctx context.Context) error {
	source, err := c.openSource(ctx)
	if err != nil {
		return err
	}
	c.Source = source

	base, err := app.LoadBase(ctx, source, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to load base dataset: %w", err)
	}

	c.Dashboard = app.NewDashboardService(base, c.Engine, c.Exporter, c.Config.Defaults, c.Config.Cluster.Seed, c.Logger)
	c.Dashboard.SetSource(source.Describe())
	return nil
}

func (c *Container) openSource(ctx context.Context) (ports.ObservationSource, error) {
	if c.Config.Data.File != "" {
		cfg := excel.DefaultExcelConfig()
		cfg.FilePath = c.Config.Data.File
		cfg.Sheet = c.Config.Data.Sheet
		c.Logger.Info("[Container] using file data source: %s", cfg.FilePath)
		return excel.NewFileSource(cfg), nil
	}

	db, err := postgres.Open(ctx, c.Config.Database.URL)
	if err != nil {
		return nil, err
	}
	c.db = db
	c.Logger.Info("[Container] using database data source")
	return db, nil
}

// Shutdown releases the database connection and flushes the logger
func (c *Container) Shutdown(ctx context.Context) error {
	defer c.Logger.Sync()
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
