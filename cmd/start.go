package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"bling-sync/core/loader"
	"bling-sync/core/logger"
	"bling-sync/core/metrics"
	"bling-sync/core/middleware/auth"
	"bling-sync/core/middleware/rayid"
	"bling-sync/core/scheduler"
	"bling-sync/feature/integrity"
	syncfeature "bling-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "bling-sync/docs/swagger"
)

// @title Bling Sync API
// @version 1.0
// @description Synchronizes the Bling ERP into the local database and reconciles its financial records.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var noScheduler bool

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server and the scheduler",
	Long:  `Starts the admin HTTP server, loads all enabled features and triggers the enabled kinds on the configured interval.`,
	RunE:  runStart,
}

func init() {
	startCmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Serve HTTP only; runs are started through the API")
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, logg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logg.Sync()
	zap.ReplaceGlobals(logg)

	if !cfg.Server.IsValidEnvironment() {
		logg.Warn("Unknown environment", zap.String("environment", cfg.Server.Environment))
	}
	logg = logg.With(zap.String("environment", cfg.Server.Environment))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer a.close()

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout(),
	})

	mgr := loader.NewManager(logg)
	mgr.Register(syncfeature.NewFeature(a.sync, true))
	mgr.Register(integrity.NewFeature(integrity.NewService(
		a.db, schemaModels(), a.archive, cfg.Storage.Bucket, a.cursors, a.importer.Kinds, logg,
	)))

	// RayID first so every later log line carries it.
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Debug("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public routes.
	app.Get("/swagger/*", swagger.HandlerDefault)
	metrics.Register(app, cfg.Metrics, a.recorder)

	app.Use(auth.New(auth.Config{
		ApiKey: cfg.Server.ApiKey,
		Skip:   []string{"/health"},
	}))

	if err := mgr.LoadAll(app); err != nil {
		return err
	}

	if cfg.Scheduler.Enabled && !noScheduler {
		sched := scheduler.New(a.sync, cfg.Scheduler, logg)
		go sched.Start(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("addr", cfg.Server.ListenAddr()))
		errc <- app.Listen(cfg.Server.ListenAddr())
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logg.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logg.Warn("Server shutdown failed", zap.Error(err))
	}
	return nil
}
