package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/CloudDevelopmentGroup/arbitrage/internal/api/handlers"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/api/middleware"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/engine"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/enrich"
	"github.com/CloudDevelopmentGroup/arbitrage/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and processing scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 60*time.Second)
	err = st.Migrate(migrateCtx)
	cancelMigrate()
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	enricher := buildEnricher(cfg, log)
	analyzer := buildAnalyzer(cfg, log)

	eng := engine.NewEngine(st, enricher, analyzer,
		engine.WithLogger(log),
		engine.WithItemBatchSize(cfg.Schedule.ItemBatchSize),
		engine.WithEnrichOptions(enrich.Options{EnableAILookup: cfg.AI.EnableASINLookup}),
	)

	sched, err := engine.NewScheduler(eng, cfg.Schedule.ProcessInterval, log)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Recovery(log))
	e.Use(middleware.Metrics())
	e.Use(echomw.CORS())

	health := handlers.NewHealthHandler(st)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	manifests := handlers.NewManifestHandler(st)
	uploads := handlers.NewUploadHandler(st, eng, log)
	check := handlers.NewCheckHandler(analyzer)

	api := e.Group("/api")
	api.GET("/manifests", manifests.List)
	api.GET("/manifests/:id", manifests.Get)
	api.GET("/uploads/:id", uploads.Get)
	api.POST("/uploads/:id/process", uploads.TriggerOne)
	api.POST("/process", uploads.Trigger)
	api.POST("/check", check.Check)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server", "addr", addr)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}
