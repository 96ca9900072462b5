package main

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
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/config"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/controllers"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/database"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/jobs"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/logger"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/metrics"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/models"
	"github.com/CamiloAndresDG/NeuralCrime-WebPage/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func loadConfig() (*config.Config, error) {
	if cfgFile != "" {
		if err := os.Setenv("CONFIG_FILE", cfgFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger.Configure(cfg.IsDev(), cfg.LogLevel)
	return cfg, nil
}

func newSource(cfg *config.Config, gen *services.Generator) services.PredictionSource {
	if cfg.DataSource() == "remote" {
		return services.NewInferenceClient(cfg.InferenceURL, cfg.InferenceToken, cfg.InferenceTimeout)
	}
	return services.NewMockSource(gen, cfg.SimulatedDelay, cfg.ModelVersion)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New("server")

	// Conectar ao banco
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing database")
		}
	}()
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := database.SeedZones(ctx, db, models.LAPDDivisions); err != nil {
		return fmt.Errorf("seed zones: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	rec, err := metrics.NewRecorder(reg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// Instancia serviços
	gen := services.NewGenerator(cfg.GeneratorSeed, nil)
	zoneSvc := services.NewZoneService(db)
	runSvc := services.NewRunService(db)
	predictionSvc := services.NewPredictionService(services.PredictionServiceConfig{
		Source:        newSource(cfg, gen),
		Zones:         zoneSvc,
		Runs:          runSvc,
		Metrics:       rec,
		Logger:        logger.New("predictions"),
		Generator:     gen,
		ZoneDataDelay: cfg.ZoneDataDelay,
	})
	cache := services.NewPredictionCache(predictionSvc, cfg.CacheTTL, rec)
	sessionSvc := services.NewSessionService(cache, cfg.SessionTTL, rec, logger.New("sessions"))
	go sessionSvc.Run(ctx)

	prefetch := jobs.NewPrefetchJob(cache, cfg.PrefetchCron, logger.New("prefetch"))
	go func() {
		if err := prefetch.Run(ctx); err != nil {
			log.Error().Err(err).Msg("prefetch job stopped")
		}
	}()

	// Inicializa Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger.New("http")))

	// Registra rotas
	api := e.Group("/api/v1")
	controllers.NewPredictionController(cache, zoneSvc).Register(api)
	controllers.NewSessionController(sessionSvc, zoneSvc).Register(api)
	controllers.NewZoneController(zoneSvc, predictionSvc).Register(api)
	controllers.NewRunController(runSvc).Register(api)
	controllers.NewAboutController(zoneSvc, predictionSvc.SourceName(), cfg.ModelVersion).Register(api)

	e.GET("/healthz", func(c echo.Context) error {
		if err := sqlDB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("source", predictionSvc.SourceName()).
			Str("db_driver", cfg.DBDriver).
			Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
