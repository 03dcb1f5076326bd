package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "career-report/internal/adapter/http"
	"career-report/internal/adapter/registrar"
	repo "career-report/internal/adapter/repository"
	"career-report/internal/adapter/storage"
	"career-report/internal/assets"
	"career-report/internal/config"
	"career-report/internal/infrastructure/migration"
	"career-report/internal/populate"
	"career-report/internal/usecase"
	infra "career-report/pkg/infrastructure"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v4/pgxpool"
)

const serviceName = "career-report"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cache, err := assets.Preload(cfg.TemplatesDir, cfg.DataDir, logger)
	if err != nil {
		log.Fatalf("preload assets: %v", err)
	}
	for _, name := range assets.TemplateNames {
		tpl, _ := cache.Template(name)
		if missing := populate.Lint(name, tpl); len(missing) > 0 {
			logger.Warn("template is missing placeholders", "template", name, "missing", missing)
		}
	}

	pool := connectLedger(ctx, cfg, logger)
	if pool != nil {
		defer pool.Close()
	}

	browser := infra.NewBrowserManager(infra.BrowserOptions{
		ExecPath:      cfg.ChromePath,
		Production:    cfg.Production(),
		RenderTimeout: cfg.RenderTimeout,
	}, logger)
	defer browser.Close()

	processor := usecase.NewProcessor(cache, usecase.ChromeEngine(browser), infra.NewPDFMerger(), newUploader(cfg, logger),
		usecase.WithRegistrar(registrar.NewClient(cfg.BackendURL, cfg.RegistrarTimeout, logger)),
		usecase.WithRegistrarTimeout(cfg.RegistrarTimeout),
		usecase.WithReportsRepo(repo.NewReportsRepo(pool)),
		usecase.WithLogger(logger),
	)

	app := fiber.New(fiber.Config{
		AppName:      serviceName,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RenderTimeout + time.Minute,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New())

	httpadapter.NewHandler(processor, serviceName, logger).Register(app)

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RegistrarTimeout+5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("server shutdown", "error", err)
	}
	if err := processor.Drain(shutdownCtx); err != nil {
		logger.Warn("pending report link registrations abandoned", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Production() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newUploader(cfg *config.Config, logger *slog.Logger) usecase.Uploader {
	if cfg.StorageBackend == "local" {
		logger.Info("storing reports locally", "dir", cfg.OutputDir)
		return storage.NewLocalUploader(cfg.OutputDir, logger)
	}
	return storage.NewDriveUploader(storage.DriveConfig{
		CredentialsPath: cfg.DriveCredentialsPath,
		TokenPath:       cfg.DriveTokenPath,
		RootFolder:      cfg.DriveRootFolder,
	}, logger)
}

// connectLedger returns nil when the ledger is disabled or unreachable.
func connectLedger(ctx context.Context, cfg *config.Config, logger *slog.Logger) *pgxpool.Pool {
	if cfg.DatabaseURL == "" {
		return nil
	}
	pool, err := infra.NewReportsPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("report ledger not available", "error", err)
		return nil
	}
	if err := migration.RunMigrations(ctx, pool); err != nil {
		logger.Warn("report ledger migrations failed, ledger disabled", "error", err)
		pool.Close()
		return nil
	}
	return pool
}
