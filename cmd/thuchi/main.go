package main

import (
	"context"
	"net/http"
	"os"

	"thuchi/internal/backend"
	"thuchi/internal/cli"
	apphttp "thuchi/internal/http"
	"thuchi/internal/log"
	"thuchi/internal/mirror"
	"thuchi/internal/services"
	"thuchi/internal/session"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err, log.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	prefStore := cli.InitPrefs(logger, cfg.PrefsDBPath)

	gate := session.NewGate(result.Backend.Identity, logger)
	sessions := session.NewKeeper(prefStore, logger)
	if ident, ok := sessions.Load(ctx); ok {
		gate.Restore(ident)
	}

	m := mirror.New(result.Backend.Transactions, logger)
	txSvc := services.NewTransactionService(result.Backend.Transactions, m, logger)
	profSvc := services.NewProfileService(result.Backend.Profiles, prefStore, cfg.DataDir, logger)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Gate:         gate,
		Sessions:     sessions,
		Transactions: txSvc,
		Home:         services.NewHomeService(txSvc, profSvc),
		Profiles:     profSvc,
		Settings:     services.NewSettingsService(prefStore, logger),
		Mirror:       m,
	}, logger)

	srv.ReadTimeout = cfg.ReadTimeout
	srv.WriteTimeout = cfg.WriteTimeout
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, cfg.ShutdownTimeout, func() {
		gate.SignOut()
		stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", log.FieldError, err)
		}
		if err := prefStore.Close(); err != nil {
			logger.Error("Preference store close error", log.FieldError, err)
		}
	})

	logger.Info("Starting server",
		log.FieldOperation, log.OpStartup,
		"port", cfg.Port,
		log.FieldBackend, cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
