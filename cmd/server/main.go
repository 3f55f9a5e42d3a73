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

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/newscheck/config"
	"github.com/d60-Lab/newscheck/internal/api"
	"github.com/d60-Lab/newscheck/internal/api/handler"
	"github.com/d60-Lab/newscheck/internal/auth"
	"github.com/d60-Lab/newscheck/internal/ml"
	"github.com/d60-Lab/newscheck/internal/repository"
	"github.com/d60-Lab/newscheck/internal/service"
	"github.com/d60-Lab/newscheck/internal/telemetry"
	"github.com/d60-Lab/newscheck/pkg/database"
	"github.com/d60-Lab/newscheck/pkg/logger"
	"github.com/d60-Lab/newscheck/pkg/response"
)

// @title NewsCheck API
// @version 1.0
// @description Fake news detection backend.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.Log.Level, cfg.Server.IsRelease()); err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.L()

	response.SetDevDetail(!cfg.Server.IsRelease())

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN, Environment: cfg.Server.Mode}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx := context.Background()
	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer shutdownTracing(ctx)

	db, err := database.InitDB(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)
	log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	// Process-wide collaborators: built once, shared by every request.
	verifier := auth.NewJWTVerifier(cfg.Auth)
	mlClient := ml.NewClient(cfg.ML)

	analysisRepo := repository.NewAnalysisRepository(db)
	userRepo := repository.NewUserRepository(db)
	newsSvc := service.NewNewsService(analysisRepo, mlClient, logger.Named("news"))
	userSvc := service.NewUserService(userRepo)
	h := handler.New(newsSvc, userSvc, logger.Named("handler"))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(cfg, h, verifier, log),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
