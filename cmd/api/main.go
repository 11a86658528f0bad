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

	"github.com/panpapadopoulos/cooking/internal/api"
	"github.com/panpapadopoulos/cooking/internal/api/handlers/health"
	"github.com/panpapadopoulos/cooking/internal/app"
	"github.com/panpapadopoulos/cooking/internal/infrastructure/config"
	"github.com/panpapadopoulos/cooking/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := common.InitLogger(common.LogOptions{
		Level:   cfg.LogLevel,
		Dir:     cfg.Log.Dir,
		Service: cfg.App.Name,
		Mode:    cfg.Log.Mode,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx := context.Background()
	services, err := app.New(ctx, cfg)
	if err != nil {
		common.LogFatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	if err := services.Seed(ctx); err != nil {
		common.LogWarn("Failed to load sample recipes", zap.Error(err))
	}

	checks := make(map[string]health.Checker)
	for name, check := range services.Checks() {
		checks[name] = check
	}

	router, err := api.SetupRouter(api.Dependencies{
		Config:   cfg,
		Recipes:  services.Recipes,
		AI:       services.AI,
		Registry: services.Registry,
		Syncer:   services.Syncer,
		Checks:   checks,
	})
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		common.LogInfo(common.MsgStarting,
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	common.LogInfo(common.MsgShuttingDown)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo(common.MsgServerExited)
}
