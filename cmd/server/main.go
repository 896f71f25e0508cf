package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskmock/backend/api/handler"
	"github.com/taskmock/backend/client"
	"github.com/taskmock/backend/internal/config"
	"github.com/taskmock/backend/internal/infrastructure/faults"
	"github.com/taskmock/backend/internal/router"
	"github.com/taskmock/backend/internal/services/lifecycle"
	boltStore "github.com/taskmock/backend/repository/bolt"
	"github.com/taskmock/backend/pkg/httpcontext"
	"github.com/taskmock/backend/pkg/logger"
	"github.com/taskmock/backend/usecase/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	store, err := boltStore.Open(cfg.Storage.Path, cfg.Storage.Bucket)
	if err != nil {
		zapLogger.Fatal("failed to open task store", zap.Error(err))
	}
	manager.Register("task_store", func(ctx context.Context) error {
		return store.Close()
	})

	injector := faults.New(faults.Config{
		MinDelay:  cfg.Simulation.MinDelay,
		MaxDelay:  cfg.Simulation.MaxDelay,
		ErrorRate: cfg.Simulation.ErrorRate,
	})

	service := tasks.New(store, injector, zapLogger)
	apiClient := client.New(service, zapLogger, client.WithRetryPolicy(client.RetryPolicy{
		MaxRetries: cfg.Retry.MaxRetries,
		Backoff:    cfg.Retry.Backoff,
	}))

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:   apiHandler.NewTaskHandler(apiClient, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(store, cfg.Simulation, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.Float64("error_rate", cfg.Simulation.ErrorRate))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
