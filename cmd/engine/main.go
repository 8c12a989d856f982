package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fitclash/league-engine/internal/app"
	"github.com/fitclash/league-engine/internal/config"
	"github.com/fitclash/league-engine/internal/observability"
	"github.com/fitclash/league-engine/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = stopProfiler()
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	engine, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build engine", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	for _, runner := range engine.Runners() {
		runner := runner
		wg.Add(1)
		go func() {
			defer wg.Done()
			runner.Start(ctx)
		}()
	}

	logger.Info("engine started",
		"env", cfg.AppEnv,
		"service", cfg.ServiceName,
		"version", cfg.ServiceVersion,
		"cycle_interval", cfg.CycleTickInterval,
		"evaluation_enabled", cfg.EvaluationEnabled,
	)

	<-ctx.Done()
	logger.Info("shutdown signal received")
	wg.Wait()

	if err := engine.Close(); err != nil {
		logger.Error("close engine", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, 10*time.Second); err != nil {
		logger.Error("stop pprof server", "error", err)
	}

	logger.Info("engine stopped")
}
