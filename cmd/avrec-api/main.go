// avrec-api — HTTP API раннера функциональных кейсов рекордера.
//
// Процесс:
//   - Отдаёт каталог кейсов и результаты прогонов (/api/v1/...)
//   - Выполняет прогоны через оркестратор на симулированной платформе
//   - Запускает кейсы по расписанию, если задан AVREC_SCHEDULE
//   - Хранит прогоны в PostgreSQL, если DB_URL доступен, иначе в памяти
//   - Публикует события прогонов в RabbitMQ, если брокер доступен
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/laiyoufafa/multimedia-player-framework/internal/api"
	"github.com/laiyoufafa/multimedia-player-framework/internal/mq"
	"github.com/laiyoufafa/multimedia-player-framework/internal/orchestrator"
	"github.com/laiyoufafa/multimedia-player-framework/internal/repo"
	"github.com/laiyoufafa/multimedia-player-framework/internal/scheduler"
	"github.com/laiyoufafa/multimedia-player-framework/internal/sim"
	"github.com/laiyoufafa/multimedia-player-framework/internal/suite"
	"github.com/laiyoufafa/multimedia-player-framework/internal/telemetry"
)

var startTime = time.Now()

func main() {
	logger := telemetry.SetupLogger()
	logger.Info("starting avrec-api")

	if err := run(logger); err != nil {
		logger.Error("avrec-api failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func run(logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Хранилище: PostgreSQL или память.
	var store repo.CaseRunStore
	pool, err := repo.NewPool(ctx)
	if err != nil {
		logger.Warn("database not available, keeping runs in memory", "error", err)
		store = repo.NewMemoryStore()
	} else {
		defer pool.Close()
		if err := repo.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		logger.Info("database connected")
		store = repo.NewCaseRunRepo(pool)
	}

	// RabbitMQ необязателен.
	orchCfg := orchestrator.Config{
		Store:  store,
		Logger: logger,
	}
	mqConn, err := mq.NewConnection(mq.URLFromEnv(), logger)
	if err != nil {
		logger.Warn("RabbitMQ not available, running without events", "error", err)
	} else {
		defer mqConn.Close()
		if err := mq.SetupTopology(ctx, mqConn); err != nil {
			logger.Warn("failed to setup topology", "error", err)
		}
		logger.Debug("topology", "info", mq.TopologyInfo())
		orchCfg.Conn = mqConn
		orchCfg.Publisher = mq.NewPublisher(mqConn, logger)
	}

	suiteCfg := suite.ConfigFromEnv()
	suiteCfg.Logger = logger
	platform := sim.NewPlatform(sim.Config{Logger: logger})
	orchCfg.Executor = suite.New(platform.Media(), suiteCfg)

	orch := orchestrator.New(orchCfg)
	if err := orch.Start(ctx); err != nil {
		return fmt.Errorf("start orchestrator: %w", err)
	}
	defer orch.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s active=%d", time.Since(startTime).Round(time.Second), orch.ActiveRunsCount())
	})
	mux.Handle("/metrics", promhttp.Handler())
	api.NewHandler(api.Config{Store: store, Runs: orch, Logger: logger}).RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	spec, err := scheduler.SpecFromEnv()
	if err != nil {
		return err
	}
	if spec.Enabled() {
		sched, err := scheduler.New(scheduler.Config{Spec: spec, Submitter: orch, Logger: logger})
		if err != nil {
			return err
		}
		g.Go(func() error { return sched.Run(gctx) })
	} else {
		logger.Info("scheduler disabled, AVREC_SCHEDULE is empty")
	}

	return g.Wait()
}
