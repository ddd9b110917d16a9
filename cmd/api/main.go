package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/cafebugado/backendEventos/internal/api/router"
	"github.com/cafebugado/backendEventos/internal/application"
	"github.com/cafebugado/backendEventos/internal/config"
	"github.com/cafebugado/backendEventos/internal/infrastructure/memory"
	"github.com/cafebugado/backendEventos/internal/pkg/logger"
	"github.com/cafebugado/backendEventos/internal/pkg/metrics"
	"github.com/cafebugado/backendEventos/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.Init(cfg.App.Env)
	defer func() { _ = logger.Sync() }()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.Init()
	}

	// イベントはプロセス内メモリにのみ保持する
	eventStore := memory.NewEventStore()
	eventService := application.NewEventService(eventStore, m)

	e := router.New(router.Options{
		Config:       cfg,
		EventService: eventService,
		Metrics:      m,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var collector *worker.EventStatsCollector
	if m != nil {
		collector = worker.NewEventStatsCollector(eventService, m, cfg.Metrics.StatsInterval)
		go collector.Start(ctx)
	}

	go func() {
		log.Info("サーバー起動",
			zap.String("addr", cfg.Server.Addr()),
			zap.Bool("metrics", cfg.Metrics.Enabled),
		)
		if err := e.Start(cfg.Server.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	// シグナル待機
	<-ctx.Done()
	log.Info("サーバーをシャットダウンしています...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if collector != nil {
		collector.Stop()
	}

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("サーバーシャットダウンエラー", zap.Error(err))
		return
	}

	log.Info("サーバーが正常にシャットダウンしました")
}
