package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cafebugado/backendEventos/internal/domain/event"
	"github.com/cafebugado/backendEventos/internal/pkg/logger"
	"github.com/cafebugado/backendEventos/internal/pkg/metrics"
)

// StatsSource は保存中イベントの件数を返すインターフェース
type StatsSource interface {
	EventStats(ctx context.Context) (event.Stats, error)
}

// EventStatsCollector は保存中イベントの件数を定期的にメトリクスへ反映するワーカー
type EventStatsCollector struct {
	source   StatsSource
	metrics  *metrics.Metrics
	interval time.Duration
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// DefaultInterval は interval に0以下が渡されたときの収集間隔
const DefaultInterval = 30 * time.Second

// NewEventStatsCollector は新しいコレクターを作成
func NewEventStatsCollector(source StatsSource, m *metrics.Metrics, interval time.Duration) *EventStatsCollector {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &EventStatsCollector{
		source:   source,
		metrics:  m,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start はコレクターを開始する。停止するまでブロックする
func (c *EventStatsCollector) Start(ctx context.Context) {
	logger.Info("イベント統計コレクター開始", zap.Duration("interval", c.interval))

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	defer close(c.doneCh)

	// 起動直後にも一度反映する
	c.collect(ctx)

	for {
		select {
		case <-ctx.Done():
			logger.Info("イベント統計コレクター停止（コンテキストキャンセル）")
			return
		case <-c.stopCh:
			logger.Info("イベント統計コレクター停止（シグナル受信）")
			return
		case <-ticker.C:
			c.collect(ctx)
		}
	}
}

// Stop はコレクターを停止し、Start の終了を待つ
func (c *EventStatsCollector) Stop() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	<-c.doneCh
}

// collect はイベント件数を取得してゲージを更新する
func (c *EventStatsCollector) collect(ctx context.Context) {
	log := logger.Get()

	stats, err := c.source.EventStats(ctx)
	if err != nil {
		log.Error("イベント統計の取得失敗", zap.Error(err))
		return
	}

	c.metrics.SetStoredEvents(stats.Active, stats.Inactive())
	log.Debug("イベント統計を更新",
		zap.Int("total", stats.Total),
		zap.Int("active", stats.Active),
	)
}
