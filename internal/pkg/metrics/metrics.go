package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// イベント操作の総数（operation: create/get/list/update/delete, status: success/not_found/invalid/error）
	EventOperationsTotal *prometheus.CounterVec

	// 保存中のイベント数（state: active/inactive）
	StoredEvents *prometheus.GaugeVec
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		EventOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "event_operations_total",
				Help: "Total number of event store operations",
			},
			[]string{"operation", "status"},
		),
		StoredEvents: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stored_events",
				Help: "Current number of stored events",
			},
			[]string{"state"},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.EventOperationsTotal,
		m.StoredEvents,
	)

	return m
}

// RecordOperation はイベント操作の結果をカウントする
func (m *Metrics) RecordOperation(operation, status string) {
	m.EventOperationsTotal.WithLabelValues(operation, status).Inc()
}

// SetStoredEvents は保存中のイベント数を記録する
func (m *Metrics) SetStoredEvents(active, inactive int) {
	m.StoredEvents.WithLabelValues("active").Set(float64(active))
	m.StoredEvents.WithLabelValues("inactive").Set(float64(inactive))
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
