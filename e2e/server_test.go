package e2e

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cafebugado/backendEventos/internal/api/router"
	"github.com/cafebugado/backendEventos/internal/application"
	"github.com/cafebugado/backendEventos/internal/config"
	"github.com/cafebugado/backendEventos/internal/infrastructure/memory"
	"github.com/cafebugado/backendEventos/internal/pkg/metrics"
)

// TestServer はE2Eテスト用のサーバー
// テストごとに空のストアとメトリクスレジストリを持つ
type TestServer struct {
	Echo     *echo.Echo
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

// NewTestServer はテスト用サーバーを作成
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	return newTestServer(t, config.MetricsConfig{Enabled: true})
}

func newTestServer(t *testing.T, metricsCfg config.MetricsConfig) *TestServer {
	t.Helper()

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test"},
		Metrics: metricsCfg,
		CORS:    config.CORSConfig{AllowOrigins: []string{"*"}},
	}

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	eventService := application.NewEventService(memory.NewEventStore(), m)

	e := router.New(router.Options{
		Config:       cfg,
		EventService: eventService,
		Metrics:      m,
		Gatherer:     reg,
	})

	return &TestServer{Echo: e, Metrics: m, Registry: reg}
}

// Request はHTTPリクエストを実行
func (s *TestServer) Request(method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody []byte
	if body != nil {
		reqBody, _ = json.Marshal(body)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}
