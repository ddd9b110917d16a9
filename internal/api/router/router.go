package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cafebugado/backendEventos/internal/api"
	"github.com/cafebugado/backendEventos/internal/api/handler"
	"github.com/cafebugado/backendEventos/internal/api/middleware"
	"github.com/cafebugado/backendEventos/internal/application"
	"github.com/cafebugado/backendEventos/internal/config"
	"github.com/cafebugado/backendEventos/internal/pkg/metrics"
)

// Options はルーター構築に必要な依存関係
type Options struct {
	Config       *config.Config
	EventService *application.EventService
	// Metrics が nil の場合は HTTP メトリクスと /metrics を無効にする
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// New はミドルウェアとルートを設定した Echo インスタンスを作成する
func New(opts Options) *echo.Echo {
	cfg := opts.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e, cfg.CORS)

	healthHandler := handler.NewHealthHandler(opts.EventService)
	e.GET("/health", healthHandler.Check)

	if opts.Metrics != nil && cfg.Metrics.Enabled {
		e.Use(middleware.PrometheusMiddleware(opts.Metrics))

		gatherer := opts.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		e.GET("/metrics",
			echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
			middleware.MetricsBasicAuth(cfg.Metrics),
		)
	}

	eventHandler := handler.NewEventHandler(opts.EventService)

	v1 := e.Group("/api/v1")
	v1.POST("/events", eventHandler.Create)
	v1.GET("/events", eventHandler.List)
	v1.GET("/events/:id", eventHandler.GetByID)
	v1.PUT("/events/:id", eventHandler.Update)
	v1.PATCH("/events/:id", eventHandler.Update)
	v1.DELETE("/events/:id", eventHandler.Delete)

	return e
}
