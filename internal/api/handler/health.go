package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cafebugado/backendEventos/internal/domain/event"
)

// StatsProvider は保存中イベントの件数を返す
type StatsProvider interface {
	EventStats(ctx context.Context) (event.Stats, error)
}

// HealthHandler はヘルスチェックハンドラー
type HealthHandler struct {
	stats StatsProvider
}

// NewHealthHandler はHealthHandlerを作成する
// stats が nil の場合はイベント件数を返さない
func NewHealthHandler(stats StatsProvider) *HealthHandler {
	return &HealthHandler{stats: stats}
}

// HealthResponse はヘルスチェックのレスポンス
type HealthResponse struct {
	Status    string               `json:"status"`
	Timestamp string               `json:"timestamp"`
	Events    *HealthEventsSummary `json:"events,omitempty"`
}

type HealthEventsSummary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// Check はヘルスチェックを行う
// @Summary ヘルスチェック
// @Description アプリケーションの健全性を確認する
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Check(c echo.Context) error {
	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if h.stats == nil {
		return c.JSON(http.StatusOK, resp)
	}

	stats, err := h.stats.EventStats(c.Request().Context())
	if err != nil {
		resp.Status = "unavailable"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	resp.Events = &HealthEventsSummary{
		Total:    stats.Total,
		Active:   stats.Active,
		Inactive: stats.Inactive(),
	}
	return c.JSON(http.StatusOK, resp)
}
