package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cafebugado/backendEventos/internal/application"
	"github.com/cafebugado/backendEventos/internal/domain/event"
)

// レスポンスの日時はミリ秒付きのUTCで返す
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// 日付のみの指定（UTCの0時として扱う）
const dateOnlyLayout = "2006-01-02"

type EventHandler struct {
	eventService EventServiceInterface
}

func NewEventHandler(eventService EventServiceInterface) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Name        string `json:"name" validate:"required,max=255" example:"Tech Conference 2026"`
	Description string `json:"description" validate:"required,max=1000" example:"Annual technology conference with workshops and talks"`
	Location    string `json:"location" validate:"required,max=255" example:"São Paulo, Brazil"`
	Date        string `json:"date" validate:"required" example:"2026-03-15T09:00:00.000Z"`
	Capacity    int    `json:"capacity" validate:"required,min=1" example:"500"`
	IsActive    *bool  `json:"isActive" example:"true"`
}

// UpdateEventRequest は部分更新のリクエスト
// 省略したフィールドは更新しない
type UpdateEventRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255" example:"Tech Conference 2026"`
	Description *string `json:"description" validate:"omitnil,min=1,max=1000" example:"Annual technology conference with workshops and talks"`
	Location    *string `json:"location" validate:"omitnil,min=1,max=255" example:"São Paulo, Brazil"`
	Date        *string `json:"date" validate:"omitnil,min=1" example:"2026-03-15T09:00:00.000Z"`
	Capacity    *int    `json:"capacity" validate:"omitnil,min=1" example:"500"`
	IsActive    *bool   `json:"isActive" example:"true"`
}

type ListEventsRequest struct {
	Page     int    `query:"page" validate:"omitempty,min=1"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=50"`
	Sort     string `query:"sort" validate:"omitempty,oneof=date name createdAt"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc"`
	IsActive string `query:"isActive" validate:"omitempty,boolean"`
	Location string `query:"location" validate:"omitempty,max=255"`
	DateFrom string `query:"dateFrom"`
	DateTo   string `query:"dateTo"`
}

type EventResponse struct {
	ID          string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Name        string `json:"name" example:"Tech Conference 2026"`
	Description string `json:"description" example:"Annual technology conference with workshops and talks"`
	Location    string `json:"location" example:"São Paulo, Brazil"`
	Date        string `json:"date" example:"2026-03-15T09:00:00.000Z"`
	Capacity    int    `json:"capacity" example:"500"`
	IsActive    bool   `json:"isActive" example:"true"`
	CreatedAt   string `json:"createdAt" example:"2026-01-29T10:00:00.000Z"`
	UpdatedAt   string `json:"updatedAt" example:"2026-01-29T10:00:00.000Z"`
}

type PageMetaResponse struct {
	Total      int `json:"total" example:"42"`
	Page       int `json:"page" example:"1"`
	Limit      int `json:"limit" example:"9"`
	TotalPages int `json:"totalPages" example:"5"`
}

type ListEventsResponse struct {
	Data []*EventResponse `json:"data"`
	Meta PageMetaResponse `json:"meta"`
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func toEventResponse(e *event.Event) *EventResponse {
	return &EventResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Location:    e.Location,
		Date:        formatTimestamp(e.Date),
		Capacity:    e.Capacity,
		IsActive:    e.IsActive,
		CreatedAt:   formatTimestamp(e.CreatedAt),
		UpdatedAt:   formatTimestamp(e.UpdatedAt),
	}
}

func toListEventsResponse(p *event.Page) *ListEventsResponse {
	data := make([]*EventResponse, len(p.Data))
	for i, e := range p.Data {
		data[i] = toEventResponse(e)
	}
	return &ListEventsResponse{
		Data: data,
		Meta: PageMetaResponse{
			Total:      p.Meta.Total,
			Page:       p.Meta.Page,
			Limit:      p.Meta.Limit,
			TotalPages: p.Meta.TotalPages,
		},
	}
}

// Create godoc
// @Summary イベントを作成
// @Description 新しいイベントを作成します
// @Tags events
// @Accept json
// @Produce json
// @Param request body CreateEventRequest true "イベント情報"
// @Success 201 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "開催日時の形式が不正です")
	}

	input := application.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Date:        date,
		Capacity:    req.Capacity,
		IsActive:    req.IsActive,
	}

	e, err := h.eventService.CreateEvent(c.Request().Context(), input)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, toEventResponse(e))
}

// GetByID godoc
// @Summary イベントを取得
// @Description 指定IDのイベントを取得します
// @Tags events
// @Produce json
// @Param id path string true "イベントID (UUID)"
// @Success 200 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	e, err := h.eventService.GetEvent(c.Request().Context(), id)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// List godoc
// @Summary イベント一覧を取得
// @Description 絞り込み・並び替え・ページングしたイベント一覧を取得します
// @Tags events
// @Produce json
// @Param page query int false "ページ番号" default(1)
// @Param limit query int false "1ページの件数 (最大50)" default(9)
// @Param sort query string false "並び替えキー" Enums(date, name, createdAt) default(date)
// @Param order query string false "並び順" Enums(asc, desc) default(asc)
// @Param isActive query bool false "有効フラグで絞り込み"
// @Param location query string false "開催場所の部分一致（大文字小文字を区別しない）"
// @Param dateFrom query string false "開催日の下限 (RFC3339 または YYYY-MM-DD)"
// @Param dateTo query string false "開催日の上限 (RFC3339 または YYYY-MM-DD)"
// @Success 200 {object} ListEventsResponse
// @Failure 400 {object} api.ErrorResponse
// @Router /events [get]
func (h *EventHandler) List(c echo.Context) error {
	var req ListEventsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "クエリパラメータの形式が不正です").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	// 明示された 0 は既定値として扱わない
	if (c.QueryParam("page") != "" && req.Page == 0) || (c.QueryParam("limit") != "" && req.Limit == 0) {
		return echo.NewHTTPError(http.StatusBadRequest, "page と limit は 1 以上である必要があります")
	}

	query, err := req.toQuery()
	if err != nil {
		return err
	}

	page, err := h.eventService.ListEvents(c.Request().Context(), query)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toListEventsResponse(page))
}

// Update godoc
// @Summary イベントを更新
// @Description 指定IDのイベントを更新します（指定したフィールドのみ）
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "イベントID (UUID)"
// @Param request body UpdateEventRequest true "イベント情報"
// @Success 200 {object} EventResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [put]
// @Router /events/{id} [patch]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}

	var req UpdateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "リクエストの形式が不正です").SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	patch, err := req.toPatch()
	if err != nil {
		return err
	}

	e, err := h.eventService.UpdateEvent(c.Request().Context(), application.UpdateEventInput{
		ID:    id,
		Patch: patch,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toEventResponse(e))
}

// Delete godoc
// @Summary イベントを削除
// @Description 指定IDのイベントを削除します
// @Tags events
// @Param id path string true "イベントID (UUID)"
// @Success 204
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse
// @Router /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	id, err := eventID(c)
	if err != nil {
		return err
	}
	if err := h.eventService.DeleteEvent(c.Request().Context(), id); err != nil {
		return toHTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// eventID はパスパラメータのIDを取得し、UUID形式であることを確認する
func eventID(c echo.Context) (string, error) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "イベントIDの形式が不正です")
	}
	return id, nil
}

func (r UpdateEventRequest) toPatch() (event.Patch, error) {
	patch := event.Patch{
		Name:        r.Name,
		Description: r.Description,
		Location:    r.Location,
		Capacity:    r.Capacity,
		IsActive:    r.IsActive,
	}
	if r.Date != nil {
		date, err := parseDate(*r.Date)
		if err != nil {
			return event.Patch{}, echo.NewHTTPError(http.StatusBadRequest, "開催日時の形式が不正です")
		}
		patch.Date = &date
	}
	return patch, nil
}

func (r ListEventsRequest) toQuery() (event.Query, error) {
	query := event.Query{
		Page:     r.Page,
		Limit:    r.Limit,
		Sort:     event.SortField(r.Sort),
		Order:    event.SortOrder(r.Order),
		Location: r.Location,
	}

	if r.IsActive != "" {
		active, err := strconv.ParseBool(r.IsActive)
		if err != nil {
			return event.Query{}, echo.NewHTTPError(http.StatusBadRequest, "isActive の形式が不正です")
		}
		query.IsActive = &active
	}

	if r.DateFrom != "" {
		from, err := parseDate(r.DateFrom)
		if err != nil {
			return event.Query{}, echo.NewHTTPError(http.StatusBadRequest, "dateFrom の形式が不正です")
		}
		query.DateFrom = &from
	}
	if r.DateTo != "" {
		to, err := parseDate(r.DateTo)
		if err != nil {
			return event.Query{}, echo.NewHTTPError(http.StatusBadRequest, "dateTo の形式が不正です")
		}
		query.DateTo = &to
	}
	if query.DateFrom != nil && query.DateTo != nil && query.DateFrom.After(*query.DateTo) {
		return event.Query{}, echo.NewHTTPError(http.StatusBadRequest, "dateFrom は dateTo 以前である必要があります")
	}

	return query, nil
}

// parseDate は RFC3339 または YYYY-MM-DD（UTCの0時）を受け付ける
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(dateOnlyLayout, s)
}

// toHTTPError はサービスのエラーをHTTPエラーに変換する
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "イベントが見つかりません").SetInternal(err)
	case errors.Is(err, application.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, event.ErrOptimisticLockConflict):
		return echo.NewHTTPError(http.StatusConflict, "イベントが同時に更新されました。再度お試しください").SetInternal(err)
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "内部サーバーエラー").SetInternal(err)
	}
}
