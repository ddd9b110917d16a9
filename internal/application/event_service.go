package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cafebugado/backendEventos/internal/domain/event"
	"github.com/cafebugado/backendEventos/internal/pkg/logger"
	"github.com/cafebugado/backendEventos/internal/pkg/metrics"
)

// ErrValidation は入力値の検証エラーを表す
var ErrValidation = errors.New("バリデーションエラー")

// 楽観的ロックの競合時の再試行回数
const maxUpdateAttempts = 3

// 操作ラベル
const (
	opCreate = "create"
	opGet    = "get"
	opList   = "list"
	opUpdate = "update"
	opDelete = "delete"
)

type EventService struct {
	eventRepo event.Repository
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewEventService は EventService を作成する
// m が nil の場合はメトリクスを記録しない
func NewEventService(eventRepo event.Repository, m *metrics.Metrics) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		metrics:   m,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CreateEventInput struct {
	Name        string
	Description string
	Location    string
	Date        time.Time
	Capacity    int
	IsActive    *bool
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := event.NewEvent(input.Name, input.Description, input.Location, input.Date, input.Capacity, input.IsActive)
	if err := e.Validate(); err != nil {
		s.record(opCreate, err)
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		s.record(opCreate, err)
		return nil, fmt.Errorf("イベント作成に失敗しました: %w", err)
	}
	s.record(opCreate, nil)
	logger.Info("イベントを作成しました", zap.String("event_id", e.ID), zap.String("name", e.Name))
	return e, nil
}

func (s *EventService) GetEvent(ctx context.Context, id string) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	s.record(opGet, err)
	return e, err
}

func (s *EventService) ListEvents(ctx context.Context, query event.Query) (*event.Page, error) {
	page, err := s.eventRepo.List(ctx, query.Normalize())
	s.record(opList, err)
	if err != nil {
		return nil, fmt.Errorf("イベント一覧取得に失敗しました: %w", err)
	}
	return page, nil
}

type UpdateEventInput struct {
	ID    string
	Patch event.Patch
}

// UpdateEvent は指定されたフィールドだけを更新する
// 同時更新で競合した場合は最新の状態を読み直して再試行する
func (s *EventService) UpdateEvent(ctx context.Context, input UpdateEventInput) (*event.Event, error) {
	var lastErr error
	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		e, err := s.eventRepo.GetByID(ctx, input.ID)
		if err != nil {
			s.record(opUpdate, err)
			return nil, err
		}

		e.Apply(input.Patch, s.now())
		if err := e.Validate(); err != nil {
			s.record(opUpdate, err)
			return nil, fmt.Errorf("%w: %w", ErrValidation, err)
		}

		err = s.eventRepo.Update(ctx, e)
		if err == nil {
			s.record(opUpdate, nil)
			logger.Info("イベントを更新しました", zap.String("event_id", e.ID), zap.Int("version", e.Version))
			return e, nil
		}
		if !errors.Is(err, event.ErrOptimisticLockConflict) {
			s.record(opUpdate, err)
			return nil, err
		}

		lastErr = err
		logger.Debug("更新が競合したため再試行します", zap.String("event_id", input.ID), zap.Int("attempt", attempt))
	}
	s.record(opUpdate, lastErr)
	return nil, fmt.Errorf("イベント更新に失敗しました: %w", lastErr)
}

func (s *EventService) DeleteEvent(ctx context.Context, id string) error {
	err := s.eventRepo.Delete(ctx, id)
	s.record(opDelete, err)
	if err != nil {
		return err
	}
	logger.Info("イベントを削除しました", zap.String("event_id", id))
	return nil
}

// EventStats は保存中のイベント件数を返す
func (s *EventService) EventStats(ctx context.Context) (event.Stats, error) {
	return s.eventRepo.Stats(ctx)
}

func (s *EventService) record(operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperation(operation, operationStatus(err))
}

func operationStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, event.ErrEventNotFound):
		return "not_found"
	case errors.Is(err, event.ErrOptimisticLockConflict):
		return "conflict"
	case isValidationError(err):
		return "invalid"
	default:
		return "error"
	}
}

func isValidationError(err error) bool {
	for _, target := range []error{
		ErrValidation,
		event.ErrEventNameRequired,
		event.ErrEventNameTooLong,
		event.ErrDescriptionRequired,
		event.ErrDescriptionTooLong,
		event.ErrLocationRequired,
		event.ErrLocationTooLong,
		event.ErrInvalidCapacity,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
