package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/cafebugado/backendEventos/internal/domain/event"
)

// EventStore はイベントリポジトリのインメモリ実装
// 書き込みは単一のロックで直列化する
type EventStore struct {
	mu     sync.RWMutex
	events map[string]*event.Event
	order  []string // 挿入順のID
	newID  func() string
}

// NewEventStore は空の EventStore を作成する
func NewEventStore() *EventStore {
	return &EventStore{
		events: make(map[string]*event.Event),
		newID:  uuid.NewString,
	}
}

// Create は新しいイベントを保存し、IDを採番する
func (s *EventStore) Create(ctx context.Context, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	for {
		if _, exists := s.events[id]; !exists {
			break
		}
		id = s.newID()
	}

	e.ID = id
	s.events[id] = e.Clone()
	s.order = append(s.order, id)
	return nil
}

// GetByID はIDからイベントを取得する
func (s *EventStore) GetByID(ctx context.Context, id string) (*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.events[id]
	if !ok {
		return nil, event.NewNotFoundError(id)
	}
	return e.Clone(), nil
}

// List は絞り込み・並び替え・ページングした一覧を取得する
func (s *EventStore) List(ctx context.Context, query event.Query) (*event.Page, error) {
	s.mu.RLock()
	snapshot := make([]*event.Event, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.events[id].Clone())
	}
	s.mu.RUnlock()

	return event.Process(snapshot, query), nil
}

// Update はイベントを更新する（楽観的ロック）
// 保存済みの Version と一致しない場合は ErrOptimisticLockConflict を返す
func (s *EventStore) Update(ctx context.Context, e *event.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.events[e.ID]
	if !ok {
		return event.NewNotFoundError(e.ID)
	}
	if current.Version != e.Version {
		return event.ErrOptimisticLockConflict
	}

	e.Version++
	updated := e.Clone()
	updated.CreatedAt = current.CreatedAt
	s.events[e.ID] = updated
	return nil
}

// Delete はイベントを削除する
func (s *EventStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[id]; !ok {
		return event.NewNotFoundError(id)
	}
	delete(s.events, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return nil
}

// Stats は保存中のイベント件数を集計する
func (s *EventStore) Stats(ctx context.Context) (event.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := event.Stats{Total: len(s.events)}
	for _, e := range s.events {
		if e.IsActive {
			stats.Active++
		}
	}
	return stats, nil
}

// インターフェースを満たしているか確認
var _ event.Repository = (*EventStore)(nil)
