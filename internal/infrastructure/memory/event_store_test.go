package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafebugado/backendEventos/internal/domain/event"
)

func newTestEvent(name string, date time.Time) *event.Event {
	return event.NewEvent(name, "テスト説明", "São Paulo, Brazil", date, 100, nil)
}

func TestEventStore_Create(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	e := newTestEvent("テストイベント", time.Now())
	err := store.Create(ctx, e)

	require.NoError(t, err)
	_, parseErr := uuid.Parse(e.ID)
	assert.NoError(t, parseErr)

	t.Run("IDは一意", func(t *testing.T) {
		other := newTestEvent("別イベント", time.Now())
		require.NoError(t, store.Create(ctx, other))
		assert.NotEqual(t, e.ID, other.ID)
	})

	t.Run("採番済みIDと衝突した場合は再採番する", func(t *testing.T) {
		ids := []string{e.ID, "fresh-id"}
		store.newID = func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}
		defer func() { store.newID = uuid.NewString }()

		dup := newTestEvent("衝突", time.Now())
		require.NoError(t, store.Create(ctx, dup))
		assert.Equal(t, "fresh-id", dup.ID)
	})
}

func TestEventStore_GetByID(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	created := newTestEvent("テストイベント", time.Now())
	require.NoError(t, store.Create(ctx, created))

	t.Run("作成直後のイベントと一致する", func(t *testing.T) {
		found, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, found)
	})

	t.Run("返却値を変更しても保存内容は変わらない", func(t *testing.T) {
		found, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		found.Name = "書き換え"

		again, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "テストイベント", again.Name)
	})

	t.Run("存在しないIDはNotFound", func(t *testing.T) {
		_, err := store.GetByID(ctx, "non-existent")
		require.Error(t, err)
		assert.ErrorIs(t, err, event.ErrEventNotFound)

		var nf *event.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "non-existent", nf.ID)
	})
}

func TestEventStore_Update(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	created := newTestEvent("旧イベント名", time.Now())
	require.NoError(t, store.Create(ctx, created))

	t.Run("更新内容が保存される", func(t *testing.T) {
		e, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		name := "新イベント名"
		e.Apply(event.Patch{Name: &name}, time.Now().UTC())

		require.NoError(t, store.Update(ctx, e))
		assert.Equal(t, 1, e.Version)

		found, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "新イベント名", found.Name)
		assert.Equal(t, created.Description, found.Description)
		assert.Equal(t, created.CreatedAt, found.CreatedAt)
		assert.Equal(t, 1, found.Version)
	})

	t.Run("古いバージョンでの更新は競合", func(t *testing.T) {
		stale, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		fresh, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)

		require.NoError(t, store.Update(ctx, fresh))
		err = store.Update(ctx, stale)
		assert.ErrorIs(t, err, event.ErrOptimisticLockConflict)
	})

	t.Run("CreatedAtは変更されない", func(t *testing.T) {
		e, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		e.CreatedAt = time.Time{}

		require.NoError(t, store.Update(ctx, e))

		found, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.CreatedAt, found.CreatedAt)
	})

	t.Run("存在しないIDはNotFound", func(t *testing.T) {
		err := store.Update(ctx, &event.Event{ID: "non-existent"})
		assert.ErrorIs(t, err, event.ErrEventNotFound)
	})
}

func TestEventStore_Delete(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	created := newTestEvent("削除対象", time.Now())
	require.NoError(t, store.Create(ctx, created))
	kept := newTestEvent("残るイベント", time.Now())
	require.NoError(t, store.Create(ctx, kept))

	require.NoError(t, store.Delete(ctx, created.ID))

	_, err := store.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
	assert.ErrorIs(t, store.Update(ctx, created), event.ErrEventNotFound)
	assert.ErrorIs(t, store.Delete(ctx, created.ID), event.ErrEventNotFound)

	page, err := store.List(ctx, event.Query{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, kept.ID, page.Data[0].ID)
}

func TestEventStore_List(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	t.Run("初期状態は空", func(t *testing.T) {
		page, err := store.List(ctx, event.Query{})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.Equal(t, 0, page.Meta.Total)
	})

	require.NoError(t, store.Create(ctx, newTestEvent("Alpha", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))))
	require.NoError(t, store.Create(ctx, newTestEvent("Beta", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))))

	t.Run("開催日の降順", func(t *testing.T) {
		page, err := store.List(ctx, event.Query{Sort: event.SortByDate, Order: event.OrderDesc})
		require.NoError(t, err)
		require.Len(t, page.Data, 2)
		assert.Equal(t, "Beta", page.Data[0].Name)
		assert.Equal(t, "Alpha", page.Data[1].Name)
		assert.Equal(t, event.PageMeta{Total: 2, Page: 1, Limit: 9, TotalPages: 1}, page.Meta)
	})

	t.Run("一覧の返却値を変更しても保存内容は変わらない", func(t *testing.T) {
		page, err := store.List(ctx, event.Query{})
		require.NoError(t, err)
		page.Data[0].Name = "書き換え"

		again, err := store.List(ctx, event.Query{})
		require.NoError(t, err)
		assert.Equal(t, "Alpha", again.Data[0].Name)
	})
}

func TestEventStore_Stats(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	inactive := false
	require.NoError(t, store.Create(ctx, newTestEvent("有効", time.Now())))
	require.NoError(t, store.Create(ctx, event.NewEvent("無効", "説明", "東京", time.Now(), 10, &inactive)))

	stats, err := store.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Inactive())
}

func TestEventStore_ConcurrentCreate(t *testing.T) {
	store := NewEventStore()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Create(ctx, newTestEvent(fmt.Sprintf("event-%d", i), time.Now()))
		}(i)
	}
	wg.Wait()

	page, err := store.List(ctx, event.Query{Limit: event.MaxLimit})
	require.NoError(t, err)
	assert.Equal(t, workers, page.Meta.Total)

	seen := make(map[string]struct{}, workers)
	for _, e := range page.Data {
		seen[e.ID] = struct{}{}
	}
	assert.Len(t, seen, workers)
}
