package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafebugado/backendEventos/internal/domain/event"
	"github.com/cafebugado/backendEventos/internal/infrastructure/memory"
)

// インメモリストアを使ったシナリオテスト

func TestScenario_EventLifecycle(t *testing.T) {
	service := NewEventService(memory.NewEventStore(), nil)
	ctx := context.Background()

	created, err := service.CreateEvent(ctx, validCreateInput())
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	found, err := service.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)

	newDate := time.Date(2026, 6, 20, 10, 0, 0, 0, time.UTC)
	updated, err := service.UpdateEvent(ctx, UpdateEventInput{
		ID:    created.ID,
		Patch: event.Patch{Date: &newDate},
	})
	require.NoError(t, err)
	assert.Equal(t, newDate, updated.Date)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Location, updated.Location)
	assert.Equal(t, created.Capacity, updated.Capacity)
	assert.Equal(t, created.IsActive, updated.IsActive)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	require.NoError(t, service.DeleteEvent(ctx, created.ID))

	_, err = service.GetEvent(ctx, created.ID)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
	name := "再更新"
	_, err = service.UpdateEvent(ctx, UpdateEventInput{ID: created.ID, Patch: event.Patch{Name: &name}})
	assert.ErrorIs(t, err, event.ErrEventNotFound)
	assert.ErrorIs(t, service.DeleteEvent(ctx, created.ID), event.ErrEventNotFound)
}

func TestScenario_ListSortedByDateDesc(t *testing.T) {
	service := NewEventService(memory.NewEventStore(), nil)
	ctx := context.Background()

	alpha := validCreateInput()
	alpha.Name = "Alpha"
	alpha.Date = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	beta := validCreateInput()
	beta.Name = "Beta"
	beta.Date = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, err := service.CreateEvent(ctx, alpha)
	require.NoError(t, err)
	_, err = service.CreateEvent(ctx, beta)
	require.NoError(t, err)

	page, err := service.ListEvents(ctx, event.Query{Sort: event.SortByDate, Order: event.OrderDesc})
	require.NoError(t, err)

	require.Len(t, page.Data, 2)
	assert.Equal(t, "Beta", page.Data[0].Name)
	assert.Equal(t, "Alpha", page.Data[1].Name)
	assert.Equal(t, 2, page.Meta.Total)
	assert.Equal(t, 1, page.Meta.TotalPages)
	assert.Equal(t, 9, page.Meta.Limit)
}

func TestScenario_ConcurrentPatchesAreNotLost(t *testing.T) {
	service := NewEventService(memory.NewEventStore(), nil)
	ctx := context.Background()

	created, err := service.CreateEvent(ctx, validCreateInput())
	require.NoError(t, err)

	// 異なるフィールドを同時に更新しても両方が反映される
	name := "並行更新"
	capacity := 999
	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = service.UpdateEvent(ctx, UpdateEventInput{ID: created.ID, Patch: event.Patch{Name: &name}})
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = service.UpdateEvent(ctx, UpdateEventInput{ID: created.ID, Patch: event.Patch{Capacity: &capacity}})
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	found, err := service.GetEvent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "並行更新", found.Name)
	assert.Equal(t, 999, found.Capacity)
	assert.Equal(t, 2, found.Version)
}
