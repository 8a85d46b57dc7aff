package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/model"
)

func TestMemoryOwnerScoping(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	mine, err := repo.Insert(ctx, model.Task{OwnerID: "owner-a", Title: "mine", Priority: model.PriorityLow})
	require.NoError(t, err)
	_, err = repo.Insert(ctx, model.Task{OwnerID: "owner-b", Title: "theirs", Priority: model.PriorityLow})
	require.NoError(t, err)

	tasks, err := repo.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Title)

	err = repo.UpdateFields(ctx, mine.TaskID, "owner-b", map[string]any{"completed": true})
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.Delete(ctx, mine.TaskID, "owner-b")
	assert.ErrorIs(t, err, ErrNotFound)

	tasks, err = repo.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed)
}

func TestMemoryUpdateBumpsUpdatedAt(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, model.Task{OwnerID: "owner-a", Title: "t", Priority: model.PriorityLow})
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, repo.UpdateFields(ctx, created.TaskID, "owner-a", map[string]any{"title": "renamed"}))

	tasks, err := repo.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "renamed", tasks[0].Title)
	assert.True(t, tasks[0].UpdatedAt.After(created.UpdatedAt), "updatedat must move forward")
	assert.Equal(t, created.CreatedAt, tasks[0].CreatedAt)
}

func TestMemoryUpdateUnknownID(t *testing.T) {
	repo := NewMemoryRepository()
	err := repo.UpdateFields(context.Background(), "missing", "owner-a", map[string]any{"completed": true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRecurringRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	created, err := repo.Insert(ctx, model.Task{
		OwnerID:   "owner-a",
		Title:     "standup",
		Priority:  model.PriorityMedium,
		Recurring: &model.Recurring{Type: model.RecurringDaily},
	})
	require.NoError(t, err)

	custom := &model.Recurring{Type: model.RecurringCustom, Interval: 3}
	require.NoError(t, repo.UpdateFields(ctx, created.TaskID, "owner-a", map[string]any{"recurring": custom}))

	tasks, err := repo.List(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.NotNil(t, tasks[0].Recurring)
	assert.Equal(t, model.RecurringCustom, tasks[0].Recurring.Type)
	assert.Equal(t, 3, tasks[0].Recurring.Interval)
}
