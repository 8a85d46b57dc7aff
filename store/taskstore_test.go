package store

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/model"
	"planner/repository"
	"planner/session"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTaskStore(t *testing.T, sess session.Session) (*TaskStore, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	return NewTaskStore(repo, sess, testLogger()), repo
}

var ownerA = session.Session{UserID: "owner-a", Email: "a@example.com"}
var ownerB = session.Session{UserID: "owner-b", Email: "b@example.com"}

func TestAddPrependsAndLoadOrdersNewestFirst(t *testing.T) {
	st, _ := newTaskStore(t, ownerA)
	ctx := context.Background()

	first, err := st.Add(ctx, model.Task{Title: "first", Priority: model.PriorityMedium})
	require.NoError(t, err)
	require.NotEmpty(t, first.TaskID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, ownerA.UserID, first.OwnerID)

	time.Sleep(2 * time.Millisecond)
	second, err := st.Add(ctx, model.Task{Title: "second", Priority: model.PriorityHigh})
	require.NoError(t, err)

	tasks := st.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, second.TaskID, tasks[0].TaskID)
	assert.Equal(t, first.TaskID, tasks[1].TaskID)

	require.NoError(t, st.Load(ctx))
	tasks = st.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "second", tasks[0].Title)
	assert.Equal(t, "first", tasks[1].Title)
}

func TestAddRequiresTitleAndPriority(t *testing.T) {
	st, _ := newTaskStore(t, ownerA)
	ctx := context.Background()

	_, err := st.Add(ctx, model.Task{Priority: model.PriorityLow})
	assert.ErrorIs(t, err, ErrInvalidTask)

	_, err = st.Add(ctx, model.Task{Title: "no priority"})
	assert.ErrorIs(t, err, ErrInvalidTask)

	assert.Empty(t, st.Tasks())
}

func TestOwnershipIsolation(t *testing.T) {
	repo := repository.NewMemoryRepository()
	storeA := NewTaskStore(repo, ownerA, testLogger())
	storeB := NewTaskStore(repo, ownerB, testLogger())
	ctx := context.Background()

	created, err := storeA.Add(ctx, model.Task{Title: "private", Priority: model.PriorityMedium})
	require.NoError(t, err)

	require.NoError(t, storeB.Load(ctx))
	assert.Empty(t, storeB.Tasks(), "owner B must not see owner A's tasks")

	completed := true
	err = storeB.Update(ctx, created.TaskID, TaskPatch{Completed: &completed})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = storeB.Remove(ctx, created.TaskID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	remaining, err := repo.List(ctx, ownerA.UserID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.False(t, remaining[0].Completed, "owner B's write must not touch the record")
}

func TestUpdateOptimisticMergeWithoutRollback(t *testing.T) {
	st, repo := newTaskStore(t, ownerA)
	ctx := context.Background()

	created, err := st.Add(ctx, model.Task{Title: "pay rent", Priority: model.PriorityHigh})
	require.NoError(t, err)

	completed := true
	require.NoError(t, st.Update(ctx, created.TaskID, TaskPatch{Completed: &completed}))
	assert.True(t, st.Tasks()[0].Completed)
	assert.NoError(t, st.Err())

	// Remote failure: the optimistic merge stays in place.
	notCompleted := false
	repo.FailUpdate = errors.New("backend unavailable")
	err = st.Update(ctx, created.TaskID, TaskPatch{Completed: &notCompleted})
	require.Error(t, err)
	assert.False(t, st.Tasks()[0].Completed, "local merge must not be rolled back")
	assert.Error(t, st.Err())

	// The remote store still has the last successful write; the next
	// Load resynchronizes.
	require.NoError(t, st.Load(ctx))
	assert.True(t, st.Tasks()[0].Completed)
}

func TestAddFailureLeavesCacheUnchanged(t *testing.T) {
	st, repo := newTaskStore(t, ownerA)
	ctx := context.Background()

	_, err := st.Add(ctx, model.Task{Title: "kept", Priority: model.PriorityLow})
	require.NoError(t, err)

	repo.FailInsert = errors.New("backend unavailable")
	created, err := st.Add(ctx, model.Task{Title: "dropped", Priority: model.PriorityLow})
	require.Error(t, err)
	assert.Nil(t, created)
	assert.Error(t, st.Err())

	tasks := st.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "kept", tasks[0].Title)
}

func TestRemoveFailureKeepsTaskVisible(t *testing.T) {
	st, repo := newTaskStore(t, ownerA)
	ctx := context.Background()

	created, err := st.Add(ctx, model.Task{Title: "stubborn", Priority: model.PriorityMedium})
	require.NoError(t, err)

	repo.FailDelete = errors.New("backend unavailable")
	err = st.Remove(ctx, created.TaskID)
	require.Error(t, err)
	require.Len(t, st.Tasks(), 1)

	// Still present on the next full load.
	require.NoError(t, st.Load(ctx))
	require.Len(t, st.Tasks(), 1)
	assert.Equal(t, created.TaskID, st.Tasks()[0].TaskID)

	// And removable once the backend recovers.
	require.NoError(t, st.Remove(ctx, created.TaskID))
	assert.Empty(t, st.Tasks())
}

func TestLoadFailureEmptiesCacheAndRecordsError(t *testing.T) {
	st, repo := newTaskStore(t, ownerA)
	ctx := context.Background()

	_, err := st.Add(ctx, model.Task{Title: "cached", Priority: model.PriorityLow})
	require.NoError(t, err)

	repo.FailList = errors.New("backend unavailable")
	err = st.Load(ctx)
	require.Error(t, err)
	assert.Empty(t, st.Tasks())
	assert.Error(t, st.Err())

	require.NoError(t, st.Load(ctx))
	assert.Len(t, st.Tasks(), 1)
	assert.NoError(t, st.Err())
}

func TestToggleCompletionUnknownIDIsNoOp(t *testing.T) {
	st, _ := newTaskStore(t, ownerA)
	assert.NoError(t, st.ToggleCompletion(context.Background(), "missing"))
	assert.NoError(t, st.Err())
}

func TestToggleSubtaskIsolation(t *testing.T) {
	st, repo := newTaskStore(t, ownerA)
	ctx := context.Background()

	t1, err := st.Add(ctx, model.Task{
		Title:    "groceries",
		Priority: model.PriorityMedium,
		Subtasks: []model.Subtask{
			{SubtaskID: "s1", Title: "milk"},
			{SubtaskID: "s2", Title: "bread"},
			{SubtaskID: "s3", Title: "eggs"},
		},
	})
	require.NoError(t, err)

	t2, err := st.Add(ctx, model.Task{
		Title:    "chores",
		Priority: model.PriorityLow,
		Subtasks: []model.Subtask{{SubtaskID: "s1", Title: "laundry"}},
	})
	require.NoError(t, err)

	require.NoError(t, st.ToggleSubtask(ctx, t1.TaskID, "s2"))

	var cached1, cached2 model.Task
	for _, task := range st.Tasks() {
		switch task.TaskID {
		case t1.TaskID:
			cached1 = task
		case t2.TaskID:
			cached2 = task
		}
	}

	assert.False(t, cached1.Subtasks[0].Completed)
	assert.True(t, cached1.Subtasks[1].Completed)
	assert.False(t, cached1.Subtasks[2].Completed)
	assert.False(t, cached2.Subtasks[0].Completed, "other tasks' subtasks stay untouched")

	// The whole subtask sequence was replaced remotely.
	remote, err := repo.List(ctx, ownerA.UserID)
	require.NoError(t, err)
	for _, task := range remote {
		if task.TaskID != t1.TaskID {
			continue
		}
		sub, ok := task.Subtask("s2")
		require.True(t, ok)
		assert.True(t, sub.Completed)
	}

	// Unknown subtask id: silent no-op.
	require.NoError(t, st.ToggleSubtask(ctx, t1.TaskID, "nope"))
	require.NoError(t, st.ToggleSubtask(ctx, "missing-task", "s1"))
}

func TestUnauthenticatedSessionIsInert(t *testing.T) {
	st, repo := newTaskStore(t, session.Session{})
	ctx := context.Background()

	created, err := st.Add(ctx, model.Task{Title: "ghost", Priority: model.PriorityLow})
	assert.NoError(t, err)
	assert.Nil(t, created)

	assert.NoError(t, st.Load(ctx))
	assert.NoError(t, st.Update(ctx, "any", TaskPatch{}))
	assert.NoError(t, st.Remove(ctx, "any"))
	assert.Empty(t, st.Tasks())

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all, "nothing may reach the repository without an owner")
}
