package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/repository"
	"planner/session"
)

func newListStore(t *testing.T, sess session.Session) (*ListStore, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	return NewListStore(repo, sess, testLogger()), repo
}

func TestAddTodoAppendsToTargetListOnly(t *testing.T) {
	st, _ := newListStore(t, ownerA)
	ctx := context.Background()

	listA, err := st.AddList(ctx, "Home", "")
	require.NoError(t, err)
	listB, err := st.AddList(ctx, "Errands", "green")
	require.NoError(t, err)

	created, err := st.AddTodo(ctx, listB.ListID, "Buy milk")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, listB.ListID, created.ListID)
	assert.False(t, created.Completed)

	byID := func(id string) []string {
		for _, l := range st.Lists() {
			if l.ListID == id {
				titles := make([]string, len(l.Todos))
				for i, todo := range l.Todos {
					titles[i] = todo.Title
				}
				return titles
			}
		}
		return nil
	}
	assert.Empty(t, byID(listA.ListID))
	assert.Equal(t, []string{"Buy milk"}, byID(listB.ListID))

	// Survives a full reload.
	require.NoError(t, st.LoadLists(ctx))
	assert.Empty(t, byID(listA.ListID))
	assert.Equal(t, []string{"Buy milk"}, byID(listB.ListID))
}

func TestAddTodoUnknownListIsNoOp(t *testing.T) {
	st, _ := newListStore(t, ownerA)

	created, err := st.AddTodo(context.Background(), "missing", "orphan")
	assert.NoError(t, err)
	assert.Nil(t, created)
}

func TestToggleTodo(t *testing.T) {
	st, _ := newListStore(t, ownerA)
	ctx := context.Background()

	l, err := st.AddList(ctx, "Home", "")
	require.NoError(t, err)
	todo, err := st.AddTodo(ctx, l.ListID, "water plants")
	require.NoError(t, err)

	require.NoError(t, st.ToggleTodo(ctx, l.ListID, todo.TodoID))
	assert.True(t, st.Lists()[0].Todos[0].Completed)

	require.NoError(t, st.ToggleTodo(ctx, l.ListID, todo.TodoID))
	assert.False(t, st.Lists()[0].Todos[0].Completed)

	// Unknown todo: silent no-op.
	assert.NoError(t, st.ToggleTodo(ctx, l.ListID, "missing"))
}

func TestToggleTodoRemoteFailureLeavesLocalUnchanged(t *testing.T) {
	st, repo := newListStore(t, ownerA)
	ctx := context.Background()

	l, err := st.AddList(ctx, "Home", "")
	require.NoError(t, err)
	todo, err := st.AddTodo(ctx, l.ListID, "water plants")
	require.NoError(t, err)

	repo.FailUpdate = errors.New("backend unavailable")
	err = st.ToggleTodo(ctx, l.ListID, todo.TodoID)
	require.Error(t, err)
	assert.False(t, st.Lists()[0].Todos[0].Completed)
	assert.Error(t, st.Err())
}

func TestRemoveTodoFailureKeepsTodoVisible(t *testing.T) {
	st, repo := newListStore(t, ownerA)
	ctx := context.Background()

	l, err := st.AddList(ctx, "Home", "")
	require.NoError(t, err)
	todo, err := st.AddTodo(ctx, l.ListID, "stubborn")
	require.NoError(t, err)

	repo.FailDelete = errors.New("backend unavailable")
	require.Error(t, st.RemoveTodo(ctx, l.ListID, todo.TodoID))
	require.Len(t, st.Lists()[0].Todos, 1)

	require.NoError(t, st.RemoveTodo(ctx, l.ListID, todo.TodoID))
	assert.Empty(t, st.Lists()[0].Todos)
}

func TestListStoreUnauthenticatedIsInert(t *testing.T) {
	st, _ := newListStore(t, session.Session{})
	ctx := context.Background()

	l, err := st.AddList(ctx, "nope", "")
	assert.NoError(t, err)
	assert.Nil(t, l)
	assert.NoError(t, st.LoadLists(ctx))
	assert.Empty(t, st.Lists())
}

func TestListOwnershipIsolation(t *testing.T) {
	repo := repository.NewMemoryRepository()
	storeA := NewListStore(repo, ownerA, testLogger())
	storeB := NewListStore(repo, ownerB, testLogger())
	ctx := context.Background()

	l, err := storeA.AddList(ctx, "Private", "")
	require.NoError(t, err)
	todo, err := storeA.AddTodo(ctx, l.ListID, "secret")
	require.NoError(t, err)

	require.NoError(t, storeB.LoadLists(ctx))
	assert.Empty(t, storeB.Lists())

	// Owner B cannot reach A's todo even going straight to the repository.
	err = repo.UpdateTodo(ctx, todo.TodoID, ownerB.UserID, map[string]any{"completed": true})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = repo.DeleteTodo(ctx, todo.TodoID, ownerB.UserID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
